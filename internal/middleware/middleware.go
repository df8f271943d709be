// Package middleware provides the gin middleware of the HTTP API: identity, tenant
// resolution, request ids, access logging, metrics and error mapping.
package middleware

// Context keys shared by middleware and controllers
const (
	UserIDKey = "userID"
	EmailKey  = "email"
	TenantKey = "tenant"
)

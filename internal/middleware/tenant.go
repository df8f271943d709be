package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/tuhmaz/edu/internal/tenant"
)

// CountryParam is the query parameter naming the tenant
const CountryParam = "country"

// Tenant resolves the ?country= parameter into a tenant. Unknown countries fall back to the default partition.
func Tenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(TenantKey, tenant.FromCountry(c.Query(CountryParam)))
		c.Next()
	}
}

// GetTenant returns the tenant resolved for the request
func GetTenant(c *gin.Context) tenant.Tenant {
	if v, ok := c.Get(TenantKey); ok {
		if t, ok := v.(tenant.Tenant); ok {
			return t
		}
	}
	return tenant.FromCountry(c.Query(CountryParam))
}

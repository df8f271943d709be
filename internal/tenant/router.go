// Package tenant maps a country name onto the database partition that stores its content.
package tenant

import (
	"strings"

	"github.com/gosimple/slug"
)

// Connection identifies one database partition.
type Connection string

// Known partitions
const (
	ConnectionJordan    Connection = "jo"
	ConnectionSaudi     Connection = "sa"
	ConnectionEgypt     Connection = "eg"
	ConnectionPalestine Connection = "ps"
)

// DefaultCountry is used when a request carries no country hint.
const DefaultCountry = "jordan"

// DefaultConnection receives every country that is not in the table.
const DefaultConnection = ConnectionJordan

var countryConnections = map[string]Connection{
	"jordan":    ConnectionJordan,
	"saudi":     ConnectionSaudi,
	"egypt":     ConnectionEgypt,
	"palestine": ConnectionPalestine,
}

// ResolveConnection returns the partition for a country name.
// The lookup never fails: unknown names, including "", resolve to DefaultConnection.
// Matching is exact, "Saudi" is not "saudi".
func ResolveConnection(country string) Connection {
	if conn, ok := countryConnections[country]; ok {
		return conn
	}
	return DefaultConnection
}

// Connections lists every partition in a stable order.
func Connections() []Connection {
	return []Connection{ConnectionJordan, ConnectionSaudi, ConnectionEgypt, ConnectionPalestine}
}

// ParseConnection accepts a raw partition id (e.g. taken from a URL) and reports whether it is known.
func ParseConnection(raw string) (Connection, bool) {
	conn := Connection(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Connections() {
		if conn == known {
			return conn, true
		}
	}
	return "", false
}

// Tenant is a resolved request scope.
type Tenant struct {
	Name       string
	Connection Connection
}

// FromCountry builds a Tenant from the request's country hint.
func FromCountry(country string) Tenant {
	if country == "" {
		country = DefaultCountry
	}
	return Tenant{Name: country, Connection: ResolveConnection(country)}
}

// Slug is the storage-path form of the tenant name.
func (t Tenant) Slug() string {
	s := slug.Make(t.Name)
	if s == "" {
		return slug.Make(DefaultCountry)
	}
	return s
}

// String implements fmt.Stringer
func (c Connection) String() string {
	return string(c)
}

// Country returns the country name that resolves to c
func (c Connection) Country() string {
	for country, conn := range countryConnections {
		if conn == c {
			return country
		}
	}
	return DefaultCountry
}

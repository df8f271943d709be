package tenant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveConnection(t *testing.T) {
	tests := []struct {
		country string
		want    Connection
	}{
		{"jordan", ConnectionJordan},
		{"saudi", ConnectionSaudi},
		{"egypt", ConnectionEgypt},
		{"palestine", ConnectionPalestine},
		{"", DefaultConnection},
		{"france", DefaultConnection},
		{"Saudi", DefaultConnection},
		{" egypt", DefaultConnection},
	}

	for _, tt := range tests {
		t.Run(tt.country, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveConnection(tt.country))
		})
	}
}

func TestResolveConnection_AlwaysKnownPartition(t *testing.T) {
	for _, country := range []string{"jordan", "saudi", "x", "", "🇯🇴", "palestine"} {
		conn := ResolveConnection(country)
		_, ok := ParseConnection(string(conn))
		assert.True(t, ok, "country %q resolved to unknown partition %q", country, conn)
	}
}

func TestParseConnection(t *testing.T) {
	conn, ok := ParseConnection(" SA ")
	assert.True(t, ok)
	assert.Equal(t, ConnectionSaudi, conn)

	_, ok = ParseConnection("xx")
	assert.False(t, ok)
}

func TestFromCountry(t *testing.T) {
	tn := FromCountry("")
	assert.Equal(t, "jordan", tn.Name)
	assert.Equal(t, ConnectionJordan, tn.Connection)
	assert.Equal(t, "jordan", tn.Slug())

	tn = FromCountry("egypt")
	assert.Equal(t, ConnectionEgypt, tn.Connection)
	assert.Equal(t, "egypt", tn.Slug())
}

func TestConnectionCountry(t *testing.T) {
	for _, conn := range Connections() {
		assert.Equal(t, conn, ResolveConnection(conn.Country()))
	}
	assert.Equal(t, "palestine", ConnectionPalestine.Country())
	assert.Equal(t, DefaultCountry, Connection("xx").Country())
}

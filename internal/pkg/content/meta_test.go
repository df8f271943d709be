package content

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestMetaDescriptionPrecedence(t *testing.T) {
	base := MetaInput{
		Title:    "Intro to fractions",
		Keywords: "math, fractions",
		Body:     "<p>Fractions <b>explained</b></p>",
	}

	tests := []struct {
		name string
		in   func(MetaInput) MetaInput
		want string
	}{
		{
			name: "explicit wins over every flag",
			in: func(m MetaInput) MetaInput {
				m.Explicit, m.UseTitle, m.UseKeywords = "Custom summary", true, true
				return m
			},
			want: "Custom summary",
		},
		{
			name: "title flag wins over keywords flag",
			in: func(m MetaInput) MetaInput {
				m.UseTitle, m.UseKeywords = true, true
				return m
			},
			want: "Intro to fractions",
		},
		{
			name: "keywords flag",
			in: func(m MetaInput) MetaInput {
				m.UseKeywords = true
				return m
			},
			want: "math, fractions",
		},
		{
			name: "keywords flag without keywords falls back to body",
			in: func(m MetaInput) MetaInput {
				m.UseKeywords, m.Keywords = true, "  "
				return m
			},
			want: "Fractions explained",
		},
		{
			name: "body fallback",
			in:   func(m MetaInput) MetaInput { return m },
			want: "Fractions explained",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MetaDescription(tt.in(base)))
		})
	}
}

func TestMetaDescriptionLengthBound(t *testing.T) {
	long := strings.Repeat("الرياضيات ممتعة ", 30)

	for _, in := range []MetaInput{
		{Explicit: long},
		{Title: long, UseTitle: true},
		{Keywords: long, UseKeywords: true},
		{Body: "<div>" + long + "</div>"},
	} {
		meta := MetaDescription(in)
		assert.LessOrEqual(t, utf8.RuneCountInString(meta), MetaDescriptionMaxLen)
		assert.True(t, utf8.ValidString(meta))
		assert.True(t, strings.HasSuffix(meta, "..."))
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcdefghij", Truncate("abcdefghij", 10))
	assert.Equal(t, "abcdefg...", Truncate("abcdefghijk", 10))
	assert.Equal(t, "ab...", Truncate("ab   cdefgh", 5))
	assert.Equal(t, "ééé", Truncate("éééé", 3))
	assert.Equal(t, "", Truncate("abc", 0))
}

func TestStripTags(t *testing.T) {
	assert.Equal(t, "Hello world", StripTags("<p>Hello <b>world</b></p><script>alert(1)</script>"))
	assert.Equal(t, "a & b", StripTags("a &amp; b"))
	assert.Equal(t, "plain text", StripTags("  plain \n text "))
}

func TestParseKeywords(t *testing.T) {
	assert.Equal(t, []string{"math", "science"}, ParseKeywords("math, science, math"))
	assert.Equal(t, []string{"جبر", "هندسة"}, ParseKeywords(" جبر ,, هندسة ,"))
	assert.Empty(t, ParseKeywords(""))
	assert.Empty(t, ParseKeywords(" , ,"))
}

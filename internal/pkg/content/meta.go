// Package content derives article metadata and renders keyword links into article bodies.
package content

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// MetaDescriptionMaxLen is the maximum length of a meta description in characters.
const MetaDescriptionMaxLen = 120

const ellipsis = "..."

// MetaInput is what a meta description is derived from.
type MetaInput struct {
	Explicit    string
	Title       string
	Keywords    string
	Body        string
	UseTitle    bool
	UseKeywords bool
}

// MetaDescription picks the first non-empty source in this order:
// the explicit value, the title (when UseTitle is set), the raw keyword string
// (when UseKeywords is set) and finally the body with markup stripped.
// The result is never longer than MetaDescriptionMaxLen characters.
func MetaDescription(in MetaInput) string {
	if meta := strings.TrimSpace(in.Explicit); meta != "" {
		return Truncate(meta, MetaDescriptionMaxLen)
	}

	if in.UseTitle {
		if title := strings.TrimSpace(in.Title); title != "" {
			return Truncate(title, MetaDescriptionMaxLen)
		}
	}

	if in.UseKeywords {
		if keywords := strings.TrimSpace(in.Keywords); keywords != "" {
			return Truncate(keywords, MetaDescriptionMaxLen)
		}
	}

	return Truncate(StripTags(in.Body), MetaDescriptionMaxLen)
}

// Truncate shortens s to at most max characters, marking the cut with "...".
// It never splits a multi-byte character.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}

	keep := max - utf8.RuneCountInString(ellipsis)
	if keep <= 0 {
		return string([]rune(s)[:max])
	}

	runes := []rune(s)[:keep]
	return strings.TrimRightFunc(string(runes), isSpace) + ellipsis
}

// StripTags returns the visible text of an HTML fragment with whitespace collapsed.
func StripTags(html string) string {
	if !strings.ContainsAny(html, "<&") {
		return collapseSpace(html)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return collapseSpace(html)
	}
	doc.Find("script, style, noscript").Remove()

	return collapseSpace(doc.Text())
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

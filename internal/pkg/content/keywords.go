package content

import "strings"

// ParseKeywords splits a comma separated keyword string into trimmed, non-empty,
// distinct tokens in first-seen order.
func ParseKeywords(raw string) []string {
	parts := strings.Split(raw, ",")
	seen := make(map[string]struct{}, len(parts))
	keywords := make([]string, 0, len(parts))

	for _, part := range parts {
		kw := strings.TrimSpace(part)
		if kw == "" {
			continue
		}
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}
		keywords = append(keywords, kw)
	}
	return keywords
}

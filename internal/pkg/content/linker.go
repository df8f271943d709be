package content

import (
	"html"
	"net/url"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Linker wraps keyword occurrences in article bodies with links to the keyword listing page.
//
// Matching is literal and case sensitive, bounded by non-word characters on each side.
// The body is scanned once: at each position the longest keyword wins, matches never
// overlap, markup inside tags is copied untouched and text already inside an <a>
// element is never linked again. The contents of script, style, textarea and title
// elements are copied verbatim. A '&' in a keyword also matches its "&amp;" form.
type Linker struct {
	basePath string
}

// NewLinker creates a Linker producing links under basePath, e.g. "/keywords".
func NewLinker(basePath string) *Linker {
	return &Linker{basePath: strings.TrimRight(basePath, "/")}
}

// Href is the listing page of a keyword in a partition.
func (l *Linker) Href(connection, keyword string) string {
	return l.basePath + "/" + url.PathEscape(connection) + "/" + url.PathEscape(keyword)
}

// Link renders body with every occurrence of keywords hyperlinked.
func (l *Linker) Link(connection, body string, keywords []string) string {
	terms := linkableTerms(keywords)
	if len(terms) == 0 || body == "" {
		return body
	}

	var b strings.Builder
	b.Grow(len(body) + len(body)/4)

	anchorDepth := 0
	for i := 0; i < len(body); {
		if body[i] == '<' {
			end := tagEnd(body, i)
			if end > i {
				tag := body[i:end]
				switch {
				case isOpenAnchor(tag):
					anchorDepth++
				case isCloseAnchor(tag) && anchorDepth > 0:
					anchorDepth--
				}
				b.WriteString(tag)
				i = end
				if name := rawTextElement(tag); name != "" {
					closeAt := rawTextEnd(body, i, name)
					b.WriteString(body[i:closeAt])
					i = closeAt
				}
				continue
			}
		}

		if anchorDepth == 0 {
			if term, ok := matchAt(body, i, terms); ok {
				b.WriteString(`<a href="`)
				b.WriteString(html.EscapeString(l.Href(connection, term.keyword)))
				b.WriteString(`">`)
				b.WriteString(term.text)
				b.WriteString(`</a>`)
				i += len(term.text)
				continue
			}
		}

		_, size := utf8.DecodeRuneInString(body[i:])
		b.WriteString(body[i : i+size])
		i += size
	}

	return b.String()
}

// term is the body text to look for and the keyword it links to
type term struct {
	text    string
	keyword string
}

// linkableTerms dedupes and orders keywords longest first. Keywords that
// contain markup characters can never match text and are dropped.
func linkableTerms(keywords []string) []term {
	seen := make(map[string]struct{}, len(keywords))
	terms := make([]term, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" || strings.ContainsAny(kw, "<>") {
			continue
		}
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}
		terms = append(terms, term{text: kw, keyword: kw})
		if strings.Contains(kw, "&") {
			terms = append(terms, term{text: strings.ReplaceAll(kw, "&", "&amp;"), keyword: kw})
		}
	}

	sort.SliceStable(terms, func(i, j int) bool {
		return utf8.RuneCountInString(terms[i].text) > utf8.RuneCountInString(terms[j].text)
	})
	return terms
}

func matchAt(body string, i int, terms []term) (term, bool) {
	prev, _ := utf8.DecodeLastRuneInString(body[:i])
	prevIsWord := i > 0 && isWordRune(prev)

	for _, t := range terms {
		if !strings.HasPrefix(body[i:], t.text) {
			continue
		}

		first, _ := utf8.DecodeRuneInString(t.text)
		if prevIsWord && isWordRune(first) {
			continue
		}

		end := i + len(t.text)
		if end < len(body) {
			next, _ := utf8.DecodeRuneInString(body[end:])
			last, _ := utf8.DecodeLastRuneInString(t.text)
			if isWordRune(next) && isWordRune(last) {
				continue
			}
		}
		return t, true
	}
	return term{}, false
}

var rawTextElements = []string{"script", "style", "textarea", "title"}

// rawTextElement returns the lower-case name when tag opens an element
// whose contents are not markup.
func rawTextElement(tag string) string {
	if len(tag) < 2 || !isASCIILetter(tag[1]) || strings.HasSuffix(tag, "/>") {
		return ""
	}
	for _, name := range rawTextElements {
		if len(tag) < len(name)+2 || !strings.EqualFold(tag[1:1+len(name)], name) {
			continue
		}
		if isNameEnd(tag[1+len(name)]) {
			return name
		}
	}
	return ""
}

// rawTextEnd returns the index of the closing tag of name at or after i,
// or len(body) when the element is never closed.
func rawTextEnd(body string, i int, name string) int {
	closing := "</" + name
	for j := i; j+len(closing) <= len(body); j++ {
		if body[j] != '<' || !strings.EqualFold(body[j:j+len(closing)], closing) {
			continue
		}
		if end := j + len(closing); end == len(body) || isNameEnd(body[end]) {
			return j
		}
	}
	return len(body)
}

func isNameEnd(c byte) bool {
	return c == '>' || c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '/'
}

// tagEnd returns the index just past the tag or comment starting at i,
// or i when body[i] does not start markup.
func tagEnd(body string, i int) int {
	if strings.HasPrefix(body[i:], "<!--") {
		if end := strings.Index(body[i+4:], "-->"); end >= 0 {
			return i + 4 + end + 3
		}
		return len(body)
	}

	if i+1 >= len(body) {
		return i
	}
	next := body[i+1]
	if !(next == '/' || next == '!' || next == '?' || isASCIILetter(next)) {
		return i
	}

	quote := byte(0)
	for j := i + 1; j < len(body); j++ {
		c := body[j]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '>':
			return j + 1
		}
	}
	return len(body)
}

func isOpenAnchor(tag string) bool {
	if len(tag) < 3 || (tag[1] != 'a' && tag[1] != 'A') {
		return false
	}
	c := tag[2]
	return c == '>' || c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isCloseAnchor(tag string) bool {
	if len(tag) < 4 || tag[1] != '/' || (tag[2] != 'a' && tag[2] != 'A') {
		return false
	}
	c := tag[3]
	return c == '>' || c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

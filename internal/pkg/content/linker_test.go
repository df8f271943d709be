package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinkerLink(t *testing.T) {
	l := NewLinker("/keywords/")

	tests := []struct {
		name     string
		body     string
		keywords []string
		want     string
	}{
		{
			name:     "single keyword",
			body:     "math is fun",
			keywords: []string{"math"},
			want:     `<a href="/keywords/jo/math">math</a> is fun`,
		},
		{
			name:     "every occurrence",
			body:     "math, more math",
			keywords: []string{"math"},
			want:     `<a href="/keywords/jo/math">math</a>, more <a href="/keywords/jo/math">math</a>`,
		},
		{
			name:     "word boundaries",
			body:     "mathematics and math",
			keywords: []string{"math"},
			want:     `mathematics and <a href="/keywords/jo/math">math</a>`,
		},
		{
			name:     "case sensitive",
			body:     "Math and math",
			keywords: []string{"math"},
			want:     `Math and <a href="/keywords/jo/math">math</a>`,
		},
		{
			name:     "longest match first without nesting",
			body:     "linear algebra beats algebra",
			keywords: []string{"algebra", "linear algebra"},
			want:     `<a href="/keywords/jo/linear%20algebra">linear algebra</a> beats <a href="/keywords/jo/algebra">algebra</a>`,
		},
		{
			name:     "existing anchors are left alone",
			body:     `<a href="/x">math</a> then math`,
			keywords: []string{"math"},
			want:     `<a href="/x">math</a> then <a href="/keywords/jo/math">math</a>`,
		},
		{
			name:     "markup is never rewritten",
			body:     `<img alt="math" src="math.png"><p class="math">math</p>`,
			keywords: []string{"math"},
			want:     `<img alt="math" src="math.png"><p class="math"><a href="/keywords/jo/math">math</a></p>`,
		},
		{
			name:     "comments are copied",
			body:     `<!-- math -->math`,
			keywords: []string{"math"},
			want:     `<!-- math --><a href="/keywords/jo/math">math</a>`,
		},
		{
			name:     "script and style contents are copied",
			body:     "<script>var math = 1;</script><STYLE type=\"text/css\">.math{}</STYLE> math",
			keywords: []string{"math"},
			want:     `<script>var math = 1;</script><STYLE type="text/css">.math{}</STYLE> <a href="/keywords/jo/math">math</a>`,
		},
		{
			name:     "textarea and title contents are copied",
			body:     "<title>math</title><textarea>math</textarea>math",
			keywords: []string{"math"},
			want:     `<title>math</title><textarea>math</textarea><a href="/keywords/jo/math">math</a>`,
		},
		{
			name:     "unclosed script swallows the rest",
			body:     "math<script>math",
			keywords: []string{"math"},
			want:     `<a href="/keywords/jo/math">math</a><script>math`,
		},
		{
			name:     "ampersand matches its entity",
			body:     "Q&amp;A and Q&A",
			keywords: []string{"Q&A"},
			want:     `<a href="/keywords/jo/Q&amp;A">Q&amp;A</a> and <a href="/keywords/jo/Q&amp;A">Q&A</a>`,
		},
		{
			name:     "stray angle bracket is text",
			body:     "1 < 2 math",
			keywords: []string{"math"},
			want:     `1 < 2 <a href="/keywords/jo/math">math</a>`,
		},
		{
			name:     "no keywords",
			body:     "math is fun",
			keywords: nil,
			want:     "math is fun",
		},
		{
			name:     "blank and duplicate keywords",
			body:     "math",
			keywords: []string{" ", "math", "math "},
			want:     `<a href="/keywords/jo/math">math</a>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, l.Link("jo", tt.body, tt.keywords))
		})
	}
}

func TestLinkerArabic(t *testing.T) {
	l := NewLinker("/keywords")

	out := l.Link("sa", "درس الرياضيات والرياضيات", []string{"الرياضيات"})

	assert.Equal(t, 1, strings.Count(out, "<a "))
	assert.Contains(t, out, `>الرياضيات</a>`)
	assert.Contains(t, out, `href="/keywords/sa/%D8%A7%D9%84`)
	assert.True(t, strings.HasSuffix(out, " والرياضيات"))
}

func TestLinkerIsIdempotent(t *testing.T) {
	l := NewLinker("/keywords")
	keywords := []string{"math", "linear algebra", "algebra"}

	once := l.Link("eg", "<p>math and linear algebra</p>", keywords)
	assert.Equal(t, once, l.Link("eg", once, keywords))
}

func TestLinkerHref(t *testing.T) {
	l := NewLinker("/keywords")
	assert.Equal(t, "/keywords/ps/a%2Fb", l.Href("ps", "a/b"))
}

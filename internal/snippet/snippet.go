// Package snippet builds editor template strings with numbered, tab-stop
// placeholders such as ${1} and ${2:caption}.
package snippet

import (
	"regexp"
	"strconv"
	"strings"
)

// String is a snippet template under construction. The zero value is an
// empty snippet ready to use.
type String struct {
	b    strings.Builder
	next int
}

// New returns an empty snippet.
func New() *String {
	return &String{}
}

// AppendText appends literal text, escaping snippet syntax.
func (s *String) AppendText(text string) *String {
	s.b.WriteString(Escape(text))
	return s
}

// AppendPlaceholder appends the next numbered placeholder with an optional
// default value and returns its number. Numbers start at 1.
func (s *String) AppendPlaceholder(value string) int {
	s.next++
	s.b.WriteString("${")
	s.b.WriteString(strconv.Itoa(s.next))
	if value != "" {
		s.b.WriteByte(':')
		s.b.WriteString(Escape(value))
	}
	s.b.WriteByte('}')
	return s.next
}

// Placeholders returns how many placeholders have been appended.
func (s *String) Placeholders() int {
	return s.next
}

// Value returns the template text.
func (s *String) Value() string {
	return s.b.String()
}

// MarshalText encodes the snippet as its template text.
func (s *String) MarshalText() ([]byte, error) {
	return []byte(s.Value()), nil
}

// escaper escapes the characters that carry meaning inside a template.
var escaper = strings.NewReplacer(`\`, `\\`, `$`, `\$`, `}`, `\}`)

// Escape returns text with backslash, dollar, and closing brace escaped.
func Escape(text string) string {
	return escaper.Replace(text)
}

// placeholderRE matches ${n} and ${n:default} with an escaped default.
var placeholderRE = regexp.MustCompile(`\$\{(\d+)(?::((?:\\.|[^\\}])*))?\}`)

// unescapeRE matches one escape sequence.
var unescapeRE = regexp.MustCompile(`\\(.)`)

// Render expands a template as an editor would on insertion when the user
// accepts every default: placeholders become their default value and
// escapes are removed.
func Render(template string) string {
	var out strings.Builder
	last := 0
	for _, m := range placeholderRE.FindAllStringSubmatchIndex(template, -1) {
		if escapedAt(template, m[0]) {
			continue
		}
		out.WriteString(unescape(template[last:m[0]]))
		if m[4] >= 0 {
			out.WriteString(unescape(template[m[4]:m[5]]))
		}
		last = m[1]
	}
	out.WriteString(unescape(template[last:]))
	return out.String()
}

// escapedAt reports whether the byte at i is preceded by an odd number of
// backslashes.
func escapedAt(s string, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && s[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}

func unescape(s string) string {
	return unescapeRE.ReplaceAllString(s, "$1")
}

package parser

import "strings"

// Style is a set of independent formatting flags attached to content.
// The zero value is plain body text.
type Style uint16

const (
	Heading Style = 1 << iota
	Subheading
	Quoted
	Code
	Strong
	Underline
	Strikethrough
	Italics
	Small
	Raised
)

var styleNames = []struct {
	flag Style
	name string
}{
	{Heading, "heading"},
	{Subheading, "subheading"},
	{Quoted, "quoted"},
	{Code, "code"},
	{Strong, "strong"},
	{Underline, "underline"},
	{Strikethrough, "strikethrough"},
	{Italics, "italics"},
	{Small, "small"},
	{Raised, "raised"},
}

// Has reports whether every flag in f is set.
func (s Style) Has(f Style) bool { return s&f == f }

// With returns s with f set.
func (s Style) With(f Style) Style { return s | f }

// Toggle returns s with f flipped.
func (s Style) Toggle(f Style) Style { return s ^ f }

func (s Style) String() string {
	if s == 0 {
		return "plain"
	}
	var names []string
	for _, n := range styleNames {
		if s.Has(n.flag) {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, "+")
}

// toggles maps inline delimiters to the flag they flip. Order matters:
// "**" must be tried before "*".
var toggles = []struct {
	delim string
	flag  Style
}{
	{"**", Strong},
	{"_", Underline},
	{"~", Strikethrough},
	{"*", Italics},
	{"$", Small},
	{"^", Raised},
}

// ToggleFor returns the flag flipped by the inline delimiter at the start
// of s and the delimiter length. ok is false when s does not start with one.
func ToggleFor(s string) (flag Style, n int, ok bool) {
	for _, t := range toggles {
		if strings.HasPrefix(s, t.delim) {
			return t.flag, len(t.delim), true
		}
	}
	return 0, 0, false
}

// Specials are the bytes that end a plain text run.
const Specials = "*`~_$^\\<["

// IndexSpecial returns the index of the first special byte or line break
// in s, or -1 when s is plain text to the end.
func IndexSpecial(s string) int {
	return strings.IndexAny(s, Specials+"\n")
}

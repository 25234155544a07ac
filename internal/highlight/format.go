package highlight

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/gubarz/marko/internal/parser"
)

// VAlign is the vertical placement of a run within its line.
type VAlign uint8

const (
	AlignBottom VAlign = iota
	AlignTop
)

// Stroke is a line drawn under or through text. The zero Stroke draws
// nothing.
type Stroke struct {
	Width float64
	Color lipgloss.Color
}

// Visible reports whether the stroke draws anything.
func (s Stroke) Visible() bool {
	return s.Width > 0
}

// Format is the display attributes of a run, resolved from a parser.Style
// against a Theme. An empty Background is transparent.
type Format struct {
	Font          Font
	Color         lipgloss.Color
	Background    lipgloss.Color
	Italics       bool
	Underline     Stroke
	Strikethrough Stroke
	VAlign        VAlign
}

// ResolveFormat maps a style to concrete display attributes.
func ResolveFormat(theme Theme, s parser.Style) Format {
	color := theme.Text
	switch {
	case s.Has(parser.Strong) || s.Has(parser.Heading) || s.Has(parser.Subheading):
		color = theme.Strong
	case s.Has(parser.Quoted):
		color = theme.Weak
	}

	font := FontBody
	switch {
	case s.Has(parser.Heading):
		font = FontHeading
	case s.Has(parser.Code):
		font = FontMonospace
	case s.Has(parser.Small) || s.Has(parser.Raised):
		font = FontSmall
	}

	f := Format{
		Font:    theme.Font(font),
		Color:   color,
		Italics: s.Has(parser.Italics),
		VAlign:  AlignBottom,
	}
	if s.Has(parser.Code) {
		f.Background = theme.CodeBackground
	}
	if s.Has(parser.Underline) {
		f.Underline = Stroke{Width: 1, Color: color}
	}
	if s.Has(parser.Strikethrough) {
		f.Strikethrough = Stroke{Width: 1, Color: color}
	}
	if s.Has(parser.Raised) {
		f.VAlign = AlignTop
	}
	return f
}

// Style converts the format to a lipgloss style for terminal output.
// Terminals have one font, so the heading font becomes bold and the small
// font faint.
func (f Format) Style() lipgloss.Style {
	st := lipgloss.NewStyle().
		Italic(f.Italics).
		Underline(f.Underline.Visible()).
		Strikethrough(f.Strikethrough.Visible())
	if f.Color != "" {
		st = st.Foreground(f.Color)
	}
	if f.Background != "" {
		st = st.Background(f.Background)
	}
	switch f.Font.Class {
	case FontHeading:
		st = st.Bold(true)
	case FontSmall:
		st = st.Faint(true)
	}
	return st
}

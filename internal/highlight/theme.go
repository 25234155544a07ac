package highlight

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/gubarz/marko/internal/config"
)

// FontClass names one of the fonts a theme can resolve.
type FontClass uint8

const (
	FontBody FontClass = iota
	FontHeading
	FontMonospace
	FontSmall

	fontClassCount
)

func (c FontClass) String() string {
	switch c {
	case FontBody:
		return "body"
	case FontHeading:
		return "heading"
	case FontMonospace:
		return "monospace"
	case FontSmall:
		return "small"
	default:
		return "unknown"
	}
}

// Font is a resolved font: its class plus the family and nominal size the
// theme assigns to that class.
type Font struct {
	Class  FontClass
	Family string
	Size   float64
}

// Theme supplies the colors and fonts that formats are resolved against.
// Themes are plain values and compare with ==.
type Theme struct {
	Text           lipgloss.Color
	Strong         lipgloss.Color
	Weak           lipgloss.Color
	CodeBackground lipgloss.Color
	Fonts          [fontClassCount]Font
}

// Font returns the font the theme assigns to class c.
func (t Theme) Font(c FontClass) Font {
	if c >= fontClassCount {
		c = FontBody
	}
	f := t.Fonts[c]
	f.Class = c
	return f
}

// DefaultTheme returns the built-in 256-color theme.
func DefaultTheme() Theme {
	return Theme{
		Text:           lipgloss.Color("252"),
		Strong:         lipgloss.Color("255"),
		Weak:           lipgloss.Color("244"),
		CodeBackground: lipgloss.Color("236"),
		Fonts: [fontClassCount]Font{
			FontBody:      {Class: FontBody, Family: "sans", Size: 14},
			FontHeading:   {Class: FontHeading, Family: "sans", Size: 20},
			FontMonospace: {Class: FontMonospace, Family: "mono", Size: 13},
			FontSmall:     {Class: FontSmall, Family: "sans", Size: 10},
		},
	}
}

// LoadTheme builds a theme from the current configuration.
func LoadTheme() Theme {
	body, heading, mono, small := config.GetFontSizes()
	family := config.GetFontFamily()
	monoFamily := config.GetFontMonoFamily()

	return Theme{
		Text:           ParseColor(config.GetColorText()),
		Strong:         ParseColor(config.GetColorStrong()),
		Weak:           ParseColor(config.GetColorWeak()),
		CodeBackground: ParseColor(config.GetColorCodeBg()),
		Fonts: [fontClassCount]Font{
			FontBody:      {Class: FontBody, Family: family, Size: body},
			FontHeading:   {Class: FontHeading, Family: family, Size: heading},
			FontMonospace: {Class: FontMonospace, Family: monoFamily, Size: mono},
			FontSmall:     {Class: FontSmall, Family: family, Size: small},
		},
	}
}

// ParseColor converts ANSI SGR color codes (30-37, 90-97) to lipgloss
// colors; anything else (256-color index, #rrggbb) passes through.
func ParseColor(code string) lipgloss.Color {
	ansiToLipgloss := map[string]string{
		"30": "0", "31": "1", "32": "2", "33": "3",
		"34": "4", "35": "5", "36": "6", "37": "7",
		"90": "8", "91": "9", "92": "10", "93": "11",
		"94": "12", "95": "13", "96": "14", "97": "15",
	}
	if mapped, ok := ansiToLipgloss[code]; ok {
		return lipgloss.Color(mapped)
	}
	return lipgloss.Color(code)
}

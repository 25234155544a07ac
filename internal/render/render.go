// Package render lays parsed marko items out as terminal text.
package render

import (
	"iter"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/termenv"

	"github.com/gubarz/marko/internal/highlight"
	"github.com/gubarz/marko/internal/log"
	"github.com/gubarz/marko/internal/parser"
)

// DefaultWidth is used when Options.Width is not positive.
const DefaultWidth = 80

// Options control layout.
type Options struct {
	// Width is the column count prose wraps at and rules span.
	Width int
	// Hyperlinks emits OSC 8 links. Without it the URL follows the label.
	Hyperlinks bool
}

func (o Options) width() int {
	if o.Width <= 0 {
		return DefaultWidth
	}
	return o.Width
}

// Document parses src and renders it.
func Document(theme highlight.Theme, src string, opts Options) string {
	return Render(theme, parser.New(src).All(), opts)
}

// Render lays items out as lines joined by "\n", with no trailing newline.
func Render(theme highlight.Theme, items iter.Seq[parser.Item], opts Options) string {
	r := newRenderer(theme, opts)
	for it := range items {
		r.item(it)
	}
	r.flush(false)
	log.Debug(log.CatRender, "rendered document", "lines", len(r.lines), "width", r.width)
	return strings.Join(r.lines, "\n")
}

type renderer struct {
	theme  highlight.Theme
	opts   Options
	width  int
	lines  []string
	line   strings.Builder
	marker lipgloss.Style
	quote  lipgloss.Style
	code   lipgloss.Style
	rule   lipgloss.Style

	// The line break after a code block's closing fence is already
	// accounted for by the block itself.
	afterCode bool
}

func newRenderer(theme highlight.Theme, opts Options) *renderer {
	w := opts.width()
	return &renderer{
		theme:  theme,
		opts:   opts,
		width:  w,
		marker: lipgloss.NewStyle().Foreground(theme.Strong),
		quote:  lipgloss.NewStyle().Foreground(theme.Weak),
		code: lipgloss.NewStyle().
			Foreground(theme.Text).
			Background(theme.CodeBackground).
			Width(w),
		rule: lipgloss.NewStyle().Foreground(theme.Weak),
	}
}

func (r *renderer) item(it parser.Item) {
	if r.afterCode {
		r.afterCode = false
		if it.Kind == parser.KindNewline {
			return
		}
	}

	switch it.Kind {
	case parser.KindNewline:
		r.flush(true)
	case parser.KindText:
		r.line.WriteString(TextStyle(r.theme, it.Style).Render(it.Text))
	case parser.KindHyperlink:
		r.line.WriteString(r.link(it))
	case parser.KindIndentation:
		r.line.WriteString(strings.Repeat(" ", it.Count))
	case parser.KindQuoteIndent:
		r.line.WriteString(r.quote.Render("│") + " ")
	case parser.KindBulletPoint:
		r.line.WriteString(" " + r.marker.Render("•") + " ")
	case parser.KindNumberedPoint:
		r.line.WriteString(r.marker.Render(padLeft(it.Text+".", 3)) + " ")
	case parser.KindTodo:
		box := "☐"
		if it.Done {
			box = "☑"
		}
		r.line.WriteString(" " + r.marker.Render(box) + " ")
	case parser.KindSeparator:
		r.flush(false)
		r.lines = append(r.lines, r.rule.Render(strings.Repeat("─", r.width)))
	case parser.KindCodeBlock:
		r.flush(false)
		for _, l := range strings.Split(it.Text, "\n") {
			r.lines = append(r.lines, r.code.Render(l))
		}
		r.afterCode = true
	}
}

// flush moves the pending line into the output, wrapped at the width. An
// empty pending line is kept only when keepEmpty is set.
func (r *renderer) flush(keepEmpty bool) {
	if r.line.Len() == 0 && !keepEmpty {
		return
	}
	// TODO: reflow counts OSC 8 parameters as printable, so lines holding
	// hyperlinks wrap early.
	wrapped := wordwrap.String(r.line.String(), r.width)
	r.lines = append(r.lines, strings.Split(wrapped, "\n")...)
	r.line.Reset()
}

func (r *renderer) link(it parser.Item) string {
	label := TextStyle(r.theme, it.Style).Underline(true).Render(it.Text)
	if r.opts.Hyperlinks {
		return termenv.Hyperlink(it.URL, label)
	}
	if it.Text == it.URL {
		return label
	}
	return label + " " + r.quote.Render("<"+it.URL+">")
}

// TextStyle is the terminal style for text carrying s. It extends the
// resolved highlight format with the emphasis a terminal can show for
// subheadings.
func TextStyle(theme highlight.Theme, s parser.Style) lipgloss.Style {
	st := highlight.ResolveFormat(theme, s).Style()
	if s.Has(parser.Subheading) || s.Has(parser.Strong) {
		st = st.Bold(true)
	}
	return st
}

func padLeft(s string, width int) string {
	if n := width - lipgloss.Width(s); n > 0 {
		return strings.Repeat(" ", n) + s
	}
	return s
}

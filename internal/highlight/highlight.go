// Package highlight formats marko source for display while it is being
// edited.
//
// The highlighter is simpler than the structural parser: it
// never drops a byte of the source, so the runs it returns concatenate back
// to the input, and a closing delimiter stays inside the run it closes.
package highlight

import (
	"strings"
	"unicode/utf8"

	"github.com/gubarz/marko/internal/parser"
)

const fence = "```"

// Run is a span of source text with the format it is displayed in.
type Run struct {
	Text   string
	Style  parser.Style
	Format Format
}

type scanner struct {
	theme Theme
	runs  []Run
}

func (sc *scanner) emit(text string, style parser.Style) {
	if text == "" {
		return
	}
	sc.runs = append(sc.runs, Run{Text: text, Style: style, Format: ResolveFormat(sc.theme, style)})
}

// Highlight splits src into formatted runs. It accepts any input,
// including half-typed markup, and always terminates.
func Highlight(theme Theme, src string) []Run {
	sc := scanner{theme: theme}
	text := src
	var style parser.Style
	startOfLine := true

	for text != "" {
		if startOfLine && strings.HasPrefix(text, fence) {
			end := fencedBlockEnd(text)
			sc.emit(text[:end], parser.Code)
			text = text[end:]
			style = 0
			continue
		}

		if text[0] == '`' {
			end := inlineCodeEnd(text)
			sc.emit(text[:end], style.With(parser.Code))
			text = text[end:]
			startOfLine = false
			continue
		}

		skip := 0
		switch {
		case text[0] == '\\' && len(text) >= 2:
			_, size := utf8.DecodeRuneInString(text[1:])
			skip = 1 + size
		case startOfLine && text[0] == ' ':
			skip = 1
		case startOfLine && strings.HasPrefix(text, "# "):
			style = style.With(parser.Heading)
			skip = 2
		case startOfLine && strings.HasPrefix(text, "## "):
			style = style.With(parser.Subheading)
			skip = 3
		case startOfLine && strings.HasPrefix(text, "> "):
			style = style.With(parser.Quoted)
			skip = 2
		case startOfLine && strings.HasPrefix(text, "- "):
			skip = 2
		default:
			if flag, n, ok := parser.ToggleFor(text); ok {
				if style.Has(flag) {
					// Closing delimiter belongs to the run it closes.
					sc.emit(text[:n], style)
					text = text[n:]
					style = style.Toggle(flag)
					startOfLine = false
					continue
				}
				skip = n
				style = style.Toggle(flag)
			}
		}

		lineEnd := len(text)
		if i := strings.IndexByte(text[skip:], '\n'); i >= 0 {
			lineEnd = skip + i + 1
		}
		end := len(text)
		if i := strings.IndexAny(text[skip:], parser.Specials); i >= 0 {
			end = max(skip+i, 1)
		}

		if lineEnd <= end {
			sc.emit(text[:lineEnd], style)
			text = text[lineEnd:]
			startOfLine = true
			style = 0
		} else {
			sc.emit(text[:end], style)
			text = text[end:]
			startOfLine = false
		}
	}

	return sc.runs
}

// fencedBlockEnd returns the end of a fenced block starting at text: the end
// of the first later line that is exactly a fence, or len(text).
func fencedBlockEnd(text string) int {
	pos := strings.IndexByte(text, '\n')
	if pos < 0 {
		return len(text)
	}
	for pos < len(text) {
		lineStart := pos + 1
		lineEnd := len(text)
		if i := strings.IndexByte(text[lineStart:], '\n'); i >= 0 {
			lineEnd = lineStart + i
		}
		if text[lineStart:lineEnd] == fence {
			return lineEnd
		}
		pos = lineEnd
	}
	return len(text)
}

// inlineCodeEnd returns the end of a backtick span: just past the closing
// backtick, just before a line break, or len(text).
func inlineCodeEnd(text string) int {
	i := strings.IndexAny(text[1:], "`\n")
	switch {
	case i < 0:
		return len(text)
	case text[1+i] == '`':
		return i + 2
	default:
		return i + 1
	}
}

// RenderANSI joins runs into a terminal string. Runs are styled one line
// at a time so lipgloss never pads multi-line runs into blocks.
func RenderANSI(runs []Run) string {
	var b strings.Builder
	for _, r := range runs {
		st := r.Format.Style()
		for i, line := range strings.Split(r.Text, "\n") {
			if i > 0 {
				b.WriteByte('\n')
			}
			if line != "" {
				b.WriteString(st.Render(line))
			}
		}
	}
	return b.String()
}

// Plain concatenates the text of runs.
func Plain(runs []Run) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// Package parser implements the structural scanner for marko documents.
//
// A Parser walks the source once, front to back, and yields one Item per
// step. Every step consumes at least one byte, so a document of n bytes
// produces at most n items. Item strings are substrings of the source.
package parser

import (
	"iter"
	"slices"
	"strings"
	"unicode/utf8"
)

const fence = "```"

// Parser is a forward-only cursor over a document. It cannot be rewound;
// construct a new Parser to scan the same source again.
type Parser struct {
	src         string
	pos         int
	startOfLine bool
	style       Style
}

// New creates a parser positioned at the start of src.
func New(src string) *Parser {
	return &Parser{src: src, startOfLine: true}
}

// Parse scans the whole of src and returns its items.
func Parse(src string) []Item {
	return slices.Collect(New(src).All())
}

// All returns the remaining items as a sequence. The sequence shares the
// parser's cursor: items pulled from it are not produced again by Next.
func (p *Parser) All() iter.Seq[Item] {
	return func(yield func(Item) bool) {
		for {
			item, ok := p.Next()
			if !ok || !yield(item) {
				return
			}
		}
	}
}

// Offset returns how many bytes of the source have been consumed.
func (p *Parser) Offset() int {
	return p.pos
}

// Next produces the next item. ok is false once the input is exhausted.
func (p *Parser) Next() (Item, bool) {
	for {
		s := p.src[p.pos:]
		if s == "" {
			return Item{}, false
		}
		start := p.pos

		if s[0] == '\n' {
			p.pos++
			p.startOfLine = true
			p.style = 0
			return Item{Kind: KindNewline, Offset: start}, true
		}

		if s[0] == '\\' && len(s) >= 2 {
			p.startOfLine = false
			if s[1] == '\n' {
				p.pos += 2
				continue
			}
			_, size := utf8.DecodeRuneInString(s[1:])
			p.pos += 1 + size
			return p.text(s[1:1+size], start+1), true
		}

		if p.startOfLine {
			if item, ok := p.lineStart(s); ok {
				return item, true
			}
			if p.pos != start {
				continue
			}
		}

		if s[0] == '`' {
			item, ok := p.inlineCode(s)
			if ok {
				return item, true
			}
			continue
		}

		if flag, n, ok := ToggleFor(s); ok {
			p.pos += n
			p.startOfLine = false
			p.style = p.style.Toggle(flag)
			continue
		}

		if item, ok := p.link(s); ok {
			return item, true
		}

		end := IndexSpecial(s)
		switch {
		case end < 0:
			end = len(s)
		case end == 0:
			_, end = utf8.DecodeRuneInString(s)
		}
		p.pos += end
		p.startOfLine = false
		return p.text(s[:end], start), true
	}
}

func (p *Parser) text(content string, offset int) Item {
	return Item{Kind: KindText, Style: p.style, Text: content, Offset: offset}
}

// lineStart applies the rules that only hold at the start of a line. It
// may consume a heading marker without producing an item.
func (p *Parser) lineStart(s string) (Item, bool) {
	start := p.pos

	if s[0] == ' ' {
		n := len(s) - len(strings.TrimLeft(s, " "))
		p.pos += n
		return Item{Kind: KindIndentation, Count: n, Offset: start}, true
	}

	if strings.HasPrefix(s, "# ") {
		p.pos += 2
		p.startOfLine = false
		p.style = p.style.With(Heading)
		return Item{}, false
	}

	if strings.HasPrefix(s, "## ") {
		p.pos += 3
		p.startOfLine = false
		p.style = p.style.With(Subheading)
		return Item{}, false
	}

	if strings.HasPrefix(s, "> ") {
		p.pos += 2
		p.style = p.style.With(Quoted)
		return Item{Kind: KindQuoteIndent, Offset: start}, true
	}

	if done, n, ok := todoMarker(s); ok {
		p.pos += n
		p.startOfLine = false
		return Item{Kind: KindTodo, Done: done, Offset: start}, true
	}

	if strings.HasPrefix(s, "- ") || strings.HasPrefix(s, "* ") {
		p.pos += 2
		p.startOfLine = false
		return Item{Kind: KindBulletPoint, Offset: start}, true
	}

	if digits := len(s) - len(strings.TrimLeft(s, "0123456789")); digits > 0 && strings.HasPrefix(s[digits:], ". ") {
		p.pos += digits + 2
		p.startOfLine = false
		return Item{Kind: KindNumberedPoint, Text: s[:digits], Offset: start}, true
	}

	if n, ok := separator(s); ok {
		p.pos += n
		// The rule's own line break was consumed, so the next line
		// starts fresh.
		p.startOfLine = true
		p.style = 0
		return Item{Kind: KindSeparator, Offset: start}, true
	}

	if strings.HasPrefix(s, fence) {
		return p.codeBlock(s), true
	}

	return Item{}, false
}

// todoMarker matches "- [ ]", "- [x]" and the "*" bullet variants, followed
// by a space, a line break or the end of input.
func todoMarker(s string) (done bool, n int, ok bool) {
	if len(s) < 5 || (s[0] != '-' && s[0] != '*') || s[1] != ' ' || s[2] != '[' || s[4] != ']' {
		return false, 0, false
	}
	switch s[3] {
	case ' ':
	case 'x', 'X':
		done = true
	default:
		return false, 0, false
	}
	switch {
	case len(s) == 5 || s[5] == '\n':
		return done, 5, true
	case s[5] == ' ':
		return done, 6, true
	}
	return false, 0, false
}

// separator matches a line made only of three or more '-' or '='. n
// includes the trailing line break when there is one.
func separator(s string) (n int, ok bool) {
	c := s[0]
	if c != '-' && c != '=' {
		return 0, false
	}
	run := len(s) - len(strings.TrimLeft(s, string(c)))
	if run < 3 {
		return 0, false
	}
	switch {
	case run == len(s):
		return run, true
	case s[run] == '\n':
		return run + 1, true
	}
	return 0, false
}

// codeBlock consumes a fenced block. Without a closing fence the rest of
// the input is the body.
func (p *Parser) codeBlock(s string) Item {
	start := p.pos
	p.startOfLine = false

	nl := strings.IndexByte(s, '\n')
	if nl < 0 {
		p.pos = len(p.src)
		return Item{Kind: KindCodeBlock, Language: strings.TrimSpace(s[len(fence):]), Offset: start}
	}
	language := strings.TrimSpace(s[len(fence):nl])
	body := s[nl+1:]

	end := 0
	if !strings.HasPrefix(body, fence) {
		i := strings.Index(body, "\n"+fence)
		if i < 0 {
			p.pos = len(p.src)
			return Item{Kind: KindCodeBlock, Language: language, Text: body, Offset: start}
		}
		end = i
	}

	// Resume right after the closing backticks. Anything left on that
	// line is ordinary text.
	closing := body[end:]
	if end > 0 {
		closing = closing[1:]
	}
	p.pos = len(p.src) - len(closing) + len(fence)

	return Item{Kind: KindCodeBlock, Language: language, Text: body[:end], Offset: start}
}

// inlineCode consumes a backtick span. An unterminated span runs to the
// end of the line. Empty spans are consumed without an item.
func (p *Parser) inlineCode(s string) (Item, bool) {
	start := p.pos
	p.startOfLine = false

	line := s[1:]
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	consumed := 1 + len(line)
	if i := strings.IndexByte(line, '`'); i >= 0 {
		line = line[:i]
		consumed = 1 + i + 1
	}
	p.pos += consumed

	if line == "" {
		return Item{}, false
	}
	return Item{Kind: KindText, Style: p.style.With(Code), Text: line, Offset: start + 1}, true
}

// link matches "<url>" and "[label](url)" confined to the current line.
func (p *Parser) link(s string) (Item, bool) {
	if s[0] != '<' && s[0] != '[' {
		return Item{}, false
	}
	start := p.pos
	line := s
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}

	if line[0] == '<' {
		end := strings.IndexByte(line, '>')
		if end <= 1 {
			return Item{}, false
		}
		url := line[1:end]
		p.pos += end + 1
		p.startOfLine = false
		return Item{Kind: KindHyperlink, Style: p.style, Text: url, URL: url, Offset: start}, true
	}

	labelEnd := strings.IndexByte(line, ']')
	if labelEnd < 0 || !strings.HasPrefix(line[labelEnd+1:], "(") {
		return Item{}, false
	}
	urlEnd := strings.IndexByte(line[labelEnd+2:], ')')
	if urlEnd < 0 {
		return Item{}, false
	}
	urlEnd += labelEnd + 2
	p.pos += urlEnd + 1
	p.startOfLine = false
	return Item{
		Kind:   KindHyperlink,
		Style:  p.style,
		Text:   line[1:labelEnd],
		URL:    line[labelEnd+2 : urlEnd],
		Offset: start,
	}, true
}

package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// withoutOffsets lets table tests compare items by content only.
func withoutOffsets(items []Item) []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		it.Offset = 0
		out[i] = it
	}
	return out
}

func text(style Style, s string) Item {
	return Item{Kind: KindText, Style: style, Text: s}
}

var (
	newline = Item{Kind: KindNewline}
	bullet  = Item{Kind: KindBulletPoint}
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Item
	}{
		{
			name:  "empty input",
			input: "",
			want:  []Item{},
		},
		{
			name:  "plain text",
			input: "hello world",
			want:  []Item{text(0, "hello world")},
		},
		{
			name:  "heading",
			input: "# Heading\n",
			want:  []Item{text(Heading, "Heading"), newline},
		},
		{
			name:  "subheading",
			input: "## Sub\n",
			want:  []Item{text(Subheading, "Sub"), newline},
		},
		{
			name:  "bullet",
			input: "- item\n",
			want:  []Item{bullet, text(0, "item"), newline},
		},
		{
			name:  "star bullet",
			input: "* item",
			want:  []Item{bullet, text(0, "item")},
		},
		{
			name:  "numbered list",
			input: "1. first\n2. second\n",
			want: []Item{
				{Kind: KindNumberedPoint, Text: "1"}, text(0, "first"), newline,
				{Kind: KindNumberedPoint, Text: "2"}, text(0, "second"), newline,
			},
		},
		{
			name:  "digits without marker are text",
			input: "2024 was fine",
			want:  []Item{text(0, "2024 was fine")},
		},
		{
			name:  "single star toggles italics and emits no delimiter",
			input: "*bold*",
			want:  []Item{text(Italics, "bold")},
		},
		{
			name:  "double star toggles strong",
			input: "a **b** c",
			want:  []Item{text(0, "a "), text(Strong, "b"), text(0, " c")},
		},
		{
			name:  "all inline toggles",
			input: "_u_~s~$m$^r^",
			want: []Item{
				text(Underline, "u"),
				text(Strikethrough, "s"),
				text(Small, "m"),
				text(Raised, "r"),
			},
		},
		{
			name:  "toggles combine",
			input: "**_both_**",
			want:  []Item{text(Strong|Underline, "both")},
		},
		{
			name:  "escaped star is literal",
			input: `\*not italic\*`,
			want:  []Item{text(0, "*"), text(0, "not italic"), text(0, "*")},
		},
		{
			name:  "escaped multibyte rune",
			input: `\é`,
			want:  []Item{text(0, "é")},
		},
		{
			name:  "escaped line break is swallowed",
			input: "a\\\n# b",
			want:  []Item{text(0, "a"), text(0, "# b")},
		},
		{
			name:  "trailing backslash is text",
			input: `a\`,
			want:  []Item{text(0, "a"), text(0, `\`)},
		},
		{
			name:  "line break resets style",
			input: "*open\nplain",
			want:  []Item{text(Italics, "open"), newline, text(0, "plain")},
		},
		{
			name:  "indentation",
			input: "   - nested",
			want:  []Item{{Kind: KindIndentation, Count: 3}, bullet, text(0, "nested")},
		},
		{
			name:  "quote",
			input: "> wise\n",
			want:  []Item{{Kind: KindQuoteIndent}, text(Quoted, "wise"), newline},
		},
		{
			name:  "nested quote keeps start of line",
			input: "> > # deep",
			want:  []Item{{Kind: KindQuoteIndent}, {Kind: KindQuoteIndent}, text(Quoted|Heading, "deep")},
		},
		{
			name:  "separator consumes its line break",
			input: "---\n# Next",
			want:  []Item{{Kind: KindSeparator}, text(Heading, "Next")},
		},
		{
			name:  "equals separator",
			input: "=====",
			want:  []Item{{Kind: KindSeparator}},
		},
		{
			name:  "dashes followed by text are not a separator",
			input: "--- x",
			want:  []Item{text(0, "--- x")},
		},
		{
			name:  "block markers only at line start",
			input: "a # b - c",
			want:  []Item{text(0, "a # b - c")},
		},
		{
			name:  "todo markers",
			input: "- [ ] open\n* [x] done\n- [X]",
			want: []Item{
				{Kind: KindTodo}, text(0, "open"), newline,
				{Kind: KindTodo, Done: true}, text(0, "done"), newline,
				{Kind: KindTodo, Done: true},
			},
		},
		{
			name:  "bracket after bullet that is not a todo",
			input: "- [y] no",
			want:  []Item{bullet, text(0, "["), text(0, "y] no")},
		},
		{
			name:  "inline code",
			input: "run `go *test*` now",
			want:  []Item{text(0, "run "), text(Code, "go *test*"), text(0, " now")},
		},
		{
			name:  "unterminated inline code stops at line end",
			input: "`open\nnext",
			want:  []Item{text(Code, "open"), newline, text(0, "next")},
		},
		{
			name:  "inline code inherits inline style",
			input: "**`x`**",
			want:  []Item{text(Strong|Code, "x")},
		},
		{
			name:  "autolink",
			input: "<https://example.com>",
			want:  []Item{{Kind: KindHyperlink, Text: "https://example.com", URL: "https://example.com"}},
		},
		{
			name:  "link",
			input: "see [docs](https://go.dev) here",
			want: []Item{
				text(0, "see "),
				{Kind: KindHyperlink, Text: "docs", URL: "https://go.dev"},
				text(0, " here"),
			},
		},
		{
			name:  "styled link",
			input: "*[x](y)*",
			want:  []Item{{Kind: KindHyperlink, Style: Italics, Text: "x", URL: "y"}},
		},
		{
			name:  "link must not span lines",
			input: "[a\n](b)",
			want:  []Item{text(0, "["), text(0, "a"), newline, text(0, "](b)")},
		},
		{
			name:  "stray bracket is text",
			input: "[oops",
			want:  []Item{text(0, "["), text(0, "oops")},
		},
		{
			name:  "empty autolink is text",
			input: "<>",
			want:  []Item{text(0, "<"), text(0, ">")},
		},
		{
			name:  "code block",
			input: "```go\nx := 1\ny := 2\n```\nafter",
			want: []Item{
				{Kind: KindCodeBlock, Language: "go", Text: "x := 1\ny := 2"},
				newline,
				text(0, "after"),
			},
		},
		{
			name:  "empty code block",
			input: "```\n```",
			want:  []Item{{Kind: KindCodeBlock}},
		},
		{
			name:  "text after the closing fence is kept",
			input: "```go\na\n```trail\nz",
			want: []Item{
				{Kind: KindCodeBlock, Language: "go", Text: "a"},
				text(0, "trail"),
				newline,
				text(0, "z"),
			},
		},
		{
			name:  "text after a fence that closes an empty body",
			input: "```\n```x",
			want:  []Item{{Kind: KindCodeBlock}, text(0, "x")},
		},
		{
			name:  "unterminated code block",
			input: "```rs\ncode",
			want:  []Item{{Kind: KindCodeBlock, Language: "rs", Text: "code"}},
		},
		{
			name:  "fence without a line break",
			input: "```rs",
			want:  []Item{{Kind: KindCodeBlock, Language: "rs"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if got == nil {
				got = []Item{}
			}
			require.Equal(t, tt.want, withoutOffsets(got))
		})
	}
}

func TestParser_UnterminatedFenceEndsSequence(t *testing.T) {
	p := New("```rs\ncode")

	item, ok := p.Next()
	require.True(t, ok)
	require.Equal(t, KindCodeBlock, item.Kind)
	require.Equal(t, "rs", item.Language)
	require.Equal(t, "code", item.Text)

	_, ok = p.Next()
	require.False(t, ok, "expected no items after an unterminated fence")
	_, ok = p.Next()
	require.False(t, ok, "exhausted parser must stay exhausted")
}

func TestParser_Offsets(t *testing.T) {
	src := "# Title\n- [docs](u) `c`"
	items := Parse(src)

	require.Equal(t, "Title", src[items[0].Offset:items[0].Offset+len(items[0].Text)])
	for _, it := range items {
		if it.Kind == KindText {
			require.True(t, strings.HasPrefix(src[it.Offset:], it.Text), "item %v not at its offset", it)
		}
	}
}

func TestParser_AllSharesCursor(t *testing.T) {
	p := New("a\nb")
	first, ok := p.Next()
	require.True(t, ok)
	require.Equal(t, "a", first.Text)

	var rest []Item
	for it := range p.All() {
		rest = append(rest, it)
	}
	require.Equal(t, []Item{newline, text(0, "b")}, withoutOffsets(rest))
	require.Equal(t, 3, p.Offset())
}

func TestParser_ItemsAreViewsIntoSource(t *testing.T) {
	src := "some *styled* text"
	for _, it := range Parse(src) {
		if it.Text == "" {
			continue
		}
		require.Equal(t, it.Text, src[it.Offset:it.Offset+len(it.Text)])
	}
}

func TestProperty_ParserMakesProgress(t *testing.T) {
	alphabet := []rune("ab #>-*_~$^`\\<>[]()\n0123456789.=xé ")
	rapid.Check(t, func(rt *rapid.T) {
		runes := rapid.SliceOfN(rapid.SampledFrom(alphabet), 0, 200).Draw(rt, "runes")
		src := string(runes)

		p := New(src)
		last := 0
		lastOffset := -1
		steps := 0
		for {
			item, ok := p.Next()
			if !ok {
				break
			}
			steps++
			require.Greater(rt, p.Offset(), last, "step %d consumed nothing", steps)
			require.GreaterOrEqual(rt, item.Offset, lastOffset, "offsets must not go backwards")
			require.LessOrEqual(rt, steps, len(src), "more items than input bytes")
			last = p.Offset()
			lastOffset = item.Offset
		}
		require.Equal(rt, len(src), p.Offset(), "parser stopped before the end of input")
	})
}

package parser

import (
	"fmt"
	"strconv"
)

// Kind identifies the variant of an Item.
type Kind uint8

const (
	KindNewline Kind = iota
	KindText
	KindHyperlink
	KindIndentation
	KindQuoteIndent
	KindBulletPoint
	KindNumberedPoint
	KindSeparator
	KindCodeBlock
	KindTodo
)

var kindNames = [...]string{
	KindNewline:       "Newline",
	KindText:          "Text",
	KindHyperlink:     "Hyperlink",
	KindIndentation:   "Indentation",
	KindQuoteIndent:   "QuoteIndent",
	KindBulletPoint:   "BulletPoint",
	KindNumberedPoint: "NumberedPoint",
	KindSeparator:     "Separator",
	KindCodeBlock:     "CodeBlock",
	KindTodo:          "Todo",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Item is one unit of structured output from a Parser.
//
// Which fields are meaningful depends on Kind:
//
//	Text          Style, Text
//	Hyperlink     Style, Text (label), URL
//	Indentation   Count
//	NumberedPoint Text (the digits)
//	CodeBlock     Language, Text (the body)
//	Todo          Done
//
// String fields are substrings of the parsed source and share its memory.
type Item struct {
	Kind     Kind
	Style    Style
	Text     string
	URL      string
	Language string
	Count    int
	Done     bool

	// Offset is the byte offset in the source where the item starts.
	Offset int
}

func (it Item) String() string {
	switch it.Kind {
	case KindText:
		return fmt.Sprintf("Text(%s, %q)", it.Style, it.Text)
	case KindHyperlink:
		return fmt.Sprintf("Hyperlink(%s, %q, %q)", it.Style, it.Text, it.URL)
	case KindIndentation:
		return fmt.Sprintf("Indentation(%d)", it.Count)
	case KindNumberedPoint:
		return fmt.Sprintf("NumberedPoint(%q)", it.Text)
	case KindCodeBlock:
		return fmt.Sprintf("CodeBlock(%q, %q)", it.Language, it.Text)
	case KindTodo:
		return fmt.Sprintf("Todo(%t)", it.Done)
	default:
		return it.Kind.String()
	}
}

// Package highlight renders CSS for terminal display. Tokens are classified
// into display categories with one token of lookahead and wrapped in color
// sequences line by line, so a color never spans a line break and stripping
// the sequences recovers the input exactly.
package highlight

import (
	"strings"

	"github.com/fatih/color"

	"bennypowers.dev/cssinput/internal/tokenizer"
)

// Category is the display class of a token.
type Category string

const (
	ClassSelector Category = "class-selector"
	IDSelector    Category = "id-selector"
	Call          Category = "call"
	Comment       Category = "comment"
	String        Category = "string"
	AtWord        Category = "at-word"
	Brackets      Category = "brackets"
	None          Category = "none"
	// Punctuation categories are named by the mark itself.
	OpenParen   Category = "("
	CloseParen  Category = ")"
	OpenCurly   Category = "{"
	CloseCurly  Category = "}"
	OpenSquare  Category = "["
	CloseSquare Category = "]"
	Colon       Category = ":"
	Semicolon   Category = ";"
)

// Theme maps display categories to colors. Categories absent from the theme
// render as plain text.
type Theme map[Category]*color.Color

// DefaultTheme is the stable category-to-color contract for terminal
// consumers: the selector/call family in cyan, comments dimmed, strings
// green, structural punctuation yellow and id selectors magenta.
func DefaultTheme() Theme {
	cyan := color.New(color.FgCyan)
	gray := color.New(color.FgHiBlack)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	magenta := color.New(color.FgMagenta)
	return Theme{
		ClassSelector: cyan,
		AtWord:        cyan,
		Call:          cyan,
		Brackets:      cyan,
		OpenParen:     cyan,
		CloseParen:    cyan,
		Comment:       gray,
		String:        green,
		OpenCurly:     yellow,
		CloseCurly:    yellow,
		OpenSquare:    yellow,
		CloseSquare:   yellow,
		Colon:         yellow,
		Semicolon:     yellow,
		IDSelector:    magenta,
	}
}

// Classify assigns a display category to tok. A token directly followed by
// a parenthesis or bracket group is a call, whatever its own type and even
// when it looks like a selector. Word tokens starting with "." or "#" are
// selectors. Everything else maps to the category matching its token type,
// or None. The stream is only peeked, never consumed.
func Classify(tok tokenizer.Token, stream *tokenizer.Tokenizer) Category {
	if next, ok := stream.Peek(); ok {
		if next.Type == tokenizer.Brackets || next.Type == tokenizer.OpenParen {
			return Call
		}
	}
	if tok.Type == tokenizer.Word {
		switch {
		case strings.HasPrefix(tok.Value, "."):
			return ClassSelector
		case strings.HasPrefix(tok.Value, "#"):
			return IDSelector
		}
	}
	if c, ok := categories[tok.Type]; ok {
		return c
	}
	return None
}

// categories maps token types whose category is their own type.
var categories = map[tokenizer.Type]Category{
	tokenizer.Comment:     Comment,
	tokenizer.String:      String,
	tokenizer.AtWord:      AtWord,
	tokenizer.Brackets:    Brackets,
	tokenizer.OpenParen:   OpenParen,
	tokenizer.CloseParen:  CloseParen,
	tokenizer.OpenCurly:   OpenCurly,
	tokenizer.CloseCurly:  CloseCurly,
	tokenizer.OpenSquare:  OpenSquare,
	tokenizer.CloseSquare: CloseSquare,
	tokenizer.Colon:       Colon,
	tokenizer.Semicolon:   Semicolon,
}

// Highlight renders css with the default theme.
func Highlight(css string) string {
	return DefaultTheme().Highlight(css)
}

// Highlight renders css with this theme. Tokenizing runs in forgiving mode;
// highlighting never fails, unclassified or unthemed tokens pass through as
// plain text. Token values spanning several lines are colored one line
// segment at a time.
func (theme Theme) Highlight(css string) string {
	stream := tokenizer.New(css, tokenizer.IgnoreErrors())
	var b strings.Builder
	for !stream.EndOfFile() {
		tok, _ := stream.NextToken()
		c, ok := theme[Classify(tok, stream)]
		if !ok || c == nil {
			b.WriteString(tok.Value)
			continue
		}
		for i, segment := range strings.Split(tok.Value, "\n") {
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(c.Sprint(segment))
		}
	}
	return b.String()
}

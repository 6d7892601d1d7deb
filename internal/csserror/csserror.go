// Package csserror defines the structured diagnostic produced when a CSS
// input reports a problem at a position. The diagnostic always carries two
// locations: the primary one, mapped back to the user's authored source when
// a source map allowed it, and the generated one, so the position in the
// compiled CSS stays recoverable either way. A SyntaxError is a value; it
// only terminates processing if a caller decides it does.
package csserror

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"bennypowers.dev/cssinput/internal/highlight"
)

// Generated is the position of a diagnostic in the generated CSS, kept even
// when the primary position was mapped to an original source.
type Generated struct {
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Source string `json:"source"`
	File   string `json:"file,omitempty"`
}

// SyntaxError is a positioned CSS diagnostic. Line and Column are 1-based;
// Source is the full text of the file the position refers to. The field
// layout is a compatibility contract for downstream reporters.
type SyntaxError struct {
	Reason    string    `json:"reason"`
	Message   string    `json:"message"`
	File      string    `json:"file,omitempty"`
	Line      int       `json:"line"`
	Column    int       `json:"column"`
	Source    string    `json:"source"`
	Plugin    string    `json:"plugin,omitempty"`
	Generated Generated `json:"generated"`
}

// New builds a SyntaxError and derives its Message. An empty file renders
// as "<css input>".
func New(reason string, line, column int, source, file, plugin string) *SyntaxError {
	e := &SyntaxError{
		Reason: reason,
		Line:   line,
		Column: column,
		Source: source,
		File:   file,
		Plugin: plugin,
	}
	e.setMessage()
	return e
}

func (e *SyntaxError) setMessage() {
	var b strings.Builder
	if e.Plugin != "" {
		b.WriteString(e.Plugin)
		b.WriteString(": ")
	}
	if e.File != "" {
		b.WriteString(e.File)
	} else {
		b.WriteString("<css input>")
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, ":%d:%d", e.Line, e.Column)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	e.Message = b.String()
}

func (e *SyntaxError) Error() string { return e.Message }

// ShowSourceCode renders a few lines of source around the error position,
// with a gutter of line numbers, a ">" marker on the error line and a caret
// under the error column. With colored set, the excerpt is syntax
// highlighted and the markers are painted red.
func (e *SyntaxError) ShowSourceCode(colored bool) string {
	if e.Source == "" {
		return ""
	}

	plain := splitLines(e.Source)
	shown := plain
	mark := func(s string) string { return s }
	aside := mark
	if colored {
		shown = splitLines(highlight.Highlight(e.Source))
		red := color.New(color.FgRed, color.Bold)
		gray := color.New(color.FgHiBlack)
		mark = func(s string) string { return red.Sprint(s) }
		aside = func(s string) string { return gray.Sprint(s) }
	}

	start := max(e.Line-3, 0)
	end := min(e.Line+2, len(plain))
	maxWidth := len(fmt.Sprint(end))

	var out []string
	for i := start; i < end; i++ {
		number := i + 1
		gutter := fmt.Sprintf(" %*d | ", maxWidth, number)
		if number == e.Line {
			out = append(out,
				mark(">")+aside(gutter)+shown[i],
				" "+strings.Repeat(" ", maxWidth+1)+aside(" | ")+
					caretPadding(plain[i], e.Column)+mark("^"))
		} else {
			out = append(out, " "+aside(gutter)+shown[i])
		}
	}
	return strings.Join(out, "\n")
}

// caretPadding builds the whitespace that places the caret under the error
// column. Tabs are kept so terminal tab stops line up; everything else is
// replaced by spaces matching its display width.
func caretPadding(line string, column int) string {
	var b strings.Builder
	n := 0
	for _, r := range line {
		if n >= column-1 {
			break
		}
		n++
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return b.String()
}

func splitLines(s string) []string {
	return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}

// Package tokenizer splits raw CSS into a lossless stream of tokens.
//
// The token boundaries follow the CSS lexical shapes a postprocessor needs
// for highlighting and error reporting: whitespace runs, words, strings,
// comments, at-words, balanced bracket runs and single punctuation marks.
// No token text is ever normalized or dropped; the stream concatenates back
// to the input exactly, even when the input is malformed and the tokenizer
// runs in forgiving mode.
package tokenizer

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// wordEnd marks the bytes that terminate a word token. A slash only
// terminates a word when it opens a comment, so it is handled separately.
var wordEnd = [256]bool{
	'\t': true, '\n': true, '\f': true, '\r': true, ' ': true,
	'!': true, '"': true, '#': true, '\'': true,
	'(': true, ')': true, ':': true, ';': true, '@': true,
	'[': true, '\\': true, ']': true, '{': true, '}': true,
}

// atEnd marks the bytes that terminate an at-word token.
var atEnd = [256]bool{
	'\t': true, '\n': true, '\f': true, '\r': true, ' ': true,
	'!': true, '"': true, '#': true, '\'': true,
	'(': true, ')': true, '/': true, ';': true,
	'[': true, '\\': true, ']': true, '{': true, '}': true,
}

// Error reports malformed input in strict mode. Offset is the byte offset of
// the first character of the unclosed construct.
type Error struct {
	What   string // "string", "comment" or "bracket"
	Offset int
}

func (e *Error) Error() string {
	return fmt.Sprintf("unclosed %s at offset %d", e.What, e.Offset)
}

// Option configures a Tokenizer.
type Option func(*Tokenizer)

// IgnoreErrors puts the tokenizer into forgiving mode: unclosed strings,
// comments and brackets are recovered from instead of failing the stream.
func IgnoreErrors() Option {
	return func(t *Tokenizer) { t.ignoreErrors = true }
}

// Tokenizer produces tokens from a CSS string. It is not safe for
// concurrent use; each stream belongs to the call that created it.
type Tokenizer struct {
	css          string
	pos          int
	ignoreErrors bool
	returned     []Token // pushback stack, served before the cursor advances
	prev         string  // value of the last delivered token, for url( detection
	err          *Error  // sticky strict-mode failure
}

// New returns a tokenizer over css positioned at the first token.
func New(css string, opts ...Option) *Tokenizer {
	t := &Tokenizer{css: css}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// EndOfFile reports whether the stream is exhausted. Pushed-back tokens
// count as remaining input.
func (t *Tokenizer) EndOfFile() bool {
	return len(t.returned) == 0 && t.err == nil && t.pos >= len(t.css)
}

// Back returns a token to the stream; the next NextToken call redelivers it.
func (t *Tokenizer) Back(tok Token) {
	t.returned = append(t.returned, tok)
}

// Peek reports the upcoming token without consuming it. It returns false at
// end of stream and on a pending strict-mode failure; the failure itself
// surfaces from the next NextToken call. The stream state is identical
// before and after a Peek, whatever the outcome.
func (t *Tokenizer) Peek() (Token, bool) {
	if t.EndOfFile() {
		return Token{}, false
	}
	tok, err := t.NextToken()
	if err != nil {
		return Token{}, false
	}
	t.Back(tok)
	return tok, true
}

// NextToken advances the stream by one token. At end of stream it returns a
// zero Token; callers are expected to gate on EndOfFile. In strict mode a
// malformed construct yields an *Error, and the same error is returned on
// every subsequent call.
func (t *Tokenizer) NextToken() (Token, error) {
	if n := len(t.returned); n > 0 {
		tok := t.returned[n-1]
		t.returned = t.returned[:n-1]
		t.prev = tok.Value
		return tok, nil
	}
	if t.err != nil {
		return Token{}, t.err
	}
	if t.pos >= len(t.css) {
		return Token{}, nil
	}
	tok, err := t.scan()
	if err == nil {
		t.prev = tok.Value
	}
	return tok, err
}

func (t *Tokenizer) scan() (Token, error) {
	css := t.css
	pos := t.pos

	switch c := css[pos]; c {
	case ' ', '\t', '\n', '\r', '\f':
		next := pos + 1
		for next < len(css) && isSpace(css[next]) {
			next++
		}
		t.pos = next
		return Token{Space, css[pos:next], pos, next - 1}, nil

	case '[', ']', '{', '}', ':', ';', ')':
		t.pos = pos + 1
		return Token{Type(css[pos : pos+1]), css[pos : pos+1], pos, pos}, nil

	case '(':
		return t.scanParen(pos)

	case '\'', '"':
		return t.scanString(pos, c)

	case '@':
		next := len(css) - 1
		for i := pos + 1; i < len(css); i++ {
			if atEnd[css[i]] {
				next = i - 1
				break
			}
		}
		t.pos = next + 1
		return Token{AtWord, css[pos : next+1], pos, next}, nil

	case '\\':
		return t.scanEscape(pos)

	default:
		if c == '/' && pos+1 < len(css) && css[pos+1] == '*' {
			return t.scanComment(pos)
		}
		next := t.wordEndIndex(pos + 1)
		t.pos = next + 1
		return Token{Word, css[pos : next+1], pos, next}, nil
	}
}

// scanParen scans from an opening parenthesis. Directly after a "url" token
// the parenthesized run is taken raw up to the matching unescaped close
// paren as one brackets token. Otherwise a balanced simple group becomes a
// brackets token and anything suspicious degrades to a bare "(" token.
func (t *Tokenizer) scanParen(pos int) (Token, error) {
	css := t.css
	prev := t.prev

	var n byte
	if pos+1 < len(css) {
		n = css[pos+1]
	}
	if strings.EqualFold(prev, "url") && n != '\'' && n != '"' && !isSpace(n) {
		next := pos
		for {
			idx := strings.IndexByte(css[next+1:], ')')
			if idx < 0 {
				if t.ignoreErrors {
					next = pos
					break
				}
				return t.fail("bracket", pos)
			}
			next = next + 1 + idx
			if !escapedAt(css, next) {
				break
			}
		}
		t.pos = next + 1
		return Token{Brackets, css[pos : next+1], pos, next}, nil
	}

	idx := strings.IndexByte(css[pos+1:], ')')
	if idx < 0 || badBracket(css[pos:pos+idx+2]) {
		t.pos = pos + 1
		return Token{OpenParen, "(", pos, pos}, nil
	}
	next := pos + 1 + idx
	t.pos = next + 1
	return Token{Brackets, css[pos : next+1], pos, next}, nil
}

// scanString scans a quoted string, honoring backslash-escaped quotes. In
// forgiving mode an unterminated string collapses to the quote and the
// character after it, and scanning resumes from there.
func (t *Tokenizer) scanString(pos int, quote byte) (Token, error) {
	css := t.css
	next := pos
	for {
		idx := strings.IndexByte(css[next+1:], quote)
		if idx < 0 {
			if !t.ignoreErrors {
				return t.fail("string", pos)
			}
			next = pos + 1
			break
		}
		next = next + 1 + idx
		if !escapedAt(css, next) {
			break
		}
	}
	end := next + 1
	if end > len(css) {
		end = len(css)
	}
	t.pos = next + 1
	return Token{String, css[pos:end], pos, end - 1}, nil
}

// scanComment scans a /* */ comment. In forgiving mode an unterminated
// comment extends to the end of the input.
func (t *Tokenizer) scanComment(pos int) (Token, error) {
	css := t.css
	idx := strings.Index(css[pos+2:], "*/")
	var next int
	if idx < 0 {
		if !t.ignoreErrors {
			return t.fail("comment", pos)
		}
		next = len(css) - 1
	} else {
		next = pos + 2 + idx + 1
	}
	t.pos = next + 1
	return Token{Comment, css[pos : next+1], pos, next}, nil
}

// scanEscape scans a backslash escape as a word token: an even run of
// backslashes stands alone, an odd run swallows the escaped character, and
// hex escapes take their digits plus one trailing space.
func (t *Tokenizer) scanEscape(pos int) (Token, error) {
	css := t.css
	next := pos
	escape := true
	for next+1 < len(css) && css[next+1] == '\\' {
		next++
		escape = !escape
	}
	if escape && next+1 < len(css) {
		if c := css[next+1]; c != '/' && !isSpace(c) {
			_, size := utf8.DecodeRuneInString(css[next+1:])
			next += size
			if isHexDigit(css[next]) {
				for next+1 < len(css) && isHexDigit(css[next+1]) {
					next++
				}
				if next+1 < len(css) && css[next+1] == ' ' {
					next++
				}
			}
		}
	}
	t.pos = next + 1
	return Token{Word, css[pos : next+1], pos, next}, nil
}

// wordEndIndex returns the index of the last byte of a word that began just
// before from.
func (t *Tokenizer) wordEndIndex(from int) int {
	css := t.css
	for i := from; i < len(css); i++ {
		c := css[i]
		if c == '/' {
			if i+1 < len(css) && css[i+1] == '*' {
				return i - 1
			}
			continue
		}
		if wordEnd[c] {
			return i - 1
		}
	}
	return len(css) - 1
}

func (t *Tokenizer) fail(what string, pos int) (Token, error) {
	t.err = &Error{What: what, Offset: pos}
	return Token{}, t.err
}

// escapedAt reports whether the byte at idx is preceded by an odd number of
// backslashes.
func escapedAt(s string, idx int) bool {
	escaped := false
	for i := idx - 1; i >= 0 && s[i] == '\\'; i-- {
		escaped = !escaped
	}
	return escaped
}

// badBracket reports whether a candidate (...) group contains characters
// that rule out scanning it as a single brackets token.
func badBracket(content string) bool {
	return len(content) > 1 && strings.ContainsAny(content[1:], "\n\r\"'(/\\")
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isHexDigit(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

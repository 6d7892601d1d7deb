package tokenizer

// Type identifies the lexical category of a token. Single-character
// punctuation tokens use the character itself as their type.
type Type string

const (
	Space    Type = "space"
	Word     Type = "word"
	String   Type = "string"
	Comment  Type = "comment"
	AtWord   Type = "at-word"
	Brackets Type = "brackets"

	OpenParen   Type = "("
	CloseParen  Type = ")"
	OpenCurly   Type = "{"
	CloseCurly  Type = "}"
	OpenSquare  Type = "["
	CloseSquare Type = "]"
	Colon       Type = ":"
	Semicolon   Type = ";"
)

// Token is a contiguous lexical unit of a CSS source. Value is the exact
// substring of the input, including any whitespace that is lexically part of
// the token. Concatenating the Values of all tokens in stream order
// reproduces the input byte for byte.
type Token struct {
	Type  Type
	Value string
	Pos   int // byte offset of the first byte of the token
	End   int // byte offset of the last byte of the token
}

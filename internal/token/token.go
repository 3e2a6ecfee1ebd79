package token

import "strings"

// Type is the type of a cell token.
type Type string

// Token represents a single cell of a row or a scalar value.
type Token struct {
	Type    Type
	Literal string
	// Quoted reports whether the cell was written between double quotes.
	// Quoted cells are always STRING.
	Quoted bool
}

const (
	// Literals
	INT    Type = "INT"    // 12345
	FLOAT  Type = "FLOAT"  // 123.45
	STRING Type = "STRING" // hello, "hello world"

	// Keywords
	TRUE  Type = "TRUE"
	FALSE Type = "FALSE"
	NULL  Type = "NULL"
)

var keywords = map[string]Type{
	"true":  TRUE,
	"false": FALSE,
	"null":  NULL,
}

// LookupKeyword checks the keywords table for a raw token, ignoring case.
// It returns the keyword's token type and true when the token is a keyword.
func LookupKeyword(lit string) (Type, bool) {
	if len(lit) < 4 || len(lit) > 5 {
		return STRING, false
	}
	tok, ok := keywords[strings.ToLower(lit)]
	if !ok {
		return STRING, false
	}
	return tok, true
}

// IsKeyword reports whether lit would be read back as a keyword.
func IsKeyword(lit string) bool {
	_, ok := LookupKeyword(lit)
	return ok
}

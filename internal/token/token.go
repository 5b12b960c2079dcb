package token

import (
	"fmt"

	"github.com/tensil-lang/tensil/internal/config"
)

// TokenType identifies the lexical class of a token.
type TokenType int

const (
	ILLEGAL TokenType = iota
	EOF
	IDENT
	KEYWORD
)

// Token is a single lexical token with its source position.
// Line and Column are 1-based. A zero Token means "no position";
// compiler-synthesized nodes carry zero tokens.
type Token struct {
	Type   TokenType
	Lexeme string
	Line   int
	Column int
	File   string
}

// Pos formats the token position for diagnostics. In test mode the file
// path is omitted so expected output stays stable across machines.
func (t Token) Pos() string {
	if t.Line == 0 {
		return "<synthesized>"
	}
	if t.File == "" || config.IsTestMode {
		return fmt.Sprintf("%d:%d", t.Line, t.Column)
	}
	return fmt.Sprintf("%s:%d:%d", t.File, t.Line, t.Column)
}

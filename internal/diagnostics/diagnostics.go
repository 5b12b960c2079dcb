package diagnostics

import (
	"fmt"

	"github.com/tensil-lang/tensil/internal/token"
)

// ErrorCode identifies a class of diagnostic.
type ErrorCode string

const (
	// ErrD001: unknown type referenced in a manifest or declaration.
	ErrD001 ErrorCode = "D001"
	// ErrD002: invalid declaration (duplicate field, missing name, overlap).
	ErrD002 ErrorCode = "D002"
	// ErrD003: broken protocol requirement reached the derivation dispatcher.
	// Indicates a malformed protocol definition, not a user error.
	ErrD003 ErrorCode = "D003"
	// ErrD004: protocol conformance cannot be automatically derived.
	ErrD004 ErrorCode = "D004"
)

// DiagnosticError is a positioned compiler diagnostic.
type DiagnosticError struct {
	Code    ErrorCode
	Token   token.Token
	Message string
}

func NewError(code ErrorCode, tok token.Token, message string) *DiagnosticError {
	return &DiagnosticError{Code: code, Token: tok, Message: message}
}

func (e *DiagnosticError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Token.Pos(), e.Code, e.Message)
}

// Key returns a deduplication key. Two diagnostics with the same position
// and code are considered the same report.
func (e *DiagnosticError) Key() string {
	return fmt.Sprintf("%d:%d:%s", e.Token.Line, e.Token.Column, e.Code)
}

// Sink receives diagnostics from compiler passes.
type Sink interface {
	Add(err *DiagnosticError)
}

// Bag is the default Sink: an ordered, deduplicated collection.
type Bag struct {
	errors []*DiagnosticError
	seen   map[string]bool
}

func NewBag() *Bag {
	return &Bag{seen: make(map[string]bool)}
}

func (b *Bag) Add(err *DiagnosticError) {
	if err == nil {
		return
	}
	key := err.Key() + ":" + err.Message
	if b.seen[key] {
		return
	}
	b.seen[key] = true
	b.errors = append(b.errors, err)
}

func (b *Bag) Errors() []*DiagnosticError {
	return b.errors
}

func (b *Bag) HasErrors() bool {
	return len(b.errors) > 0
}

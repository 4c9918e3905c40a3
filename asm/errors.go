package asm

import (
	"fmt"
	"strings"
)

// ErrorKind categorizes a diagnostic raised while lexing, parsing, or
// assembling a program.
type ErrorKind int

const (
	ErrorSyntax ErrorKind = iota
	ErrorNoSegmentDeclarationFound
	ErrorSymbolAlreadyDeclared
	ErrorUnknownDirectiveFound
	ErrorInsufficientSections
	ErrorStringConstantWithoutLabel
)

// Error is a single diagnostic with source position.
type Error struct {
	Pos     Position
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: error: %s", e.Pos, e.Message)
}

// NewError constructs an Error.
func NewError(pos Position, kind ErrorKind, message string) *Error {
	return &Error{Pos: pos, Kind: kind, Message: message}
}

// Warning is a non-fatal diagnostic: the assembler can still produce an
// image, but something in it is not what the source literally asked for
// (e.g. an unresolved label use emitted as zero bytes).
type Warning struct {
	Pos     Position
	Message string
}

func (w *Warning) String() string {
	return fmt.Sprintf("%s: warning: %s", w.Pos, w.Message)
}

// ErrorList accumulates diagnostics across a lex/parse/assemble pass.
// Assembly never surfaces a partial result while errors remain in the
// list; see the assembler package's two-pass driver.
type ErrorList struct {
	Errors   []*Error
	Warnings []*Warning
}

// Add appends an error to the list.
func (el *ErrorList) Add(err *Error) {
	el.Errors = append(el.Errors, err)
}

// AddWarning appends a non-fatal diagnostic.
func (el *ErrorList) AddWarning(w *Warning) {
	el.Warnings = append(el.Warnings, w)
}

// HasErrors reports whether any error has been recorded.
func (el *ErrorList) HasErrors() bool {
	return len(el.Errors) > 0
}

// Error implements the error interface so an *ErrorList can be returned
// directly wherever a single error is expected.
func (el *ErrorList) Error() string {
	var sb strings.Builder
	for _, err := range el.Errors {
		sb.WriteString(err.Error())
		sb.WriteByte('\n')
	}
	return sb.String()
}

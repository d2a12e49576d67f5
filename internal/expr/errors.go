package expr

import (
	"errors"
	"fmt"
)

// Evaluation errors.
var (
	// ErrSyntax indicates the input is not a well-formed expression.
	ErrSyntax = errors.New("expr: syntax error")

	// ErrDivisionByZero indicates a divisor evaluated to zero.
	ErrDivisionByZero = errors.New("expr: division by zero")

	// ErrNotFinite indicates the result overflowed to an infinity or NaN.
	ErrNotFinite = errors.New("expr: result is not finite")
)

// SyntaxError describes where parsing failed.
type SyntaxError struct {
	Pos int    // Byte offset in the input
	Msg string // What was expected or found
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("expr: syntax error at offset %d: %s", e.Pos, e.Msg)
}

// Unwrap allows errors.Is(err, ErrSyntax).
func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

func syntaxErrorf(pos int, format string, args ...any) error {
	return &SyntaxError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

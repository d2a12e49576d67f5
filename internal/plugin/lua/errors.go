package lua

import (
	"errors"
	"fmt"
)

// Errors for Lua state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when a call runs past its time limit.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrBadResult is returned when a function returns neither text nor a number.
	ErrBadResult = errors.New("lua function returned no text or number")

	// ErrInvalidLabel is returned when a script registers an empty label.
	ErrInvalidLabel = errors.New("lua: invalid button label")
)

// ScriptError reports a failure raised by a user function.
type ScriptError struct {
	// Label is the button the function is bound to.
	Label string
	// Message is the script's own message, if it returned one.
	Message string
	// Err is the underlying runtime error, if any.
	Err error
}

// Error implements the error interface.
func (e *ScriptError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("lua %q: %v", e.Label, e.Err)
	}
	return fmt.Sprintf("lua %q: %s", e.Label, e.Message)
}

// Unwrap returns the underlying error.
func (e *ScriptError) Unwrap() error {
	return e.Err
}

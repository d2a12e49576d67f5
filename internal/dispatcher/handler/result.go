package handler

import (
	"errors"
	"fmt"
)

// ErrInvalidOperation is the single failure kind a command can report.
// The dispatcher turns it into the display's error state.
var ErrInvalidOperation = errors.New("invalid operation")

// ResultStatus indicates the outcome of a command.
type ResultStatus uint8

const (
	// StatusOK indicates successful execution.
	StatusOK ResultStatus = iota
	// StatusNoOp indicates the command had no effect.
	StatusNoOp
	// StatusError indicates the command failed.
	StatusError
	// StatusCancelled indicates the command was not run.
	StatusCancelled
)

// String returns a string representation of the status.
func (s ResultStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNoOp:
		return "no-op"
	case StatusError:
		return "error"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// ViewUpdate describes changes the shell should make beyond the display text.
type ViewUpdate struct {
	// ToggleMenu shows or hides the scientific function column.
	ToggleMenu bool
}

// Result represents the outcome of a command.
type Result struct {
	// Status indicates the result status.
	Status ResultStatus

	// Error contains the failure cause.
	Error error

	// Message is an optional status message.
	Message string

	// Text is the display text after the command ran.
	Text string

	// ViewUpdate indicates required view updates.
	ViewUpdate ViewUpdate

	// Data holds command-specific return data.
	Data map[string]any
}

// IsOK returns true if the result indicates success.
func (r Result) IsOK() bool {
	return r.Status == StatusOK
}

// IsError returns true if the result indicates an error.
func (r Result) IsError() bool {
	return r.Status == StatusError
}

// Success creates a successful result.
func Success() Result {
	return Result{Status: StatusOK}
}

// SuccessWithMessage creates a successful result with a message.
func SuccessWithMessage(msg string) Result {
	return Result{Status: StatusOK, Message: msg}
}

// NoOp creates a no-operation result.
func NoOp() Result {
	return Result{Status: StatusNoOp}
}

// NoOpWithMessage creates a no-operation result with a message.
func NoOpWithMessage(msg string) Result {
	return Result{Status: StatusNoOp, Message: msg}
}

// Error creates an error result.
func Error(err error) Result {
	return Result{Status: StatusError, Error: err}
}

// Errorf creates an error result with a formatted message.
func Errorf(format string, args ...any) Result {
	return Result{
		Status: StatusError,
		Error:  fmt.Errorf(format, args...),
	}
}

// Invalid creates an ErrInvalidOperation result.
// The cause, if any, is kept in the wrapped error chain.
func Invalid(cause error) Result {
	if cause == nil {
		return Error(ErrInvalidOperation)
	}
	return Error(fmt.Errorf("%w: %w", ErrInvalidOperation, cause))
}

// Cancelled creates a cancelled result.
func Cancelled() Result {
	return Result{Status: StatusCancelled}
}

// CancelledWithMessage creates a cancelled result with a message.
func CancelledWithMessage(msg string) Result {
	return Result{Status: StatusCancelled, Message: msg}
}

// Committed returns Success if changed is true and NoOp otherwise.
func Committed(changed bool) Result {
	if changed {
		return Success()
	}
	return NoOp()
}

// WithMessage returns a copy of the result with the specified message.
func (r Result) WithMessage(msg string) Result {
	r.Message = msg
	return r
}

// WithViewUpdate returns a copy of the result with a view update.
func (r Result) WithViewUpdate(vu ViewUpdate) Result {
	r.ViewUpdate = vu
	return r
}

// WithData returns a copy of the result with data added.
func (r Result) WithData(key string, value any) Result {
	if r.Data == nil {
		r.Data = make(map[string]any)
	}
	r.Data[key] = value
	return r
}

// GetData retrieves a value from the result data.
func (r Result) GetData(key string) (any, bool) {
	if r.Data == nil {
		return nil, false
	}
	v, ok := r.Data[key]
	return v, ok
}

// GetDataString retrieves a string value from the result data.
func (r Result) GetDataString(key string) string {
	if v, ok := r.GetData(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

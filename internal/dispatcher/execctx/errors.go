package execctx

import "errors"

// Context validation errors.
var (
	// ErrMissingDisplay indicates the display is required but not set.
	ErrMissingDisplay = errors.New("execution context: display is required")

	// ErrMissingFormatter indicates the number formatter is required but not set.
	ErrMissingFormatter = errors.New("execution context: number formatter is required")
)

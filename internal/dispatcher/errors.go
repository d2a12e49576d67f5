package dispatcher

import "errors"

// Dispatcher errors.
var (
	// ErrNoCommand indicates no command or fallback was found for a label.
	ErrNoCommand = errors.New("dispatcher: no command for label")

	// ErrNoDisplay indicates the dispatcher has no display to act on.
	ErrNoDisplay = errors.New("dispatcher: display not set")

	// ErrPanic indicates the command panicked.
	ErrPanic = errors.New("dispatcher: command panic")

	// ErrBlocked indicates input was refused while the error marker is shown.
	ErrBlocked = errors.New("dispatcher: input blocked while error is displayed")
)

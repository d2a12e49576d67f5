package display

import "time"

// Timer is a pending delayed action.
type Timer interface {
	// Stop cancels the action. Returns false if it already ran.
	Stop() bool
}

// Scheduler runs f after d on its own goroutine.
type Scheduler func(d time.Duration, f func()) Timer

// AfterFunc is the default Scheduler backed by time.AfterFunc.
func AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

package display

import (
	"sync"
	"time"

	"github.com/dshills/keycalc/internal/engine/history"
)

// ErrorMarker is the text shown while the display is in the error state.
const ErrorMarker = "ERROR"

// DefaultErrorDuration is how long the error marker stays visible.
const DefaultErrorDuration = 2 * time.Second

// Display holds the current expression text and its undo/redo stacks.
type Display struct {
	mu sync.Mutex

	text string
	undo *history.Stack
	redo *history.Stack

	// Error state
	erroring   bool
	timer      Timer
	generation uint64
	schedule   Scheduler

	listeners    []listener
	nextListener uint64
}

type listener struct {
	id uint64
	fn func()
}

// Option configures a Display.
type Option func(*Display)

// WithHistoryLimit bounds the undo and redo stacks.
func WithHistoryLimit(n int) Option {
	return func(d *Display) {
		d.undo.SetMaxEntries(n)
		d.redo.SetMaxEntries(n)
	}
}

// WithScheduler replaces the timer used for the error reset.
func WithScheduler(s Scheduler) Option {
	return func(d *Display) {
		if s != nil {
			d.schedule = s
		}
	}
}

// WithText sets the initial text.
func WithText(text string) Option {
	return func(d *Display) {
		d.text = text
	}
}

// New creates an empty display.
func New(opts ...Option) *Display {
	d := &Display{
		undo:     history.NewStack(history.DefaultMaxEntries),
		redo:     history.NewStack(history.DefaultMaxEntries),
		schedule: AfterFunc,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Text returns the current display content.
func (d *Display) Text() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.text
}

// SetText replaces the display content without touching history.
func (d *Display) SetText(text string) {
	d.mu.Lock()
	d.text = text
	d.mu.Unlock()
}

// Commit replaces the text as a mutating edit: the current text is pushed to
// history and the redo stack is discarded. Committing the text already shown
// changes nothing and returns false.
func (d *Display) Commit(next string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if next == d.text {
		return false
	}
	d.undo.Push(d.text)
	d.redo.Clear()
	d.text = next
	return true
}

// Undo moves the display one step back in history.
// Returns false, without touching the redo stack, when history is empty.
func (d *Display) Undo() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.undo.IsEmpty() {
		return false
	}
	d.redo.Push(d.text)
	d.text = d.undo.Pop()
	return true
}

// Redo reapplies the most recently undone state.
// Returns false when there is nothing to redo.
func (d *Display) Redo() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.redo.IsEmpty() {
		return false
	}
	d.undo.Push(d.text)
	d.text = d.redo.Pop()
	return true
}

// Reset clears the text and both stacks.
func (d *Display) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.text = ""
	d.undo.Clear()
	d.redo.Clear()
}

// PushHistory pushes a snapshot onto the history stack.
func (d *Display) PushHistory(text string) { d.undo.Push(text) }

// PopHistory pops the history stack, returning "" when it is empty.
func (d *Display) PopHistory() string { return d.undo.Pop() }

// ClearHistory empties the history stack.
func (d *Display) ClearHistory() { d.undo.Clear() }

// PushRedo pushes a snapshot onto the redo stack.
func (d *Display) PushRedo(text string) { d.redo.Push(text) }

// PopRedo pops the redo stack, returning "" when it is empty.
func (d *Display) PopRedo() string { return d.redo.Pop() }

// ClearRedo empties the redo stack.
func (d *Display) ClearRedo() { d.redo.Clear() }

// HistoryLen returns the number of history snapshots.
func (d *Display) HistoryLen() int { return d.undo.Len() }

// RedoLen returns the number of redo snapshots.
func (d *Display) RedoLen() int { return d.redo.Len() }

// History returns the history snapshots, oldest first.
func (d *Display) History() []string { return d.undo.Snapshot() }

// RedoStack returns the redo snapshots, oldest first.
func (d *Display) RedoStack() []string { return d.redo.Snapshot() }

// SetHistoryLimit bounds both stacks.
func (d *Display) SetHistoryLimit(n int) {
	d.undo.SetMaxEntries(n)
	d.redo.SetMaxEntries(n)
}

// OnChange registers a callback run when the display changes outside a
// command, i.e. when the error marker expires. The returned function
// removes the callback.
func (d *Display) OnChange(fn func()) func() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextListener++
	id := d.nextListener
	d.listeners = append(d.listeners, listener{id: id, fn: fn})

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		for i, l := range d.listeners {
			if l.id == id {
				d.listeners = append(d.listeners[:i:i], d.listeners[i+1:]...)
				return
			}
		}
	}
}

// notify runs change listeners. Must be called without holding mu.
func (d *Display) notify() {
	d.mu.Lock()
	listeners := make([]listener, len(d.listeners))
	copy(listeners, d.listeners)
	d.mu.Unlock()

	for _, l := range listeners {
		l.fn()
	}
}

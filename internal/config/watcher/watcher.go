// Package watcher reports changes to a single configuration file.
//
// The watcher observes the file's directory rather than the file itself so
// that editors which save by writing a temporary file and renaming it over
// the original are still seen. Bursts of events are coalesced: handlers run
// once the file has been quiet for the debounce interval.
package watcher

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrClosed indicates the watcher has been stopped.
var ErrClosed = errors.New("watcher: closed")

// Event represents a file change event.
type Event struct {
	// Path is the absolute path to the changed file.
	Path string

	// Op is the operation that triggered the event.
	Op Operation

	// Time is when the last coalesced change was seen.
	Time time.Time
}

// Operation represents the type of file operation.
type Operation int

const (
	// OpWrite indicates the file was modified.
	OpWrite Operation = iota

	// OpCreate indicates a new file was created.
	OpCreate

	// OpRemove indicates the file was deleted.
	OpRemove

	// OpRename indicates the file was renamed.
	OpRename
)

// String returns the operation name.
func (op Operation) String() string {
	switch op {
	case OpWrite:
		return "write"
	case OpCreate:
		return "create"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Handler is called when a file change is detected.
type Handler func(event Event)

// ErrorHandler is called when the underlying notifier reports an error.
type ErrorHandler func(err error)

// Watcher monitors one file for changes.
type Watcher struct {
	mu sync.Mutex

	path string
	fsw  *fsnotify.Watcher

	handlers      []Handler
	errorHandlers []ErrorHandler

	debounce time.Duration
	timer    *time.Timer
	pending  *Event

	running bool
	done    chan struct{}
	wg      sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before handlers run.
// Zero delivers every event immediately.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// New creates a watcher for the file at path. The file need not exist yet,
// but its directory must.
func New(path string, opts ...Option) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &Watcher{
		path:     absPath,
		fsw:      fsw,
		debounce: 100 * time.Millisecond,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// OnChange registers a handler for file change events.
func (w *Watcher) OnChange(handler Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, handler)
}

// OnError registers a handler for notifier errors.
func (w *Watcher) OnError(handler ErrorHandler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.errorHandlers = append(w.errorHandlers, handler)
}

// Start begins delivering events.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	select {
	case <-w.done:
		return ErrClosed
	default:
	}
	if w.running {
		return nil
	}
	w.running = true

	w.wg.Add(1)
	go w.loop()
	return nil
}

// Stop stops watching and releases the notifier. Pending events are dropped.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	select {
	case <-w.done:
		w.mu.Unlock()
		return nil
	default:
	}
	close(w.done)
	w.running = false
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.pending = nil
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

// IsRunning returns whether the watcher is active.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// loop forwards notifier events for the watched file.
func (w *Watcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			op, known := convertOp(ev.Op)
			if !known {
				continue
			}
			w.queue(Event{Path: w.path, Op: op, Time: time.Now()})

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.emitError(err)
		}
	}
}

// convertOp maps a notifier operation to an Operation.
func convertOp(op fsnotify.Op) (Operation, bool) {
	switch {
	case op.Has(fsnotify.Remove):
		return OpRemove, true
	case op.Has(fsnotify.Rename):
		return OpRename, true
	case op.Has(fsnotify.Create):
		return OpCreate, true
	case op.Has(fsnotify.Write):
		return OpWrite, true
	default:
		return 0, false
	}
}

// queue coalesces event with any pending one and restarts the debounce timer.
// A removal wins over later writes; a creation followed by writes stays a
// creation.
func (w *Watcher) queue(event Event) {
	if w.debounce == 0 {
		w.emit(event)
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pending != nil {
		switch {
		case w.pending.Op == OpCreate && event.Op == OpWrite:
			event.Op = OpCreate
		case w.pending.Op == OpRemove && event.Op == OpWrite:
			event.Op = OpRemove
		}
	}
	w.pending = &event

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

// flush delivers the pending event.
func (w *Watcher) flush() {
	w.mu.Lock()
	event := w.pending
	w.pending = nil
	w.timer = nil
	w.mu.Unlock()

	if event != nil {
		w.emit(*event)
	}
}

// emit calls all handlers with the event.
// A panicking handler does not stop the watcher.
func (w *Watcher) emit(event Event) {
	w.mu.Lock()
	handlers := make([]Handler, len(w.handlers))
	copy(handlers, w.handlers)
	w.mu.Unlock()

	for _, handler := range handlers {
		func() {
			defer func() { _ = recover() }()
			handler(event)
		}()
	}
}

func (w *Watcher) emitError(err error) {
	w.mu.Lock()
	handlers := make([]ErrorHandler, len(w.errorHandlers))
	copy(handlers, w.errorHandlers)
	w.mu.Unlock()

	for _, handler := range handlers {
		handler(err)
	}
}

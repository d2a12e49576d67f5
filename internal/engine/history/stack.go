package history

import (
	"sync"
	"time"
)

// DefaultMaxEntries is used when a Stack is created with a non-positive limit.
const DefaultMaxEntries = 1000

// entry wraps a snapshot with metadata.
type entry struct {
	text      string
	timestamp time.Time
}

// Info describes a snapshot held by a Stack.
type Info struct {
	Text      string
	Timestamp time.Time
}

// Stack is a bounded last-in-first-out sequence of display snapshots.
type Stack struct {
	mu sync.Mutex

	entries    []entry
	maxEntries int
}

// NewStack creates a stack holding at most maxEntries snapshots.
func NewStack(maxEntries int) *Stack {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Stack{maxEntries: maxEntries}
}

// Push adds a snapshot on top of the stack.
// If the stack is full the oldest snapshot is removed.
func (s *Stack) Push(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, entry{text: text, timestamp: time.Now()})

	if len(s.entries) > s.maxEntries {
		excess := len(s.entries) - s.maxEntries
		s.entries = s.entries[excess:]
	}
}

// Pop removes and returns the top snapshot.
// Returns "" if the stack is empty.
func (s *Stack) Pop() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) == 0 {
		return ""
	}

	top := s.entries[len(s.entries)-1]
	s.entries = s.entries[:len(s.entries)-1]
	return top.text
}

// Peek returns the top snapshot without removing it.
func (s *Stack) Peek() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) == 0 {
		return "", false
	}
	return s.entries[len(s.entries)-1].text, true
}

// Len returns the number of snapshots on the stack.
func (s *Stack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// IsEmpty returns true if the stack holds no snapshots.
func (s *Stack) IsEmpty() bool {
	return s.Len() == 0
}

// Contains reports whether any snapshot equals text.
func (s *Stack) Contains(text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if e.text == text {
			return true
		}
	}
	return false
}

// Clear removes all snapshots.
func (s *Stack) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
}

// Snapshot returns a copy of the stack contents, bottom first.
func (s *Stack) Snapshot() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]string, len(s.entries))
	for i, e := range s.entries {
		result[i] = e.text
	}
	return result
}

// Info returns metadata for every snapshot, bottom first.
func (s *Stack) Info() []Info {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]Info, len(s.entries))
	for i, e := range s.entries {
		result[i] = Info{Text: e.text, Timestamp: e.timestamp}
	}
	return result
}

// SetMaxEntries changes the maximum number of snapshots.
// If the current stack is larger, oldest snapshots are removed.
func (s *Stack) SetMaxEntries(max int) {
	if max <= 0 {
		max = DefaultMaxEntries
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.maxEntries = max

	if len(s.entries) > max {
		excess := len(s.entries) - max
		s.entries = s.entries[excess:]
	}
}

// MaxEntries returns the maximum number of snapshots.
func (s *Stack) MaxEntries() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxEntries
}

package dispatcher

import (
	"sort"
	"sync"

	"github.com/dshills/keycalc/internal/dispatcher/handler"
)

// Registry maps labels to commands.
type Registry struct {
	mu       sync.RWMutex
	commands map[string][]handler.Command // label -> commands (sorted by priority)
}

// NewRegistry creates a new command registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string][]handler.Command),
	}
}

// Register binds a command to a label.
// Several commands may share a label; the highest priority one wins, and
// among equal priorities the most recent registration wins.
func (r *Registry) Register(label string, c handler.Command) {
	r.mu.Lock()
	defer r.mu.Unlock()

	commands := append([]handler.Command{c}, r.commands[label]...)

	sort.SliceStable(commands, func(i, j int) bool {
		return commands[i].Priority() > commands[j].Priority()
	})

	r.commands[label] = commands
}

// Unregister removes all commands for a label.
func (r *Registry) Unregister(label string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.commands, label)
}

// UnregisterCommand removes a specific command from a label.
func (r *Registry) UnregisterCommand(label string, c handler.Command) {
	r.mu.Lock()
	defer r.mu.Unlock()

	commands := r.commands[label]
	for i, existing := range commands {
		if existing == c {
			r.commands[label] = append(commands[:i], commands[i+1:]...)
			break
		}
	}
	if len(r.commands[label]) == 0 {
		delete(r.commands, label)
	}
}

// Get returns the command for a label, or nil if none is bound.
func (r *Registry) Get(label string) handler.Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	commands := r.commands[label]
	if len(commands) == 0 {
		return nil
	}
	return commands[0]
}

// Has returns true if a command is bound to the label.
func (r *Registry) Has(label string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.commands[label]) > 0
}

// List returns all bound labels, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	labels := make([]string, 0, len(r.commands))
	for label := range r.commands {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// Count returns the number of bound labels.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.commands)
}

// Clear removes all bindings.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = make(map[string][]handler.Command)
}

// Package handler provides the command interface and result types for dispatch.
package handler

import (
	"github.com/dshills/keycalc/internal/dispatcher/execctx"
)

// Command is an operation bound to one or more button labels.
type Command interface {
	// Execute runs the command against the display in ctx.
	Execute(ctx *execctx.ExecutionContext) Result

	// Name identifies the command in logs and metrics.
	Name() string

	// Priority returns the command priority (higher wins for a shared label).
	Priority() int
}

// Func is a function adapter for the Command interface.
type Func struct {
	name string
	fn   func(ctx *execctx.ExecutionContext) Result
	prio int
}

// NewFunc creates a command from a function.
func NewFunc(name string, fn func(ctx *execctx.ExecutionContext) Result) *Func {
	return &Func{name: name, fn: fn}
}

// NewFuncWithPriority creates a command from a function with a priority.
func NewFuncWithPriority(name string, fn func(ctx *execctx.ExecutionContext) Result, priority int) *Func {
	return &Func{name: name, fn: fn, prio: priority}
}

// Execute implements Command.Execute.
func (f *Func) Execute(ctx *execctx.ExecutionContext) Result {
	if f.fn == nil {
		return Errorf("command %s has no function", f.name)
	}
	return f.fn(ctx)
}

// Name implements Command.Name.
func (f *Func) Name() string {
	return f.name
}

// Priority implements Command.Priority.
func (f *Func) Priority() int {
	return f.prio
}

// Registrar accepts command registrations.
type Registrar interface {
	RegisterCommand(label string, c Command)
}

// Group is a named set of commands keyed by label.
type Group struct {
	name     string
	commands map[string]Command
	order    []string
}

// NewGroup creates an empty command group.
func NewGroup(name string) *Group {
	return &Group{
		name:     name,
		commands: make(map[string]Command),
	}
}

// Add binds a command to one or more labels.
func (g *Group) Add(c Command, labels ...string) {
	for _, label := range labels {
		if _, exists := g.commands[label]; !exists {
			g.order = append(g.order, label)
		}
		g.commands[label] = c
	}
}

// Name returns the group name.
func (g *Group) Name() string {
	return g.name
}

// Get returns the command bound to label.
func (g *Group) Get(label string) (Command, bool) {
	c, ok := g.commands[label]
	return c, ok
}

// Labels returns the bound labels in insertion order.
func (g *Group) Labels() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// RegisterAll registers every binding with r.
func (g *Group) RegisterAll(r Registrar) {
	for _, label := range g.order {
		r.RegisterCommand(label, g.commands[label])
	}
}

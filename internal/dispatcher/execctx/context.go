// Package execctx provides the execution context for calculator commands.
package execctx

import (
	"time"
)

// DisplayInterface abstracts the display buffer for commands.
type DisplayInterface interface {
	// Text access
	Text() string
	SetText(text string)

	// Mutating edit: records history and discards redo
	Commit(next string) bool

	// History navigation
	Undo() bool
	Redo() bool
	Reset()

	// Stack queries
	HistoryLen() int
	RedoLen() int

	// Error state
	Fail(duration time.Duration)
	Acknowledge() bool
	Erroring() bool
}

// NumberFormatter abstracts number conversion for commands.
type NumberFormatter interface {
	Format(v float64) string
	Parse(s string) (float64, error)
	Normalize(expr string) string
	Separator() string
}

// Settings holds behaviour switches read by commands.
type Settings struct {
	// ImplicitMultiply inserts "*" before π or e when appended after a number.
	ImplicitMultiply bool
}

// ExecutionContext provides context for command execution.
type ExecutionContext struct {
	// Display is the buffer the command reads and mutates.
	Display DisplayInterface

	// Numbers converts between values and display text.
	Numbers NumberFormatter

	// Settings are behaviour switches.
	Settings Settings

	// Label is the button label that selected the command.
	Label string

	// Data holds command-specific context data.
	Data map[string]any
}

// New creates a new execution context.
func New() *ExecutionContext {
	return &ExecutionContext{
		Data: make(map[string]any),
	}
}

// WithDisplay returns the context with the display set.
func (ctx *ExecutionContext) WithDisplay(d DisplayInterface) *ExecutionContext {
	ctx.Display = d
	return ctx
}

// WithNumbers returns the context with the number formatter set.
func (ctx *ExecutionContext) WithNumbers(n NumberFormatter) *ExecutionContext {
	ctx.Numbers = n
	return ctx
}

// WithSettings returns the context with settings set.
func (ctx *ExecutionContext) WithSettings(s Settings) *ExecutionContext {
	ctx.Settings = s
	return ctx
}

// WithLabel returns the context with the dispatched label set.
func (ctx *ExecutionContext) WithLabel(label string) *ExecutionContext {
	ctx.Label = label
	return ctx
}

// Text returns the current display text.
func (ctx *ExecutionContext) Text() string {
	if ctx.Display == nil {
		return ""
	}
	return ctx.Display.Text()
}

// Commit replaces the display text as a mutating edit.
func (ctx *ExecutionContext) Commit(next string) bool {
	return ctx.Display.Commit(next)
}

// Number parses the display text as a single number.
func (ctx *ExecutionContext) Number() (float64, error) {
	return ctx.Numbers.Parse(ctx.Display.Text())
}

// Separator returns the decimal separator, "." without a formatter.
func (ctx *ExecutionContext) Separator() string {
	if ctx.Numbers == nil {
		return "."
	}
	return ctx.Numbers.Separator()
}

// SetData sets a context data value.
func (ctx *ExecutionContext) SetData(key string, value any) {
	if ctx.Data == nil {
		ctx.Data = make(map[string]any)
	}
	ctx.Data[key] = value
}

// GetData retrieves a context data value.
func (ctx *ExecutionContext) GetData(key string) (any, bool) {
	if ctx.Data == nil {
		return nil, false
	}
	v, ok := ctx.Data[key]
	return v, ok
}

// GetDataString retrieves a string value from context data.
func (ctx *ExecutionContext) GetDataString(key string) string {
	if v, ok := ctx.GetData(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Validate checks that the context has the display.
func (ctx *ExecutionContext) Validate() error {
	if ctx.Display == nil {
		return ErrMissingDisplay
	}
	return nil
}

// ValidateForMath checks that the context can parse and format numbers.
func (ctx *ExecutionContext) ValidateForMath() error {
	if err := ctx.Validate(); err != nil {
		return err
	}
	if ctx.Numbers == nil {
		return ErrMissingFormatter
	}
	return nil
}

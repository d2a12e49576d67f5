package dispatcher

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/dshills/keycalc/internal/dispatcher/execctx"
	"github.com/dshills/keycalc/internal/dispatcher/handler"
)

// Dispatcher maps labels to commands and coordinates execution.
type Dispatcher struct {
	mu sync.RWMutex

	// exec serializes dispatches so each command sees a stable display.
	exec sync.Mutex

	// Core components
	registry *Registry
	fallback handler.Command

	// Calculator state
	display  execctx.DisplayInterface
	numbers  execctx.NumberFormatter
	settings execctx.Settings

	// Configuration
	config Config

	// Metrics
	metrics *Metrics

	// Hooks
	preHooks  []PreDispatchHook
	postHooks []PostDispatchHook
}

// New creates a new dispatcher with the given configuration.
func New(config Config) *Dispatcher {
	if config.ErrorDuration <= 0 {
		config.ErrorDuration = DefaultConfig().ErrorDuration
	}

	d := &Dispatcher{
		registry: NewRegistry(),
		config:   config,
	}

	if config.EnableMetrics {
		d.metrics = NewMetrics()
	}

	return d
}

// NewWithDefaults creates a new dispatcher with default configuration.
func NewWithDefaults() *Dispatcher {
	return New(DefaultConfig())
}

// SetDisplay sets the display buffer commands act on.
func (d *Dispatcher) SetDisplay(display execctx.DisplayInterface) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.display = display
}

// SetNumbers sets the number formatter.
func (d *Dispatcher) SetNumbers(numbers execctx.NumberFormatter) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.numbers = numbers
}

// SetSettings sets the behaviour switches passed to commands.
func (d *Dispatcher) SetSettings(settings execctx.Settings) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.settings = settings
}

// SetFallback sets the command run for labels without a binding.
func (d *Dispatcher) SetFallback(c handler.Command) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fallback = c
}

// Display returns the display buffer.
func (d *Dispatcher) Display() execctx.DisplayInterface {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.display
}

// Numbers returns the number formatter.
func (d *Dispatcher) Numbers() execctx.NumberFormatter {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.numbers
}

// Settings returns the current behaviour switches.
func (d *Dispatcher) Settings() execctx.Settings {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.settings
}

// Config returns the dispatcher configuration.
func (d *Dispatcher) Config() Config {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.config
}

// SetConfig replaces the dispatcher configuration.
// Metrics collection is started or stopped to match.
func (d *Dispatcher) SetConfig(config Config) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if config.ErrorDuration <= 0 {
		config.ErrorDuration = d.config.ErrorDuration
	}
	d.config = config

	switch {
	case config.EnableMetrics && d.metrics == nil:
		d.metrics = NewMetrics()
	case !config.EnableMetrics:
		d.metrics = nil
	}
}

// Dispatch runs the command bound to label.
func (d *Dispatcher) Dispatch(label string) handler.Result {
	d.exec.Lock()
	defer d.exec.Unlock()

	startTime := time.Now()

	ctx := d.buildContext(label)
	if err := ctx.Validate(); err != nil {
		return handler.Error(ErrNoDisplay)
	}

	config := d.Config()

	// A new press either dismisses the error marker or is refused.
	if ctx.Display.Erroring() {
		if config.BlockWhileError {
			result := handler.Error(ErrBlocked)
			result.Status = handler.StatusCancelled
			result.Text = ctx.Display.Text()
			return result
		}
		ctx.Display.Acknowledge()
	}

	if !d.runPreHooks(&label, ctx) {
		result := handler.CancelledWithMessage("cancelled by hook")
		result.Text = ctx.Display.Text()
		return result
	}

	c := d.lookup(label)
	if c == nil {
		result := handler.Error(fmt.Errorf("%w: %q", ErrNoCommand, label))
		result.Text = ctx.Display.Text()
		return result
	}

	var result handler.Result
	if config.RecoverFromPanic {
		result = d.executeWithRecovery(c, ctx)
	} else {
		result = c.Execute(ctx)
	}

	d.processResult(result, ctx, config)
	result.Text = ctx.Display.Text()

	d.runPostHooks(label, ctx, &result)

	if m := d.Metrics(); m != nil {
		m.RecordDispatch(label, c.Name(), time.Since(startTime), result.Status)
	}

	return result
}

// DispatchAll dispatches labels in order and returns the last result.
func (d *Dispatcher) DispatchAll(labels ...string) handler.Result {
	var result handler.Result
	for _, label := range labels {
		result = d.Dispatch(label)
	}
	return result
}

// lookup returns the command bound to label or the fallback.
func (d *Dispatcher) lookup(label string) handler.Command {
	if c := d.registry.Get(label); c != nil {
		return c
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.fallback
}

// executeWithRecovery executes a command with panic recovery.
func (d *Dispatcher) executeWithRecovery(c handler.Command, ctx *execctx.ExecutionContext) (result handler.Result) {
	defer func() {
		if r := recover(); r != nil {
			stack := make([]byte, 4096)
			n := runtime.Stack(stack, false)

			result = handler.Error(fmt.Errorf("%w in %s: %v\n%s", ErrPanic, c.Name(), r, string(stack[:n])))

			if m := d.Metrics(); m != nil {
				m.RecordPanic()
			}
		}
	}()

	return c.Execute(ctx)
}

// buildContext builds an execution context from current state.
func (d *Dispatcher) buildContext(label string) *execctx.ExecutionContext {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return execctx.New().
		WithDisplay(d.display).
		WithNumbers(d.numbers).
		WithSettings(d.settings).
		WithLabel(label)
}

// processResult puts the display into the error state for failed commands.
// The pre-error text is recorded first so Undo can bring it back.
func (d *Dispatcher) processResult(result handler.Result, ctx *execctx.ExecutionContext, config Config) {
	if !result.IsError() {
		return
	}
	ctx.Display.Commit("")
	ctx.Display.Fail(config.ErrorDuration)
}

// RegisterCommand binds a command to a label.
func (d *Dispatcher) RegisterCommand(label string, c handler.Command) {
	d.registry.Register(label, c)
}

// RegisterFunc binds a function to a label.
func (d *Dispatcher) RegisterFunc(label, name string, fn func(ctx *execctx.ExecutionContext) handler.Result) {
	d.registry.Register(label, handler.NewFunc(name, fn))
}

// UnregisterCommand removes the binding for a label.
func (d *Dispatcher) UnregisterCommand(label string) {
	d.registry.Unregister(label)
}

// HasCommand returns true if a command is bound to label.
func (d *Dispatcher) HasCommand(label string) bool {
	return d.registry.Has(label)
}

// Labels returns all bound labels.
func (d *Dispatcher) Labels() []string {
	return d.registry.List()
}

// Registry returns the command registry.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// AddPreHook adds a pre-dispatch hook.
func (d *Dispatcher) AddPreHook(hook PreDispatchHook) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.preHooks = append(d.preHooks, hook)
}

// AddPostHook adds a post-dispatch hook.
func (d *Dispatcher) AddPostHook(hook PostDispatchHook) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.postHooks = append(d.postHooks, hook)
}

// runPreHooks runs all pre-dispatch hooks.
func (d *Dispatcher) runPreHooks(label *string, ctx *execctx.ExecutionContext) bool {
	d.mu.RLock()
	hooks := append([]PreDispatchHook(nil), d.preHooks...)
	d.mu.RUnlock()

	for _, hook := range hooks {
		if !hook.PreDispatch(label, ctx) {
			return false
		}
	}
	return true
}

// runPostHooks runs all post-dispatch hooks.
func (d *Dispatcher) runPostHooks(label string, ctx *execctx.ExecutionContext, result *handler.Result) {
	d.mu.RLock()
	hooks := append([]PostDispatchHook(nil), d.postHooks...)
	d.mu.RUnlock()

	for _, hook := range hooks {
		hook.PostDispatch(label, ctx, result)
	}
}

// Metrics returns the metrics collector, or nil when metrics are disabled.
func (d *Dispatcher) Metrics() *Metrics {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.metrics
}

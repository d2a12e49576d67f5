package plugin

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dshills/keycalc/internal/dispatcher/handler"
	plua "github.com/dshills/keycalc/internal/plugin/lua"
	lua "github.com/yuin/gopher-lua"
)

// ModuleName is the global table scripts use to reach the calculator.
const ModuleName = "keycalc"

// Host owns the Lua state shared by all scripts and the functions they
// register.
type Host struct {
	mu sync.RWMutex

	state *plua.State

	functions map[string]*Function
	order     []string

	// current is the script being run; registrations are credited to it.
	current *ScriptInfo

	timeout time.Duration
	logf    func(format string, args ...any)
	closed  bool
}

// HostOption configures a Host.
type HostOption func(*Host)

// WithTimeout sets the time limit for each script run and function call.
func WithTimeout(d time.Duration) HostOption {
	return func(h *Host) {
		h.timeout = d
	}
}

// WithLogger routes Lua print output to logf.
func WithLogger(logf func(format string, args ...any)) HostOption {
	return func(h *Host) {
		h.logf = logf
	}
}

// NewHost creates a host with a fresh sandboxed state.
func NewHost(opts ...HostOption) *Host {
	h := &Host{
		functions: make(map[string]*Function),
		timeout:   plua.DefaultExecutionTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}

	h.state = plua.NewState(
		plua.WithExecutionTimeout(h.timeout),
		plua.WithPrint(h.logf),
	)
	h.state.RegisterModule(ModuleName, map[string]lua.LGFunction{
		"register": h.luaRegister,
	})
	return h
}

// luaRegister implements keycalc.register(label, fn).
func (h *Host) luaRegister(L *lua.LState) int {
	label := L.CheckString(1)
	fn := L.CheckFunction(2)
	if label == "" {
		L.ArgError(1, plua.ErrInvalidLabel.Error())
		return 0
	}

	h.mu.Lock()
	if _, exists := h.functions[label]; exists {
		h.mu.Unlock()
		L.RaiseError("%s: %q", ErrDuplicateLabel.Error(), label)
		return 0
	}
	h.functions[label] = &Function{label: label, fn: fn, host: h}
	h.order = append(h.order, label)
	if h.current != nil {
		h.current.Labels = append(h.current.Labels, label)
	}
	h.mu.Unlock()
	return 0
}

// LoadAll runs every script in order. A failing script is marked in its
// ScriptInfo and the rest still run; the failures are joined in the
// returned error.
func (h *Host) LoadAll(ctx context.Context, scripts []*ScriptInfo) error {
	var errs []error
	for _, script := range scripts {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := h.LoadFile(script); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LoadFile runs a single script and records the outcome in info.
func (h *Host) LoadFile(info *ScriptInfo) error {
	return h.load(info, func() error {
		return h.state.DoFile(info.Path)
	})
}

// LoadString runs code as a script called name.
func (h *Host) LoadString(name, code string) (*ScriptInfo, error) {
	info := &ScriptInfo{Name: name, State: StateUnloaded}
	err := h.load(info, func() error {
		return h.state.DoString(code)
	})
	return info, err
}

func (h *Host) load(info *ScriptInfo, run func() error) error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return ErrHostClosed
	}
	h.current = info
	h.mu.Unlock()

	err := run()

	h.mu.Lock()
	h.current = nil
	h.mu.Unlock()

	if err != nil {
		info.State = StateError
		info.Error = err
		return fmt.Errorf("plugin %s: %w", info.Name, err)
	}
	info.State = StateLoaded
	return nil
}

// Function returns the function bound to label.
func (h *Host) Function(label string) (*Function, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	f, ok := h.functions[label]
	return f, ok
}

// Labels returns registered labels in registration order.
func (h *Host) Labels() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, len(h.order))
	copy(out, h.order)
	return out
}

// Commands returns a group holding one command per registered label.
func (h *Host) Commands() *handler.Group {
	g := handler.NewGroup("plugin")

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, label := range h.order {
		g.Add(h.functions[label], label)
	}
	return g
}

// Close releases the Lua state. Bound functions fail afterwards.
func (h *Host) Close() error {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()
	return h.state.Close()
}

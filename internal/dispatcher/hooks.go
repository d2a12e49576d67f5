package dispatcher

import (
	"sync"

	"github.com/dshills/keycalc/internal/dispatcher/execctx"
	"github.com/dshills/keycalc/internal/dispatcher/handler"
)

// PreDispatchHook is called before a command runs.
type PreDispatchHook interface {
	// PreDispatch may rewrite the label.
	// Returns false to cancel the dispatch.
	PreDispatch(label *string, ctx *execctx.ExecutionContext) bool
}

// PostDispatchHook is called after a command runs.
type PostDispatchHook interface {
	// PostDispatch may inspect or modify the result.
	PostDispatch(label string, ctx *execctx.ExecutionContext, result *handler.Result)
}

// PreDispatchFunc is a function adapter for PreDispatchHook.
type PreDispatchFunc func(label *string, ctx *execctx.ExecutionContext) bool

// PreDispatch implements PreDispatchHook.
func (f PreDispatchFunc) PreDispatch(label *string, ctx *execctx.ExecutionContext) bool {
	return f(label, ctx)
}

// PostDispatchFunc is a function adapter for PostDispatchHook.
type PostDispatchFunc func(label string, ctx *execctx.ExecutionContext, result *handler.Result)

// PostDispatch implements PostDispatchHook.
func (f PostDispatchFunc) PostDispatch(label string, ctx *execctx.ExecutionContext, result *handler.Result) {
	f(label, ctx, result)
}

// LoggingHook reports every dispatch through two log functions.
type LoggingHook struct {
	// Debugf receives one line per dispatch.
	Debugf func(format string, args ...any)

	// Warnf receives one line per failed dispatch.
	Warnf func(format string, args ...any)
}

// NewLoggingHook creates a logging hook.
func NewLoggingHook(debugf, warnf func(format string, args ...any)) *LoggingHook {
	return &LoggingHook{Debugf: debugf, Warnf: warnf}
}

// PostDispatch logs the label, status and resulting text.
func (h *LoggingHook) PostDispatch(label string, ctx *execctx.ExecutionContext, result *handler.Result) {
	if result.IsError() && h.Warnf != nil {
		h.Warnf("dispatch %q failed: %v", label, result.Error)
		return
	}
	if h.Debugf != nil {
		h.Debugf("dispatch %q -> %s text=%q", label, result.Status, result.Text)
	}
}

// AliasHook rewrites labels before lookup, e.g. keyboard glyphs to button labels.
type AliasHook struct {
	mu      sync.RWMutex
	aliases map[string]string
}

// NewAliasHook creates a hook rewriting labels found in aliases.
func NewAliasHook(aliases map[string]string) *AliasHook {
	h := &AliasHook{}
	h.SetAliases(aliases)
	return h
}

// SetAliases replaces the alias table.
func (h *AliasHook) SetAliases(aliases map[string]string) {
	copied := make(map[string]string, len(aliases))
	for k, v := range aliases {
		copied[k] = v
	}

	h.mu.Lock()
	h.aliases = copied
	h.mu.Unlock()
}

// PreDispatch rewrites the label if it has an alias.
func (h *AliasHook) PreDispatch(label *string, ctx *execctx.ExecutionContext) bool {
	h.mu.RLock()
	target, ok := h.aliases[*label]
	h.mu.RUnlock()

	if ok {
		*label = target
		ctx.Label = target
	}
	return true
}

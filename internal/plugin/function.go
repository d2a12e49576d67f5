package plugin

import (
	"math"
	"strconv"

	"github.com/dshills/keycalc/internal/dispatcher/execctx"
	"github.com/dshills/keycalc/internal/dispatcher/handler"
	"github.com/dshills/keycalc/internal/expr"
	plua "github.com/dshills/keycalc/internal/plugin/lua"
	lua "github.com/yuin/gopher-lua"
)

// Function is a Lua function bound to a button label.
type Function struct {
	label string
	fn    *lua.LFunction
	host  *Host
}

// Label returns the button label.
func (f *Function) Label() string {
	return f.label
}

// Name implements handler.Command.
func (f *Function) Name() string {
	return "plugin." + f.label
}

// Priority implements handler.Command.
func (f *Function) Priority() int {
	return 0
}

// Execute calls the Lua function with the display text and its numeric
// value (nil when the text is not a single number) and commits the result.
func (f *Function) Execute(ctx *execctx.ExecutionContext) handler.Result {
	if err := ctx.Validate(); err != nil {
		return handler.Error(err)
	}

	text := ctx.Text()
	var value lua.LValue = lua.LNil
	if ctx.Numbers != nil {
		if v, err := ctx.Numbers.Parse(text); err == nil {
			value = lua.LNumber(v)
		}
	}

	results, err := f.host.state.Call(f.fn, lua.LString(text), value)
	if err != nil {
		return handler.Invalid(&plua.ScriptError{Label: f.label, Err: err})
	}

	next, err := f.convert(ctx, results)
	if err != nil {
		return handler.Invalid(err)
	}
	return handler.Committed(ctx.Commit(next))
}

// convert turns the function's return values into display text.
func (f *Function) convert(ctx *execctx.ExecutionContext, results []lua.LValue) (string, error) {
	if len(results) == 0 {
		return "", &plua.ScriptError{Label: f.label, Err: plua.ErrBadResult}
	}

	switch v := results[0].(type) {
	case lua.LString:
		return string(v), nil
	case lua.LNumber:
		n := float64(v)
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return "", &plua.ScriptError{Label: f.label, Err: expr.ErrNotFinite}
		}
		if ctx.Numbers == nil {
			return strconv.FormatFloat(n, 'g', -1, 64), nil
		}
		return ctx.Numbers.Format(n), nil
	}

	if results[0].Type() == lua.LTNil {
		msg := "returned nil"
		if len(results) > 1 {
			if s, ok := results[1].(lua.LString); ok && s != "" {
				msg = string(s)
			}
		}
		return "", &plua.ScriptError{Label: f.label, Message: msg}
	}
	return "", &plua.ScriptError{Label: f.label, Err: plua.ErrBadResult}
}

package editor

import (
	"errors"

	"github.com/dshills/keycalc/internal/dispatcher/execctx"
	"github.com/dshills/keycalc/internal/dispatcher/handler"
)

// ErrNothingToRedo is reported when Redo runs with an empty redo stack.
var ErrNothingToRedo = errors.New("nothing to redo")

// ClearCommand empties the display and both history stacks.
type ClearCommand struct{}

// Name implements handler.Command.
func (c *ClearCommand) Name() string { return "clear" }

// Priority implements handler.Command.
func (c *ClearCommand) Priority() int { return 0 }

// Execute resets the display.
func (c *ClearCommand) Execute(ctx *execctx.ExecutionContext) handler.Result {
	if err := ctx.Validate(); err != nil {
		return handler.Error(err)
	}
	ctx.Display.Reset()
	return handler.Success()
}

// UndoCommand restores the previous display text.
type UndoCommand struct{}

// Name implements handler.Command.
func (c *UndoCommand) Name() string { return "undo" }

// Priority implements handler.Command.
func (c *UndoCommand) Priority() int { return 0 }

// Execute steps back in history; an empty history is silently ignored.
func (c *UndoCommand) Execute(ctx *execctx.ExecutionContext) handler.Result {
	if err := ctx.Validate(); err != nil {
		return handler.Error(err)
	}
	if !ctx.Display.Undo() {
		return handler.NoOpWithMessage("nothing to undo")
	}
	return handler.Success()
}

// RedoCommand reapplies the most recently undone text.
type RedoCommand struct{}

// Name implements handler.Command.
func (c *RedoCommand) Name() string { return "redo" }

// Priority implements handler.Command.
func (c *RedoCommand) Priority() int { return 0 }

// Execute steps forward; an empty redo stack is an error.
func (c *RedoCommand) Execute(ctx *execctx.ExecutionContext) handler.Result {
	if err := ctx.Validate(); err != nil {
		return handler.Error(err)
	}
	if !ctx.Display.Redo() {
		return handler.Invalid(ErrNothingToRedo)
	}
	return handler.Success()
}

// MenuCommand asks the shell to show or hide the function column.
type MenuCommand struct{}

// Name implements handler.Command.
func (c *MenuCommand) Name() string { return "menu" }

// Priority implements handler.Command.
func (c *MenuCommand) Priority() int { return 0 }

// Execute leaves the display untouched.
func (c *MenuCommand) Execute(ctx *execctx.ExecutionContext) handler.Result {
	return handler.NoOp().WithViewUpdate(handler.ViewUpdate{ToggleMenu: true})
}

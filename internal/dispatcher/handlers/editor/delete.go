package editor

import (
	"github.com/rivo/uniseg"

	"github.com/dshills/keycalc/internal/dispatcher/execctx"
	"github.com/dshills/keycalc/internal/dispatcher/handler"
)

// BackspaceCommand removes the last character of the display.
type BackspaceCommand struct{}

// NewBackspaceCommand creates the backspace command.
func NewBackspaceCommand() *BackspaceCommand {
	return &BackspaceCommand{}
}

// Name implements handler.Command.
func (c *BackspaceCommand) Name() string { return "backspace" }

// Priority implements handler.Command.
func (c *BackspaceCommand) Priority() int { return 0 }

// Execute drops the last grapheme cluster. Empty text is left alone.
func (c *BackspaceCommand) Execute(ctx *execctx.ExecutionContext) handler.Result {
	if err := ctx.Validate(); err != nil {
		return handler.Error(err)
	}

	text := ctx.Text()
	if text == "" {
		return handler.NoOp()
	}
	return handler.Committed(ctx.Commit(TrimLastGrapheme(text)))
}

// TrimLastGrapheme returns s without its final user-perceived character.
func TrimLastGrapheme(s string) string {
	last := 0
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		last, _ = gr.Positions()
	}
	return s[:last]
}

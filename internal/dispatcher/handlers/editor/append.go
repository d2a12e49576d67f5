package editor

import (
	"strings"

	"github.com/dshills/keycalc/internal/dispatcher/execctx"
	"github.com/dshills/keycalc/internal/dispatcher/handler"
)

// AppendCommand appends the dispatched label to the display.
// It is the dispatcher's fallback for labels without a dedicated command.
type AppendCommand struct{}

// NewAppendCommand creates the append command.
func NewAppendCommand() *AppendCommand {
	return &AppendCommand{}
}

// Name implements handler.Command.
func (c *AppendCommand) Name() string { return "append" }

// Priority implements handler.Command.
func (c *AppendCommand) Priority() int { return 0 }

// Execute appends ctx.Label if the input rules allow it.
func (c *AppendCommand) Execute(ctx *execctx.ExecutionContext) handler.Result {
	if err := ctx.Validate(); err != nil {
		return handler.Error(err)
	}
	if ctx.Label == "" {
		return handler.NoOp()
	}

	next, ok := Appended(ctx.Text(), ctx.Label, ctx.Separator())
	if !ok {
		return handler.NoOpWithMessage("input rejected")
	}
	return handler.Committed(ctx.Commit(next))
}

// Appended applies the input rules for label to text and returns the new
// text. ok is false when the input must be ignored.
func Appended(text, label, sep string) (next string, ok bool) {
	switch {
	case label == LabelZero:
		if text == "0" || text == "-0" {
			return text, false
		}
		return text + label, true

	case label == LabelZeroZero:
		switch text {
		case "", "0", "-", "-0":
			return text, false
		}
		return text + label, true

	case isDecimalKey(label, sep):
		seg := LastSegment(text)
		if seg == "" || strings.Contains(seg, sep) || hasExponent(seg) {
			return text, false
		}
		return text + sep, true

	case IsOperatorLabel(label):
		last := lastRune(text)
		if isMinus(label) {
			// A minus may open an expression or follow any operator but
			// another minus.
			if last == '-' || last == '−' {
				return text, false
			}
			return text + label, true
		}
		if text == "" || IsOperator(last) {
			return text, false
		}
		return text + label, true

	default:
		if text == "0" {
			return label, true
		}
		return text + label, true
	}
}

// isDecimalKey reports whether label enters a decimal separator.
// Both "." and "," are accepted and rendered as sep.
func isDecimalKey(label, sep string) bool {
	return label == sep || label == "." || label == ","
}

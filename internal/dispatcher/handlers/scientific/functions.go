package scientific

import (
	"errors"
	"math"

	"github.com/dshills/keycalc/internal/dispatcher/execctx"
	"github.com/dshills/keycalc/internal/dispatcher/handler"
	"github.com/dshills/keycalc/internal/expr"
)

// Button labels handled by this package.
const (
	LabelEvaluate  = "="
	LabelSqrt      = "√"
	LabelSquare    = "n²"
	LabelSquareAlt = "x²"
	LabelLn        = "ln"
	LabelPi        = "Pi"
	LabelPiAlt     = "π"
	LabelE         = "e"
)

// Domain errors.
var (
	ErrNegativeOperand    = errors.New("operand must not be negative")
	ErrNonPositiveOperand = errors.New("operand must be positive")
	ErrOutOfRange         = errors.New("result out of range")
)

// UnaryCommand applies a one-argument function to the number on the display.
type UnaryCommand struct {
	name string
	fn   func(x float64) (float64, error)
}

// NewUnaryCommand creates a command applying fn to the displayed number.
func NewUnaryCommand(name string, fn func(x float64) (float64, error)) *UnaryCommand {
	return &UnaryCommand{name: name, fn: fn}
}

// Name implements handler.Command.
func (c *UnaryCommand) Name() string { return c.name }

// Priority implements handler.Command.
func (c *UnaryCommand) Priority() int { return 0 }

// Execute parses the display, applies the function and shows the result.
func (c *UnaryCommand) Execute(ctx *execctx.ExecutionContext) handler.Result {
	if err := ctx.ValidateForMath(); err != nil {
		return handler.Error(err)
	}

	x, err := ctx.Number()
	if err != nil {
		return handler.Invalid(err)
	}
	v, err := c.fn(x)
	if err != nil {
		return handler.Invalid(err)
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return handler.Invalid(ErrOutOfRange)
	}
	return handler.Committed(ctx.Commit(ctx.Numbers.Format(v))).WithData("value", v)
}

// Sqrt returns √x for x ≥ 0.
func Sqrt(x float64) (float64, error) {
	if x < 0 {
		return 0, ErrNegativeOperand
	}
	return math.Sqrt(x), nil
}

// Square returns x².
func Square(x float64) (float64, error) {
	return x * x, nil
}

// Ln returns the natural logarithm for x > 0.
func Ln(x float64) (float64, error) {
	if x <= 0 {
		return 0, ErrNonPositiveOperand
	}
	return math.Log(x), nil
}

// EvaluateCommand evaluates the displayed expression.
type EvaluateCommand struct{}

// Name implements handler.Command.
func (c *EvaluateCommand) Name() string { return "evaluate" }

// Priority implements handler.Command.
func (c *EvaluateCommand) Priority() int { return 0 }

// Execute normalises glyphs and separators, evaluates and shows the result.
func (c *EvaluateCommand) Execute(ctx *execctx.ExecutionContext) handler.Result {
	if err := ctx.ValidateForMath(); err != nil {
		return handler.Error(err)
	}

	v, err := expr.Eval(ctx.Numbers.Normalize(ctx.Text()))
	if err != nil {
		return handler.Invalid(err)
	}
	return handler.Committed(ctx.Commit(ctx.Numbers.Format(v))).WithData("value", v)
}

// ConstantCommand appends a constant to the display.
type ConstantCommand struct {
	name  string
	value float64
}

// NewConstantCommand creates a command appending value.
func NewConstantCommand(name string, value float64) *ConstantCommand {
	return &ConstantCommand{name: name, value: value}
}

// Name implements handler.Command.
func (c *ConstantCommand) Name() string { return c.name }

// Priority implements handler.Command.
func (c *ConstantCommand) Priority() int { return 0 }

// Execute concatenates the constant to the text. With implicit
// multiplication a "*" joins it to a preceding operand.
func (c *ConstantCommand) Execute(ctx *execctx.ExecutionContext) handler.Result {
	if err := ctx.ValidateForMath(); err != nil {
		return handler.Error(err)
	}

	text := ctx.Text()
	joiner := ""
	if ctx.Settings.ImplicitMultiply && text != "" && !endsWithOperator(text) {
		joiner = "*"
	}
	return handler.Committed(ctx.Commit(text + joiner + ctx.Numbers.Format(c.value)))
}

func endsWithOperator(text string) bool {
	switch text[len(text)-1] {
	case '+', '-', '*', '/':
		return true
	}
	// Multi-byte glyphs
	for _, g := range []string{"×", "÷", "−"} {
		if len(text) >= len(g) && text[len(text)-len(g):] == g {
			return true
		}
	}
	return false
}

// Commands returns the scientific commands bound to their labels.
func Commands() *handler.Group {
	g := handler.NewGroup("scientific")
	g.Add(&EvaluateCommand{}, LabelEvaluate)
	g.Add(NewUnaryCommand("sqrt", Sqrt), LabelSqrt)
	g.Add(NewUnaryCommand("square", Square), LabelSquare, LabelSquareAlt)
	g.Add(NewUnaryCommand("ln", Ln), LabelLn)
	g.Add(NewConstantCommand("pi", math.Pi), LabelPi, LabelPiAlt)
	g.Add(NewConstantCommand("e", math.E), LabelE)
	return g
}

package expr

import (
	"math"
	"strconv"
)

// Node is an evaluable syntax tree node.
type Node interface {
	Eval() (float64, error)
	String() string
}

// Number is a numeric literal.
type Number float64

// Eval returns the literal value.
func (n Number) Eval() (float64, error) {
	return float64(n), nil
}

func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'g', -1, 64)
}

// Unary is a prefix sign applied to an operand.
type Unary struct {
	Op      byte // '+' or '-'
	Operand Node
}

// Eval applies the sign.
func (u *Unary) Eval() (float64, error) {
	v, err := u.Operand.Eval()
	if err != nil {
		return 0, err
	}
	if u.Op == '-' {
		return -v, nil
	}
	return v, nil
}

func (u *Unary) String() string {
	return "(" + string(u.Op) + u.Operand.String() + ")"
}

// Binary is an infix arithmetic operation.
type Binary struct {
	Op          byte // '+', '-', '*' or '/'
	Left, Right Node
}

// Eval evaluates both operands and applies the operator.
func (b *Binary) Eval() (float64, error) {
	x, err := b.Left.Eval()
	if err != nil {
		return 0, err
	}
	y, err := b.Right.Eval()
	if err != nil {
		return 0, err
	}

	var v float64
	switch b.Op {
	case '+':
		v = x + y
	case '-':
		v = x - y
	case '*':
		v = x * y
	case '/':
		if y == 0 {
			return 0, ErrDivisionByZero
		}
		v = x / y
	default:
		return 0, syntaxErrorf(0, "invalid operator %q", b.Op)
	}

	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, ErrNotFinite
	}
	return v, nil
}

func (b *Binary) String() string {
	return "(" + b.Left.String() + " " + string(b.Op) + " " + b.Right.String() + ")"
}

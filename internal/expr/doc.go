// Package expr evaluates infix arithmetic expressions.
//
// The grammar covers what a calculator display can hold:
//
//	expression = term { ("+" | "-") term }
//	term       = unary { ("*" | "/") unary }
//	unary      = ("-" | "+") unary | primary
//	primary    = number | "(" expression ")"
//	number     = digits [ "." digits ] [ ("E" | "e") [ "+" | "-" ] digits ]
//
// Operators are left associative with the usual precedence. Parse builds a
// small syntax tree; Eval parses and evaluates in one step:
//
//	v, err := expr.Eval("2+3*-4") // -10
//
// Division by zero is reported as ErrDivisionByZero instead of producing an
// infinity, and overflow is reported as ErrNotFinite.
package expr

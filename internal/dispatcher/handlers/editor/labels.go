package editor

import (
	"strings"
	"unicode/utf8"
)

// Button labels handled by this package.
const (
	LabelClear     = "C"
	LabelUndo      = "CE"
	LabelUndoAlt   = "↶"
	LabelRedo      = "↷"
	LabelBackspace = "⌫"
	LabelBackAlt   = "▷"
	LabelMenu      = "≡"
	LabelZero      = "0"
	LabelZeroZero  = "00"
)

// operatorGlyphs are the binary operators a display can contain.
const operatorGlyphs = "+-*/×÷−"

// IsOperator reports whether r is an operator glyph.
func IsOperator(r rune) bool {
	return strings.ContainsRune(operatorGlyphs, r)
}

// IsOperatorLabel reports whether label is a single operator glyph.
func IsOperatorLabel(label string) bool {
	runes := []rune(label)
	return len(runes) == 1 && IsOperator(runes[0])
}

// isMinus reports whether label is a minus sign.
func isMinus(label string) bool {
	return label == "-" || label == "−"
}

// lastRune returns the final rune of s, or 0 if s is empty.
func lastRune(s string) rune {
	if s == "" {
		return 0
	}
	r, _ := utf8.DecodeLastRuneInString(s)
	return r
}

// LastSegment returns the operand being typed: the text after the last
// operator glyph. The sign of an exponent, as in "1E+21", belongs to the
// operand.
func LastSegment(text string) string {
	end := len(text)
	for {
		idx := strings.LastIndexFunc(text[:end], IsOperator)
		if idx < 0 {
			return text
		}
		if isExponentSign(text, idx) {
			end = idx
			continue
		}
		_, size := utf8.DecodeRuneInString(text[idx:])
		return text[idx+size:]
	}
}

// isExponentSign reports whether the operator at idx is the sign after the
// E of a number in scientific notation.
func isExponentSign(text string, idx int) bool {
	if idx < 2 || (text[idx] != '+' && text[idx] != '-') {
		return false
	}
	if e := text[idx-1]; e != 'E' && e != 'e' {
		return false
	}
	d := text[idx-2]
	return d >= '0' && d <= '9'
}

// hasExponent reports whether an operand is in scientific notation.
func hasExponent(operand string) bool {
	return strings.ContainsAny(operand, "Ee")
}

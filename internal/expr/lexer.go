package expr

import (
	"strconv"
)

// tokenKind identifies a lexical token.
type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokLParen
	tokRParen
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokNumber:
		return "number"
	case tokPlus:
		return "'+'"
	case tokMinus:
		return "'-'"
	case tokStar:
		return "'*'"
	case tokSlash:
		return "'/'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	default:
		return "unknown"
	}
}

// token is a lexical token with its source offset.
type token struct {
	kind tokenKind
	pos  int
	text string
	num  float64
}

// lexer splits an expression into tokens.
type lexer struct {
	input string
	pos   int
}

func newLexer(input string) *lexer {
	return &lexer{input: input}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// next returns the next token.
func (l *lexer) next() (token, error) {
	for l.pos < len(l.input) && (l.input[l.pos] == ' ' || l.input[l.pos] == '\t') {
		l.pos++
	}
	if l.pos >= len(l.input) {
		return token{kind: tokEOF, pos: l.pos}, nil
	}

	start := l.pos
	c := l.input[l.pos]
	switch c {
	case '+':
		l.pos++
		return token{kind: tokPlus, pos: start, text: "+"}, nil
	case '-':
		l.pos++
		return token{kind: tokMinus, pos: start, text: "-"}, nil
	case '*':
		l.pos++
		return token{kind: tokStar, pos: start, text: "*"}, nil
	case '/':
		l.pos++
		return token{kind: tokSlash, pos: start, text: "/"}, nil
	case '(':
		l.pos++
		return token{kind: tokLParen, pos: start, text: "("}, nil
	case ')':
		l.pos++
		return token{kind: tokRParen, pos: start, text: ")"}, nil
	}

	if isDigit(c) || c == '.' {
		return l.number()
	}
	return token{}, syntaxErrorf(start, "unexpected character %q", rune(c))
}

// number reads digits [ "." digits ] [ exponent ].
func (l *lexer) number() (token, error) {
	start := l.pos
	digits := 0
	for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		l.pos++
		digits++
	}
	if l.pos < len(l.input) && l.input[l.pos] == '.' {
		l.pos++
		for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
			l.pos++
			digits++
		}
	}
	if digits == 0 {
		return token{}, syntaxErrorf(start, "malformed number")
	}

	// Exponent, as produced for long results ("1E+21").
	if l.pos < len(l.input) && (l.input[l.pos] == 'E' || l.input[l.pos] == 'e') {
		mark := l.pos
		l.pos++
		if l.pos < len(l.input) && (l.input[l.pos] == '+' || l.input[l.pos] == '-') {
			l.pos++
		}
		expDigits := 0
		for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
			l.pos++
			expDigits++
		}
		if expDigits == 0 {
			return token{}, syntaxErrorf(mark, "malformed exponent")
		}
	}

	text := l.input[start:l.pos]
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return token{}, syntaxErrorf(start, "malformed number %q", text)
	}
	return token{kind: tokNumber, pos: start, text: text, num: v}, nil
}

package expr

import "strings"

// parser is a recursive-descent parser over the lexer's tokens.
type parser struct {
	lex *lexer
	tok token
}

// Parse parses an expression into a syntax tree.
func Parse(input string) (Node, error) {
	if strings.TrimSpace(input) == "" {
		return nil, syntaxErrorf(0, "empty expression")
	}

	p := &parser{lex: newLexer(input)}
	if err := p.advance(); err != nil {
		return nil, err
	}

	n, err := p.expression()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, syntaxErrorf(p.tok.pos, "unexpected %s", p.tok.kind)
	}
	return n, nil
}

// Eval parses and evaluates an expression.
func Eval(input string) (float64, error) {
	n, err := Parse(input)
	if err != nil {
		return 0, err
	}
	return n.Eval()
}

func (p *parser) advance() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

// expression = term { ("+" | "-") term }
func (p *parser) expression() (Node, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokPlus || p.tok.kind == tokMinus {
		op := p.tok.text[0]
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}
	return left, nil
}

// term = unary { ("*" | "/") unary }
func (p *parser) term() (Node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokStar || p.tok.kind == tokSlash {
		op := p.tok.text[0]
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}
	return left, nil
}

// unary = ("-" | "+") unary | primary
func (p *parser) unary() (Node, error) {
	if p.tok.kind == tokMinus || p.tok.kind == tokPlus {
		op := p.tok.text[0]
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: op, Operand: operand}, nil
	}
	return p.primary()
}

// primary = number | "(" expression ")"
func (p *parser) primary() (Node, error) {
	switch p.tok.kind {
	case tokNumber:
		n := Number(p.tok.num)
		if err := p.advance(); err != nil {
			return nil, err
		}
		return n, nil
	case tokLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		if p.tok.kind != tokRParen {
			return nil, syntaxErrorf(p.tok.pos, "expected ')', found %s", p.tok.kind)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return inner, nil
	default:
		return nil, syntaxErrorf(p.tok.pos, "expected number, found %s", p.tok.kind)
	}
}

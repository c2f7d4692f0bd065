package calculator

import (
	"strconv"
	"unicode"
)

// Parse converts the textual expression form back into a Value. An
// expression without variables is folded to a constant.
//
// Grammar (standard precedence, ^ binds tightest and is right-associative):
//
//	expr   := term (('+' | '-') term)*
//	term   := factor (('*' | '/') factor)*
//	factor := unary ('^' factor)?
//	unary  := '-' unary | primary
//	primary:= number | ident | ident '(' expr ')' | '(' expr ')'
func Parse(input string) (Value, error) {
	p := &parser{input: input}
	node, err := p.parseExpr()
	if err != nil {
		return Value{}, err
	}
	p.skipSpace()
	if p.pos < len(p.input) {
		return Value{}, p.errorf("unexpected trailing input")
	}
	if !node.hasVariables() {
		if val, err := node.eval(nil); err == nil {
			return Value{num: val}, nil
		}
	}
	return Value{expr: node}, nil
}

type parser struct {
	input string
	pos   int
}

func (p *parser) errorf(msg string) error {
	return &ParseError{Input: p.input, Position: p.pos, Msg: msg}
}

func (p *parser) skipSpace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) peek() byte {
	if p.pos < len(p.input) {
		return p.input[p.pos]
	}
	return 0
}

func (p *parser) parseExpr() (Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		op := p.peek()
		if op != '+' && op != '-' {
			return left, nil
		}
		p.pos++
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op, left: left, right: right}
	}
}

func (p *parser) parseTerm() (Expr, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		op := p.peek()
		if op != '*' && op != '/' {
			return left, nil
		}
		p.pos++
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op, left: left, right: right}
	}
}

func (p *parser) parseFactor() (Expr, error) {
	base, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.peek() != '^' {
		return base, nil
	}
	p.pos++
	exponent, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	return &binaryNode{op: '^', left: base, right: exponent}, nil
}

func (p *parser) parseUnary() (Expr, error) {
	p.skipSpace()
	if p.peek() == '-' {
		p.pos++
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if n, ok := operand.(numberNode); ok {
			return numberNode(-float64(n)), nil
		}
		return &binaryNode{op: '*', left: numberNode(-1), right: operand}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Expr, error) {
	p.skipSpace()
	if p.pos >= len(p.input) {
		return nil, p.errorf("unexpected end of expression")
	}
	c := p.input[p.pos]
	switch {
	case c == '(':
		p.pos++
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.peek() != ')' {
			return nil, p.errorf("missing closing parenthesis")
		}
		p.pos++
		return inner, nil
	case c >= '0' && c <= '9' || c == '.':
		return p.parseNumber()
	case unicode.IsLetter(rune(c)) || c == '_':
		return p.parseIdent()
	}
	return nil, p.errorf("unexpected character " + strconv.QuoteRune(rune(c)))
}

func (p *parser) parseNumber() (Expr, error) {
	start := p.pos
	seenExp := false
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c >= '0' && c <= '9' || c == '.' {
			p.pos++
			continue
		}
		if (c == 'e' || c == 'E') && !seenExp {
			seenExp = true
			p.pos++
			if p.pos < len(p.input) && (p.input[p.pos] == '+' || p.input[p.pos] == '-') {
				p.pos++
			}
			continue
		}
		break
	}
	val, err := strconv.ParseFloat(p.input[start:p.pos], 64)
	if err != nil {
		return nil, p.errorf("invalid number " + strconv.Quote(p.input[start:p.pos]))
	}
	return numberNode(val), nil
}

func (p *parser) parseIdent() (Expr, error) {
	start := p.pos
	for p.pos < len(p.input) {
		c := rune(p.input[p.pos])
		if unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_' {
			p.pos++
			continue
		}
		break
	}
	name := p.input[start:p.pos]
	p.skipSpace()
	if p.peek() != '(' {
		return variableNode(name), nil
	}
	_, unary := functions[name]
	_, binary := functions2[name]
	if !unary && !binary {
		return nil, p.errorf("unknown function " + strconv.Quote(name))
	}
	p.pos++
	arg, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if binary {
		if p.peek() != ',' {
			return nil, p.errorf("expected second argument to " + name)
		}
		p.pos++
		arg2, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.peek() != ')' {
			return nil, p.errorf("missing closing parenthesis in function call")
		}
		p.pos++
		return &call2Node{fn: name, arg1: arg, arg2: arg2}, nil
	}
	if p.peek() != ')' {
		return nil, p.errorf("missing closing parenthesis in function call")
	}
	p.pos++
	return &callNode{fn: name, arg: arg}, nil
}

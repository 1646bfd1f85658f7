package parser

import (
	"fmt"

	"github.com/leapstack-labs/unitgrade/pkg/algebra"
	"github.com/leapstack-labs/unitgrade/pkg/token"
)

// Expression precedence parsing using a Pratt parser.
//
// Precedence levels:
//
//	PrecedenceNone     = 0
//	PrecedenceAddition = 1  (+, -)
//	PrecedenceMultiply = 2  (*, /, juxtaposition)
//	PrecedenceUnary    = 3  (-, +)
//	PrecedencePower    = 4  (**, ^), right-associative
//
// The right operand of a power is parsed at unary precedence so that
// x**-2 and 2**3**2 read as in ordinary mathematical notation.
const (
	PrecedenceNone = iota
	PrecedenceAddition
	PrecedenceMultiply
	PrecedenceUnary
	PrecedencePower
)

// parseExpression parses an expression using precedence climbing.
func (p *Parser) parseExpression() algebra.Expr {
	return p.parseExpressionWithPrecedence(PrecedenceNone + 1)
}

// parseExpressionWithPrecedence implements Pratt parsing.
func (p *Parser) parseExpressionWithPrecedence(minPrecedence int) algebra.Expr {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxDepth {
		p.addError("expression is nested too deeply")
		return nil
	}

	left := p.parsePrefixExpr()
	if left == nil {
		return nil
	}

	for !p.failed() {
		prec := p.getInfixPrecedence()
		if prec < minPrecedence {
			break
		}
		left = p.parseInfixExpr(left, prec)
		if left == nil {
			break
		}
	}
	return left
}

// parsePrefixExpr parses unary operators and primary expressions.
func (p *Parser) parsePrefixExpr() algebra.Expr {
	switch p.token.Type {
	case token.MINUS:
		p.nextToken()
		operand := p.parseExpressionWithPrecedence(PrecedenceUnary)
		if operand == nil {
			return nil
		}
		if n, ok := operand.(*algebra.Num); ok {
			r := n.Rat()
			return algebra.NewNum(r.Neg(r), n.Float)
		}
		return algebra.Neg(operand)

	case token.PLUS:
		p.nextToken()
		return p.parseExpressionWithPrecedence(PrecedenceUnary)

	default:
		return p.parsePrimary()
	}
}

// getInfixPrecedence returns the precedence of the current token as an
// infix operator, or PrecedenceNone.
func (p *Parser) getInfixPrecedence() int {
	switch p.token.Type {
	case token.PLUS, token.MINUS:
		return PrecedenceAddition
	case token.STAR, token.SLASH:
		return PrecedenceMultiply
	case token.POW:
		return PrecedencePower
	case token.CARET:
		if !p.opts.Relaxed {
			p.addError(ErrCaretStrict)
			return PrecedenceNone
		}
		return PrecedencePower
	}
	if token.StartsOperand(p.token.Type) {
		if !p.opts.Relaxed {
			p.addError(fmt.Sprintf(ErrImplicitStrict, p.token))
			return PrecedenceNone
		}
		return PrecedenceMultiply
	}
	return PrecedenceNone
}

// parseInfixExpr parses an infix expression given the left operand.
func (p *Parser) parseInfixExpr(left algebra.Expr, prec int) algebra.Expr {
	op := p.token

	if token.StartsOperand(op.Type) {
		// Juxtaposition binds like '*'.
		right := p.parseExpressionWithPrecedence(prec + 1)
		if right == nil {
			return nil
		}
		return algebra.NewMul(left, right)
	}

	p.nextToken()
	if prec == PrecedencePower {
		right := p.parseExpressionWithPrecedence(PrecedenceUnary)
		if right == nil {
			return nil
		}
		return algebra.NewPow(left, right)
	}

	// Parse right operand with higher precedence (left-associative)
	right := p.parseExpressionWithPrecedence(prec + 1)
	if right == nil {
		return nil
	}
	switch op.Type {
	case token.PLUS:
		return algebra.NewAdd(left, right)
	case token.MINUS:
		return algebra.Sub(left, right)
	case token.STAR:
		return algebra.NewMul(left, right)
	default:
		return algebra.Div(left, right)
	}
}

// parsePrimary parses numbers, names, calls and parenthesized
// expressions.
func (p *Parser) parsePrimary() algebra.Expr {
	switch p.token.Type {
	case token.NUMBER:
		lit := p.token.Literal
		n, ok := algebra.ParseNum(lit)
		if !ok {
			p.addError(fmt.Sprintf(ErrInvalidNumber, lit))
			return nil
		}
		p.nextToken()
		return n

	case token.IDENT:
		return p.parseName()

	case token.LPAREN:
		p.nextToken()
		if p.check(token.RPAREN) {
			p.addError(ErrEmptyParens)
			return nil
		}
		inner := p.parseExpressionWithPrecedence(PrecedenceNone + 1)
		if inner == nil || !p.expect(token.RPAREN) {
			return nil
		}
		return inner
	}
	p.unexpected("an operand")
	return nil
}

// parseName resolves an identifier to a function call, a constant, a
// symbol, or (in relaxed mode) a product of split symbols.
func (p *Parser) parseName() algebra.Expr {
	name := p.token.Literal
	call := p.peek.Type == token.LPAREN

	if arity, ok := p.functionArity(name); ok {
		if !call {
			p.addError(fmt.Sprintf(ErrFunctionCall, name))
			return nil
		}
		p.nextToken()
		return p.parseCall(name, arity)
	}
	p.nextToken()

	if !p.opts.Relaxed || !p.splittable(name) {
		return p.atom(name)
	}

	parts := p.splitName(name)
	factors := make([]algebra.Expr, 0, len(parts))
	for i, part := range parts {
		if arity, ok := p.functionArity(part); ok && i == len(parts)-1 && call {
			call := p.parseCall(part, arity)
			if call == nil {
				return nil
			}
			factors = append(factors, call)
			continue
		}
		factors = append(factors, p.atom(part))
	}
	// A power after a split name applies to its last piece: hl^3 is h*l**3.
	if last := len(factors) - 1; p.check(token.POW) || p.check(token.CARET) {
		p.nextToken()
		exp := p.parseExpressionWithPrecedence(PrecedenceUnary)
		if exp == nil || factors[last] == nil {
			return nil
		}
		factors[last] = algebra.NewPow(factors[last], exp)
	}
	if len(factors) == 1 {
		return factors[0]
	}
	return algebra.NewMul(factors...)
}

// parseCall parses '(' args ')' after a function name.
func (p *Parser) parseCall(name string, arity int) algebra.Expr {
	if !p.expect(token.LPAREN) {
		return nil
	}
	var args []algebra.Expr
	if !p.check(token.RPAREN) {
		for {
			arg := p.parseExpressionWithPrecedence(PrecedenceNone + 1)
			if arg == nil {
				return nil
			}
			args = append(args, arg)
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	if !p.expect(token.RPAREN) {
		return nil
	}
	if len(args) != arity {
		p.addError(fmt.Sprintf(ErrArgumentCount, name, arity, len(args)))
		return nil
	}
	return algebra.NewFunc(name, args...)
}

func (p *Parser) atom(name string) algebra.Expr {
	switch name {
	case "pi":
		return algebra.Pi()
	case "I":
		if p.opts.ComplexNumbers {
			return algebra.ImaginaryUnit()
		}
	}
	return algebra.Symbol(name)
}

// Package parser reads plain-text mathematical expressions into algebra
// trees.
//
// # Usage
//
//	expr, err := parser.Parse("2*x**2 + 3*x", parser.Options{})
//	if err != nil {
//	    // handle error
//	}
//
// # Grammar Overview
//
//	expr     → term (('+' | '-') term)*
//	term     → unary (('*' | '/' | <juxtaposition>) unary)*
//	unary    → ('-' | '+') unary | power
//	power    → primary ('**' unary)?
//	primary  → NUMBER | IDENT | IDENT '(' args ')' | '(' expr ')'
//
// Juxtaposition (implicit multiplication) and '^' as a power operator are
// only accepted in relaxed mode. Trees are returned exactly as written;
// call algebra.Simplify for the canonical form.
package parser

import (
	"fmt"

	"github.com/leapstack-labs/unitgrade/pkg/algebra"
	"github.com/leapstack-labs/unitgrade/pkg/token"
)

// Options configures parsing.
type Options struct {
	// Relaxed enables implicit multiplication, '^' as power and the
	// splitting of multi-letter identifiers into products.
	Relaxed bool
	// Unsplittable names are never split in relaxed mode, and are the
	// pieces other identifiers are split into.
	Unsplittable map[string]struct{}
	// ComplexNumbers makes I the imaginary unit.
	ComplexNumbers bool
	// SpecialFunctions makes beta, gamma and zeta functions.
	SpecialFunctions bool
}

// Parser parses expressions into algebra trees.
type Parser struct {
	lexer  *Lexer
	token  token.Token // current token
	peek   token.Token // lookahead token
	errors []error
	opts   Options
	depth  int
}

// maxDepth bounds nesting so adversarial input cannot exhaust the stack.
const maxDepth = 200

// NewParser creates a new parser for the given input.
func NewParser(input string, opts Options) *Parser {
	p := &Parser{
		lexer: NewLexer(input),
		opts:  opts,
	}
	// Read two tokens to initialize current and peek
	p.nextToken()
	p.nextToken()
	return p
}

// Parse parses a single expression.
func Parse(input string, opts Options) (algebra.Expr, error) {
	p := NewParser(input, opts)
	if p.check(token.EOF) {
		return nil, &ParseError{Pos: p.token.Pos, Message: ErrEmptyExpression}
	}
	expr := p.parseExpression()
	if len(p.errors) == 0 && !p.check(token.EOF) {
		p.unexpected("end of expression")
	}
	if len(p.errors) > 0 {
		return nil, p.errors[0]
	}
	return expr, nil
}

// ---------- Token Helpers ----------

// nextToken advances to the next token.
func (p *Parser) nextToken() {
	p.token = p.peek
	p.peek = p.lexer.NextToken()
}

// check returns true if the current token is of the given type.
func (p *Parser) check(t token.TokenType) bool {
	return p.token.Type == t
}

// match consumes the current token if it matches and returns true.
func (p *Parser) match(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	return false
}

// expect consumes the current token if it matches, otherwise adds an error.
func (p *Parser) expect(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	p.unexpected(t.String())
	return false
}

func (p *Parser) unexpected(want string) {
	switch p.token.Type {
	case token.EOF:
		p.addError(ErrUnexpectedEnd)
	case token.ILLEGAL:
		p.addError(fmt.Sprintf(ErrIllegalChar, p.token.Literal))
	default:
		p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token, want))
	}
}

// addError adds a parse error.
func (p *Parser) addError(msg string) {
	p.errors = append(p.errors, &ParseError{
		Pos:     p.token.Pos,
		Message: msg,
	})
}

func (p *Parser) failed() bool { return len(p.errors) > 0 }

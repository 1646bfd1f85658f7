package parser

import (
	"fmt"

	"github.com/leapstack-labs/unitgrade/pkg/token"
)

// ParseError represents a parsing error with position information.
type ParseError struct {
	Pos     token.Position
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at column %d: %s", e.Pos.Column, e.Message)
}

// Common error messages
const (
	ErrUnexpectedToken = "unexpected token %s, expected %s"
	ErrUnexpectedEnd   = "unexpected end of expression"
	ErrIllegalChar     = "illegal character %q"
	ErrInvalidNumber   = "invalid number literal %q"
	ErrEmptyExpression = "empty expression"
	ErrCaretStrict     = "'^' is not an operator here, use '**' for exponentiation"
	ErrImplicitStrict  = "missing operator before %s, write products with '*'"
	ErrFunctionCall    = "function %s must be followed by parentheses"
	ErrArgumentCount   = "function %s takes %d argument(s), got %d"
	ErrEmptyParens     = "empty parentheses"
)

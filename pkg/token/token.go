// Package token defines the token types for expression parsing.
package token

import "fmt"

// TokenType represents the type of a lexical token.
//
//nolint:revive // Accept stutter as token.TokenType is clear and widely used
type TokenType int32

const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// Literals
	IDENT  // identifier
	NUMBER // 123, 45.67, 1e10

	// Operators
	PLUS   // +
	MINUS  // -
	STAR   // *
	SLASH  // /
	POW    // **
	CARET  // ^
	COMMA  // ,
	LPAREN // (
	RPAREN // )
)

var tokenNames = map[TokenType]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",
	IDENT:   "IDENT",
	NUMBER:  "NUMBER",
	PLUS:    "+",
	MINUS:   "-",
	STAR:    "*",
	SLASH:   "/",
	POW:     "**",
	CARET:   "^",
	COMMA:   ",",
	LPAREN:  "(",
	RPAREN:  ")",
}

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

// IsOperator returns true if the token type is an arithmetic operator.
func IsOperator(t TokenType) bool {
	switch t {
	case PLUS, MINUS, STAR, SLASH, POW, CARET:
		return true
	}
	return false
}

// StartsOperand returns true if a token of this type can begin an operand.
// The relaxed parser uses it to detect implicit multiplication.
func StartsOperand(t TokenType) bool {
	return t == IDENT || t == NUMBER || t == LPAREN
}

// Token is a lexical token with its source position.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}

func (t Token) String() string {
	if t.Type == IDENT || t.Type == NUMBER {
		return fmt.Sprintf("%s(%s)", t.Type, t.Literal)
	}
	return t.Type.String()
}

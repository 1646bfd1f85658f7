package parser

import (
	"unicode"
	"unicode/utf8"

	"github.com/leapstack-labs/unitgrade/pkg/token"
)

// Lexer tokenizes expression input.
type Lexer struct {
	input   string
	pos     int  // byte offset of ch
	readPos int  // byte offset after ch
	ch      rune // current rune, 0 at end of input
	col     int  // 1-based column of ch
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// readChar advances to the next rune.
func (l *Lexer) readChar() {
	l.pos = l.readPos
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		r, size := utf8.DecodeRuneInString(l.input[l.readPos:])
		l.ch = r
		l.readPos += size
	}
	l.col++
}

// peekChar returns the next rune without advancing.
func (l *Lexer) peekChar() rune {
	if l.readPos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPos:])
	return r
}

func (l *Lexer) currentPos() token.Position {
	return token.Position{Column: l.col, Offset: l.pos}
}

// NextToken returns the next token.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()

	pos := l.currentPos()
	tok := token.Token{Pos: pos}

	switch l.ch {
	case 0:
		tok.Type = token.EOF
		return tok
	case '+':
		tok.Type, tok.Literal = token.PLUS, "+"
	case '-':
		tok.Type, tok.Literal = token.MINUS, "-"
	case '*':
		if l.peekChar() == '*' {
			l.readChar()
			tok.Type, tok.Literal = token.POW, "**"
		} else {
			tok.Type, tok.Literal = token.STAR, "*"
		}
	case '/':
		tok.Type, tok.Literal = token.SLASH, "/"
	case '^':
		tok.Type, tok.Literal = token.CARET, "^"
	case ',':
		tok.Type, tok.Literal = token.COMMA, ","
	case '(':
		tok.Type, tok.Literal = token.LPAREN, "("
	case ')':
		tok.Type, tok.Literal = token.RPAREN, ")"
	default:
		switch {
		case isIdentStart(l.ch):
			tok.Type = token.IDENT
			tok.Literal = l.readIdentifier()
			return tok
		case isDigit(l.ch) || (l.ch == '.' && isDigit(l.peekChar())):
			tok.Type = token.NUMBER
			tok.Literal = l.readNumber()
			return tok
		default:
			tok.Type, tok.Literal = token.ILLEGAL, string(l.ch)
		}
	}

	l.readChar()
	return tok
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

// readIdentifier reads a letter or underscore followed by letters, digits
// and underscores.
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isIdentStart(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// readNumber reads a numeric literal (integer, decimal, or scientific).
// An exponent marker is only consumed when digits follow it, so 2e reads
// as the number 2 followed by the identifier e.
func (l *Lexer) readNumber() string {
	start := l.pos

	for isDigit(l.ch) {
		l.readChar()
	}

	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	} else if l.ch == '.' && start < l.pos {
		// "2." is a complete literal.
		l.readChar()
	}

	if (l.ch == 'e' || l.ch == 'E') && l.exponentFollows() {
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	return l.input[start:l.pos]
}

// exponentFollows reports whether the 'e' under the cursor starts an
// exponent, i.e. is followed by digits with an optional sign.
func (l *Lexer) exponentFollows() bool {
	rest := l.input[l.readPos:]
	if rest != "" && (rest[0] == '+' || rest[0] == '-') {
		rest = rest[1:]
	}
	return rest != "" && rest[0] >= '0' && rest[0] <= '9'
}

func isIdentStart(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

// Tokenize returns all tokens from the input.
func Tokenize(input string) []token.Token {
	l := NewLexer(input)
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return tokens
}

// Package latex translates LaTeX math input into the plain expression
// syntax read by the parser.
//
// Only the subset a learner types into a math field is understood:
// fractions, roots, powers, subscripts, products, delimiters, greek
// letters, elementary functions and text-style wrappers such as
// \mathrm{m}. The output relies on implicit multiplication, so it is
// parsed with relaxed syntax.
package latex

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/unitgrade/pkg/algebra"
)

// Error reports an unsupported or malformed LaTeX construct.
type Error struct {
	Offset  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("latex error at offset %d: %s", e.Offset, e.Message)
}

const maxDepth = 100

var (
	functions = map[string]string{
		"sin": "sin", "cos": "cos", "tan": "tan",
		"arcsin": "asin", "arccos": "acos", "arctan": "atan",
		"sinh": "sinh", "cosh": "cosh", "tanh": "tanh",
		"exp": "exp", "log": "log", "ln": "ln",
	}
	operators = map[string]string{
		"cdot": "*", "times": "*", "ast": "*", "div": "/",
	}
	spaces = map[string]bool{
		",": true, ";": true, ":": true, "!": true, " ": true,
		"quad": true, "qquad": true,
	}
	wrappers = map[string]bool{
		"mathrm": true, "text": true, "mathit": true, "mathbf": true,
		"operatorname": true, "textrm": true, "mathsf": true,
	}
	greek = func() map[string]bool {
		m := map[string]bool{}
		for _, g := range algebra.GreekLetters() {
			m[g] = true
		}
		return m
	}()
)

// ToText converts a LaTeX fragment to plain expression text.
func ToText(src string) (string, error) {
	c := &converter{src: src}
	out, err := c.sequence(0)
	if err != nil {
		return "", err
	}
	if c.pos < len(c.src) {
		return "", c.errorf("unexpected %q", c.src[c.pos])
	}
	return strings.Join(strings.Fields(out), " "), nil
}

type converter struct {
	src   string
	pos   int
	depth int
}

func (c *converter) errorf(format string, args ...any) error {
	return &Error{Offset: c.pos, Message: fmt.Sprintf(format, args...)}
}

// sequence converts input up to the closing byte (0 for end of input),
// leaving the closing byte unread.
func (c *converter) sequence(closing byte) (string, error) {
	c.depth++
	defer func() { c.depth-- }()
	if c.depth > maxDepth {
		return "", c.errorf("input is nested too deeply")
	}

	var b strings.Builder
	for c.pos < len(c.src) {
		ch := c.src[c.pos]
		if ch == closing {
			return b.String(), nil
		}
		switch ch {
		case '}':
			return "", c.errorf("unbalanced %q", ch)
		case '[':
			c.pos++
			b.WriteByte('(')
		case ']':
			c.pos++
			b.WriteByte(')')
		case '{':
			inner, err := c.group()
			if err != nil {
				return "", err
			}
			b.WriteString("(" + inner + ")")
		case '^':
			c.pos++
			arg, err := c.argument()
			if err != nil {
				return "", err
			}
			b.WriteString("**(" + arg + ")")
		case '_':
			c.pos++
			arg, err := c.argument()
			if err != nil {
				return "", err
			}
			b.WriteString("_" + strings.ReplaceAll(arg, " ", ""))
		case '\\':
			s, err := c.command()
			if err != nil {
				return "", err
			}
			b.WriteString(s)
		case '~':
			c.pos++
			b.WriteByte(' ')
		case '&', '$', '#', '%':
			return "", c.errorf("unsupported character %q", ch)
		default:
			c.pos++
			b.WriteByte(ch)
		}
	}
	if closing != 0 {
		return "", c.errorf("missing %q", closing)
	}
	return b.String(), nil
}

// group converts a braced group and returns its contents.
func (c *converter) group() (string, error) {
	if c.pos >= len(c.src) || c.src[c.pos] != '{' {
		return "", c.errorf("expected '{'")
	}
	c.pos++
	inner, err := c.sequence('}')
	if err != nil {
		return "", err
	}
	c.pos++
	return inner, nil
}

// argument reads a braced group, a command or a single character, the
// operand forms accepted after ^ and _.
func (c *converter) argument() (string, error) {
	c.skipSpace()
	if c.pos >= len(c.src) {
		return "", c.errorf("missing argument")
	}
	switch c.src[c.pos] {
	case '{':
		return c.group()
	case '\\':
		return c.command()
	}
	c.pos++
	return c.src[c.pos-1 : c.pos], nil
}

func (c *converter) skipSpace() {
	for c.pos < len(c.src) && c.src[c.pos] == ' ' {
		c.pos++
	}
}

func (c *converter) readName() string {
	start := c.pos
	for c.pos < len(c.src) && isLetter(c.src[c.pos]) {
		c.pos++
	}
	if c.pos == start && c.pos < len(c.src) {
		c.pos++
	}
	return c.src[start:c.pos]
}

func isLetter(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z'
}

func (c *converter) command() (string, error) {
	at := c.pos
	c.pos++ // backslash
	name := c.readName()

	switch {
	case name == "":
		return "", c.errorf("dangling backslash")
	case name == "frac" || name == "dfrac" || name == "tfrac":
		num, err := c.argument()
		if err != nil {
			return "", err
		}
		den, err := c.argument()
		if err != nil {
			return "", err
		}
		return "((" + num + ")/(" + den + "))", nil
	case name == "sqrt":
		return c.root()
	case name == "left" || name == "right":
		return c.delimiter(name == "left")
	case name == "{":
		return "(", nil
	case name == "}":
		return ")", nil
	case name == "pi":
		return " pi ", nil
	case spaces[name]:
		return " ", nil
	case operators[name] != "":
		c.skipSpace()
		return operators[name], nil
	case functions[name] != "":
		return " " + functions[name], nil
	case wrappers[name]:
		inner, err := c.group()
		if err != nil {
			return "", err
		}
		return " " + strings.ReplaceAll(inner, " ", "") + " ", nil
	case greek[name]:
		return " " + name + " ", nil
	}
	c.pos = at
	return "", c.errorf(`unsupported command \%s`, name)
}

func (c *converter) root() (string, error) {
	var degree string
	if c.pos < len(c.src) && c.src[c.pos] == '[' {
		c.pos++
		d, err := c.sequence(']')
		if err != nil {
			return "", err
		}
		c.pos++
		degree = d
	}
	arg, err := c.argument()
	if err != nil {
		return "", err
	}
	if degree == "" {
		return "sqrt(" + arg + ")", nil
	}
	return "((" + arg + ")**(1/(" + degree + ")))", nil
}

// delimiter reads the delimiter after \left or \right. Absolute value bars
// become abs(...).
func (c *converter) delimiter(left bool) (string, error) {
	c.skipSpace()
	if c.pos >= len(c.src) {
		return "", c.errorf("missing delimiter")
	}
	ch := c.src[c.pos]
	c.pos++
	switch ch {
	case '(', '[':
		if left {
			return "(", nil
		}
	case ')', ']':
		if !left {
			return ")", nil
		}
	case '|':
		if left {
			return " abs(", nil
		}
		return ")", nil
	case '.':
		return "", nil
	case '\\':
		if c.pos < len(c.src) && (c.src[c.pos] == '{' || c.src[c.pos] == '}') {
			c.pos++
			if left {
				return "(", nil
			}
			return ")", nil
		}
	}
	c.pos--
	return "", c.errorf("unsupported delimiter %q", ch)
}

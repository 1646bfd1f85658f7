package substitute

import (
	"fmt"
	"strings"
)

// SyntaxError reports malformed rule text.
type SyntaxError struct {
	Offset  int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("rule syntax error at offset %d: %s", e.Offset, e.Message)
}

// Parse reads rule text into a chain.
//
// Grammar:
//
//	chain   → pass ('|' pass)*
//	pass    → (rule ','?)*
//	rule    → '(' string ',' string (',' '[' string (',' string)* ']')? ')'
//	string  → '\'' char* '\'' | '"' char* '"'
//
// A backslash inside a string escapes the following character. The
// optional bracketed list is the rule's lookahead set.
func Parse(src string) (Chain, error) {
	g := &grammar{src: src}
	return g.chain()
}

// ParseAll parses several rule texts and concatenates their chains.
func ParseAll(srcs []string) (Chain, error) {
	var out Chain
	for _, src := range srcs {
		c, err := Parse(src)
		if err != nil {
			return nil, err
		}
		out = append(out, c...)
	}
	return out, nil
}

type grammar struct {
	src string
	pos int
}

func (g *grammar) errorf(format string, args ...any) error {
	return &SyntaxError{Offset: g.pos, Message: fmt.Sprintf(format, args...)}
}

func (g *grammar) skipSpace() {
	for g.pos < len(g.src) && strings.IndexByte(" \t\r\n", g.src[g.pos]) >= 0 {
		g.pos++
	}
}

func (g *grammar) peek() byte {
	g.skipSpace()
	if g.pos >= len(g.src) {
		return 0
	}
	return g.src[g.pos]
}

func (g *grammar) expect(ch byte) error {
	if g.peek() != ch {
		if g.pos >= len(g.src) {
			return g.errorf("expected %q, found end of input", ch)
		}
		return g.errorf("expected %q, found %q", ch, g.src[g.pos])
	}
	g.pos++
	return nil
}

func (g *grammar) chain() (Chain, error) {
	var chain Chain
	for {
		rules, err := g.pass()
		if err != nil {
			return nil, err
		}
		chain = append(chain, NewPass(rules...))
		if g.peek() != '|' {
			break
		}
		g.pos++
	}
	if g.peek() != 0 {
		return nil, g.errorf("unexpected %q", g.src[g.pos])
	}
	return chain, nil
}

func (g *grammar) pass() ([]Rule, error) {
	var rules []Rule
	for g.peek() == '(' {
		r, err := g.rule()
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
		if g.peek() == ',' {
			g.pos++
		}
	}
	return rules, nil
}

func (g *grammar) rule() (Rule, error) {
	if err := g.expect('('); err != nil {
		return Rule{}, err
	}
	pattern, err := g.str()
	if err != nil {
		return Rule{}, err
	}
	if pattern == "" {
		return Rule{}, g.errorf("empty pattern")
	}
	if err := g.expect(','); err != nil {
		return Rule{}, err
	}
	replacement, err := g.str()
	if err != nil {
		return Rule{}, err
	}
	r := Rule{Pattern: pattern, Replacement: replacement}

	if g.peek() == ',' {
		g.pos++
		if r.Lookahead, err = g.list(); err != nil {
			return Rule{}, err
		}
	}
	if err := g.expect(')'); err != nil {
		return Rule{}, err
	}
	return r, nil
}

func (g *grammar) list() ([]string, error) {
	if err := g.expect('['); err != nil {
		return nil, err
	}
	var items []string
	for {
		s, err := g.str()
		if err != nil {
			return nil, err
		}
		items = append(items, s)
		if g.peek() != ',' {
			break
		}
		g.pos++
	}
	if err := g.expect(']'); err != nil {
		return nil, err
	}
	return items, nil
}

func (g *grammar) str() (string, error) {
	quote := g.peek()
	if quote != '\'' && quote != '"' {
		if quote == 0 {
			return "", g.errorf("expected string, found end of input")
		}
		return "", g.errorf("expected string, found %q", quote)
	}
	start := g.pos
	g.pos++

	var b strings.Builder
	for g.pos < len(g.src) {
		ch := g.src[g.pos]
		switch {
		case ch == quote:
			g.pos++
			return b.String(), nil
		case ch == '\\' && g.pos+1 < len(g.src):
			b.WriteByte(g.src[g.pos+1])
			g.pos += 2
		default:
			b.WriteByte(ch)
			g.pos++
		}
	}
	g.pos = start
	return "", g.errorf("unterminated string")
}

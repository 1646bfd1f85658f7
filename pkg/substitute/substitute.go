// Package substitute implements ordered, longest-match text rewriting.
//
// A Pass rewrites text in one left-to-right scan. At every position the
// longest matching rule wins and its replacement is emitted; replacements
// are never rescanned within the same pass. A Chain feeds the output of
// each pass into the next, which is how compound rewrites (short form,
// then unit, then dimension) are composed.
package substitute

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Rule rewrites Pattern to Replacement. With a non-empty Lookahead the
// rule only matches when the pattern is immediately followed by one of
// the lookahead strings.
type Rule struct {
	Pattern     string
	Replacement string
	Lookahead   []string
}

// Identity returns a rule that rewrites name to itself. Identity rules
// shield a long form from being read as a run of shorter patterns.
func Identity(name string) Rule {
	return Rule{Pattern: name, Replacement: name}
}

func (r Rule) matches(text string, at int) bool {
	if !strings.HasPrefix(text[at:], r.Pattern) {
		return false
	}
	if len(r.Lookahead) == 0 {
		return true
	}
	rest := text[at+len(r.Pattern):]
	for _, la := range r.Lookahead {
		if strings.HasPrefix(rest, la) {
			return true
		}
	}
	return false
}

// Pass is an immutable set of rules applied in one scan. Rules are kept
// sorted by descending pattern length, ties in the order given.
type Pass struct {
	rules   []Rule
	byFirst map[byte][]int
}

// NewPass builds a pass. Rules with an empty pattern are dropped.
func NewPass(rules ...Rule) *Pass {
	sorted := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if r.Pattern != "" {
			sorted = append(sorted, r)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Pattern) > len(sorted[j].Pattern)
	})

	p := &Pass{rules: sorted, byFirst: make(map[byte][]int)}
	for i, r := range sorted {
		p.byFirst[r.Pattern[0]] = append(p.byFirst[r.Pattern[0]], i)
	}
	return p
}

// Rules returns the rules in match order.
func (p *Pass) Rules() []Rule {
	return append([]Rule(nil), p.rules...)
}

// Len returns the number of rules.
func (p *Pass) Len() int { return len(p.rules) }

// Apply rewrites text in a single greedy scan.
func (p *Pass) Apply(text string) string {
	if len(p.rules) == 0 {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))

	for i := 0; i < len(text); {
		if r, ok := p.match(text, i); ok {
			b.WriteString(r.Replacement)
			i += len(r.Pattern)
			continue
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		b.WriteString(text[i : i+size])
		i += size
	}
	return b.String()
}

func (p *Pass) match(text string, at int) (Rule, bool) {
	for _, idx := range p.byFirst[text[at]] {
		if r := p.rules[idx]; r.matches(text, at) {
			return r, true
		}
	}
	return Rule{}, false
}

// Chain is an ordered list of passes.
type Chain []*Pass

// Apply runs every pass in order, feeding each output to the next.
func (c Chain) Apply(text string) string {
	for _, p := range c {
		text = p.Apply(text)
	}
	return text
}

// Apply rewrites text with chain.
func Apply(text string, chain Chain) string {
	return chain.Apply(text)
}

// Concat joins chains into one.
func Concat(chains ...Chain) Chain {
	var out Chain
	for _, c := range chains {
		out = append(out, c...)
	}
	return out
}

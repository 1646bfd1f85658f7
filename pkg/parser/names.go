package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/leapstack-labs/unitgrade/pkg/algebra"
)

// Functions lists the always-available function names with their arity.
var Functions = map[string]int{
	"sqrt": 1, "exp": 1, "log": 1, "ln": 1,
	"sin": 1, "cos": 1, "tan": 1,
	"asin": 1, "acos": 1, "atan": 1,
	"sinh": 1, "cosh": 1, "tanh": 1,
	"abs": 1,
}

// SpecialFunctions are functions only with Options.SpecialFunctions;
// otherwise the names are plain symbols.
var SpecialFunctions = map[string]int{
	"beta": 2, "gamma": 1, "zeta": 1,
}

// Constants are names that never become symbols.
var Constants = []string{"pi"}

// ReservedNames returns every function and constant name enabled by opts.
func ReservedNames(opts Options) []string {
	names := make([]string, 0, len(Functions)+len(SpecialFunctions)+len(Constants))
	for name := range Functions {
		names = append(names, name)
	}
	if opts.SpecialFunctions {
		for name := range SpecialFunctions {
			names = append(names, name)
		}
	}
	return append(names, Constants...)
}

func (p *Parser) functionArity(name string) (int, bool) {
	if n, ok := Functions[name]; ok {
		return n, true
	}
	if p.opts.SpecialFunctions {
		if n, ok := SpecialFunctions[name]; ok {
			return n, true
		}
	}
	return 0, false
}

func (p *Parser) isUnsplittable(name string) bool {
	if _, ok := p.opts.Unsplittable[name]; ok {
		return true
	}
	if _, ok := p.functionArity(name); ok {
		return true
	}
	return isGreek(name) || name == "pi"
}

func isGreek(name string) bool {
	for _, g := range algebra.GreekLetters() {
		if g == name {
			return true
		}
	}
	return false
}

// splittable reports whether a multi-letter identifier is read as a
// product of shorter names. Names with digits or underscores are kept
// whole (x_1, v2).
func (p *Parser) splittable(name string) bool {
	if utf8.RuneCountInString(name) < 2 || p.isUnsplittable(name) {
		return false
	}
	return !strings.ContainsFunc(name, func(r rune) bool {
		return r == '_' || unicode.IsDigit(r)
	})
}

// splitName splits an identifier greedily: at each position the longest
// unsplittable name wins, otherwise a single letter is taken.
func (p *Parser) splitName(name string) []string {
	var parts []string
	for name != "" {
		_, size := utf8.DecodeRuneInString(name)
		best := name[:size]
		for end := len(name); end > size; end-- {
			if end < len(name) && !utf8.RuneStart(name[end]) {
				continue
			}
			if p.isUnsplittable(name[:end]) {
				best = name[:end]
				break
			}
		}
		parts = append(parts, best)
		name = name[len(best):]
	}
	return parts
}

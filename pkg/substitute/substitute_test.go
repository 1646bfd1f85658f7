package substitute_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/unitgrade/pkg/substitute"
)

func rules(pairs ...string) []substitute.Rule {
	var out []substitute.Rule
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, substitute.Rule{Pattern: pairs[i], Replacement: pairs[i+1]})
	}
	return out
}

func TestPass_LongestMatch(t *testing.T) {
	tests := []struct {
		name  string
		input string
		rules []substitute.Rule
		want  string
	}{
		{"longest first", "abc bc c", rules("abc", "p", "bc", "q", "c", "r"), "p q r"},
		{"order does not matter", "abc bc c", rules("c", "r", "bc", "q", "abc", "p"), "p q r"},
		{"replacements are not rescanned", "p bc c", rules("p", "abc", "bc", "q", "c", "r"), "abc q r"},
		{"overlap prefers the longer pattern", "ab", rules("a", "A", "ab", "X"), "X"},
		{"no match", "xyz", rules("a", "b"), "xyz"},
		{"multibyte text is kept whole", "μm", rules("m", "metre"), "μmetre"},
		{"identity protects long forms", "mol m", rules("mol", "mol", "m", "metre"), "mol metre"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, substitute.NewPass(tt.rules...).Apply(tt.input))
		})
	}
}

func TestPass_StableTieBreak(t *testing.T) {
	p := substitute.NewPass(rules("ab", "first", "ab", "second", "abc", "long")...)
	got := p.Rules()
	require.Len(t, got, 3)
	assert.Equal(t, "long", got[0].Replacement)
	assert.Equal(t, "first", got[1].Replacement)
	assert.Equal(t, "first", p.Apply("ab"))
}

func TestPass_EmptyPatternDropped(t *testing.T) {
	p := substitute.NewPass(rules("", "x", "a", "b")...)
	assert.Equal(t, 1, p.Len())
	assert.Equal(t, "b", p.Apply("a"))
}

func TestPass_Lookahead(t *testing.T) {
	p := substitute.NewPass(substitute.Rule{Pattern: "m", Replacement: "milli*", Lookahead: []string{"s", "g"}})
	assert.Equal(t, "milli*s m milli*g", p.Apply("ms m mg"))
}

func TestChain_FeedsPasses(t *testing.T) {
	chain := substitute.Chain{
		substitute.NewPass(rules("km", "kilo*metre")...),
		substitute.NewPass(rules("kilo", "(10**3)", "metre", "length")...),
	}
	assert.Equal(t, "2*(10**3)*length", substitute.Apply("2*km", chain))
}

func TestParse(t *testing.T) {
	chain, err := substitute.Parse(`('d','(km)') ('t','(s)') ('v','(km/h)') | ('k','1000*') ('h','(60*60*s)')`)
	require.NoError(t, err)
	require.Len(t, chain, 2)
	assert.Equal(t, 3, chain[0].Len())
	assert.Equal(t, 2, chain[1].Len())
	assert.Equal(t, "(1000*m)/(60*60*s)", chain.Apply("(km)/h"))
}

func TestParse_Forms(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []substitute.Rule
	}{
		{
			name:  "double quotes and commas",
			input: `("EUR", "(1/1.1957)*GBP"), ("USD","(1/1.2283)*GBP")`,
			want:  rules("EUR", "(1/1.1957)*GBP", "USD", "(1/1.2283)*GBP"),
		},
		{
			name:  "escaped quote",
			input: `('\'', 'anglemin')`,
			want:  rules("'", "anglemin"),
		},
		{
			name:  "lookahead list",
			input: `('m', 'milli*', ['s', 'g'])`,
			want:  []substitute.Rule{{Pattern: "m", Replacement: "milli*", Lookahead: []string{"s", "g"}}},
		},
		{
			name:  "empty replacement",
			input: `('x', '')`,
			want:  rules("x", ""),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain, err := substitute.Parse(tt.input)
			require.NoError(t, err)
			require.Len(t, chain, 1)
			assert.Equal(t, tt.want, chain[0].Rules())
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		input string
		msg   string
	}{
		{`('a')`, `expected ','`},
		{`('a','b'`, "found end of input"},
		{`('a',b)`, "expected string"},
		{`('a','b`, "unterminated string"},
		{`('','b')`, "empty pattern"},
		{`('a','b') x`, `unexpected 'x'`},
		{`('a','b',('c'))`, `expected '['`},
		{`a`, `unexpected 'a'`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := substitute.Parse(tt.input)
			require.Error(t, err)
			var serr *substitute.SyntaxError
			require.ErrorAs(t, err, &serr)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestParseAll(t *testing.T) {
	chain, err := substitute.ParseAll([]string{"('a','b')", "('b','c') | ('c','d')"})
	require.NoError(t, err)
	assert.Len(t, chain, 3)
	assert.Equal(t, "d", chain.Apply("a"))

	_, err = substitute.ParseAll([]string{"('a','b')", "oops"})
	require.Error(t, err)
}

func TestConcat(t *testing.T) {
	a := substitute.Chain{substitute.NewPass(rules("a", "b")...)}
	b := substitute.Chain{substitute.NewPass(rules("b", "c")...)}
	assert.Equal(t, "c", substitute.Concat(a, b).Apply("a"))
}

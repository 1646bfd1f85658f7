package parser_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/unitgrade/pkg/algebra"
	"github.com/leapstack-labs/unitgrade/pkg/parser"
)

var relaxed = parser.Options{Relaxed: true}

func mustParse(t *testing.T, input string, opts parser.Options) algebra.Expr {
	t.Helper()
	expr, err := parser.Parse(input, opts)
	require.NoError(t, err, "parse %q", input)
	return expr
}

func TestParse_Strict(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2*x**2 + 3*x", "2*x**2 + 3*x"},
		{"a/b", "a/b"},
		{"a - b", "a - b"},
		{"-x", "-x"},
		{"-2", "-2"},
		{"+x", "x"},
		{"x**-2", "x**(-2)"},
		{"(a+b)*c", "(a + b)*c"},
		{"U*L/nu", "U*L/nu"},
		{"sqrt(x)", "sqrt(x)"},
		{"1.5*m", "1.5*m"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := mustParse(t, tt.input, parser.Options{})
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestParse_PowerAssociativity(t *testing.T) {
	got := mustParse(t, "2**3**2", parser.Options{})
	assert.Equal(t, "512", algebra.Simplify(got).String())

	got = mustParse(t, "-2**2", parser.Options{})
	assert.Equal(t, "-4", algebra.Simplify(got).String())
}

func TestParse_StrictErrors(t *testing.T) {
	tests := []struct {
		input string
		msg   string
	}{
		{"x^2", "'^' is not an operator here"},
		{"2 x", "missing operator"},
		{"2(x)", "missing operator"},
		{"5+", "unexpected end of expression"},
		{"(x", "unexpected end of expression"},
		{"x)", "expected end of expression"},
		{"", "empty expression"},
		{"()", "empty parentheses"},
		{"sin x", "must be followed by parentheses"},
		{"sin(x, y)", "takes 1 argument(s), got 2"},
		{"x $ y", "illegal character"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := parser.Parse(tt.input, parser.Options{})
			require.Error(t, err)
			var perr *parser.ParseError
			require.ErrorAs(t, err, &perr)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestParse_RelaxedVariations(t *testing.T) {
	// Each strict input must mean the same after rewriting ** as ^ and
	// dropping or spacing the explicit products.
	inputs := []string{
		"2*x**2*y",
		"1.0*metre",
		"(d/t)**2/(3600**2)+v**2",
		"g**(-2)*v**4*h*l**3",
	}
	opts := relaxed
	opts.Unsplittable = map[string]struct{}{"metre": {}}
	for _, input := range inputs {
		want := algebra.Simplify(mustParse(t, input, parser.Options{}))
		variants := []string{
			strings.ReplaceAll(input, "**", "^"),
			strings.ReplaceAll(strings.ReplaceAll(input, "**", "^"), "*", " "),
			strings.ReplaceAll(strings.ReplaceAll(input, "**", "^"), "*", ""),
		}
		for _, v := range variants {
			t.Run(v, func(t *testing.T) {
				got := algebra.Simplify(mustParse(t, v, opts))
				assert.True(t, algebra.Equal(want, got), "%s vs %s", want, got)
			})
		}
	}
}

func TestParse_Splitting(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		unsplittable []string
		want         string
	}{
		{"single letters", "UL/nu", nil, "L*U/nu"},
		{"declared names stay whole", "mPa", []string{"Pa"}, "Pa*m"},
		{"declared full name", "mPa", []string{"mPa", "Pa"}, "mPa"},
		{"greek name", "alphax", nil, "alpha*x"},
		{"digits keep the name", "v2", nil, "v2"},
		{"underscores keep the name", "x_a", nil, "x_a"},
		{"trailing function call", "xsin(y)", nil, "sin(y)*x"},
		{"power binds to the last piece", "hl^3", nil, "h*l**3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := relaxed
			opts.Unsplittable = map[string]struct{}{}
			for _, name := range tt.unsplittable {
				opts.Unsplittable[name] = struct{}{}
			}
			got := algebra.Simplify(mustParse(t, tt.input, opts))
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestParse_Strict_NoSplitting(t *testing.T) {
	got := mustParse(t, "nu", parser.Options{})
	assert.Equal(t, algebra.Symbol("nu"), got)
}

func TestParse_Constants(t *testing.T) {
	assert.Equal(t, algebra.Pi(), mustParse(t, "pi", parser.Options{}))
	assert.Equal(t, algebra.Symbol("I"), mustParse(t, "I", parser.Options{}))
	assert.Equal(t, algebra.ImaginaryUnit(), mustParse(t, "I", parser.Options{ComplexNumbers: true}))
}

func TestParse_SpecialFunctions(t *testing.T) {
	got := mustParse(t, "gamma", parser.Options{})
	assert.Equal(t, algebra.Symbol("gamma"), got)

	got = mustParse(t, "gamma(4)", parser.Options{SpecialFunctions: true})
	assert.Equal(t, "6", algebra.Simplify(got).String())

	_, err := parser.Parse("beta(1)", parser.Options{SpecialFunctions: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "beta takes 2")
}

func TestParse_DepthLimit(t *testing.T) {
	input := strings.Repeat("(", 500) + "x" + strings.Repeat(")", 500)
	_, err := parser.Parse(input, parser.Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nested too deeply")
}

func TestParse_ErrorColumn(t *testing.T) {
	_, err := parser.Parse("x + ^", parser.Options{})
	var perr *parser.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 5, perr.Pos.Column)
}

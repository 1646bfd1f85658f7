package grader_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/unitgrade/internal/testutil"
	"github.com/leapstack-labs/unitgrade/pkg/grader"
)

func newEvaluator(t *testing.T) *grader.Evaluator {
	t.Helper()
	return grader.New(grader.WithLogger(testutil.NewTestLogger(t)))
}

func decode(t *testing.T, raw map[string]any) grader.Params {
	t.Helper()
	p, err := grader.DecodeParams(raw)
	require.NoError(t, err)
	return p
}

// variations rewrites an expression the ways learners tend to write it
// under relaxed syntax.
var variations = []func(string) string{
	func(s string) string { return strings.ReplaceAll(s, "**", "^") },
	func(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "**", "^"), "*", " ") },
	func(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "**", "^"), "*", "") },
}

// assertVariations grades response against answer as written and with
// every variation applied to either or both sides.
func assertVariations(t *testing.T, ev *grader.Evaluator, response, answer string, params grader.Params, want bool) {
	t.Helper()
	check := func(res, ans string) {
		t.Helper()
		result, err := ev.Evaluate(res, ans, params)
		require.NoError(t, err, "response %q answer %q", res, ans)
		assert.Equal(t, want, result.IsCorrect, "response %q answer %q: %s", res, ans, result.Feedback)
	}
	check(response, answer)
	for _, vary := range variations {
		res, ans := vary(response), vary(answer)
		if res == response && ans == answer {
			continue
		}
		check(res, answer)
		check(response, ans)
		check(res, ans)
	}
}

func TestEvaluate_Substitutions(t *testing.T) {
	tests := []struct {
		name          string
		substitutions string
	}{
		{"no common substrings", "('a','A') ('b','B') ('c','AB')"},
		{"common substrings in replacement", "('a','b') ('b','d') ('c','bd')"},
		{"common substrings in input", "('a','d') ('ab','e') ('c','e')"},
	}
	ev := newEvaluator(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := decode(t, map[string]any{"substitutions": tt.substitutions})
			result, err := ev.Evaluate("ab", "c", params)
			require.NoError(t, err)
			assert.True(t, result.IsCorrect)
			assert.Equal(t, "expression", result.Comparison)
		})
	}
}

func TestEvaluate_DimensionsWithSubstitutions(t *testing.T) {
	params := decode(t, map[string]any{
		"comparison":    "dimensions",
		"substitutions": "('d','(distance)') ('t','(time)') ('v','(distance/time)')",
		"input_symbols": []any{"distance", "time"},
		"strict_syntax": false,
	})
	assertVariations(t, newEvaluator(t), "2*d**2/t**2+0.5*v**2", "5*v**2", params, true)
}

func TestEvaluate_QuantitiesWithSubstitutions(t *testing.T) {
	params := decode(t, map[string]any{
		"substitutions": "('d','(km)') ('t','(s)') ('v','(km/h)') | ('k','1000*') ('h','(60*60*s)')",
		"strict_syntax": false,
	})
	assertVariations(t, newEvaluator(t), "(d/t)**2/(3600**2)+v**2", "2*v**2", params, true)
}

var shortFormResponses = []string{
	"123*c*W",
	"0.00000123*M*W",
	"0.00123*k*W",
	"0.0123*h*W",
	"0.123*da*W",
	"12.3*d*W",
	"1230*mW",
	"1230000*mu*W",
	"1.23*J/s",
	"1.23*N*m/s",
	"1.23*Pa*m**3/s",
}

func TestEvaluate_ShortFormSubstitutionsStrict(t *testing.T) {
	derived := "('W','(J/s)')|('J','(N*m)') ('Pa','(N/(m**2))')|('N','(m*(k*g)/(s**2))')"
	prefixes := "('M','10**6') ('k','10**3') ('h','10**2') ('da','10**1') ('d','10**(-1)') ('c','10**(-2)') ('mu','10**(-6)')"
	milli := "('mW','10**(-3)*W') ('mJ','10**(-3)*J') ('mPa','10**(-3)*Pa') ('mN','10**(-3)*N') ('mm','10**(-3)*m') ('mg','10**(-3)*g') ('ms','10**(-3)*s')"
	params := decode(t, map[string]any{
		"substitutions": milli + "|" + derived + "|" + prefixes,
		"strict_syntax": true,
	})
	ev := newEvaluator(t)
	for _, response := range shortFormResponses {
		result, err := ev.Evaluate(response, "1.23*W", params)
		require.NoError(t, err)
		assert.True(t, result.IsCorrect, response)
	}
}

func TestEvaluate_ShortFormSubstitutionsRelaxed(t *testing.T) {
	derived := "('W','(J/s)')|('J','(N*m)') ('Pa','(N/(m**2))')|('N','(m*(k*g)/(s**2))')"
	prefixes := "('M','(10**6)') ('k','(10**3)') ('h','(10**2)') ('da','(10**1)') ('d','(10**(-1))') ('c','(10**(-2))') ('mu','(10**(-6))')"
	milli := "('mW','(10**(-3))*W') ('mJ','(10**(-3))*J') ('mPa','(10**(-3))*Pa') ('mN','(10**(-3))*N') ('mm','(10**(-3))*m') ('mg','(10**(-3))*g') ('ms','(10**(-3))*s')"
	params := decode(t, map[string]any{
		"substitutions": []any{milli + "|" + derived, prefixes},
		"strict_syntax": false,
		"input_symbols": []any{"mPa", "Pa", "da", "mu", "mg", "mm", "mW", "mN", "ms"},
	})
	ev := newEvaluator(t)
	for _, response := range shortFormResponses {
		assertVariations(t, ev, response, "1.23*W", params, true)
	}
}

func TestEvaluate_Currencies(t *testing.T) {
	// Bank of England daily spot rates, 1 August 2022.
	params := decode(t, map[string]any{
		"substitutions": "('EUR','(1/1.1957)*GBP') ('USD','(1/1.2283)*GBP') ('CNY','(1/8.3104)*GBP') ('INR','(1/96.9430)*GBP')",
		"atol":          "0.005",
		"input_symbols": []any{"GBP", "EUR", "USD", "CNY", "INR"},
		"strict_syntax": false,
	})
	ev := newEvaluator(t)
	for _, response := range []string{"11.96*EUR", "12.28*USD", "83.10*CNY", "969.43*INR"} {
		assertVariations(t, ev, response, "10.00*GBP", params, true)
	}
}

func TestEvaluate_QuantitiesWithDefaults(t *testing.T) {
	for _, comparison := range []string{"expression", "expressionExact"} {
		t.Run(comparison, func(t *testing.T) {
			params := decode(t, map[string]any{
				"comparison":    comparison,
				"quantities":    "('d','(metre)') ('t','(second)') ('v','(kilo*metre/hour)')",
				"strict_syntax": false,
			})
			assertVariations(t, newEvaluator(t), "(d/t)**2*((1/3.6)**2)+v**2", "2*v**2", params, true)
		})
	}
}

func TestEvaluate_Rtol(t *testing.T) {
	ev := newEvaluator(t)
	for k := 1; k <= 3; k++ {
		t.Run(fmt.Sprintf("rtol 1e-%d", k+1), func(t *testing.T) {
			params := decode(t, map[string]any{
				"rtol":          "0." + strings.Repeat("0", k) + "1",
				"strict_syntax": false,
			})
			answer := "111111*metre"
			near := strings.Repeat("1", k+1) + strings.Repeat("0", 4-k) + "*deka*metre"
			assertVariations(t, ev, near, answer, params, true)
			far := strings.Repeat("1", k) + strings.Repeat("0", 5-k) + "*metre"
			assertVariations(t, ev, far, answer, params, false)
		})
	}
}

func TestEvaluate_Atol(t *testing.T) {
	ev := newEvaluator(t)
	params := decode(t, map[string]any{"atol": 0.05, "strict_syntax": false})
	for _, response := range []string{"1.04*metre", "0.96*metre"} {
		assertVariations(t, ev, response, "1.0*metre", params, true)
	}
	for _, response := range []string{"1.06*metre", "0.94*metre"} {
		assertVariations(t, ev, response, "1.0*metre", params, false)
	}
}

func TestEvaluate_AtolAndRtol(t *testing.T) {
	tests := []struct {
		name     string
		response string
		atol     string
		rtol     string
		want     bool
	}{
		{"both small enough", "1098*metre", "100", "0.1", true},
		{"both too large", "1102*metre", "100", "0.1", false},
		{"relative too large", "1098*metre", "100", "0.05", false},
		{"absolute too large", "1098*metre", "50", "0.1", false},
	}
	ev := newEvaluator(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := decode(t, map[string]any{"atol": tt.atol, "rtol": tt.rtol, "strict_syntax": false})
			assertVariations(t, ev, tt.response, "1.0*kilo*metre", params, tt.want)
		})
	}
}

func TestEvaluate_ScaleInvariance(t *testing.T) {
	ev := newEvaluator(t)

	result, err := ev.Evaluate("1000*metre", "1*kilometre", decode(t, map[string]any{"comparison": "dimensions"}))
	require.NoError(t, err)
	assert.True(t, result.IsCorrect)
	assert.Equal(t, "dimensions", result.Comparison)

	result, err = ev.Evaluate("2*metre", "1*metre", grader.Params{})
	require.NoError(t, err)
	assert.False(t, result.IsCorrect)
}

func TestEvaluate_ExpressionExact(t *testing.T) {
	ev := newEvaluator(t)
	params := decode(t, map[string]any{"comparison": "expressionExact"})

	result, err := ev.Evaluate("0.5*x", "x/2", params)
	require.NoError(t, err)
	assert.True(t, result.IsCorrect)

	result, err = ev.Evaluate("0.3333*x", "x/3", params)
	require.NoError(t, err)
	assert.False(t, result.IsCorrect)
}

func TestEvaluate_ResponseProblems(t *testing.T) {
	ev := newEvaluator(t)

	result, err := ev.Evaluate("3x*", "3*x", grader.Params{})
	require.NoError(t, err)
	assert.False(t, result.IsCorrect)
	assert.Contains(t, result.Feedback, "parse error")

	result, err = ev.Evaluate("   ", "3*x", grader.Params{})
	require.NoError(t, err)
	assert.False(t, result.IsCorrect)
	assert.Equal(t, grader.FeedbackNoResponse, result.Feedback)
}

func TestEvaluate_AuthoringProblems(t *testing.T) {
	ev := newEvaluator(t)

	_, err := ev.Evaluate("3*x", "3x*", grader.Params{})
	require.Error(t, err)
	assert.True(t, grader.IsAuthoring(err))
	assert.False(t, grader.IsResponse(err))

	_, err = ev.Evaluate("3*x", "", grader.Params{})
	assert.ErrorIs(t, err, grader.ErrNoAnswer)

	_, err = ev.Evaluate("x", "x", grader.Params{Substitutions: []string{"('a' 'b')"}})
	assert.ErrorIs(t, err, grader.ErrSubstitutions)
	assert.True(t, grader.IsAuthoring(err))

	_, err = ev.Evaluate("x", "x", grader.Params{Quantities: "('a','b'"})
	assert.ErrorIs(t, err, grader.ErrSubstitutions)
}

func TestEvaluate_Latex(t *testing.T) {
	ev := newEvaluator(t)
	params := decode(t, map[string]any{"is_latex": true})

	result, err := ev.Evaluate(`\frac{3}{2} x`, "1.5*x", params)
	require.NoError(t, err)
	assert.True(t, result.IsCorrect, result.Feedback)

	result, err = ev.Evaluate(`2\,\mathrm{km}`, "2000*metre", params)
	require.NoError(t, err)
	assert.True(t, result.IsCorrect, result.Feedback)

	result, err = ev.Evaluate(`\frac{1}{2`, "x", params)
	require.NoError(t, err)
	assert.False(t, result.IsCorrect)
	assert.NotEmpty(t, result.Feedback)
}

func TestEvaluate_Advisories(t *testing.T) {
	ev := newEvaluator(t)
	relaxed := decode(t, map[string]any{"strict_syntax": false})

	result, err := ev.Evaluate("x^2", "x**2", relaxed)
	require.NoError(t, err)
	assert.True(t, result.IsCorrect)
	assert.Equal(t, grader.NoteCaret, result.Feedback)

	result, err = ev.Evaluate("2 metre per second", "2*metre/second", relaxed)
	require.NoError(t, err)
	assert.True(t, result.IsCorrect)
	assert.Empty(t, result.Feedback)

	result, err = ev.Evaluate("1 kilogram per metre second", "kilogram/(metre*second)", relaxed)
	require.NoError(t, err)
	assert.False(t, result.IsCorrect)
	assert.Contains(t, result.Feedback, grader.NotePer)
}

func TestEvaluate_InputSymbolAliases(t *testing.T) {
	params := decode(t, map[string]any{
		"input_symbols": []any{[]any{"x", []any{"ex", "eks"}}},
	})
	result, err := newEvaluator(t).Evaluate("eks**2", "x**2", params)
	require.NoError(t, err)
	assert.True(t, result.IsCorrect)
}

func TestEvaluate_UnicodeNormalisation(t *testing.T) {
	// A followed by a combining ring above composes to the angstrom
	// alias.
	result, err := newEvaluator(t).Evaluate("2*A\u030a", "2*angstrom", grader.Params{})
	require.NoError(t, err)
	assert.True(t, result.IsCorrect, result.Feedback)
}

func TestEvaluate_ResponseLatex(t *testing.T) {
	result, err := newEvaluator(t).Evaluate("x/2", "x/2", grader.Params{})
	require.NoError(t, err)
	assert.Equal(t, `\frac{x}{2}`, result.ResponseLatex)
}

func TestEvaluate_BuckinghamPi(t *testing.T) {
	flow := "('U','(length/time)') ('L','(length)') ('nu','(length**2/time)') ('f','(1/time)')"
	tests := []struct {
		name     string
		response string
		answer   string
		want     bool
		feedback string
	}{
		{name: "generated reference", response: "U*L/nu, f*L/U", answer: "-", want: true, feedback: "The response is a valid set of groups."},
		{name: "powers and inverses", response: "nu/(U*L), (f*L/U)**2", answer: "U*L/nu, f*L/U", want: true},
		{name: "not dimensionless", response: "U*L, f*L/U", answer: "-", want: false},
		{name: "too few groups", response: "U*L/nu", answer: "-", want: false},
	}

	ev := newEvaluator(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := decode(t, map[string]any{"comparison": "buckinghamPi", "quantities": flow})
			result, err := ev.Evaluate(tt.response, tt.answer, params)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.IsCorrect, result.Feedback)
			assert.NotEmpty(t, result.Feedback)
			if tt.feedback != "" {
				assert.Equal(t, tt.feedback, result.Feedback)
			}
		})
	}

	t.Run("more groups than the answer", func(t *testing.T) {
		params := decode(t, map[string]any{"comparison": "buckinghamPi"})
		result, err := ev.Evaluate("U*L/nu, U*L", "U*L/nu", params)
		require.NoError(t, err)
		assert.False(t, result.IsCorrect)
		assert.Equal(t, "The response has 2 groups but the answer only has 1.", result.Feedback)
	})

	t.Run("answer not dimensionless", func(t *testing.T) {
		params := decode(t, map[string]any{"comparison": "buckinghamPi", "quantities": flow})
		_, err := ev.Evaluate("U*L/nu, f*L/U", "U*L, f*L/U", params)
		assert.True(t, grader.IsAuthoring(err))
	})

	t.Run("custom feedback", func(t *testing.T) {
		params := decode(t, map[string]any{
			"comparison":      "buckinghamPi",
			"quantities":      flow,
			"custom_feedback": map[string]any{"VALID": "Well done."},
		})
		result, err := ev.Evaluate("U*L/nu, f*L/U", "-", params)
		require.NoError(t, err)
		assert.Equal(t, "Well done.", result.Feedback)
	})
}

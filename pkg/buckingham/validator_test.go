package buckingham_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/unitgrade/pkg/algebra"
	"github.com/leapstack-labs/unitgrade/pkg/buckingham"
	"github.com/leapstack-labs/unitgrade/pkg/parser"
)

func parseGroups(t *testing.T, s string) []algebra.Expr {
	t.Helper()
	var out []algebra.Expr
	for _, g := range buckingham.SplitGroups(s) {
		e, err := parser.Parse(g, parser.Options{})
		require.NoError(t, err, g)
		out = append(out, e)
	}
	return out
}

func flowQuantities(t *testing.T) []buckingham.Quantity {
	t.Helper()
	dims := []struct{ symbol, dim string }{
		{"U", "length/time"},
		{"L", "length"},
		{"nu", "length**2/time"},
		{"f", "1/time"},
	}
	out := make([]buckingham.Quantity, len(dims))
	for i, d := range dims {
		e, err := parser.Parse(d.dim, parser.Options{})
		require.NoError(t, err)
		out[i] = buckingham.Quantity{Symbol: d.symbol, Dimension: e}
	}
	return out
}

func validate(t *testing.T, in buckingham.Input) (buckingham.Outcome, error) {
	t.Helper()
	return buckingham.New(buckingham.Catalogue{}).Validate(in)
}

func TestSplitGroups(t *testing.T) {
	assert.Equal(t, []string{"U*L/nu", "f*L/U"}, buckingham.SplitGroups("U*L/nu, f*L/U"))
	assert.Equal(t, []string{"beta(a,b)*x", "y"}, buckingham.SplitGroups("beta(a,b)*x ,y"))
	assert.Equal(t, []string{"x"}, buckingham.SplitGroups(" x "))
}

func TestValidate_OneGroup(t *testing.T) {
	answer := "U*L/nu"
	tests := []struct {
		response string
		correct  bool
		key      buckingham.Key
	}{
		{"U*L/nu", true, buckingham.Valid},
		{"L*U/nu", true, buckingham.Valid},
		{"nu/U/L", true, buckingham.Valid},
		{"(U*L/nu)**2", true, buckingham.Valid},
		{"2*U*L/nu", true, buckingham.Valid},
		{"U*L/n/u", false, buckingham.UnknownSymbol},
		{"1", false, buckingham.GroupsNotIndependent},
		{"U*L*nu", false, buckingham.NotEquivalent},
		{"A*U*L/nu", false, buckingham.UnknownSymbol},
		{"A", false, buckingham.UnknownSymbol},
		{"U/nu", false, buckingham.NotEquivalent},
		{"U*L", false, buckingham.NotEquivalent},
		{"U*L/nu, U*L", false, buckingham.MoreGroupsThanReference},
	}
	for _, tt := range tests {
		t.Run(tt.response, func(t *testing.T) {
			out, err := validate(t, buckingham.Input{
				Answer:   parseGroups(t, answer),
				Response: parseGroups(t, tt.response),
			})
			require.NoError(t, err)
			assert.Equal(t, tt.correct, out.Correct)
			if tt.correct {
				assert.Nil(t, out.Problem)
				assert.Equal(t, buckingham.Catalogue{}.Template(buckingham.Valid), out.Feedback)
				return
			}
			require.NotNil(t, out.Problem)
			assert.Equal(t, tt.key, out.Problem.Key)
			assert.Equal(t, buckingham.SideResponse, out.Problem.Side)
			assert.Equal(t, out.Problem.Message, out.Feedback)
		})
	}
}

func TestValidate_MoreGroupsThanReference(t *testing.T) {
	out, err := validate(t, buckingham.Input{
		Answer:   parseGroups(t, "U*L/nu"),
		Response: parseGroups(t, "U*L/nu, U*L"),
	})
	require.NoError(t, err)
	assert.False(t, out.Correct)
	require.NotNil(t, out.Problem)
	assert.Equal(t, buckingham.MoreGroupsThanReference, out.Problem.Key)
	assert.Equal(t, "The response has 2 groups but the answer only has 1.", out.Feedback)

	// With quantities declared, a correct response never has more groups
	// than the number of independent dimensionless groups.
	out, err = validate(t, buckingham.Input{
		Answer:     parseGroups(t, "U*L/nu, f*L/U"),
		Response:   parseGroups(t, "U*L/nu, f*L/U, f*nu/U**2"),
		Quantities: flowQuantities(t),
	})
	require.NoError(t, err)
	assert.False(t, out.Correct)
	assert.Equal(t, buckingham.GroupsNotIndependent, out.Problem.Key)
}

func TestValidate_TwoGroups(t *testing.T) {
	answer := "g**(-2)*v**4*h*l**3, g**(-2)*v**4*h**2*l**4"
	tests := []struct {
		name     string
		response string
		correct  bool
	}{
		{"recombined", "g*v**(-2)*h**3*l**2, g**2*v**(-4)*h**3*l", true},
		{"dependent", "h*l, h**2*l**2", false},
		{"different span", "g**1*v**2*h**3*l**4, g**4*v**3*h**2*l**1", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := validate(t, buckingham.Input{
				Answer:   parseGroups(t, answer),
				Response: parseGroups(t, tt.response),
			})
			require.NoError(t, err)
			assert.Equal(t, tt.correct, out.Correct, out.Feedback)
		})
	}
}

func TestValidate_Quantities(t *testing.T) {
	q := flowQuantities(t)

	t.Run("declared answer", func(t *testing.T) {
		out, err := validate(t, buckingham.Input{
			Answer:     parseGroups(t, "U*L/nu, f*L/U"),
			Response:   parseGroups(t, "U*L/nu, nu/(f*L**2)"),
			Quantities: q,
		})
		require.NoError(t, err)
		assert.True(t, out.Correct, out.Feedback)
	})

	t.Run("generated answer", func(t *testing.T) {
		out, err := validate(t, buckingham.Input{
			Response:   parseGroups(t, "U*L/nu, nu/(f*L**2)"),
			Quantities: q,
		})
		require.NoError(t, err)
		assert.True(t, out.Correct, out.Feedback)
		require.Len(t, out.Answer, 2)
	})

	t.Run("response not dimensionless", func(t *testing.T) {
		out, err := validate(t, buckingham.Input{
			Answer:     parseGroups(t, "U*L/nu, f*L/U"),
			Response:   parseGroups(t, "U*L/nu, U*nu/(f*L**2)"),
			Quantities: q,
		})
		require.NoError(t, err)
		assert.False(t, out.Correct)
		require.NotNil(t, out.Problem)
		assert.Equal(t, buckingham.NotDimensionless, out.Problem.Key)
		assert.Contains(t, out.Feedback, "not dimensionless")
	})

	t.Run("response groups dependent", func(t *testing.T) {
		out, err := validate(t, buckingham.Input{
			Answer:     parseGroups(t, "U*L/nu, f*L/U"),
			Response:   parseGroups(t, "U*L/nu, (U*L/nu)**2"),
			Quantities: q,
		})
		require.NoError(t, err)
		assert.False(t, out.Correct)
		assert.Equal(t, buckingham.GroupsNotIndependent, out.Problem.Key)
	})

	t.Run("response too few groups", func(t *testing.T) {
		out, err := validate(t, buckingham.Input{
			Answer:     parseGroups(t, "U*L/nu, f*L/U"),
			Response:   parseGroups(t, "U*L/nu"),
			Quantities: q,
		})
		require.NoError(t, err)
		assert.False(t, out.Correct)
		assert.Equal(t, buckingham.TooFewIndependentGroups, out.Problem.Key)
		assert.Equal(t, "The response contains 1 independent groups but at least 2 are needed.", out.Feedback)
	})
}

func TestValidate_AnswerProblems(t *testing.T) {
	q := flowQuantities(t)
	tests := []struct {
		name   string
		answer string
		key    buckingham.Key
	}{
		{"not dimensionless", "f*U*L/nu, f*L/U", buckingham.NotDimensionless},
		{"too few groups", "U*L/nu", buckingham.TooFewIndependentGroups},
		{"dependent groups", "U*L/nu, (U*L/nu)**2", buckingham.GroupsNotIndependent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validate(t, buckingham.Input{
				Answer:     parseGroups(t, tt.answer),
				Response:   parseGroups(t, "U*L/nu, nu/(f*L**2)"),
				Quantities: q,
			})
			require.Error(t, err)
			var p *buckingham.Problem
			require.True(t, errors.As(err, &p))
			assert.Equal(t, tt.key, p.Key)
			assert.Equal(t, buckingham.SideAnswer, p.Side)
		})
	}
}

func TestValidate_SumAbuse(t *testing.T) {
	out, err := validate(t, buckingham.Input{
		Answer:   parseGroups(t, "f*((m*l/T)**0.5)"),
		Response: parseGroups(t, "f**2*(m*l/T)+((m*l/T)**0.5)+1"),
	})
	require.NoError(t, err)
	assert.False(t, out.Correct)
	assert.Equal(t, buckingham.SumWithIndependentTerms, out.Problem.Key)

	_, err = validate(t, buckingham.Input{
		Answer:   parseGroups(t, "f**2*(m*l/T)+((m*l/T)**0.5)"),
		Response: parseGroups(t, "f*((m*l/T)**0.5)"),
	})
	var p *buckingham.Problem
	require.True(t, errors.As(err, &p))
	assert.Equal(t, buckingham.SumWithIndependentTerms, p.Key)
}

func TestValidate_NotPowerProduct(t *testing.T) {
	out, err := validate(t, buckingham.Input{
		Answer:   parseGroups(t, "x*y"),
		Response: parseGroups(t, "sin(x*y)"),
	})
	require.NoError(t, err)
	assert.False(t, out.Correct)
	assert.Equal(t, buckingham.NotPowerProduct, out.Problem.Key)
}

func TestValidate_OmittedAnswerNeedsQuantities(t *testing.T) {
	_, err := validate(t, buckingham.Input{Response: parseGroups(t, "x")})
	assert.ErrorIs(t, err, buckingham.ErrNoQuantities)
}

func TestDefaultGroups(t *testing.T) {
	groups, err := buckingham.DefaultGroups(flowQuantities(t))
	require.NoError(t, err)
	require.Len(t, groups, 2)
	for _, g := range groups {
		_, exps, err := algebra.Exponents(g)
		require.NoError(t, err)
		for _, e := range exps {
			assert.True(t, e.IsInt(), "exponent %s of %s", e.RatString(), g)
		}
	}

	n, err := buckingham.RequiredGroups(flowQuantities(t))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestCatalogue(t *testing.T) {
	c, err := buckingham.NewCatalogue(map[string]string{
		"UNKNOWN_SYMBOL": "Unexpected: {symbols}",
	})
	require.NoError(t, err)
	assert.Equal(t, "Unexpected: n, u", c.Render(buckingham.UnknownSymbol, "symbols", "n, u"))
	assert.Equal(t, buckingham.Catalogue{}.Template(buckingham.Valid), c.Template(buckingham.Valid))

	_, err = buckingham.NewCatalogue(map[string]string{"NOPE": "x"})
	assert.Error(t, err)

	out, err := buckingham.New(c).Validate(buckingham.Input{
		Answer:   parseGroups(t, "U*L/nu"),
		Response: parseGroups(t, "U*L/n/u"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Unexpected: n, u", out.Feedback)

	assert.True(t, buckingham.IsKey("VALID"))
	assert.Contains(t, buckingham.Keys(), buckingham.SumWithIndependentTerms)
}

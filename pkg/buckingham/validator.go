// Package buckingham checks sets of dimensionless groups.
//
// A response is a valid set of groups when its groups are dimensionless,
// independent, built from the answer's symbols and span the same space
// of exponent vectors as the answer. Spans are compared by rank, so
// recombinations such as squaring a group or multiplying two groups are
// accepted.
package buckingham

import (
	"errors"
	"math/big"
	"strconv"
	"strings"

	"github.com/leapstack-labs/unitgrade/pkg/algebra"
)

// Input holds parsed groups for validation.
type Input struct {
	// Answer groups; nil generates them from Quantities.
	Answer     []algebra.Expr
	Response   []algebra.Expr
	Quantities []Quantity
}

// Outcome is the verdict on a response.
type Outcome struct {
	Correct  bool
	Feedback string
	// Problem is set when the response is incorrect.
	Problem *Problem
	// Answer holds the groups the response was checked against.
	Answer []algebra.Expr
}

// Validator checks groups and renders feedback from a catalogue.
type Validator struct {
	catalogue Catalogue
}

// New returns a validator using the catalogue.
func New(c Catalogue) *Validator {
	return &Validator{catalogue: c}
}

// group is a parsed group with its non-constant additive terms.
type group struct {
	expr  algebra.Expr
	terms []algebra.Expr
}

func newGroups(exprs []algebra.Expr) []group {
	out := make([]group, len(exprs))
	for i, e := range exprs {
		out[i] = group{expr: e}
		for _, t := range algebra.Terms(algebra.Expand(e)) {
			if len(algebra.FreeSymbols(t)) > 0 {
				out[i].terms = append(out[i].terms, t)
			}
		}
	}
	return out
}

// Validate checks in. Problems in the answer are returned as a *Problem
// error with SideAnswer; problems in the response give an incorrect
// Outcome.
func (v *Validator) Validate(in Input) (Outcome, error) {
	required := -1
	if len(in.Quantities) > 0 {
		n, err := RequiredGroups(in.Quantities)
		if err != nil {
			return Outcome{}, err
		}
		required = n
	}

	answerExprs := in.Answer
	if answerExprs == nil {
		generated, err := DefaultGroups(in.Quantities)
		if err != nil {
			return Outcome{}, err
		}
		answerExprs = generated
	}
	answer := newGroups(answerExprs)
	response := newGroups(in.Response)
	out := Outcome{Answer: answerExprs}

	fail := func(p *Problem) (Outcome, error) {
		if p.Side == SideAnswer {
			return Outcome{}, p
		}
		out.Problem = p
		out.Feedback = p.Message
		return out, nil
	}

	if len(in.Quantities) > 0 {
		if p := v.checkDimensionless(answer, in.Quantities, SideAnswer); p != nil {
			return fail(p)
		}
		if p := v.checkDimensionless(response, in.Quantities, SideResponse); p != nil {
			return fail(p)
		}
	}

	answerRows, p := v.checkIndependent(answer, required, SideAnswer)
	if p != nil {
		return fail(p)
	}
	responseRows, p := v.checkIndependent(response, required, SideResponse)
	if p != nil {
		return fail(p)
	}

	answerSymbols := symbolsOf(answerExprs)
	var unknown []string
	for _, name := range algebra.SortedKeys(symbolsOf(in.Response)) {
		if _, ok := answerSymbols[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return fail(v.problem(UnknownSymbol, SideResponse, "symbols", strings.Join(unknown, ", ")))
	}

	symbols := algebra.SortedKeys(answerSymbols)
	r, err := exponentMatrix(answerRows, symbols)
	if err != nil {
		return Outcome{}, err
	}
	c, err := exponentMatrix(responseRows, symbols)
	if err != nil {
		return Outcome{}, err
	}
	rankR, rankC, rankD := r.Rank(), c.Rank(), algebra.VStack(r, c).Rank()
	if rankR != rankD || rankC != rankD {
		if len(response) > len(answer) {
			return fail(v.problem(MoreGroupsThanReference, SideResponse,
				"n", strconv.Itoa(len(response)), "needed", strconv.Itoa(len(answer))))
		}
		return fail(v.problem(NotEquivalent, SideResponse))
	}

	out.Correct = true
	out.Feedback = v.catalogue.Render(Valid)
	return out, nil
}

func (v *Validator) problem(key Key, side Side, args ...string) *Problem {
	return &Problem{Key: key, Side: side, Message: v.catalogue.Render(key, args...)}
}

// checkDimensionless replaces every quantity by its dimension and requires
// each group to reduce to a constant.
func (v *Validator) checkDimensionless(groups []group, quantities []Quantity, side Side) *Problem {
	repl := make(map[string]algebra.Expr, len(quantities))
	for _, q := range quantities {
		repl[q.Symbol] = q.Dimension
	}
	var bad []string
	for _, g := range groups {
		if !algebra.IsConstant(algebra.Subs(g.expr, repl)) {
			bad = append(bad, g.expr.String())
		}
	}
	if len(bad) == 0 {
		return nil
	}
	return v.problem(NotDimensionless, side, "groups", strings.Join(bad, ", "))
}

// checkIndependent computes one exponent row per group and requires the
// rows to be independent. A group whose expansion has independent terms is
// a sum used to smuggle in extra groups.
func (v *Validator) checkIndependent(groups []group, required int, side Side) ([]map[string]*big.Rat, *Problem) {
	rows := make([]map[string]*big.Rat, len(groups))
	var all []map[string]*big.Rat
	abuse := false
	for i, g := range groups {
		termRows := make([]map[string]*big.Rat, 0, len(g.terms))
		for _, t := range g.terms {
			_, exps, err := algebra.Exponents(t)
			if err != nil {
				return nil, v.problem(NotPowerProduct, side, "who", side.String(), "groups", g.expr.String())
			}
			termRows = append(termRows, exps)
		}
		if len(termRows) > 0 {
			rows[i] = termRows[0]
		} else {
			rows[i] = map[string]*big.Rat{}
		}
		if rowRank(termRows) > 1 {
			abuse = true
		}
		all = append(all, termRows...)
	}
	if abuse || rowRank(all) > len(groups) {
		return nil, v.problem(SumWithIndependentTerms, side, "which", side.String())
	}

	rank := rowRank(rows)
	if rank < len(groups) {
		return nil, v.problem(GroupsNotIndependent, side,
			"who", side.String(), "rank", strconv.Itoa(rank), "n", strconv.Itoa(len(groups)))
	}
	if required >= 0 && rank < required {
		return nil, v.problem(TooFewIndependentGroups, side,
			"who", side.String(), "rank", strconv.Itoa(rank), "needed", strconv.Itoa(required))
	}
	return rows, nil
}

func symbolsOf(exprs []algebra.Expr) map[string]struct{} {
	out := map[string]struct{}{}
	for _, e := range exprs {
		for name := range algebra.FreeSymbols(algebra.Simplify(e)) {
			out[name] = struct{}{}
		}
	}
	return out
}

func rowSymbols(rows []map[string]*big.Rat) []string {
	set := map[string]struct{}{}
	for _, row := range rows {
		for name := range row {
			set[name] = struct{}{}
		}
	}
	return algebra.SortedKeys(set)
}

func rowRank(rows []map[string]*big.Rat) int {
	if len(rows) == 0 {
		return 0
	}
	m, err := exponentMatrix(rows, rowSymbols(rows))
	if err != nil {
		return 0
	}
	return m.Rank()
}

// exponentMatrix lays rows out over symbols. Every symbol of every row must
// be listed.
func exponentMatrix(rows []map[string]*big.Rat, symbols []string) (*algebra.Matrix, error) {
	m := algebra.NewMatrix(len(rows), len(symbols))
	index := make(map[string]int, len(symbols))
	for j, name := range symbols {
		index[name] = j
	}
	for i, row := range rows {
		for name, exp := range row {
			j, ok := index[name]
			if !ok {
				return nil, errors.New("buckingham: exponent of unlisted symbol " + name)
			}
			m.Set(i, j, exp)
		}
	}
	return m, nil
}

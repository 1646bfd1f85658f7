package buckingham

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/leapstack-labs/unitgrade/pkg/algebra"
)

// Omitted is the answer text that asks for a generated reference basis.
const Omitted = "-"

// ErrNoQuantities is returned when groups must be generated but no
// quantities are declared.
var ErrNoQuantities = errors.New("an omitted answer requires declared quantities")

// Quantity is a declared symbol together with its dimension expression,
// for example U with length/time.
type Quantity struct {
	Symbol    string
	Dimension algebra.Expr
}

// SplitGroups splits a comma separated list of groups. Commas inside
// parentheses belong to function calls and do not split.
func SplitGroups(s string) []string {
	var (
		out   []string
		depth int
		start int
	)
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	return append(out, strings.TrimSpace(s[start:]))
}

// dimensionMatrix returns the exponent matrix of the quantities, one row per
// quantity and one column per base dimension.
func dimensionMatrix(quantities []Quantity) (*algebra.Matrix, error) {
	dims := map[string]struct{}{}
	for _, q := range quantities {
		for name := range algebra.FreeSymbols(q.Dimension) {
			dims[name] = struct{}{}
		}
	}
	cols := algebra.SortedKeys(dims)
	rows := make([][]*big.Rat, len(quantities))
	for i, q := range quantities {
		row, err := algebra.ExponentRow(q.Dimension, cols)
		if err != nil {
			return nil, fmt.Errorf("dimension of %s: %w", q.Symbol, err)
		}
		rows[i] = row
	}
	if len(rows) == 0 {
		return algebra.NewMatrix(0, 0), nil
	}
	return algebra.MatrixFromRows(rows), nil
}

// RequiredGroups returns the number of independent dimensionless groups
// the quantities form: their count minus the rank of their dimensions.
func RequiredGroups(quantities []Quantity) (int, error) {
	q, err := dimensionMatrix(quantities)
	if err != nil {
		return 0, err
	}
	return len(quantities) - q.Rank(), nil
}

// DefaultGroups generates a basis of dimensionless groups from the right
// null space of the transposed dimension matrix. Each basis vector is
// scaled to the smallest integer exponents.
func DefaultGroups(quantities []Quantity) ([]algebra.Expr, error) {
	if len(quantities) == 0 {
		return nil, ErrNoQuantities
	}
	q, err := dimensionMatrix(quantities)
	if err != nil {
		return nil, err
	}
	symbols := make([]string, len(quantities))
	for i, qu := range quantities {
		symbols[i] = qu.Symbol
	}
	var groups []algebra.Expr
	for _, v := range q.Transpose().NullSpace() {
		groups = append(groups, algebra.PowerProduct(symbols, algebra.Integerize(v)))
	}
	return groups, nil
}

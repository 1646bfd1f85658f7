package algebra

import (
	"errors"
	"fmt"
	"math/big"
)

// ErrNotPowerProduct is returned when an expression is not a constant
// times a product of symbols raised to rational powers.
var ErrNotPowerProduct = errors.New("not a product of powers")

// Exponents decomposes a power product such as 2*U*L/nu into its constant
// factor and the exact exponent of every symbol.
func Exponents(e Expr) (Expr, map[string]*big.Rat, error) {
	s := Simplify(e)
	exps := map[string]*big.Rat{}
	var constant []Expr

	var factors []Expr
	if m, ok := s.(*Mul); ok {
		factors = m.Factors
	} else {
		factors = []Expr{s}
	}
	for _, f := range factors {
		if len(FreeSymbols(f)) == 0 {
			constant = append(constant, f)
			continue
		}
		base, exp := asPower(f)
		sym, ok := base.(*Sym)
		if !ok {
			return nil, nil, fmt.Errorf("%w: %s", ErrNotPowerProduct, f)
		}
		n, ok := exp.(*Num)
		if !ok {
			return nil, nil, fmt.Errorf("%w: exponent of %s is %s", ErrNotPowerProduct, sym.Name, exp)
		}
		if cur, ok := exps[sym.Name]; ok {
			cur.Add(cur, n.val)
		} else {
			exps[sym.Name] = n.Rat()
		}
	}
	for name, v := range exps {
		if v.Sign() == 0 {
			delete(exps, name)
		}
	}
	return simplifyMul(constant), exps, nil
}

// ExponentRow returns the exponents of e ordered by symbols; absent
// symbols contribute zero.
func ExponentRow(e Expr, symbols []string) ([]*big.Rat, error) {
	_, exps, err := Exponents(e)
	if err != nil {
		return nil, err
	}
	row := make([]*big.Rat, len(symbols))
	for i, name := range symbols {
		if v, ok := exps[name]; ok {
			row[i] = v
		} else {
			row[i] = new(big.Rat)
		}
	}
	return row, nil
}

// PowerProduct builds the product of symbols raised to the given
// exponents, skipping zero exponents.
func PowerProduct(symbols []string, exps []*big.Rat) Expr {
	factors := make([]Expr, 0, len(symbols))
	for i, name := range symbols {
		if exps[i].Sign() == 0 {
			continue
		}
		factors = append(factors, &Pow{Base: Symbol(name), Exp: NewNum(exps[i], false)})
	}
	return simplifyMul(factors)
}

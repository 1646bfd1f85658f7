package algebra

const (
	maxExpandPower = 10
	maxExpandTerms = 4096
)

// Expand multiplies out products of sums and small positive integer powers
// of sums, returning a canonical sum of products. Expansions that would
// exceed a fixed term budget are left factored.
func Expand(e Expr) Expr {
	return expand(Simplify(e))
}

func expand(e Expr) Expr {
	switch x := e.(type) {
	case *Add:
		terms := make([]Expr, len(x.Terms))
		for i, t := range x.Terms {
			terms[i] = expand(t)
		}
		return simplifyAdd(terms)
	case *Mul:
		factors := make([]Expr, len(x.Factors))
		for i, f := range x.Factors {
			factors[i] = expand(f)
		}
		if out, ok := distribute(factors); ok {
			return out
		}
		return simplifyMul(factors)
	case *Pow:
		base := expand(x.Base)
		if a, ok := base.(*Add); ok {
			if n, ok := x.Exp.(*Num); ok {
				if k, ok := ratInt64(n.val); ok && k > 1 && k <= maxExpandPower {
					factors := make([]Expr, k)
					for i := range factors {
						factors[i] = a
					}
					if out, ok := distribute(factors); ok {
						return out
					}
				}
			}
		}
		return simplifyPow(base, x.Exp)
	}
	return e
}

// distribute multiplies out factors, some of which may be sums.
func distribute(factors []Expr) (Expr, bool) {
	products := [][]Expr{{}}
	for _, f := range factors {
		terms := Terms(f)
		if len(products)*len(terms) > maxExpandTerms {
			return nil, false
		}
		next := make([][]Expr, 0, len(products)*len(terms))
		for _, p := range products {
			for _, t := range terms {
				q := make([]Expr, len(p), len(p)+1)
				copy(q, p)
				next = append(next, append(q, t))
			}
		}
		products = next
	}
	terms := make([]Expr, len(products))
	for i, p := range products {
		terms[i] = simplifyMul(p)
	}
	return simplifyAdd(terms), true
}

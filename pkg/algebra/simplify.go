package algebra

import (
	"math/big"
	"sort"
)

// Simplify returns the canonical form of e.
//
// The canonical form flattens nested sums and products, folds numeric
// sub-expressions exactly, collects like terms (2*x + x -> 3*x) and like
// powers (x*x**2 -> x**3), and orders terms and factors deterministically,
// so two expressions with the same canonical String are equal.
func Simplify(e Expr) Expr {
	switch x := e.(type) {
	case *Add:
		terms := make([]Expr, len(x.Terms))
		for i, t := range x.Terms {
			terms[i] = Simplify(t)
		}
		return simplifyAdd(terms)
	case *Mul:
		factors := make([]Expr, len(x.Factors))
		for i, f := range x.Factors {
			factors[i] = Simplify(f)
		}
		return simplifyMul(factors)
	case *Pow:
		return simplifyPow(Simplify(x.Base), Simplify(x.Exp))
	case *Func:
		args := make([]Expr, len(x.Args))
		for i, a := range x.Args {
			args[i] = Simplify(a)
		}
		return simplifyFunc(x.Name, args)
	}
	return e
}

// ---------- Sums ----------

// splitCoeff splits a canonical term into its numeric coefficient and the
// remaining product.
func splitCoeff(t Expr) (*Num, Expr) {
	switch x := t.(type) {
	case *Num:
		return x, nil
	case *Mul:
		if c, ok := x.Factors[0].(*Num); ok {
			rest := x.Factors[1:]
			if len(rest) == 1 {
				return c, rest[0]
			}
			return c, &Mul{Factors: rest}
		}
	}
	return Int(1), t
}

// withCoeff multiplies a canonical non-numeric term by c.
func withCoeff(c *Num, rest Expr) Expr {
	if c.IsZero() {
		return Int(0)
	}
	if rest == nil {
		return c
	}
	if c.IsOne() {
		return rest
	}
	if m, ok := rest.(*Mul); ok {
		factors := make([]Expr, 0, len(m.Factors)+1)
		factors = append(factors, c)
		factors = append(factors, m.Factors...)
		return &Mul{Factors: factors}
	}
	return &Mul{Factors: []Expr{c, rest}}
}

type termGroup struct {
	key   string
	coeff *Num
	rest  Expr
}

func simplifyAdd(terms []Expr) Expr {
	flat := make([]Expr, 0, len(terms))
	for _, t := range terms {
		if a, ok := t.(*Add); ok {
			flat = append(flat, a.Terms...)
		} else {
			flat = append(flat, t)
		}
	}

	constant := Int(0)
	var groups []*termGroup
	index := map[string]*termGroup{}
	for _, t := range flat {
		c, rest := splitCoeff(t)
		if rest == nil {
			constant = numAdd(constant, c)
			continue
		}
		key := rest.String()
		if g, ok := index[key]; ok {
			g.coeff = numAdd(g.coeff, c)
			continue
		}
		g := &termGroup{key: key, coeff: c, rest: rest}
		index[key] = g
		groups = append(groups, g)
	}

	sort.SliceStable(groups, func(i, j int) bool { return groups[i].key < groups[j].key })

	out := make([]Expr, 0, len(groups)+1)
	for _, g := range groups {
		if g.coeff.IsZero() {
			continue
		}
		out = append(out, withCoeff(g.coeff, g.rest))
	}
	if !constant.IsZero() {
		out = append(out, constant)
	}
	switch len(out) {
	case 0:
		return &Num{val: new(big.Rat), Float: constant.Float}
	case 1:
		return out[0]
	}
	return &Add{Terms: out}
}

// ---------- Products ----------

type powerGroup struct {
	key  string
	base Expr
	exps []Expr
}

// asPower views a canonical factor as base**exp.
func asPower(f Expr) (Expr, Expr) {
	if p, ok := f.(*Pow); ok {
		return p.Base, p.Exp
	}
	return f, Int(1)
}

func simplifyMul(factors []Expr) Expr {
	flat := make([]Expr, 0, len(factors))
	for _, f := range factors {
		if m, ok := f.(*Mul); ok {
			flat = append(flat, m.Factors...)
		} else {
			flat = append(flat, f)
		}
	}

	coeff := Int(1)
	var groups []*powerGroup
	index := map[string]*powerGroup{}
	for _, f := range flat {
		if n, ok := f.(*Num); ok {
			coeff = numMul(coeff, n)
			continue
		}
		base, exp := asPower(f)
		key := base.String()
		if g, ok := index[key]; ok {
			g.exps = append(g.exps, exp)
			continue
		}
		g := &powerGroup{key: key, base: base, exps: []Expr{exp}}
		index[key] = g
		groups = append(groups, g)
	}
	if coeff.IsZero() {
		return &Num{val: new(big.Rat), Float: coeff.Float}
	}

	var rest []Expr
	regroup := false
	for _, g := range groups {
		exp := g.exps[0]
		if len(g.exps) > 1 {
			exp = simplifyAdd(g.exps)
		}
		p := simplifyPow(g.base, exp)
		switch x := p.(type) {
		case *Num:
			coeff = numMul(coeff, x)
		case *Mul:
			for _, f := range x.Factors {
				if n, ok := f.(*Num); ok {
					coeff = numMul(coeff, n)
				} else {
					rest = append(rest, f)
					regroup = true
				}
			}
		default:
			rest = append(rest, p)
		}
	}
	if regroup {
		return simplifyMul(append([]Expr{coeff}, rest...))
	}
	if coeff.IsZero() {
		return Int(0)
	}

	sort.SliceStable(rest, func(i, j int) bool { return factorLess(rest[i], rest[j]) })

	if len(rest) == 0 {
		return coeff
	}
	if len(rest) == 1 {
		if a, ok := rest[0].(*Add); ok && !coeff.IsOne() {
			terms := make([]Expr, len(a.Terms))
			for i, t := range a.Terms {
				terms[i] = simplifyMul([]Expr{coeff, t})
			}
			return simplifyAdd(terms)
		}
		return withCoeff(coeff, rest[0])
	}
	return withCoeff(coeff, &Mul{Factors: rest})
}

func factorLess(a, b Expr) bool {
	ab, ae := asPower(a)
	bb, be := asPower(b)
	ka, kb := ab.String(), bb.String()
	if ka != kb {
		return ka < kb
	}
	return ae.String() < be.String()
}

// ---------- Powers ----------

func simplifyPow(base, exp Expr) Expr {
	if n, ok := exp.(*Num); ok {
		if n.IsZero() {
			return Int(1)
		}
		if n.IsOne() {
			return base
		}
	}

	switch b := base.(type) {
	case *Num:
		if b.IsOne() {
			return b
		}
		if e, ok := exp.(*Num); ok {
			if r, ok := ratPow(b.val, e.val); ok {
				return &Num{val: r, Float: b.Float || e.Float}
			}
		}
	case *Const:
		if b.Name == IName {
			if e, ok := exp.(*Num); ok {
				if k, ok := ratInt64(e.val); ok {
					switch ((k % 4) + 4) % 4 {
					case 0:
						return Int(1)
					case 1:
						return b
					case 2:
						return Int(-1)
					default:
						return &Mul{Factors: []Expr{Int(-1), b}}
					}
				}
			}
		}
	case *Pow:
		return simplifyPow(b.Base, simplifyMul([]Expr{b.Exp, exp}))
	case *Mul:
		factors := make([]Expr, len(b.Factors))
		for i, f := range b.Factors {
			factors[i] = simplifyPow(f, exp)
		}
		return simplifyMul(factors)
	case *Func:
		if b.Name == "exp" {
			return simplifyFunc("exp", []Expr{simplifyMul([]Expr{b.Args[0], exp})})
		}
	}
	return &Pow{Base: base, Exp: exp}
}

// ---------- Functions ----------

func isNum(e Expr, v int64) bool {
	n, ok := e.(*Num)
	if !ok {
		return false
	}
	k, ok := ratInt64(n.val)
	return ok && k == v
}

func simplifyFunc(name string, args []Expr) Expr {
	switch name {
	case "ln":
		name = "log"
	case "sqrt":
		if len(args) == 1 {
			return simplifyPow(args[0], Frac(1, 2))
		}
	}
	if len(args) != 1 {
		return &Func{Name: name, Args: args}
	}
	arg := args[0]
	switch name {
	case "log":
		if isNum(arg, 1) {
			return Int(0)
		}
		switch a := arg.(type) {
		case *Func:
			if a.Name == "exp" {
				return a.Args[0]
			}
		case *Pow:
			return simplifyMul([]Expr{a.Exp, simplifyFunc("log", []Expr{a.Base})})
		}
	case "exp":
		if isNum(arg, 0) {
			return Int(1)
		}
		if a, ok := arg.(*Func); ok && a.Name == "log" {
			return a.Args[0]
		}
	case "sin", "tan", "sinh", "tanh", "asin", "atan":
		if isNum(arg, 0) {
			return Int(0)
		}
	case "cos", "cosh":
		if isNum(arg, 0) {
			return Int(1)
		}
	case "acos":
		if isNum(arg, 1) {
			return Int(0)
		}
	case "abs":
		switch a := arg.(type) {
		case *Num:
			return numAbs(a)
		case *Sym:
			// Symbols are positive.
			return a
		case *Const:
			if a.Name == IName {
				return Int(1)
			}
			return a
		}
	case "gamma":
		if n, ok := arg.(*Num); ok {
			if k, ok := ratInt64(n.val); ok && k >= 1 && k <= 21 {
				f := big.NewInt(1)
				for i := int64(2); i < k; i++ {
					f.Mul(f, big.NewInt(i))
				}
				return &Num{val: new(big.Rat).SetInt(f)}
			}
		}
	}
	return &Func{Name: name, Args: args}
}

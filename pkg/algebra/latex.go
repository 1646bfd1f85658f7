package algebra

import (
	"math/big"
	"sort"
	"strings"
)

// LatexOptions controls LaTeX rendering. Options are per call; nothing is
// cached between calls.
type LatexOptions struct {
	// SymbolNames overrides the rendering of individual symbols.
	SymbolNames map[string]string
	// Ordered renders the tree as written instead of its canonical form:
	// factor order is kept and division shows as a negative power.
	Ordered bool
}

var greekLetters = map[string]bool{
	"alpha": true, "beta": true, "gamma": true, "delta": true, "epsilon": true,
	"zeta": true, "eta": true, "theta": true, "iota": true, "kappa": true,
	"lambda": true, "mu": true, "nu": true, "xi": true, "omicron": true,
	"pi": true, "rho": true, "sigma": true, "tau": true, "upsilon": true,
	"phi": true, "chi": true, "psi": true, "omega": true,
}

// Capital letters that LaTeX typesets differently from latin ones.
var upperGreek = map[string]bool{
	"Gamma": true, "Delta": true, "Theta": true, "Lambda": true, "Xi": true,
	"Pi": true, "Sigma": true, "Upsilon": true, "Phi": true, "Psi": true,
	"Omega": true,
}

var ratHalf = big.NewRat(1, 2)

// GreekLetters returns the lower-case greek letter names.
func GreekLetters() []string {
	out := make([]string, 0, len(greekLetters))
	for name := range greekLetters {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// LaTeX renders e.
func LaTeX(e Expr, opts LatexOptions) string {
	r := latexRenderer{opts: opts}
	if opts.Ordered {
		return r.ordered(e)
	}
	return r.canonical(Simplify(e))
}

type latexRenderer struct {
	opts LatexOptions
}

func (r latexRenderer) symbol(name string) string {
	if s, ok := r.opts.SymbolNames[name]; ok {
		return s
	}
	base, sub, hasSub := strings.Cut(name, "_")
	out := base
	switch {
	case greekLetters[base] && base != "omicron":
		out = `\` + base
	case upperGreek[base]:
		out = `\` + base
	}
	if hasSub && sub != "" {
		out += "_{" + sub + "}"
	}
	return out
}

func (r latexRenderer) num(n *Num) string {
	if n.Float {
		return formatDecimal(n.val)
	}
	if n.IsInt() {
		return n.val.Num().String()
	}
	p := n.val.Num()
	sign := ""
	if p.Sign() < 0 {
		sign = "-"
		p = new(big.Int).Abs(p)
	}
	return sign + `\frac{` + p.String() + "}{" + n.val.Denom().String() + "}"
}

func (r latexRenderer) constant(c *Const) string {
	if c.Name == IName {
		return "i"
	}
	return `\pi`
}

func paren(s string) string { return `\left(` + s + `\right)` }

// ---------- Ordered rendering ----------

func flattenMul(e Expr, out []Expr) []Expr {
	if m, ok := e.(*Mul); ok {
		for _, f := range m.Factors {
			out = flattenMul(f, out)
		}
		return out
	}
	return append(out, e)
}

func (r latexRenderer) ordered(e Expr) string {
	switch x := e.(type) {
	case *Num:
		return r.num(x)
	case *Sym:
		return r.symbol(x.Name)
	case *Const:
		return r.constant(x)
	case *Add:
		var b strings.Builder
		for i, t := range x.Terms {
			neg, abs := negativeTerm(t)
			switch {
			case i == 0 && neg:
				b.WriteString("-")
			case i > 0 && neg:
				b.WriteString(" - ")
			case i > 0:
				b.WriteString(" + ")
			}
			b.WriteString(r.orderedFactor(abs, false))
		}
		return b.String()
	case *Mul:
		factors := flattenMul(x, nil)
		prefix := ""
		if c, ok := factors[0].(*Num); ok && len(factors) > 1 && c.Sign() < 0 {
			prefix = "-"
			if numNeg(c).IsOne() {
				factors = factors[1:]
			} else {
				factors = append([]Expr{numNeg(c)}, factors[1:]...)
			}
		}
		parts := make([]string, 0, len(factors))
		for i := 0; i < len(factors); i++ {
			if c, ok := factors[i].(*Num); ok && i+1 < len(factors) && c.Sign() > 0 && c.IsInt() && !c.Float {
				if d, ok := reciprocalInt(factors[i+1]); ok {
					parts = append(parts, `\frac{`+c.val.Num().String()+"}{"+d+"}")
					i++
					continue
				}
			}
			parts = append(parts, r.orderedFactor(factors[i], true))
		}
		return prefix + strings.Join(parts, " ")
	case *Pow:
		if d, ok := reciprocalInt(x); ok {
			return `\frac{1}{` + d + "}"
		}
		return r.orderedBase(x.Base) + "^{" + r.ordered(x.Exp) + "}"
	case *Func:
		return r.function(x, r.ordered)
	}
	return e.String()
}

// reciprocalInt reports whether e is n**-1 for a non-negative integer n,
// and returns n.
func reciprocalInt(e Expr) (string, bool) {
	p, ok := e.(*Pow)
	if !ok {
		return "", false
	}
	b, ok := p.Base.(*Num)
	if !ok || b.Float || !b.IsInt() || b.Sign() < 0 {
		return "", false
	}
	x, ok := p.Exp.(*Num)
	if !ok || x.Float || !numNeg(x).IsOne() {
		return "", false
	}
	return b.val.Num().String(), true
}

func (r latexRenderer) orderedFactor(e Expr, inProduct bool) string {
	switch x := e.(type) {
	case *Add:
		return paren(r.ordered(x))
	case *Num:
		if inProduct && x.Sign() < 0 {
			return paren(r.ordered(x))
		}
	}
	return r.ordered(e)
}

func (r latexRenderer) orderedBase(e Expr) string {
	switch x := e.(type) {
	case *Add, *Mul, *Pow:
		return paren(r.ordered(x))
	case *Num:
		if x.Sign() < 0 || !x.IsInt() {
			return paren(r.ordered(x))
		}
	}
	return r.ordered(e)
}

// ---------- Canonical rendering ----------

func (r latexRenderer) canonical(e Expr) string {
	switch x := e.(type) {
	case *Num:
		return r.num(x)
	case *Sym:
		return r.symbol(x.Name)
	case *Const:
		return r.constant(x)
	case *Add:
		var b strings.Builder
		for i, t := range x.Terms {
			neg, abs := negativeTerm(t)
			switch {
			case i == 0 && neg:
				b.WriteString("- ")
			case i > 0 && neg:
				b.WriteString(" - ")
			case i > 0:
				b.WriteString(" + ")
			}
			b.WriteString(r.canonical(abs))
		}
		return b.String()
	case *Mul:
		return r.product(x)
	case *Pow:
		return r.power(x)
	case *Func:
		return r.function(x, r.canonical)
	}
	return e.String()
}

func (r latexRenderer) product(m *Mul) string {
	if neg, abs := negativeTerm(m); neg {
		return "- " + r.canonical(abs)
	}
	var coeff *Num
	factors := m.Factors
	if c, ok := factors[0].(*Num); ok {
		coeff = c
		factors = factors[1:]
	}
	num, den := splitFraction(factors)

	numParts := []string{}
	denParts := []string{}
	if coeff != nil {
		switch {
		case coeff.Float:
			numParts = append(numParts, r.num(coeff))
		case coeff.IsInt():
			numParts = append(numParts, coeff.val.Num().String())
		default:
			p := coeff.val.Num()
			if !p.IsInt64() || p.Int64() != 1 || len(num) == 0 {
				numParts = append(numParts, p.String())
			}
			denParts = append(denParts, coeff.val.Denom().String())
		}
	}
	for _, f := range num {
		numParts = append(numParts, r.factor(f))
	}
	for _, f := range den {
		denParts = append(denParts, r.factor(f))
	}
	if len(numParts) == 0 {
		numParts = append(numParts, "1")
	}
	if len(denParts) == 0 {
		return strings.Join(numParts, " ")
	}
	return `\frac{` + strings.Join(numParts, " ") + "}{" + strings.Join(denParts, " ") + "}"
}

func (r latexRenderer) factor(e Expr) string {
	if _, ok := e.(*Add); ok {
		return paren(r.canonical(e))
	}
	return r.canonical(e)
}

func (r latexRenderer) power(p *Pow) string {
	if e, ok := p.Exp.(*Num); ok && !e.Float {
		v := e.val
		if e.IsOne() {
			return r.canonical(p.Base)
		}
		if v.Cmp(ratHalf) == 0 {
			return `\sqrt{` + r.canonical(p.Base) + "}"
		}
		if v.Sign() < 0 {
			return `\frac{1}{` + r.canonical(&Pow{Base: p.Base, Exp: numNeg(e)}) + "}"
		}
	}
	return r.base(p.Base) + "^{" + r.canonical(p.Exp) + "}"
}

func (r latexRenderer) base(e Expr) string {
	switch x := e.(type) {
	case *Add, *Mul, *Pow, *Func:
		return paren(r.canonical(x))
	case *Num:
		if x.Sign() < 0 || (!x.IsInt() && !x.Float) {
			return paren(r.canonical(x))
		}
	}
	return r.canonical(e)
}

func (r latexRenderer) function(f *Func, render func(Expr) string) string {
	args := make([]string, len(f.Args))
	for i, a := range f.Args {
		args[i] = render(a)
	}
	joined := strings.Join(args, ", ")
	switch f.Name {
	case "sqrt":
		return `\sqrt{` + joined + "}"
	case "exp":
		return "e^{" + joined + "}"
	case "log", "ln":
		return `\log{` + paren(joined+" ") + "}"
	case "sin", "cos", "tan", "sinh", "cosh", "tanh":
		return `\` + f.Name + "{" + paren(joined+" ") + "}"
	case "asin", "acos", "atan":
		return `\operatorname{` + f.Name + "}{" + paren(joined+" ") + "}"
	case "abs":
		return `\left|{` + joined + `}\right|`
	case "gamma":
		return `\Gamma` + paren(joined)
	case "beta":
		return `\operatorname{B}` + paren(joined)
	case "zeta":
		return `\zeta` + paren(joined)
	}
	return `\operatorname{` + f.Name + "}" + paren(joined)
}

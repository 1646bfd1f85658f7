package algebra

import (
	"strings"
)

// Printing precedence, loosest first.
const (
	precAdd = iota + 1
	precMul
	precPow
	precAtom
)

func precedence(e Expr) int {
	switch x := e.(type) {
	case *Add:
		return precAdd
	case *Mul:
		return precMul
	case *Pow:
		return precPow
	case *Num:
		if x.Sign() < 0 {
			return precAdd
		}
		if !x.IsInt() && !x.Float {
			return precMul
		}
	}
	return precAtom
}

func wrap(e Expr, min int) string {
	if precedence(e) < min {
		return "(" + e.String() + ")"
	}
	return e.String()
}

func (n *Num) String() string {
	if n.Float {
		return formatDecimal(n.val)
	}
	return n.val.RatString()
}

func (s *Sym) String() string { return s.Name }

func (c *Const) String() string { return c.Name }

func (a *Add) String() string {
	var b strings.Builder
	for i, t := range a.Terms {
		neg, abs := negativeTerm(t)
		switch {
		case i == 0 && neg:
			b.WriteString("-")
		case i > 0 && neg:
			b.WriteString(" - ")
		case i > 0:
			b.WriteString(" + ")
		}
		b.WriteString(wrap(abs, precAdd+1))
	}
	return b.String()
}

// negativeTerm reports whether a term prints with a leading minus and
// returns the term without it.
func negativeTerm(t Expr) (bool, Expr) {
	switch x := t.(type) {
	case *Num:
		if x.Sign() < 0 {
			return true, numNeg(x)
		}
	case *Mul:
		if len(x.Factors) > 0 {
			if c, ok := x.Factors[0].(*Num); ok && c.Sign() < 0 {
				pos := numNeg(c)
				rest := x.Factors[1:]
				if pos.IsOne() {
					if len(rest) == 1 {
						return true, rest[0]
					}
					return true, &Mul{Factors: rest}
				}
				factors := append([]Expr{pos}, rest...)
				return true, &Mul{Factors: factors}
			}
		}
	}
	return false, t
}

// splitFraction separates a product into numerator and denominator
// factors; factors with a negative numeric exponent go below the line.
func splitFraction(factors []Expr) (num, den []Expr) {
	for _, f := range factors {
		if p, ok := f.(*Pow); ok {
			if e, ok := p.Exp.(*Num); ok && e.Sign() < 0 {
				pos := numNeg(e)
				if pos.IsOne() {
					den = append(den, p.Base)
				} else {
					den = append(den, &Pow{Base: p.Base, Exp: pos})
				}
				continue
			}
		}
		num = append(num, f)
	}
	return num, den
}

func (m *Mul) String() string {
	if len(m.Factors) == 0 {
		return "1"
	}
	if neg, abs := negativeTerm(m); neg {
		return "-" + wrap(abs, precMul)
	}
	num, den := splitFraction(m.Factors)
	parts := make([]string, 0, len(num))
	for _, f := range num {
		parts = append(parts, wrap(f, precMul))
	}
	s := strings.Join(parts, "*")
	if s == "" {
		s = "1"
	}
	switch len(den) {
	case 0:
		return s
	case 1:
		return s + "/" + wrap(den[0], precPow)
	}
	dparts := make([]string, len(den))
	for i, f := range den {
		dparts[i] = wrap(f, precMul)
	}
	return s + "/(" + strings.Join(dparts, "*") + ")"
}

func (p *Pow) String() string {
	base := wrap(p.Base, precAtom)
	if n, ok := p.Exp.(*Num); ok && n.IsInt() && n.Sign() >= 0 && !n.Float {
		return base + "**" + n.String()
	}
	if precedence(p.Exp) == precAtom {
		return base + "**" + p.Exp.String()
	}
	return base + "**(" + p.Exp.String() + ")"
}

func (f *Func) String() string {
	args := make([]string, len(f.Args))
	for i, a := range f.Args {
		args[i] = a.String()
	}
	return f.Name + "(" + strings.Join(args, ", ") + ")"
}

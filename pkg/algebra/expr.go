// Package algebra is a small exact-arithmetic expression kernel.
//
// Expressions are trees over rational constants, symbols, the constants pi
// and the imaginary unit, sums, products, powers and a fixed set of
// elementary and special functions. Trees built by the parser are kept
// exactly as written (so they can be rendered in input order); Simplify
// turns any tree into a canonical form in which like terms and like
// powers are collected and numeric sub-expressions are folded exactly.
//
// All symbols are treated as positive reals, which is the natural
// assumption for physical quantities: (a*b)**n == a**n*b**n and
// (a**m)**n == a**(m*n) hold unconditionally.
package algebra

import (
	"math/big"
)

// Expr is an algebraic expression tree.
type Expr interface {
	// String returns a plain-text form that the parser reads back.
	String() string
	isExpr()
}

// ---------- Leaves ----------

// Num is an exact rational number. Float marks numbers that were written
// as decimal literals (or derived from them); the value itself is always
// exact, the flag only affects printing.
type Num struct {
	val   *big.Rat
	Float bool
}

// Sym is a free symbol.
type Sym struct {
	Name string
}

// Const is a named mathematical constant (pi or the imaginary unit).
type Const struct {
	Name string
}

// Constant names.
const (
	PiName = "pi"
	IName  = "I"
)

// ---------- Composites ----------

// Add is a sum of terms.
type Add struct {
	Terms []Expr
}

// Mul is a product of factors.
type Mul struct {
	Factors []Expr
}

// Pow is Base raised to Exp.
type Pow struct {
	Base Expr
	Exp  Expr
}

// Func is a function application.
type Func struct {
	Name string
	Args []Expr
}

func (*Num) isExpr()   {}
func (*Sym) isExpr()   {}
func (*Const) isExpr() {}
func (*Add) isExpr()   {}
func (*Mul) isExpr()   {}
func (*Pow) isExpr()   {}
func (*Func) isExpr()  {}

// ---------- Constructors ----------

// Int returns the integer n.
func Int(n int64) *Num { return &Num{val: new(big.Rat).SetInt64(n)} }

// Frac returns p/q. It panics if q is zero.
func Frac(p, q int64) *Num {
	if q == 0 {
		panic("algebra: zero denominator")
	}
	return &Num{val: new(big.Rat).SetFrac64(p, q)}
}

// NewNum wraps a rational value. The value is copied.
func NewNum(r *big.Rat, float bool) *Num {
	return &Num{val: new(big.Rat).Set(r), Float: float}
}

// ParseNum reads a decimal literal such as "12", "1.5" or "2.5e-3".
// Literals containing a point or an exponent are flagged as floats.
func ParseNum(lit string) (*Num, bool) {
	r, ok := new(big.Rat).SetString(lit)
	if !ok {
		return nil, false
	}
	float := false
	for _, c := range lit {
		if c == '.' || c == 'e' || c == 'E' {
			float = true
			break
		}
	}
	return &Num{val: r, Float: float}, true
}

// Symbol returns the symbol with the given name.
func Symbol(name string) *Sym { return &Sym{Name: name} }

// Pi returns the constant pi.
func Pi() *Const { return &Const{Name: PiName} }

// ImaginaryUnit returns the constant I.
func ImaginaryUnit() *Const { return &Const{Name: IName} }

// NewAdd returns the unsimplified sum of terms.
func NewAdd(terms ...Expr) *Add { return &Add{Terms: terms} }

// NewMul returns the unsimplified product of factors.
func NewMul(factors ...Expr) *Mul { return &Mul{Factors: factors} }

// NewPow returns the unsimplified power base**exp.
func NewPow(base, exp Expr) *Pow { return &Pow{Base: base, Exp: exp} }

// NewFunc returns the unsimplified application name(args...).
func NewFunc(name string, args ...Expr) *Func { return &Func{Name: name, Args: args} }

// Neg returns -e.
func Neg(e Expr) Expr { return NewMul(Int(-1), e) }

// Sub returns a - b.
func Sub(a, b Expr) Expr { return NewAdd(a, Neg(b)) }

// Div returns a / b.
func Div(a, b Expr) Expr { return NewMul(a, NewPow(b, Int(-1))) }

// ---------- Num accessors ----------

// Rat returns a copy of the value.
func (n *Num) Rat() *big.Rat { return new(big.Rat).Set(n.val) }

// Sign returns -1, 0 or +1.
func (n *Num) Sign() int { return n.val.Sign() }

// IsZero reports whether n == 0.
func (n *Num) IsZero() bool { return n.val.Sign() == 0 }

// IsOne reports whether n == 1.
func (n *Num) IsOne() bool { return n.val.IsInt() && n.val.Num().IsInt64() && n.val.Num().Int64() == 1 }

// IsInt reports whether n is an integer.
func (n *Num) IsInt() bool { return n.val.IsInt() }

// Float64 returns the nearest float64 value.
func (n *Num) Float64() float64 { f, _ := n.val.Float64(); return f }

// Equal reports whether two expressions have the same canonical form.
func Equal(a, b Expr) bool {
	return Simplify(a).String() == Simplify(b).String()
}

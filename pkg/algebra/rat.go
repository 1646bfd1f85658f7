package algebra

import (
	"math/big"
	"strconv"
	"strings"
)

// Limits on exact arithmetic. Larger powers stay symbolic so that hostile
// input such as 10**10**10 cannot exhaust memory.
const (
	maxExactExponent = 4096
	maxExactBits     = 1 << 16
	maxRootDegree    = 64
)

var (
	ratZero = new(big.Rat)
	ratOne  = big.NewRat(1, 1)
)

func numAdd(a, b *Num) *Num {
	return &Num{val: new(big.Rat).Add(a.val, b.val), Float: a.Float || b.Float}
}

func numMul(a, b *Num) *Num {
	return &Num{val: new(big.Rat).Mul(a.val, b.val), Float: a.Float || b.Float}
}

func numNeg(a *Num) *Num { return &Num{val: new(big.Rat).Neg(a.val), Float: a.Float} }

func numAbs(a *Num) *Num { return &Num{val: new(big.Rat).Abs(a.val), Float: a.Float} }

// ratPowInt computes base**n exactly within the size limits.
func ratPowInt(base *big.Rat, n int64) (*big.Rat, bool) {
	if n == 0 {
		return big.NewRat(1, 1), true
	}
	if base.Sign() == 0 {
		if n < 0 {
			return nil, false
		}
		return new(big.Rat), true
	}
	abs := n
	if abs < 0 {
		abs = -abs
	}
	if abs > maxExactExponent {
		return nil, false
	}
	bits := int64(base.Num().BitLen() + base.Denom().BitLen())
	if bits*abs > maxExactBits {
		return nil, false
	}
	e := big.NewInt(abs)
	num := new(big.Int).Exp(base.Num(), e, nil)
	den := new(big.Int).Exp(base.Denom(), e, nil)
	if n < 0 {
		num, den = den, num
		if den.Sign() < 0 {
			num.Neg(num)
			den.Neg(den)
		}
	}
	return new(big.Rat).SetFrac(num, den), true
}

// intRoot returns the exact q-th root of x, if there is one.
func intRoot(x *big.Int, q int64) (*big.Int, bool) {
	if x.Sign() < 0 {
		return nil, false
	}
	if x.Sign() == 0 || q == 1 {
		return new(big.Int).Set(x), true
	}
	if q == 2 {
		r := new(big.Int).Sqrt(x)
		return r, new(big.Int).Mul(r, r).Cmp(x) == 0
	}
	bq := big.NewInt(q)
	qm1 := big.NewInt(q - 1)
	// Newton iteration from an overestimate.
	r := new(big.Int).Lsh(big.NewInt(1), uint(x.BitLen()/int(q)+1))
	for {
		// next = ((q-1)*r + x / r**(q-1)) / q
		t := new(big.Int).Exp(r, qm1, nil)
		t.Quo(x, t)
		next := new(big.Int).Mul(r, qm1)
		next.Add(next, t)
		next.Quo(next, bq)
		if next.Cmp(r) >= 0 {
			break
		}
		r = next
	}
	return r, new(big.Int).Exp(r, bq, nil).Cmp(x) == 0
}

// ratRoot returns the exact q-th root of r. Negative values have a real
// root only for odd q.
func ratRoot(r *big.Rat, q int64) (*big.Rat, bool) {
	if q <= 0 || q > maxRootDegree {
		return nil, false
	}
	neg := r.Sign() < 0
	if neg && q%2 == 0 {
		return nil, false
	}
	num := new(big.Int).Abs(r.Num())
	n, ok := intRoot(num, q)
	if !ok {
		return nil, false
	}
	d, ok := intRoot(r.Denom(), q)
	if !ok {
		return nil, false
	}
	if neg {
		n.Neg(n)
	}
	return new(big.Rat).SetFrac(n, d), true
}

// ratPow computes base**exp exactly when the result is rational.
func ratPow(base, exp *big.Rat) (*big.Rat, bool) {
	if !exp.Num().IsInt64() || !exp.Denom().IsInt64() {
		return nil, false
	}
	p, q := exp.Num().Int64(), exp.Denom().Int64()
	if q == 1 {
		return ratPowInt(base, p)
	}
	root, ok := ratRoot(base, q)
	if !ok {
		return nil, false
	}
	return ratPowInt(root, p)
}

// ratInt64 returns r as an int64 if it is a small integer.
func ratInt64(r *big.Rat) (int64, bool) {
	if !r.IsInt() || !r.Num().IsInt64() {
		return 0, false
	}
	return r.Num().Int64(), true
}

// formatDecimal prints a float-flagged value as a decimal literal.
func formatDecimal(r *big.Rat) string {
	f, _ := r.Float64()
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEIN") {
		s += ".0"
	}
	return s
}

// ParseRat reads a tolerance or other decimal string exactly.
func ParseRat(s string) (*big.Rat, bool) {
	return new(big.Rat).SetString(strings.TrimSpace(s))
}

package algebra

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"math/cmplx"
)

// Evaluation errors.
var (
	ErrUnbound   = errors.New("unbound symbol")
	ErrNotExact  = errors.New("value is not rational")
	ErrUndefined = errors.New("undefined value")
)

// EvalRat evaluates e exactly. It fails with ErrNotExact when the value
// involves pi, the imaginary unit, a function or an irrational power.
func EvalRat(e Expr, env map[string]*big.Rat) (*big.Rat, error) {
	switch x := e.(type) {
	case *Num:
		return x.Rat(), nil
	case *Sym:
		if v, ok := env[x.Name]; ok {
			return new(big.Rat).Set(v), nil
		}
		return nil, fmt.Errorf("%w: %s", ErrUnbound, x.Name)
	case *Const:
		return nil, ErrNotExact
	case *Add:
		sum := new(big.Rat)
		for _, t := range x.Terms {
			v, err := EvalRat(t, env)
			if err != nil {
				return nil, err
			}
			sum.Add(sum, v)
		}
		return sum, nil
	case *Mul:
		prod := big.NewRat(1, 1)
		for _, f := range x.Factors {
			v, err := EvalRat(f, env)
			if err != nil {
				return nil, err
			}
			prod.Mul(prod, v)
		}
		return prod, nil
	case *Pow:
		b, err := EvalRat(x.Base, env)
		if err != nil {
			return nil, err
		}
		p, err := EvalRat(x.Exp, env)
		if err != nil {
			return nil, err
		}
		if b.Sign() == 0 && p.Sign() < 0 {
			return nil, fmt.Errorf("%w: division by zero", ErrUndefined)
		}
		v, ok := ratPow(b, p)
		if !ok {
			return nil, ErrNotExact
		}
		return v, nil
	}
	return nil, ErrNotExact
}

// Eval evaluates e numerically over the complex numbers using principal
// branches.
func Eval(e Expr, env map[string]complex128) (complex128, error) {
	switch x := e.(type) {
	case *Num:
		return complex(x.Float64(), 0), nil
	case *Sym:
		if v, ok := env[x.Name]; ok {
			return v, nil
		}
		return 0, fmt.Errorf("%w: %s", ErrUnbound, x.Name)
	case *Const:
		if x.Name == IName {
			return 1i, nil
		}
		return complex(math.Pi, 0), nil
	case *Add:
		var sum complex128
		for _, t := range x.Terms {
			v, err := Eval(t, env)
			if err != nil {
				return 0, err
			}
			sum += v
		}
		return sum, nil
	case *Mul:
		prod := complex(1, 0)
		for _, f := range x.Factors {
			v, err := Eval(f, env)
			if err != nil {
				return 0, err
			}
			prod *= v
		}
		return prod, nil
	case *Pow:
		b, err := Eval(x.Base, env)
		if err != nil {
			return 0, err
		}
		p, err := Eval(x.Exp, env)
		if err != nil {
			return 0, err
		}
		if b == 0 && real(p) < 0 {
			return 0, fmt.Errorf("%w: division by zero", ErrUndefined)
		}
		if imag(b) == 0 && imag(p) == 0 && (real(b) >= 0 || real(p) == math.Trunc(real(p))) {
			return complex(math.Pow(real(b), real(p)), 0), nil
		}
		return cmplx.Pow(b, p), nil
	case *Func:
		args := make([]complex128, len(x.Args))
		for i, a := range x.Args {
			v, err := Eval(a, env)
			if err != nil {
				return 0, err
			}
			args[i] = v
		}
		return evalFunc(x.Name, args)
	}
	return 0, fmt.Errorf("%w: %s", ErrUndefined, e)
}

func evalFunc(name string, args []complex128) (complex128, error) {
	if name == "beta" {
		if len(args) != 2 {
			return 0, fmt.Errorf("%w: beta takes two arguments", ErrUndefined)
		}
		a, err := realArg(name, args[0])
		if err != nil {
			return 0, err
		}
		b, err := realArg(name, args[1])
		if err != nil {
			return 0, err
		}
		return complex(math.Gamma(a)*math.Gamma(b)/math.Gamma(a+b), 0), nil
	}
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: %s takes one argument", ErrUndefined, name)
	}
	z := args[0]
	switch name {
	case "sqrt":
		return cmplx.Sqrt(z), nil
	case "exp":
		return cmplx.Exp(z), nil
	case "log", "ln":
		if z == 0 {
			return 0, fmt.Errorf("%w: log(0)", ErrUndefined)
		}
		return cmplx.Log(z), nil
	case "sin":
		return cmplx.Sin(z), nil
	case "cos":
		return cmplx.Cos(z), nil
	case "tan":
		return cmplx.Tan(z), nil
	case "asin":
		return cmplx.Asin(z), nil
	case "acos":
		return cmplx.Acos(z), nil
	case "atan":
		return cmplx.Atan(z), nil
	case "sinh":
		return cmplx.Sinh(z), nil
	case "cosh":
		return cmplx.Cosh(z), nil
	case "tanh":
		return cmplx.Tanh(z), nil
	case "abs":
		return complex(cmplx.Abs(z), 0), nil
	case "gamma":
		x, err := realArg(name, z)
		if err != nil {
			return 0, err
		}
		return complex(math.Gamma(x), 0), nil
	case "zeta":
		x, err := realArg(name, z)
		if err != nil {
			return 0, err
		}
		return zeta(x)
	}
	return 0, fmt.Errorf("%w: unknown function %s", ErrUndefined, name)
}

func realArg(name string, z complex128) (float64, error) {
	if imag(z) != 0 {
		return 0, fmt.Errorf("%w: %s of a complex argument", ErrUndefined, name)
	}
	return real(z), nil
}

// zeta evaluates the Riemann zeta function for real s > 1 by direct
// summation with an Euler-Maclaurin tail.
func zeta(s float64) (complex128, error) {
	if s <= 1 {
		return 0, fmt.Errorf("%w: zeta(%g)", ErrUndefined, s)
	}
	const n = 64
	sum := 0.0
	for k := 1; k < n; k++ {
		sum += math.Pow(float64(k), -s)
	}
	nf := float64(n)
	sum += math.Pow(nf, 1-s)/(s-1) + 0.5*math.Pow(nf, -s) + s*math.Pow(nf, -s-1)/12
	return complex(sum, 0), nil
}

// ---------- Probing ----------

const probeTolerance = 1e-9

var smallPrimes = []int64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43}

// probePoints returns deterministic positive sample assignments for the
// given symbols.
func probePoints(symbols []string, count int) []map[string]*big.Rat {
	points := make([]map[string]*big.Rat, count)
	n := len(smallPrimes)
	for k := range points {
		pt := make(map[string]*big.Rat, len(symbols))
		for i, name := range symbols {
			num := smallPrimes[(i+2*k)%n] + int64(k)
			den := smallPrimes[(3*i+k+1)%n]
			pt[name] = big.NewRat(num, den)
		}
		points[k] = pt
	}
	return points
}

type probeValue struct {
	exact  *big.Rat
	approx complex128
	// scale bounds the rounding error of approx relative to probeTolerance.
	scale float64
}

func evalAt(e Expr, pt map[string]*big.Rat) (probeValue, error) {
	r, err := EvalRat(e, pt)
	if err == nil {
		f, _ := r.Float64()
		return probeValue{exact: r, approx: complex(f, 0)}, nil
	}
	if !errors.Is(err, ErrNotExact) {
		return probeValue{}, err
	}
	env := make(map[string]complex128, len(pt))
	for k, v := range pt {
		f, _ := v.Float64()
		env[k] = complex(f, 0)
	}
	c, scale, err := evalScaled(e, env)
	if err != nil {
		return probeValue{}, err
	}
	if cmplx.IsNaN(c) || cmplx.IsInf(c) {
		return probeValue{}, fmt.Errorf("%w: %s", ErrUndefined, e)
	}
	return probeValue{approx: c, scale: scale}, nil
}

// evalScaled evaluates e together with a first-order estimate of the
// magnitude its rounding error is proportional to. Sums are judged
// against their largest term, so cancellation does not look like a
// genuine zero or a genuine difference.
func evalScaled(e Expr, env map[string]complex128) (complex128, float64, error) {
	switch x := e.(type) {
	case *Add:
		var sum complex128
		scale := 0.0
		for _, t := range x.Terms {
			v, s, err := evalScaled(t, env)
			if err != nil {
				return 0, 0, err
			}
			sum += v
			scale = math.Max(scale, s)
		}
		return sum, scale, nil
	case *Mul:
		values := make([]complex128, len(x.Factors))
		scales := make([]float64, len(x.Factors))
		prod := complex(1, 0)
		for i, f := range x.Factors {
			v, s, err := evalScaled(f, env)
			if err != nil {
				return 0, 0, err
			}
			values[i], scales[i] = v, s
			prod *= v
		}
		scale := 0.0
		for i := range values {
			s := scales[i]
			for j, v := range values {
				if j != i {
					s *= cmplx.Abs(v)
				}
			}
			scale = math.Max(scale, s)
		}
		return prod, scale, nil
	case *Pow:
		v, err := Eval(x, env)
		if err != nil {
			return 0, 0, err
		}
		b, bs, err := evalScaled(x.Base, env)
		if err != nil {
			return 0, 0, err
		}
		scale := cmplx.Abs(v)
		if ab := cmplx.Abs(b); ab > 0 && bs > ab {
			scale *= bs / ab
		}
		return v, scale, nil
	case *Func:
		v, err := Eval(x, env)
		if err != nil {
			return 0, 0, err
		}
		scale := cmplx.Abs(v)
		for _, a := range x.Args {
			_, s, err := evalScaled(a, env)
			if err != nil {
				return 0, 0, err
			}
			scale = math.Max(scale, s)
		}
		return v, scale, nil
	}
	v, err := Eval(e, env)
	if err != nil {
		return 0, 0, err
	}
	return v, cmplx.Abs(v), nil
}

func (a probeValue) equal(b probeValue) bool {
	if a.exact != nil && b.exact != nil {
		return a.exact.Cmp(b.exact) == 0
	}
	scale := math.Max(math.Max(cmplx.Abs(a.approx), cmplx.Abs(b.approx)), math.Max(a.scale, b.scale))
	return cmplx.Abs(a.approx-b.approx) <= probeTolerance*scale
}

// IsConstant reports whether e does not depend on its free symbols. The
// canonical form decides most cases; otherwise e is sampled at several
// points and must take the same value at all of them.
func IsConstant(e Expr) bool {
	s := Simplify(e)
	symbols := SortedSymbols(s)
	if len(symbols) == 0 {
		return true
	}
	var ref *probeValue
	agreed := 0
	for _, pt := range probePoints(symbols, 5) {
		v, err := evalAt(s, pt)
		if err != nil {
			continue
		}
		if ref == nil {
			ref = &v
			continue
		}
		if !ref.equal(v) {
			return false
		}
		agreed++
	}
	return agreed >= 2
}

// IsZero reports whether e is identically zero.
func IsZero(e Expr) bool {
	s := Simplify(e)
	if n, ok := s.(*Num); ok {
		return n.IsZero()
	}
	symbols := SortedSymbols(s)
	count := 4
	if len(symbols) == 0 {
		count = 1
	}
	for _, pt := range probePoints(symbols, count) {
		v, err := evalAt(s, pt)
		if err != nil {
			return false
		}
		if v.exact != nil {
			if v.exact.Sign() != 0 {
				return false
			}
			continue
		}
		if cmplx.Abs(v.approx) > probeTolerance*v.scale {
			return false
		}
	}
	return true
}

// Value evaluates a symbol-free expression, exactly when possible.
// The returned rational is nil when the value is irrational.
func Value(e Expr) (*big.Rat, complex128, error) {
	v, err := evalAt(Simplify(e), nil)
	if err != nil {
		return nil, 0, err
	}
	return v.exact, v.approx, nil
}

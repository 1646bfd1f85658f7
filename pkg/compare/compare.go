// Package compare classifies a parsed response against a parsed answer
// under one of the comparison modes.
//
// Both expressions are expected to be unit-rewritten already, so unit
// names have become base units or dimension names and prefixes have
// become numeric factors.
package compare

import (
	"errors"
	"fmt"
	"math/big"
	"math/cmplx"

	"github.com/leapstack-labs/unitgrade/pkg/algebra"
)

// ErrUnsupportedMode is returned for modes Compare does not decide.
var ErrUnsupportedMode = errors.New("comparison mode is not handled here")

// Handler decides one mode.
type Handler func(response, answer algebra.Expr, tol Tolerance) bool

var handlers = map[Mode]Handler{
	Expression:      expression,
	ExpressionExact: expressionExact,
	Dimensions:      dimensions,
}

// Compare reports whether response matches answer under mode.
func Compare(mode Mode, response, answer algebra.Expr, tol Tolerance) (bool, error) {
	h, ok := handlers[mode]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnsupportedMode, mode)
	}
	return h(response, answer, tol), nil
}

// ScaledEqual reports whether response/answer is a nonzero constant.
func ScaledEqual(response, answer algebra.Expr) bool {
	if algebra.IsZero(answer) || algebra.IsZero(response) {
		return false
	}
	return algebra.IsConstant(algebra.Div(response, answer))
}

func dimensions(response, answer algebra.Expr, _ Tolerance) bool {
	return ScaledEqual(response, answer)
}

func expressionExact(response, answer algebra.Expr, _ Tolerance) bool {
	return algebra.IsZero(algebra.Sub(algebra.Rationalize(response), algebra.Rationalize(answer)))
}

func expression(response, answer algebra.Expr, tol Tolerance) bool {
	ansZero, resZero := algebra.IsZero(answer), algebra.IsZero(response)
	if ansZero || resZero {
		return ansZero && resZero
	}
	ratio := algebra.Simplify(algebra.Div(response, answer))
	if !algebra.IsConstant(ratio) {
		return false
	}

	// Unit rewriting leaves base units as symbols on both sides. When the
	// symbol sets agree they are only scale, so collapse them to 1.
	ansSyms := algebra.FreeSymbols(algebra.Simplify(answer))
	resSyms := algebra.FreeSymbols(algebra.Simplify(response))
	if !algebra.SameSymbols(ansSyms, resSyms) {
		return withinRatio(ratio, tol)
	}
	one := algebra.Int(1)
	ans := algebra.SubsAll(answer, one)
	res := algebra.SubsAll(response, one)
	return withinTolerance(res, ans, tol)
}

// withinTolerance checks |ans-res| < atol and |ans-res| < rtol*|ans|;
// an exact zero difference always passes.
func withinTolerance(res, ans algebra.Expr, tol Tolerance) bool {
	diff := algebra.Sub(ans, res)
	if algebra.IsZero(diff) {
		return true
	}
	d, err := magnitude(diff)
	if err != nil {
		return false
	}
	if tol.Atol != nil && d.Cmp(tol.Atol) >= 0 {
		return false
	}
	if rtol := tol.rtol(); rtol != nil {
		a, err := magnitude(ans)
		if err != nil {
			return false
		}
		if d.Cmp(new(big.Rat).Mul(rtol, a)) >= 0 {
			return false
		}
	}
	return true
}

// withinRatio is the check used when the two sides do not share their
// symbols: the absolute check cannot be made and the relative check
// compares the constant ratio with 1.
func withinRatio(ratio algebra.Expr, tol Tolerance) bool {
	if tol.Atol != nil {
		return false
	}
	dev := algebra.Sub(algebra.Int(1), algebra.SubsAll(ratio, algebra.Int(1)))
	if algebra.IsZero(dev) {
		return true
	}
	d, err := magnitude(dev)
	if err != nil {
		return false
	}
	return d.Cmp(tol.rtol()) < 0
}

// magnitude returns |e| for a symbol-free expression, exactly when the
// value is rational.
func magnitude(e algebra.Expr) (*big.Rat, error) {
	exact, approx, err := algebra.Value(e)
	if err != nil {
		return nil, err
	}
	if exact != nil {
		return new(big.Rat).Abs(exact), nil
	}
	abs := cmplx.Abs(approx)
	r := new(big.Rat).SetFloat64(abs)
	if r == nil {
		return nil, fmt.Errorf("value %g is not finite", abs)
	}
	return r, nil
}

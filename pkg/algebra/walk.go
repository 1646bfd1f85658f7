package algebra

import (
	"sort"
)

// FreeSymbols returns the names of the symbols occurring in e.
func FreeSymbols(e Expr) map[string]struct{} {
	out := map[string]struct{}{}
	collectSymbols(e, out)
	return out
}

func collectSymbols(e Expr, out map[string]struct{}) {
	switch x := e.(type) {
	case *Sym:
		out[x.Name] = struct{}{}
	case *Add:
		for _, t := range x.Terms {
			collectSymbols(t, out)
		}
	case *Mul:
		for _, f := range x.Factors {
			collectSymbols(f, out)
		}
	case *Pow:
		collectSymbols(x.Base, out)
		collectSymbols(x.Exp, out)
	case *Func:
		for _, a := range x.Args {
			collectSymbols(a, out)
		}
	}
}

// SortedSymbols returns the free symbols of e in ascending order.
func SortedSymbols(e Expr) []string {
	return SortedKeys(FreeSymbols(e))
}

// SortedKeys returns the members of a symbol set in ascending order.
func SortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// SameSymbols reports whether two symbol sets are equal.
func SameSymbols(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

// Subs replaces symbols by expressions. The result is not simplified.
func Subs(e Expr, repl map[string]Expr) Expr {
	switch x := e.(type) {
	case *Sym:
		if r, ok := repl[x.Name]; ok {
			return r
		}
		return x
	case *Add:
		terms := make([]Expr, len(x.Terms))
		for i, t := range x.Terms {
			terms[i] = Subs(t, repl)
		}
		return &Add{Terms: terms}
	case *Mul:
		factors := make([]Expr, len(x.Factors))
		for i, f := range x.Factors {
			factors[i] = Subs(f, repl)
		}
		return &Mul{Factors: factors}
	case *Pow:
		return &Pow{Base: Subs(x.Base, repl), Exp: Subs(x.Exp, repl)}
	case *Func:
		args := make([]Expr, len(x.Args))
		for i, a := range x.Args {
			args[i] = Subs(a, repl)
		}
		return &Func{Name: x.Name, Args: args}
	}
	return e
}

// SubsAll replaces every free symbol of e by value.
func SubsAll(e Expr, value Expr) Expr {
	repl := map[string]Expr{}
	for name := range FreeSymbols(e) {
		repl[name] = value
	}
	return Subs(e, repl)
}

// Rationalize clears the decimal flag of every number in e, so that
// 0.5 prints and compares as 1/2. Values are exact already.
func Rationalize(e Expr) Expr {
	switch x := e.(type) {
	case *Num:
		if !x.Float {
			return x
		}
		return &Num{val: x.val}
	case *Add:
		terms := make([]Expr, len(x.Terms))
		for i, t := range x.Terms {
			terms[i] = Rationalize(t)
		}
		return &Add{Terms: terms}
	case *Mul:
		factors := make([]Expr, len(x.Factors))
		for i, f := range x.Factors {
			factors[i] = Rationalize(f)
		}
		return &Mul{Factors: factors}
	case *Pow:
		return &Pow{Base: Rationalize(x.Base), Exp: Rationalize(x.Exp)}
	case *Func:
		args := make([]Expr, len(x.Args))
		for i, a := range x.Args {
			args[i] = Rationalize(a)
		}
		return &Func{Name: x.Name, Args: args}
	}
	return e
}

// Terms returns the additive terms of e, or e itself.
func Terms(e Expr) []Expr {
	if a, ok := e.(*Add); ok {
		return a.Terms
	}
	return []Expr{e}
}

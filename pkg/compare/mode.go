package compare

// Mode selects the comparison semantics.
type Mode int

// Comparison modes.
const (
	// Expression accepts a response equal to the answer up to the
	// configured tolerances, once unit scale symbols are collapsed.
	Expression Mode = iota
	// ExpressionExact accepts a response whose exact difference from the
	// answer simplifies to zero.
	ExpressionExact
	// Dimensions accepts any nonzero constant multiple of the answer.
	Dimensions
	// BuckinghamPi compares sets of dimensionless groups. It is decided by
	// the buckingham package, not by Compare.
	BuckinghamPi
)

// String returns the parameter spelling of the mode.
func (m Mode) String() string {
	switch m {
	case Expression:
		return "expression"
	case ExpressionExact:
		return "expressionExact"
	case Dimensions:
		return "dimensions"
	case BuckinghamPi:
		return "buckinghamPi"
	default:
		return "unknown"
	}
}

// Modes returns every mode.
func Modes() []Mode {
	return []Mode{Expression, ExpressionExact, Dimensions, BuckinghamPi}
}

// ParseMode converts a parameter value to a Mode. The empty string is the
// default Expression mode.
func ParseMode(s string) (Mode, bool) {
	if s == "" {
		return Expression, true
	}
	for _, m := range Modes() {
		if m.String() == s {
			return m, true
		}
	}
	return Expression, false
}

// Numeric reports whether the mode compares values, so that tolerances
// apply.
func (m Mode) Numeric() bool {
	return m == Expression
}

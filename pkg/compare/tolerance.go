package compare

import (
	"fmt"
	"math/big"
	"strings"
)

// DefaultRtol applies when neither tolerance is given.
var DefaultRtol = big.NewRat(1, 1_000_000_000_000)

// Tolerance holds the optional absolute and relative tolerances. A nil
// field is unset. Setting either one waives the default of the other.
type Tolerance struct {
	Atol *big.Rat
	Rtol *big.Rat
}

// ParseTolerance reads a tolerance such as "0.05", "1e-12" or "1/20".
// The empty string means unset.
func ParseTolerance(s string) (*big.Rat, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmt.Errorf("invalid tolerance %q", s)
	}
	if r.Sign() < 0 {
		return nil, fmt.Errorf("tolerance %q is negative", s)
	}
	return r, nil
}

// rtol returns the relative tolerance in force, or nil when the relative
// check is waived.
func (t Tolerance) rtol() *big.Rat {
	switch {
	case t.Rtol != nil:
		return t.Rtol
	case t.Atol != nil:
		return nil
	default:
		return DefaultRtol
	}
}

func (t Tolerance) String() string {
	format := func(r *big.Rat) string {
		if r == nil {
			return "unset"
		}
		return r.FloatString(12)
	}
	return fmt.Sprintf("atol=%s rtol=%s", format(t.Atol), format(t.rtol()))
}

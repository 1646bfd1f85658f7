package grader_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/unitgrade/pkg/grader"
	"github.com/leapstack-labs/unitgrade/pkg/units"
)

// TestCompoundUnitSweep grades every prefixed product and quotient of two
// units. It is slow and only runs with UNITGRADE_SWEEP=1.
func TestCompoundUnitSweep(t *testing.T) {
	if testing.Short() || os.Getenv("UNITGRADE_SWEEP") != "1" {
		t.Skip("set UNITGRADE_SWEEP=1 to run the compound unit sweep")
	}

	ev := grader.New()
	params := decode(t, map[string]any{"strict_syntax": false})
	unitList := append(units.Entries(units.TierBase), units.Entries(units.TierDerived)...)

	for _, p := range units.Entries(units.TierPrefix) {
		t.Run(p.Name, func(t *testing.T) {
			for _, u := range unitList {
				for _, v := range unitList {
					cases := []struct{ response, answer string }{
						{p.Name + u.Name + "*" + v.Name, p.Name + "*" + u.Name + "*" + v.Name},
						{p.Name + u.Name + " " + v.Name, p.Name + "*" + u.Name + "*" + v.Name},
						{p.Name + u.Name + "/" + v.Name, p.Name + "*" + u.Name + "/" + v.Name},
					}
					for _, c := range cases {
						result, err := ev.Evaluate(c.response, c.answer, params)
						require.NoError(t, err, c.response)
						assert.True(t, result.IsCorrect, "%s vs %s", c.response, c.answer)
					}
				}
			}
		})
	}
}

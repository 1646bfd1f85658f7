package cases

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/unitgrade/internal/testutil"
	"github.com/leapstack-labs/unitgrade/pkg/grader"
)

const sample = `params:
  strict_syntax: false
cases:
  - name: speed
    response: "2 km/h"
    answer: "2*kilo*metre/hour"
    expect: true
  - name: wrong length
    response: "1.06*metre"
    answer: "1.0*metre"
    params:
      atol: 0.05
    expect: false
  - name: mislabelled
    response: "2*metre"
    answer: "1*metre"
    expect: true
  - name: broken answer
    response: "x"
    answer: "x*"
  - name: read back
    response: "2 megametres"
    preview: true
`

func TestParse(t *testing.T) {
	f, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	require.Len(t, f.Cases, 5)
	assert.Equal(t, false, f.Params["strict_syntax"])
	assert.Equal(t, "speed", f.Cases[0].Name)
	require.NotNil(t, f.Cases[0].Expect)
	assert.True(t, *f.Cases[0].Expect)
	assert.Nil(t, f.Cases[3].Expect)
	assert.Equal(t, 0.05, f.Cases[1].Params["atol"])
	assert.True(t, f.Cases[4].Preview)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
		errSub  string
	}{
		{name: "empty", content: "", wantErr: ErrNoCases},
		{name: "no cases", content: "params: {}\ncases: []\n", wantErr: ErrNoCases},
		{name: "missing answer", content: "cases:\n  - response: x\n", wantErr: ErrNoAnswer},
		{
			name:    "duplicate names",
			content: "cases:\n  - {name: a, response: x, answer: x}\n  - {name: a, response: y, answer: y}\n",
			wantErr: ErrDuplicate,
		},
		{name: "unknown field", content: "cases:\n  - {response: x, answer: x, expected: true}\n", errSub: "expected"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.content))
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.errSub != "" {
				assert.Contains(t, err.Error(), tt.errSub)
			}
		})
	}
}

func TestParse_DefaultNames(t *testing.T) {
	f, err := Parse(strings.NewReader("cases:\n  - {response: x, answer: x}\n  - {response: y, answer: y}\n"))
	require.NoError(t, err)
	assert.Equal(t, "case 1", f.Cases[0].Name)
	assert.Equal(t, "case 2", f.Cases[1].Name)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cases.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0600))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, f.Cases, 5)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRunner_Run(t *testing.T) {
	f, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	r := &Runner{
		Evaluator: grader.New(grader.WithLogger(testutil.NewTestLogger(t))),
		Jobs:      2,
		Logger:    testutil.NewTestLogger(t),
	}
	outcomes, err := r.Run(context.Background(), f)
	require.NoError(t, err)
	require.Len(t, outcomes, 5)

	assert.Equal(t, StatusPass, outcomes[0].Status)
	assert.True(t, outcomes[0].Result.IsCorrect)

	assert.Equal(t, StatusPass, outcomes[1].Status)
	assert.False(t, outcomes[1].Result.IsCorrect)

	assert.Equal(t, StatusMismatch, outcomes[2].Status)

	assert.Equal(t, StatusError, outcomes[3].Status)
	assert.NotEmpty(t, outcomes[3].Error)

	assert.Equal(t, StatusPass, outcomes[4].Status)
	require.NotNil(t, outcomes[4].Preview)
	assert.Equal(t, `2 ~\mathrm{mega} ~\mathrm{metre}`, outcomes[4].Preview.Latex)

	s := Summarize(outcomes)
	assert.Equal(t, Summary{Total: 5, Correct: 1, Passed: 3, Mismatched: 1, Errors: 1}, s)
	assert.False(t, s.OK())
}

func TestRunner_ParamsFunc(t *testing.T) {
	f := &File{Cases: []Case{{Name: "loose", Response: "1.04*metre", Answer: "1.0*metre"}}}
	r := &Runner{
		Evaluator: grader.New(),
		Params: func(raw map[string]any) (grader.Params, error) {
			return grader.DecodeParams(grader.MergeParams(map[string]any{"atol": "0.05"}, raw))
		},
	}
	outcomes, err := r.Run(context.Background(), f)
	require.NoError(t, err)
	assert.True(t, outcomes[0].Result.IsCorrect)
	assert.True(t, Summarize(outcomes).OK())
}

func TestRunner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := &File{Cases: []Case{{Name: "a", Response: "x", Answer: "x"}}}
	_, err := (&Runner{Evaluator: grader.New()}).Run(ctx, f)
	assert.ErrorIs(t, err, context.Canceled)
}

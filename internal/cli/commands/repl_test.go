package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leapstack-labs/unitgrade/internal/cli/config"
	"github.com/leapstack-labs/unitgrade/internal/cli/output"
	"github.com/leapstack-labs/unitgrade/internal/testutil"
	"github.com/leapstack-labs/unitgrade/pkg/grader"
)

func newSession(t *testing.T) (*replSession, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cfg := config.Default()
	logger := testutil.NewTestLogger(t)
	cc := &CommandContext{
		Cfg:       cfg,
		Logger:    logger,
		Renderer:  output.NewRenderer(&stdout, &stderr, output.ModeMarkdown),
		Evaluator: cfg.NewEvaluator(grader.WithLogger(logger)),
	}
	return &replSession{cc: cc, raw: map[string]any{}}, &stdout, &stderr
}

func TestREPLSession_Preview(t *testing.T) {
	s, stdout, _ := newSession(t)

	assert.False(t, s.handle(".set strict_syntax=false"))
	assert.False(t, s.handle("2 km/h"))
	assert.Contains(t, stdout.String(), `\mathrm{kilo} ~\mathrm{metre} ~\mathrm{hour}^{-1}`)
	assert.Equal(t, "2 km/h", s.last)

	stdout.Reset()
	assert.False(t, s.handle(".eval 2*kilo*metre/hour"))
	assert.Contains(t, stdout.String(), "- **Result**: correct")

	stdout.Reset()
	assert.False(t, s.handle(".eval 3*kilo*metre/hour"))
	assert.Contains(t, stdout.String(), "- **Result**: incorrect")
}

func TestREPLSession_Params(t *testing.T) {
	s, stdout, stderr := newSession(t)

	s.handle(".params")
	assert.Contains(t, stdout.String(), "(no parameters set)")

	s.handle(".set atol=0.5")
	s.handle(".set comparison=nope")
	assert.Contains(t, stderr.String(), "error: ")
	assert.Equal(t, map[string]any{"atol": 0.5}, s.raw)

	stdout.Reset()
	s.handle(".params")
	assert.Contains(t, stdout.String(), "atol = 0.5")

	s.handle(".unset atol")
	assert.Empty(t, s.raw)

	s.handle(".set")
	assert.Contains(t, stderr.String(), "expected key=value")
}

func TestREPLSession_Commands(t *testing.T) {
	s, stdout, stderr := newSession(t)

	assert.False(t, s.handle(""))
	assert.False(t, s.handle(".help"))
	assert.Contains(t, stdout.String(), ".eval <answer>")

	assert.False(t, s.handle(".eval metre"))
	assert.Contains(t, stderr.String(), "usage: .eval")

	assert.False(t, s.handle(".bogus"))
	assert.Contains(t, stderr.String(), "unknown command: .bogus")

	assert.True(t, s.handle(".quit"))
	assert.True(t, s.handle(".EXIT"))
}

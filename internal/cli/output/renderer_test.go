package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		mode Mode
		want Mode
	}{
		{ModeAuto, ModeMarkdown},
		{"", ModeMarkdown},
		{"bogus", ModeMarkdown},
		{ModeText, ModeText},
		{ModeJSON, ModeJSON},
		{ModeMarkdown, ModeMarkdown},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			r := NewRenderer(&bytes.Buffer{}, &bytes.Buffer{}, tt.mode)
			assert.False(t, r.IsTTY())
			assert.Equal(t, tt.want, r.EffectiveMode())
		})
	}
}

func TestRendererWrites(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRenderer(&out, &errOut, ModeMarkdown)

	r.Header(1, "Results")
	r.StatusLine("case one", "success", "")
	r.StatusLine("case two", "failed", "(expected correct)")
	r.Warning("config reloaded")

	assert.Equal(t, "# Results\n✓ case one\n✗ case two (expected correct)\n", out.String())
	assert.Equal(t, "warning: config reloaded\n", errOut.String())
}

func TestRendererJSON(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out, &out, ModeJSON)
	require.NoError(t, r.JSON(map[string]any{"is_correct": true}))
	assert.JSONEq(t, `{"is_correct": true}`, out.String())
}

func TestTable(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out, &out, ModeMarkdown)
	r.Table([]string{"name", "symbol"}, [][]string{{"metre", "m"}, {"second", "s"}})

	got := out.String()
	assert.Contains(t, got, "| name | symbol |")
	assert.Contains(t, got, "| metre | m |")

	out.Reset()
	r = NewRenderer(&out, &out, ModeText)
	r.Table([]string{"name"}, [][]string{{"metre"}})
	assert.Contains(t, out.String(), "metre")
	assert.Contains(t, out.String(), "NAME")
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "## Summary", FormatHeader(2, "Summary"))
	assert.Equal(t, "# Top", FormatHeader(0, "Top"))
	assert.Equal(t, "- **Passed**: 3", FormatKeyValue("Passed", "3"))
}

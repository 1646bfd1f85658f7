package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/unitgrade/internal/cli/config"
)

func TestParseParam(t *testing.T) {
	tests := []struct {
		in      string
		key     string
		want    any
		wantErr bool
	}{
		{in: "atol=0.05", key: "atol", want: 0.05},
		{in: "strict_syntax=false", key: "strict_syntax", want: false},
		{in: "comparison=dimensions", key: "comparison", want: "dimensions"},
		{in: " rtol =1e-3", key: "rtol", want: 1e-3},
		{in: "substitutions=('a','b')", key: "substitutions", want: "('a','b')"},
		{in: "input_symbols=[[x, [ex]]]", key: "input_symbols", want: []any{[]any{"x", []any{"ex"}}}},
		{in: "quantities=", key: "quantities", want: ""},
		{in: "novalue", wantErr: true},
		{in: "=1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			key, value, err := ParseParam(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.key, key)
			assert.Equal(t, tt.want, value)
		})
	}
}

func TestParamOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yaml")
	require.NoError(t, os.WriteFile(path, []byte("comparison: dimensions\natol: 0.1\n"), 0600))

	opts := &ParamOptions{ParamsFile: path, Params: []string{"atol=0.5"}}
	raw, err := opts.Raw()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"comparison": "dimensions", "atol": 0.5}, raw)

	cfg := config.Default()
	cfg.Params = map[string]any{"rtol": 0.01}
	params, err := opts.Resolve(cfg)
	require.NoError(t, err)
	assert.Equal(t, "dimensions", params.Comparison)
	assert.Equal(t, "0.5", params.Atol)
	assert.Equal(t, "0.01", params.Rtol)

	_, err = (&ParamOptions{ParamsFile: filepath.Join(t.TempDir(), "missing.yaml")}).Raw()
	assert.ErrorContains(t, err, "read params file")

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(empty, nil, 0600))
	raw, err = (&ParamOptions{ParamsFile: empty}).Raw()
	require.NoError(t, err)
	assert.Empty(t, raw)
}

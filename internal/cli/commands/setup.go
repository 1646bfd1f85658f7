package commands

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/unitgrade/internal/cli/config"
	"github.com/leapstack-labs/unitgrade/internal/cli/output"
	"github.com/leapstack-labs/unitgrade/pkg/grader"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg       *config.Config
	Logger    *slog.Logger
	Renderer  *output.Renderer
	Evaluator *grader.Evaluator
}

// NewCommandContext builds the dependencies from the command context set
// up by the root command.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := config.FromContext(cmd.Context())
	logger := config.GetLogger(cmd.Context())
	return &CommandContext{
		Cfg:       cfg,
		Logger:    logger,
		Renderer:  output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
		Evaluator: cfg.NewEvaluator(grader.WithLogger(logger)),
	}
}

// ParamOptions are the evaluation parameter flags shared by commands.
type ParamOptions struct {
	Params     []string // key=value, value read as YAML
	ParamsFile string
}

// AddParamFlags registers --param and --params-file on cmd.
func AddParamFlags(cmd *cobra.Command, opts *ParamOptions) {
	cmd.Flags().StringArrayVarP(&opts.Params, "param", "p", nil,
		"Evaluation parameter as key=value; the value is read as YAML (repeatable)")
	cmd.Flags().StringVar(&opts.ParamsFile, "params-file", "", "YAML file of evaluation parameters")
}

// Raw collects the flag parameters into a map. --param entries override
// the file.
func (o *ParamOptions) Raw() (map[string]any, error) {
	raw := map[string]any{}
	if o.ParamsFile != "" {
		data, err := os.ReadFile(o.ParamsFile)
		if err != nil {
			return nil, fmt.Errorf("read params file: %w", err)
		}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse params file %s: %w", o.ParamsFile, err)
		}
		if raw == nil {
			raw = map[string]any{}
		}
	}
	for _, p := range o.Params {
		key, value, err := ParseParam(p)
		if err != nil {
			return nil, err
		}
		raw[key] = value
	}
	return raw, nil
}

// Resolve merges the flag parameters over the configured defaults and
// decodes them.
func (o *ParamOptions) Resolve(cfg *config.Config) (grader.Params, error) {
	raw, err := o.Raw()
	if err != nil {
		return grader.Params{}, err
	}
	return cfg.EvaluationParams(raw)
}

// ParseParam splits key=value and reads value as YAML, so numbers,
// booleans and lists keep their type.
func ParseParam(s string) (string, any, error) {
	key, value, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", nil, fmt.Errorf("invalid parameter %q: expected key=value", s)
	}
	var v any
	if err := yaml.Unmarshal([]byte(value), &v); err != nil || v == nil {
		// Plain text such as a substitution list
		return key, value, nil //nolint:nilerr // fall back to the literal value
	}
	return key, v, nil
}

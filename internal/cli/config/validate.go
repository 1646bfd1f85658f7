package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/leapstack-labs/unitgrade/pkg/buckingham"
	"github.com/leapstack-labs/unitgrade/pkg/grader"
)

// Validate checks field values, the feedback catalogue and that the
// default params decode.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := buckingham.NewCatalogue(c.Feedback); err != nil {
		return fmt.Errorf("invalid feedback: %w", err)
	}
	if _, err := c.EvaluationParams(nil); err != nil {
		return fmt.Errorf("invalid default params: %w", err)
	}
	return nil
}

// EvaluationParams merges raw over the configured default params and
// decodes the result.
func (c *Config) EvaluationParams(raw map[string]any) (grader.Params, error) {
	return grader.DecodeParams(grader.MergeParams(c.Params, raw))
}

// NewEvaluator returns an evaluator using the configured feedback.
func (c *Config) NewEvaluator(opts ...grader.Option) *grader.Evaluator {
	return grader.New(append([]grader.Option{grader.WithFeedback(c.Feedback)}, opts...)...)
}

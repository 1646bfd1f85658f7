package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/unitgrade/internal/cli/output"
	"github.com/leapstack-labs/unitgrade/pkg/grader"
)

// NewEvaluateCommand creates the evaluate command.
func NewEvaluateCommand() *cobra.Command {
	opts := &ParamOptions{}
	cmd := &cobra.Command{
		Use:     "evaluate <response> <answer>",
		Aliases: []string{"eval"},
		Short:   "Grade a response against an answer",
		Long: `Grade a response against an answer and print the result.

Parameters come from the params section of the config file, then
--params-file, then --param flags. A response that cannot be read is
graded incorrect with feedback; only problems with the answer or the
parameters make the command fail.`,
		Example: `  # Compare quantities with an absolute tolerance
  unitgrade evaluate "1.04 m" "1.0*metre" -p atol=0.05 -p strict_syntax=false

  # Check dimensions only
  unitgrade evaluate "3 km" "metre" -p comparison=dimensions

  # Validate dimensionless groups
  unitgrade evaluate "U*L/nu" "-" -p comparison=buckinghamPi \
    -p "quantities=('U','(length/time)') ('L','(length)') ('nu','(length**2/time)')"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluate(cmd, args[0], args[1], opts)
		},
	}
	AddParamFlags(cmd, opts)
	return cmd
}

func runEvaluate(cmd *cobra.Command, response, answer string, opts *ParamOptions) error {
	cc := NewCommandContext(cmd)
	params, err := opts.Resolve(cc.Cfg)
	if err != nil {
		cc.Logger.Warn("invalid parameters", "error", err)
		return err
	}
	result, err := cc.Evaluator.Evaluate(response, answer, params)
	if err != nil {
		cc.Logger.Warn("authoring error", "error", err)
		return err
	}
	renderResult(cc.Renderer, result)
	return nil
}

func renderResult(r *output.Renderer, res grader.Result) {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		_ = r.JSON(res)
	case output.ModeMarkdown:
		verdict := "incorrect"
		if res.IsCorrect {
			verdict = "correct"
		}
		r.Println(output.FormatKeyValue("Result", verdict))
		r.Println(output.FormatKeyValue("Comparison", res.Comparison))
		if res.ResponseLatex != "" {
			r.Println(output.FormatKeyValue("Response", "$"+res.ResponseLatex+"$"))
		}
		if res.Feedback != "" {
			r.Println("")
			r.Println(res.Feedback)
		}
	default:
		styles := r.Styles()
		if res.IsCorrect {
			r.Println(styles.StatusSuccess.String() + " " + styles.Success.Render("correct"))
		} else {
			r.Println(styles.StatusFailed.String() + " " + styles.Error.Render("incorrect"))
		}
		r.Printf("  %s %s\n", styles.Muted.Render("comparison:"), res.Comparison)
		if res.ResponseLatex != "" {
			r.Printf("  %s %s\n", styles.Muted.Render("response:"), styles.Code.Render(res.ResponseLatex))
		}
		if res.Feedback != "" {
			r.Println("")
			r.Println(res.Feedback)
		}
	}
}

package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/unitgrade/internal/cases"
	"github.com/leapstack-labs/unitgrade/internal/cli/output"
)

// ErrBatchFailed is returned when a case mismatches its expectation or
// has an authoring error.
var ErrBatchFailed = errors.New("batch failed")

// BatchOptions holds options for the batch command.
type BatchOptions struct {
	Jobs int
}

// NewBatchCommand creates the batch command.
func NewBatchCommand() *cobra.Command {
	opts := &BatchOptions{}
	cmd := &cobra.Command{
		Use:   "batch <cases.yaml>",
		Short: "Grade every case in a YAML file",
		Long: `Grade the cases of a YAML file concurrently and print a table and a
summary. A case may carry expect: true|false; the command fails when any
case disagrees with its expectation or cannot be graded.`,
		Example: `  unitgrade batch testdata/cases.yaml
  unitgrade batch cases.yaml --jobs 8 -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, args[0], opts)
		},
	}
	cmd.Flags().IntVarP(&opts.Jobs, "jobs", "j", 0, "Cases graded at once (default GOMAXPROCS)")
	return cmd
}

func runBatch(cmd *cobra.Command, path string, opts *BatchOptions) error {
	cc := NewCommandContext(cmd)
	f, err := cases.Load(path)
	if err != nil {
		return err
	}

	runner := &cases.Runner{
		Evaluator: cc.Evaluator,
		Params:    cc.Cfg.EvaluationParams,
		Jobs:      opts.Jobs,
		Logger:    cc.Logger,
	}
	outcomes, err := runner.Run(cmd.Context(), f)
	if err != nil {
		return err
	}
	summary := cases.Summarize(outcomes)
	renderBatch(cc.Renderer, outcomes, summary)

	if !summary.OK() {
		return fmt.Errorf("%w: %d mismatched, %d errors", ErrBatchFailed, summary.Mismatched, summary.Errors)
	}
	return nil
}

func renderBatch(r *output.Renderer, outcomes []cases.Outcome, s cases.Summary) {
	if r.EffectiveMode() == output.ModeJSON {
		_ = r.JSON(struct {
			Outcomes []cases.Outcome `json:"outcomes"`
			Summary  cases.Summary   `json:"summary"`
		}{outcomes, s})
		return
	}

	rows := make([][]string, len(outcomes))
	for i, o := range outcomes {
		verdict := "incorrect"
		switch {
		case o.Status == cases.StatusError:
			verdict = "-"
		case o.Preview != nil:
			verdict = o.Preview.Latex
		case o.Result.IsCorrect:
			verdict = "correct"
		}
		detail := o.Error
		if detail == "" {
			detail = firstLine(o.Result.Feedback)
		}
		rows[i] = []string{o.Case.Name, verdict, string(o.Status), detail}
	}
	r.Table([]string{"case", "verdict", "status", "detail"}, rows)
	r.Println("")

	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(output.FormatHeader(2, "Summary"))
		r.Println(output.FormatKeyValue("Cases", fmt.Sprint(s.Total)))
		r.Println(output.FormatKeyValue("Correct", fmt.Sprint(s.Correct)))
		r.Println(output.FormatKeyValue("Mismatched", fmt.Sprint(s.Mismatched)))
		r.Println(output.FormatKeyValue("Errors", fmt.Sprint(s.Errors)))
		return
	}
	line := fmt.Sprintf("%d cases, %d correct, %d mismatched, %d errors", s.Total, s.Correct, s.Mismatched, s.Errors)
	if s.OK() {
		r.Success(line)
	} else {
		r.Println(r.Styles().StatusFailed.String() + " " + r.Styles().Error.Render(line))
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

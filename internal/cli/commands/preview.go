package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/unitgrade/internal/cli/output"
	"github.com/leapstack-labs/unitgrade/pkg/grader"
)

// NewPreviewCommand creates the preview command.
func NewPreviewCommand() *cobra.Command {
	opts := &ParamOptions{}
	cmd := &cobra.Command{
		Use:   "preview <response>",
		Short: "Show how a response will be read",
		Long: `Render a response as LaTeX and as normalised text, the way the
evaluator reads it. Unreadable input is reported in the output rather
than as an error.`,
		Example: `  unitgrade preview "2 km/h" -p strict_syntax=false
  unitgrade preview '\frac{1}{2}\,\mathrm{kg}' -p is_latex=true`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			params, err := opts.Resolve(cc.Cfg)
			if err != nil {
				return err
			}
			p, err := cc.Evaluator.Preview(args[0], params)
			if err != nil {
				cc.Logger.Warn("authoring error", "error", err)
				return err
			}
			renderPreview(cc.Renderer, p)
			return nil
		},
	}
	AddParamFlags(cmd, opts)
	return cmd
}

func renderPreview(r *output.Renderer, p grader.PreviewResult) {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		_ = r.JSON(p)
	case output.ModeMarkdown:
		r.Println(output.FormatKeyValue("LaTeX", "`"+p.Latex+"`"))
		r.Println(output.FormatKeyValue("Normalized", "`"+p.Normalized+"`"))
	default:
		styles := r.Styles()
		r.Printf("%s %s\n", styles.Muted.Render("latex:     "), styles.Code.Render(p.Latex))
		r.Printf("%s %s\n", styles.Muted.Render("normalized:"), p.Normalized)
	}
}

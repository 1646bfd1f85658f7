package grader

import (
	"strings"

	"github.com/leapstack-labs/unitgrade/pkg/algebra"
	"github.com/leapstack-labs/unitgrade/pkg/compare"
	"github.com/leapstack-labs/unitgrade/pkg/units"
)

// PreviewResult shows how a response is read.
type PreviewResult struct {
	Latex      string `json:"latex" yaml:"latex"`
	Normalized string `json:"normalized" yaml:"normalized"`
}

// Preview renders response as it will be interpreted. Learner input never
// causes an error; an unparsable response is reported in Latex. Errors
// are authoring problems in params.
func (e *Evaluator) Preview(response string, params Params) (PreviewResult, error) {
	if err := params.Validate(); err != nil {
		return PreviewResult{}, err
	}
	pl, err := newPipeline(params)
	if err != nil {
		return PreviewResult{}, err
	}

	text, err := pl.prepareResponse(strings.TrimSpace(response))
	if err != nil {
		return failedPreview(response), nil
	}
	text = pl.normalize(text)
	if pl.shortForms() {
		text = units.ShortFormPass(pl.protect...).Apply(text)
	}

	var exprs []algebra.Expr
	if pl.mode == compare.BuckinghamPi {
		exprs, err = pl.parseGroups(text)
	} else {
		var ex algebra.Expr
		ex, err = pl.parse(text)
		exprs = []algebra.Expr{ex}
	}
	if err != nil {
		e.logger.Debug("preview parse failed", "text", text, "error", err)
		return failedPreview(text), nil
	}

	opts := algebra.LatexOptions{}
	if len(pl.quantities) == 0 {
		// Unit expressions keep the order they were written in, with every
		// symbol upright.
		opts.Ordered = true
		opts.SymbolNames = map[string]string{}
		for _, ex := range exprs {
			for name := range algebra.FreeSymbols(ex) {
				opts.SymbolNames[name] = `~\mathrm{` + name + `}`
			}
		}
	}
	normalized := make([]string, len(exprs))
	for i, ex := range exprs {
		normalized[i] = algebra.Simplify(ex).String()
	}
	return PreviewResult{
		Latex:      groupsLatex(exprs, opts),
		Normalized: strings.Join(normalized, ", "),
	}, nil
}

func failedPreview(text string) PreviewResult {
	return PreviewResult{
		Latex:      "Failed to parse expression: `" + text + "`",
		Normalized: text,
	}
}

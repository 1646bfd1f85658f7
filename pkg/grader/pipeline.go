package grader

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/leapstack-labs/unitgrade/pkg/algebra"
	"github.com/leapstack-labs/unitgrade/pkg/buckingham"
	"github.com/leapstack-labs/unitgrade/pkg/compare"
	"github.com/leapstack-labs/unitgrade/pkg/latex"
	"github.com/leapstack-labs/unitgrade/pkg/parser"
	"github.com/leapstack-labs/unitgrade/pkg/substitute"
	"github.com/leapstack-labs/unitgrade/pkg/units"
)

// pipeline is the per-call rewrite and parse setup shared by Evaluate and
// Preview. It is built from Params and the shared registry and never
// outlives the call.
type pipeline struct {
	params Params
	mode   compare.Mode

	inputs     *substitute.Pass // input symbol aliases to their symbol
	aliases    *substitute.Pass // unit spellings and "per"; nil when skipped
	quantities substitute.Chain
	custom     substitute.Chain
	protect    []string
	opts       parser.Options
}

func newPipeline(p Params) (*pipeline, error) {
	pl := &pipeline{params: p, mode: p.Mode()}

	var inputRules []substitute.Rule
	for _, s := range p.InputSymbols {
		pl.protect = append(pl.protect, s.Symbol)
		for _, a := range s.Aliases {
			inputRules = append(inputRules, substitute.Rule{Pattern: a, Replacement: s.Symbol})
		}
	}
	pl.inputs = substitute.NewPass(inputRules...)

	opts := parser.Options{ComplexNumbers: p.ComplexNumbers, SpecialFunctions: p.SpecialFunctions}
	pl.protect = append(pl.protect, parser.ReservedNames(opts)...)

	if p.Quantities != "" {
		chain, err := substitute.Parse(p.Quantities)
		if err != nil {
			return nil, substitutionsError("quantities", err)
		}
		pl.quantities = chain
	}
	if len(p.Substitutions) > 0 {
		chain, err := substitute.ParseAll(p.Substitutions)
		if err != nil {
			return nil, substitutionsError("substitutions", err)
		}
		pl.custom = chain
	}

	if len(pl.custom) == 0 && pl.mode != compare.BuckinghamPi {
		rules := make([]substitute.Rule, 0, len(pl.protect)+1)
		for _, s := range p.InputSymbols {
			rules = append(rules, substitute.Identity(s.Symbol))
		}
		rules = append(rules, units.AliasRules()...)
		if !p.declaresPer() {
			rules = append(rules, substitute.Rule{Pattern: " per ", Replacement: "/"})
		}
		pl.aliases = substitute.NewPass(rules...)
	}

	unsplittable := map[string]struct{}{}
	if len(pl.custom) == 0 {
		for _, name := range units.Names() {
			unsplittable[name] = struct{}{}
		}
	}
	for _, s := range p.InputSymbols {
		unsplittable[s.Symbol] = struct{}{}
	}
	for _, name := range pl.quantitySymbols() {
		unsplittable[name] = struct{}{}
	}
	opts.Unsplittable = unsplittable
	opts.Relaxed = !p.Strict() || p.IsLatex
	pl.opts = opts
	return pl, nil
}

func (pl *pipeline) quantitySymbols() []string {
	var out []string
	for _, pass := range pl.quantities {
		for _, r := range pass.Rules() {
			out = append(out, r.Pattern)
		}
	}
	return out
}

// shortForms reports whether short unit symbols are expanded.
func (pl *pipeline) shortForms() bool {
	return len(pl.custom) == 0 && len(pl.quantities) == 0 &&
		!pl.params.ElementaryFunctions && pl.mode != compare.BuckinghamPi
}

// conversion returns the chain that runs after normalisation.
func (pl *pipeline) conversion() substitute.Chain {
	if pl.mode == compare.BuckinghamPi {
		return nil
	}
	chain := append(substitute.Chain(nil), pl.quantities...)
	if len(pl.custom) > 0 {
		chain = append(chain, pl.custom...)
		if pl.mode == compare.Dimensions {
			chain = append(chain, units.BaseToDimensions(pl.protect...)...)
		}
		return chain
	}
	if pl.shortForms() {
		chain = append(chain, units.ShortFormPass(pl.protect...))
	}
	if pl.mode == compare.Dimensions {
		return append(chain, units.ToDimensions(pl.protect...)...)
	}
	return append(chain, units.ToSIBaseUnits(pl.protect...)...)
}

// normalize applies unicode normalisation, input symbol aliases and unit
// spellings.
func (pl *pipeline) normalize(text string) string {
	text = strings.TrimSpace(norm.NFC.String(text))
	text = pl.inputs.Apply(text)
	if pl.aliases != nil {
		text = strings.TrimSuffix(pl.aliases.Apply(text+" "), " ")
	}
	return text
}

// prepareResponse converts LaTeX input to plain text.
func (pl *pipeline) prepareResponse(text string) (string, error) {
	if !pl.params.IsLatex {
		return text, nil
	}
	out, err := latex.ToText(text)
	if err != nil {
		return "", &ResponseError{Op: "read latex", Err: err}
	}
	return out, nil
}

func (pl *pipeline) parse(text string) (algebra.Expr, error) {
	return parser.Parse(text, pl.opts)
}

// parseGroups parses a comma separated list of groups.
func (pl *pipeline) parseGroups(text string) ([]algebra.Expr, error) {
	var out []algebra.Expr
	for _, g := range buckingham.SplitGroups(text) {
		e, err := pl.parse(g)
		if err != nil {
			return nil, fmt.Errorf("group %q: %w", g, err)
		}
		out = append(out, e)
	}
	return out, nil
}

// dimensions resolves every quantity to an expression over dimension
// names. Quantities may be given in units or in dimensions.
func (pl *pipeline) dimensions() ([]buckingham.Quantity, error) {
	toDims := units.ToDimensions(pl.protect...)
	var out []buckingham.Quantity
	for _, pass := range pl.quantities {
		for _, r := range pass.Rules() {
			e, err := parser.Parse(toDims.Apply(r.Replacement), pl.opts)
			if err != nil {
				return nil, fmt.Errorf("quantity %s: %w", r.Pattern, err)
			}
			out = append(out, buckingham.Quantity{Symbol: r.Pattern, Dimension: e})
		}
	}
	return out, nil
}

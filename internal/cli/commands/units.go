package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/unitgrade/internal/cli/output"
	"github.com/leapstack-labs/unitgrade/pkg/units"
)

// UnitsOptions holds options for the units command.
type UnitsOptions struct {
	Tier string
}

// unitRow is the JSON form of a registry entry.
type unitRow struct {
	Tier       string   `json:"tier"`
	Name       string   `json:"name"`
	Symbol     string   `json:"symbol,omitempty"`
	Conversion string   `json:"conversion"`
	Aliases    []string `json:"aliases,omitempty"`
}

// NewUnitsCommand creates the units command.
func NewUnitsCommand() *cobra.Command {
	opts := &UnitsOptions{}
	tierNames := make([]string, 0, len(units.Tiers()))
	for _, t := range units.Tiers() {
		tierNames = append(tierNames, t.String())
	}

	cmd := &cobra.Command{
		Use:   "units",
		Short: "List the unit registry",
		Long: `List the prefixes, units and dimensions the evaluator knows, with
their short symbols, conversions and accepted spellings.`,
		Example: `  unitgrade units
  unitgrade units --tier derived
  unitgrade units -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tiers := units.Tiers()
			if opts.Tier != "" {
				t, ok := units.ParseTier(opts.Tier)
				if !ok {
					return fmt.Errorf("unknown tier %q (want one of %s)", opts.Tier, strings.Join(tierNames, ", "))
				}
				tiers = []units.Tier{t}
			}
			return listUnits(NewCommandContext(cmd).Renderer, tiers)
		},
	}
	cmd.Flags().StringVar(&opts.Tier, "tier", "", "Only list one tier: "+strings.Join(tierNames, ", "))
	_ = cmd.RegisterFlagCompletionFunc("tier", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return tierNames, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func listUnits(r *output.Renderer, tiers []units.Tier) error {
	if r.EffectiveMode() == output.ModeJSON {
		var rows []unitRow
		for _, t := range tiers {
			for _, e := range units.Entries(t) {
				rows = append(rows, unitRow{
					Tier: t.String(), Name: e.Name, Symbol: e.Symbol,
					Conversion: e.Conversion, Aliases: e.Aliases,
				})
			}
		}
		return r.JSON(rows)
	}

	title := cases.Title(language.English)
	for i, t := range tiers {
		if i > 0 {
			r.Println("")
		}
		r.Header(2, title.String(strings.ReplaceAll(t.String(), "-", " ")))
		entries := units.Entries(t)
		rows := make([][]string, len(entries))
		for j, e := range entries {
			rows[j] = []string{e.Name, e.Symbol, e.Conversion, strings.Join(e.Aliases, ", ")}
		}
		r.Table([]string{"name", "symbol", "conversion", "aliases"}, rows)
	}
	return nil
}

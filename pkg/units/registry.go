// Package units holds the static unit and dimension registry and the
// substitution rule sets generated from it.
//
// The tables are built once per process and shared read-only. Rule sets
// that depend on caller names (input symbols that must not be rewritten)
// are assembled per call from the shared tables.
package units

import (
	"sort"
	"sync"

	"github.com/leapstack-labs/unitgrade/pkg/substitute"
)

type registry struct {
	tiers  map[Tier][]Entry
	byName map[string]Entry
	names  []string // canonical names and dimension names, sorted

	aliases    []substitute.Rule
	protect    []substitute.Rule
	collisions []substitute.Rule
	shortForms []substitute.Rule
	shortPass  *substitute.Pass

	// Conversion passes in application order: very common and common
	// units, derived units, prefixes, then base units to dimensions.
	passes [][]substitute.Rule
	owners []map[string]bool
}

var load = sync.OnceValue(build)

func build() *registry {
	r := &registry{
		tiers: map[Tier][]Entry{
			TierPrefix:     withTier(prefixes, TierPrefix),
			TierBase:       withTier(baseUnits, TierBase),
			TierDerived:    withTier(derivedUnits, TierDerived),
			TierVeryCommon: withTier(veryCommonUnits, TierVeryCommon),
			TierCommon:     withTier(commonUnits, TierCommon),
		},
		byName: make(map[string]Entry),
	}
	for _, t := range Tiers() {
		for _, e := range r.tiers[t] {
			r.byName[e.Name] = e
			r.names = append(r.names, e.Name)
		}
	}
	r.names = append(r.names, Dimensions()...)
	sort.Strings(r.names)

	for _, name := range r.names {
		r.protect = append(r.protect, substitute.Identity(name))
	}
	for _, t := range Tiers() {
		for _, e := range r.tiers[t] {
			if t == TierPrefix {
				continue
			}
			for _, alias := range e.Aliases {
				r.aliases = append(r.aliases, substitute.Rule{Pattern: alias, Replacement: e.Name})
			}
		}
	}
	r.aliases = append(append([]substitute.Rule(nil), r.protect...), r.aliases...)
	for _, e := range r.tiers[TierPrefix] {
		for _, alias := range e.Aliases {
			r.aliases = append(r.aliases, substitute.Rule{Pattern: alias, Replacement: e.Name})
		}
	}

	short := r.shortFormUnits()
	for _, p := range r.tiers[TierPrefix] {
		for _, u := range short {
			repl := p.Name + "*(" + u.Name + ")"
			r.collisions = append(r.collisions,
				substitute.Rule{Pattern: p.Symbol + u.Symbol, Replacement: repl},
				substitute.Rule{Pattern: p.Symbol + "*" + u.Symbol, Replacement: repl},
				substitute.Rule{Pattern: p.Symbol + " " + u.Symbol, Replacement: repl},
			)
		}
	}
	for _, u := range short {
		r.shortForms = append(r.shortForms, substitute.Rule{Pattern: u.Symbol, Replacement: u.Name})
	}
	r.shortPass = substitute.NewPass(r.shortFormRules()...)

	units := append(append([]Entry(nil), r.tiers[TierVeryCommon]...), r.tiers[TierCommon]...)
	r.addPass(conversionRules(units))
	r.addPass(conversionRules(r.tiers[TierDerived]))
	r.addPass(prefixRules(r.tiers[TierPrefix], r.tiers[TierBase]))
	r.addPass(conversionRules(r.tiers[TierBase]))
	return r
}

func withTier(entries []Entry, t Tier) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		e.Tier = t
		e.Aliases = append([]string(nil), e.Aliases...)
		out[i] = e
	}
	return out
}

// shortFormUnits returns the units whose short symbols are enabled.
func (r *registry) shortFormUnits() []Entry {
	var out []Entry
	for _, t := range []Tier{TierBase, TierDerived, TierVeryCommon} {
		out = append(out, r.tiers[t]...)
	}
	return out
}

func (r *registry) shortFormRules() []substitute.Rule {
	rules := make([]substitute.Rule, 0, len(r.protect)+len(r.collisions)+len(r.shortForms))
	rules = append(rules, r.protect...)
	rules = append(rules, r.collisions...)
	return append(rules, r.shortForms...)
}

func (r *registry) addPass(rules []substitute.Rule) {
	owned := make(map[string]bool, len(rules))
	for _, rule := range rules {
		owned[rule.Pattern] = true
	}
	r.passes = append(r.passes, rules)
	r.owners = append(r.owners, owned)
}

func conversionRules(entries []Entry) []substitute.Rule {
	rules := make([]substitute.Rule, len(entries))
	for i, e := range entries {
		rules[i] = substitute.Rule{Pattern: e.Name, Replacement: e.Conversion}
	}
	return rules
}

// prefixRules turns each prefix into its factor. A prefix glued to a base
// unit or to a bracketed conversion (kilometre, kilo(...)) gets an
// explicit product so the result parses under strict syntax.
func prefixRules(prefixes, base []Entry) []substitute.Rule {
	glue := []string{"("}
	for _, b := range base {
		glue = append(glue, b.Name)
	}
	rules := make([]substitute.Rule, 0, 2*len(prefixes))
	for _, p := range prefixes {
		rules = append(rules,
			substitute.Rule{Pattern: p.Name, Replacement: p.Conversion + "*", Lookahead: glue},
			substitute.Rule{Pattern: p.Name, Replacement: p.Conversion},
		)
	}
	return rules
}

// chain builds the conversion passes from..to, each protected against
// names owned by other passes and against the extra names.
func (r *registry) chain(from, to int, protect []string) substitute.Chain {
	chain := make(substitute.Chain, 0, to-from)
	for i := from; i < to; i++ {
		rules := make([]substitute.Rule, 0, len(r.names)+len(protect)+len(r.passes[i]))
		for _, name := range r.names {
			if !r.owners[i][name] {
				rules = append(rules, substitute.Identity(name))
			}
		}
		for _, name := range protect {
			rules = append(rules, substitute.Identity(name))
		}
		// Identity rules go first so they win ties with conversions of the
		// same length.
		rules = append(rules, r.passes[i]...)
		chain = append(chain, substitute.NewPass(rules...))
	}
	return chain
}

// Dimensions returns the dimension names in base unit order.
func Dimensions() []string {
	return []string{Length, Mass, Time, ElectricCurrent, Temperature, AmountOfSubstance, LuminousIntensity}
}

// Entries returns a copy of one tier's table.
func Entries(t Tier) []Entry {
	return withTier(load().tiers[t], t)
}

// Lookup finds an entry by canonical name.
func Lookup(name string) (Entry, bool) {
	e, ok := load().byName[name]
	return e, ok
}

// Names returns every canonical unit, prefix and dimension name, sorted.
// These are the names the relaxed parser must never split.
func Names() []string {
	return append([]string(nil), load().names...)
}

// AliasRules rewrites plural and alternative spellings to canonical
// names. Canonical names are protected so that e.g. "ampere" is not read
// through a shorter alias.
func AliasRules() []substitute.Rule {
	return append([]substitute.Rule(nil), load().aliases...)
}

// ProtectCanonicalForms returns identity rules for every canonical and
// dimension name.
func ProtectCanonicalForms() []substitute.Rule {
	return append([]substitute.Rule(nil), load().protect...)
}

// CollisionFixes rewrites prefix and unit symbol pairs in each spelling
// (km, k*m, k m) to the prefix name times the unit name.
func CollisionFixes() []substitute.Rule {
	return append([]substitute.Rule(nil), load().collisions...)
}

// ShortFormExpansion rewrites enabled short symbols to canonical names.
func ShortFormExpansion() []substitute.Rule {
	return append([]substitute.Rule(nil), load().shortForms...)
}

// ShortFormPass returns the single pass that expands short symbols,
// with extra names (input symbols, function names) protected.
func ShortFormPass(protect ...string) *substitute.Pass {
	r := load()
	if len(protect) == 0 {
		return r.shortPass
	}
	rules := make([]substitute.Rule, 0, len(protect)+r.shortPass.Len())
	for _, name := range protect {
		rules = append(rules, substitute.Identity(name))
	}
	return substitute.NewPass(append(rules, r.shortFormRules()...)...)
}

// ToSIBaseUnits returns the chain that rewrites canonical unit names to
// SI base units with numeric prefix factors.
func ToSIBaseUnits(protect ...string) substitute.Chain {
	r := load()
	return r.chain(0, len(r.passes)-1, protect)
}

// ToDimensions returns the chain that rewrites canonical unit names all
// the way to dimension names.
func ToDimensions(protect ...string) substitute.Chain {
	r := load()
	return r.chain(0, len(r.passes), protect)
}

// BaseToDimensions returns the last pass of ToDimensions on its own.
func BaseToDimensions(protect ...string) substitute.Chain {
	r := load()
	return r.chain(len(r.passes)-1, len(r.passes), protect)
}

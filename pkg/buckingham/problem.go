package buckingham

import (
	"fmt"
	"sort"
	"strings"
)

// =============================================================================
// Feedback keys
// =============================================================================

// Key identifies a feedback message.
type Key string

// Feedback keys. Placeholders available to each template are listed next
// to the key.
const (
	Valid                   Key = "VALID"
	NotDimensionless        Key = "NOT_DIMENSIONLESS"          // {groups}
	MoreGroupsThanReference Key = "MORE_GROUPS_THAN_REFERENCE" // {n} {needed}
	GroupsNotIndependent    Key = "GROUPS_NOT_INDEPENDENT"     // {who} {rank} {n}
	TooFewIndependentGroups Key = "TOO_FEW_INDEPENDENT_GROUPS" // {who} {rank} {needed}
	UnknownSymbol           Key = "UNKNOWN_SYMBOL"             // {symbols}
	SumWithIndependentTerms Key = "SUM_WITH_INDEPENDENT_TERMS" // {which}
	NotPowerProduct         Key = "NOT_POWER_PRODUCT"          // {who} {groups}
	NotEquivalent           Key = "NOT_EQUIVALENT"
)

var defaultTemplates = map[Key]string{
	Valid:                   "The response is a valid set of groups.",
	NotDimensionless:        "The following groups are not dimensionless: {groups}.",
	MoreGroupsThanReference: "The response has {n} groups but the answer only has {needed}.",
	GroupsNotIndependent:    "The groups in the {who} are not independent: there are {n} groups but only {rank} of them are independent.",
	TooFewIndependentGroups: "The {who} contains {rank} independent groups but at least {needed} are needed.",
	UnknownSymbol:           "The response contains symbols that do not occur in the answer: {symbols}.",
	SumWithIndependentTerms: "The {which} contains sums of independent terms. Write each group as a product of powers.",
	NotPowerProduct:         "The {who} contains a group that is not a product of powers: {groups}.",
	NotEquivalent:           "The response groups cannot be combined into the groups of the answer.",
}

// Keys returns every feedback key in sorted order.
func Keys() []Key {
	keys := make([]Key, 0, len(defaultTemplates))
	for k := range defaultTemplates {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// IsKey reports whether s names a feedback key.
func IsKey(s string) bool {
	_, ok := defaultTemplates[Key(s)]
	return ok
}

// =============================================================================
// Catalogue
// =============================================================================

// Catalogue maps feedback keys to message templates. The zero value uses
// the default templates.
type Catalogue struct {
	overrides map[Key]string
}

// NewCatalogue returns a catalogue with the given templates replacing the
// defaults. Unknown keys are an error.
func NewCatalogue(overrides map[string]string) (Catalogue, error) {
	c := Catalogue{overrides: make(map[Key]string, len(overrides))}
	for k, tmpl := range overrides {
		if !IsKey(k) {
			return Catalogue{}, fmt.Errorf("unknown feedback key %q", k)
		}
		c.overrides[Key(k)] = tmpl
	}
	return c, nil
}

// Template returns the template used for key.
func (c Catalogue) Template(key Key) string {
	if t, ok := c.overrides[key]; ok {
		return t
	}
	return defaultTemplates[key]
}

// Render fills the template for key. args holds placeholder/value pairs
// without braces.
func (c Catalogue) Render(key Key, args ...string) string {
	tmpl := c.Template(key)
	if len(args) == 0 {
		return tmpl
	}
	pairs := make([]string, 0, len(args))
	for i := 0; i+1 < len(args); i += 2 {
		pairs = append(pairs, "{"+args[i]+"}", args[i+1])
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

// =============================================================================
// Problem
// =============================================================================

// Side tells which input a problem was found in.
type Side int

const (
	// SideAnswer problems are authoring errors.
	SideAnswer Side = iota
	// SideResponse problems make the response incorrect.
	SideResponse
)

// String returns "answer" or "response".
func (s Side) String() string {
	if s == SideAnswer {
		return "answer"
	}
	return "response"
}

// Problem is a validation failure with its rendered message.
type Problem struct {
	Key     Key
	Side    Side
	Message string
}

func (p *Problem) Error() string {
	return p.Message
}

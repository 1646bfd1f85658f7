package grader

import (
	"fmt"
	"maps"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"

	"github.com/leapstack-labs/unitgrade/pkg/buckingham"
	"github.com/leapstack-labs/unitgrade/pkg/compare"
)

// InputSymbol is a symbol the learner may type, with alternative spellings
// that are rewritten to it.
type InputSymbol struct {
	Symbol  string   `mapstructure:"symbol" json:"symbol" yaml:"symbol" validate:"required,excludesall=*()/+^"`
	Aliases []string `mapstructure:"aliases" json:"aliases,omitempty" yaml:"aliases,omitempty" validate:"dive,required"`
}

// Params configures one evaluation.
type Params struct {
	// Comparison is the comparison mode; empty means expression.
	Comparison string `mapstructure:"comparison" json:"comparison,omitempty" yaml:"comparison,omitempty" validate:"omitempty,oneof=expression expressionExact dimensions buckinghamPi"`
	// Substitutions replace the default unit conversion. Each entry may
	// hold several passes separated by '|'.
	Substitutions []string `mapstructure:"substitutions" json:"substitutions,omitempty" yaml:"substitutions,omitempty"`
	// Quantities are rules from a symbol to its quantity expression,
	// applied before any other substitution.
	Quantities string `mapstructure:"quantities" json:"quantities,omitempty" yaml:"quantities,omitempty"`
	// Atol and Rtol are decimal tolerances; empty means unset.
	Atol string `mapstructure:"atol" json:"atol,omitempty" yaml:"atol,omitempty" validate:"omitempty,tolerance"`
	Rtol string `mapstructure:"rtol" json:"rtol,omitempty" yaml:"rtol,omitempty" validate:"omitempty,tolerance"`
	// StrictSyntax defaults to true.
	StrictSyntax        *bool         `mapstructure:"strict_syntax" json:"strict_syntax,omitempty" yaml:"strict_syntax,omitempty"`
	InputSymbols        []InputSymbol `mapstructure:"input_symbols" json:"input_symbols,omitempty" yaml:"input_symbols,omitempty" validate:"dive"`
	ElementaryFunctions bool          `mapstructure:"elementary_functions" json:"elementary_functions,omitempty" yaml:"elementary_functions,omitempty"`
	ComplexNumbers      bool          `mapstructure:"complexNumbers" json:"complexNumbers,omitempty" yaml:"complexNumbers,omitempty"`
	SpecialFunctions    bool          `mapstructure:"specialFunctions" json:"specialFunctions,omitempty" yaml:"specialFunctions,omitempty"`
	IsLatex             bool          `mapstructure:"is_latex" json:"is_latex,omitempty" yaml:"is_latex,omitempty"`
	// CustomFeedback overrides feedback templates by key.
	CustomFeedback map[string]string `mapstructure:"custom_feedback" json:"custom_feedback,omitempty" yaml:"custom_feedback,omitempty" validate:"dive,keys,feedbackkey,endkeys"`
}

// Strict reports whether strict syntax is in effect.
func (p Params) Strict() bool {
	return p.StrictSyntax == nil || *p.StrictSyntax
}

// Mode returns the comparison mode. Params must have been validated.
func (p Params) Mode() compare.Mode {
	m, _ := compare.ParseMode(p.Comparison)
	return m
}

// Tolerance parses the tolerances.
func (p Params) Tolerance() (compare.Tolerance, error) {
	atol, err := compare.ParseTolerance(p.Atol)
	if err != nil {
		return compare.Tolerance{}, fmt.Errorf("atol: %w", err)
	}
	rtol, err := compare.ParseTolerance(p.Rtol)
	if err != nil {
		return compare.Tolerance{}, fmt.Errorf("rtol: %w", err)
	}
	return compare.Tolerance{Atol: atol, Rtol: rtol}, nil
}

// declaresPer reports whether "per" is an input symbol or alias, in which
// case it is not read as division.
func (p Params) declaresPer() bool {
	for _, s := range p.InputSymbols {
		if s.Symbol == "per" {
			return true
		}
		for _, a := range s.Aliases {
			if a == "per" {
				return true
			}
		}
	}
	return false
}

// Validate checks the struct tags.
func (p Params) Validate() error {
	if err := validate().Struct(p); err != nil {
		return authoring("validate params", err)
	}
	return nil
}

var validate = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("tolerance", func(fl validator.FieldLevel) bool {
		_, err := compare.ParseTolerance(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("feedbackkey", func(fl validator.FieldLevel) bool {
		return buckingham.IsKey(fl.Field().String())
	})
	return v
})

// =============================================================================
// Decoding
// =============================================================================

// DecodeParams decodes loosely typed parameters, as sent by a grading host
// or read from YAML, and validates them. Numbers and numeric strings are
// interchangeable.
func DecodeParams(raw map[string]any) (Params, error) {
	var p Params
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &p,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			stringListHook,
			inputSymbolsHook,
			inputSymbolHook,
		),
	})
	if err != nil {
		return Params{}, authoring("decode params", err)
	}
	if err := dec.Decode(raw); err != nil {
		return Params{}, authoring("decode params", err)
	}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

// MergeParams overlays override on base one key deep. Nested maps such as
// custom_feedback are merged key by key.
func MergeParams(base, override map[string]any) map[string]any {
	out := maps.Clone(base)
	if out == nil {
		out = map[string]any{}
	}
	for k, v := range override {
		bm, ok1 := out[k].(map[string]any)
		om, ok2 := v.(map[string]any)
		if ok1 && ok2 {
			merged := maps.Clone(bm)
			maps.Copy(merged, om)
			out[k] = merged
			continue
		}
		out[k] = v
	}
	return out
}

var (
	stringSliceType  = reflect.TypeOf([]string(nil))
	inputSymbolType  = reflect.TypeOf(InputSymbol{})
	inputSymbolsType = reflect.TypeOf([]InputSymbol(nil))
)

// stringListHook accepts a single string where a list of strings is
// expected.
func stringListHook(from, to reflect.Type, data any) (any, error) {
	if to != stringSliceType || from.Kind() != reflect.String {
		return data, nil
	}
	return []string{data.(string)}, nil
}

// inputSymbolsHook accepts "a, b c" and a single [symbol, aliases] pair
// where a list of input symbols is expected.
func inputSymbolsHook(from, to reflect.Type, data any) (any, error) {
	if to != inputSymbolsType {
		return data, nil
	}
	switch from.Kind() {
	case reflect.String:
		fields := strings.FieldsFunc(data.(string), func(r rune) bool {
			return r == ',' || r == ' '
		})
		out := make([]any, len(fields))
		for i, f := range fields {
			out[i] = f
		}
		return out, nil
	case reflect.Slice:
		if items, ok := data.([]any); ok && isPair(items) {
			return []any{items}, nil
		}
	}
	return data, nil
}

// inputSymbolHook accepts a bare symbol or a [symbol, aliases] pair where
// one input symbol is expected.
func inputSymbolHook(from, to reflect.Type, data any) (any, error) {
	if to != inputSymbolType {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		return map[string]any{"symbol": v}, nil
	case []any:
		if !isPair(v) {
			return nil, fmt.Errorf("input symbol %v: expected [symbol, [aliases]]", v)
		}
		return map[string]any{"symbol": v[0], "aliases": v[1]}, nil
	case []string:
		if len(v) == 0 {
			return nil, fmt.Errorf("empty input symbol")
		}
		return map[string]any{"symbol": v[0], "aliases": v[1:]}, nil
	}
	return data, nil
}

// isPair reports whether items has the shape [symbol, [aliases...]].
func isPair(items []any) bool {
	if len(items) != 2 {
		return false
	}
	if _, ok := items[0].(string); !ok {
		return false
	}
	switch aliases := items[1].(type) {
	case []string:
		return true
	case []any:
		for _, a := range aliases {
			if _, ok := a.(string); !ok {
				return false
			}
		}
		return true
	}
	return false
}

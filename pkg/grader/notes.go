package grader

import (
	"regexp"
	"strings"
)

// Advisory notes. They are appended to feedback and never change the
// verdict.
const (
	NoteCaret = "Note that `^` is read as exponentiation here; `**` is the preferred notation."
	NotePer   = "Note that `per` only places the factor directly after it in the denominator. " +
		"Use parentheses, e.g. `kilogram/(metre*second)`, to divide by a product."
)

// perProduct matches "per" followed by at least two factors written as an
// implicit product, as in "kg per m s".
var perProduct = regexp.MustCompile(`(^|\s)per\s+[^\s*/+\-()]+\s+[\pL(]`)

// advisories inspects the response text before any rewriting.
func advisories(response string, pl *pipeline) []string {
	var notes []string
	if !pl.params.Strict() && !pl.params.IsLatex && strings.Contains(response, "^") {
		notes = append(notes, NoteCaret)
	}
	if pl.aliases != nil && !pl.params.declaresPer() && perProduct.MatchString(response) {
		notes = append(notes, NotePer)
	}
	return notes
}

// appendNotes joins feedback and notes with blank lines.
func appendNotes(feedback string, notes ...string) string {
	parts := make([]string, 0, len(notes)+1)
	if feedback != "" {
		parts = append(parts, feedback)
	}
	parts = append(parts, notes...)
	return strings.Join(parts, "\n\n")
}

package analysis

import (
	"strings"

	"github.com/hyperjump/clausewise/internal/models"
	"github.com/hyperjump/clausewise/internal/rules"
)

// Classify returns the first classification rule matching the clause, or
// General when none does.
func Classify(clause string, classes []rules.ClassRule) models.ClauseType {
	t := strings.ToLower(clause)
	for _, c := range classes {
		if rules.ContainsAny(t, c.Any) {
			return c.Type
		}
	}
	return models.ClauseGeneral
}

// DetectAmbiguity returns the vague qualifiers present in the clause, in the
// order of terms.
func DetectAmbiguity(clause string, terms []string) []string {
	t := strings.ToLower(clause)
	found := []string{}
	for _, term := range terms {
		if strings.Contains(t, term) {
			found = append(found, term)
		}
	}
	return found
}

// SuggestMitigations returns one advice line per (risk statement, matching
// rule) pair, following risk order and then rule order.
func SuggestMitigations(risks []string, mitigations []rules.MitigationRule) []string {
	out := []string{}
	for _, risk := range risks {
		r := strings.ToLower(risk)
		for _, m := range mitigations {
			if strings.Contains(r, m.Keyword) {
				out = append(out, m.Advice)
			}
		}
	}
	return out
}

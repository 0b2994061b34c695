package analysis

import (
	"strings"

	"github.com/hyperjump/clausewise/internal/models"
	"github.com/hyperjump/clausewise/internal/rules"
)

// DetectRisks runs every risk rule against the clause and returns the
// statements of those that matched, in rule order.
func DetectRisks(clause string, risks []rules.RiskRule) []string {
	t := strings.ToLower(clause)
	out := []string{}
	for _, r := range risks {
		if r.Matches(t) {
			out = append(out, r.Statement)
		}
	}
	return out
}

// ScoreRisks maps the number of risk statements to a severity.
func ScoreRisks(risks []string) models.Severity {
	switch len(risks) {
	case 0:
		return models.SeverityLow
	case 1:
		return models.SeverityMedium
	default:
		return models.SeverityHigh
	}
}

// ExplainRisks returns a one-sentence explanation of the clause risk.
func ExplainRisks(risks []string) string {
	if len(risks) == 0 {
		return "This clause is standard and low risk."
	}
	return "This clause may be risky because: " + strings.Join(risks, " ")
}

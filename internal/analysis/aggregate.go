package analysis

import (
	"strings"

	"github.com/hyperjump/clausewise/internal/models"
	"github.com/hyperjump/clausewise/internal/rules"
)

// Thresholds on the number of High-severity clauses.
const (
	highRiskThreshold   = 3
	mediumRiskThreshold = 1
)

// ClassifyContract returns the contract type of the first matching rule, or
// fallback.
func ClassifyContract(text string, types []rules.ContractTypeRule, fallback models.ContractType) models.ContractType {
	t := strings.ToLower(text)
	for _, ct := range types {
		if rules.ContainsAny(t, ct.Any) {
			return ct.Type
		}
	}
	return fallback
}

// OverallRisk maps the count of High-severity clauses to a document risk.
func OverallRisk(highRiskClauses int) models.OverallRisk {
	switch {
	case highRiskClauses >= highRiskThreshold:
		return models.OverallHigh
	case highRiskClauses >= mediumRiskThreshold:
		return models.OverallMedium
	default:
		return models.OverallLow
	}
}

// Summarize builds the contract summary from clause analyses.
func Summarize(contractType models.ContractType, language string, clauses []models.ClauseAnalysis) models.ContractSummary {
	high := 0
	for _, c := range clauses {
		if c.Severity == models.SeverityHigh {
			high++
		}
	}
	return models.ContractSummary{
		ContractType:    contractType,
		Language:        language,
		TotalClauses:    len(clauses),
		HighRiskClauses: high,
		OverallRisk:     OverallRisk(high),
	}
}

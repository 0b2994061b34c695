package models

import (
	"fmt"
	"time"
)

// OverallRisk is the document-level risk label.
type OverallRisk string

const (
	OverallLow    OverallRisk = "LOW RISK"
	OverallMedium OverallRisk = "MEDIUM RISK"
	OverallHigh   OverallRisk = "HIGH RISK"
)

// ContractSummary aggregates the clause analyses of one document.
type ContractSummary struct {
	ContractType    ContractType `json:"contract_type"`
	Language        string       `json:"language"`
	TotalClauses    int          `json:"total_clauses"`
	HighRiskClauses int          `json:"high_risk_clauses"`
	OverallRisk     OverallRisk  `json:"overall_risk"`
}

// Report is the full result of analyzing one document.
type Report struct {
	Document *Document        `json:"document"`
	Summary  ContractSummary  `json:"summary"`
	Clauses  []ClauseAnalysis `json:"clauses"`
	Entities Entities         `json:"entities"`
}

// SummaryLines returns the summary as plain lines, without any list markers,
// so each surface can format them its own way.
func (r *Report) SummaryLines() []string {
	s := r.Summary
	return []string{
		fmt.Sprintf("Contract Type: %s", s.ContractType),
		fmt.Sprintf("Language: %s", LanguageLabel(s.Language)),
		fmt.Sprintf("Overall Risk Level: %s", s.OverallRisk),
		fmt.Sprintf("Total Clauses: %d", s.TotalClauses),
		fmt.Sprintf("High-Risk Clauses: %d", s.HighRiskClauses),
	}
}

// ReportInfo is the listing view of a stored report.
type ReportInfo struct {
	ID              string       `json:"id"`
	FileName        string       `json:"file_name"`
	Language        string       `json:"language"`
	ContractType    ContractType `json:"contract_type"`
	OverallRisk     OverallRisk  `json:"overall_risk"`
	TotalClauses    int          `json:"total_clauses"`
	HighRiskClauses int          `json:"high_risk_clauses"`
	CreatedAt       time.Time    `json:"created_at"`
}

// AuditEntry is one line of the append-only audit log.
type AuditEntry struct {
	Timestamp    string       `json:"timestamp"`
	ContractType ContractType `json:"contract_type"`
	OverallRisk  OverallRisk  `json:"overall_risk"`
}

// NewAuditEntry builds the audit record for a report at time t.
func NewAuditEntry(r *Report, t time.Time) AuditEntry {
	return AuditEntry{
		Timestamp:    t.Format(time.RFC3339),
		ContractType: r.Summary.ContractType,
		OverallRisk:  r.Summary.OverallRisk,
	}
}

package models

// ClauseType is the obligation category of a clause.
type ClauseType string

const (
	ClauseProhibition ClauseType = "Prohibition"
	ClauseObligation  ClauseType = "Obligation"
	ClauseRight       ClauseType = "Right"
	ClauseGeneral     ClauseType = "General"
)

// Severity is the clause-level risk derived from the number of risk statements.
type Severity string

const (
	SeverityLow    Severity = "Low"
	SeverityMedium Severity = "Medium"
	SeverityHigh   Severity = "High"
)

// ClauseAnalysis is one clause with everything the detectors found in it.
type ClauseAnalysis struct {
	Index          int        `json:"index"`
	Text           string     `json:"text"`
	Type           ClauseType `json:"type"`
	Risks          []string   `json:"risks"`
	Severity       Severity   `json:"severity"`
	AmbiguousTerms []string   `json:"ambiguous_terms"`
	Mitigations    []string   `json:"mitigations"`
	Explanation    string     `json:"explanation"`
}

// Entities holds the strings found by the entity extractor. Each field is
// duplicate-free.
type Entities struct {
	Dates        []string `json:"dates"`
	Amounts      []string `json:"amounts"`
	Jurisdiction []string `json:"jurisdiction"`
	Parties      []string `json:"parties"`
}

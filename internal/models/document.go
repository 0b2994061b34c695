// Package models defines core data structures for contracts, clause analyses, and reports.
package models

import "time"

// LanguageUnknown is the language code used when detection fails.
const LanguageUnknown = "unknown"

// ContractType is the document-level classification of a contract.
type ContractType string

const (
	ContractEmployment  ContractType = "Employment Agreement"
	ContractLease       ContractType = "Lease Agreement"
	ContractVendor      ContractType = "Vendor Contract"
	ContractPartnership ContractType = "Partnership Deed"
	ContractService     ContractType = "Service Contract"
)

// Document is an uploaded contract after text extraction. It is not modified
// once analysis starts.
type Document struct {
	ID           string       `json:"id" db:"id"`
	FileName     string       `json:"file_name" db:"file_name"`
	Text         string       `json:"text" db:"content"`
	Language     string       `json:"language" db:"language"`
	ContractType ContractType `json:"contract_type" db:"contract_type"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
}

// DocumentInput is the input for analyzing a contract that is already plain text.
type DocumentInput struct {
	ID       string `json:"id,omitempty"`
	FileName string `json:"file_name,omitempty"`
	Text     string `json:"text"`
}

// LanguageLabel returns the display name for a language code. Only Hindi is
// called out; every other code, "unknown" included, is shown as English.
func LanguageLabel(code string) string {
	if code == "hi" {
		return "Hindi"
	}
	return "English"
}

// LanguageNote returns an informational note for languages that need one, or "".
func LanguageNote(code string) string {
	if code == "hi" {
		return "Hindi contract detected. Analysis performed on original text."
	}
	return ""
}

// Disclaimer is appended to every human-readable rendering of a report.
const Disclaimer = "This tool provides informational insights only and is not legal advice."

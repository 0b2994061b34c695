// Package cli renders reports, listings and clause search hits for the command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/clausewise/internal/keyword"
	"github.com/hyperjump/clausewise/internal/models"
	"github.com/hyperjump/clausewise/pkg/utils"
)

// OutputFormat selects how results are written.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat validates a --format flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(s)) {
	case "", OutputText:
		return OutputText, nil
	case OutputJSON:
		return OutputJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text or json)", s)
	}
}

const rule = "─────────────────────────────────────────────────────────"

// FormatSummary renders the summary lines as a plain-text list, one "- " item per line.
func FormatSummary(r *models.Report) string {
	lines := r.SummaryLines()
	items := make([]string, len(lines))
	for i, l := range lines {
		items[i] = "- " + l
	}
	return strings.Join(items, "\n")
}

// WriteSummary writes the plain-text summary followed by a newline.
func WriteSummary(w io.Writer, r *models.Report) error {
	_, err := fmt.Fprintln(w, FormatSummary(r))
	return err
}

// WriteReport writes a full report to w in the given format.
func WriteReport(w io.Writer, r *models.Report, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, r)
	}
	writeReportText(w, r)
	return nil
}

func writeReportText(w io.Writer, r *models.Report) {
	s := r.Summary
	fmt.Fprintln(w, "## Contract Overview")
	if r.Document != nil {
		if r.Document.FileName != "" {
			fmt.Fprintf(w, "File: %s\n", r.Document.FileName)
		}
		fmt.Fprintf(w, "ID: %s\n", r.Document.ID)
	}
	fmt.Fprintf(w, "Language: %s\n", models.LanguageLabel(s.Language))
	if note := models.LanguageNote(s.Language); note != "" {
		fmt.Fprintf(w, "Note: %s\n", note)
	}
	fmt.Fprintf(w, "Contract Type: %s\n", s.ContractType)
	fmt.Fprintf(w, "Overall Risk: %s\n\n", s.OverallRisk)

	fmt.Fprintln(w, "## Clause-by-Clause Analysis")
	for _, c := range r.Clauses {
		fmt.Fprintln(w, rule)
		fmt.Fprintf(w, "Clause %d [%s] Risk Level: %s\n", c.Index, c.Type, c.Severity)
		fmt.Fprintf(w, "%s\n", c.Text)
		fmt.Fprintf(w, "Explanation: %s\n", c.Explanation)
		if len(c.AmbiguousTerms) > 0 {
			fmt.Fprintf(w, "Ambiguous terms: %s\n", strings.Join(c.AmbiguousTerms, ", "))
		}
		for _, m := range c.Mitigations {
			fmt.Fprintf(w, "Suggestion: %s\n", m)
		}
	}
	fmt.Fprintln(w)

	e := r.Entities
	fmt.Fprintln(w, "## Key Entities")
	writeEntity(w, "Dates", e.Dates)
	writeEntity(w, "Amounts", e.Amounts)
	writeEntity(w, "Jurisdiction", e.Jurisdiction)
	writeEntity(w, "Parties", e.Parties)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "## Overall Contract Risk Summary")
	fmt.Fprintln(w, FormatSummary(r))
	fmt.Fprintln(w)
	fmt.Fprintln(w, models.Disclaimer)
}

func writeEntity(w io.Writer, label string, values []string) {
	if len(values) == 0 {
		fmt.Fprintf(w, "%s: none\n", label)
		return
	}
	fmt.Fprintf(w, "%s: %s\n", label, strings.Join(values, "; "))
}

// WriteReportList writes stored report summaries to w.
func WriteReportList(w io.Writer, infos []*models.ReportInfo, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, infos)
	}
	if len(infos) == 0 {
		fmt.Fprintln(w, "No contracts analyzed yet.")
		return nil
	}
	for _, info := range infos {
		name := info.FileName
		if name == "" {
			name = "(text)"
		}
		fmt.Fprintf(w, "%s  %-11s  %-20s  %d/%d high  %s  %s\n",
			info.CreatedAt.Format("2006-01-02 15:04"), info.OverallRisk, info.ContractType,
			info.HighRiskClauses, info.TotalClauses, info.ID, name)
	}
	return nil
}

// WriteSearchHits writes clause search hits to w.
func WriteSearchHits(w io.Writer, query string, hits []*keyword.ClauseHit, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, hits)
	}
	fmt.Fprintf(w, "\nFound %d clauses matching %q\n\n", len(hits), query)
	for i, h := range hits {
		fmt.Fprintln(w, rule)
		fmt.Fprintf(w, "%d. Score: %.4f | %s | %s | clause %d\n", i+1, h.Score, h.Type, h.Severity, h.ClauseIndex)
		fmt.Fprintf(w, "Contract: %s\n", h.DocumentID)
		fmt.Fprintf(w, "\n%s\n\n", utils.Truncate(utils.OneLine(h.Text), 200))
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Package keyword provides full-text search over analyzed clauses.
package keyword

import (
	"context"

	"github.com/hyperjump/clausewise/internal/models"
)

// SearchOptions narrows a clause search. Nil means no filters and exact terms.
type SearchOptions struct {
	// Type restricts hits to one clause type when set.
	Type models.ClauseType
	// Severity restricts hits to one severity when set.
	Severity models.Severity
	// Fuzzy enables typo-tolerant term matching.
	Fuzzy bool
	// Fuzziness is the maximum edit distance for fuzzy matching (1 or 2).
	// Default is 1 when Fuzzy is true.
	Fuzziness int
}

// ClauseIndex defines clause indexing and search operations.
type ClauseIndex interface {
	// IndexReport replaces every indexed clause of the report's document.
	IndexReport(ctx context.Context, report *models.Report) error
	Search(ctx context.Context, query string, limit int, opts *SearchOptions) ([]*ClauseHit, error)
	// DeleteDocument removes every clause of a document.
	DeleteDocument(ctx context.Context, documentID string) error
	// DocCount returns the number of indexed clauses.
	DocCount() (uint64, error)
	Close() error
}

// ClauseHit is a single clause search hit.
type ClauseHit struct {
	ID          string            `json:"id"`
	DocumentID  string            `json:"document_id"`
	ClauseIndex int               `json:"clause_index"`
	Text        string            `json:"text"`
	Type        models.ClauseType `json:"type"`
	Severity    models.Severity   `json:"severity"`
	Score       float64           `json:"score"`
}

// Package storage defines the persistence interface for analyzed contracts.
package storage

import (
	"context"
	"errors"

	"github.com/hyperjump/clausewise/internal/models"
)

// ErrNotFound is returned when a report does not exist.
var ErrNotFound = errors.New("not found")

// Storage defines report persistence operations.
type Storage interface {
	// SaveReport inserts or replaces the document and its clause analyses.
	SaveReport(ctx context.Context, report *models.Report) error
	GetReport(ctx context.Context, id string) (*models.Report, error)
	DeleteReport(ctx context.Context, id string) error
	ListReports(ctx context.Context, offset, limit int) ([]*models.ReportInfo, error)

	// Stats
	CountReports(ctx context.Context) (int64, error)
	CountClauses(ctx context.Context) (int64, error)

	Close() error
}

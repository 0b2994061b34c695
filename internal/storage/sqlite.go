// Package storage provides SQLite implementation of the Storage interface.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/clausewise/internal/models"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		file_name TEXT,
		content TEXT NOT NULL,
		language TEXT NOT NULL,
		contract_type TEXT NOT NULL,
		overall_risk TEXT NOT NULL,
		total_clauses INTEGER NOT NULL,
		high_risk_clauses INTEGER NOT NULL,
		entities TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents(created_at);

	CREATE TABLE IF NOT EXISTS clause_analyses (
		document_id TEXT NOT NULL,
		clause_index INTEGER NOT NULL,
		content TEXT NOT NULL,
		clause_type TEXT NOT NULL,
		severity TEXT NOT NULL,
		risks TEXT,
		ambiguous_terms TEXT,
		mitigations TEXT,
		explanation TEXT,
		PRIMARY KEY (document_id, clause_index),
		FOREIGN KEY (document_id) REFERENCES documents(id) ON DELETE CASCADE
	);
	`
	_, err := db.Exec(schema)
	return err
}

// SaveReport upserts the report's document row and replaces its clause rows
// in one transaction. A zero CreatedAt is set to now.
func (s *SQLiteStorage) SaveReport(ctx context.Context, report *models.Report) error {
	if report == nil || report.Document == nil || report.Document.ID == "" {
		return fmt.Errorf("report without document id")
	}
	doc := report.Document
	entitiesJSON, err := json.Marshal(report.Entities)
	if err != nil {
		return fmt.Errorf("failed to marshal entities: %w", err)
	}
	now := time.Now()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	sum := report.Summary
	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (id, file_name, content, language, contract_type, overall_risk,
			total_clauses, high_risk_clauses, entities, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			file_name = excluded.file_name,
			content = excluded.content,
			language = excluded.language,
			contract_type = excluded.contract_type,
			overall_risk = excluded.overall_risk,
			total_clauses = excluded.total_clauses,
			high_risk_clauses = excluded.high_risk_clauses,
			entities = excluded.entities,
			updated_at = excluded.updated_at`,
		doc.ID, doc.FileName, doc.Text, sum.Language, string(sum.ContractType), string(sum.OverallRisk),
		sum.TotalClauses, sum.HighRiskClauses, string(entitiesJSON), doc.CreatedAt, now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM clause_analyses WHERE document_id = ?`, doc.ID); err != nil {
		return fmt.Errorf("failed to clear clauses: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO clause_analyses (document_id, clause_index, content, clause_type, severity,
			risks, ambiguous_terms, mitigations, explanation)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range report.Clauses {
		risks, err := marshalList(c.Risks)
		if err != nil {
			return err
		}
		ambiguous, err := marshalList(c.AmbiguousTerms)
		if err != nil {
			return err
		}
		mitigations, err := marshalList(c.Mitigations)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, doc.ID, c.Index, c.Text, string(c.Type), string(c.Severity),
			risks, ambiguous, mitigations, c.Explanation); err != nil {
			return fmt.Errorf("failed to insert clause %d: %w", c.Index, err)
		}
	}
	return tx.Commit()
}

// GetReport returns the stored report for id, or ErrNotFound.
func (s *SQLiteStorage) GetReport(ctx context.Context, id string) (*models.Report, error) {
	var (
		doc          models.Document
		sum          models.ContractSummary
		contractType string
		overallRisk  string
		entitiesJSON sql.NullString
		fileName     sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, file_name, content, language, contract_type, overall_risk,
			total_clauses, high_risk_clauses, entities, created_at
		 FROM documents WHERE id = ?`, id,
	).Scan(&doc.ID, &fileName, &doc.Text, &doc.Language, &contractType, &overallRisk,
		&sum.TotalClauses, &sum.HighRiskClauses, &entitiesJSON, &doc.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("report %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	doc.FileName = fileName.String
	doc.ContractType = models.ContractType(contractType)
	sum.ContractType = doc.ContractType
	sum.Language = doc.Language
	sum.OverallRisk = models.OverallRisk(overallRisk)

	report := &models.Report{Document: &doc, Summary: sum}
	if entitiesJSON.String != "" {
		if err := json.Unmarshal([]byte(entitiesJSON.String), &report.Entities); err != nil {
			return nil, fmt.Errorf("failed to unmarshal entities: %w", err)
		}
	}

	clauses, err := s.clausesByDocumentID(ctx, id)
	if err != nil {
		return nil, err
	}
	report.Clauses = clauses
	return report, nil
}

func (s *SQLiteStorage) clausesByDocumentID(ctx context.Context, docID string) ([]models.ClauseAnalysis, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT clause_index, content, clause_type, severity, risks, ambiguous_terms, mitigations, explanation
		 FROM clause_analyses WHERE document_id = ? ORDER BY clause_index`,
		docID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clauses := []models.ClauseAnalysis{}
	for rows.Next() {
		var (
			c                             models.ClauseAnalysis
			clauseType, severity          string
			risks, ambiguous, mitigations sql.NullString
			explanation                   sql.NullString
		)
		if err := rows.Scan(&c.Index, &c.Text, &clauseType, &severity, &risks, &ambiguous, &mitigations, &explanation); err != nil {
			return nil, err
		}
		c.Type = models.ClauseType(clauseType)
		c.Severity = models.Severity(severity)
		c.Explanation = explanation.String
		if c.Risks, err = unmarshalList(risks); err != nil {
			return nil, err
		}
		if c.AmbiguousTerms, err = unmarshalList(ambiguous); err != nil {
			return nil, err
		}
		if c.Mitigations, err = unmarshalList(mitigations); err != nil {
			return nil, err
		}
		clauses = append(clauses, c)
	}
	return clauses, rows.Err()
}

// DeleteReport removes a document and its clauses. Returns ErrNotFound when
// no document has id.
func (s *SQLiteStorage) DeleteReport(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM clause_analyses WHERE document_id = ?`, id); err != nil {
		return err
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("report %s: %w", id, ErrNotFound)
	}
	return tx.Commit()
}

// ListReports returns report summaries, newest first, with offset and limit.
func (s *SQLiteStorage) ListReports(ctx context.Context, offset, limit int) ([]*models.ReportInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, file_name, language, contract_type, overall_risk, total_clauses, high_risk_clauses, created_at
		 FROM documents ORDER BY created_at DESC, id LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	infos := []*models.ReportInfo{}
	for rows.Next() {
		var (
			info                      models.ReportInfo
			fileName                  sql.NullString
			contractType, overallRisk string
		)
		if err := rows.Scan(&info.ID, &fileName, &info.Language, &contractType, &overallRisk,
			&info.TotalClauses, &info.HighRiskClauses, &info.CreatedAt); err != nil {
			return nil, err
		}
		info.FileName = fileName.String
		info.ContractType = models.ContractType(contractType)
		info.OverallRisk = models.OverallRisk(overallRisk)
		infos = append(infos, &info)
	}
	return infos, rows.Err()
}

// CountReports returns the total number of stored reports.
func (s *SQLiteStorage) CountReports(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&count)
	return count, err
}

// CountClauses returns the total number of stored clause analyses.
func (s *SQLiteStorage) CountClauses(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM clause_analyses`).Scan(&count)
	return count, err
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func marshalList(v []string) (string, error) {
	if v == nil {
		v = []string{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal list: %w", err)
	}
	return string(b), nil
}

func unmarshalList(s sql.NullString) ([]string, error) {
	out := []string{}
	if s.String == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(s.String), &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal list: %w", err)
	}
	return out, nil
}

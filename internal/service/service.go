// Package service runs the contract pipeline end to end: extract, detect
// language, analyze, persist, index and audit.
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/clausewise/internal/analysis"
	"github.com/hyperjump/clausewise/internal/extract"
	"github.com/hyperjump/clausewise/internal/keyword"
	"github.com/hyperjump/clausewise/internal/langdetect"
	"github.com/hyperjump/clausewise/internal/models"
	"github.com/hyperjump/clausewise/internal/storage"
)

const fileIDPrefix = "file:"

// AuditLog records one entry per analyzed document.
type AuditLog interface {
	Append(ctx context.Context, entry models.AuditEntry) error
}

// Service orchestrates contract analysis over storage, the clause index and the audit log.
type Service struct {
	analyzer  *analysis.Analyzer
	storage   storage.Storage
	index     keyword.ClauseIndex
	detector  langdetect.Detector
	extractor *extract.Extractor
	audit     AuditLog
	now       func() time.Time
	logger    *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets a logger for pipeline events.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithDetector replaces the default whatlanggo detector.
func WithDetector(d langdetect.Detector) Option {
	return func(s *Service) { s.detector = d }
}

// WithAuditLog sets the audit log. Without one, no audit entries are written.
func WithAuditLog(a AuditLog) Option {
	return func(s *Service) { s.audit = a }
}

// WithClock overrides the time source used for audit timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a service. analyzer, store and index are required.
func New(analyzer *analysis.Analyzer, store storage.Storage, index keyword.ClauseIndex, opts ...Option) *Service {
	s := &Service{
		analyzer:  analyzer,
		storage:   store,
		index:     index,
		detector:  langdetect.NewWhatlang(),
		extractor: extract.NewExtractor(),
		now:       time.Now,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FileDocID returns a stable document ID for an absolute path, so re-analyzing
// a watched file replaces its previous report.
func FileDocID(absolutePath string) string {
	hash := sha256.Sum256([]byte(filepath.Clean(absolutePath)))
	return fileIDPrefix + hex.EncodeToString(hash[:])
}

// AnalyzeText analyzes plain text. An empty input ID gets a fresh UUID.
func (s *Service) AnalyzeText(ctx context.Context, input *models.DocumentInput) (*models.Report, error) {
	if input.ID == "" {
		input.ID = uuid.New().String()
	}
	lang := s.detectLanguage(input.Text)
	doc := models.Document{
		ID:        input.ID,
		FileName:  input.FileName,
		Text:      input.Text,
		Language:  lang,
		CreatedAt: s.now().UTC(),
	}
	report := s.analyzer.Analyze(doc)

	if err := s.storage.SaveReport(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to store report: %w", err)
	}
	if err := s.index.IndexReport(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to index clauses: %w", err)
	}
	s.appendAudit(ctx, report)

	s.logger.Info("contract analyzed",
		zap.String("id", doc.ID),
		zap.String("file", doc.FileName),
		zap.String("contract_type", string(report.Summary.ContractType)),
		zap.String("overall_risk", string(report.Summary.OverallRisk)),
		zap.Int("clauses", report.Summary.TotalClauses))
	return report, nil
}

// AnalyzeBytes extracts text from an uploaded file and analyzes it. An
// unsupported extension degrades to empty text; a corrupt PDF or DOCX is an error.
func (s *Service) AnalyzeBytes(ctx context.Context, name string, content []byte) (*models.Report, error) {
	text, err := s.extractor.ExtractBytes(content, filepath.Ext(name))
	if err != nil {
		if !errors.Is(err, extract.ErrUnsupportedFormat) {
			return nil, fmt.Errorf("extract %s: %w", name, err)
		}
		s.logger.Warn("unsupported format, analyzing empty text", zap.String("file", name))
		text = ""
	}
	return s.AnalyzeText(ctx, &models.DocumentInput{FileName: filepath.Base(name), Text: text})
}

// AnalyzeFile reads and analyzes the file at path. The document ID is derived
// from the absolute path. If allowedExts is non-empty, the extension must be in it.
func (s *Service) AnalyzeFile(ctx context.Context, path string, allowedExts []string) (*models.Report, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}
	if len(allowedExts) > 0 && !extensionAllowed(filepath.Ext(absPath), allowedExts) {
		return nil, fmt.Errorf("extension %q not in allowed list", filepath.Ext(absPath))
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("not a regular file: %s", absPath)
	}
	s.logger.Debug("analyzing file", zap.String("path", absPath))

	content, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	text, err := s.extractor.ExtractBytes(content, filepath.Ext(absPath))
	if err != nil {
		if !errors.Is(err, extract.ErrUnsupportedFormat) {
			return nil, fmt.Errorf("extract %s: %w", absPath, err)
		}
		s.logger.Warn("unsupported format, analyzing empty text", zap.String("path", absPath))
		text = ""
	}
	return s.AnalyzeText(ctx, &models.DocumentInput{
		ID:       FileDocID(absPath),
		FileName: filepath.Base(absPath),
		Text:     text,
	})
}

// AnalyzeDirectory walks dir and analyzes each regular file whose extension is
// in allowedExts (all files when empty). Returns the number analyzed and the
// first error encountered.
func (s *Service) AnalyzeDirectory(ctx context.Context, dir string, allowedExts []string) (n int, err error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return 0, fmt.Errorf("absolute path: %w", err)
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return 0, fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("not a directory: %s", absDir)
	}
	err = filepath.WalkDir(absDir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		if len(allowedExts) > 0 && !extensionAllowed(filepath.Ext(path), allowedExts) {
			return nil
		}
		finfo, statErr := os.Stat(path)
		if statErr != nil || !finfo.Mode().IsRegular() {
			return nil
		}
		if _, err := s.AnalyzeFile(ctx, path, allowedExts); err != nil {
			return err
		}
		n++
		return nil
	})
	return n, err
}

// Get returns a stored report.
func (s *Service) Get(ctx context.Context, id string) (*models.Report, error) {
	return s.storage.GetReport(ctx, id)
}

// List returns stored report summaries, newest first.
func (s *Service) List(ctx context.Context, offset, limit int) ([]*models.ReportInfo, error) {
	return s.storage.ListReports(ctx, offset, limit)
}

// Delete removes a report and its indexed clauses.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.logger.Debug("deleting report", zap.String("id", id))
	if err := s.index.DeleteDocument(ctx, id); err != nil {
		return fmt.Errorf("failed to delete from clause index: %w", err)
	}
	if err := s.storage.DeleteReport(ctx, id); err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	return nil
}

// DeleteFile removes the report of a watched file. A file that was never
// analyzed is not an error.
func (s *Service) DeleteFile(ctx context.Context, path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("absolute path: %w", err)
	}
	err = s.Delete(ctx, FileDocID(absPath))
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	return err
}

// SearchClauses runs a full-text query over every analyzed clause.
func (s *Service) SearchClauses(ctx context.Context, query string, limit int, opts *keyword.SearchOptions) ([]*keyword.ClauseHit, error) {
	return s.index.Search(ctx, query, limit, opts)
}

// Stats holds counts reported by Status.
type Stats struct {
	Reports        int64  `json:"reports"`
	Clauses        int64  `json:"clauses"`
	IndexedClauses uint64 `json:"indexed_clauses"`
}

// Status returns report and clause counts.
func (s *Service) Status(ctx context.Context) (*Stats, error) {
	reports, err := s.storage.CountReports(ctx)
	if err != nil {
		return nil, fmt.Errorf("count reports: %w", err)
	}
	clauses, err := s.storage.CountClauses(ctx)
	if err != nil {
		return nil, fmt.Errorf("count clauses: %w", err)
	}
	indexed, err := s.index.DocCount()
	if err != nil {
		return nil, fmt.Errorf("count indexed clauses: %w", err)
	}
	return &Stats{Reports: reports, Clauses: clauses, IndexedClauses: indexed}, nil
}

func (s *Service) detectLanguage(text string) string {
	lang := langdetect.Resolve(s.detector, text)
	if lang == models.LanguageUnknown {
		s.logger.Debug("language undetermined", zap.Int("text_len", len(text)))
	}
	return lang
}

// appendAudit never fails the pipeline; write errors are logged.
func (s *Service) appendAudit(ctx context.Context, report *models.Report) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Append(ctx, models.NewAuditEntry(report, s.now().UTC())); err != nil {
		s.logger.Warn("audit log write failed", zap.String("id", report.Document.ID), zap.Error(err))
	}
}

func extensionAllowed(ext string, allowed []string) bool {
	extNorm := strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, a := range allowed {
		if strings.ToLower(strings.TrimPrefix(a, ".")) == extNorm {
			return true
		}
	}
	return false
}

// Inbox adapts the service to inbox watcher callbacks.
type Inbox struct {
	svc  *Service
	exts []string
}

// Inbox returns a watcher handler that analyzes files with the given extensions.
func (s *Service) Inbox(exts []string) *Inbox {
	return &Inbox{svc: s, exts: exts}
}

// Analyze analyzes the file at path, replacing any previous report for it.
func (i *Inbox) Analyze(ctx context.Context, path string) error {
	_, err := i.svc.AnalyzeFile(ctx, path, i.exts)
	return err
}

// Remove deletes the report of the file at path.
func (i *Inbox) Remove(ctx context.Context, path string) error {
	return i.svc.DeleteFile(ctx, path)
}

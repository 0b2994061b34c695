// Package audit appends one JSON line per analysis to a log file.
package audit

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/hyperjump/clausewise/internal/models"
)

// Logger appends audit entries to a JSONL file. Safe for concurrent use.
type Logger struct {
	path   string
	mu     sync.Mutex
	logger *zap.Logger
}

// Option configures a Logger.
type Option func(*Logger)

// WithLogger sets the zap logger used for diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(a *Logger) {
		a.logger = l
	}
}

// New returns an audit logger writing to path. The parent directory is
// created on first append.
func New(path string, opts ...Option) *Logger {
	a := &Logger{path: path, logger: zap.NewNop()}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Path returns the log file path.
func (a *Logger) Path() string {
	return a.path
}

// Append writes entry as a single line. Each call opens the file in append
// mode so lines from concurrent writers never interleave.
func (a *Logger) Append(ctx context.Context, entry models.AuditEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal audit entry: %w", err)
	}
	line = append(line, '\n')

	a.mu.Lock()
	defer a.mu.Unlock()

	if dir := filepath.Dir(a.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create audit dir: %w", err)
		}
	}
	f, err := os.OpenFile(a.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	if _, err := f.Write(line); err != nil {
		f.Close()
		return fmt.Errorf("write audit log: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close audit log: %w", err)
	}
	a.logger.Debug("audit entry appended",
		zap.String("contract_type", string(entry.ContractType)),
		zap.String("overall_risk", string(entry.OverallRisk)))
	return nil
}

// Entries reads every entry in the log. A missing file yields no entries.
// Malformed lines are skipped.
func (a *Logger) Entries() ([]models.AuditEntry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	f, err := os.Open(a.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	var out []models.AuditEntry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e models.AuditEntry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			a.logger.Warn("skipping malformed audit line", zap.Error(err))
			continue
		}
		out = append(out, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan audit log: %w", err)
	}
	return out, nil
}

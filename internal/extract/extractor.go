// Package extract provides text extraction from contract files.
package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for file extensions the extractor cannot read.
var ErrUnsupportedFormat = errors.New("unsupported format")

// SupportedExtensions lists the extensions ExtractBytes accepts.
var SupportedExtensions = []string{".pdf", ".docx", ".txt"}

// Extractor extracts plain text from contract files.
type Extractor struct{}

// NewExtractor returns a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract reads the file at path and returns its text content.
func (e *Extractor) Extract(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return e.ExtractBytes(content, filepath.Ext(path))
}

// ExtractBytes extracts text from content based on the given extension
// (leading dot included, case-insensitive). Unknown extensions yield
// ErrUnsupportedFormat; a corrupt PDF or DOCX yields a parse error.
func (e *Extractor) ExtractBytes(content []byte, ext string) (string, error) {
	switch strings.ToLower(ext) {
	case ".pdf":
		return extractPDF(content)
	case ".docx":
		return extractDOCX(content)
	case ".txt":
		return extractPlain(content)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Supported reports whether the file name has an extension ExtractBytes accepts.
func Supported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, s := range SupportedExtensions {
		if s == ext {
			return true
		}
	}
	return false
}

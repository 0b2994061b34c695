// Package langdetect identifies the language of contract text.
package langdetect

import (
	"errors"
	"strings"

	"github.com/abadojack/whatlanggo"

	"github.com/hyperjump/clausewise/internal/models"
)

// ErrUndetermined is returned when no language can be identified.
var ErrUndetermined = errors.New("language undetermined")

// Detector returns an ISO 639-1 code for text.
type Detector interface {
	Detect(text string) (string, error)
}

// Whatlang detects languages with trigram profiles.
type Whatlang struct {
	// MinConfidence rejects detections below this confidence (0..1).
	MinConfidence float64
}

// NewWhatlang returns a detector that accepts any detection with a known script.
func NewWhatlang() *Whatlang {
	return &Whatlang{}
}

// Detect returns the ISO 639-1 code of the most likely language.
func (w *Whatlang) Detect(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrUndetermined
	}
	info := whatlanggo.Detect(text)
	if info.Script == nil || info.Confidence < w.MinConfidence {
		return "", ErrUndetermined
	}
	code := info.Lang.Iso6391()
	if code == "" {
		return "", ErrUndetermined
	}
	return code, nil
}

// Resolve runs d on text and maps any failure to models.LanguageUnknown.
func Resolve(d Detector, text string) string {
	if d == nil {
		return models.LanguageUnknown
	}
	code, err := d.Detect(text)
	if err != nil || code == "" {
		return models.LanguageUnknown
	}
	return code
}

package langdetect

import (
	"errors"
	"testing"

	"github.com/hyperjump/clausewise/internal/models"
)

func TestWhatlang_English(t *testing.T) {
	d := NewWhatlang()
	code, err := d.Detect("The employee shall not disclose confidential information to any third party without the prior written consent of the company.")
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if code != "en" {
		t.Errorf("code = %q, want en", code)
	}
}

func TestWhatlang_Devanagari(t *testing.T) {
	d := NewWhatlang()
	code, err := d.Detect("यह अनुबंध दोनों पक्षों के बीच किया गया है और कर्मचारी को हर महीने वेतन दिया जाएगा। कर्मचारी कंपनी की गोपनीय जानकारी किसी को नहीं बताएगा।")
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	switch code {
	case "hi", "mr", "ne":
	default:
		t.Errorf("code = %q, want a Devanagari-script language", code)
	}
}

func TestWhatlang_Undetermined(t *testing.T) {
	d := NewWhatlang()
	for _, text := range []string{"", "   ", "12345 67 -- !!"} {
		if _, err := d.Detect(text); !errors.Is(err, ErrUndetermined) {
			t.Errorf("Detect(%q): expected ErrUndetermined, got %v", text, err)
		}
	}
}

func TestWhatlang_MinConfidence(t *testing.T) {
	d := &Whatlang{MinConfidence: 1.1}
	if _, err := d.Detect("The tenant shall pay rent every month."); !errors.Is(err, ErrUndetermined) {
		t.Errorf("expected ErrUndetermined above max confidence, got %v", err)
	}
}

type stubDetector struct {
	code string
	err  error
}

func (s stubDetector) Detect(string) (string, error) { return s.code, s.err }

func TestResolve(t *testing.T) {
	if got := Resolve(stubDetector{code: "hi"}, "x"); got != "hi" {
		t.Errorf("got %q", got)
	}
	if got := Resolve(stubDetector{err: ErrUndetermined}, "x"); got != models.LanguageUnknown {
		t.Errorf("error should map to unknown, got %q", got)
	}
	if got := Resolve(stubDetector{}, "x"); got != models.LanguageUnknown {
		t.Errorf("empty code should map to unknown, got %q", got)
	}
	if got := Resolve(nil, "x"); got != models.LanguageUnknown {
		t.Errorf("nil detector should map to unknown, got %q", got)
	}
}

package analysis

import (
	"regexp"
	"sort"
	"strings"

	"github.com/hyperjump/clausewise/internal/models"
)

var (
	dateRe = regexp.MustCompile(`(?i)\b\d{1,2}(?:st|nd|rd|th)?\s+(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?),?\s+\d{4}\b`)
	amountRe = regexp.MustCompile(`(?:₹|INR)\s?\d+(?:,\d+)*(?:\.\d+)?`)
	// Two or more consecutive capitalized words. Matches headings and place
	// names too; callers should treat the result as candidates.
	partyRe = regexp.MustCompile(`\b[A-Z][a-z]+(?: +[A-Z][a-z]+)+\b`)
)

// EntityExtractor finds dates, amounts, jurisdictions, and party names in a
// document.
type EntityExtractor struct {
	jurisdictionRe *regexp.Regexp
}

// NewEntityExtractor compiles the jurisdiction pattern from place names.
// Longer names should come first when one contains another ("New Delhi"
// before "Delhi").
func NewEntityExtractor(jurisdictions []string) *EntityExtractor {
	e := &EntityExtractor{}
	if len(jurisdictions) == 0 {
		return e
	}
	quoted := make([]string, len(jurisdictions))
	for i, j := range jurisdictions {
		quoted[i] = regexp.QuoteMeta(j)
	}
	e.jurisdictionRe = regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
	return e
}

// Extract runs the four scans over text.
func (e *EntityExtractor) Extract(text string) models.Entities {
	ents := models.Entities{
		Dates:        uniqueSorted(dateRe.FindAllString(text, -1)),
		Amounts:      uniqueSorted(amountRe.FindAllString(text, -1)),
		Jurisdiction: []string{},
		Parties:      uniqueSorted(partyRe.FindAllString(text, -1)),
	}
	if e.jurisdictionRe != nil {
		ents.Jurisdiction = uniqueSorted(e.jurisdictionRe.FindAllString(text, -1))
	}
	return ents
}

func uniqueSorted(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

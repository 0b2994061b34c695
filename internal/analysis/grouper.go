package analysis

import (
	"strings"
	"unicode/utf8"
)

// DefaultMinSentenceLength is the shortest sentence, in characters after
// trimming, that takes part in clause formation.
const DefaultMinSentenceLength = 30

// LeadingTextPolicy decides what happens to sentences that appear before the
// first trigger sentence, when no clause is open yet.
type LeadingTextPolicy int

const (
	// DropLeadingText discards them. This matches the historical behavior.
	DropLeadingText LeadingTextPolicy = iota
	// PrependLeadingText attaches them to the front of the first clause.
	PrependLeadingText
)

// Grouper merges consecutive sentences into clauses. A clause starts at a
// sentence containing a trigger keyword and absorbs the non-trigger sentences
// that follow it.
type Grouper struct {
	triggers  []string
	minLength int
	leading   LeadingTextPolicy
}

// NewGrouper returns a grouper for the given lowercased triggers. A minLength
// of zero or less selects DefaultMinSentenceLength.
func NewGrouper(triggers []string, minLength int, leading LeadingTextPolicy) *Grouper {
	if minLength <= 0 {
		minLength = DefaultMinSentenceLength
	}
	return &Grouper{triggers: triggers, minLength: minLength, leading: leading}
}

// HasLegalIntent reports whether the sentence contains any trigger keyword.
func (g *Grouper) HasLegalIntent(sentence string) bool {
	s := strings.ToLower(sentence)
	for _, k := range g.triggers {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// Split normalizes text and returns its clauses in document order. It never
// returns an empty slice: when no clause forms, the whole normalized text is
// the only clause (possibly "").
func (g *Grouper) Split(text string) []string {
	normalized := Normalize(text)
	clauses := g.Group(SplitSentences(normalized))
	if len(clauses) == 0 {
		return []string{normalized}
	}
	return clauses
}

// Group runs the grouping pass over already split sentences. The result is
// empty when no sentence passes the length filter and carries a trigger.
func (g *Grouper) Group(sentences []string) []string {
	var clauses []string
	var buffer, leading string
	for _, sent := range sentences {
		if utf8.RuneCountInString(strings.TrimSpace(sent)) < g.minLength {
			continue
		}
		if g.HasLegalIntent(sent) {
			if buffer != "" {
				clauses = append(clauses, strings.TrimSpace(buffer))
			}
			buffer = sent
			if leading != "" {
				buffer = leading + " " + sent
				leading = ""
			}
			continue
		}
		switch {
		case buffer != "":
			buffer += " " + sent
		case g.leading == PrependLeadingText && leading == "":
			leading = sent
		case g.leading == PrependLeadingText:
			leading += " " + sent
		}
	}
	if strings.TrimSpace(buffer) != "" {
		clauses = append(clauses, strings.TrimSpace(buffer))
	}
	return clauses
}

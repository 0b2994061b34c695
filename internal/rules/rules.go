// Package rules holds the keyword configuration shared by every detector in the
// analysis pipeline. All phrase lists live here so they can be extended or
// localized from a YAML file without touching the detectors.
package rules

import (
	"fmt"
	"os"
	"strings"

	"github.com/hyperjump/clausewise/internal/models"
	"gopkg.in/yaml.v3"
)

// Rules is the full keyword configuration. Phrase matching is case-insensitive;
// Normalize lowercases every phrase once so detectors can compare against
// lowercased text.
type Rules struct {
	// Triggers mark a sentence as having legal intent (starts a new clause).
	Triggers []string `yaml:"triggers"`
	// Classification is checked in order; the first matching rule wins.
	// Clauses matching none are General.
	Classification []ClassRule `yaml:"classification"`
	// Risks are independent checks; each contributes at most one statement.
	Risks []RiskRule `yaml:"risks"`
	// AmbiguousTerms are vague qualifiers reported in list order.
	AmbiguousTerms []string `yaml:"ambiguous_terms"`
	// Mitigations map a keyword found in a risk statement to advice.
	Mitigations []MitigationRule `yaml:"mitigations"`
	// ContractTypes are checked in order against the full text.
	ContractTypes       []ContractTypeRule  `yaml:"contract_types"`
	DefaultContractType models.ContractType `yaml:"default_contract_type"`
	// Jurisdictions are place names the entity extractor looks for.
	Jurisdictions []string `yaml:"jurisdictions"`
}

// ClassRule assigns Type to clauses containing any of the phrases.
type ClassRule struct {
	Type models.ClauseType `yaml:"type"`
	Any  []string          `yaml:"any"`
}

// RiskRule emits Statement when the clause contains at least one phrase of Any
// (if set) and every phrase of All (if set).
type RiskRule struct {
	Statement string   `yaml:"statement"`
	Any       []string `yaml:"any,omitempty"`
	All       []string `yaml:"all,omitempty"`
}

// MitigationRule emits Advice for every risk statement containing Keyword.
type MitigationRule struct {
	Keyword string `yaml:"keyword"`
	Advice  string `yaml:"advice"`
}

// ContractTypeRule assigns Type when the document contains any of the phrases.
type ContractTypeRule struct {
	Type models.ContractType `yaml:"type"`
	Any  []string            `yaml:"any"`
}

// Matches reports whether lower (already lowercased text) satisfies the rule.
func (r RiskRule) Matches(lower string) bool {
	if len(r.Any) == 0 && len(r.All) == 0 {
		return false
	}
	if len(r.Any) > 0 && !ContainsAny(lower, r.Any) {
		return false
	}
	for _, p := range r.All {
		if !strings.Contains(lower, p) {
			return false
		}
	}
	return true
}

// ContainsAny reports whether s contains at least one of phrases.
func ContainsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

// Load reads a YAML rules file on top of the defaults. Any top-level key present
// in the file replaces the default list for that key entirely.
func Load(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules: %w", err)
	}
	r := Default()
	if err := yaml.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("failed to parse rules: %w", err)
	}
	r.Normalize()
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Normalize lowercases and trims every matching phrase.
func (r *Rules) Normalize() {
	r.Triggers = lowerAll(r.Triggers)
	for i := range r.Classification {
		r.Classification[i].Any = lowerAll(r.Classification[i].Any)
	}
	for i := range r.Risks {
		r.Risks[i].Any = lowerAll(r.Risks[i].Any)
		r.Risks[i].All = lowerAll(r.Risks[i].All)
	}
	r.AmbiguousTerms = lowerAll(r.AmbiguousTerms)
	for i := range r.Mitigations {
		r.Mitigations[i].Keyword = strings.ToLower(strings.TrimSpace(r.Mitigations[i].Keyword))
	}
	for i := range r.ContractTypes {
		r.ContractTypes[i].Any = lowerAll(r.ContractTypes[i].Any)
	}
}

// Validate checks that every rule can ever match and produces output.
func (r *Rules) Validate() error {
	if len(r.Triggers) == 0 {
		return fmt.Errorf("rules: at least one trigger is required")
	}
	for i, c := range r.Classification {
		if c.Type == "" || len(c.Any) == 0 {
			return fmt.Errorf("rules: classification[%d] needs a type and phrases", i)
		}
	}
	for i, rr := range r.Risks {
		if rr.Statement == "" {
			return fmt.Errorf("rules: risks[%d] has no statement", i)
		}
		if len(rr.Any) == 0 && len(rr.All) == 0 {
			return fmt.Errorf("rules: risks[%d] (%q) has no phrases", i, rr.Statement)
		}
	}
	for i, m := range r.Mitigations {
		if m.Keyword == "" || m.Advice == "" {
			return fmt.Errorf("rules: mitigations[%d] needs a keyword and advice", i)
		}
	}
	for i, ct := range r.ContractTypes {
		if ct.Type == "" || len(ct.Any) == 0 {
			return fmt.Errorf("rules: contract_types[%d] needs a type and phrases", i)
		}
	}
	if r.DefaultContractType == "" {
		return fmt.Errorf("rules: default_contract_type is required")
	}
	return nil
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Package analysis segments contract text into clauses and scores their risk.
//
// The pipeline is Normalize → SplitSentences → Grouper, then per clause
// Classify, DetectRisks → ScoreRisks, DetectAmbiguity and SuggestMitigations,
// and finally Summarize. Every step is a pure function of the text and the
// rules, so analyzing the same document twice gives the same report.
package analysis

import (
	"fmt"

	"github.com/hyperjump/clausewise/internal/models"
	"github.com/hyperjump/clausewise/internal/rules"
	"go.uber.org/zap"
)

// Analyzer runs the full clause pipeline with one set of rules.
type Analyzer struct {
	rules    *rules.Rules
	grouper  *Grouper
	entities *EntityExtractor
	logger   *zap.Logger
}

type options struct {
	minSentenceLength int
	leading           LeadingTextPolicy
	logger            *zap.Logger
}

// Option configures an Analyzer.
type Option func(*options)

// WithMinSentenceLength sets the sentence length filter of the grouper.
func WithMinSentenceLength(n int) Option {
	return func(o *options) { o.minSentenceLength = n }
}

// WithLeadingText sets what happens to sentences before the first trigger.
func WithLeadingText(p LeadingTextPolicy) Option {
	return func(o *options) { o.leading = p }
}

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// NewAnalyzer validates r and builds an analyzer. A nil r selects the
// built-in rules.
func NewAnalyzer(r *rules.Rules, opts ...Option) (*Analyzer, error) {
	if r == nil {
		r = rules.Default()
	}
	r.Normalize()
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rules: %w", err)
	}
	o := options{minSentenceLength: DefaultMinSentenceLength}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	return &Analyzer{
		rules:    r,
		grouper:  NewGrouper(r.Triggers, o.minSentenceLength, o.leading),
		entities: NewEntityExtractor(r.Jurisdictions),
		logger:   o.logger,
	}, nil
}

// Rules returns the rules the analyzer was built with.
func (a *Analyzer) Rules() *rules.Rules {
	return a.rules
}

// Clauses returns the clause texts of text, never empty.
func (a *Analyzer) Clauses(text string) []string {
	return a.grouper.Split(text)
}

// AnalyzeClause runs the per-clause detectors.
func (a *Analyzer) AnalyzeClause(index int, clause string) models.ClauseAnalysis {
	risks := DetectRisks(clause, a.rules.Risks)
	return models.ClauseAnalysis{
		Index:          index,
		Text:           clause,
		Type:           Classify(clause, a.rules.Classification),
		Risks:          risks,
		Severity:       ScoreRisks(risks),
		AmbiguousTerms: DetectAmbiguity(clause, a.rules.AmbiguousTerms),
		Mitigations:    SuggestMitigations(risks, a.rules.Mitigations),
		Explanation:    ExplainRisks(risks),
	}
}

// Analyze produces the report for doc. The returned report holds a copy of
// doc with ContractType filled in; doc itself is left untouched.
func (a *Analyzer) Analyze(doc models.Document) *models.Report {
	if doc.Language == "" {
		doc.Language = models.LanguageUnknown
	}
	doc.ContractType = ClassifyContract(doc.Text, a.rules.ContractTypes, a.rules.DefaultContractType)

	clauses := a.Clauses(doc.Text)
	analyses := make([]models.ClauseAnalysis, len(clauses))
	for i, c := range clauses {
		analyses[i] = a.AnalyzeClause(i+1, c)
	}
	summary := Summarize(doc.ContractType, doc.Language, analyses)
	a.logger.Debug("contract analyzed",
		zap.String("id", doc.ID),
		zap.String("contract_type", string(summary.ContractType)),
		zap.Int("clauses", summary.TotalClauses),
		zap.Int("high_risk_clauses", summary.HighRiskClauses),
		zap.String("overall_risk", string(summary.OverallRisk)),
	)
	return &models.Report{
		Document: &doc,
		Summary:  summary,
		Clauses:  analyses,
		Entities: a.entities.Extract(doc.Text),
	}
}

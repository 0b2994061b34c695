package analysis

import (
	"testing"

	"github.com/hyperjump/clausewise/internal/models"
	"github.com/hyperjump/clausewise/internal/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultRules() *rules.Rules {
	r := rules.Default()
	r.Normalize()
	return r
}

func newTestAnalyzer(t *testing.T, opts ...Option) *Analyzer {
	t.Helper()
	a, err := NewAnalyzer(nil, opts...)
	require.NoError(t, err)
	return a
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"   ", ""},
		{"one\r\ntwo\nthree", "one two three"},
		{"  a \t\t b  ", "a b"},
		{"line one.\n\n\nline two.", "line one. line two."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "Normalize(%q)", tt.in)
	}
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", []string{""}},
		{"no terminator", "no punctuation here", []string{"no punctuation here"}},
		{"trailing terminator", "Only one.", []string{"Only one."}},
		{"three kinds", "First. Second! Third? Fourth", []string{"First.", "Second!", "Third?", "Fourth"}},
		{"decimal not split", "Pay 3.5 percent. Then stop.", []string{"Pay 3.5 percent.", "Then stop."}},
		{"danda", "पहला वाक्य। दूसरा वाक्य।", []string{"पहला वाक्य।", "दूसरा वाक्य।"}},
		{"whitespace run", "A.   B.", []string{"A.", "B."}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitSentences(tt.in))
		})
	}
}

func TestGrouper_SingleTriggerClause(t *testing.T) {
	g := NewGrouper(defaultRules().Triggers, 0, DropLeadingText)
	text := "The tenant shall pay rent monthly. This is a general statement about the property."
	clauses := g.Split(text)
	require.Len(t, clauses, 1)
	assert.Equal(t, text, clauses[0])
}

func TestGrouper_EmptyInputFallsBack(t *testing.T) {
	g := NewGrouper(defaultRules().Triggers, 0, DropLeadingText)
	assert.Equal(t, []string{""}, g.Split(""))
	assert.Equal(t, []string{""}, g.Split(" \n\r\n "))
}

func TestGrouper_NoTriggerFallsBackToWholeText(t *testing.T) {
	g := NewGrouper(defaultRules().Triggers, 0, DropLeadingText)
	text := "This sentence is long enough but has no legal words.\nNeither does this second sentence here."
	assert.Equal(t, []string{Normalize(text)}, g.Split(text))
}

func TestGrouper_ShortSentencesIgnored(t *testing.T) {
	g := NewGrouper(defaultRules().Triggers, 0, DropLeadingText)
	text := "You shall. The employer shall provide a laptop to the employee. Short note here. " +
		"The employee must return the laptop at the end of employment."
	clauses := g.Split(text)
	require.Len(t, clauses, 2)
	assert.Equal(t, "The employer shall provide a laptop to the employee.", clauses[0])
	assert.Equal(t, "The employee must return the laptop at the end of employment.", clauses[1])
}

func TestGrouper_FollowersJoinOpenClause(t *testing.T) {
	g := NewGrouper(defaultRules().Triggers, 0, DropLeadingText)
	text := "The vendor shall deliver goods within ten days. Delivery is to the main warehouse in Pune. " +
		"Payment is due after inspection of every delivered item."
	clauses := g.Split(text)
	require.Len(t, clauses, 1)
	assert.Equal(t, Normalize(text), clauses[0])
}

func TestGrouper_LeadingTextPolicy(t *testing.T) {
	text := "This agreement is entered into by both parties today. The lessee shall keep the premises clean at all times."
	r := defaultRules()

	dropped := NewGrouper(r.Triggers, 0, DropLeadingText).Split(text)
	require.Len(t, dropped, 1)
	assert.Equal(t, "The lessee shall keep the premises clean at all times.", dropped[0])

	kept := NewGrouper(r.Triggers, 0, PrependLeadingText).Split(text)
	require.Len(t, kept, 1)
	assert.Equal(t, text, kept[0])
}

func TestGrouper_HindiTriggers(t *testing.T) {
	g := NewGrouper(defaultRules().Triggers, 0, DropLeadingText)
	text := "कर्मचारी सभी नियमों का पालन करेगा और समय पर काम पूरा करेगा। अनुबंध समाप्त होने पर सभी दस्तावेज़ वापस लौटाने होंगे।"
	clauses := g.Split(text)
	require.Len(t, clauses, 2)
	assert.Equal(t, "कर्मचारी सभी नियमों का पालन करेगा और समय पर काम पूरा करेगा।", clauses[0])
}

func TestGrouper_NonEmptyForAnyInput(t *testing.T) {
	g := NewGrouper(defaultRules().Triggers, 0, DropLeadingText)
	inputs := []string{"", "x", "Short. Tiny!", "No terminal punctuation but the word shall appears here", "।।।"}
	for _, in := range inputs {
		assert.NotEmpty(t, g.Split(in), "Split(%q)", in)
	}
}

func TestClassify(t *testing.T) {
	classes := defaultRules().Classification
	tests := []struct {
		clause string
		want   models.ClauseType
	}{
		{"The tenant SHALL NOT sublet the premises.", models.ClauseProhibition},
		{"The employee must not disclose secrets.", models.ClauseProhibition},
		{"The tenant shall pay rent.", models.ClauseObligation},
		{"Fees must be paid in advance.", models.ClauseObligation},
		{"Either party may terminate with notice.", models.ClauseRight},
		{"This agreement is governed by Indian law.", models.ClauseGeneral},
		{"", models.ClauseGeneral},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.clause, classes), tt.clause)
	}
}

func TestDetectRisks(t *testing.T) {
	risks := defaultRules().Risks
	clause := "Employee shall be subject to a penalty and must indemnify the company for any breach of confidential information, with arbitration in Delhi jurisdiction."
	got := DetectRisks(clause, risks)
	assert.Equal(t, []string{
		"Penalty clause may impose financial burden.",
		"Indemnity clause shifts liability.",
		"Jurisdiction/arbitration may increase cost.",
	}, got)
	assert.Equal(t, models.SeverityHigh, ScoreRisks(got))
}

func TestDetectRisks_AutoRenewalVariants(t *testing.T) {
	risks := defaultRules().Risks
	for _, clause := range []string{
		"This agreement will automatically renew for successive one year terms.",
		"The subscription is subject to auto-renewal at the end of each term.",
		"Auto renew applies; the service will renew unless cancelled.",
	} {
		got := DetectRisks(clause, risks)
		n := 0
		for _, r := range got {
			if r == "Auto-renewal may trap the party." {
				n++
			}
		}
		assert.Equal(t, 1, n, clause)
	}
}

func TestDetectRisks_UnilateralTermination(t *testing.T) {
	risks := defaultRules().Risks
	got := DetectRisks("The company may end this engagement at its sole discretion.", risks)
	assert.Equal(t, []string{"Unilateral termination favors one party."}, got)
}

func TestScoreRisks(t *testing.T) {
	assert.Equal(t, models.SeverityLow, ScoreRisks(nil))
	assert.Equal(t, models.SeverityLow, ScoreRisks([]string{}))
	assert.Equal(t, models.SeverityMedium, ScoreRisks([]string{"a"}))
	assert.Equal(t, models.SeverityHigh, ScoreRisks([]string{"a", "b"}))
	assert.Equal(t, models.SeverityHigh, ScoreRisks([]string{"a", "b", "c", "d"}))
}

func TestExplainRisks(t *testing.T) {
	assert.Equal(t, "This clause is standard and low risk.", ExplainRisks(nil))
	assert.Equal(t, "This clause may be risky because: A. B.", ExplainRisks([]string{"A.", "B."}))
}

func TestDetectAmbiguity_KeepsListOrder(t *testing.T) {
	terms := defaultRules().AmbiguousTerms
	clause := "Fees as applicable will be charged and the vendor shall use Reasonable efforts."
	assert.Equal(t, []string{"reasonable", "as applicable"}, DetectAmbiguity(clause, terms))
	assert.Empty(t, DetectAmbiguity("Payment is due on the first day.", terms))
}

func TestSuggestMitigations(t *testing.T) {
	r := defaultRules()
	risks := []string{
		"Auto-renewal may trap the party.",
		"Unilateral termination favors one party.",
		"Indemnity clause shifts liability.",
		"Penalty clause may impose financial burden.",
	}
	got := SuggestMitigations(risks, r.Mitigations)
	assert.Equal(t, []string{
		"Require written notice before any automatic renewal takes effect.",
		"Negotiate a mutual notice period before either party can terminate.",
		"Cap indemnity liability and make it mutual where possible.",
	}, got)
}

func TestSuggestMitigations_MultipleKeywordsInOneStatement(t *testing.T) {
	mitigations := []rules.MitigationRule{
		{Keyword: "termination", Advice: "T"},
		{Keyword: "non-compete", Advice: "N"},
	}
	got := SuggestMitigations([]string{"Non-compete survives termination."}, mitigations)
	assert.Equal(t, []string{"T", "N"}, got)
}

func TestEntityExtractor(t *testing.T) {
	e := NewEntityExtractor(defaultRules().Jurisdictions)
	text := "This Agreement is made on 5 March 2024 between Acme Traders and Rahul Sharma for INR 50,000 payable in Mumbai. " +
		"A deposit of ₹10,000 is due by 1st April 2024, again in mumbai. Signed on 5 March 2024."
	got := e.Extract(text)
	assert.ElementsMatch(t, []string{"5 March 2024", "1st April 2024"}, got.Dates)
	assert.ElementsMatch(t, []string{"INR 50,000", "₹10,000"}, got.Amounts)
	assert.ElementsMatch(t, []string{"Mumbai", "mumbai"}, got.Jurisdiction)
	assert.Contains(t, got.Parties, "Acme Traders")
	assert.Contains(t, got.Parties, "Rahul Sharma")
}

func TestEntityExtractor_PrefersLongerPlaceName(t *testing.T) {
	e := NewEntityExtractor([]string{"New Delhi", "Delhi"})
	got := e.Extract("Courts at New Delhi have jurisdiction.")
	assert.Equal(t, []string{"New Delhi"}, got.Jurisdiction)
}

func TestEntityExtractor_Empty(t *testing.T) {
	got := NewEntityExtractor(nil).Extract("")
	assert.Empty(t, got.Dates)
	assert.Empty(t, got.Amounts)
	assert.Empty(t, got.Jurisdiction)
	assert.Empty(t, got.Parties)
	assert.NotNil(t, got.Jurisdiction)
}

func TestClassifyContract(t *testing.T) {
	r := defaultRules()
	tests := []struct {
		text string
		want models.ContractType
	}{
		{"The Employee will receive a monthly salary.", models.ContractEmployment},
		{"The lessee pays rent.", models.ContractLease},
		{"The vendor supplies parts.", models.ContractVendor},
		{"Each partner contributes capital.", models.ContractPartnership},
		{"The consultant provides services.", models.ContractService},
		{"Employee lease for a vendor partner.", models.ContractEmployment},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyContract(tt.text, r.ContractTypes, r.DefaultContractType), tt.text)
	}
}

func TestOverallRisk(t *testing.T) {
	assert.Equal(t, models.OverallLow, OverallRisk(0))
	assert.Equal(t, models.OverallMedium, OverallRisk(1))
	assert.Equal(t, models.OverallMedium, OverallRisk(2))
	assert.Equal(t, models.OverallHigh, OverallRisk(3))
	assert.Equal(t, models.OverallHigh, OverallRisk(10))
}

func TestAnalyzer_HighRiskEmploymentClause(t *testing.T) {
	a := newTestAnalyzer(t)
	text := "Employee shall be subject to a penalty and must indemnify the company for any breach of confidential information, with arbitration in Delhi jurisdiction."
	report := a.Analyze(models.Document{ID: "d1", Text: text, Language: "en"})

	require.Len(t, report.Clauses, 1)
	c := report.Clauses[0]
	assert.Equal(t, 1, c.Index)
	assert.Equal(t, models.ClauseObligation, c.Type)
	assert.Len(t, c.Risks, 3)
	assert.Equal(t, models.SeverityHigh, c.Severity)
	assert.Equal(t, []string{"Cap indemnity liability and make it mutual where possible."}, c.Mitigations)

	assert.Equal(t, models.ContractEmployment, report.Document.ContractType)
	assert.Equal(t, models.ContractSummary{
		ContractType:    models.ContractEmployment,
		Language:        "en",
		TotalClauses:    1,
		HighRiskClauses: 1,
		OverallRisk:     models.OverallMedium,
	}, report.Summary)
	assert.Equal(t, []string{"Delhi"}, report.Entities.Jurisdiction)
}

func TestAnalyzer_LowRiskLeaseClause(t *testing.T) {
	a := newTestAnalyzer(t)
	report := a.Analyze(models.Document{Text: "The tenant shall pay rent monthly. This is a general statement about the property."})
	require.Len(t, report.Clauses, 1)
	assert.Equal(t, models.ClauseObligation, report.Clauses[0].Type)
	assert.Empty(t, report.Clauses[0].Risks)
	assert.Equal(t, models.SeverityLow, report.Clauses[0].Severity)
	assert.Equal(t, models.ContractLease, report.Summary.ContractType)
	assert.Equal(t, models.LanguageUnknown, report.Summary.Language)
}

func TestAnalyzer_EmptyText(t *testing.T) {
	a := newTestAnalyzer(t)
	report := a.Analyze(models.Document{})
	require.Len(t, report.Clauses, 1)
	assert.Equal(t, "", report.Clauses[0].Text)
	assert.Equal(t, models.ClauseGeneral, report.Clauses[0].Type)
	assert.Equal(t, 1, report.Summary.TotalClauses)
	assert.Equal(t, models.OverallLow, report.Summary.OverallRisk)
	assert.Equal(t, models.ContractService, report.Summary.ContractType)
}

func TestAnalyzer_HighOverallRisk(t *testing.T) {
	a := newTestAnalyzer(t)
	text := "The vendor shall pay a penalty and indemnify the buyer for every late shipment. " +
		"The buyer may terminate without notice and disputes go to arbitration in Mumbai. " +
		"This contract will automatically renew and any fine is payable within seven days."
	report := a.Analyze(models.Document{Text: text})
	require.Len(t, report.Clauses, 3)
	for _, c := range report.Clauses {
		assert.Equal(t, models.SeverityHigh, c.Severity, c.Text)
	}
	assert.Equal(t, 3, report.Summary.HighRiskClauses)
	assert.Equal(t, models.OverallHigh, report.Summary.OverallRisk)
	assert.Equal(t, models.ContractVendor, report.Summary.ContractType)
}

func TestAnalyzer_Idempotent(t *testing.T) {
	a := newTestAnalyzer(t)
	doc := models.Document{ID: "same", Text: "The partner shall contribute capital. Profits may be shared as deemed fit by the partners from time to time.", Language: "en"}
	first := a.Analyze(doc)
	second := a.Analyze(doc)
	assert.Equal(t, first, second)
	assert.Equal(t, models.ContractType(""), doc.ContractType)
}

func TestAnalyzer_SeverityMatchesRiskCount(t *testing.T) {
	a := newTestAnalyzer(t)
	text := "The employer may terminate without notice. The employee shall follow a non-compete for two full years. " +
		"The employee shall receive salary on the last working day of each month."
	for _, c := range a.Analyze(models.Document{Text: text}).Clauses {
		switch {
		case len(c.Risks) == 0:
			assert.Equal(t, models.SeverityLow, c.Severity)
		case len(c.Risks) >= 2:
			assert.Equal(t, models.SeverityHigh, c.Severity)
		default:
			assert.Equal(t, models.SeverityMedium, c.Severity)
		}
	}
}

func TestAnalyzer_Options(t *testing.T) {
	text := "Both parties agree to the terms set out below in full. The supplier shall ship goods."
	a := newTestAnalyzer(t, WithMinSentenceLength(10), WithLeadingText(PrependLeadingText))
	clauses := a.Clauses(text)
	require.Len(t, clauses, 1)
	assert.Equal(t, text, clauses[0])
}

func TestNewAnalyzer_RejectsInvalidRules(t *testing.T) {
	r := rules.Default()
	r.Triggers = nil
	_, err := NewAnalyzer(r)
	assert.Error(t, err)
}

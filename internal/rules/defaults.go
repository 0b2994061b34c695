package rules

import "github.com/hyperjump/clausewise/internal/models"

// Default returns a fresh copy of the built-in rules (English legal terms with
// Hindi trigger equivalents).
func Default() *Rules {
	return &Rules{
		Triggers: []string{
			"shall", "must", "may", "will",
			"terminate", "termination",
			"indemnify", "indemnity",
			"penalty", "fine",
			"arbitration", "jurisdiction",
			"renew", "auto",
			"करेगा", "करेगी", "कर सकता",
			"समाप्त", "क्षतिपूर्ति", "दंड", "मध्यस्थता",
		},
		Classification: []ClassRule{
			{Type: models.ClauseProhibition, Any: []string{"shall not", "must not"}},
			{Type: models.ClauseObligation, Any: []string{"shall", "must"}},
			{Type: models.ClauseRight, Any: []string{"may"}},
		},
		Risks: []RiskRule{
			{Statement: "Penalty clause may impose financial burden.", Any: []string{"penalty", "fine"}},
			{Statement: "Indemnity clause shifts liability.", Any: []string{"indemnify"}},
			{Statement: "Non-compete restricts future work.", Any: []string{"non-compete"}},
			{Statement: "Unilateral termination favors one party.", Any: []string{"terminate without notice", "sole discretion"}},
			{Statement: "Jurisdiction/arbitration may increase cost.", Any: []string{"arbitration", "jurisdiction"}},
			{Statement: "Auto-renewal may trap the party.", All: []string{"auto", "renew"}},
		},
		AmbiguousTerms: []string{
			"reasonable", "as required", "from time to time",
			"at discretion", "as deemed fit", "as applicable",
		},
		Mitigations: []MitigationRule{
			{Keyword: "termination", Advice: "Negotiate a mutual notice period before either party can terminate."},
			{Keyword: "non-compete", Advice: "Limit the non-compete to a defined duration and region."},
			{Keyword: "indemnity", Advice: "Cap indemnity liability and make it mutual where possible."},
			{Keyword: "auto-renew", Advice: "Require written notice before any automatic renewal takes effect."},
		},
		ContractTypes: []ContractTypeRule{
			{Type: models.ContractEmployment, Any: []string{"employee", "salary"}},
			{Type: models.ContractLease, Any: []string{"lease", "rent"}},
			{Type: models.ContractVendor, Any: []string{"vendor"}},
			{Type: models.ContractPartnership, Any: []string{"partner"}},
		},
		DefaultContractType: models.ContractService,
		Jurisdictions: []string{
			"New Delhi", "Delhi", "Mumbai", "Bengaluru", "Bangalore", "Chennai",
			"Kolkata", "Hyderabad", "Pune", "Ahmedabad", "Gurugram", "Noida",
			"India", "Singapore", "London", "New York",
		},
	}
}

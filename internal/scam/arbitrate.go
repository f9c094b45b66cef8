package scam

// Arbitration rules, in evaluation order.
const (
	RuleFallback        = "generative_unavailable"
	RuleAgreement       = "agreement"
	RulePatternCount    = "pattern_count"
	RuleHighRiskPattern = "high_risk_pattern"
	RuleGenerativeWins  = "generative"
)

const patternCountForSpam = 3

// Decision is the arbitrated label and the rule that produced it.
type Decision struct {
	Label string `json:"label"`
	Rule  string `json:"rule"`
}

// Arbitrate resolves the statistical label ml and the generative label gen.
// The checks run in a fixed order; reordering them changes outcomes when the
// two classifiers disagree.
func Arbitrate(ml, gen string, p Patterns) Decision {
	if gen == LabelUnknown || gen == LabelError {
		return Decision{Label: ml, Rule: RuleFallback}
	}
	if gen == ml {
		return Decision{Label: ml, Rule: RuleAgreement}
	}
	if p.Count() >= patternCountForSpam {
		return Decision{Label: LabelSpam, Rule: RulePatternCount}
	}
	if p.HasShortenedURL || p.HasUrgentLanguage {
		return Decision{Label: LabelSpam, Rule: RuleHighRiskPattern}
	}
	return Decision{Label: gen, Rule: RuleGenerativeWins}
}

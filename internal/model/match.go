package model

// Tier labels the rule that produced a match decision. Tiers are mutually
// exclusive and listed in precedence order.
type Tier string

const (
	TierOverride    Tier = "Override"
	TierHighLexical Tier = "HighLexical"
	TierLowLexical  Tier = "LowLexical"
	TierSemantic    Tier = "Semantic"
	TierNone        Tier = "None"
)

// MatchResult is the per-question matching outcome. FinalUID is non-empty
// exactly when Tier != TierNone. Score pointers are nil when the
// corresponding matcher was not consulted (override short-circuit, empty
// normalized text, or a recorded scoring failure).
type MatchResult struct {
	FinalUID       string   `json:"final_uid,omitempty"`
	Tier           Tier     `json:"confidence_tier"`
	LexicalScore   *float64 `json:"lexical_score,omitempty"`
	SemanticScore  *float64 `json:"semantic_score,omitempty"`
	MatchedHeading string   `json:"matched_reference_heading,omitempty"`
}

// Matched reports whether the result carries a UID assignment.
func (r MatchResult) Matched() bool {
	return r.Tier != TierNone
}

// MatchRecord is one export row: the question joined with its match,
// category, and identity columns.
type MatchRecord struct {
	Question Question       `json:"question"`
	Match    MatchResult    `json:"match"`
	Category CategoryResult `json:"category"`
	Identity IdentityFlag   `json:"identity"`
}

package model

// CategoryResult classifies a question's parent survey title along the three
// organizational taxonomies. Unmatched taxonomies carry their default label
// ("Other" for stage, "Unclassified" for the rest).
type CategoryResult struct {
	Stage          string `json:"survey_stage"`
	RespondentType string `json:"respondent_type"`
	Programme      string `json:"programme"`
}

// IdentityFlag marks a question that collects personally-identifying
// information. Type is the canonical label of the first matched indicator
// phrase ("email", "gender", ...), empty when IsIdentity is false.
type IdentityFlag struct {
	IsIdentity bool   `json:"is_identity"`
	Type       string `json:"identity_type,omitempty"`
}

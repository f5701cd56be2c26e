package model

// Survey identifies one survey in the external survey source.
type Survey struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Question is one extracted survey row: either a question stem or one of its
// answer-option rows (IsChoice=true). Immutable once extracted.
type Question struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	IsChoice    bool   `json:"is_choice"`
	SurveyID    string `json:"survey_id"`
	SurveyTitle string `json:"survey_title"`
}

// Package categorizer classifies survey titles along three organizational
// taxonomies: survey stage, respondent type, and programme.
//
// This is a substring classifier, not a similarity one. Each taxonomy is an
// ordered list of (category, keyword phrases) pairs tested in declaration
// order against the lower-cased title; the first category with any matching
// phrase wins. Reordering a taxonomy changes outcomes for titles matching
// several categories, so the tables are lists, never maps.
package categorizer

import (
	"strings"

	"github.com/altum-analytics/uidmatch/internal/model"
)

// Category is one taxonomy entry: a label and the keyword phrases that
// select it.
type Category struct {
	Label    string
	Keywords []string
}

// Taxonomy is an ordered category list with a default label for titles that
// match nothing.
type Taxonomy struct {
	Categories []Category
	Default    string
}

// Classify returns the first category whose keywords appear in the
// lower-cased title, or the taxonomy default.
func (t Taxonomy) Classify(title string) string {
	lower := strings.ToLower(title)
	for _, cat := range t.Categories {
		for _, kw := range cat.Keywords {
			if strings.Contains(lower, kw) {
				return cat.Label
			}
		}
	}
	return t.Default
}

// Categorizer bundles the three taxonomies. Immutable after construction.
type Categorizer struct {
	stages      Taxonomy
	respondents Taxonomy
	programmes  Taxonomy
}

// New creates a Categorizer from explicit taxonomies.
func New(stages, respondents, programmes Taxonomy) *Categorizer {
	return &Categorizer{stages: stages, respondents: respondents, programmes: programmes}
}

// Default creates a Categorizer with the built-in organizational taxonomies.
func Default() *Categorizer {
	return New(DefaultStages(), DefaultRespondentTypes(), DefaultProgrammes())
}

// Categorize classifies a survey title along all three taxonomies
// independently.
func (c *Categorizer) Categorize(surveyTitle string) model.CategoryResult {
	return model.CategoryResult{
		Stage:          c.stages.Classify(surveyTitle),
		RespondentType: c.respondents.Classify(surveyTitle),
		Programme:      c.programmes.Classify(surveyTitle),
	}
}

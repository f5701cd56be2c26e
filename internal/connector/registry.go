package connector

import (
	"fmt"
	"sort"

	"github.com/altum-analytics/uidmatch/internal/config"
)

// SurveyConstructor builds a SurveySource from survey configuration.
type SurveyConstructor func(cfg config.SurveyConfig) (SurveySource, error)

var surveyRegistry = map[string]SurveyConstructor{}

// RegisterSurveySource adds a survey source constructor under a provider name.
func RegisterSurveySource(name string, ctor SurveyConstructor) {
	surveyRegistry[name] = ctor
}

// NewSurveySource builds the survey source registered under the given name.
func NewSurveySource(name string, cfg config.SurveyConfig) (SurveySource, error) {
	ctor, ok := surveyRegistry[name]
	if !ok {
		return nil, fmt.Errorf("unknown survey source provider: %s", name)
	}
	return ctor(cfg)
}

// SurveyProviders returns the registered provider names, sorted.
func SurveyProviders() []string {
	names := make([]string, 0, len(surveyRegistry))
	for name := range surveyRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

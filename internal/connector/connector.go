// Package connector defines the external data source interfaces: where
// surveys come from and where the reference question bank lives.
package connector

import (
	"context"

	"github.com/altum-analytics/uidmatch/internal/model"
)

// SurveySource lists surveys and extracts their question rows.
type SurveySource interface {
	// ListSurveys returns all surveys visible to the configured account.
	ListSurveys(ctx context.Context) ([]model.Survey, error)

	// Questions fetches one survey's full structure and flattens it into
	// question and choice rows.
	Questions(ctx context.Context, survey model.Survey) ([]model.Question, error)

	// Check verifies connectivity and returns a short status description.
	Check(ctx context.Context) (string, error)
}

// ReferenceSource loads the historical heading-to-UID reference bank.
type ReferenceSource interface {
	// Load returns the reference bank with per-pair authority counts.
	Load(ctx context.Context) ([]model.ReferenceEntry, error)

	// Check verifies connectivity and returns a short status description.
	Check(ctx context.Context) (string, error)
}

// Sink receives finished export tables.
type Sink interface {
	// Upload replaces the named table with the given rows.
	Upload(ctx context.Context, table string, rows []model.MatchRecord) error
}

// Package pipeline connects the survey source, reference source, matching
// engine, and output into one batch run.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/altum-analytics/uidmatch/internal/connector"
	"github.com/altum-analytics/uidmatch/internal/engine"
	"github.com/altum-analytics/uidmatch/internal/model"
	"github.com/altum-analytics/uidmatch/internal/output"
)

// Table names published to the output.
const (
	TableMatches  = "uid_matches"
	TableIdentity = "uid_matches_identity"
)

// Pipeline runs the fetch, match, categorize, partition, publish sequence.
type Pipeline struct {
	surveys connector.SurveySource
	bank    connector.ReferenceSource
	engine  *engine.Engine
	output  output.Output
}

// New creates a Pipeline from the given components.
func New(surveys connector.SurveySource, bank connector.ReferenceSource, eng *engine.Engine, out output.Output) *Pipeline {
	return &Pipeline{
		surveys: surveys,
		bank:    bank,
		engine:  eng,
		output:  out,
	}
}

// Summary reports one completed run.
type Summary struct {
	Surveys    int
	Questions  int
	MatchRate  float64
	TierCounts map[model.Tier]int
	Skipped    int // surveys whose fetch failed
}

// Run processes the given survey IDs end to end. An empty surveyIDs selects
// every survey the source lists. Tables are published whole only after the
// entire batch is matched; a failed survey fetch skips that survey, never
// the batch.
func (p *Pipeline) Run(ctx context.Context, surveyIDs []string) (*Summary, error) {
	bank, err := p.bank.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("pipeline: load reference bank: %w", err)
	}
	slog.Info("reference bank loaded", "entries", len(bank))

	surveys, err := p.selectSurveys(ctx, surveyIDs)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Surveys: len(surveys)}
	var questions []model.Question
	for _, sv := range surveys {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		qs, err := p.surveys.Questions(ctx, sv)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			slog.Warn("survey fetch failed, skipping", "survey_id", sv.ID, "error", err)
			summary.Skipped++
			continue
		}
		questions = append(questions, qs...)
	}
	summary.Questions = len(questions)
	slog.Info("questions extracted", "surveys", len(surveys), "questions", len(questions), "skipped", summary.Skipped)

	report, err := p.engine.Match(ctx, questions, bank)
	if err != nil {
		return nil, fmt.Errorf("pipeline: match: %w", err)
	}
	summary.MatchRate = report.MatchRate
	summary.TierCounts = report.TierCounts
	for _, qe := range report.Errors {
		slog.Warn("question scoring incomplete", "question_id", qe.QuestionID, "error", qe.Err)
	}

	records := p.engine.BuildRecords(questions, report.Results)
	nonIdentity, identity := p.engine.PartitionForExport(records)

	if err := p.output.WriteTable(ctx, TableMatches, nonIdentity); err != nil {
		return nil, fmt.Errorf("pipeline: publish %s: %w", TableMatches, err)
	}
	if err := p.output.WriteTable(ctx, TableIdentity, identity); err != nil {
		return nil, fmt.Errorf("pipeline: publish %s: %w", TableIdentity, err)
	}

	slog.Info("run complete",
		"questions", summary.Questions,
		"match_rate", summary.MatchRate,
		"identity_rows", len(identity))
	return summary, nil
}

// selectSurveys resolves the requested IDs against the source listing. IDs
// not present in the listing are an error: matching a survey that does not
// exist would silently publish nothing.
func (p *Pipeline) selectSurveys(ctx context.Context, surveyIDs []string) ([]model.Survey, error) {
	listed, err := p.surveys.ListSurveys(ctx)
	if err != nil {
		return nil, fmt.Errorf("pipeline: list surveys: %w", err)
	}
	if len(surveyIDs) == 0 {
		return listed, nil
	}

	byID := make(map[string]model.Survey, len(listed))
	for _, sv := range listed {
		byID[sv.ID] = sv
	}
	selected := make([]model.Survey, 0, len(surveyIDs))
	for _, id := range surveyIDs {
		sv, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("pipeline: survey %s not found", id)
		}
		selected = append(selected, sv)
	}
	return selected, nil
}

// Close shuts down the output.
func (p *Pipeline) Close() error {
	return p.output.Close()
}

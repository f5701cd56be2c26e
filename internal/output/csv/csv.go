// Package csv writes each export table to its own CSV file in a directory.
package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/altum-analytics/uidmatch/internal/model"
)

var header = []string{
	"question_id", "survey_id", "survey_title", "question_text", "is_choice",
	"final_uid", "confidence_tier", "lexical_score", "semantic_score",
	"matched_heading", "stage", "respondent_type", "programme",
	"is_identity", "identity_type",
}

// Output writes <table>.csv files into a directory, one per WriteTable
// call. An existing file for the same table is replaced.
type Output struct {
	dir string
}

// New creates the directory if needed and returns an Output over it.
func New(dir string) (*Output, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("csv output: %w", err)
	}
	return &Output{dir: dir}, nil
}

func (o *Output) WriteTable(_ context.Context, name string, rows []model.MatchRecord) error {
	// Write to a temp file first so a crash never leaves a half table.
	f, err := os.CreateTemp(o.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("csv output: %w", err)
	}
	defer os.Remove(f.Name())

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return fmt.Errorf("csv output: %w", err)
	}
	for _, r := range rows {
		if err := w.Write(record(r)); err != nil {
			f.Close()
			return fmt.Errorf("csv output: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("csv output: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("csv output: %w", err)
	}

	final := filepath.Join(o.dir, name+".csv")
	if err := os.Rename(f.Name(), final); err != nil {
		return fmt.Errorf("csv output: %w", err)
	}
	return nil
}

func (o *Output) Close() error {
	return nil
}

func record(r model.MatchRecord) []string {
	return []string{
		r.Question.ID,
		r.Question.SurveyID,
		r.Question.SurveyTitle,
		r.Question.Text,
		strconv.FormatBool(r.Question.IsChoice),
		r.Match.FinalUID,
		string(r.Match.Tier),
		formatScore(r.Match.LexicalScore),
		formatScore(r.Match.SemanticScore),
		r.Match.MatchedHeading,
		r.Category.Stage,
		r.Category.RespondentType,
		r.Category.Programme,
		strconv.FormatBool(r.Identity.IsIdentity),
		r.Identity.Type,
	}
}

func formatScore(score *float64) string {
	if score == nil {
		return ""
	}
	return strconv.FormatFloat(*score, 'f', 4, 64)
}

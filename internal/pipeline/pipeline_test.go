package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/altum-analytics/uidmatch/internal/engine"
	"github.com/altum-analytics/uidmatch/internal/model"
)

type fakeSurveys struct {
	surveys   []model.Survey
	questions map[string][]model.Question
	failFetch map[string]error
}

func (f *fakeSurveys) ListSurveys(_ context.Context) ([]model.Survey, error) {
	return f.surveys, nil
}

func (f *fakeSurveys) Questions(_ context.Context, sv model.Survey) ([]model.Question, error) {
	if err := f.failFetch[sv.ID]; err != nil {
		return nil, err
	}
	return f.questions[sv.ID], nil
}

func (f *fakeSurveys) Check(_ context.Context) (string, error) { return "ok", nil }

type fakeBank struct {
	entries []model.ReferenceEntry
	err     error
}

func (f *fakeBank) Load(_ context.Context) ([]model.ReferenceEntry, error) {
	return f.entries, f.err
}

func (f *fakeBank) Check(_ context.Context) (string, error) { return "ok", nil }

type fakeOutput struct {
	tables map[string][]model.MatchRecord
}

func (f *fakeOutput) WriteTable(_ context.Context, name string, rows []model.MatchRecord) error {
	if f.tables == nil {
		f.tables = map[string][]model.MatchRecord{}
	}
	f.tables[name] = rows
	return nil
}

func (f *fakeOutput) Close() error { return nil }

func testEngine(t *testing.T) *engine.Engine {
	t.Helper()
	e, err := engine.New(engine.Config{}, nil)
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	return e
}

func testFixtures() (*fakeSurveys, *fakeBank) {
	surveys := &fakeSurveys{
		surveys: []model.Survey{
			{ID: "s1", Title: "GYB Pulse Check"},
			{ID: "s2", Title: "MEA Application"},
		},
		questions: map[string][]model.Question{
			"s1": {
				{ID: "q1", Text: "What is your age?", SurveyID: "s1", SurveyTitle: "GYB Pulse Check"},
				{ID: "q2", Text: "Something else entirely", SurveyID: "s1", SurveyTitle: "GYB Pulse Check"},
			},
			"s2": {
				{ID: "q3", Text: "What is your gender?", SurveyID: "s2", SurveyTitle: "MEA Application"},
			},
		},
		failFetch: map[string]error{},
	}
	bank := &fakeBank{entries: []model.ReferenceEntry{
		{Heading: "What is your age?", UID: "234", AuthorityCount: 3},
		{Heading: "How many people report to you?", UID: "301", AuthorityCount: 1},
	}}
	return surveys, bank
}

func TestRunEndToEnd(t *testing.T) {
	surveys, bank := testFixtures()
	out := &fakeOutput{}
	p := New(surveys, bank, testEngine(t), out)

	summary, err := p.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Surveys != 2 || summary.Questions != 3 {
		t.Fatalf("summary = %+v", summary)
	}

	// q1 matches by override, q3 by override, q2 does not match.
	if got := summary.TierCounts[model.TierOverride]; got != 2 {
		t.Fatalf("override count = %d, want 2", got)
	}
	if summary.MatchRate != 66.7 {
		t.Fatalf("match rate = %v, want 66.7", summary.MatchRate)
	}

	// Identity questions (age, gender) route to the identity table.
	if len(out.tables[TableIdentity]) != 2 {
		t.Fatalf("identity table has %d rows, want 2", len(out.tables[TableIdentity]))
	}
	if len(out.tables[TableMatches]) != 1 {
		t.Fatalf("matches table has %d rows, want 1", len(out.tables[TableMatches]))
	}
	got := out.tables[TableMatches][0]
	if got.Question.ID != "q2" || got.Match.Matched() {
		t.Fatalf("unexpected non-identity row: %+v", got)
	}
	if got.Category.Stage != "Pulse Check Survey" {
		t.Fatalf("stage = %q", got.Category.Stage)
	}
}

func TestRunSelectsSurveys(t *testing.T) {
	surveys, bank := testFixtures()
	out := &fakeOutput{}
	p := New(surveys, bank, testEngine(t), out)

	summary, err := p.Run(context.Background(), []string{"s2"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Surveys != 1 || summary.Questions != 1 {
		t.Fatalf("summary = %+v", summary)
	}

	_, err = p.Run(context.Background(), []string{"missing"})
	if err == nil {
		t.Fatal("expected error for unknown survey id")
	}
}

func TestRunSkipsFailedSurvey(t *testing.T) {
	surveys, bank := testFixtures()
	surveys.failFetch["s1"] = errors.New("HTTP 500")
	out := &fakeOutput{}
	p := New(surveys, bank, testEngine(t), out)

	summary, err := p.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Skipped != 1 || summary.Questions != 1 {
		t.Fatalf("summary = %+v", summary)
	}
}

func TestRunFailsWhenBankUnavailable(t *testing.T) {
	surveys, _ := testFixtures()
	bank := &fakeBank{err: errors.New("warehouse down")}
	p := New(surveys, bank, testEngine(t), &fakeOutput{})

	if _, err := p.Run(context.Background(), nil); err == nil {
		t.Fatal("expected error when reference bank cannot load")
	}
}

func TestRunCancelled(t *testing.T) {
	surveys, bank := testFixtures()
	p := New(surveys, bank, testEngine(t), &fakeOutput{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Run(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

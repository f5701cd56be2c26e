// Package engine reconciles the override, lexical, and semantic signals into
// one tiered match decision per question, and joins the categorizer and
// identity columns onto export rows.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/altum-analytics/uidmatch/internal/cache"
	"github.com/altum-analytics/uidmatch/internal/config"
	"github.com/altum-analytics/uidmatch/internal/engine/categorizer"
	"github.com/altum-analytics/uidmatch/internal/engine/embedder"
	"github.com/altum-analytics/uidmatch/internal/engine/identity"
	"github.com/altum-analytics/uidmatch/internal/engine/lexical"
	"github.com/altum-analytics/uidmatch/internal/engine/normalizer"
	"github.com/altum-analytics/uidmatch/internal/engine/overrides"
	"github.com/altum-analytics/uidmatch/internal/engine/semantic"
	"github.com/altum-analytics/uidmatch/internal/model"
)

// ErrEmptyBank reports a reference bank with no entries. Matching against
// nothing is a setup problem, not an all-None batch.
var ErrEmptyBank = errors.New("engine: reference bank is empty")

// ErrMissingText marks a question record with no text. Such questions are
// excluded from scoring and reported in the batch error list so the
// degradation is visible, not a silent None.
var ErrMissingText = errors.New("engine: question has no text")

// Config assembles the engine's fixed collaborators. Zero-value fields get
// the shipped defaults from New.
type Config struct {
	Thresholds config.ThresholdConfig
	Normalizer *normalizer.Normalizer
	Overrides  *overrides.Table
	Categories *categorizer.Categorizer
	Identity   *identity.Detector
	Cache      *cache.Store // optional persistent embedding cache
	BatchSize  int          // max texts per inference call; 0 uses the configured default
}

// Engine is safe for concurrent use once constructed. The embedder is the
// only collaborator with external state; batches serialize through its
// session internally.
type Engine struct {
	thresholds config.ThresholdConfig
	norm       *normalizer.Normalizer
	overrides  *overrides.Table
	categories *categorizer.Categorizer
	identity   *identity.Detector
	cache      *cache.Store
	emb        embedder.Embedder
	batchSize  int
}

// New builds an Engine. emb may be nil, in which case semantic matching is
// disabled and questions that fail both lexical thresholds tier as None.
func New(cfg Config, emb embedder.Embedder) (*Engine, error) {
	t := backfillThresholds(cfg.Thresholds)
	if t.TFIDFLow >= t.TFIDFHigh {
		return nil, fmt.Errorf("engine: low lexical threshold %v must be below high %v", t.TFIDFLow, t.TFIDFHigh)
	}
	batch := cfg.BatchSize
	if batch < 1 {
		batch = config.Load().Engine.BatchSize
	}
	e := &Engine{
		thresholds: t,
		norm:       cfg.Normalizer,
		overrides:  cfg.Overrides,
		categories: cfg.Categories,
		identity:   cfg.Identity,
		cache:      cfg.Cache,
		emb:        emb,
		batchSize:  batch,
	}
	if e.norm == nil {
		e.norm = normalizer.Default()
	}
	if e.overrides == nil {
		e.overrides = overrides.Default()
	}
	if e.categories == nil {
		e.categories = categorizer.Default()
	}
	if e.identity == nil {
		e.identity = identity.Default()
	}
	return e, nil
}

// backfillThresholds fills any zero-valued threshold from the configured
// defaults. A partially populated ThresholdConfig would otherwise leave a
// zero bar that every positive score clears.
func backfillThresholds(t config.ThresholdConfig) config.ThresholdConfig {
	def := config.Load().Thresholds
	if t.TFIDFHigh == 0 {
		t.TFIDFHigh = def.TFIDFHigh
	}
	if t.TFIDFLow == 0 {
		t.TFIDFLow = def.TFIDFLow
	}
	if t.Semantic == 0 {
		t.Semantic = def.Semantic
	}
	if t.HeadingTFIDF == 0 {
		t.HeadingTFIDF = def.HeadingTFIDF
	}
	if t.HeadingSemantic == 0 {
		t.HeadingSemantic = def.HeadingSemantic
	}
	if t.HeadingCutoff == 0 {
		t.HeadingCutoff = def.HeadingCutoff
	}
	return t
}

// QuestionError records a per-question scoring failure. The question still
// gets a MatchResult; its tier just cannot come from the failed signal.
type QuestionError struct {
	QuestionID string
	Err        error
}

// BatchReport is the outcome of one Match call.
type BatchReport struct {
	Results    []model.MatchResult
	Errors     []QuestionError
	TierCounts map[model.Tier]int
	MatchRate  float64
}

// Match scores every question against the reference bank and assigns each a
// confidence tier. Results[i] corresponds to questions[i]. The TF-IDF space
// and reference embeddings are fit once per call against the given bank.
func (e *Engine) Match(ctx context.Context, questions []model.Question, bank []model.ReferenceEntry) (*BatchReport, error) {
	if len(bank) == 0 {
		return nil, ErrEmptyBank
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bankNorm := make([]string, len(bank))
	for i, entry := range bank {
		bankNorm[i] = e.norm.Normalize(entry.Heading)
	}

	lex, err := lexical.NewMatcher(bank, bankNorm)
	if err != nil {
		return nil, err
	}

	var sem *semantic.Matcher
	if e.emb != nil {
		sem, err = semantic.NewMatcher(e.emb, bank, bankNorm, e.cache, semantic.WithBatchSize(e.batchSize))
		if err != nil {
			return nil, err
		}
	}

	qNorm := make([]string, len(questions))
	overrideUID := make([]string, len(questions))
	overrideHit := make([]bool, len(questions))
	noText := make([]bool, len(questions))
	for i, q := range questions {
		if strings.TrimSpace(q.Text) == "" {
			noText[i] = true
			continue // excluded from scoring, reported below
		}
		if uid, ok := e.overrides.Resolve(q.Text); ok {
			overrideUID[i] = uid
			overrideHit[i] = true
			continue // no need to normalize or score
		}
		qNorm[i] = e.norm.Normalize(q.Text)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// One batched inference call covers every non-override question; empty
	// normalized texts resolve to no-match without touching the model.
	var semResults []semantic.Result
	if sem != nil {
		semResults = sem.MatchBatch(qNorm)
	}

	report := &BatchReport{
		Results:    make([]model.MatchResult, len(questions)),
		TierCounts: make(map[model.Tier]int, 5),
	}
	for i, q := range questions {
		if noText[i] {
			report.Results[i] = model.MatchResult{Tier: model.TierNone}
			report.TierCounts[model.TierNone]++
			report.Errors = append(report.Errors, QuestionError{QuestionID: q.ID, Err: ErrMissingText})
			slog.Warn("question has no text, excluded from scoring", "question_id", q.ID)
			continue
		}
		if overrideHit[i] {
			report.Results[i] = model.MatchResult{
				FinalUID:       overrideUID[i],
				Tier:           model.TierOverride,
				MatchedHeading: q.Text,
			}
			report.TierCounts[model.TierOverride]++
			continue
		}

		lexRes := lex.BestMatch(qNorm[i])
		var semRes semantic.Result
		if semResults != nil {
			semRes = semResults[i]
			if semRes.Err != nil {
				report.Errors = append(report.Errors, QuestionError{QuestionID: q.ID, Err: semRes.Err})
				slog.Warn("semantic scoring failed", "question_id", q.ID, "error", semRes.Err)
			}
		} else {
			semRes = semantic.Result{Index: -1}
		}

		res := e.decide(q.Text, lex, lexRes, sem, semRes)
		report.Results[i] = res
		report.TierCounts[res.Tier]++
	}

	report.MatchRate = MatchRate(report.Results, questions)
	return report, nil
}

// decide applies the tier precedence for one non-override question. Raw text
// longer than the heading cutoff (in runes) swaps in the heading thresholds:
// a lower lexical bar and a higher semantic bar.
func (e *Engine) decide(rawText string, lex *lexical.Matcher, lexRes lexical.Result, sem *semantic.Matcher, semRes semantic.Result) model.MatchResult {
	t := e.thresholds
	lexHigh, lexLow, semBar := t.TFIDFHigh, t.TFIDFLow, t.Semantic
	if utf8.RuneCountInString(rawText) > t.HeadingCutoff {
		lexHigh, lexLow, semBar = t.HeadingTFIDF, t.HeadingTFIDF, t.HeadingSemantic
	}

	var res model.MatchResult
	if lexRes.Index >= 0 {
		score := lexRes.Score
		res.LexicalScore = &score
	}
	if semRes.Index >= 0 {
		score := semRes.Score
		res.SemanticScore = &score
	}

	switch {
	case lexRes.Index >= 0 && lexRes.Score >= lexHigh:
		entry := lex.Entry(lexRes.Index)
		res.FinalUID = entry.UID
		res.MatchedHeading = entry.Heading
		res.Tier = model.TierHighLexical
	case lexRes.Index >= 0 && lexRes.Score >= lexLow:
		entry := lex.Entry(lexRes.Index)
		res.FinalUID = entry.UID
		res.MatchedHeading = entry.Heading
		res.Tier = model.TierLowLexical
	case semRes.Index >= 0 && semRes.Score >= semBar:
		entry := sem.Entry(semRes.Index)
		res.FinalUID = entry.UID
		res.MatchedHeading = entry.Heading
		res.Tier = model.TierSemantic
	default:
		res.Tier = model.TierNone
	}
	return res
}

// Categorize classifies a survey title along the stage, respondent type,
// and programme taxonomies.
func (e *Engine) Categorize(surveyTitle string) model.CategoryResult {
	return e.categories.Categorize(surveyTitle)
}

// DetectIdentity flags question text that collects personal information.
func (e *Engine) DetectIdentity(text string) model.IdentityFlag {
	return e.identity.Detect(text)
}

// BuildRecords joins match results with category and identity columns into
// export rows. results[i] must correspond to questions[i].
func (e *Engine) BuildRecords(questions []model.Question, results []model.MatchResult) []model.MatchRecord {
	records := make([]model.MatchRecord, len(questions))
	for i, q := range questions {
		records[i] = model.MatchRecord{
			Question: q,
			Match:    results[i],
			Category: e.categories.Categorize(q.SurveyTitle),
			Identity: e.identity.Detect(q.Text),
		}
	}
	return records
}

// PartitionForExport splits rows into non-identity and identity groups for
// separate export destinations.
func (e *Engine) PartitionForExport(rows []model.MatchRecord) (nonIdentity, identity []model.MatchRecord) {
	return e.identity.Partition(rows)
}

// MatchRate is the percentage of matched questions among non-choice
// questions, rounded to one decimal. Choice rows are excluded from both
// numerator and denominator. An all-choice batch rates 0.
func MatchRate(results []model.MatchResult, questions []model.Question) float64 {
	var total, matched int
	for i, q := range questions {
		if q.IsChoice {
			continue
		}
		total++
		if results[i].Matched() {
			matched++
		}
	}
	if total == 0 {
		return 0
	}
	return math.Round(float64(matched)/float64(total)*1000) / 10
}

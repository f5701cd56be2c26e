// Package semantic scores questions against the reference bank by
// embedding-space cosine similarity.
//
// Reference embeddings are computed once per snapshot and reused. Question
// embeddings are resolved through a two-level cache (in-memory LRU, then the
// optional persistent store) keyed by exact normalized text, so an identical
// string is never re-embedded within or across batches.
package semantic

import (
	"errors"
	"fmt"
	"math"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/altum-analytics/uidmatch/internal/cache"
	"github.com/altum-analytics/uidmatch/internal/engine/embedder"
	"github.com/altum-analytics/uidmatch/internal/model"
)

const (
	lruSize          = 4096
	defaultBatchSize = 1000
)

// Result is the best reference candidate for one question. Err records a
// scoring failure for that question; Index is -1 when nothing scored.
type Result struct {
	Index int
	Score float64
	Err   error
}

// Matcher holds the reference snapshot embeddings. The snapshot is read-only
// after construction, so concurrent batches may share one Matcher.
type Matcher struct {
	emb       embedder.Embedder
	entries   []model.ReferenceEntry
	refVecs   [][]float32
	memo      *lru.Cache[string, []float32]
	store     *cache.Store // optional second-level cache, may be nil
	batchSize int
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithBatchSize caps how many texts a single inference call may carry.
// Larger miss lists are split into several calls.
func WithBatchSize(n int) Option {
	return func(m *Matcher) {
		if n > 0 {
			m.batchSize = n
		}
	}
}

// NewMatcher embeds the normalized reference corpus once. normalized[i] must
// be the normalized form of entries[i].Heading; empty normalized headings get
// a zero vector and can never win a match.
func NewMatcher(emb embedder.Embedder, entries []model.ReferenceEntry, normalized []string, store *cache.Store, opts ...Option) (*Matcher, error) {
	if len(entries) != len(normalized) {
		return nil, errors.New("semantic: entries and normalized corpus length mismatch")
	}
	memo, err := lru.New[string, []float32](lruSize)
	if err != nil {
		return nil, fmt.Errorf("semantic: %w", err)
	}

	m := &Matcher{emb: emb, entries: entries, memo: memo, store: store, batchSize: defaultBatchSize}
	for _, opt := range opts {
		opt(m)
	}
	m.refVecs = make([][]float32, len(normalized))

	vecs, errs := m.resolveBatch(normalized)
	for i := range normalized {
		if errs[i] != nil {
			return nil, fmt.Errorf("semantic: embed reference corpus: %w", errs[i])
		}
		m.refVecs[i] = vecs[i]
	}
	return m, nil
}

// MatchBatch scores a batch of normalized question texts, one Result per
// input in input order. Texts needing inference are embedded in a single
// batched call; failures are recorded per-result, never propagated, so one
// bad row cannot fail the batch.
func (m *Matcher) MatchBatch(normalizedTexts []string) []Result {
	vecs, errs := m.resolveBatch(normalizedTexts)

	results := make([]Result, len(normalizedTexts))
	for i := range normalizedTexts {
		if errs[i] != nil {
			results[i] = Result{Index: -1, Err: errs[i]}
			continue
		}
		results[i] = m.best(vecs[i])
	}
	return results
}

// Entry returns the reference entry at index i.
func (m *Matcher) Entry(i int) model.ReferenceEntry {
	return m.entries[i]
}

// best scans the reference snapshot for the highest cosine score, breaking
// exact ties by authority count then lexicographically smaller heading.
func (m *Matcher) best(vec []float32) Result {
	if vec == nil {
		return Result{Index: -1}
	}
	best := Result{Index: -1}
	for i, ref := range m.refVecs {
		if ref == nil {
			continue
		}
		score := cosineSimilarity(vec, ref)
		if score <= 0 {
			continue
		}
		switch {
		case best.Index == -1 || score > best.Score:
			best = Result{Index: i, Score: score}
		case score == best.Score && model.MoreAuthoritative(m.entries[i], m.entries[best.Index]):
			best.Index = i
		}
	}
	return best
}

// resolveBatch returns one vector (or error) per text. Empty texts resolve
// to a nil vector with no error: they are unmatchable, not failures.
func (m *Matcher) resolveBatch(texts []string) ([][]float32, []error) {
	vecs := make([][]float32, len(texts))
	errs := make([]error, len(texts))

	// Positions of the first occurrence of each text still needing inference.
	missIdx := make(map[string]int)
	var misses []string

	for i, text := range texts {
		if text == "" {
			continue
		}
		if v, ok := m.memo.Get(text); ok {
			vecs[i] = v
			continue
		}
		if m.store != nil {
			if v, ok, err := m.store.Get(m.emb.ModelID(), text); err == nil && ok {
				m.memo.Add(text, v)
				vecs[i] = v
				continue
			}
		}
		if _, dup := missIdx[text]; !dup {
			missIdx[text] = i
			misses = append(misses, text)
		}
	}

	if len(misses) > 0 {
		// Inference runs in batchSize chunks so one call never carries an
		// unbounded tensor. A failed chunk errs only its own texts.
		failed := make(map[string]error)
		for start := 0; start < len(misses); start += m.batchSize {
			chunk := misses[start:min(start+m.batchSize, len(misses))]
			fresh, err := m.emb.EmbedBatch(chunk)
			if err != nil {
				for _, text := range chunk {
					failed[text] = err
				}
				continue
			}
			for j, text := range chunk {
				m.memo.Add(text, fresh[j])
				if m.store != nil {
					if perr := m.store.Put(m.emb.ModelID(), text, fresh[j]); perr != nil {
						// Cache persistence is best-effort; the vector is good.
						continue
					}
				}
			}
		}
		for i, text := range texts {
			if vecs[i] != nil || text == "" {
				continue
			}
			if err, ok := failed[text]; ok {
				errs[i] = err
				continue
			}
			if v, ok := m.memo.Get(text); ok {
				vecs[i] = v
			}
		}
	}

	return vecs, errs
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

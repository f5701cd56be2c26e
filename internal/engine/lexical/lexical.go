// Package lexical scores questions against the reference bank by TF-IDF
// cosine similarity.
//
// The vector space is fit once per reference snapshot: term document
// frequencies come from the normalized reference corpus only, so scores stay
// comparable run-to-run against the same snapshot. Questions are projected
// into that fixed space; terms unseen in the corpus contribute nothing.
package lexical

import (
	"errors"
	"math"
	"strings"

	"github.com/altum-analytics/uidmatch/internal/model"
)

// ErrCorpusTooSmall reports a reference corpus with fewer than two distinct
// terms. That is a configuration problem, not a no-match condition: scoring
// against such a corpus would silently return zero for everything.
var ErrCorpusTooSmall = errors.New("lexical: reference corpus has fewer than 2 distinct terms")

// sparse is an L2-normalized term-weight vector keyed by vocabulary index.
type sparse map[int]float64

// Matcher holds the fitted vector space and reference vectors. Read-only
// after construction; safe for concurrent batches.
type Matcher struct {
	entries []model.ReferenceEntry
	vocab   map[string]int
	idf     []float64
	refVecs []sparse
}

// Result is the best reference candidate for one question.
type Result struct {
	Index int // index into the reference entries, -1 when nothing scored
	Score float64
}

// NewMatcher fits the TF-IDF space over the normalized reference corpus.
// normalized[i] must be the normalized form of entries[i].Heading.
func NewMatcher(entries []model.ReferenceEntry, normalized []string) (*Matcher, error) {
	if len(entries) != len(normalized) {
		return nil, errors.New("lexical: entries and normalized corpus length mismatch")
	}

	// Document frequency per term.
	df := make(map[string]int)
	docs := make([][]string, len(normalized))
	for i, text := range normalized {
		terms := strings.Fields(text)
		docs[i] = terms
		seen := make(map[string]struct{}, len(terms))
		for _, term := range terms {
			if _, dup := seen[term]; dup {
				continue
			}
			seen[term] = struct{}{}
			df[term]++
		}
	}
	if len(df) < 2 {
		return nil, ErrCorpusTooSmall
	}

	vocab := make(map[string]int, len(df))
	idf := make([]float64, 0, len(df))
	n := float64(len(normalized))
	for term, count := range df {
		vocab[term] = len(idf)
		// Smoothed IDF: ln((1+N)/(1+df)) + 1, never zero or negative.
		idf = append(idf, math.Log((1+n)/(1+float64(count)))+1)
	}

	m := &Matcher{entries: entries, vocab: vocab, idf: idf}
	m.refVecs = make([]sparse, len(docs))
	for i, terms := range docs {
		m.refVecs[i] = m.vectorize(terms)
	}
	return m, nil
}

// BestMatch returns the reference entry most similar to the normalized
// question text. Result.Index is -1 for an empty or entirely out-of-vocabulary
// question. Ties on the top score go to the entry with higher authority
// count, then the lexicographically smaller heading.
func (m *Matcher) BestMatch(normalizedText string) Result {
	vec := m.vectorize(strings.Fields(normalizedText))
	if len(vec) == 0 {
		return Result{Index: -1}
	}

	best := Result{Index: -1}
	for i, ref := range m.refVecs {
		score := dot(vec, ref)
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

// Entry returns the reference entry at index i.
func (m *Matcher) Entry(i int) model.ReferenceEntry {
	return m.entries[i]
}

// vectorize builds the L2-normalized TF-IDF vector for a term sequence,
// restricted to the fitted vocabulary.
func (m *Matcher) vectorize(terms []string) sparse {
	if len(terms) == 0 {
		return nil
	}
	vec := make(sparse)
	for _, term := range terms {
		if idx, ok := m.vocab[term]; ok {
			vec[idx]++
		}
	}
	if len(vec) == 0 {
		return nil
	}
	var norm float64
	for idx, tf := range vec {
		w := tf * m.idf[idx]
		vec[idx] = w
		norm += w * w
	}
	norm = math.Sqrt(norm)
	for idx := range vec {
		vec[idx] /= norm
	}
	return vec
}

// dot multiplies two L2-normalized sparse vectors, iterating the smaller one.
func dot(a, b sparse) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for idx, av := range a {
		if bv, ok := b[idx]; ok {
			sum += av * bv
		}
	}
	return sum
}

// Package normalizer canonicalizes question text before matching.
//
// The pipeline is fixed: lower-case, ordered synonym substitution, accent
// decomposition, removal of non-alphanumeric characters, whitespace collapse,
// then stopword and short-token filtering. Normalization is a projection:
// applying it twice yields the same string as applying it once.
package normalizer

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Synonym is one ordered substitution rule. Rules are applied as literal
// substring replacements in declaration order; a later rule may re-match
// text produced by an earlier one, so order is part of the contract.
type Synonym struct {
	From string
	To   string
}

// Normalizer holds the fixed synonym and stopword tables. Construct once and
// share; Normalize is safe for concurrent use.
type Normalizer struct {
	synonyms  []Synonym
	stopwords map[string]struct{}
}

const minTokenLen = 3

var (
	nonAlnum   = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
	whitespace = regexp.MustCompile(`\s+`)

	// Decompose accented letters and drop the combining marks, so "café"
	// reduces to "cafe" instead of losing the letter entirely.
	stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// New creates a Normalizer with the given tables. Synonym order is preserved.
func New(synonyms []Synonym, stopwords []string) *Normalizer {
	sw := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		sw[w] = struct{}{}
	}
	return &Normalizer{synonyms: synonyms, stopwords: sw}
}

// Default creates a Normalizer with the built-in synonym map and English
// stopword list.
func Default() *Normalizer {
	return New(DefaultSynonyms(), DefaultStopwords())
}

// Normalize canonicalizes text. It never fails: malformed input degrades to
// an empty string, which downstream matchers treat as unmatchable.
func (n *Normalizer) Normalize(text string) string {
	if text == "" || !utf8.ValidString(text) {
		return ""
	}

	s := strings.ToLower(text)

	for _, syn := range n.synonyms {
		s = strings.ReplaceAll(s, syn.From, syn.To)
	}

	if plain, _, err := transform.String(stripAccents, s); err == nil {
		s = plain
	}

	s = nonAlnum.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	words := strings.Split(s, " ")
	kept := words[:0]
	for _, w := range words {
		if utf8.RuneCountInString(w) < minTokenLen {
			continue
		}
		if _, stop := n.stopwords[w]; stop {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

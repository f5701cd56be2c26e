// Package identity flags questions that collect personally identifying
// information so export can route them separately.
package identity

import (
	"strings"

	"github.com/altum-analytics/uidmatch/internal/model"
)

// Keyword pairs an indicator phrase with the canonical label reported
// when the phrase is found. Several spelling variants share one label.
type Keyword struct {
	Phrase string
	Label  string
}

// Detector tests question text against an ordered keyword list. The
// first phrase found as a substring determines the reported label, so
// list order is part of the contract.
type Detector struct {
	keywords []Keyword
}

// New builds a Detector over the given keyword list. The slice is
// copied so callers cannot mutate the detector afterward.
func New(keywords []Keyword) *Detector {
	kws := make([]Keyword, len(keywords))
	copy(kws, keywords)
	return &Detector{keywords: kws}
}

// Detect reports whether the text collects identity information and,
// if so, the canonical label of the first matching phrase.
func (d *Detector) Detect(text string) model.IdentityFlag {
	lowered := strings.ToLower(text)
	for _, kw := range d.keywords {
		if strings.Contains(lowered, kw.Phrase) {
			return model.IdentityFlag{IsIdentity: true, Type: kw.Label}
		}
	}
	return model.IdentityFlag{}
}

// Partition splits rows into non-identity and identity groups,
// preserving input order within each group.
func (d *Detector) Partition(rows []model.MatchRecord) (nonIdentity, identity []model.MatchRecord) {
	for _, row := range rows {
		flag := d.Detect(row.Question.Text)
		row.Identity = flag
		if flag.IsIdentity {
			identity = append(identity, row)
		} else {
			nonIdentity = append(nonIdentity, row)
		}
	}
	return nonIdentity, identity
}

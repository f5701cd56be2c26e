package model

// ReferenceEntry is one row of the historical question bank: a distinct
// heading paired with its canonical UID. AuthorityCount is the number of
// historical observations backing the pairing (0 when the source does not
// report it) and is used only to break score ties.
type ReferenceEntry struct {
	Heading        string `json:"heading"`
	UID            string `json:"uid"`
	AuthorityCount int    `json:"authority_count,omitempty"`
}

// MoreAuthoritative reports whether a should win a score tie against b:
// higher authority count first, then lexicographically smaller heading.
// The ordering is total, so tie resolution is reproducible run-to-run.
func MoreAuthoritative(a, b ReferenceEntry) bool {
	if a.AuthorityCount != b.AuthorityCount {
		return a.AuthorityCount > b.AuthorityCount
	}
	return a.Heading < b.Heading
}

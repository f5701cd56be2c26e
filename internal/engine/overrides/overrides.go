// Package overrides implements the curated exact-text override table.
// A hit fully determines a question's UID and outranks every computed
// similarity signal.
package overrides

// Table maps raw question text to its authoritative UID. Lookup is exact:
// case, punctuation, and whitespace all count.
type Table struct {
	entries map[string]string
}

// New builds a Table from a raw-text -> UID mapping. The map is copied.
func New(entries map[string]string) *Table {
	m := make(map[string]string, len(entries))
	for k, v := range entries {
		m[k] = v
	}
	return &Table{entries: m}
}

// Resolve returns the override UID for raw question text, if present.
func (t *Table) Resolve(rawText string) (string, bool) {
	uid, ok := t.entries[rawText]
	return uid, ok
}

// Len returns the number of override entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// Default returns the shipped override table: the curated question-to-UID
// assignments treated as ground truth for this build.
func Default() *Table {
	return New(map[string]string{
		"On a scale of 0-10, how likely is it that you would recommend AMI to someone (a colleague, friend or other business?)": "1",
		"Do you (in general) feel more confident about your ability to raise capital for your business?":                        "38",
		"Have you set and shared your Growth Goal with AMI?":                                                                    "57",
		"What is your gender?":                                                                                                 "233",
		"What is your age?":                                                                                                    "234",
	})
}

package normalizer

import "testing"

func TestNormalizeBasic(t *testing.T) {
	n := Default()
	got := n.Normalize("What is your AGE?")
	if got != "age" {
		t.Fatalf("expected %q, got %q", "age", got)
	}
}

func TestNormalizeSynonymOrder(t *testing.T) {
	// "please select" rewrites to "what is" first; the later age rules then
	// re-match the produced text. Both ordered substitutions must apply.
	n := Default()
	got := n.Normalize("Please select your age")
	if got != "age" {
		t.Fatalf("expected %q, got %q", "age", got)
	}
}

func TestNormalizeCustomSynonymChain(t *testing.T) {
	// A later rule may consume output of an earlier rule.
	n := New([]Synonym{
		{"alpha", "bravo"},
		{"bravo", "charlie"},
	}, nil)
	if got := n.Normalize("alpha"); got != "charlie" {
		t.Fatalf("expected chained substitution to yield %q, got %q", "charlie", got)
	}

	// Reversed declaration order must change the outcome.
	rev := New([]Synonym{
		{"bravo", "charlie"},
		{"alpha", "bravo"},
	}, nil)
	if got := rev.Normalize("alpha"); got != "bravo" {
		t.Fatalf("expected reversed order to yield %q, got %q", "bravo", got)
	}
}

func TestNormalizePunctuationAndWhitespace(t *testing.T) {
	n := New(nil, nil)
	got := n.Normalize("  team---size!!   (confirmed)  ")
	if got != "teamsize confirmed" {
		t.Fatalf("expected %q, got %q", "teamsize confirmed", got)
	}
}

func TestNormalizeAccents(t *testing.T) {
	n := New(nil, nil)
	if got := n.Normalize("Café résumé"); got != "cafe resume" {
		t.Fatalf("expected %q, got %q", "cafe resume", got)
	}
}

func TestNormalizeShortTokensDropped(t *testing.T) {
	n := New(nil, nil)
	if got := n.Normalize("an id of x12 people"); got != "x12 people" {
		t.Fatalf("expected %q, got %q", "x12 people", got)
	}
}

func TestNormalizeStopwords(t *testing.T) {
	n := Default()
	if got := n.Normalize("What is the gender"); got != "gender" {
		t.Fatalf("expected %q, got %q", "gender", got)
	}
}

func TestNormalizeNeverFails(t *testing.T) {
	n := Default()
	cases := []string{
		"",
		"   ",
		"!!!???",
		"\x80\xfe invalid utf8",
		"a b c", // everything too short
	}
	for _, in := range cases {
		got := n.Normalize(in)
		if in == "" || got == "" {
			continue
		}
		t.Fatalf("Normalize(%q) = %q, expected empty", in, got)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := Default()
	inputs := []string{
		"What is your gender?",
		"Please select your age",
		"How many people report to you?",
		"On a scale of 0-10, how likely is it that you would recommend AMI?",
		"completely unrelated text string",
		"Café résumé — détails",
	}
	for _, in := range inputs {
		once := n.Normalize(in)
		twice := n.Normalize(once)
		if once != twice {
			t.Fatalf("not idempotent for %q: first=%q second=%q", in, once, twice)
		}
	}
}

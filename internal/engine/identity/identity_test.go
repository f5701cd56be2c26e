package identity

import (
	"testing"

	"github.com/altum-analytics/uidmatch/internal/model"
)

func TestDetectBasic(t *testing.T) {
	d := Default()
	cases := []struct {
		text  string
		want  bool
		label string
	}{
		{"What is your gender?", true, "gender"},
		{"Please enter your e-mail", true, "email"},
		{"Your surname", true, "last name"},
		{"What is your MOBILE number?", true, "phone number"},
		{"How satisfied are you with the programme?", false, ""},
		{"", false, ""},
	}
	for _, tc := range cases {
		got := d.Detect(tc.text)
		if got.IsIdentity != tc.want {
			t.Fatalf("Detect(%q): is_identity = %v, want %v", tc.text, got.IsIdentity, tc.want)
		}
		if got.Type != tc.label {
			t.Fatalf("Detect(%q): label = %q, want %q", tc.text, got.Type, tc.label)
		}
	}
}

func TestDetectFirstPhraseWins(t *testing.T) {
	d := Default()
	// "full name" precedes the bare "name" entry.
	if got := d.Detect("Full name of the applicant"); got.Type != "full name" {
		t.Fatalf("expected full name label, got %q", got.Type)
	}
	// "first name" and "last name" both present; first name is declared first.
	if got := d.Detect("First name and last name"); got.Type != "first name" {
		t.Fatalf("expected first name label, got %q", got.Type)
	}
}

func TestPartitionPreservesOrder(t *testing.T) {
	d := Default()
	rows := []model.MatchRecord{
		{Question: model.Question{ID: "1", Text: "What is your age?"}},
		{Question: model.Question{ID: "2", Text: "Rate the workshop"}},
		{Question: model.Question{ID: "3", Text: "Your email address"}},
		{Question: model.Question{ID: "4", Text: "Biggest challenge this quarter"}},
	}

	nonID, id := d.Partition(rows)

	if len(nonID) != 2 || len(id) != 2 {
		t.Fatalf("partition sizes = %d/%d, want 2/2", len(nonID), len(id))
	}
	if nonID[0].Question.ID != "2" || nonID[1].Question.ID != "4" {
		t.Fatalf("non-identity order wrong: %s, %s", nonID[0].Question.ID, nonID[1].Question.ID)
	}
	if id[0].Question.ID != "1" || id[1].Question.ID != "3" {
		t.Fatalf("identity order wrong: %s, %s", id[0].Question.ID, id[1].Question.ID)
	}
	if !id[0].Identity.IsIdentity || id[0].Identity.Type != "age" {
		t.Fatalf("expected age flag on first identity row, got %+v", id[0].Identity)
	}
	if rows[0].Identity.IsIdentity {
		t.Fatal("input slice must not be mutated")
	}
}

package categorizer

import "testing"

func TestCategorizeAllThreeTaxonomies(t *testing.T) {
	c := Default()
	got := c.Categorize("GYB Pulse Check Survey - Participant")

	if got.Stage != "Pulse Check Survey" {
		t.Fatalf("expected stage %q, got %q", "Pulse Check Survey", got.Stage)
	}
	if got.RespondentType != "Participant" {
		t.Fatalf("expected respondent %q, got %q", "Participant", got.RespondentType)
	}
	if got.Programme != "Grow Your Business (GYB)" {
		t.Fatalf("expected programme %q, got %q", "Grow Your Business (GYB)", got.Programme)
	}
}

func TestCategorizeDefaults(t *testing.T) {
	c := Default()
	got := c.Categorize("Quarterly newsletter signup")

	if got.Stage != "Other" {
		t.Fatalf("expected default stage Other, got %q", got.Stage)
	}
	if got.RespondentType != "Unclassified" {
		t.Fatalf("expected Unclassified respondent, got %q", got.RespondentType)
	}
	if got.Programme != "Unclassified" {
		t.Fatalf("expected Unclassified programme, got %q", got.Programme)
	}
}

func TestCategorizeCaseInsensitive(t *testing.T) {
	c := Default()
	if got := c.Categorize("LEARNING LAB FEEDBACK"); got.Stage != "LL Feedback Survey" {
		t.Fatalf("expected LL Feedback Survey, got %q", got.Stage)
	}
}

func TestDeclarationOrderBreaksTies(t *testing.T) {
	// "application" (Recruitment) and "review" (Progress Review) both match;
	// Recruitment is declared first and must win on every call.
	c := Default()
	for i := 0; i < 50; i++ {
		got := c.Categorize("Application review form")
		if got.Stage != "Recruitment Survey" {
			t.Fatalf("call %d: expected first-declared category, got %q", i, got.Stage)
		}
	}

	// Reordering the table must flip the outcome.
	reordered := Taxonomy{
		Default: "Other",
		Categories: []Category{
			{"Progress Review Survey", []string{"review"}},
			{"Recruitment Survey", []string{"application"}},
		},
	}
	if got := reordered.Classify("Application review form"); got != "Progress Review Survey" {
		t.Fatalf("expected reordered table to change outcome, got %q", got)
	}
}

func TestRespondentSubstringOrder(t *testing.T) {
	// "staff" (Team member) is declared before "manager" (Accountability
	// Partner); a title with both resolves to Team member.
	c := Default()
	got := c.Categorize("Staff and manager feedback")
	if got.RespondentType != "Team member" {
		t.Fatalf("expected Team member, got %q", got.RespondentType)
	}
}

package categorizer

// DefaultStages returns the survey stage taxonomy in its canonical
// declaration order.
func DefaultStages() Taxonomy {
	return Taxonomy{
		Default: "Other",
		Categories: []Category{
			{"Recruitment Survey", []string{"application", "apply", "applying", "candidate", "candidacy", "admission", "enrolment", "enrollment", "combined app"}},
			{"Pre-Programme Survey", []string{"pre programme", "pre-programme", "pre program", "pre-program", "before programme", "preparation", "prep"}},
			{"LL Feedback Survey", []string{"ll feedback", "learning lab", "in-person", "multilingual"}},
			{"Pulse Check Survey", []string{"pulse", "check-in", "checkin", "pulse check"}},
			{"Progress Review Survey", []string{"progress", "review", "assessment", "evaluation", "mid-point", "checkpoint", "interim"}},
			{"Growth Goal Reflection", []string{"growth goal", "post-ll", "reflection"}},
			{"AP Survey", []string{"ap survey", "accountability partner", "ap post"}},
			{"Longitudinal Survey", []string{"longitudinal", "impact", "annual impact"}},
			{"CEO/Client Lead Survey", []string{"ceo", "client lead", "clientlead"}},
			{"Change Challenge Survey", []string{"change challenge"}},
			{"Organisational Practices Survey", []string{"organisational practices", "organizational practices"}},
			{"Post-bootcamp Feedback Survey", []string{"post bootcamp", "bootcamp feedback"}},
			{"Set your goal post LL", []string{"set your goal", "post ll"}},
			{"Other", []string{"drop-out", "attrition", "finance link", "mentorship application"}},
		},
	}
}

// DefaultRespondentTypes returns the respondent type taxonomy.
func DefaultRespondentTypes() Taxonomy {
	return Taxonomy{
		Default: "Unclassified",
		Categories: []Category{
			{"Participant", []string{"participant", "learner", "student", "individual", "person"}},
			{"Business", []string{"business", "enterprise", "company", "entrepreneur", "owner"}},
			{"Team member", []string{"team member", "staff", "employee", "worker"}},
			{"Accountability Partner", []string{"accountability partner", "ap", "manager", "supervisor"}},
			{"Client Lead", []string{"client lead", "ceo", "executive", "leadership"}},
			{"Managers", []string{"managers", "management", "supervisor"}},
		},
	}
}

// DefaultProgrammes returns the programme taxonomy.
func DefaultProgrammes() Taxonomy {
	return Taxonomy{
		Default: "Unclassified",
		Categories: []Category{
			{"Grow Your Business (GYB)", []string{"gyb", "grow your business", "grow business"}},
			{"Micro Enterprise Accelerator (MEA)", []string{"mea", "micro enterprise", "accelerator"}},
			{"Start your Business (SYB)", []string{"syb", "start your business", "start business"}},
			{"Leadership Development Programme (LDP)", []string{"ldp", "leadership development", "leadership"}},
			{"Management Development Programme (MDP)", []string{"mdp", "management development", "management"}},
			{"Thrive at Work (T@W)", []string{"taw", "thrive at work", "thrive", "t@w"}},
			{"Bootcamp", []string{"bootcamp", "boot camp", "survival bootcamp", "work readiness", "get set up"}},
			{"Academy", []string{"academy", "care academy"}},
			{"Finance Link", []string{"finance link"}},
			{"Custom", []string{"winning behaviours", "custom", "learning needs"}},
			{"ALL", []string{"all programmes", "template", "multilingual"}},
		},
	}
}

package identity

// DefaultKeywords returns the identity indicator list in its canonical
// order. More specific phrases come before generic ones ("full name"
// before "name") so the reported label stays precise.
func DefaultKeywords() []Keyword {
	return []Keyword{
		{"full name", "full name"},
		{"first name", "first name"},
		{"last name", "last name"},
		{"e-mail", "email"},
		{"company", "company"},
		{"gender", "gender"},
		{"country", "country"},
		{"age", "age"},
		{"title", "title"},
		{"role", "role"},
		{"phone number", "phone number"},
		{"location", "location"},
		{"pin", "pin"},
		{"passport", "passport"},
		{"date of birth", "date of birth"},
		{"uct", "uct"},
		{"student number", "student number"},
		{"department", "department"},
		{"region", "region"},
		{"city", "city"},
		{"id number", "id number"},
		{"marital status", "marital status"},
		{"education level", "education level"},
		{"english proficiency", "english proficiency"},
		{"email", "email"},
		{"surname", "last name"},
		{"name", "name"},
		{"contact", "contact"},
		{"address", "address"},
		{"mobile", "phone number"},
		{"telephone", "phone number"},
		{"qualification", "qualification"},
		{"degree", "degree"},
		{"identification", "identification"},
		{"birth", "date of birth"},
		{"married", "marital status"},
		{"single", "marital status"},
		{"language", "language"},
		{"sex", "gender"},
		{"position", "position"},
		{"job", "job"},
		{"organization", "organization"},
		{"organisation", "organization"},
	}
}

// Default returns a Detector over DefaultKeywords.
func Default() *Detector {
	return New(DefaultKeywords())
}

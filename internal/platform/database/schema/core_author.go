package schema

// RefAuthorTable represents the 'core.author' table
type RefAuthorTable struct {
	Table            string
	ID               string
	Name             string
	NameRomanized    string
	Biography        string
	OriginalLanguage string
	BirthDate        string
	DeathDate        string
	Nationality      string
	ProfileImageURL  string
	IsActive         string
	CreatedAt        string
	UpdatedAt        string
}

// RefAuthor is the schema definition for core.author
var RefAuthor = RefAuthorTable{
	Table:            "core.author",
	ID:               "id",
	Name:             "name",
	NameRomanized:    "nameromanized",
	Biography:        "biography",
	OriginalLanguage: "originallanguage",
	BirthDate:        "birthdate",
	DeathDate:        "deathdate",
	Nationality:      "nationality",
	ProfileImageURL:  "profileimageurl",
	IsActive:         "isactive",
	CreatedAt:        "createdat",
	UpdatedAt:        "updatedat",
}

func (t RefAuthorTable) Columns() []string {
	return []string{t.ID, t.Name, t.NameRomanized, t.Biography, t.OriginalLanguage, t.BirthDate, t.DeathDate, t.Nationality, t.ProfileImageURL, t.IsActive, t.CreatedAt, t.UpdatedAt}
}

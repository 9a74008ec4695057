package schema

// CoreNovelTranslationTable represents the 'core.noveltranslation' table
type CoreNovelTranslationTable struct {
	Table        string
	ID           string
	NovelID      string
	LanguageCode string
	Title        string
	Synopsis     string
	TranslatorID string
	CreatedAt    string
	UpdatedAt    string
}

// CoreNovelTranslation is the schema definition for core.noveltranslation
var CoreNovelTranslation = CoreNovelTranslationTable{
	Table:        "core.noveltranslation",
	ID:           "id",
	NovelID:      "novelid",
	LanguageCode: "languagecode",
	Title:        "title",
	Synopsis:     "synopsis",
	TranslatorID: "translatorid",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}

func (t CoreNovelTranslationTable) Columns() []string {
	return []string{t.ID, t.NovelID, t.LanguageCode, t.Title, t.Synopsis, t.TranslatorID, t.CreatedAt, t.UpdatedAt}
}

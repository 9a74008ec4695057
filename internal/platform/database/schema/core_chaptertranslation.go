package schema

// CoreChapterTranslationTable represents the 'core.chaptertranslation' table
type CoreChapterTranslationTable struct {
	Table        string
	ID           string
	ChapterID    string
	LanguageCode string
	Title        string
	Content      string
	TranslatorID string
	CreatedAt    string
	UpdatedAt    string
}

// CoreChapterTranslation is the schema definition for core.chaptertranslation
var CoreChapterTranslation = CoreChapterTranslationTable{
	Table:        "core.chaptertranslation",
	ID:           "id",
	ChapterID:    "chapterid",
	LanguageCode: "languagecode",
	Title:        "title",
	Content:      "content",
	TranslatorID: "translatorid",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}

func (t CoreChapterTranslationTable) Columns() []string {
	return []string{t.ID, t.ChapterID, t.LanguageCode, t.Title, t.Content, t.TranslatorID, t.CreatedAt, t.UpdatedAt}
}

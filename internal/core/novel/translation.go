package novel

import "time"

// Translation overrides a novel's title and synopsis for one language.
// There is at most one row per (novel, language).
type Translation struct {
	ID           int       `json:"id"`
	NovelID      int       `json:"novel_id"`
	LanguageCode string    `json:"language_code"`
	Title        string    `json:"title"`
	Synopsis     *string   `json:"synopsis"`
	TranslatorID *string   `json:"translator_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TranslationInput is the payload of POST /novels/{id}/translations.
type TranslationInput struct {
	LanguageCode string  `json:"language_code"`
	Title        string  `json:"title"`
	Synopsis     *string `json:"synopsis"`
	TranslatorID *string `json:"translator_id"`
}

// TranslationUpdate is the payload of PUT /novels/{id}/translations/{code}.
type TranslationUpdate struct {
	Title        *string `json:"title"`
	Synopsis     *string `json:"synopsis"`
	TranslatorID *string `json:"translator_id"`
}

func (input TranslationUpdate) empty() bool {
	return input.Title == nil && input.Synopsis == nil && input.TranslatorID == nil
}

const (
	FieldLanguageCode = "language_code"
	FieldTranslatorID = "translator_id"
)

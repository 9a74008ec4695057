package chapter

import "time"

// Translation overrides a chapter's title and content for one language.
type Translation struct {
	ID           int       `json:"id"`
	ChapterID    int       `json:"chapter_id"`
	LanguageCode string    `json:"language_code"`
	Title        *string   `json:"title"`
	Content      string    `json:"content"`
	TranslatorID *string   `json:"translator_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TranslationInput is the payload of POST /chapters/{id}/translations.
type TranslationInput struct {
	LanguageCode string  `json:"language_code"`
	Title        *string `json:"title"`
	Content      string  `json:"content"`
	TranslatorID *string `json:"translator_id"`
}

// TranslationUpdate is the payload of PUT /chapters/{id}/translations/{code}.
type TranslationUpdate struct {
	Title        *string `json:"title"`
	Content      *string `json:"content"`
	TranslatorID *string `json:"translator_id"`
}

func (input TranslationUpdate) empty() bool {
	return input.Title == nil && input.Content == nil && input.TranslatorID == nil
}

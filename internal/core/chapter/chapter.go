package chapter

import (
	"time"

	"github.com/nathanpasca/manov-sub001/internal/core/locale"
	"github.com/nathanpasca/manov-sub001/internal/core/novel"
)

// # Domain Entities

// Chapter is one installment of a novel. Numbers are floats so that
// interludes can be slotted in as 10.5.
type Chapter struct {
	ID                  int            `json:"id"`
	NovelID             int            `json:"novel_id"`
	Novel               *novel.Summary `json:"novel,omitempty"`
	ChapterNumber       float64        `json:"chapter_number"`
	Title               *string        `json:"title"`
	Content             string         `json:"content,omitempty"`
	WordCount           *int           `json:"word_count"`
	IsPublished         bool           `json:"is_published"`
	PublishedAt         *time.Time     `json:"published_at"`
	TranslatorNotes     *string        `json:"translator_notes"`
	OriginalChapterURL  *string        `json:"original_chapter_url"`
	ReadingTimeEstimate *int           `json:"reading_time_estimate"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`

	// OriginalLanguage is the parent novel's language, used for resolution.
	OriginalLanguage string `json:"-"`

	Localization *locale.Resolution `json:"localization,omitempty"`
}

// Summary is the compact chapter shape embedded by reading progress.
type Summary struct {
	ID            int     `json:"id"`
	ChapterNumber float64 `json:"chapter_number"`
	Title         *string `json:"title"`
}

// Filter holds the query-string parameters of GET /novels/{id}/chapters.
type Filter struct {
	IsPublished *bool  `query:"isPublished"`
	SortBy      string `query:"sortBy"`
	SortOrder   string `query:"sortOrder"`
}

// CreateInput is the payload of POST /novels/{id}/chapters.
type CreateInput struct {
	ChapterNumber       *float64 `json:"chapter_number"`
	Title               *string  `json:"title"`
	Content             string   `json:"content"`
	WordCount           *int     `json:"word_count"`
	IsPublished         *bool    `json:"is_published"`
	PublishedAt         *string  `json:"published_at"`
	TranslatorNotes     *string  `json:"translator_notes"`
	OriginalChapterURL  *string  `json:"original_chapter_url"`
	ReadingTimeEstimate *int     `json:"reading_time_estimate"`
}

// UpdateInput is the payload of PUT /chapters/{id}. Nil fields are left untouched.
type UpdateInput struct {
	ChapterNumber       *float64 `json:"chapter_number"`
	Title               *string  `json:"title"`
	Content             *string  `json:"content"`
	WordCount           *int     `json:"word_count"`
	IsPublished         *bool    `json:"is_published"`
	PublishedAt         *string  `json:"published_at"`
	TranslatorNotes     *string  `json:"translator_notes"`
	OriginalChapterURL  *string  `json:"original_chapter_url"`
	ReadingTimeEstimate *int     `json:"reading_time_estimate"`
}

func (input UpdateInput) empty() bool {
	return input.ChapterNumber == nil && input.Title == nil && input.Content == nil &&
		input.WordCount == nil && input.IsPublished == nil && input.PublishedAt == nil &&
		input.TranslatorNotes == nil && input.OriginalChapterURL == nil && input.ReadingTimeEstimate == nil
}

// Global field names for validation
const (
	FieldChapterNumber       = "chapter_number"
	FieldTitle               = "title"
	FieldContent             = "content"
	FieldWordCount           = "word_count"
	FieldPublishedAt         = "published_at"
	FieldTranslatorNotes     = "translator_notes"
	FieldOriginalChapterURL  = "original_chapter_url"
	FieldReadingTimeEstimate = "reading_time_estimate"
	FieldLanguageCode        = "language_code"
	FieldTranslatorID        = "translator_id"
	FieldSortBy              = "sortBy"
)

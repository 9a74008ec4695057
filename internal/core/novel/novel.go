/*
Package novel manages the novel catalogue and its per-language translations.

A novel is written in an original language. Translation rows override the
title and synopsis for one language each; reads that carry ?lang= are
resolved through [locale.Resolve] and report the outcome in the
"localization" field of the response.
*/
package novel

import (
	"time"

	"github.com/nathanpasca/manov-sub001/internal/core/author"
	"github.com/nathanpasca/manov-sub001/internal/core/locale"
)

// # Lifecycle Enums

// PublicationStatus tracks the release state of the original work.
type PublicationStatus string

const (
	PublicationOngoing   PublicationStatus = "ONGOING"
	PublicationCompleted PublicationStatus = "COMPLETED"
	PublicationHiatus    PublicationStatus = "HIATUS"
	PublicationDropped   PublicationStatus = "DROPPED"
)

// PublicationStatuses lists every accepted [PublicationStatus].
func PublicationStatuses() []string {
	return []string{string(PublicationOngoing), string(PublicationCompleted), string(PublicationHiatus), string(PublicationDropped)}
}

// TranslationStatus tracks the progress of the platform's translation effort.
type TranslationStatus string

const (
	TranslationActive    TranslationStatus = "ACTIVE"
	TranslationPaused    TranslationStatus = "PAUSED"
	TranslationCompleted TranslationStatus = "COMPLETED"
	TranslationDropped   TranslationStatus = "DROPPED"
)

// TranslationStatuses lists every accepted [TranslationStatus].
func TranslationStatuses() []string {
	return []string{string(TranslationActive), string(TranslationPaused), string(TranslationCompleted), string(TranslationDropped)}
}

// # Domain Entities

// Novel is the central catalogue entity.
type Novel struct {
	ID                int               `json:"id"`
	Slug              string            `json:"slug"`
	Title             string            `json:"title"`
	TitleTranslated   *string           `json:"title_translated"`
	AuthorID          int               `json:"author_id"`
	Author            *author.Summary   `json:"author,omitempty"`
	OriginalLanguage  string            `json:"original_language"`
	Synopsis          *string           `json:"synopsis"`
	CoverImageURL     *string           `json:"cover_image_url"`
	SourceURL         *string           `json:"source_url"`
	PublicationStatus PublicationStatus `json:"publication_status"`
	TranslationStatus TranslationStatus `json:"translation_status"`
	GenreTags         []string          `json:"genre_tags"`
	TotalChapters     *int              `json:"total_chapters"`
	ViewCount         int               `json:"view_count"`
	FavoriteCount     int               `json:"favorite_count"`
	AverageRating     *float64          `json:"average_rating"`
	FirstPublishedAt  *time.Time        `json:"first_published_at"`
	IsActive          bool              `json:"is_active"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`

	// Localization is set only when the caller asked for a language.
	Localization *locale.Resolution `json:"localization,omitempty"`
}

// Summary is the compact novel shape embedded by favorites and reading progress.
type Summary struct {
	ID            int     `json:"id"`
	Slug          string  `json:"slug"`
	Title         string  `json:"title"`
	CoverImageURL *string `json:"cover_image_url"`
}

// # Query Models

// Filter holds the query-string parameters of GET /novels.
type Filter struct {
	IsActive          *bool  `query:"isActive"`
	PublicationStatus string `query:"publicationStatus"`
	OriginalLanguage  string `query:"originalLanguage"`
	Genre             string `query:"genre"`
	AuthorID          int    `query:"authorId"`
	SortBy            string `query:"sortBy"`
	SortOrder         string `query:"sortOrder"`
}

// # Write Models

// CreateInput is the payload of POST /novels.
type CreateInput struct {
	Title             string   `json:"title"`
	TitleTranslated   *string  `json:"title_translated"`
	AuthorID          int      `json:"author_id"`
	OriginalLanguage  string   `json:"original_language"`
	Synopsis          *string  `json:"synopsis"`
	CoverImageURL     *string  `json:"cover_image_url"`
	SourceURL         *string  `json:"source_url"`
	PublicationStatus *string  `json:"publication_status"`
	TranslationStatus *string  `json:"translation_status"`
	GenreTags         []string `json:"genre_tags"`
	TotalChapters     *int     `json:"total_chapters"`
	FirstPublishedAt  *string  `json:"first_published_at"`
	IsActive          *bool    `json:"is_active"`
}

// UpdateInput is the payload of PUT /novels/{id}. Nil fields are left untouched.
type UpdateInput struct {
	Title             *string   `json:"title"`
	TitleTranslated   *string   `json:"title_translated"`
	AuthorID          *int      `json:"author_id"`
	OriginalLanguage  *string   `json:"original_language"`
	Synopsis          *string   `json:"synopsis"`
	CoverImageURL     *string   `json:"cover_image_url"`
	SourceURL         *string   `json:"source_url"`
	PublicationStatus *string   `json:"publication_status"`
	TranslationStatus *string   `json:"translation_status"`
	GenreTags         *[]string `json:"genre_tags"`
	TotalChapters     *int      `json:"total_chapters"`
	FirstPublishedAt  *string   `json:"first_published_at"`
	IsActive          *bool     `json:"is_active"`
}

func (input UpdateInput) empty() bool {
	return input.Title == nil && input.TitleTranslated == nil && input.AuthorID == nil &&
		input.OriginalLanguage == nil && input.Synopsis == nil && input.CoverImageURL == nil &&
		input.SourceURL == nil && input.PublicationStatus == nil && input.TranslationStatus == nil &&
		input.GenreTags == nil && input.TotalChapters == nil && input.FirstPublishedAt == nil &&
		input.IsActive == nil
}

// Global field names for validation
const (
	FieldTitle             = "title"
	FieldTitleTranslated   = "title_translated"
	FieldAuthorID          = "author_id"
	FieldOriginalLanguage  = "original_language"
	FieldSynopsis          = "synopsis"
	FieldCoverImageURL     = "cover_image_url"
	FieldSourceURL         = "source_url"
	FieldPublicationStatus = "publication_status"
	FieldTranslationStatus = "translation_status"
	FieldGenreTags         = "genre_tags"
	FieldTotalChapters     = "total_chapters"
	FieldFirstPublishedAt  = "first_published_at"
	FieldSortBy            = "sortBy"
	FieldSortOrder         = "sortOrder"
)

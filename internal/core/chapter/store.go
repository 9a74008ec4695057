package chapter

import (
	"context"

	"github.com/nathanpasca/manov-sub001/pkg/query"
)

// # Chapter Data Access

// Repository defines the data access contract for chapters and their translations.
type Repository interface {

	/*
		ListChapters returns one page of a novel's chapters without their content.

		Parameters:
		  - context: context.Context
		  - novelID: int
		  - filter: Filter (publish state)
		  - sort: query.Sort
		  - limit: int
		  - offset: int

		Returns:
		  - []*Chapter: Chapter metadata
		  - int: Total chapters matching the filter
		  - error: Database retrieval failures
	*/
	ListChapters(context context.Context, novelID int, filter Filter, sort query.Sort, limit, offset int) ([]*Chapter, int, error)

	GetChapter(context context.Context, id int) (*Chapter, error)
	GetChapterByNumber(context context.Context, novelID int, number float64) (*Chapter, error)

	// CreateChapter returns a 409 AppError when the number is taken in the novel.
	CreateChapter(context context.Context, chapter *Chapter) error
	UpdateChapter(context context.Context, chapter *Chapter) error
	DeleteChapter(context context.Context, id int) error

	// # Translations

	ListTranslations(context context.Context, chapterID int) ([]*Translation, error)
	ListTranslationsFor(context context.Context, chapterIDs []int) (map[int][]*Translation, error)
	GetTranslation(context context.Context, chapterID int, languageCode string) (*Translation, error)
	CreateTranslation(context context.Context, translation *Translation) error
	UpdateTranslation(context context.Context, translation *Translation) error
	DeleteTranslation(context context.Context, chapterID int, languageCode string) error
}

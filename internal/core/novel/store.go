package novel

import (
	"context"

	"github.com/nathanpasca/manov-sub001/pkg/query"
)

// # Novel Data Access

// Repository defines the data access contract for novels and their translations.
type Repository interface {

	/*
		ListNovels returns a filtered, sorted page of novels and the total count.

		Parameters:
		  - context: context.Context
		  - filter: Filter (isActive, status, language, genre, author)
		  - sort: query.Sort (already validated against the whitelist)
		  - limit: int
		  - offset: int

		Returns:
		  - []*Novel: Novels with the author summary embedded
		  - int: Total count matching filters
		  - error: Database retrieval failures
	*/
	ListNovels(context context.Context, filter Filter, sort query.Sort, limit, offset int) ([]*Novel, int, error)

	// GetNovel returns the novel with the given ID, or a 404 AppError.
	GetNovel(context context.Context, id int) (*Novel, error)

	// GetNovelBySlug returns the novel matching the unique slug, or a 404 AppError.
	GetNovelBySlug(context context.Context, slug string) (*Novel, error)

	// SlugExists reports whether slug is taken by a novel other than excludeID.
	SlugExists(context context.Context, slug string, excludeID int) (bool, error)

	CreateNovel(context context.Context, novel *Novel) error
	UpdateNovel(context context.Context, novel *Novel) error

	// DeleteNovel removes the novel; chapters, translations and social rows cascade.
	DeleteNovel(context context.Context, id int) error

	// # Translations

	ListTranslations(context context.Context, novelID int) ([]*Translation, error)

	// ListTranslationsFor loads the translations of several novels in one round-trip.
	ListTranslationsFor(context context.Context, novelIDs []int) (map[int][]*Translation, error)

	GetTranslation(context context.Context, novelID int, languageCode string) (*Translation, error)
	CreateTranslation(context context.Context, translation *Translation) error
	UpdateTranslation(context context.Context, translation *Translation) error
	DeleteTranslation(context context.Context, novelID int, languageCode string) error
}

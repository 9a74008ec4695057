package novel_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathanpasca/manov-sub001/internal/core/author"
	"github.com/nathanpasca/manov-sub001/internal/core/novel"
	"github.com/nathanpasca/manov-sub001/internal/platform/apperr"
	"github.com/nathanpasca/manov-sub001/pkg/pointer"
	"github.com/nathanpasca/manov-sub001/pkg/query"
)

// # Fakes

type memoryRepository struct {
	mu           sync.Mutex
	novels       map[int]*novel.Novel
	translations map[int][]*novel.Translation
	nextID       int
	lastSort     query.Sort
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{novels: map[int]*novel.Novel{}, translations: map[int][]*novel.Translation{}}
}

func (repository *memoryRepository) ListNovels(_ context.Context, _ novel.Filter, sort query.Sort, _, _ int) ([]*novel.Novel, int, error) {
	repository.lastSort = sort
	out := []*novel.Novel{}
	for id := 1; id <= repository.nextID; id++ {
		if n, ok := repository.novels[id]; ok {
			copied := *n
			out = append(out, &copied)
		}
	}
	return out, len(out), nil
}

func (repository *memoryRepository) GetNovel(_ context.Context, id int) (*novel.Novel, error) {
	n, ok := repository.novels[id]
	if !ok {
		return nil, apperr.NotFound(fmt.Sprintf("Novel with ID %d", id))
	}
	copied := *n
	return &copied, nil
}

func (repository *memoryRepository) GetNovelBySlug(ctx context.Context, slug string) (*novel.Novel, error) {
	for id, n := range repository.novels {
		if n.Slug == slug {
			return repository.GetNovel(ctx, id)
		}
	}
	return nil, apperr.NotFound("Novel")
}

func (repository *memoryRepository) SlugExists(_ context.Context, slug string, excludeID int) (bool, error) {
	for id, n := range repository.novels {
		if n.Slug == slug && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (repository *memoryRepository) CreateNovel(_ context.Context, n *novel.Novel) error {
	repository.nextID++
	n.ID = repository.nextID
	n.CreatedAt, n.UpdatedAt = time.Now(), time.Now()
	copied := *n
	repository.novels[n.ID] = &copied
	return nil
}

func (repository *memoryRepository) UpdateNovel(_ context.Context, n *novel.Novel) error {
	copied := *n
	repository.novels[n.ID] = &copied
	return nil
}

func (repository *memoryRepository) DeleteNovel(_ context.Context, id int) error {
	if _, ok := repository.novels[id]; !ok {
		return apperr.NotFound("Novel")
	}
	delete(repository.novels, id)
	delete(repository.translations, id)
	return nil
}

func (repository *memoryRepository) ListTranslations(_ context.Context, novelID int) ([]*novel.Translation, error) {
	return repository.translations[novelID], nil
}

func (repository *memoryRepository) ListTranslationsFor(_ context.Context, novelIDs []int) (map[int][]*novel.Translation, error) {
	out := map[int][]*novel.Translation{}
	for _, id := range novelIDs {
		out[id] = repository.translations[id]
	}
	return out, nil
}

func (repository *memoryRepository) GetTranslation(_ context.Context, novelID int, code string) (*novel.Translation, error) {
	for _, t := range repository.translations[novelID] {
		if t.LanguageCode == code {
			copied := *t
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Translation")
}

func (repository *memoryRepository) CreateTranslation(_ context.Context, t *novel.Translation) error {
	for _, existing := range repository.translations[t.NovelID] {
		if existing.LanguageCode == t.LanguageCode {
			return apperr.Conflict("duplicate translation")
		}
	}
	copied := *t
	repository.translations[t.NovelID] = append(repository.translations[t.NovelID], &copied)
	return nil
}

func (repository *memoryRepository) UpdateTranslation(_ context.Context, t *novel.Translation) error {
	for i, existing := range repository.translations[t.NovelID] {
		if existing.LanguageCode == t.LanguageCode {
			copied := *t
			repository.translations[t.NovelID][i] = &copied
			return nil
		}
	}
	return apperr.NotFound("Translation")
}

func (repository *memoryRepository) DeleteTranslation(_ context.Context, novelID int, code string) error {
	rows := repository.translations[novelID]
	for i, existing := range rows {
		if existing.LanguageCode == code {
			repository.translations[novelID] = append(rows[:i], rows[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("Translation")
}

type staticAuthors map[int]bool

func (authors staticAuthors) Exists(_ context.Context, id int) (bool, error) { return authors[id], nil }

type staticLanguages map[string]bool

func (languages staticLanguages) IsActive(_ context.Context, code string) (bool, error) {
	return languages[code], nil
}

// recordingCache is an in-memory cache that remembers invalidated tags.
type recordingCache struct {
	entries     map[string]novel.Novel
	tags        map[string][]string
	invalidated []string
}

func newRecordingCache() *recordingCache {
	return &recordingCache{entries: map[string]novel.Novel{}, tags: map[string][]string{}}
}

func (c *recordingCache) Get(_ context.Context, key string, dest any) (bool, error) {
	n, ok := c.entries[key]
	if ok {
		*(dest.(*novel.Novel)) = n
	}
	return ok, nil
}

func (c *recordingCache) Set(_ context.Context, key string, value any, _ time.Duration, tags ...string) error {
	c.entries[key] = *(value.(*novel.Novel))
	for _, tag := range tags {
		c.tags[tag] = append(c.tags[tag], key)
	}
	return nil
}

func (c *recordingCache) Invalidate(_ context.Context, tags ...string) error {
	for _, tag := range tags {
		c.invalidated = append(c.invalidated, tag)
		for _, key := range c.tags[tag] {
			delete(c.entries, key)
		}
		delete(c.tags, tag)
	}
	return nil
}

type fixture struct {
	service *novel.Service
	repo    *memoryRepository
	cache   *recordingCache
}

func newFixture() fixture {
	repo := newMemoryRepository()
	c := newRecordingCache()
	service := novel.NewService(repo, staticAuthors{1: true, 2: true}, staticLanguages{"id": true, "en": true, "pt": true},
		c, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return fixture{service: service, repo: repo, cache: c}
}

func statusOf(err error) int {
	if ae := apperr.As(err); ae != nil {
		return ae.HTTPStatus
	}
	return 0
}

// # Tests

func TestService_CreateNovel(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	t.Run("defaults and slug", func(t *testing.T) {
		n, err := f.service.CreateNovel(ctx, novel.CreateInput{
			Title:            "전지적 독자 시점",
			TitleTranslated:  pointer.To("Omniscient Reader's Viewpoint"),
			AuthorID:         1,
			OriginalLanguage: "ko",
			GenreTags:        []string{" Fantasy ", "fantasy", "Action"},
		})
		require.NoError(t, err)
		assert.Equal(t, "omniscient-reader-s-viewpoint", n.Slug)
		assert.Equal(t, novel.PublicationOngoing, n.PublicationStatus)
		assert.Equal(t, novel.TranslationActive, n.TranslationStatus)
		assert.Equal(t, []string{"Fantasy", "Action"}, n.GenreTags)
		assert.True(t, n.IsActive)
	})

	t.Run("slug collisions get a counter", func(t *testing.T) {
		first, err := f.service.CreateNovel(ctx, novel.CreateInput{Title: "Solo Leveling", AuthorID: 1, OriginalLanguage: "ko"})
		require.NoError(t, err)
		second, err := f.service.CreateNovel(ctx, novel.CreateInput{Title: "Solo  Leveling!", AuthorID: 2, OriginalLanguage: "ko"})
		require.NoError(t, err)
		third, err := f.service.CreateNovel(ctx, novel.CreateInput{Title: "solo leveling", AuthorID: 2, OriginalLanguage: "ko"})
		require.NoError(t, err)

		assert.Equal(t, "solo-leveling", first.Slug)
		assert.Equal(t, "solo-leveling-2", second.Slug)
		assert.Equal(t, "solo-leveling-3", third.Slug)
	})

	t.Run("unsluggable title falls back to a timestamp", func(t *testing.T) {
		n, err := f.service.CreateNovel(ctx, novel.CreateInput{Title: "無職転生", AuthorID: 1, OriginalLanguage: "ja"})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(n.Slug, "novel-"), n.Slug)
	})

	t.Run("unknown author is a validation error", func(t *testing.T) {
		_, err := f.service.CreateNovel(ctx, novel.CreateInput{Title: "Orphan", AuthorID: 99, OriginalLanguage: "en"})
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
		assert.Equal(t, novel.FieldAuthorID, ae.Details[0].Field)
	})

	t.Run("field rules", func(t *testing.T) {
		_, err := f.service.CreateNovel(ctx, novel.CreateInput{
			Title:             "Bad",
			AuthorID:          1,
			OriginalLanguage:  "en",
			PublicationStatus: pointer.To("FINISHED"),
			CoverImageURL:     pointer.To("not a url"),
			GenreTags:         []string{strings.Repeat("g", 51)},
			TotalChapters:     pointer.To(-1),
			FirstPublishedAt:  pointer.To("last year"),
		})
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Len(t, ae.Details, 5)
	})
}

func TestService_UpdateNovel_Slug(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	n, err := f.service.CreateNovel(ctx, novel.CreateInput{Title: "Lord of Mysteries", AuthorID: 1, OriginalLanguage: "zh"})
	require.NoError(t, err)

	_, err = f.service.UpdateNovel(ctx, n.ID, novel.UpdateInput{})
	assert.Equal(t, http.StatusBadRequest, statusOf(err))

	updated, err := f.service.UpdateNovel(ctx, n.ID, novel.UpdateInput{Synopsis: pointer.To("Klein wakes up.")})
	require.NoError(t, err)
	assert.Equal(t, "lord-of-mysteries", updated.Slug)

	updated, err = f.service.UpdateNovel(ctx, n.ID, novel.UpdateInput{Title: pointer.To("Lord of the Mysteries")})
	require.NoError(t, err)
	assert.Equal(t, "lord-of-the-mysteries", updated.Slug)

	updated, err = f.service.UpdateNovel(ctx, n.ID, novel.UpdateInput{
		Title:           pointer.To("诡秘之主"),
		TitleTranslated: pointer.To("LotM"),
	})
	require.NoError(t, err)
	assert.Equal(t, "lotm", updated.Slug)
	assert.Equal(t, "诡秘之主", updated.Title)

	_, err = f.service.UpdateNovel(ctx, n.ID, novel.UpdateInput{AuthorID: pointer.To(42)})
	assert.Equal(t, http.StatusBadRequest, statusOf(err))

	assert.Contains(t, f.cache.invalidated, novel.CacheTag(n.ID))
}

func TestService_GetNovel_Localized(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	n, err := f.service.CreateNovel(ctx, novel.CreateInput{
		Title: "Overgeared", Synopsis: pointer.To("Grid becomes a legend."), AuthorID: 1, OriginalLanguage: "ko",
	})
	require.NoError(t, err)

	_, err = f.service.CreateTranslation(ctx, n.ID, novel.TranslationInput{LanguageCode: "ID", Title: "Overgeared (ID)"})
	require.NoError(t, err)

	_, err = f.service.CreateTranslation(ctx, n.ID, novel.TranslationInput{LanguageCode: "fr", Title: "Surarmé"})
	assert.Equal(t, http.StatusBadRequest, statusOf(err), "inactive language")

	_, err = f.service.CreateTranslation(ctx, n.ID, novel.TranslationInput{LanguageCode: "id", Title: "Again"})
	assert.Equal(t, http.StatusConflict, statusOf(err))

	t.Run("exact translation", func(t *testing.T) {
		got, err := f.service.GetNovel(ctx, fmt.Sprint(n.ID), "id")
		require.NoError(t, err)
		assert.Equal(t, "Overgeared (ID)", got.Title)
		assert.Equal(t, "Grid becomes a legend.", *got.Synopsis, "synopsis falls back when the translation has none")
		require.NotNil(t, got.Localization)
		assert.Equal(t, "id", got.Localization.Resolved)
		assert.False(t, got.Localization.FallbackUsed)
		assert.Equal(t, []string{"ko", "id"}, got.Localization.Available)
	})

	t.Run("missing language falls back to the original", func(t *testing.T) {
		got, err := f.service.GetNovel(ctx, n.Slug, "fr")
		require.NoError(t, err)
		assert.Equal(t, "Overgeared", got.Title)
		assert.True(t, got.Localization.FallbackUsed)
		assert.Equal(t, "ko", got.Localization.Resolved)
	})

	t.Run("no language means no localization block", func(t *testing.T) {
		got, err := f.service.GetNovel(ctx, n.Slug, "")
		require.NoError(t, err)
		assert.Nil(t, got.Localization)
	})

	t.Run("reads are served from cache until invalidated", func(t *testing.T) {
		key := fmt.Sprintf("novel:%d:id", n.ID)
		require.Contains(t, f.cache.entries, key)

		_, err := f.service.UpdateTranslation(ctx, n.ID, "id", novel.TranslationUpdate{Title: pointer.To("Overgeared ID v2")})
		require.NoError(t, err)
		assert.NotContains(t, f.cache.entries, key)

		got, err := f.service.GetNovel(ctx, fmt.Sprint(n.ID), "id")
		require.NoError(t, err)
		assert.Equal(t, "Overgeared ID v2", got.Title)
	})

	t.Run("author writes drop cached novel reads", func(t *testing.T) {
		key := fmt.Sprintf("novel:%d:id", n.ID)
		require.Contains(t, f.cache.entries, key)

		require.NoError(t, f.cache.Invalidate(ctx, author.CacheTag(n.AuthorID)))
		assert.NotContains(t, f.cache.entries, key)
	})
}

func TestService_ListNovels(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, _, err := f.service.ListNovels(ctx, novel.Filter{SortBy: "popularity"}, "", 20, 0)
	assert.Equal(t, http.StatusBadRequest, statusOf(err))

	_, _, err = f.service.ListNovels(ctx, novel.Filter{PublicationStatus: "paused"}, "", 20, 0)
	assert.Equal(t, http.StatusBadRequest, statusOf(err))

	_, _, err = f.service.ListNovels(ctx, novel.Filter{SortBy: "averageRating", SortOrder: "asc"}, "", 20, 0)
	require.NoError(t, err)
	assert.Equal(t, "average_rating", f.repo.lastSort.Key)
	assert.False(t, f.repo.lastSort.Desc)

	_, _, err = f.service.ListNovels(ctx, novel.Filter{}, "", 20, 0)
	require.NoError(t, err)
	assert.Equal(t, "updated_at", f.repo.lastSort.Key)
	assert.True(t, f.repo.lastSort.Desc)
}

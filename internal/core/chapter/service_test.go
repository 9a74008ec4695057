package chapter_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathanpasca/manov-sub001/internal/core/chapter"
	"github.com/nathanpasca/manov-sub001/internal/core/novel"
	"github.com/nathanpasca/manov-sub001/internal/platform/apperr"
	"github.com/nathanpasca/manov-sub001/internal/platform/cache"
	"github.com/nathanpasca/manov-sub001/internal/platform/validate"
	"github.com/nathanpasca/manov-sub001/pkg/pointer"
	"github.com/nathanpasca/manov-sub001/pkg/query"
)

// # Fakes

type memoryRepository struct {
	chapters     map[int]*chapter.Chapter
	translations map[int][]*chapter.Translation
	nextID       int
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{chapters: map[int]*chapter.Chapter{}, translations: map[int][]*chapter.Translation{}}
}

func (repository *memoryRepository) ListChapters(_ context.Context, novelID int, filter chapter.Filter, _ query.Sort, _, _ int) ([]*chapter.Chapter, int, error) {
	out := []*chapter.Chapter{}
	for _, c := range repository.chapters {
		if c.NovelID != novelID || (filter.IsPublished != nil && c.IsPublished != *filter.IsPublished) {
			continue
		}
		copied := *c
		copied.Content = ""
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChapterNumber < out[j].ChapterNumber })
	return out, len(out), nil
}

func (repository *memoryRepository) GetChapter(_ context.Context, id int) (*chapter.Chapter, error) {
	c, ok := repository.chapters[id]
	if !ok {
		return nil, apperr.NotFound(fmt.Sprintf("Chapter with ID %d", id))
	}
	copied := *c
	return &copied, nil
}

func (repository *memoryRepository) GetChapterByNumber(ctx context.Context, novelID int, number float64) (*chapter.Chapter, error) {
	for id, c := range repository.chapters {
		if c.NovelID == novelID && c.ChapterNumber == number {
			return repository.GetChapter(ctx, id)
		}
	}
	return nil, apperr.NotFound("Chapter")
}

func (repository *memoryRepository) taken(c *chapter.Chapter) bool {
	for id, existing := range repository.chapters {
		if id != c.ID && existing.NovelID == c.NovelID && existing.ChapterNumber == c.ChapterNumber {
			return true
		}
	}
	return false
}

func (repository *memoryRepository) CreateChapter(_ context.Context, c *chapter.Chapter) error {
	if repository.taken(c) {
		return chapter.DuplicateNumber(c.ChapterNumber, c.NovelID)
	}
	repository.nextID++
	c.ID = repository.nextID
	c.CreatedAt, c.UpdatedAt = time.Now(), time.Now()
	c.OriginalLanguage = "ko"
	copied := *c
	repository.chapters[c.ID] = &copied
	return nil
}

func (repository *memoryRepository) UpdateChapter(_ context.Context, c *chapter.Chapter) error {
	if repository.taken(c) {
		return chapter.DuplicateNumber(c.ChapterNumber, c.NovelID)
	}
	copied := *c
	repository.chapters[c.ID] = &copied
	return nil
}

func (repository *memoryRepository) DeleteChapter(_ context.Context, id int) error {
	delete(repository.chapters, id)
	delete(repository.translations, id)
	return nil
}

func (repository *memoryRepository) ListTranslations(_ context.Context, chapterID int) ([]*chapter.Translation, error) {
	return repository.translations[chapterID], nil
}

func (repository *memoryRepository) ListTranslationsFor(_ context.Context, chapterIDs []int) (map[int][]*chapter.Translation, error) {
	out := map[int][]*chapter.Translation{}
	for _, id := range chapterIDs {
		out[id] = repository.translations[id]
	}
	return out, nil
}

func (repository *memoryRepository) GetTranslation(_ context.Context, chapterID int, code string) (*chapter.Translation, error) {
	for _, t := range repository.translations[chapterID] {
		if t.LanguageCode == code {
			copied := *t
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Translation")
}

func (repository *memoryRepository) CreateTranslation(_ context.Context, t *chapter.Translation) error {
	copied := *t
	repository.translations[t.ChapterID] = append(repository.translations[t.ChapterID], &copied)
	return nil
}

func (repository *memoryRepository) UpdateTranslation(_ context.Context, t *chapter.Translation) error {
	for i, existing := range repository.translations[t.ChapterID] {
		if existing.LanguageCode == t.LanguageCode {
			copied := *t
			repository.translations[t.ChapterID][i] = &copied
			return nil
		}
	}
	return apperr.NotFound("Translation")
}

func (repository *memoryRepository) DeleteTranslation(_ context.Context, chapterID int, code string) error {
	rows := repository.translations[chapterID]
	for i, existing := range rows {
		if existing.LanguageCode == code {
			repository.translations[chapterID] = append(rows[:i], rows[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("Translation")
}

type staticNovels map[int]bool

func (novels staticNovels) Exists(_ context.Context, id int) (bool, error) { return novels[id], nil }

type staticLanguages map[string]bool

func (languages staticLanguages) IsActive(_ context.Context, code string) (bool, error) {
	return languages[code], nil
}

// tagRecorder wraps the no-op cache and remembers invalidated tags.
type tagRecorder struct {
	cache.Noop
	invalidated []string
}

func (recorder *tagRecorder) Invalidate(_ context.Context, tags ...string) error {
	recorder.invalidated = append(recorder.invalidated, tags...)
	return nil
}

type fixture struct {
	service *chapter.Service
	repo    *memoryRepository
	cache   *tagRecorder
}

func newFixture() fixture {
	repo := newMemoryRepository()
	recorder := &tagRecorder{}
	service := chapter.NewService(repo, staticNovels{1: true, 2: true}, staticLanguages{"en": true, "id": true},
		recorder, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return fixture{service: service, repo: repo, cache: recorder}
}

func statusOf(err error) int {
	if ae := apperr.As(err); ae != nil {
		return ae.HTTPStatus
	}
	return 0
}

func fieldsOf(err error) []string {
	var fields []string
	if ae := apperr.As(err); ae != nil {
		for _, detail := range ae.Details {
			fields = append(fields, detail.Field)
		}
	}
	return fields
}

// # Tests

func TestService_CreateChapter(t *testing.T) {
	ctx := context.Background()

	t.Run("validation", func(t *testing.T) {
		f := newFixture()
		_, err := f.service.CreateChapter(ctx, 1, chapter.CreateInput{
			Content:            "  ",
			WordCount:          pointer.To(-1),
			OriginalChapterURL: pointer.To("not a url"),
		})
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, statusOf(err))
		assert.ElementsMatch(t, []string{
			chapter.FieldChapterNumber, chapter.FieldContent, chapter.FieldWordCount, chapter.FieldOriginalChapterURL,
		}, fieldsOf(err))
	})

	t.Run("unknown novel", func(t *testing.T) {
		f := newFixture()
		_, err := f.service.CreateChapter(ctx, 99, chapter.CreateInput{ChapterNumber: pointer.To(1.0), Content: "text"})
		assert.Equal(t, http.StatusNotFound, statusOf(err))
	})

	t.Run("draft by default", func(t *testing.T) {
		f := newFixture()
		c, err := f.service.CreateChapter(ctx, 1, chapter.CreateInput{ChapterNumber: pointer.To(1.0), Content: "text"})
		require.NoError(t, err)
		assert.False(t, c.IsPublished)
		assert.Nil(t, c.PublishedAt)
		assert.Contains(t, f.cache.invalidated, novel.CacheTag(1))
	})

	t.Run("publishing stamps the time", func(t *testing.T) {
		f := newFixture()
		before := time.Now().Add(-time.Second)
		c, err := f.service.CreateChapter(ctx, 1, chapter.CreateInput{ChapterNumber: pointer.To(1.0), Content: "text", IsPublished: pointer.To(true)})
		require.NoError(t, err)
		assert.True(t, c.IsPublished)
		require.NotNil(t, c.PublishedAt)
		assert.True(t, c.PublishedAt.After(before))
	})

	t.Run("explicit date implies published", func(t *testing.T) {
		f := newFixture()
		c, err := f.service.CreateChapter(ctx, 1, chapter.CreateInput{ChapterNumber: pointer.To(10.5), Content: "text", PublishedAt: pointer.To("2024-03-01")})
		require.NoError(t, err)
		assert.True(t, c.IsPublished)
		require.NotNil(t, c.PublishedAt)
		assert.Equal(t, 2024, c.PublishedAt.Year())
		assert.Equal(t, 10.5, c.ChapterNumber)
	})

	t.Run("duplicate number", func(t *testing.T) {
		f := newFixture()
		_, err := f.service.CreateChapter(ctx, 1, chapter.CreateInput{ChapterNumber: pointer.To(3.0), Content: "a"})
		require.NoError(t, err)
		_, err = f.service.CreateChapter(ctx, 2, chapter.CreateInput{ChapterNumber: pointer.To(3.0), Content: "a"})
		require.NoError(t, err)

		_, err = f.service.CreateChapter(ctx, 1, chapter.CreateInput{ChapterNumber: pointer.To(3.0), Content: "b"})
		assert.Equal(t, http.StatusConflict, statusOf(err))
		assert.EqualError(t, err, "Chapter number 3 already exists for novel ID 1")
	})
}

func TestService_UpdateChapter_Publishing(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	c, err := f.service.CreateChapter(ctx, 1, chapter.CreateInput{ChapterNumber: pointer.To(1.0), Content: "text", PublishedAt: pointer.To("2024-01-02")})
	require.NoError(t, err)
	original := *c.PublishedAt

	_, err = f.service.UpdateChapter(ctx, c.ID, chapter.UpdateInput{})
	assert.ErrorIs(t, err, validate.ErrNoFields)

	t.Run("republishing keeps the date", func(t *testing.T) {
		updated, err := f.service.UpdateChapter(ctx, c.ID, chapter.UpdateInput{IsPublished: pointer.To(true)})
		require.NoError(t, err)
		require.NotNil(t, updated.PublishedAt)
		assert.True(t, original.Equal(*updated.PublishedAt))
	})

	t.Run("unpublishing clears the date", func(t *testing.T) {
		updated, err := f.service.UpdateChapter(ctx, c.ID, chapter.UpdateInput{IsPublished: pointer.To(false)})
		require.NoError(t, err)
		assert.False(t, updated.IsPublished)
		assert.Nil(t, updated.PublishedAt)
	})

	t.Run("a date publishes again", func(t *testing.T) {
		updated, err := f.service.UpdateChapter(ctx, c.ID, chapter.UpdateInput{PublishedAt: pointer.To("2025-05-05T10:00:00Z")})
		require.NoError(t, err)
		assert.True(t, updated.IsPublished)
		assert.Equal(t, 2025, updated.PublishedAt.Year())
	})

	t.Run("renumbering onto a taken number", func(t *testing.T) {
		_, err := f.service.CreateChapter(ctx, 1, chapter.CreateInput{ChapterNumber: pointer.To(2.0), Content: "text"})
		require.NoError(t, err)

		_, err = f.service.UpdateChapter(ctx, c.ID, chapter.UpdateInput{ChapterNumber: pointer.To(2.0)})
		assert.Equal(t, http.StatusConflict, statusOf(err))
	})

	assert.Contains(t, f.cache.invalidated, chapter.CacheTag(c.ID))
}

func TestService_GetChapter_Localized(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	c, err := f.service.CreateChapter(ctx, 1, chapter.CreateInput{ChapterNumber: pointer.To(1.0), Title: pointer.To("시작"), Content: "원문"})
	require.NoError(t, err)

	_, err = f.service.CreateTranslation(ctx, c.ID, chapter.TranslationInput{LanguageCode: "EN", Content: "The beginning text"})
	require.NoError(t, err)

	t.Run("translation without a title keeps the original title", func(t *testing.T) {
		got, err := f.service.GetChapter(ctx, c.ID, "en")
		require.NoError(t, err)
		assert.Equal(t, "The beginning text", got.Content)
		assert.Equal(t, "시작", pointer.Val(got.Title))
		require.NotNil(t, got.Localization)
		assert.Equal(t, "en", got.Localization.Resolved)
		assert.False(t, got.Localization.FallbackUsed)
	})

	t.Run("missing language falls back to the original", func(t *testing.T) {
		got, err := f.service.GetChapterByNumber(ctx, 1, 1, "fr")
		require.NoError(t, err)
		assert.Equal(t, "원문", got.Content)
		assert.True(t, got.Localization.FallbackUsed)
		assert.Equal(t, []string{"ko", "en"}, got.Localization.Available)
	})

	t.Run("no lang means no localization block", func(t *testing.T) {
		got, err := f.service.GetChapter(ctx, c.ID, "")
		require.NoError(t, err)
		assert.Nil(t, got.Localization)
	})
}

func TestService_ListChapters(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	for _, number := range []float64{2, 1, 1.5} {
		_, err := f.service.CreateChapter(ctx, 1, chapter.CreateInput{ChapterNumber: pointer.To(number), Content: "body", Title: pointer.To(fmt.Sprintf("Chapter %g", number))})
		require.NoError(t, err)
	}
	_, err := f.service.CreateTranslation(ctx, 1, chapter.TranslationInput{LanguageCode: "id", Title: pointer.To("Bab 2"), Content: "isi"})
	require.NoError(t, err)

	t.Run("titles are localized and content omitted", func(t *testing.T) {
		chapters, total, err := f.service.ListChapters(ctx, 1, chapter.Filter{}, "id", 20, 0)
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Equal(t, "Bab 2", pointer.Val(chapters[2].Title))
		for _, c := range chapters {
			assert.Empty(t, c.Content)
		}
	})

	t.Run("unknown sort key", func(t *testing.T) {
		_, _, err := f.service.ListChapters(ctx, 1, chapter.Filter{SortBy: "views"}, "", 20, 0)
		assert.Equal(t, http.StatusBadRequest, statusOf(err))
	})

	t.Run("unknown novel", func(t *testing.T) {
		_, _, err := f.service.ListChapters(ctx, 42, chapter.Filter{}, "", 20, 0)
		assert.Equal(t, http.StatusNotFound, statusOf(err))
	})
}

func TestService_CreateTranslation_InactiveLanguage(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	c, err := f.service.CreateChapter(ctx, 1, chapter.CreateInput{ChapterNumber: pointer.To(1.0), Content: "text"})
	require.NoError(t, err)

	_, err = f.service.CreateTranslation(ctx, c.ID, chapter.TranslationInput{LanguageCode: "xx", Content: "text"})
	assert.Equal(t, http.StatusBadRequest, statusOf(err))
	assert.Equal(t, []string{chapter.FieldLanguageCode}, fieldsOf(err))
}

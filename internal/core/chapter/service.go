package chapter

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/nathanpasca/manov-sub001/internal/core/locale"
	"github.com/nathanpasca/manov-sub001/internal/core/novel"
	"github.com/nathanpasca/manov-sub001/internal/platform/apperr"
	"github.com/nathanpasca/manov-sub001/internal/platform/cache"
	"github.com/nathanpasca/manov-sub001/internal/platform/validate"
	"github.com/nathanpasca/manov-sub001/pkg/pointer"
)

// # Collaborators

// NovelLookup confirms that a parent novel exists.
type NovelLookup interface {
	Exists(context context.Context, id int) (bool, error)
}

// LanguageChecker confirms that a language code is registered and active.
type LanguageChecker interface {
	IsActive(context context.Context, code string) (bool, error)
}

// CacheTag groups every cached read of one chapter.
func CacheTag(chapterID int) string {
	return cache.Key("chapter", chapterID)
}

// # Service Layer

// Service manages chapters and their per-language overrides.
type Service struct {
	repo      Repository
	novels    NovelLookup
	languages LanguageChecker
	cache     cache.Cache
	cacheTTL  time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// NewService constructs a new [Service].
func NewService(repo Repository, novels NovelLookup, languages LanguageChecker, readCache cache.Cache, cacheTTL time.Duration, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		novels:    novels,
		languages: languages,
		cache:     readCache,
		cacheTTL:  cacheTTL,
		logger:    logger,
		now:       time.Now,
	}
}

// # Chapter Lookups

/*
ListChapters retrieves a page of a novel's table of contents.

Description: Rows never carry content. When lang is set only the titles are
localized, from one batched translation query.
*/
func (service *Service) ListChapters(context context.Context, novelID int, filter Filter, lang string, limit, offset int) ([]*Chapter, int, error) {
	sort, ok := SortSpec.Parse(filter.SortBy, filter.SortOrder)
	if !ok {
		return nil, 0, validate.RequiredError(FieldSortBy,
			fmt.Sprintf("Must be one of: %s (sortOrder asc or desc)", strings.Join(SortSpec.Keys(), ", ")))
	}

	if err := service.requireNovel(context, novelID); err != nil {
		return nil, 0, err
	}

	chapters, total, err := service.repo.ListChapters(context, novelID, filter, sort, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	if lang != "" && len(chapters) > 0 {
		ids := make([]int, len(chapters))
		for i, c := range chapters {
			ids[i] = c.ID
		}

		translations, err := service.repo.ListTranslationsFor(context, ids)
		if err != nil {
			return nil, 0, err
		}
		for _, c := range chapters {
			localize(c, lang, translations[c.ID], false)
		}
	}

	return chapters, total, nil
}

// GetChapter fetches a chapter with its content, localized to lang.
func (service *Service) GetChapter(context context.Context, id int, lang string) (*Chapter, error) {
	return service.cachedRead(context, cache.Key("chapter", id, langKey(lang)), lang, func() (*Chapter, error) {
		return service.repo.GetChapter(context, id)
	})
}

// GetChapterByNumber fetches the chapter numbered number within a novel.
func (service *Service) GetChapterByNumber(context context.Context, novelID int, number float64, lang string) (*Chapter, error) {
	key := cache.Key("chapter", "novel", novelID, strconv.FormatFloat(number, 'f', -1, 64), langKey(lang))
	return service.cachedRead(context, key, lang, func() (*Chapter, error) {
		return service.repo.GetChapterByNumber(context, novelID, number)
	})
}

// BelongsTo reports whether chapterID exists and is part of novelID.
func (service *Service) BelongsTo(context context.Context, chapterID, novelID int) (bool, error) {
	c, err := service.repo.GetChapter(context, chapterID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return c.NovelID == novelID, nil
}

// Locate returns the parent novel of a chapter. It backs comment targeting.
func (service *Service) Locate(context context.Context, chapterID int) (int, error) {
	c, err := service.repo.GetChapter(context, chapterID)
	if err != nil {
		return 0, err
	}
	return c.NovelID, nil
}

// cachedRead serves a detail read through the cache. Entries are tagged by
// chapter and by novel so that writes to either drop them.
func (service *Service) cachedRead(context context.Context, cacheKey, lang string, load func() (*Chapter, error)) (*Chapter, error) {
	var cached Chapter
	if hit, err := service.cache.Get(context, cacheKey, &cached); err != nil {
		service.logger.Warn("chapter_cache_read_failed", slog.String("key", cacheKey), slog.Any("error", err))
	} else if hit {
		return &cached, nil
	}

	c, err := load()
	if err != nil {
		return nil, err
	}

	if lang != "" {
		translations, err := service.repo.ListTranslations(context, c.ID)
		if err != nil {
			return nil, err
		}
		localize(c, lang, translations, true)
	}

	if err := service.cache.Set(context, cacheKey, c, service.cacheTTL, CacheTag(c.ID), novel.CacheTag(c.NovelID)); err != nil {
		service.logger.Warn("chapter_cache_write_failed", slog.String("key", cacheKey), slog.Any("error", err))
	}
	return c, nil
}

// # Chapter Management

/*
CreateChapter adds a chapter to a novel.

Description: An explicit published_at marks the chapter published; publishing
without a date stamps the current time.

Returns:
  - *Chapter: The stored chapter with its novel summary
  - error: 400 validation, 404 unknown novel, 409 duplicate number
*/
func (service *Service) CreateChapter(context context.Context, novelID int, input CreateInput) (*Chapter, error) {
	validator := &validate.Validator{}

	if input.ChapterNumber == nil {
		validator.Custom(FieldChapterNumber, true, "Chapter number is required")
	} else {
		validator.FloatMin(FieldChapterNumber, *input.ChapterNumber, 0)
	}
	validator.Required(FieldContent, input.Content)
	rules := fieldRules{
		title:               input.Title,
		wordCount:           input.WordCount,
		translatorNotes:     input.TranslatorNotes,
		originalChapterURL:  input.OriginalChapterURL,
		readingTimeEstimate: input.ReadingTimeEstimate,
	}
	rules.apply(validator)
	publishedAt := validator.OptionalDate(FieldPublishedAt, input.PublishedAt)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.requireNovel(context, novelID); err != nil {
		return nil, err
	}

	c := &Chapter{
		NovelID:             novelID,
		ChapterNumber:       *input.ChapterNumber,
		Title:               pointer.Trimmed(input.Title),
		Content:             input.Content,
		WordCount:           input.WordCount,
		IsPublished:         pointer.Fallback(input.IsPublished, false),
		TranslatorNotes:     pointer.Trimmed(input.TranslatorNotes),
		OriginalChapterURL:  pointer.Trimmed(input.OriginalChapterURL),
		ReadingTimeEstimate: input.ReadingTimeEstimate,
	}
	service.applyPublishing(c, input.IsPublished, publishedAt)

	if err := service.repo.CreateChapter(context, c); err != nil {
		return nil, err
	}

	service.invalidate(context, c.ID, c.NovelID)
	service.logger.Info("chapter_created",
		slog.Int("chapter_id", c.ID),
		slog.Int("novel_id", novelID),
		slog.Float64("chapter_number", c.ChapterNumber),
	)

	return service.repo.GetChapter(context, c.ID)
}

// UpdateChapter applies a partial update, enforcing the publish rules.
func (service *Service) UpdateChapter(context context.Context, id int, input UpdateInput) (*Chapter, error) {
	if input.empty() {
		return nil, validate.ErrNoFields
	}

	validator := &validate.Validator{}
	if input.ChapterNumber != nil {
		validator.FloatMin(FieldChapterNumber, *input.ChapterNumber, 0)
	}
	if input.Content != nil {
		validator.Required(FieldContent, *input.Content)
	}
	rules := fieldRules{
		title:               input.Title,
		wordCount:           input.WordCount,
		translatorNotes:     input.TranslatorNotes,
		originalChapterURL:  input.OriginalChapterURL,
		readingTimeEstimate: input.ReadingTimeEstimate,
	}
	rules.apply(validator)
	publishedAt := validator.OptionalDate(FieldPublishedAt, input.PublishedAt)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	c, err := service.repo.GetChapter(context, id)
	if err != nil {
		return nil, err
	}

	if input.ChapterNumber != nil {
		c.ChapterNumber = *input.ChapterNumber
	}
	if input.Title != nil {
		c.Title = pointer.Trimmed(input.Title)
	}
	if input.Content != nil {
		c.Content = *input.Content
	}
	if input.WordCount != nil {
		c.WordCount = input.WordCount
	}
	if input.TranslatorNotes != nil {
		c.TranslatorNotes = pointer.Trimmed(input.TranslatorNotes)
	}
	if input.OriginalChapterURL != nil {
		c.OriginalChapterURL = pointer.Trimmed(input.OriginalChapterURL)
	}
	if input.ReadingTimeEstimate != nil {
		c.ReadingTimeEstimate = input.ReadingTimeEstimate
	}
	service.applyPublishing(c, input.IsPublished, publishedAt)

	if err := service.repo.UpdateChapter(context, c); err != nil {
		return nil, err
	}

	service.invalidate(context, c.ID, c.NovelID)
	service.logger.Info("chapter_updated", slog.Int("chapter_id", c.ID), slog.Bool("is_published", c.IsPublished))

	return service.repo.GetChapter(context, c.ID)
}

// DeleteChapter removes a chapter, its translations, comments and any
// reading progress pointing at it.
func (service *Service) DeleteChapter(context context.Context, id int) error {
	c, err := service.repo.GetChapter(context, id)
	if err != nil {
		return err
	}

	if err := service.repo.DeleteChapter(context, id); err != nil {
		return err
	}

	service.invalidate(context, c.ID, c.NovelID)
	service.logger.Warn("chapter_deleted", slog.Int("chapter_id", id), slog.Int("novel_id", c.NovelID))
	return nil
}

// # Internal Helpers

// applyPublishing sets the publish state. A date wins over the flag; an
// already published chapter keeps its original date.
func (service *Service) applyPublishing(c *Chapter, isPublished *bool, publishedAt *time.Time) {
	switch {
	case publishedAt != nil:
		c.IsPublished = true
		c.PublishedAt = publishedAt
	case isPublished == nil:
	case *isPublished:
		c.IsPublished = true
		if c.PublishedAt == nil {
			c.PublishedAt = pointer.To(service.now().UTC())
		}
	default:
		c.IsPublished = false
		c.PublishedAt = nil
	}
}

func (service *Service) requireNovel(context context.Context, novelID int) error {
	exists, err := service.novels.Exists(context, novelID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound(fmt.Sprintf("Novel with ID %d", novelID))
	}
	return nil
}

func (service *Service) invalidate(context context.Context, chapterID, novelID int) {
	if err := service.cache.Invalidate(context, CacheTag(chapterID), novel.CacheTag(novelID)); err != nil {
		service.logger.Warn("chapter_cache_invalidate_failed", slog.Int("chapter_id", chapterID), slog.Any("error", err))
	}
}

// localize swaps in the resolved translation. List reads only take the title.
func localize(c *Chapter, lang string, translations []*Translation, withContent bool) {
	if lang == "" {
		return
	}

	chosen, resolution := locale.Select(lang, c.OriginalLanguage, translations, func(t *Translation) string {
		return t.LanguageCode
	})
	if chosen != nil {
		if (*chosen).Title != nil {
			c.Title = (*chosen).Title
		}
		if withContent {
			c.Content = (*chosen).Content
		}
	}
	c.Localization = &resolution
}

type fieldRules struct {
	title               *string
	wordCount           *int
	translatorNotes     *string
	originalChapterURL  *string
	readingTimeEstimate *int
}

func (rules fieldRules) apply(validator *validate.Validator) {
	if rules.title != nil {
		validator.MaxLen(FieldTitle, *rules.title, 255)
	}
	if rules.wordCount != nil {
		validator.Min(FieldWordCount, *rules.wordCount, 0)
	}
	if rules.translatorNotes != nil {
		validator.MaxLen(FieldTranslatorNotes, *rules.translatorNotes, 5000)
	}
	if rules.originalChapterURL != nil && strings.TrimSpace(*rules.originalChapterURL) != "" {
		validator.URL(FieldOriginalChapterURL, *rules.originalChapterURL)
	}
	if rules.readingTimeEstimate != nil {
		validator.Min(FieldReadingTimeEstimate, *rules.readingTimeEstimate, 0)
	}
}

func langKey(lang string) string {
	if lang == "" {
		return "-"
	}
	return lang
}

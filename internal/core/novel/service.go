package novel

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/nathanpasca/manov-sub001/internal/core/author"
	"github.com/nathanpasca/manov-sub001/internal/core/locale"
	"github.com/nathanpasca/manov-sub001/internal/platform/apperr"
	"github.com/nathanpasca/manov-sub001/internal/platform/cache"
	"github.com/nathanpasca/manov-sub001/internal/platform/validate"
	"github.com/nathanpasca/manov-sub001/pkg/pointer"
	"github.com/nathanpasca/manov-sub001/pkg/slug"
)

// # Collaborators

// AuthorLookup confirms that a referenced author exists.
type AuthorLookup interface {
	Exists(context context.Context, id int) (bool, error)
}

// LanguageChecker confirms that a language code is registered and active.
type LanguageChecker interface {
	IsActive(context context.Context, code string) (bool, error)
}

// CacheTag returns the cache tag grouping every cached read of a novel.
// Packages that change denormalised counters (ratings, favorites) invalidate it.
func CacheTag(novelID int) string {
	return cache.Key("novel", novelID)
}

// # Service Layer

// Service orchestrates the novel catalogue: validation, slugs, localized reads
// and cache invalidation.
type Service struct {
	repo      Repository
	authors   AuthorLookup
	languages LanguageChecker
	cache     cache.Cache
	cacheTTL  time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// NewService constructs a new [Service] with its required collaborators.
func NewService(repo Repository, authors AuthorLookup, languages LanguageChecker, readCache cache.Cache, cacheTTL time.Duration, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		authors:   authors,
		languages: languages,
		cache:     readCache,
		cacheTTL:  cacheTTL,
		logger:    logger,
		now:       time.Now,
	}
}

// # Novel Lookups

/*
ListNovels retrieves a filtered, sorted page of novels.

Description: Filter values are validated first; an unknown sort key or
publication status is a 400. When lang is set, the translations of the
whole page are loaded in one query and each novel is localized.

Returns:
  - []*Novel: The page
  - int: Total count matching the filter
  - error: Validation or repository errors
*/
func (service *Service) ListNovels(context context.Context, filter Filter, lang string, limit, offset int) ([]*Novel, int, error) {
	validator := &validate.Validator{}

	sort, ok := SortSpec.Parse(filter.SortBy, filter.SortOrder)
	validator.Custom(FieldSortBy, !ok, fmt.Sprintf("Must be one of: %s (sortOrder asc or desc)", strings.Join(SortSpec.Keys(), ", ")))

	if filter.PublicationStatus != "" {
		filter.PublicationStatus = strings.ToUpper(strings.TrimSpace(filter.PublicationStatus))
		validator.OneOf("publicationStatus", filter.PublicationStatus, PublicationStatuses()...)
	}

	if err := validator.Err(); err != nil {
		return nil, 0, err
	}

	filter.OriginalLanguage = locale.Normalize(filter.OriginalLanguage)
	filter.Genre = strings.TrimSpace(filter.Genre)

	novels, total, err := service.repo.ListNovels(context, filter, sort, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	if err := service.Localize(context, novels, lang); err != nil {
		return nil, 0, err
	}

	return novels, total, nil
}

// Localize overlays the lang translations onto novels with one query for the
// whole slice. An empty lang leaves the originals untouched.
func (service *Service) Localize(context context.Context, novels []*Novel, lang string) error {
	if lang == "" || len(novels) == 0 {
		return nil
	}

	ids := make([]int, len(novels))
	for i, n := range novels {
		ids[i] = n.ID
	}

	translations, err := service.repo.ListTranslationsFor(context, ids)
	if err != nil {
		return err
	}
	for _, n := range novels {
		localize(n, lang, translations[n.ID])
	}
	return nil
}

/*
GetNovel fetches one novel by numeric ID or slug, localized to lang.

Description: Results are cached per (identifier, lang) and tagged with the
novel ID so that any write to the novel drops every variant. Cache failures
are logged and never fail the read.
*/
func (service *Service) GetNovel(context context.Context, identifier, lang string) (*Novel, error) {
	cacheKey := cache.Key("novel", identifier, langKey(lang))

	var cached Novel
	if hit, err := service.cache.Get(context, cacheKey, &cached); err != nil {
		service.logger.Warn("novel_cache_read_failed", slog.String("key", cacheKey), slog.Any("error", err))
	} else if hit {
		return &cached, nil
	}

	n, err := service.findNovel(context, identifier)
	if err != nil {
		return nil, err
	}

	if lang != "" {
		translations, err := service.repo.ListTranslations(context, n.ID)
		if err != nil {
			return nil, err
		}
		localize(n, lang, translations)
	}

	if err := service.cache.Set(context, cacheKey, n, service.cacheTTL, CacheTag(n.ID), author.CacheTag(n.AuthorID)); err != nil {
		service.logger.Warn("novel_cache_write_failed", slog.String("key", cacheKey), slog.Any("error", err))
	}
	return n, nil
}

// Exists reports whether a novel with id is present.
func (service *Service) Exists(context context.Context, id int) (bool, error) {
	_, err := service.repo.GetNovel(context, id)
	if err == nil {
		return true, nil
	}
	if apperr.IsNotFound(err) {
		return false, nil
	}
	return false, err
}

// findNovel treats an all-digit identifier as an ID and anything else as a slug.
func (service *Service) findNovel(context context.Context, identifier string) (*Novel, error) {
	if id, err := strconv.Atoi(identifier); err == nil && id > 0 {
		return service.repo.GetNovel(context, id)
	}
	return service.repo.GetNovelBySlug(context, strings.ToLower(identifier))
}

// # Novel Management

/*
CreateNovel validates the payload, checks the author, generates a unique
slug and persists the novel with its defaults.
*/
func (service *Service) CreateNovel(context context.Context, input CreateInput) (*Novel, error) {
	validator := &validate.Validator{}

	validator.Required(FieldTitle, input.Title).MaxLen(FieldTitle, input.Title, 255)
	validator.Custom(FieldAuthorID, input.AuthorID < 1, "Author ID is required and must be a positive integer")
	validator.Required(FieldOriginalLanguage, input.OriginalLanguage)
	if strings.TrimSpace(input.OriginalLanguage) != "" {
		validator.MinLen(FieldOriginalLanguage, input.OriginalLanguage, 2).MaxLen(FieldOriginalLanguage, input.OriginalLanguage, 10)
	}

	rules := fieldRules{
		titleTranslated:   input.TitleTranslated,
		synopsis:          input.Synopsis,
		coverImageURL:     input.CoverImageURL,
		sourceURL:         input.SourceURL,
		publicationStatus: input.PublicationStatus,
		translationStatus: input.TranslationStatus,
		genreTags:         input.GenreTags,
		totalChapters:     input.TotalChapters,
	}
	rules.apply(validator)
	firstPublished := validator.OptionalDate(FieldFirstPublishedAt, input.FirstPublishedAt)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.requireAuthor(context, input.AuthorID); err != nil {
		return nil, err
	}

	n := &Novel{
		Title:             strings.TrimSpace(input.Title),
		TitleTranslated:   pointer.Trimmed(input.TitleTranslated),
		AuthorID:          input.AuthorID,
		OriginalLanguage:  locale.Normalize(input.OriginalLanguage),
		Synopsis:          pointer.Trimmed(input.Synopsis),
		CoverImageURL:     pointer.Trimmed(input.CoverImageURL),
		SourceURL:         pointer.Trimmed(input.SourceURL),
		PublicationStatus: PublicationStatus(upper(pointer.Fallback(input.PublicationStatus, string(PublicationOngoing)))),
		TranslationStatus: TranslationStatus(upper(pointer.Fallback(input.TranslationStatus, string(TranslationActive)))),
		GenreTags:         normalizeTags(input.GenreTags),
		TotalChapters:     input.TotalChapters,
		FirstPublishedAt:  firstPublished,
		IsActive:          pointer.Fallback(input.IsActive, true),
	}

	generated, err := service.uniqueSlug(context, slugSource(n.Title, n.TitleTranslated), 0)
	if err != nil {
		return nil, err
	}
	n.Slug = generated

	if err := service.repo.CreateNovel(context, n); err != nil {
		return nil, err
	}

	service.logger.Info("novel_created",
		slog.Int("novel_id", n.ID),
		slog.String("slug", n.Slug),
	)

	return service.repo.GetNovel(context, n.ID)
}

/*
UpdateNovel applies a partial update.

Description: The slug is regenerated when title_translated changes, or when
the title changes and no title_translated was sent with it.
*/
func (service *Service) UpdateNovel(context context.Context, id int, input UpdateInput) (*Novel, error) {
	if input.empty() {
		return nil, validate.ErrNoFields
	}

	validator := &validate.Validator{}
	if input.Title != nil {
		validator.Required(FieldTitle, *input.Title).MaxLen(FieldTitle, *input.Title, 255)
	}
	if input.AuthorID != nil {
		validator.Custom(FieldAuthorID, *input.AuthorID < 1, "Must be a positive integer")
	}
	if input.OriginalLanguage != nil {
		validator.MinLen(FieldOriginalLanguage, *input.OriginalLanguage, 2).MaxLen(FieldOriginalLanguage, *input.OriginalLanguage, 10)
	}

	rules := fieldRules{
		titleTranslated:   input.TitleTranslated,
		synopsis:          input.Synopsis,
		coverImageURL:     input.CoverImageURL,
		sourceURL:         input.SourceURL,
		publicationStatus: input.PublicationStatus,
		translationStatus: input.TranslationStatus,
		totalChapters:     input.TotalChapters,
	}
	if input.GenreTags != nil {
		rules.genreTags = *input.GenreTags
	}
	rules.apply(validator)
	firstPublished := validator.OptionalDate(FieldFirstPublishedAt, input.FirstPublishedAt)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	n, err := service.repo.GetNovel(context, id)
	if err != nil {
		return nil, err
	}

	if input.AuthorID != nil && *input.AuthorID != n.AuthorID {
		if err := service.requireAuthor(context, *input.AuthorID); err != nil {
			return nil, err
		}
		n.AuthorID = *input.AuthorID
	}

	// Slug regeneration
	newTranslated := pointer.Trimmed(input.TitleTranslated)
	switch {
	case newTranslated != nil && *newTranslated != pointer.Val(n.TitleTranslated):
		if n.Slug, err = service.uniqueSlug(context, *newTranslated, n.ID); err != nil {
			return nil, err
		}
	case input.Title != nil && strings.TrimSpace(*input.Title) != n.Title && newTranslated == nil:
		if n.Slug, err = service.uniqueSlug(context, *input.Title, n.ID); err != nil {
			return nil, err
		}
	}

	if input.Title != nil {
		n.Title = strings.TrimSpace(*input.Title)
	}
	if input.TitleTranslated != nil {
		n.TitleTranslated = newTranslated
	}
	if input.OriginalLanguage != nil {
		n.OriginalLanguage = locale.Normalize(*input.OriginalLanguage)
	}
	if input.Synopsis != nil {
		n.Synopsis = pointer.Trimmed(input.Synopsis)
	}
	if input.CoverImageURL != nil {
		n.CoverImageURL = pointer.Trimmed(input.CoverImageURL)
	}
	if input.SourceURL != nil {
		n.SourceURL = pointer.Trimmed(input.SourceURL)
	}
	if input.PublicationStatus != nil {
		n.PublicationStatus = PublicationStatus(upper(*input.PublicationStatus))
	}
	if input.TranslationStatus != nil {
		n.TranslationStatus = TranslationStatus(upper(*input.TranslationStatus))
	}
	if input.GenreTags != nil {
		n.GenreTags = normalizeTags(*input.GenreTags)
	}
	if input.TotalChapters != nil {
		n.TotalChapters = input.TotalChapters
	}
	if input.FirstPublishedAt != nil {
		n.FirstPublishedAt = firstPublished
	}
	if input.IsActive != nil {
		n.IsActive = *input.IsActive
	}

	if err := service.repo.UpdateNovel(context, n); err != nil {
		return nil, err
	}

	service.invalidate(context, n.ID)
	service.logger.Info("novel_updated", slog.Int("novel_id", n.ID), slog.String("slug", n.Slug))

	return service.repo.GetNovel(context, n.ID)
}

// DeleteNovel removes a novel together with everything that cascades from it.
func (service *Service) DeleteNovel(context context.Context, id int) error {
	if err := service.repo.DeleteNovel(context, id); err != nil {
		return err
	}

	service.invalidate(context, id)
	service.logger.Warn("novel_deleted", slog.Int("novel_id", id))
	return nil
}

// # Internal Helpers

func (service *Service) requireAuthor(context context.Context, authorID int) error {
	exists, err := service.authors.Exists(context, authorID)
	if err != nil {
		return err
	}
	if !exists {
		return validate.RequiredError(FieldAuthorID, fmt.Sprintf("Author with ID %d not found.", authorID))
	}
	return nil
}

// uniqueSlug derives a slug from source and appends -2, -3, ... until it is
// free. excludeID lets a novel keep its own slug on update.
func (service *Service) uniqueSlug(context context.Context, source string, excludeID int) (string, error) {
	base := slug.From(source)
	if base == "" {
		base = fmt.Sprintf("novel-%d", service.now().UnixMilli())
	}

	candidate := base
	for counter := 2; ; counter++ {
		taken, err := service.repo.SlugExists(context, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, counter)
	}
}

func (service *Service) invalidate(context context.Context, novelID int) {
	if err := service.cache.Invalidate(context, CacheTag(novelID)); err != nil {
		service.logger.Warn("novel_cache_invalidate_failed", slog.Int("novel_id", novelID), slog.Any("error", err))
	}
}

// localize replaces the title and synopsis with the resolved translation.
func localize(n *Novel, lang string, translations []*Translation) {
	if lang == "" {
		return
	}

	chosen, resolution := locale.Select(lang, n.OriginalLanguage, translations, func(t *Translation) string {
		return t.LanguageCode
	})
	if chosen != nil {
		n.Title = (*chosen).Title
		if (*chosen).Synopsis != nil {
			n.Synopsis = (*chosen).Synopsis
		}
	}
	n.Localization = &resolution
}

// fieldRules groups the optional fields shared by create and update.
type fieldRules struct {
	titleTranslated   *string
	synopsis          *string
	coverImageURL     *string
	sourceURL         *string
	publicationStatus *string
	translationStatus *string
	genreTags         []string
	totalChapters     *int
}

func (rules fieldRules) apply(validator *validate.Validator) {
	if rules.titleTranslated != nil {
		validator.MaxLen(FieldTitleTranslated, *rules.titleTranslated, 255)
	}
	if rules.synopsis != nil {
		validator.MaxLen(FieldSynopsis, *rules.synopsis, 10000)
	}
	if rules.coverImageURL != nil && strings.TrimSpace(*rules.coverImageURL) != "" {
		validator.URL(FieldCoverImageURL, *rules.coverImageURL)
	}
	if rules.sourceURL != nil && strings.TrimSpace(*rules.sourceURL) != "" {
		validator.URL(FieldSourceURL, *rules.sourceURL)
	}
	if rules.publicationStatus != nil {
		validator.OneOf(FieldPublicationStatus, upper(*rules.publicationStatus), PublicationStatuses()...)
	}
	if rules.translationStatus != nil {
		validator.OneOf(FieldTranslationStatus, upper(*rules.translationStatus), TranslationStatuses()...)
	}
	for _, tag := range rules.genreTags {
		trimmed := strings.TrimSpace(tag)
		validator.Custom(FieldGenreTags, trimmed == "" || len(trimmed) > 50, "Each genre tag must be between 1 and 50 characters")
	}
	if rules.totalChapters != nil {
		validator.Min(FieldTotalChapters, *rules.totalChapters, 0)
	}
}

// normalizeTags trims tags and drops duplicates, keeping first-seen order.
func normalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" || seen[strings.ToLower(trimmed)] {
			continue
		}
		seen[strings.ToLower(trimmed)] = true
		out = append(out, trimmed)
	}
	return out
}

func slugSource(title string, titleTranslated *string) string {
	if titleTranslated != nil && *titleTranslated != "" {
		return *titleTranslated
	}
	return title
}

func upper(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}

func langKey(lang string) string {
	if lang == "" {
		return "-"
	}
	return lang
}

package rating

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nathanpasca/manov-sub001/internal/core/novel"
	"github.com/nathanpasca/manov-sub001/internal/platform/apperr"
	"github.com/nathanpasca/manov-sub001/internal/platform/cache"
	"github.com/nathanpasca/manov-sub001/internal/platform/validate"
	"github.com/nathanpasca/manov-sub001/pkg/pointer"
)

// NovelLookup reports whether a novel exists.
type NovelLookup interface {
	Exists(context context.Context, id int) (bool, error)
}

// Service implements rating reads and writes.
type Service struct {
	repo   Repository
	novels NovelLookup
	cache  cache.Cache
	logger *slog.Logger
}

// NewService constructs a new rating [Service]. readCache is the novel read
// cache, invalidated whenever an average changes.
func NewService(repo Repository, novels NovelLookup, readCache cache.Cache, logger *slog.Logger) *Service {
	return &Service{repo: repo, novels: novels, cache: readCache, logger: logger}
}

// UpsertInput is the body of POST /novels/{novelID}/ratings.
type UpsertInput struct {
	Rating     *int    `json:"rating"`
	ReviewText *string `json:"review_text"`
}

// ListRatings returns a page of a novel's ratings, newest first.
func (service *Service) ListRatings(context context.Context, novelID, limit, offset int) ([]*Rating, int, error) {
	if err := service.requireNovel(context, novelID); err != nil {
		return nil, 0, err
	}
	return service.repo.ListRatings(context, novelID, limit, offset)
}

// GetMyRating returns the caller's rating of a novel.
func (service *Service) GetMyRating(context context.Context, userID string, novelID int) (*Rating, error) {
	return service.repo.GetRating(context, userID, novelID)
}

/*
UpsertRating creates or replaces the caller's rating of a novel.

Returns:
  - *Rating: The stored rating with the author embedded
  - bool: true when the rating was created
  - error: 400 validation, 404 unknown novel
*/
func (service *Service) UpsertRating(context context.Context, userID string, novelID int, input UpsertInput) (*Rating, bool, error) {
	validator := &validate.Validator{}

	if input.Rating == nil {
		validator.Custom(FieldRating, true, "This field is required")
	} else {
		validator.Range(FieldRating, *input.Rating, MinScore, MaxScore)
	}
	if input.ReviewText != nil {
		validator.MaxLen(FieldReviewText, strings.TrimSpace(*input.ReviewText), MaxReviewLength)
	}

	if err := validator.Err(); err != nil {
		return nil, false, err
	}

	if err := service.requireNovel(context, novelID); err != nil {
		return nil, false, err
	}

	r := &Rating{
		UserID:     userID,
		NovelID:    novelID,
		Rating:     *input.Rating,
		ReviewText: pointer.Trimmed(input.ReviewText),
	}

	created, err := service.repo.UpsertRating(context, r)
	if err != nil {
		return nil, false, err
	}
	service.invalidate(context, novelID)

	service.logger.Info("rating_upserted",
		slog.String("user_id", userID),
		slog.Int("novel_id", novelID),
		slog.Int("rating", r.Rating),
		slog.Bool("created", created),
	)

	stored, err := service.repo.GetRating(context, userID, novelID)
	if err != nil {
		return nil, false, err
	}
	return stored, created, nil
}

// DeleteMyRating removes the caller's rating of a novel, or 404s.
func (service *Service) DeleteMyRating(context context.Context, userID string, novelID int) error {
	if err := service.repo.DeleteRating(context, userID, novelID); err != nil {
		return err
	}
	service.invalidate(context, novelID)

	service.logger.Info("rating_deleted", slog.String("user_id", userID), slog.Int("novel_id", novelID))
	return nil
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

func (service *Service) invalidate(context context.Context, novelID int) {
	if err := service.cache.Invalidate(context, novel.CacheTag(novelID)); err != nil {
		service.logger.Warn("rating_cache_invalidate_failed", slog.Int("novel_id", novelID), slog.Any("error", err))
	}
}

package favorite

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nathanpasca/manov-sub001/internal/core/novel"
	"github.com/nathanpasca/manov-sub001/internal/platform/apperr"
	"github.com/nathanpasca/manov-sub001/internal/platform/cache"
)

// NovelLookup reports whether a novel exists.
type NovelLookup interface {
	Exists(context context.Context, id int) (bool, error)
}

// Service implements favorites.
type Service struct {
	repo   Repository
	novels NovelLookup
	cache  cache.Cache
	logger *slog.Logger
}

// NewService constructs a new favorite [Service]. readCache is the novel
// read cache; favorite_count changes invalidate it.
func NewService(repo Repository, novels NovelLookup, readCache cache.Cache, logger *slog.Logger) *Service {
	return &Service{repo: repo, novels: novels, cache: readCache, logger: logger}
}

// AddFavorite bookmarks a novel. It 404s for unknown novels and 409s when
// the novel is already a favorite.
func (service *Service) AddFavorite(context context.Context, userID string, novelID int) (*Favorite, error) {
	exists, err := service.novels.Exists(context, novelID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound(fmt.Sprintf("Novel with ID %d", novelID))
	}

	f := &Favorite{UserID: userID, NovelID: novelID}
	if err := service.repo.AddFavorite(context, f); err != nil {
		return nil, err
	}
	service.invalidate(context, novelID)

	service.logger.Info("favorite_added", slog.String("user_id", userID), slog.Int("novel_id", novelID))
	return f, nil
}

// RemoveFavorite drops a bookmark, or 404s when the novel is not a favorite.
func (service *Service) RemoveFavorite(context context.Context, userID string, novelID int) error {
	if err := service.repo.RemoveFavorite(context, userID, novelID); err != nil {
		return err
	}
	service.invalidate(context, novelID)

	service.logger.Info("favorite_removed", slog.String("user_id", userID), slog.Int("novel_id", novelID))
	return nil
}

// ListFavorites returns a page of the user's favorites, newest first.
func (service *Service) ListFavorites(context context.Context, userID string, limit, offset int) ([]*Favorite, int, error) {
	return service.repo.ListFavorites(context, userID, limit, offset)
}

func (service *Service) invalidate(context context.Context, novelID int) {
	if err := service.cache.Invalidate(context, novel.CacheTag(novelID)); err != nil {
		service.logger.Warn("favorite_cache_invalidate_failed", slog.Int("novel_id", novelID), slog.Any("error", err))
	}
}

package genre

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nathanpasca/manov-sub001/internal/platform/apperr"
	"github.com/nathanpasca/manov-sub001/internal/platform/cache"
	"github.com/nathanpasca/manov-sub001/pkg/slug"
)

// cacheKey holds the whole genre list. Entries simply expire; novel writes
// do not invalidate it.
const cacheKey = "genres:all"

type Service struct {
	repo     Repository
	cache    cache.Cache
	cacheTTL time.Duration
	logger   *slog.Logger
}

func NewService(repo Repository, readCache cache.Cache, cacheTTL time.Duration, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		cache:    readCache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

func (service *Service) ListGenres(context context.Context) ([]*Genre, error) {
	var cached []*Genre
	if hit, err := service.cache.Get(context, cacheKey, &cached); err != nil {
		service.logger.Warn("genre_cache_read_failed", slog.Any("error", err))
	} else if hit {
		return cached, nil
	}

	genres, err := service.repo.ListGenres(context)
	if err != nil {
		return nil, err
	}
	for _, g := range genres {
		g.Slug = slug.From(g.Name)
		if g.Slug == "" {
			g.Slug = strings.ToLower(strings.TrimSpace(g.Name))
		}
	}

	if err := service.cache.Set(context, cacheKey, genres, service.cacheTTL); err != nil {
		service.logger.Warn("genre_cache_write_failed", slog.Any("error", err))
	}
	return genres, nil
}

// GetGenre finds a genre by slug or, failing that, by case-insensitive name.
func (service *Service) GetGenre(context context.Context, identifier string) (*Genre, error) {
	genres, err := service.ListGenres(context)
	if err != nil {
		return nil, err
	}

	wanted := strings.ToLower(strings.TrimSpace(identifier))
	for _, g := range genres {
		if g.Slug == wanted || strings.ToLower(g.Name) == wanted {
			return g, nil
		}
	}
	return nil, apperr.NotFound(fmt.Sprintf("Genre '%s'", identifier))
}

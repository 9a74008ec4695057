package favorite_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathanpasca/manov-sub001/internal/core/novel"
	"github.com/nathanpasca/manov-sub001/internal/library/favorite"
	"github.com/nathanpasca/manov-sub001/internal/platform/apperr"
	"github.com/nathanpasca/manov-sub001/internal/platform/cache"
)

type key struct {
	userID  string
	novelID int
}

// memoryRepository mirrors the favorite_count bookkeeping of the SQL store.
type memoryRepository struct {
	rows   map[key]*favorite.Favorite
	counts map[int]int
}

func (repository *memoryRepository) AddFavorite(_ context.Context, f *favorite.Favorite) error {
	k := key{f.UserID, f.NovelID}
	if _, ok := repository.rows[k]; ok {
		return apperr.Conflict("Novel is already in favorites")
	}
	f.ID = len(repository.rows) + 1
	repository.rows[k] = f
	repository.counts[f.NovelID]++
	return nil
}

func (repository *memoryRepository) RemoveFavorite(_ context.Context, userID string, novelID int) error {
	k := key{userID, novelID}
	if _, ok := repository.rows[k]; !ok {
		return apperr.NotFound("Favorite")
	}
	delete(repository.rows, k)
	repository.counts[novelID]--
	return nil
}

func (repository *memoryRepository) ListFavorites(_ context.Context, userID string, _, _ int) ([]*favorite.Favorite, int, error) {
	var out []*favorite.Favorite
	for k, f := range repository.rows {
		if k.userID == userID {
			out = append(out, f)
		}
	}
	return out, len(out), nil
}

type staticNovels map[int]bool

func (novels staticNovels) Exists(_ context.Context, id int) (bool, error) {
	return novels[id], nil
}

type tagRecorder struct {
	cache.Noop
	invalidated []string
}

func (recorder *tagRecorder) Invalidate(_ context.Context, tags ...string) error {
	recorder.invalidated = append(recorder.invalidated, tags...)
	return nil
}

func TestService_Favorites(t *testing.T) {
	ctx := context.Background()
	repo := &memoryRepository{rows: map[key]*favorite.Favorite{}, counts: map[int]int{}}
	recorder := &tagRecorder{}
	service := favorite.NewService(repo, staticNovels{1: true, 2: true}, recorder, slog.New(slog.NewTextHandler(io.Discard, nil)))

	f, err := service.AddFavorite(ctx, "u1", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, f.NovelID)
	assert.Equal(t, 1, repo.counts[1])

	_, err = service.AddFavorite(ctx, "u1", 1)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusConflict, ae.HTTPStatus)
	assert.Equal(t, 1, repo.counts[1])

	_, err = service.AddFavorite(ctx, "u1", 3)
	assert.True(t, apperr.IsNotFound(err))

	_, err = service.AddFavorite(ctx, "u2", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.counts[1])

	favorites, total, err := service.ListFavorites(ctx, "u1", 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, favorites, 1)

	require.NoError(t, service.RemoveFavorite(ctx, "u1", 1))
	assert.Equal(t, 1, repo.counts[1])
	assert.True(t, apperr.IsNotFound(service.RemoveFavorite(ctx, "u1", 1)))

	assert.Equal(t, []string{novel.CacheTag(1), novel.CacheTag(1), novel.CacheTag(1)}, recorder.invalidated)
}

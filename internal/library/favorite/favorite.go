// Package favorite keeps each reader's list of favorite novels and the
// denormalized favorite_count of every novel.
package favorite

import (
	"context"
	"time"

	"github.com/nathanpasca/manov-sub001/internal/core/novel"
)

// Favorite is one (user, novel) bookmark.
type Favorite struct {
	ID      int            `json:"id"`
	UserID  string         `json:"user_id"`
	NovelID int            `json:"novel_id"`
	AddedAt time.Time      `json:"added_at"`
	Novel   *novel.Summary `json:"novel,omitempty"`
}

// Repository defines the data access contract for favorites. Add and Remove
// adjust the novel's favorite_count in the same transaction.
type Repository interface {
	AddFavorite(context context.Context, favorite *Favorite) error
	RemoveFavorite(context context.Context, userID string, novelID int) error

	// ListFavorites returns a page of the user's favorites, newest first.
	ListFavorites(context context.Context, userID string, limit, offset int) ([]*Favorite, int, error)
}

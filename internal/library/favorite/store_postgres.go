package favorite

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nathanpasca/manov-sub001/internal/core/novel"
	"github.com/nathanpasca/manov-sub001/internal/platform/apperr"
	"github.com/nathanpasca/manov-sub001/internal/platform/database/schema"
	"github.com/nathanpasca/manov-sub001/internal/platform/dberr"
	"github.com/nathanpasca/manov-sub001/internal/platform/postgres"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed favorite store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) AddFavorite(context context.Context, favorite *Favorite) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) RETURNING %s, %s`,
		schema.LibraryFavorite.Table, schema.LibraryFavorite.UserID, schema.LibraryFavorite.NovelID,
		schema.LibraryFavorite.ID, schema.LibraryFavorite.AddedAt)

	return postgres.WithTx(context, repository.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(context, query, favorite.UserID, favorite.NovelID).Scan(&favorite.ID, &favorite.AddedAt)
		switch {
		case err == nil:
		case dberr.IsUniqueViolation(err, "uq_favorite_user_novel"):
			return apperr.Conflict("Novel is already in favorites")
		case dberr.IsForeignKeyViolation(err, "fk_favorite_novel"):
			return apperr.NotFound(fmt.Sprintf("Novel with ID %d", favorite.NovelID))
		default:
			return dberr.Wrap(err, "add_favorite")
		}
		return adjustCount(context, tx, favorite.NovelID, 1)
	})
}

func (repository *PostgresRepository) RemoveFavorite(context context.Context, userID string, novelID int) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.LibraryFavorite.Table, schema.LibraryFavorite.UserID, schema.LibraryFavorite.NovelID)

	return postgres.WithTx(context, repository.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(context, query, userID, novelID)
		if err != nil {
			return dberr.Wrap(err, "remove_favorite")
		}
		if tag.RowsAffected() == 0 {
			return apperr.NotFound("Favorite")
		}
		return adjustCount(context, tx, novelID, -1)
	})
}

func (repository *PostgresRepository) ListFavorites(context context.Context, userID string, limit, offset int) ([]*Favorite, int, error) {
	query := fmt.Sprintf(`
		SELECT f.%s, f.%s, f.%s, f.%s, n.%s, n.%s, n.%s, n.%s, COUNT(*) OVER()
		FROM %s f
		JOIN %s n ON n.%s = f.%s
		WHERE f.%s = $1
		ORDER BY f.%s DESC, f.%s DESC
		LIMIT $2 OFFSET $3
	`,
		schema.LibraryFavorite.ID, schema.LibraryFavorite.UserID, schema.LibraryFavorite.NovelID, schema.LibraryFavorite.AddedAt,
		schema.CoreNovel.ID, schema.CoreNovel.Slug, schema.CoreNovel.Title, schema.CoreNovel.CoverImageURL,
		schema.LibraryFavorite.Table,
		schema.CoreNovel.Table, schema.CoreNovel.ID, schema.LibraryFavorite.NovelID,
		schema.LibraryFavorite.UserID,
		schema.LibraryFavorite.AddedAt, schema.LibraryFavorite.ID,
	)

	rows, err := repository.db.Query(context, query, userID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_favorites")
	}
	defer rows.Close()

	var (
		favorites []*Favorite
		total     int
	)
	for rows.Next() {
		f := &Favorite{Novel: &novel.Summary{}}
		if err := rows.Scan(&f.ID, &f.UserID, &f.NovelID, &f.AddedAt,
			&f.Novel.ID, &f.Novel.Slug, &f.Novel.Title, &f.Novel.CoverImageURL, &total); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_favorite")
		}
		favorites = append(favorites, f)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "iterate_favorites")
	}
	return favorites, total, nil
}

// adjustCount moves favorite_count by delta without going below zero.
func adjustCount(context context.Context, tx pgx.Tx, novelID, delta int) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = GREATEST(%s + $2, 0) WHERE %s = $1`,
		schema.CoreNovel.Table, schema.CoreNovel.FavoriteCount, schema.CoreNovel.FavoriteCount, schema.CoreNovel.ID)

	if _, err := tx.Exec(context, query, novelID, delta); err != nil {
		return dberr.Wrap(err, "adjust_favorite_count")
	}
	return nil
}

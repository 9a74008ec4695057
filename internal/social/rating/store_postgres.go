package rating

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nathanpasca/manov-sub001/internal/platform/apperr"
	"github.com/nathanpasca/manov-sub001/internal/platform/database/schema"
	"github.com/nathanpasca/manov-sub001/internal/platform/dberr"
	"github.com/nathanpasca/manov-sub001/internal/platform/postgres"
	"github.com/nathanpasca/manov-sub001/internal/users/auth"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed rating store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ratingQuery builds the SELECT joined with the rating's author. List
// queries add the window count.
func ratingQuery(withTotal bool) string {
	total := ""
	if withTotal {
		total = ", COUNT(*) OVER()"
	}

	return fmt.Sprintf(`
		SELECT r.%s, r.%s, r.%s, r.%s, r.%s, r.%s, r.%s,
		       a.%s, a.%s, a.%s, a.%s%s
		FROM %s r
		JOIN %s a ON a.%s = r.%s`,
		schema.SocialRating.ID, schema.SocialRating.UserID, schema.SocialRating.NovelID,
		schema.SocialRating.Rating, schema.SocialRating.ReviewText, schema.SocialRating.CreatedAt,
		schema.SocialRating.UpdatedAt,
		schema.UserAccount.ID, schema.UserAccount.Username, schema.UserAccount.DisplayName, schema.UserAccount.AvatarURL,
		total,
		schema.SocialRating.Table, schema.UserAccount.Table, schema.UserAccount.ID, schema.SocialRating.UserID,
	)
}

var (
	detailSelect = ratingQuery(false)
	listSelect   = ratingQuery(true)
)

func scanRating(row pgx.Row, extra ...any) (*Rating, error) {
	r := &Rating{User: &auth.Summary{}}
	dest := append([]any{
		&r.ID, &r.UserID, &r.NovelID, &r.Rating, &r.ReviewText, &r.CreatedAt, &r.UpdatedAt,
		&r.User.ID, &r.User.Username, &r.User.DisplayName, &r.User.AvatarURL,
	}, extra...)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return r, nil
}

func (repository *PostgresRepository) ListRatings(context context.Context, novelID, limit, offset int) ([]*Rating, int, error) {
	query := fmt.Sprintf(`%s
		WHERE r.%s = $1
		ORDER BY r.%s DESC, r.%s DESC
		LIMIT $2 OFFSET $3`,
		listSelect, schema.SocialRating.NovelID,
		schema.SocialRating.CreatedAt, schema.SocialRating.ID,
	)

	rows, err := repository.db.Query(context, query, novelID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_ratings")
	}
	defer rows.Close()

	var (
		ratings []*Rating
		total   int
	)
	for rows.Next() {
		r, err := scanRating(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_rating")
		}
		ratings = append(ratings, r)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "iterate_ratings")
	}
	return ratings, total, nil
}

func (repository *PostgresRepository) GetRating(context context.Context, userID string, novelID int) (*Rating, error) {
	query := fmt.Sprintf(`%s WHERE r.%s = $1 AND r.%s = $2`,
		detailSelect, schema.SocialRating.UserID, schema.SocialRating.NovelID)

	r, err := scanRating(repository.db.QueryRow(context, query, userID, novelID))
	if err != nil {
		return nil, notFound(err, "get_rating", "Rating")
	}
	return r, nil
}

func (repository *PostgresRepository) UpsertRating(context context.Context, rating *Rating) (bool, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (%s, %s) DO UPDATE
		SET %s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = NOW()
		RETURNING %s, %s, %s, (xmax = 0)
	`,
		schema.SocialRating.Table,
		schema.SocialRating.UserID, schema.SocialRating.NovelID, schema.SocialRating.Rating, schema.SocialRating.ReviewText,
		schema.SocialRating.UserID, schema.SocialRating.NovelID,
		schema.SocialRating.Rating, schema.SocialRating.Rating,
		schema.SocialRating.ReviewText, schema.SocialRating.ReviewText,
		schema.SocialRating.UpdatedAt,
		schema.SocialRating.ID, schema.SocialRating.CreatedAt, schema.SocialRating.UpdatedAt,
	)

	var inserted bool
	err := postgres.WithTx(context, repository.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(context, query, rating.UserID, rating.NovelID, rating.Rating, rating.ReviewText).
			Scan(&rating.ID, &rating.CreatedAt, &rating.UpdatedAt, &inserted)
		if err != nil {
			return writeError(err, "upsert_rating", rating.NovelID)
		}
		return refreshAverage(context, tx, rating.NovelID)
	})
	return inserted, err
}

func (repository *PostgresRepository) DeleteRating(context context.Context, userID string, novelID int) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.SocialRating.Table, schema.SocialRating.UserID, schema.SocialRating.NovelID)

	return postgres.WithTx(context, repository.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(context, query, userID, novelID)
		if err != nil {
			return dberr.Wrap(err, "delete_rating")
		}
		if tag.RowsAffected() == 0 {
			return apperr.NotFound("Rating")
		}
		return refreshAverage(context, tx, novelID)
	})
}

// refreshAverage stores the rounded mean of the novel's ratings, or NULL when
// none remain.
func refreshAverage(context context.Context, tx pgx.Tx, novelID int) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = (SELECT ROUND(AVG(%s)::numeric, 1) FROM %s WHERE %s = $1)
		WHERE %s = $1
	`,
		schema.CoreNovel.Table,
		schema.CoreNovel.AverageRating,
		schema.SocialRating.Rating, schema.SocialRating.Table, schema.SocialRating.NovelID,
		schema.CoreNovel.ID,
	)

	if _, err := tx.Exec(context, query, novelID); err != nil {
		return dberr.Wrap(err, "refresh_average_rating")
	}
	return nil
}

// # Helpers

func writeError(err error, action string, novelID int) error {
	if dberr.IsForeignKeyViolation(err, "fk_rating_novel") {
		return apperr.NotFound(fmt.Sprintf("Novel with ID %d", novelID))
	}
	return dberr.Wrap(err, action)
}

func notFound(err error, action, resource string) error {
	wrapped := dberr.Wrap(err, action)
	if apperr.IsNotFound(wrapped) {
		return apperr.NotFound(resource)
	}
	return wrapped
}

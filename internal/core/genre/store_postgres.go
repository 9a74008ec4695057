package genre

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nathanpasca/manov-sub001/internal/platform/database/schema"
	"github.com/nathanpasca/manov-sub001/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) ListGenres(context context.Context) ([]*Genre, error) {
	// MIN keeps one spelling per case-insensitive group.
	query := fmt.Sprintf(`
		SELECT MIN(tag) AS name, COUNT(DISTINCT n.%s) AS novelcount
		FROM %s n, unnest(n.%s) AS tag
		WHERE n.%s = TRUE AND btrim(tag) <> ''
		GROUP BY lower(tag)
		ORDER BY novelcount DESC, name ASC
	`,
		schema.CoreNovel.ID, schema.CoreNovel.Table, schema.CoreNovel.GenreTags, schema.CoreNovel.IsActive,
	)

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_genres")
	}
	defer rows.Close()

	genres := make([]*Genre, 0)
	for rows.Next() {
		g := &Genre{}
		if err := rows.Scan(&g.Name, &g.NovelCount); err != nil {
			return nil, dberr.Wrap(err, "scan_genre")
		}
		genres = append(genres, g)
	}

	return genres, dberr.Wrap(rows.Err(), "list_genres")
}

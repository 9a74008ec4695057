package progress

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nathanpasca/manov-sub001/internal/core/chapter"
	"github.com/nathanpasca/manov-sub001/internal/core/novel"
	"github.com/nathanpasca/manov-sub001/internal/platform/apperr"
	"github.com/nathanpasca/manov-sub001/internal/platform/database/schema"
	"github.com/nathanpasca/manov-sub001/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed progress store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func progressQuery(withTotal bool) string {
	t := schema.LibraryReadingProgress
	columns := []string{
		"p." + t.ID, "p." + t.UserID, "p." + t.NovelID, "p." + t.ChapterID, "p." + t.ReadingPosition,
		"p." + t.ProgressPercentage, "p." + t.LastReadAt, "p." + t.CreatedAt, "p." + t.UpdatedAt,
		"n." + schema.CoreNovel.ID, "n." + schema.CoreNovel.Slug, "n." + schema.CoreNovel.Title, "n." + schema.CoreNovel.CoverImageURL,
		"c." + schema.CoreChapter.ID, "c." + schema.CoreChapter.ChapterNumber, "c." + schema.CoreChapter.Title,
	}
	if withTotal {
		columns = append(columns, "COUNT(*) OVER()")
	}

	return fmt.Sprintf(`
		SELECT %s
		FROM %s p
		JOIN %s n ON n.%s = p.%s
		JOIN %s c ON c.%s = p.%s`,
		strings.Join(columns, ", "),
		t.Table,
		schema.CoreNovel.Table, schema.CoreNovel.ID, t.NovelID,
		schema.CoreChapter.Table, schema.CoreChapter.ID, t.ChapterID,
	)
}

var (
	detailSelect = progressQuery(false)
	listSelect   = progressQuery(true)
)

func scanProgress(row pgx.Row, extra ...any) (*Progress, error) {
	p := &Progress{Novel: &novel.Summary{}, Chapter: &chapter.Summary{}}
	dest := append([]any{
		&p.ID, &p.UserID, &p.NovelID, &p.ChapterID, &p.ReadingPosition, &p.ProgressPercentage,
		&p.LastReadAt, &p.CreatedAt, &p.UpdatedAt,
		&p.Novel.ID, &p.Novel.Slug, &p.Novel.Title, &p.Novel.CoverImageURL,
		&p.Chapter.ID, &p.Chapter.ChapterNumber, &p.Chapter.Title,
	}, extra...)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return p, nil
}

func (repository *PostgresRepository) SaveProgress(context context.Context, progress *Progress) error {
	t := schema.LibraryReadingProgress
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (%s, %s) DO UPDATE
		SET %s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = NOW(), %s = NOW()
		RETURNING %s, %s, %s, %s
	`,
		t.Table, t.UserID, t.NovelID, t.ChapterID, t.ReadingPosition, t.ProgressPercentage,
		t.UserID, t.NovelID,
		t.ChapterID, t.ChapterID, t.ReadingPosition, t.ReadingPosition,
		t.ProgressPercentage, t.ProgressPercentage, t.LastReadAt, t.UpdatedAt,
		t.ID, t.LastReadAt, t.CreatedAt, t.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		progress.UserID, progress.NovelID, progress.ChapterID, progress.ReadingPosition, progress.ProgressPercentage,
	).Scan(&progress.ID, &progress.LastReadAt, &progress.CreatedAt, &progress.UpdatedAt)

	switch {
	case err == nil:
		return nil
	case dberr.IsForeignKeyViolation(err, "fk_readingprogress_novel"):
		return apperr.NotFound(fmt.Sprintf("Novel with ID %d", progress.NovelID))
	case dberr.IsForeignKeyViolation(err, "fk_readingprogress_chapter"):
		return apperr.NotFound(fmt.Sprintf("Chapter with ID %d", progress.ChapterID))
	}
	return dberr.Wrap(err, "save_progress")
}

func (repository *PostgresRepository) GetProgress(context context.Context, userID string, novelID int) (*Progress, error) {
	query := fmt.Sprintf(`%s WHERE p.%s = $1 AND p.%s = $2`,
		detailSelect, schema.LibraryReadingProgress.UserID, schema.LibraryReadingProgress.NovelID)

	p, err := scanProgress(repository.db.QueryRow(context, query, userID, novelID))
	if err != nil {
		wrapped := dberr.Wrap(err, "get_progress")
		if apperr.IsNotFound(wrapped) {
			return nil, apperr.NotFound("Reading progress")
		}
		return nil, wrapped
	}
	return p, nil
}

func (repository *PostgresRepository) ListProgress(context context.Context, userID string, limit, offset int) ([]*Progress, int, error) {
	query := fmt.Sprintf(`%s
		WHERE p.%s = $1
		ORDER BY p.%s DESC, p.%s DESC
		LIMIT $2 OFFSET $3`,
		listSelect, schema.LibraryReadingProgress.UserID,
		schema.LibraryReadingProgress.LastReadAt, schema.LibraryReadingProgress.ID,
	)

	rows, err := repository.db.Query(context, query, userID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_progress")
	}
	defer rows.Close()

	var (
		entries []*Progress
		total   int
	)
	for rows.Next() {
		p, err := scanProgress(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_progress")
		}
		entries = append(entries, p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "iterate_progress")
	}
	return entries, total, nil
}

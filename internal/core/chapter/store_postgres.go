package chapter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nathanpasca/manov-sub001/internal/core/novel"
	"github.com/nathanpasca/manov-sub001/internal/platform/apperr"
	"github.com/nathanpasca/manov-sub001/internal/platform/database/schema"
	"github.com/nathanpasca/manov-sub001/internal/platform/dberr"
	"github.com/nathanpasca/manov-sub001/pkg/query"
)

// # PostgreSQL Repository

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed chapter store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// SortSpec whitelists the sort keys of GET /novels/{id}/chapters.
var SortSpec = query.SortSpec{
	Columns: map[string]string{
		"chapter_number": "c." + schema.CoreChapter.ChapterNumber,
		"published_at":   "c." + schema.CoreChapter.PublishedAt,
		"title":          "c." + schema.CoreChapter.Title,
		"word_count":     "c." + schema.CoreChapter.WordCount,
		"created_at":     "c." + schema.CoreChapter.CreatedAt,
		"updated_at":     "c." + schema.CoreChapter.UpdatedAt,
	},
	Default: "chapter_number",
}

// chapterSelect builds the SELECT joined with the parent novel. List queries
// replace the content column with an empty literal.
func chapterSelect(withContent bool) string {
	columns := make([]string, 0, len(schema.CoreChapter.Columns())+5)
	for _, column := range schema.CoreChapter.Columns() {
		if column == schema.CoreChapter.Content && !withContent {
			columns = append(columns, "''")
			continue
		}
		columns = append(columns, "c."+column)
	}
	columns = append(columns,
		"n."+schema.CoreNovel.ID, "n."+schema.CoreNovel.Title, "n."+schema.CoreNovel.Slug,
		"n."+schema.CoreNovel.CoverImageURL, "n."+schema.CoreNovel.OriginalLanguage,
	)

	return fmt.Sprintf(`SELECT %s FROM %s c JOIN %s n ON n.%s = c.%s`,
		strings.Join(columns, ", "), schema.CoreChapter.Table, schema.CoreNovel.Table,
		schema.CoreNovel.ID, schema.CoreChapter.NovelID,
	)
}

var (
	detailSelect = chapterSelect(true)
	listSelect   = chapterSelect(false)
)

func scanChapter(row pgx.Row, extra ...any) (*Chapter, error) {
	c := &Chapter{Novel: &novel.Summary{}}
	dest := append([]any{
		&c.ID, &c.NovelID, &c.ChapterNumber, &c.Title, &c.Content, &c.WordCount, &c.IsPublished,
		&c.PublishedAt, &c.TranslatorNotes, &c.OriginalChapterURL, &c.ReadingTimeEstimate,
		&c.CreatedAt, &c.UpdatedAt,
		&c.Novel.ID, &c.Novel.Title, &c.Novel.Slug, &c.Novel.CoverImageURL, &c.OriginalLanguage,
	}, extra...)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return c, nil
}

func (repository *PostgresRepository) ListChapters(context context.Context, novelID int, filter Filter, sort query.Sort, limit, offset int) ([]*Chapter, int, error) {
	var queryBuilder strings.Builder
	args := []any{novelID}
	argID := 2

	queryBuilder.WriteString(strings.Replace(listSelect, " FROM ", ", COUNT(*) OVER() FROM ", 1))
	queryBuilder.WriteString(fmt.Sprintf(" WHERE c.%s = $1", schema.CoreChapter.NovelID))

	if filter.IsPublished != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND c.%s = $%d", schema.CoreChapter.IsPublished, argID))
		args = append(args, *filter.IsPublished)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s NULLS LAST, c.%s ASC LIMIT $%d OFFSET $%d",
		sort.SQL(), schema.CoreChapter.ChapterNumber, argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_chapters")
	}
	defer rows.Close()

	chapters := []*Chapter{}
	total := 0
	for rows.Next() {
		c, err := scanChapter(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_chapter")
		}
		chapters = append(chapters, c)
	}

	return chapters, total, dberr.Wrap(rows.Err(), "list_chapters")
}

func (repository *PostgresRepository) GetChapter(context context.Context, id int) (*Chapter, error) {
	query := detailSelect + fmt.Sprintf(` WHERE c.%s = $1`, schema.CoreChapter.ID)

	c, err := scanChapter(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, notFound(err, "get_chapter", fmt.Sprintf("Chapter with ID %d", id))
	}
	return c, nil
}

func (repository *PostgresRepository) GetChapterByNumber(context context.Context, novelID int, number float64) (*Chapter, error) {
	query := detailSelect + fmt.Sprintf(` WHERE c.%s = $1 AND c.%s = $2`, schema.CoreChapter.NovelID, schema.CoreChapter.ChapterNumber)

	c, err := scanChapter(repository.db.QueryRow(context, query, novelID, number))
	if err != nil {
		return nil, notFound(err, "get_chapter_by_number", fmt.Sprintf("Chapter %g of novel ID %d", number, novelID))
	}
	return c, nil
}

func (repository *PostgresRepository) CreateChapter(context context.Context, c *Chapter) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING %s, %s, %s
	`,
		schema.CoreChapter.Table,
		schema.CoreChapter.NovelID, schema.CoreChapter.ChapterNumber, schema.CoreChapter.Title,
		schema.CoreChapter.Content, schema.CoreChapter.WordCount, schema.CoreChapter.IsPublished,
		schema.CoreChapter.PublishedAt, schema.CoreChapter.TranslatorNotes, schema.CoreChapter.OriginalChapterURL,
		schema.CoreChapter.ReadingTimeEstimate,
		schema.CoreChapter.ID, schema.CoreChapter.CreatedAt, schema.CoreChapter.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		c.NovelID, c.ChapterNumber, c.Title, c.Content, c.WordCount, c.IsPublished,
		c.PublishedAt, c.TranslatorNotes, c.OriginalChapterURL, c.ReadingTimeEstimate,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)

	return writeError(err, c, "create_chapter")
}

func (repository *PostgresRepository) UpdateChapter(context context.Context, c *Chapter) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = $9, %s = $10, %s = NOW()
		WHERE %s = $1
		RETURNING %s
	`,
		schema.CoreChapter.Table,
		schema.CoreChapter.ChapterNumber, schema.CoreChapter.Title, schema.CoreChapter.Content,
		schema.CoreChapter.WordCount, schema.CoreChapter.IsPublished, schema.CoreChapter.PublishedAt,
		schema.CoreChapter.TranslatorNotes, schema.CoreChapter.OriginalChapterURL,
		schema.CoreChapter.ReadingTimeEstimate, schema.CoreChapter.UpdatedAt,
		schema.CoreChapter.ID,
		schema.CoreChapter.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		c.ID, c.ChapterNumber, c.Title, c.Content, c.WordCount, c.IsPublished,
		c.PublishedAt, c.TranslatorNotes, c.OriginalChapterURL, c.ReadingTimeEstimate,
	).Scan(&c.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(fmt.Sprintf("Chapter with ID %d", c.ID))
	}
	return writeError(err, c, "update_chapter")
}

func (repository *PostgresRepository) DeleteChapter(context context.Context, id int) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CoreChapter.Table, schema.CoreChapter.ID)

	cmd, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_chapter")
	}

	if cmd.RowsAffected() == 0 {
		return apperr.NotFound(fmt.Sprintf("Chapter with ID %d", id))
	}
	return nil
}

// # Helpers

func writeError(err error, c *Chapter, action string) error {
	switch {
	case err == nil:
		return nil
	case dberr.IsUniqueViolation(err, "uq_chapter_novel_number"):
		return DuplicateNumber(c.ChapterNumber, c.NovelID)
	case dberr.IsForeignKeyViolation(err, "fk_chapter_novel"):
		return apperr.NotFound(fmt.Sprintf("Novel with ID %d", c.NovelID))
	}
	return dberr.Wrap(err, action)
}

// DuplicateNumber is the conflict raised when a novel already has the chapter number.
func DuplicateNumber(number float64, novelID int) error {
	return apperr.Conflict(fmt.Sprintf("Chapter number %g already exists for novel ID %d", number, novelID))
}

func notFound(err error, action, resource string) error {
	wrapped := dberr.Wrap(err, action)
	if apperr.IsNotFound(wrapped) {
		return apperr.NotFound(resource)
	}
	return wrapped
}

package novel

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nathanpasca/manov-sub001/internal/core/author"
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

// NewPostgresRepository constructs a PostgreSQL backed novel store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// SortSpec whitelists the sort keys of GET /novels.
var SortSpec = query.SortSpec{
	Columns: map[string]string{
		"updated_at":         "n." + schema.CoreNovel.UpdatedAt,
		"created_at":         "n." + schema.CoreNovel.CreatedAt,
		"title":              "n." + schema.CoreNovel.Title,
		"view_count":         "n." + schema.CoreNovel.ViewCount,
		"favorite_count":     "n." + schema.CoreNovel.FavoriteCount,
		"average_rating":     "n." + schema.CoreNovel.AverageRating,
		"first_published_at": "n." + schema.CoreNovel.FirstPublishedAt,
	},
	Default:     "updated_at",
	DefaultDesc: true,
}

// novelSelect projects every novel column (aliased "n") plus the author summary (aliased "a").
var novelSelect = func() string {
	columns := make([]string, 0, len(schema.CoreNovel.Columns())+3)
	for _, column := range schema.CoreNovel.Columns() {
		columns = append(columns, "n."+column)
	}
	columns = append(columns, "a."+schema.RefAuthor.ID, "a."+schema.RefAuthor.Name, "a."+schema.RefAuthor.NameRomanized)

	return fmt.Sprintf(`SELECT %s FROM %s n JOIN %s a ON a.%s = n.%s`,
		strings.Join(columns, ", "), schema.CoreNovel.Table, schema.RefAuthor.Table,
		schema.RefAuthor.ID, schema.CoreNovel.AuthorID,
	)
}()

// ScanNovel reads a row projected as every [schema.CoreNovel] column followed
// by the author id, name and romanized name.
func ScanNovel(row pgx.Row, extra ...any) (*Novel, error) {
	n := &Novel{Author: &author.Summary{}}
	dest := append([]any{
		&n.ID, &n.Slug, &n.Title, &n.TitleTranslated, &n.AuthorID, &n.OriginalLanguage, &n.Synopsis,
		&n.CoverImageURL, &n.SourceURL, &n.PublicationStatus, &n.TranslationStatus, &n.GenreTags,
		&n.TotalChapters, &n.ViewCount, &n.FavoriteCount, &n.AverageRating, &n.FirstPublishedAt,
		&n.IsActive, &n.CreatedAt, &n.UpdatedAt,
		&n.Author.ID, &n.Author.Name, &n.Author.NameRomanized,
	}, extra...)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if n.GenreTags == nil {
		n.GenreTags = []string{}
	}
	return n, nil
}

/*
ListNovels returns a filtered, paginated slice of novels and the total count.

Description: A single statement joins the author summary and uses
COUNT(*) OVER() for the total. Genre matching uses the GIN-indexed
array containment operator.
*/
func (repository *PostgresRepository) ListNovels(context context.Context, filter Filter, sort query.Sort, limit, offset int) ([]*Novel, int, error) {
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(strings.Replace(novelSelect, " FROM ", ", COUNT(*) OVER() FROM ", 1))
	queryBuilder.WriteString(" WHERE TRUE")

	if filter.IsActive != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND n.%s = $%d", schema.CoreNovel.IsActive, argID))
		args = append(args, *filter.IsActive)
		argID++
	}

	if filter.PublicationStatus != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND n.%s = $%d", schema.CoreNovel.PublicationStatus, argID))
		args = append(args, filter.PublicationStatus)
		argID++
	}

	if filter.OriginalLanguage != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND n.%s = $%d", schema.CoreNovel.OriginalLanguage, argID))
		args = append(args, filter.OriginalLanguage)
		argID++
	}

	if filter.Genre != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND n.%s @> ARRAY[$%d]::text[]", schema.CoreNovel.GenreTags, argID))
		args = append(args, filter.Genre)
		argID++
	}

	if filter.AuthorID > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" AND n.%s = $%d", schema.CoreNovel.AuthorID, argID))
		args = append(args, filter.AuthorID)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s NULLS LAST, n.%s ASC LIMIT $%d OFFSET $%d",
		sort.SQL(), schema.CoreNovel.ID, argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_novels")
	}
	defer rows.Close()

	novels := []*Novel{}
	total := 0
	for rows.Next() {
		n, err := ScanNovel(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_novel")
		}
		novels = append(novels, n)
	}

	return novels, total, dberr.Wrap(rows.Err(), "list_novels")
}

func (repository *PostgresRepository) GetNovel(context context.Context, id int) (*Novel, error) {
	query := novelSelect + fmt.Sprintf(` WHERE n.%s = $1`, schema.CoreNovel.ID)

	n, err := ScanNovel(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, notFound(err, "get_novel", fmt.Sprintf("Novel with ID %d", id))
	}
	return n, nil
}

func (repository *PostgresRepository) GetNovelBySlug(context context.Context, slug string) (*Novel, error) {
	query := novelSelect + fmt.Sprintf(` WHERE n.%s = $1`, schema.CoreNovel.Slug)

	n, err := ScanNovel(repository.db.QueryRow(context, query, slug))
	if err != nil {
		return nil, notFound(err, "get_novel_by_slug", fmt.Sprintf("Novel with slug '%s'", slug))
	}
	return n, nil
}

func (repository *PostgresRepository) SlugExists(context context.Context, slug string, excludeID int) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s <> $2)`,
		schema.CoreNovel.Table, schema.CoreNovel.Slug, schema.CoreNovel.ID)

	var exists bool
	err := repository.db.QueryRow(context, query, slug, excludeID).Scan(&exists)
	return exists, dberr.Wrap(err, "novel_slug_exists")
}

func (repository *PostgresRepository) CreateNovel(context context.Context, n *Novel) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING %s, %s, %s, %s, %s
	`,
		schema.CoreNovel.Table,
		schema.CoreNovel.Slug, schema.CoreNovel.Title, schema.CoreNovel.TitleTranslated, schema.CoreNovel.AuthorID,
		schema.CoreNovel.OriginalLanguage, schema.CoreNovel.Synopsis, schema.CoreNovel.CoverImageURL,
		schema.CoreNovel.SourceURL, schema.CoreNovel.PublicationStatus, schema.CoreNovel.TranslationStatus,
		schema.CoreNovel.GenreTags, schema.CoreNovel.TotalChapters, schema.CoreNovel.FirstPublishedAt,
		schema.CoreNovel.IsActive,
		schema.CoreNovel.ID, schema.CoreNovel.ViewCount, schema.CoreNovel.FavoriteCount,
		schema.CoreNovel.CreatedAt, schema.CoreNovel.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		n.Slug, n.Title, n.TitleTranslated, n.AuthorID, n.OriginalLanguage, n.Synopsis, n.CoverImageURL,
		n.SourceURL, n.PublicationStatus, n.TranslationStatus, n.GenreTags, n.TotalChapters,
		n.FirstPublishedAt, n.IsActive,
	).Scan(&n.ID, &n.ViewCount, &n.FavoriteCount, &n.CreatedAt, &n.UpdatedAt)

	return writeError(err, n, "create_novel")
}

func (repository *PostgresRepository) UpdateNovel(context context.Context, n *Novel) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = $9,
		    %s = $10, %s = $11, %s = $12, %s = $13, %s = $14, %s = $15, %s = NOW()
		WHERE %s = $1
		RETURNING %s
	`,
		schema.CoreNovel.Table,
		schema.CoreNovel.Slug, schema.CoreNovel.Title, schema.CoreNovel.TitleTranslated, schema.CoreNovel.AuthorID,
		schema.CoreNovel.OriginalLanguage, schema.CoreNovel.Synopsis, schema.CoreNovel.CoverImageURL,
		schema.CoreNovel.SourceURL, schema.CoreNovel.PublicationStatus, schema.CoreNovel.TranslationStatus,
		schema.CoreNovel.GenreTags, schema.CoreNovel.TotalChapters, schema.CoreNovel.FirstPublishedAt,
		schema.CoreNovel.IsActive, schema.CoreNovel.UpdatedAt,
		schema.CoreNovel.ID,
		schema.CoreNovel.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		n.ID, n.Slug, n.Title, n.TitleTranslated, n.AuthorID, n.OriginalLanguage, n.Synopsis, n.CoverImageURL,
		n.SourceURL, n.PublicationStatus, n.TranslationStatus, n.GenreTags, n.TotalChapters,
		n.FirstPublishedAt, n.IsActive,
	).Scan(&n.UpdatedAt)

	if err != nil && apperr.IsNotFound(dberr.Wrap(err, "update_novel")) {
		return apperr.NotFound(fmt.Sprintf("Novel with ID %d", n.ID))
	}
	return writeError(err, n, "update_novel")
}

func (repository *PostgresRepository) DeleteNovel(context context.Context, id int) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CoreNovel.Table, schema.CoreNovel.ID)

	cmd, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_novel")
	}

	if cmd.RowsAffected() == 0 {
		return apperr.NotFound(fmt.Sprintf("Novel with ID %d", id))
	}
	return nil
}

// # Helpers

// writeError names the constraint a novel write tripped over.
func writeError(err error, n *Novel, action string) error {
	switch {
	case err == nil:
		return nil
	case dberr.IsUniqueViolation(err, "uq_novel_slug"):
		return apperr.Conflict(fmt.Sprintf("Slug '%s' already exists. Please adjust title or title_translated.", n.Slug))
	case dberr.IsForeignKeyViolation(err, "fk_novel_author"):
		return apperr.ValidationError("Validation failed", apperr.FieldError{
			Field: FieldAuthorID, Message: fmt.Sprintf("Author with ID %d not found.", n.AuthorID),
		})
	}
	return dberr.Wrap(err, action)
}

// notFound replaces the generic 404 message with one naming the resource.
func notFound(err error, action, resource string) error {
	wrapped := dberr.Wrap(err, action)
	if apperr.IsNotFound(wrapped) {
		return apperr.NotFound(resource)
	}
	return wrapped
}

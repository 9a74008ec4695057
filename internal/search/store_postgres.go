package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nathanpasca/manov-sub001/internal/core/author"
	"github.com/nathanpasca/manov-sub001/internal/core/novel"
	"github.com/nathanpasca/manov-sub001/internal/platform/database/schema"
	"github.com/nathanpasca/manov-sub001/internal/platform/dberr"
)

var dialect = goqu.Dialect("postgres")

// PostgresRepository implements [Repository] with goqu-built statements.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed search store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) SearchNovels(context context.Context, term string, limit, offset int) ([]*novel.Novel, int, error) {
	statement, args, err := novelsQuery(term, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("search_build_novels_failed: %w", err)
	}
	return collect(context, repository.db, statement, args, "search_novels", novel.ScanNovel)
}

func (repository *PostgresRepository) SearchAuthors(context context.Context, term string, limit, offset int) ([]*author.Author, int, error) {
	statement, args, err := authorsQuery(term, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("search_build_authors_failed: %w", err)
	}
	return collect(context, repository.db, statement, args, "search_authors", author.ScanAuthor)
}

// # Statements

// pattern escapes LIKE wildcards in term and wraps it for a substring match.
func pattern(term string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
	return "%" + escaped + "%"
}

func prefixed(alias string, columns []string) []any {
	out := make([]any, len(columns))
	for i, column := range columns {
		out[i] = goqu.I(alias + "." + column)
	}
	return out
}

func novelsQuery(term string, limit, offset int) (string, []any, error) {
	like := pattern(term)

	columns := prefixed("n", schema.CoreNovel.Columns())
	columns = append(columns, prefixed("a", []string{schema.RefAuthor.ID, schema.RefAuthor.Name, schema.RefAuthor.NameRomanized})...)
	columns = append(columns, goqu.L("COUNT(*) OVER()"))

	matches := []exp.Expression{
		goqu.I("n." + schema.CoreNovel.Title).ILike(like),
		goqu.I("n." + schema.CoreNovel.TitleTranslated).ILike(like),
		goqu.I("n." + schema.CoreNovel.Synopsis).ILike(like),
		goqu.I("a." + schema.RefAuthor.Name).ILike(like),
		goqu.I("a." + schema.RefAuthor.NameRomanized).ILike(like),
	}

	return dialect.From(goqu.I(schema.CoreNovel.Table).As("n")).
		Prepared(true).
		Select(columns...).
		Join(goqu.I(schema.RefAuthor.Table).As("a"), goqu.On(goqu.I("a."+schema.RefAuthor.ID).Eq(goqu.I("n."+schema.CoreNovel.AuthorID)))).
		Where(goqu.I("n."+schema.CoreNovel.IsActive).IsTrue(), goqu.Or(matches...)).
		Order(goqu.I("n."+schema.CoreNovel.UpdatedAt).Desc(), goqu.I("n."+schema.CoreNovel.ID).Desc()).
		Limit(uint(limit)).
		Offset(uint(offset)).
		ToSQL()
}

func authorsQuery(term string, limit, offset int) (string, []any, error) {
	like := pattern(term)

	columns := prefixed("a", schema.RefAuthor.Columns())
	columns = append(columns, goqu.L("COUNT(*) OVER()"))

	matches := []exp.Expression{
		goqu.I("a." + schema.RefAuthor.Name).ILike(like),
		goqu.I("a." + schema.RefAuthor.NameRomanized).ILike(like),
		goqu.I("a." + schema.RefAuthor.Biography).ILike(like),
	}

	return dialect.From(goqu.I(schema.RefAuthor.Table).As("a")).
		Prepared(true).
		Select(columns...).
		Where(goqu.I("a."+schema.RefAuthor.IsActive).IsTrue(), goqu.Or(matches...)).
		Order(goqu.I("a."+schema.RefAuthor.Name).Asc(), goqu.I("a."+schema.RefAuthor.ID).Asc()).
		Limit(uint(limit)).
		Offset(uint(offset)).
		ToSQL()
}

// collect runs a windowed statement and scans each row with scan, which
// receives the total count as its trailing destination.
func collect[T any](context context.Context, db *pgxpool.Pool, statement string, args []any, action string, scan func(pgx.Row, ...any) (*T, error)) ([]*T, int, error) {
	rows, err := db.Query(context, statement, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, action)
	}
	defer rows.Close()

	items := []*T{}
	total := 0
	for rows.Next() {
		item, err := scan(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, action)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, action)
	}
	return items, total, nil
}

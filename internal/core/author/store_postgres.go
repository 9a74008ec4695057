package author

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nathanpasca/manov-sub001/internal/platform/apperr"
	"github.com/nathanpasca/manov-sub001/internal/platform/database/schema"
	"github.com/nathanpasca/manov-sub001/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var authorColumns = strings.Join(schema.RefAuthor.Columns(), ", ")

// ScanAuthor reads a row projected as [schema.RefAuthor.Columns].
func ScanAuthor(row pgx.Row, extra ...any) (*Author, error) {
	a := &Author{}
	dest := append([]any{
		&a.ID, &a.Name, &a.NameRomanized, &a.Biography, &a.OriginalLanguage, &a.BirthDate, &a.DeathDate,
		&a.Nationality, &a.ProfileImageURL, &a.IsActive, &a.CreatedAt, &a.UpdatedAt,
	}, extra...)
	return a, row.Scan(dest...)
}

func (repository *PostgresRepository) ListAuthors(context context.Context, filter Filter, limit, offset int) ([]*Author, int, error) {
	var (
		conditions []string
		args       []any
	)

	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", schema.RefAuthor.IsActive, len(args)))
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		args = append(args, "%"+q+"%")
		conditions = append(conditions, fmt.Sprintf("(%s ILIKE $%d OR %s ILIKE $%d)",
			schema.RefAuthor.Name, len(args), schema.RefAuthor.NameRomanized, len(args)))
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, `SELECT %s, COUNT(*) OVER() FROM %s`, authorColumns, schema.RefAuthor.Table)
	if len(conditions) > 0 {
		builder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	fmt.Fprintf(&builder, ` ORDER BY %s ASC, %s ASC LIMIT $%d OFFSET $%d`,
		schema.RefAuthor.Name, schema.RefAuthor.ID, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, builder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_authors")
	}
	defer rows.Close()

	authors := []*Author{}
	total := 0
	for rows.Next() {
		a, err := ScanAuthor(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_author")
		}
		authors = append(authors, a)
	}

	return authors, total, dberr.Wrap(rows.Err(), "list_authors")
}

func (repository *PostgresRepository) GetAuthor(context context.Context, id int) (*Author, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, authorColumns, schema.RefAuthor.Table, schema.RefAuthor.ID)

	a, err := ScanAuthor(repository.db.QueryRow(context, query, id))
	if err != nil {
		wrapped := dberr.Wrap(err, "get_author")
		if apperr.IsNotFound(wrapped) {
			return nil, apperr.NotFound(fmt.Sprintf("Author with ID %d", id))
		}
		return nil, wrapped
	}
	return a, nil
}

func (repository *PostgresRepository) CreateAuthor(context context.Context, a *Author) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING %s, %s, %s
	`,
		schema.RefAuthor.Table, schema.RefAuthor.Name, schema.RefAuthor.NameRomanized, schema.RefAuthor.Biography,
		schema.RefAuthor.OriginalLanguage, schema.RefAuthor.BirthDate, schema.RefAuthor.DeathDate,
		schema.RefAuthor.Nationality, schema.RefAuthor.ProfileImageURL, schema.RefAuthor.IsActive,
		schema.RefAuthor.CreatedAt, schema.RefAuthor.UpdatedAt,
		schema.RefAuthor.ID, schema.RefAuthor.CreatedAt, schema.RefAuthor.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		a.Name, a.NameRomanized, a.Biography, a.OriginalLanguage, a.BirthDate, a.DeathDate,
		a.Nationality, a.ProfileImageURL, a.IsActive,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	return dberr.Wrap(err, "create_author")
}

func (repository *PostgresRepository) UpdateAuthor(context context.Context, a *Author) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = $9, %s = $10, %s = NOW()
		WHERE %s = $1
		RETURNING %s
	`,
		schema.RefAuthor.Table, schema.RefAuthor.Name, schema.RefAuthor.NameRomanized, schema.RefAuthor.Biography,
		schema.RefAuthor.OriginalLanguage, schema.RefAuthor.BirthDate, schema.RefAuthor.DeathDate,
		schema.RefAuthor.Nationality, schema.RefAuthor.ProfileImageURL, schema.RefAuthor.IsActive,
		schema.RefAuthor.UpdatedAt, schema.RefAuthor.ID, schema.RefAuthor.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		a.ID, a.Name, a.NameRomanized, a.Biography, a.OriginalLanguage, a.BirthDate, a.DeathDate,
		a.Nationality, a.ProfileImageURL, a.IsActive,
	).Scan(&a.UpdatedAt)
	if err != nil {
		wrapped := dberr.Wrap(err, "update_author")
		if apperr.IsNotFound(wrapped) {
			return apperr.NotFound(fmt.Sprintf("Author with ID %d", a.ID))
		}
		return wrapped
	}
	return nil
}

func (repository *PostgresRepository) DeleteAuthor(context context.Context, id int) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.RefAuthor.Table, schema.RefAuthor.ID)

	cmd, err := repository.db.Exec(context, query, id)
	if dberr.IsForeignKeyViolation(err) {
		return apperr.Conflict(fmt.Sprintf("Author with ID %d cannot be deleted because they are associated with existing novels.", id))
	}
	if err != nil {
		return dberr.Wrap(err, "delete_author")
	}

	if cmd.RowsAffected() == 0 {
		return apperr.NotFound(fmt.Sprintf("Author with ID %d", id))
	}
	return nil
}

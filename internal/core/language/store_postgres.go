package language

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

var languageColumns = strings.Join(schema.RefLanguage.Columns(), ", ")

func scanLanguage(row pgx.Row) (*Language, error) {
	l := &Language{}
	err := row.Scan(&l.ID, &l.Code, &l.Name, &l.NativeName, &l.IsActive, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

func (repository *PostgresRepository) ListLanguages(context context.Context, filter Filter) ([]*Language, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s`, languageColumns, schema.RefLanguage.Table)

	var args []any
	if filter.IsActive != nil {
		query += fmt.Sprintf(` WHERE %s = $1`, schema.RefLanguage.IsActive)
		args = append(args, *filter.IsActive)
	}
	query += fmt.Sprintf(` ORDER BY %s ASC`, schema.RefLanguage.Name)

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "list_languages")
	}
	defer rows.Close()

	langs := []*Language{}
	for rows.Next() {
		l, err := scanLanguage(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_language")
		}
		langs = append(langs, l)
	}

	return langs, dberr.Wrap(rows.Err(), "list_languages")
}

func (repository *PostgresRepository) GetLanguage(context context.Context, id int) (*Language, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, languageColumns, schema.RefLanguage.Table, schema.RefLanguage.ID)

	l, err := scanLanguage(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("Language with ID %d", id))
	}
	return l, nil
}

func (repository *PostgresRepository) GetLanguageByCode(context context.Context, code string) (*Language, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, languageColumns, schema.RefLanguage.Table, schema.RefLanguage.Code)

	l, err := scanLanguage(repository.db.QueryRow(context, query, code))
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("Language with code '%s'", code))
	}
	return l, nil
}

func (repository *PostgresRepository) CreateLanguage(context context.Context, l *Language) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING %s, %s, %s
	`,
		schema.RefLanguage.Table, schema.RefLanguage.Code, schema.RefLanguage.Name, schema.RefLanguage.NativeName,
		schema.RefLanguage.IsActive, schema.RefLanguage.CreatedAt, schema.RefLanguage.UpdatedAt,
		schema.RefLanguage.ID, schema.RefLanguage.CreatedAt, schema.RefLanguage.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query, l.Code, l.Name, l.NativeName, l.IsActive).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	if dberr.IsUniqueViolation(err) {
		return apperr.Conflict(fmt.Sprintf("Language with code '%s' already exists", l.Code))
	}
	return dberr.Wrap(err, "create_language")
}

func (repository *PostgresRepository) UpdateLanguage(context context.Context, l *Language) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = NOW()
		WHERE %s = $1
		RETURNING %s
	`,
		schema.RefLanguage.Table, schema.RefLanguage.Code, schema.RefLanguage.Name, schema.RefLanguage.NativeName,
		schema.RefLanguage.IsActive, schema.RefLanguage.UpdatedAt, schema.RefLanguage.ID,
		schema.RefLanguage.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query, l.ID, l.Code, l.Name, l.NativeName, l.IsActive).Scan(&l.UpdatedAt)
	if dberr.IsUniqueViolation(err) {
		return apperr.Conflict(fmt.Sprintf("Language with code '%s' already exists", l.Code))
	}
	if err != nil {
		return notFound(err, fmt.Sprintf("Language with ID %d", l.ID))
	}
	return nil
}

func (repository *PostgresRepository) DeleteLanguage(context context.Context, id int) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.RefLanguage.Table, schema.RefLanguage.ID)

	cmd, err := repository.db.Exec(context, query, id)
	if dberr.IsForeignKeyViolation(err) {
		return apperr.Conflict(fmt.Sprintf("Language with ID %d cannot be deleted because it is still in use", id))
	}
	if err != nil {
		return dberr.Wrap(err, "delete_language")
	}

	if cmd.RowsAffected() == 0 {
		return apperr.NotFound(fmt.Sprintf("Language with ID %d", id))
	}
	return nil
}

// notFound names the missing resource instead of the generic dberr message.
func notFound(err error, resource string) error {
	wrapped := dberr.Wrap(err, "get_language")
	if apperr.IsNotFound(wrapped) {
		return apperr.NotFound(resource)
	}
	return wrapped
}

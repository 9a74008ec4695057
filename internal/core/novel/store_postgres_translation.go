package novel

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/nathanpasca/manov-sub001/internal/platform/apperr"
	"github.com/nathanpasca/manov-sub001/internal/platform/database/schema"
	"github.com/nathanpasca/manov-sub001/internal/platform/dberr"
)

// # Translation Repository Implementation

var translationColumns = strings.Join(schema.CoreNovelTranslation.Columns(), ", ")

func scanTranslation(row pgx.Row) (*Translation, error) {
	t := &Translation{}
	err := row.Scan(&t.ID, &t.NovelID, &t.LanguageCode, &t.Title, &t.Synopsis, &t.TranslatorID, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (repository *PostgresRepository) ListTranslations(context context.Context, novelID int) ([]*Translation, error) {
	byNovel, err := repository.ListTranslationsFor(context, []int{novelID})
	if err != nil {
		return nil, err
	}
	if byNovel[novelID] == nil {
		return []*Translation{}, nil
	}
	return byNovel[novelID], nil
}

func (repository *PostgresRepository) ListTranslationsFor(context context.Context, novelIDs []int) (map[int][]*Translation, error) {
	result := make(map[int][]*Translation, len(novelIDs))
	if len(novelIDs) == 0 {
		return result, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ANY($1) ORDER BY %s ASC`,
		translationColumns, schema.CoreNovelTranslation.Table,
		schema.CoreNovelTranslation.NovelID, schema.CoreNovelTranslation.LanguageCode)

	rows, err := repository.db.Query(context, query, novelIDs)
	if err != nil {
		return nil, dberr.Wrap(err, "list_novel_translations")
	}
	defer rows.Close()

	for rows.Next() {
		t, err := scanTranslation(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_novel_translation")
		}
		result[t.NovelID] = append(result[t.NovelID], t)
	}

	return result, dberr.Wrap(rows.Err(), "list_novel_translations")
}

func (repository *PostgresRepository) GetTranslation(context context.Context, novelID int, languageCode string) (*Translation, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`,
		translationColumns, schema.CoreNovelTranslation.Table,
		schema.CoreNovelTranslation.NovelID, schema.CoreNovelTranslation.LanguageCode)

	t, err := scanTranslation(repository.db.QueryRow(context, query, novelID, languageCode))
	if err != nil {
		return nil, notFound(err, "get_novel_translation",
			fmt.Sprintf("Translation '%s' for novel ID %d", languageCode, novelID))
	}
	return t, nil
}

func (repository *PostgresRepository) CreateTranslation(context context.Context, t *Translation) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s, %s, %s
	`,
		schema.CoreNovelTranslation.Table,
		schema.CoreNovelTranslation.NovelID, schema.CoreNovelTranslation.LanguageCode,
		schema.CoreNovelTranslation.Title, schema.CoreNovelTranslation.Synopsis, schema.CoreNovelTranslation.TranslatorID,
		schema.CoreNovelTranslation.ID, schema.CoreNovelTranslation.CreatedAt, schema.CoreNovelTranslation.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query, t.NovelID, t.LanguageCode, t.Title, t.Synopsis, t.TranslatorID).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)

	switch {
	case err == nil:
		return nil
	case dberr.IsUniqueViolation(err):
		return apperr.Conflict(fmt.Sprintf("A translation for language '%s' already exists for novel ID %d", t.LanguageCode, t.NovelID))
	case dberr.IsForeignKeyViolation(err, "fk_noveltranslation_novel"):
		return apperr.NotFound(fmt.Sprintf("Novel with ID %d", t.NovelID))
	case dberr.IsForeignKeyViolation(err, "fk_noveltranslation_language"):
		return apperr.ValidationError("Validation failed", apperr.FieldError{
			Field: FieldLanguageCode, Message: fmt.Sprintf("Language '%s' does not exist", t.LanguageCode),
		})
	}
	return dberr.Wrap(err, "create_novel_translation")
}

func (repository *PostgresRepository) UpdateTranslation(context context.Context, t *Translation) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $3, %s = $4, %s = $5, %s = NOW()
		WHERE %s = $1 AND %s = $2
		RETURNING %s
	`,
		schema.CoreNovelTranslation.Table,
		schema.CoreNovelTranslation.Title, schema.CoreNovelTranslation.Synopsis,
		schema.CoreNovelTranslation.TranslatorID, schema.CoreNovelTranslation.UpdatedAt,
		schema.CoreNovelTranslation.NovelID, schema.CoreNovelTranslation.LanguageCode,
		schema.CoreNovelTranslation.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query, t.NovelID, t.LanguageCode, t.Title, t.Synopsis, t.TranslatorID).Scan(&t.UpdatedAt)
	if err != nil {
		return notFound(err, "update_novel_translation",
			fmt.Sprintf("Translation '%s' for novel ID %d", t.LanguageCode, t.NovelID))
	}
	return nil
}

func (repository *PostgresRepository) DeleteTranslation(context context.Context, novelID int, languageCode string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.CoreNovelTranslation.Table, schema.CoreNovelTranslation.NovelID, schema.CoreNovelTranslation.LanguageCode)

	cmd, err := repository.db.Exec(context, query, novelID, languageCode)
	if err != nil {
		return dberr.Wrap(err, "delete_novel_translation")
	}

	if cmd.RowsAffected() == 0 {
		return apperr.NotFound(fmt.Sprintf("Translation '%s' for novel ID %d", languageCode, novelID))
	}
	return nil
}

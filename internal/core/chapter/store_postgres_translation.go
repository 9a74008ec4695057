package chapter

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

var translationColumns = strings.Join(schema.CoreChapterTranslation.Columns(), ", ")

func scanTranslation(row pgx.Row) (*Translation, error) {
	t := &Translation{}
	err := row.Scan(&t.ID, &t.ChapterID, &t.LanguageCode, &t.Title, &t.Content, &t.TranslatorID, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (repository *PostgresRepository) ListTranslations(context context.Context, chapterID int) ([]*Translation, error) {
	byChapter, err := repository.ListTranslationsFor(context, []int{chapterID})
	if err != nil {
		return nil, err
	}
	if byChapter[chapterID] == nil {
		return []*Translation{}, nil
	}
	return byChapter[chapterID], nil
}

func (repository *PostgresRepository) ListTranslationsFor(context context.Context, chapterIDs []int) (map[int][]*Translation, error) {
	result := make(map[int][]*Translation, len(chapterIDs))
	if len(chapterIDs) == 0 {
		return result, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ANY($1) ORDER BY %s ASC`,
		translationColumns, schema.CoreChapterTranslation.Table,
		schema.CoreChapterTranslation.ChapterID, schema.CoreChapterTranslation.LanguageCode)

	rows, err := repository.db.Query(context, query, chapterIDs)
	if err != nil {
		return nil, dberr.Wrap(err, "list_chapter_translations")
	}
	defer rows.Close()

	for rows.Next() {
		t, err := scanTranslation(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_chapter_translation")
		}
		result[t.ChapterID] = append(result[t.ChapterID], t)
	}

	return result, dberr.Wrap(rows.Err(), "list_chapter_translations")
}

func (repository *PostgresRepository) GetTranslation(context context.Context, chapterID int, languageCode string) (*Translation, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`,
		translationColumns, schema.CoreChapterTranslation.Table,
		schema.CoreChapterTranslation.ChapterID, schema.CoreChapterTranslation.LanguageCode)

	t, err := scanTranslation(repository.db.QueryRow(context, query, chapterID, languageCode))
	if err != nil {
		return nil, notFound(err, "get_chapter_translation",
			fmt.Sprintf("Translation '%s' for chapter ID %d", languageCode, chapterID))
	}
	return t, nil
}

func (repository *PostgresRepository) CreateTranslation(context context.Context, t *Translation) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s, %s, %s
	`,
		schema.CoreChapterTranslation.Table,
		schema.CoreChapterTranslation.ChapterID, schema.CoreChapterTranslation.LanguageCode,
		schema.CoreChapterTranslation.Title, schema.CoreChapterTranslation.Content, schema.CoreChapterTranslation.TranslatorID,
		schema.CoreChapterTranslation.ID, schema.CoreChapterTranslation.CreatedAt, schema.CoreChapterTranslation.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query, t.ChapterID, t.LanguageCode, t.Title, t.Content, t.TranslatorID).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)

	switch {
	case err == nil:
		return nil
	case dberr.IsUniqueViolation(err):
		return apperr.Conflict(fmt.Sprintf("A translation for language '%s' already exists for chapter ID %d", t.LanguageCode, t.ChapterID))
	case dberr.IsForeignKeyViolation(err, "fk_chaptertranslation_chapter"):
		return apperr.NotFound(fmt.Sprintf("Chapter with ID %d", t.ChapterID))
	case dberr.IsForeignKeyViolation(err, "fk_chaptertranslation_language"):
		return apperr.ValidationError("Validation failed", apperr.FieldError{
			Field: FieldLanguageCode, Message: fmt.Sprintf("Language '%s' does not exist", t.LanguageCode),
		})
	}
	return dberr.Wrap(err, "create_chapter_translation")
}

func (repository *PostgresRepository) UpdateTranslation(context context.Context, t *Translation) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $3, %s = $4, %s = $5, %s = NOW()
		WHERE %s = $1 AND %s = $2
		RETURNING %s
	`,
		schema.CoreChapterTranslation.Table,
		schema.CoreChapterTranslation.Title, schema.CoreChapterTranslation.Content,
		schema.CoreChapterTranslation.TranslatorID, schema.CoreChapterTranslation.UpdatedAt,
		schema.CoreChapterTranslation.ChapterID, schema.CoreChapterTranslation.LanguageCode,
		schema.CoreChapterTranslation.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query, t.ChapterID, t.LanguageCode, t.Title, t.Content, t.TranslatorID).Scan(&t.UpdatedAt)
	if err != nil {
		return notFound(err, "update_chapter_translation",
			fmt.Sprintf("Translation '%s' for chapter ID %d", t.LanguageCode, t.ChapterID))
	}
	return nil
}

func (repository *PostgresRepository) DeleteTranslation(context context.Context, chapterID int, languageCode string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.CoreChapterTranslation.Table, schema.CoreChapterTranslation.ChapterID, schema.CoreChapterTranslation.LanguageCode)

	cmd, err := repository.db.Exec(context, query, chapterID, languageCode)
	if err != nil {
		return dberr.Wrap(err, "delete_chapter_translation")
	}

	if cmd.RowsAffected() == 0 {
		return apperr.NotFound(fmt.Sprintf("Translation '%s' for chapter ID %d", languageCode, chapterID))
	}
	return nil
}

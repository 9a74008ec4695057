package chapter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nathanpasca/manov-sub001/internal/core/locale"
	"github.com/nathanpasca/manov-sub001/internal/platform/validate"
	"github.com/nathanpasca/manov-sub001/pkg/pointer"
)

// # Translation Management

// ListTranslations returns every translation of a chapter. The chapter must exist.
func (service *Service) ListTranslations(context context.Context, chapterID int) ([]*Translation, error) {
	if _, err := service.repo.GetChapter(context, chapterID); err != nil {
		return nil, err
	}
	return service.repo.ListTranslations(context, chapterID)
}

func (service *Service) GetTranslation(context context.Context, chapterID int, languageCode string) (*Translation, error) {
	return service.repo.GetTranslation(context, chapterID, locale.Normalize(languageCode))
}

/*
CreateTranslation adds a language override for a chapter.

Description: Content is required, the title is optional and falls back to
the chapter's own title when served.
*/
func (service *Service) CreateTranslation(context context.Context, chapterID int, input TranslationInput) (*Translation, error) {
	validator := &validate.Validator{}

	validator.Required(FieldLanguageCode, input.LanguageCode)
	if strings.TrimSpace(input.LanguageCode) != "" {
		validator.MinLen(FieldLanguageCode, input.LanguageCode, 2).MaxLen(FieldLanguageCode, input.LanguageCode, 10)
	}
	validator.Required(FieldContent, input.Content)
	validateTranslationText(validator, input.Title, input.TranslatorID)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	code := locale.Normalize(input.LanguageCode)
	if err := service.requireActiveLanguage(context, code); err != nil {
		return nil, err
	}

	c, err := service.repo.GetChapter(context, chapterID)
	if err != nil {
		return nil, err
	}

	t := &Translation{
		ChapterID:    chapterID,
		LanguageCode: code,
		Title:        pointer.Trimmed(input.Title),
		Content:      input.Content,
		TranslatorID: lowerUUID(input.TranslatorID),
	}

	if err := service.repo.CreateTranslation(context, t); err != nil {
		return nil, err
	}

	service.invalidate(context, c.ID, c.NovelID)
	service.logger.Info("chapter_translation_created", slog.Int("chapter_id", chapterID), slog.String("language", code))
	return t, nil
}

func (service *Service) UpdateTranslation(context context.Context, chapterID int, languageCode string, input TranslationUpdate) (*Translation, error) {
	if input.empty() {
		return nil, validate.ErrNoFields
	}

	validator := &validate.Validator{}
	if input.Content != nil {
		validator.Required(FieldContent, *input.Content)
	}
	validateTranslationText(validator, input.Title, input.TranslatorID)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	c, err := service.repo.GetChapter(context, chapterID)
	if err != nil {
		return nil, err
	}

	t, err := service.repo.GetTranslation(context, chapterID, locale.Normalize(languageCode))
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		t.Title = pointer.Trimmed(input.Title)
	}
	if input.Content != nil {
		t.Content = *input.Content
	}
	if input.TranslatorID != nil {
		t.TranslatorID = lowerUUID(input.TranslatorID)
	}

	if err := service.repo.UpdateTranslation(context, t); err != nil {
		return nil, err
	}

	service.invalidate(context, c.ID, c.NovelID)
	service.logger.Info("chapter_translation_updated", slog.Int("chapter_id", chapterID), slog.String("language", t.LanguageCode))
	return t, nil
}

func (service *Service) DeleteTranslation(context context.Context, chapterID int, languageCode string) error {
	c, err := service.repo.GetChapter(context, chapterID)
	if err != nil {
		return err
	}

	code := locale.Normalize(languageCode)
	if err := service.repo.DeleteTranslation(context, chapterID, code); err != nil {
		return err
	}

	service.invalidate(context, c.ID, c.NovelID)
	service.logger.Warn("chapter_translation_deleted", slog.Int("chapter_id", chapterID), slog.String("language", code))
	return nil
}

func (service *Service) requireActiveLanguage(context context.Context, code string) error {
	active, err := service.languages.IsActive(context, code)
	if err != nil {
		return err
	}
	if !active {
		return validate.RequiredError(FieldLanguageCode, fmt.Sprintf("Language '%s' is not an active language", code))
	}
	return nil
}

func validateTranslationText(validator *validate.Validator, title, translatorID *string) {
	if title != nil {
		validator.MaxLen(FieldTitle, *title, 255)
	}
	if translatorID != nil && strings.TrimSpace(*translatorID) != "" {
		validator.UUID(FieldTranslatorID, strings.TrimSpace(*translatorID))
	}
}

func lowerUUID(value *string) *string {
	trimmed := pointer.Trimmed(value)
	if trimmed == nil {
		return nil
	}
	return pointer.To(strings.ToLower(*trimmed))
}

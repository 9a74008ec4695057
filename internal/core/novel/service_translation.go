package novel

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

// ListTranslations returns every translation row of a novel. The novel must exist.
func (service *Service) ListTranslations(context context.Context, novelID int) ([]*Translation, error) {
	if _, err := service.repo.GetNovel(context, novelID); err != nil {
		return nil, err
	}
	return service.repo.ListTranslations(context, novelID)
}

func (service *Service) GetTranslation(context context.Context, novelID int, languageCode string) (*Translation, error) {
	return service.repo.GetTranslation(context, novelID, locale.Normalize(languageCode))
}

/*
CreateTranslation adds a language override for a novel.

Description: The language must be registered and active; a second row for
the same language is a 409.
*/
func (service *Service) CreateTranslation(context context.Context, novelID int, input TranslationInput) (*Translation, error) {
	validator := &validate.Validator{}

	validator.Required(FieldLanguageCode, input.LanguageCode)
	if strings.TrimSpace(input.LanguageCode) != "" {
		validator.MinLen(FieldLanguageCode, input.LanguageCode, 2).MaxLen(FieldLanguageCode, input.LanguageCode, 10)
	}
	validator.Required(FieldTitle, input.Title).MaxLen(FieldTitle, input.Title, 255)
	validateTranslationText(validator, input.Synopsis, input.TranslatorID)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	code := locale.Normalize(input.LanguageCode)
	if err := service.requireActiveLanguage(context, code); err != nil {
		return nil, err
	}

	if _, err := service.repo.GetNovel(context, novelID); err != nil {
		return nil, err
	}

	t := &Translation{
		NovelID:      novelID,
		LanguageCode: code,
		Title:        strings.TrimSpace(input.Title),
		Synopsis:     pointer.Trimmed(input.Synopsis),
		TranslatorID: lowerUUID(input.TranslatorID),
	}

	if err := service.repo.CreateTranslation(context, t); err != nil {
		return nil, err
	}

	service.invalidate(context, novelID)
	service.logger.Info("novel_translation_created", slog.Int("novel_id", novelID), slog.String("language", code))
	return t, nil
}

func (service *Service) UpdateTranslation(context context.Context, novelID int, languageCode string, input TranslationUpdate) (*Translation, error) {
	if input.empty() {
		return nil, validate.ErrNoFields
	}

	validator := &validate.Validator{}
	if input.Title != nil {
		validator.Required(FieldTitle, *input.Title).MaxLen(FieldTitle, *input.Title, 255)
	}
	validateTranslationText(validator, input.Synopsis, input.TranslatorID)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	t, err := service.repo.GetTranslation(context, novelID, locale.Normalize(languageCode))
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		t.Title = strings.TrimSpace(*input.Title)
	}
	if input.Synopsis != nil {
		t.Synopsis = pointer.Trimmed(input.Synopsis)
	}
	if input.TranslatorID != nil {
		t.TranslatorID = lowerUUID(input.TranslatorID)
	}

	if err := service.repo.UpdateTranslation(context, t); err != nil {
		return nil, err
	}

	service.invalidate(context, novelID)
	service.logger.Info("novel_translation_updated", slog.Int("novel_id", novelID), slog.String("language", t.LanguageCode))
	return t, nil
}

func (service *Service) DeleteTranslation(context context.Context, novelID int, languageCode string) error {
	code := locale.Normalize(languageCode)
	if err := service.repo.DeleteTranslation(context, novelID, code); err != nil {
		return err
	}

	service.invalidate(context, novelID)
	service.logger.Warn("novel_translation_deleted", slog.Int("novel_id", novelID), slog.String("language", code))
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

func validateTranslationText(validator *validate.Validator, synopsis, translatorID *string) {
	if synopsis != nil {
		validator.MaxLen(FieldSynopsis, *synopsis, 10000)
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

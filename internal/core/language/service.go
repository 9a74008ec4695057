package language

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/nathanpasca/manov-sub001/internal/core/locale"
	"github.com/nathanpasca/manov-sub001/internal/platform/apperr"
	"github.com/nathanpasca/manov-sub001/internal/platform/validate"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (service *Service) ListLanguages(context context.Context, filter Filter) ([]*Language, error) {
	return service.repo.ListLanguages(context, filter)
}

// GetLanguage accepts either the numeric ID or the language code.
func (service *Service) GetLanguage(context context.Context, identifier string) (*Language, error) {
	if id, err := strconv.Atoi(identifier); err == nil {
		return service.repo.GetLanguage(context, id)
	}
	return service.repo.GetLanguageByCode(context, locale.Normalize(identifier))
}

// IsActive reports whether code names an existing, active language.
// Translation writes use it to reject unknown or retired languages.
func (service *Service) IsActive(context context.Context, code string) (bool, error) {
	l, err := service.repo.GetLanguageByCode(context, locale.Normalize(code))
	if apperr.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return l.IsActive, nil
}

func (service *Service) CreateLanguage(context context.Context, input CreateInput) (*Language, error) {
	validator := &validate.Validator{}
	validateCode(validator, input.Code)
	validateName(validator, input.Name)
	if input.NativeName != nil {
		validator.MaxLen(FieldNativeName, *input.NativeName, 50)
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	l := &Language{
		Code:       locale.Normalize(input.Code),
		Name:       strings.TrimSpace(input.Name),
		NativeName: input.NativeName,
		IsActive:   true,
	}
	if input.IsActive != nil {
		l.IsActive = *input.IsActive
	}

	if err := service.repo.CreateLanguage(context, l); err != nil {
		return nil, err
	}

	service.logger.Info("language_created", slog.String("code", l.Code))
	return l, nil
}

func (service *Service) UpdateLanguage(context context.Context, id int, input UpdateInput) (*Language, error) {
	if input.empty() {
		return nil, validate.ErrNoFields
	}

	validator := &validate.Validator{}
	if input.Code != nil {
		validateCode(validator, *input.Code)
	}
	if input.Name != nil {
		validateName(validator, *input.Name)
	}
	if input.NativeName != nil {
		validator.MaxLen(FieldNativeName, *input.NativeName, 50)
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	l, err := service.repo.GetLanguage(context, id)
	if err != nil {
		return nil, err
	}

	if input.Code != nil {
		l.Code = locale.Normalize(*input.Code)
	}
	if input.Name != nil {
		l.Name = strings.TrimSpace(*input.Name)
	}
	if input.NativeName != nil {
		l.NativeName = input.NativeName
	}
	if input.IsActive != nil {
		l.IsActive = *input.IsActive
	}

	if err := service.repo.UpdateLanguage(context, l); err != nil {
		return nil, err
	}

	service.logger.Info("language_updated", slog.Int("language_id", l.ID))
	return l, nil
}

func (service *Service) DeleteLanguage(context context.Context, id int) error {
	if err := service.repo.DeleteLanguage(context, id); err != nil {
		return err
	}

	service.logger.Warn("language_deleted", slog.Int("language_id", id))
	return nil
}

func validateCode(validator *validate.Validator, code string) {
	validator.Required(FieldCode, code)
	if strings.TrimSpace(code) != "" {
		validator.MinLen(FieldCode, code, 2).MaxLen(FieldCode, code, 10).
			Pattern(FieldCode, strings.ReplaceAll(code, "_", "-"), CodePattern, "Must be a valid language code (e.g. en, pt-br)")
	}
}

func validateName(validator *validate.Validator, name string) {
	validator.Required(FieldName, name)
	if strings.TrimSpace(name) != "" {
		validator.MinLen(FieldName, strings.TrimSpace(name), 2).MaxLen(FieldName, name, 50)
	}
}

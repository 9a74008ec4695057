package author

import (
	"context"
	"log/slog"
	"strings"

	"github.com/nathanpasca/manov-sub001/internal/core/locale"
	"github.com/nathanpasca/manov-sub001/internal/platform/apperr"
	"github.com/nathanpasca/manov-sub001/internal/platform/cache"
	"github.com/nathanpasca/manov-sub001/internal/platform/validate"
	"github.com/nathanpasca/manov-sub001/pkg/pointer"
)

const deathBeforeBirth = "Death date must be after birth date."

// CacheTag groups cached reads that embed the author summary, such as novel details.
func CacheTag(authorID int) string {
	return cache.Key("author", authorID)
}

type Service struct {
	repo   Repository
	cache  cache.Cache
	logger *slog.Logger
}

func NewService(repo Repository, readCache cache.Cache, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  readCache,
		logger: logger,
	}
}

func (service *Service) ListAuthors(context context.Context, filter Filter, limit, offset int) ([]*Author, int, error) {
	return service.repo.ListAuthors(context, filter, limit, offset)
}

func (service *Service) GetAuthor(context context.Context, id int) (*Author, error) {
	return service.repo.GetAuthor(context, id)
}

// Exists reports whether an author row with id is present.
func (service *Service) Exists(context context.Context, id int) (bool, error) {
	_, err := service.repo.GetAuthor(context, id)
	if err == nil {
		return true, nil
	}
	if apperr.IsNotFound(err) {
		return false, nil
	}
	return false, err
}

func (service *Service) CreateAuthor(context context.Context, input CreateInput) (*Author, error) {
	validator := &validate.Validator{}

	validator.Required(FieldName, input.Name).MaxLen(FieldName, input.Name, 255)
	validator.Required(FieldOriginalLanguage, input.OriginalLanguage)
	if strings.TrimSpace(input.OriginalLanguage) != "" {
		validator.MinLen(FieldOriginalLanguage, input.OriginalLanguage, 2).MaxLen(FieldOriginalLanguage, input.OriginalLanguage, 10)
	}
	validateOptional(validator, input.NameRomanized, input.Biography, input.Nationality, input.ProfileImageURL)

	birth := validator.OptionalDate(FieldBirthDate, input.BirthDate)
	death := validator.OptionalDate(FieldDeathDate, input.DeathDate)
	validator.DateOrder(FieldDeathDate, birth, death, deathBeforeBirth)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	a := &Author{
		Name:             strings.TrimSpace(input.Name),
		NameRomanized:    pointer.Trimmed(input.NameRomanized),
		Biography:        pointer.Trimmed(input.Biography),
		OriginalLanguage: locale.Normalize(input.OriginalLanguage),
		BirthDate:        birth,
		DeathDate:        death,
		Nationality:      pointer.Trimmed(input.Nationality),
		ProfileImageURL:  pointer.Trimmed(input.ProfileImageURL),
		IsActive:         true,
	}
	if input.IsActive != nil {
		a.IsActive = *input.IsActive
	}

	if err := service.repo.CreateAuthor(context, a); err != nil {
		return nil, err
	}

	service.logger.Info("author_created", slog.Int("author_id", a.ID), slog.String("name", a.Name))
	return a, nil
}

func (service *Service) UpdateAuthor(context context.Context, id int, input UpdateInput) (*Author, error) {
	if input.empty() {
		return nil, validate.ErrNoFields
	}

	validator := &validate.Validator{}
	if input.Name != nil {
		validator.Required(FieldName, *input.Name).MaxLen(FieldName, *input.Name, 255)
	}
	if input.OriginalLanguage != nil {
		validator.MinLen(FieldOriginalLanguage, *input.OriginalLanguage, 2).MaxLen(FieldOriginalLanguage, *input.OriginalLanguage, 10)
	}
	validateOptional(validator, input.NameRomanized, input.Biography, input.Nationality, input.ProfileImageURL)

	birth := validator.OptionalDate(FieldBirthDate, input.BirthDate)
	death := validator.OptionalDate(FieldDeathDate, input.DeathDate)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	a, err := service.repo.GetAuthor(context, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		a.Name = strings.TrimSpace(*input.Name)
	}
	if input.NameRomanized != nil {
		a.NameRomanized = pointer.Trimmed(input.NameRomanized)
	}
	if input.Biography != nil {
		a.Biography = pointer.Trimmed(input.Biography)
	}
	if input.OriginalLanguage != nil {
		a.OriginalLanguage = locale.Normalize(*input.OriginalLanguage)
	}
	if input.BirthDate != nil {
		a.BirthDate = birth
	}
	if input.DeathDate != nil {
		a.DeathDate = death
	}
	if input.Nationality != nil {
		a.Nationality = pointer.Trimmed(input.Nationality)
	}
	if input.ProfileImageURL != nil {
		a.ProfileImageURL = pointer.Trimmed(input.ProfileImageURL)
	}
	if input.IsActive != nil {
		a.IsActive = *input.IsActive
	}

	// The order check runs against the merged row so a lone death_date is
	// compared with the stored birth_date.
	if err := (&validate.Validator{}).DateOrder(FieldDeathDate, a.BirthDate, a.DeathDate, deathBeforeBirth).Err(); err != nil {
		return nil, err
	}

	if err := service.repo.UpdateAuthor(context, a); err != nil {
		return nil, err
	}

	service.invalidate(context, a.ID)
	service.logger.Info("author_updated", slog.Int("author_id", a.ID))
	return a, nil
}

func (service *Service) DeleteAuthor(context context.Context, id int) error {
	if err := service.repo.DeleteAuthor(context, id); err != nil {
		return err
	}

	service.invalidate(context, id)
	service.logger.Warn("author_deleted", slog.Int("author_id", id))
	return nil
}

func (service *Service) invalidate(context context.Context, authorID int) {
	if err := service.cache.Invalidate(context, CacheTag(authorID)); err != nil {
		service.logger.Warn("author_cache_invalidate_failed", slog.Int("author_id", authorID), slog.Any("error", err))
	}
}

func validateOptional(validator *validate.Validator, nameRomanized, biography, nationality, imageURL *string) {
	if nameRomanized != nil {
		validator.MaxLen(FieldNameRomanized, *nameRomanized, 255)
	}
	if biography != nil {
		validator.MaxLen(FieldBiography, *biography, 5000)
	}
	if nationality != nil {
		validator.MaxLen(FieldNationality, *nationality, 100)
	}
	if imageURL != nil && strings.TrimSpace(*imageURL) != "" {
		validator.URL(FieldProfileImageURL, *imageURL)
	}
}

package account

import (
	"context"
	"log/slog"
	"strings"

	"github.com/segmentio/encoding/json"

	"github.com/nathanpasca/manov-sub001/internal/core/locale"
	"github.com/nathanpasca/manov-sub001/internal/platform/validate"
	"github.com/nathanpasca/manov-sub001/internal/users/auth"
	"github.com/nathanpasca/manov-sub001/pkg/pointer"
)

// # Service Layer

// Service reads and edits the profile of the calling user.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// GetProfile returns the full private profile of a user.
func (service *Service) GetProfile(context context.Context, userID string) (*auth.User, error) {
	return service.repo.FindByID(context, userID)
}

// UpdateProfileInput is a partial profile update. Nil fields are left as is;
// an empty avatar_url clears the avatar.
type UpdateProfileInput struct {
	DisplayName        *string         `json:"display_name"`
	AvatarURL          *string         `json:"avatar_url"`
	PreferredLanguage  *string         `json:"preferred_language"`
	ReadingPreferences json.RawMessage `json:"reading_preferences"`
}

func (input UpdateProfileInput) empty() bool {
	return input.DisplayName == nil && input.AvatarURL == nil &&
		input.PreferredLanguage == nil && !present(input.ReadingPreferences)
}

/*
UpdateProfile applies a partial set of changes to the caller's profile.

Returns:
  - *auth.User: The updated profile
  - error: 400 when nothing is provided or a rule fails, 404 for unknown users
*/
func (service *Service) UpdateProfile(context context.Context, userID string, input UpdateProfileInput) (*auth.User, error) {
	if input.empty() {
		return nil, validate.ErrNoFields
	}

	validator := &validate.Validator{}
	auth.ValidateProfile(validator, input.DisplayName, input.PreferredLanguage)

	if input.AvatarURL != nil && strings.TrimSpace(*input.AvatarURL) != "" {
		validator.URL(FieldAvatarURL, strings.TrimSpace(*input.AvatarURL)).
			MaxLen(FieldAvatarURL, strings.TrimSpace(*input.AvatarURL), 2048)
	}

	var preferences map[string]any
	if present(input.ReadingPreferences) {
		err := json.Unmarshal(input.ReadingPreferences, &preferences)
		validator.Custom(FieldReadingPreferences, err != nil, "Must be a JSON object")
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.repo.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	if input.DisplayName != nil {
		user.DisplayName = pointer.Trimmed(input.DisplayName)
	}
	if input.AvatarURL != nil {
		user.AvatarURL = pointer.Trimmed(input.AvatarURL)
	}
	if input.PreferredLanguage != nil {
		user.PreferredLanguage = locale.Normalize(*input.PreferredLanguage)
	}
	if preferences != nil {
		user.ReadingPreferences = preferences
	}

	if err := service.repo.Update(context, user); err != nil {
		return nil, err
	}

	service.logger.Info("user_profile_updated", slog.String("user_id", userID))
	return user, nil
}

// present reports whether a raw JSON member was sent with a non-null value.
func present(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed != "" && trimmed != "null"
}

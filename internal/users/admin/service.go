package admin

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nathanpasca/manov-sub001/internal/core/locale"
	"github.com/nathanpasca/manov-sub001/internal/platform/apperr"
	"github.com/nathanpasca/manov-sub001/internal/platform/sec"
	"github.com/nathanpasca/manov-sub001/internal/platform/validate"
	"github.com/nathanpasca/manov-sub001/internal/users/auth"
	"github.com/nathanpasca/manov-sub001/pkg/pointer"
)

// Service implements user administration.
type Service struct {
	repo     Repository
	users    UserStore
	sessions SessionRevoker
	logger   *slog.Logger
}

// NewService constructs a new admin [Service].
func NewService(repo Repository, users UserStore, sessions SessionRevoker, logger *slog.Logger) *Service {
	return &Service{repo: repo, users: users, sessions: sessions, logger: logger}
}

/*
ListUsers returns one page of accounts.

Returns:
  - []*auth.User: Accounts on the page
  - int: Total matching the filter
  - error: 400 for unknown roles or sort keys
*/
func (service *Service) ListUsers(context context.Context, filter Filter, limit, offset int) ([]*auth.User, int, error) {
	validator := &validate.Validator{}

	sort, ok := SortSpec.Parse(filter.SortBy, filter.SortOrder)
	validator.Custom(FieldSortBy, !ok, fmt.Sprintf("Must be one of: %s (sortOrder asc or desc)", strings.Join(SortSpec.Keys(), ", ")))

	filter.Role = strings.ToLower(strings.TrimSpace(filter.Role))
	if filter.Role != "" {
		validator.OneOf(FieldRole, filter.Role, sec.Roles()...)
	}
	validator.MaxLen(FieldSearch, filter.Search, 100)

	if err := validator.Err(); err != nil {
		return nil, 0, err
	}

	return service.repo.ListUsers(context, filter, sort, limit, offset)
}

// GetUser returns one account by ID.
func (service *Service) GetUser(context context.Context, userID string) (*auth.User, error) {
	return service.users.FindByID(context, userID)
}

// UpdateUserInput is a partial admin edit of an account.
type UpdateUserInput struct {
	DisplayName       *string `json:"display_name"`
	Email             *string `json:"email"`
	IsActive          *bool   `json:"is_active"`
	Role              *string `json:"role"`
	PreferredLanguage *string `json:"preferred_language"`
	AvatarURL         *string `json:"avatar_url"`
}

func (input UpdateUserInput) empty() bool {
	return input.DisplayName == nil && input.Email == nil && input.IsActive == nil &&
		input.Role == nil && input.PreferredLanguage == nil && input.AvatarURL == nil
}

/*
UpdateUser applies an admin edit.

Description: Admins cannot deactivate or demote themselves. Deactivating an
account or changing its role revokes its refresh sessions so the change
takes effect once the current access token expires.

Returns:
  - *auth.User: The updated account
  - error: 400 validation, 403 self lock-out, 404 unknown user, 409 duplicate email
*/
func (service *Service) UpdateUser(context context.Context, actorID, userID string, input UpdateUserInput) (*auth.User, error) {
	if input.empty() {
		return nil, validate.ErrNoFields
	}

	validator := &validate.Validator{}
	auth.ValidateProfile(validator, input.DisplayName, input.PreferredLanguage)
	if input.Email != nil {
		validator.Required(auth.FieldEmail, *input.Email).Email(auth.FieldEmail, strings.TrimSpace(*input.Email))
	}
	if input.Role != nil {
		validator.OneOf(FieldRole, strings.ToLower(strings.TrimSpace(*input.Role)), sec.Roles()...)
	}
	if input.AvatarURL != nil && strings.TrimSpace(*input.AvatarURL) != "" {
		validator.URL(FieldAvatarURL, strings.TrimSpace(*input.AvatarURL))
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.users.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	wasActive, previousRole := user.IsActive, user.Role

	if input.DisplayName != nil {
		user.DisplayName = pointer.Trimmed(input.DisplayName)
	}
	if input.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if input.Role != nil {
		user.Role = sec.UserRole(strings.ToLower(strings.TrimSpace(*input.Role)))
	}
	if input.PreferredLanguage != nil {
		user.PreferredLanguage = locale.Normalize(*input.PreferredLanguage)
	}
	if input.AvatarURL != nil {
		user.AvatarURL = pointer.Trimmed(input.AvatarURL)
	}

	if userID == actorID && (!user.IsActive || user.Role != previousRole) {
		return nil, apperr.Forbidden("Administrators cannot deactivate or change the role of their own account")
	}

	if err := service.users.Update(context, user); err != nil {
		return nil, err
	}

	if (wasActive && !user.IsActive) || user.Role != previousRole {
		service.revoke(context, user.ID)
	}

	service.logger.Info("user_updated_by_admin",
		slog.String("user_id", user.ID),
		slog.String("admin_id", actorID),
		slog.String("role", string(user.Role)),
		slog.Bool("is_active", user.IsActive),
	)
	return user, nil
}

/*
DeactivateUser soft-deletes an account.

Returns:
  - error: 403 when targeting the caller, 404 unknown user
*/
func (service *Service) DeactivateUser(context context.Context, actorID, userID string) error {
	if userID == actorID {
		return apperr.Forbidden("Administrators cannot deactivate their own account")
	}

	user, err := service.users.FindByID(context, userID)
	if err != nil {
		return err
	}

	if user.IsActive {
		user.IsActive = false
		if err := service.users.Update(context, user); err != nil {
			return err
		}
	}

	service.revoke(context, user.ID)
	service.logger.Warn("user_deactivated", slog.String("user_id", user.ID), slog.String("admin_id", actorID))
	return nil
}

func (service *Service) revoke(context context.Context, userID string) {
	if err := service.sessions.RevokeSessions(context, userID); err != nil {
		service.logger.Warn("session_revoke_failed", slog.String("user_id", userID), slog.Any("error", err))
	}
}

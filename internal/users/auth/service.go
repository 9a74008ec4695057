package auth

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/nathanpasca/manov-sub001/internal/core/locale"
	"github.com/nathanpasca/manov-sub001/internal/platform/apperr"
	"github.com/nathanpasca/manov-sub001/internal/platform/sec"
	"github.com/nathanpasca/manov-sub001/internal/platform/validate"
	"github.com/nathanpasca/manov-sub001/pkg/pointer"
	"github.com/nathanpasca/manov-sub001/pkg/uuid"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// # Contracts & Types

// TokenProvider signs access tokens.
type TokenProvider interface {
	GenerateAccessToken(userID, username, role string, timeToLive time.Duration) (string, error)
}

// Service implements registration, login and refresh-session rotation.
type Service struct {
	users    UserRepository
	sessions SessionRepository
	tokens   TokenProvider
	logger   *slog.Logger
	now      func() time.Time

	defaultLanguage string
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(users UserRepository, sessions SessionRepository, tokens TokenProvider, logger *slog.Logger) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		logger:   logger,
		now:      time.Now,

		defaultLanguage: DefaultPreferredLanguage,
	}
}

// SetDefaultLanguage overrides the preferred language given to accounts
// registered without one.
func (service *Service) SetDefaultLanguage(code string) {
	if code = locale.Normalize(code); code != "" {
		service.defaultLanguage = code
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new reader.
type RegisterInput struct {
	Username          string  `json:"username"`
	Email             string  `json:"email"`
	Password          string  `json:"password"`
	DisplayName       *string `json:"display_name"`
	PreferredLanguage *string `json:"preferred_language"`
}

/*
Register validates and persists a new member account.

Returns:
  - *User: Created entity
  - error: 400 validation, 409 when the username or email is taken
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {
	validator := &validate.Validator{}

	validator.Required(FieldUsername, input.Username).
		MinLen(FieldUsername, strings.TrimSpace(input.Username), 3).
		MaxLen(FieldUsername, strings.TrimSpace(input.Username), 30).
		Pattern(FieldUsername, strings.TrimSpace(input.Username), usernamePattern, "Username can only contain letters, numbers, and underscores")
	validator.Required(FieldEmail, input.Email).Email(FieldEmail, strings.TrimSpace(input.Email))
	ValidatePassword(validator, FieldPassword, input.Password)
	ValidateProfile(validator, input.DisplayName, input.PreferredLanguage)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	return service.createUser(context, input, sec.RoleMember)
}

func (service *Service) createUser(context context.Context, input RegisterInput, role sec.UserRole) (*User, error) {
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	user := &User{
		ID:                uuid.New(),
		Username:          strings.TrimSpace(input.Username),
		Email:             strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash:      hashedPassword,
		DisplayName:       pointer.Trimmed(input.DisplayName),
		PreferredLanguage: service.defaultLanguage,
		Role:              role,
		IsActive:          true,
	}
	if language := pointer.Trimmed(input.PreferredLanguage); language != nil {
		user.PreferredLanguage = locale.Normalize(*language)
	}

	if err := service.users.Create(context, user); err != nil {
		return nil, err
	}

	service.logger.Info("user_registered",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
		slog.String("role", string(user.Role)),
	)
	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Login     string `json:"login"`
	Password  string `json:"password"`
	UserAgent string `json:"-"`
	IPAddress string `json:"-"`
}

// LoginSession is a freshly issued token pair.
type LoginSession struct {
	AccessToken           string
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
	User                  *User
}

/*
Login verifies credentials and opens a refresh session.

Description: The login may be an email or a username. Unknown accounts and
wrong passwords share one message; deactivated accounts are refused with 403.
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {
	validator := &validate.Validator{}
	validator.Required(FieldLogin, input.Login)
	validator.Required(FieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.users.FindByLogin(context, input.Login)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized("Invalid login credentials")
		}
		return nil, err
	}

	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		service.logger.Warn("login_failed", slog.String("user_id", user.ID))
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	if !user.IsActive {
		return nil, apperr.Forbidden("This account has been deactivated")
	}

	session, err := service.issue(context, user, input.UserAgent, input.IPAddress)
	if err != nil {
		return nil, err
	}

	if err := service.users.TouchLastLogin(context, user.ID); err != nil {
		service.logger.Warn("last_login_update_failed", slog.String("user_id", user.ID), slog.Any("error", err))
	} else {
		user.LastLoginAt = pointer.To(service.now().UTC())
	}

	service.logger.Info("user_logged_in", slog.String("user_id", user.ID))
	return session, nil
}

// Logout revokes the session behind refreshToken. Unknown tokens are ignored.
func (service *Service) Logout(context context.Context, refreshToken string) error {
	session, err := service.sessions.FindByTokenHash(context, sec.HashToken(refreshToken))
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil
		}
		return err
	}

	if err := service.sessions.Revoke(context, session); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	service.logger.Info("user_logged_out", slog.String("user_id", session.UserID))
	return nil
}

// # Session Management

/*
RefreshSession rotates a refresh token.

Description: The presented session is revoked before a new pair is issued,
so each refresh token is single use. Deactivated accounts lose their session.
*/
func (service *Service) RefreshSession(context context.Context, refreshToken, userAgent, ipAddress string) (*LoginSession, error) {
	session, err := service.sessions.FindByTokenHash(context, sec.HashToken(refreshToken))
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized("Invalid or expired refresh token")
		}
		return nil, err
	}

	if err := service.sessions.Revoke(context, session); err != nil {
		return nil, fmt.Errorf("auth_service_refresh_revoke_failed: %w", err)
	}

	user, err := service.users.FindByID(context, session.UserID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized("Invalid or expired refresh token")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperr.Forbidden("This account has been deactivated")
	}

	return service.issue(context, user, userAgent, ipAddress)
}

/*
ChangePassword replaces the password of an authenticated user.

Description: The current password must match. Every other refresh session
of the user is revoked; the one behind currentRefreshToken survives.
*/
func (service *Service) ChangePassword(context context.Context, userID, currentPassword, newPassword, currentRefreshToken string) error {
	validator := &validate.Validator{}
	validator.Required(FieldCurrentPassword, currentPassword)
	ValidatePassword(validator, FieldNewPassword, newPassword)
	if err := validator.Err(); err != nil {
		return err
	}

	user, err := service.users.FindByID(context, userID)
	if err != nil {
		return err
	}

	if !sec.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return apperr.Unauthorized("Current password is incorrect")
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_change_password_hash_failed: %w", err)
	}

	if err := service.users.UpdatePassword(context, userID, hashedPassword); err != nil {
		return err
	}

	keep := ""
	if currentRefreshToken != "" {
		keep = sec.HashToken(currentRefreshToken)
	}
	if err := service.sessions.RevokeAll(context, userID, keep); err != nil {
		service.logger.Warn("session_revoke_failed", slog.String("user_id", userID), slog.Any("error", err))
	}

	service.logger.Info("password_changed", slog.String("user_id", userID))
	return nil
}

// RevokeSessions ends every refresh session of a user.
func (service *Service) RevokeSessions(context context.Context, userID string) error {
	return service.sessions.RevokeAll(context, userID, "")
}

// # Administration

/*
EnsureAdmin creates an admin account, or promotes and reactivates the account
already registered under the email. The password of an existing account is
left unchanged.

Returns:
  - *User: The admin account
  - bool: true when the account was created
  - error: Validation or storage failures
*/
func (service *Service) EnsureAdmin(context context.Context, input RegisterInput) (*User, bool, error) {
	existing, err := service.users.FindByLogin(context, input.Email)
	switch {
	case err == nil:
		existing.Role = sec.RoleAdmin
		existing.IsActive = true
		if err := service.users.Update(context, existing); err != nil {
			return nil, false, err
		}
		service.logger.Warn("user_promoted_to_admin", slog.String("user_id", existing.ID))
		return existing, false, nil
	case !apperr.IsNotFound(err):
		return nil, false, err
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		Pattern(FieldUsername, strings.TrimSpace(input.Username), usernamePattern, "Username can only contain letters, numbers, and underscores")
	validator.Required(FieldEmail, input.Email).Email(FieldEmail, strings.TrimSpace(input.Email))
	ValidatePassword(validator, FieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		return nil, false, err
	}

	user, err := service.createUser(context, input, sec.RoleAdmin)
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

// # Internal Helpers

func (service *Service) issue(context context.Context, user *User, userAgent, ipAddress string) (*LoginSession, error) {
	accessToken, err := service.tokens.GenerateAccessToken(user.ID, user.Username, string(user.Role), AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	refreshToken, err := sec.GenerateSecureToken(RefreshTokenLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	now := service.now()
	session := &Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: sec.HashToken(refreshToken),
		UserAgent: userAgent,
		IPAddress: ipAddress,
		ExpiresAt: now.Add(RefreshTokenTTL),
		CreatedAt: now,
	}

	if err := service.sessions.Create(context, session); err != nil {
		return nil, fmt.Errorf("auth_service_session_creation_failed: %w", err)
	}

	return &LoginSession{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: session.ExpiresAt,
		User:                  user,
	}, nil
}

// ValidatePassword enforces 8 to 100 characters with an upper-case letter,
// a lower-case letter and a digit.
func ValidatePassword(validator *validate.Validator, field, password string) {
	if password == "" {
		validator.Required(field, password)
		return
	}

	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}

	validator.MinLen(field, password, 8).MaxLen(field, password, 100)
	validator.Custom(field, !(upper && lower && digit), "Password must contain at least one uppercase letter, one lowercase letter, and one number")
}

// ValidateProfile checks the optional profile fields shared by registration
// and profile updates.
func ValidateProfile(validator *validate.Validator, displayName, preferredLanguage *string) {
	if displayName != nil {
		validator.Required(FieldDisplayName, *displayName).MaxLen(FieldDisplayName, strings.TrimSpace(*displayName), 50)
	}
	if preferredLanguage != nil {
		validator.MinLen(FieldPreferredLanguage, strings.TrimSpace(*preferredLanguage), 2).
			MaxLen(FieldPreferredLanguage, strings.TrimSpace(*preferredLanguage), 5)
	}
}

/*
Package auth implements reader identity: accounts, credentials and refresh
sessions.

Accounts live in PostgreSQL. Refresh sessions live in Redis so that a logout
or password change can revoke them without touching the database.
*/
package auth

import (
	"time"

	"github.com/nathanpasca/manov-sub001/internal/platform/sec"
)

// # Domain Entities

// User represents a registered reader or staff member.
type User struct {
	ID                 string         `json:"id"`
	Username           string         `json:"username"`
	Email              string         `json:"email"`
	PasswordHash       string         `json:"-"`
	DisplayName        *string        `json:"display_name"`
	AvatarURL          *string        `json:"avatar_url"`
	PreferredLanguage  string         `json:"preferred_language"`
	ReadingPreferences map[string]any `json:"reading_preferences"`
	Role               sec.UserRole   `json:"role"`
	IsActive           bool           `json:"is_active"`
	LastLoginAt        *time.Time     `json:"last_login_at"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

// Summary is the public face of a user embedded in ratings and comments.
type Summary struct {
	ID          string  `json:"id"`
	Username    string  `json:"username"`
	DisplayName *string `json:"display_name"`
	AvatarURL   *string `json:"avatar_url"`
}

// Summary returns the public projection of the user.
func (user *User) Summary() *Summary {
	return &Summary{ID: user.ID, Username: user.Username, DisplayName: user.DisplayName, AvatarURL: user.AvatarURL}
}

// Session is one refresh-token session. It is stored under the hash of the
// token, never the token itself.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TokenHash string    `json:"token_hash"`
	UserAgent string    `json:"user_agent"`
	IPAddress string    `json:"ip_address"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// # Field Identifiers

const (
	FieldUsername          = "username"
	FieldEmail             = "email"
	FieldPassword          = "password"
	FieldDisplayName       = "display_name"
	FieldPreferredLanguage = "preferred_language"
	FieldLogin             = "login"
	FieldCurrentPassword   = "current_password"
	FieldNewPassword       = "new_password"
	FieldAccessToken       = "access_token"
	FieldTokenType         = "token_type"
	FieldExpiresIn         = "expires_in"
	FieldUser              = "user"
	FieldMessage           = "message"
)

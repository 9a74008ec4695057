package auth

import "context"

// # User Data Access

// UserRepository defines the data access contract for accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	// FindByLogin matches login case-insensitively against email or username.
	FindByLogin(context context.Context, login string) (*User, error)

	// Create returns a 409 AppError when the username or email is taken.
	Create(context context.Context, user *User) error

	// Update persists every mutable column of user, including role and active flag.
	Update(context context.Context, user *User) error

	UpdatePassword(context context.Context, userID, passwordHash string) error
	TouchLastLogin(context context.Context, userID string) error
}

// # Session Data Access

// SessionRepository defines the contract for refresh sessions.
type SessionRepository interface {
	Create(context context.Context, session *Session) error

	// FindByTokenHash returns apperr.NotFound for unknown or expired sessions.
	FindByTokenHash(context context.Context, tokenHash string) (*Session, error)

	Revoke(context context.Context, session *Session) error

	// RevokeAll drops every session of userID except keepHash (may be empty).
	RevokeAll(context context.Context, userID, keepHash string) error
}

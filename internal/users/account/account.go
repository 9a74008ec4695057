/*
Package account lets an authenticated reader view and edit their own profile.

# Architecture

  - Domain: the User entity and its storage belong to the auth package.
  - Scope: display name, avatar, preferred language and reading preferences.
    Credentials change through auth, role and activation through admin.
*/
package account

import (
	"context"

	"github.com/nathanpasca/manov-sub001/internal/users/auth"
)

// Repository is the subset of [auth.UserRepository] the profile flow needs.
type Repository interface {
	FindByID(context context.Context, id string) (*auth.User, error)
	Update(context context.Context, user *auth.User) error
}

// Field identifiers owned by this package.
const (
	FieldAvatarURL          = "avatar_url"
	FieldReadingPreferences = "reading_preferences"
)

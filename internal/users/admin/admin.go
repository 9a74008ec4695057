/*
Package admin exposes account management to administrators: listing,
inspecting, editing and deactivating users.

Accounts are never hard-deleted here. Deactivation flips is_active and
revokes every refresh session of the account.
*/
package admin

import (
	"context"

	"github.com/nathanpasca/manov-sub001/internal/platform/database/schema"
	"github.com/nathanpasca/manov-sub001/internal/users/auth"
	"github.com/nathanpasca/manov-sub001/pkg/query"
)

// Filter holds the query-string filters of the user listing.
type Filter struct {
	IsActive  *bool  `query:"isActive"`
	Role      string `query:"role"`
	Search    string `query:"q"`
	SortBy    string `query:"sortBy" default:"createdAt"`
	SortOrder string `query:"sortOrder" default:"desc"`
}

// SortSpec whitelists the sort keys of the user listing.
var SortSpec = query.SortSpec{
	Columns: map[string]string{
		"username":      schema.UserAccount.Username,
		"email":         schema.UserAccount.Email,
		"created_at":    schema.UserAccount.CreatedAt,
		"last_login_at": schema.UserAccount.LastLoginAt,
		"display_name":  schema.UserAccount.DisplayName,
	},
	Default:     "created_at",
	DefaultDesc: true,
}

// Repository lists accounts for the admin console.
type Repository interface {
	// ListUsers returns one page of accounts and the total matching filter.
	ListUsers(context context.Context, filter Filter, sort query.Sort, limit, offset int) ([]*auth.User, int, error)
}

// UserStore loads and persists single accounts. [auth.PostgresUserRepository]
// satisfies it.
type UserStore interface {
	FindByID(context context.Context, id string) (*auth.User, error)
	Update(context context.Context, user *auth.User) error
}

// SessionRevoker ends every refresh session of a user.
type SessionRevoker interface {
	RevokeSessions(context context.Context, userID string) error
}

// Field identifiers owned by this package.
const (
	FieldSortBy    = "sortBy"
	FieldRole      = "role"
	FieldIsActive  = "is_active"
	FieldAvatarURL = "avatar_url"
	FieldSearch    = "q"
)

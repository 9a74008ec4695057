package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/nathanpasca/manov-sub001/internal/platform/apperr"
	"github.com/nathanpasca/manov-sub001/internal/platform/database/schema"
	"github.com/nathanpasca/manov-sub001/internal/platform/dberr"
	"github.com/nathanpasca/manov-sub001/internal/platform/postgres"
)

// # User Repository

// PostgresUserRepository implements [UserRepository] using pgx.
type PostgresUserRepository struct {
	db postgres.Querier
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(db postgres.Querier) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// UserColumns lists the account columns in the order [ScanUser] expects.
var UserColumns = []string{
	schema.UserAccount.ID, schema.UserAccount.Username, schema.UserAccount.Email,
	schema.UserAccount.PasswordHash, schema.UserAccount.DisplayName, schema.UserAccount.AvatarURL,
	schema.UserAccount.PreferredLanguage, schema.UserAccount.ReadingPreferences, schema.UserAccount.Role,
	schema.UserAccount.IsActive, schema.UserAccount.LastLoginAt, schema.UserAccount.CreatedAt,
	schema.UserAccount.UpdatedAt,
}

var userSelect = fmt.Sprintf(`SELECT %s FROM %s`, strings.Join(UserColumns, ", "), schema.UserAccount.Table)

// ScanUser reads one row selected with [UserColumns].
func ScanUser(row pgx.Row, extra ...any) (*User, error) {
	user := &User{}
	dest := append([]any{
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.DisplayName, &user.AvatarURL,
		&user.PreferredLanguage, &user.ReadingPreferences, &user.Role, &user.IsActive, &user.LastLoginAt,
		&user.CreatedAt, &user.UpdatedAt,
	}, extra...)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return user, nil
}

func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	query := userSelect + fmt.Sprintf(` WHERE %s = $1`, schema.UserAccount.ID)

	user, err := ScanUser(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, notFound(err, "find_user_by_id", fmt.Sprintf("User with ID %s", id))
	}
	return user, nil
}

func (repository *PostgresUserRepository) FindByLogin(context context.Context, login string) (*User, error) {
	query := userSelect + fmt.Sprintf(` WHERE LOWER(%s) = LOWER($1) OR LOWER(%s) = LOWER($1) LIMIT 1`,
		schema.UserAccount.Email, schema.UserAccount.Username)

	user, err := ScanUser(repository.db.QueryRow(context, query, strings.TrimSpace(login)))
	if err != nil {
		return nil, notFound(err, "find_user_by_login", "User")
	}
	return user, nil
}

/*
Create persists a new account.

Returns:
  - error: 409 when the username or email (case-insensitive) is taken
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING %s, %s
	`,
		schema.UserAccount.Table,
		schema.UserAccount.ID, schema.UserAccount.Username, schema.UserAccount.Email,
		schema.UserAccount.PasswordHash, schema.UserAccount.DisplayName, schema.UserAccount.AvatarURL,
		schema.UserAccount.PreferredLanguage, schema.UserAccount.ReadingPreferences,
		schema.UserAccount.Role, schema.UserAccount.IsActive,
		schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		user.ID, user.Username, user.Email, user.PasswordHash, user.DisplayName, user.AvatarURL,
		user.PreferredLanguage, user.ReadingPreferences, user.Role, user.IsActive,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	return writeError(err, "create_user")
}

func (repository *PostgresUserRepository) Update(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = NOW()
		WHERE %s = $1
		RETURNING %s
	`,
		schema.UserAccount.Table,
		schema.UserAccount.Email, schema.UserAccount.DisplayName, schema.UserAccount.AvatarURL,
		schema.UserAccount.PreferredLanguage, schema.UserAccount.ReadingPreferences,
		schema.UserAccount.Role, schema.UserAccount.IsActive, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID,
		schema.UserAccount.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		user.ID, user.Email, user.DisplayName, user.AvatarURL, user.PreferredLanguage,
		user.ReadingPreferences, user.Role, user.IsActive,
	).Scan(&user.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(fmt.Sprintf("User with ID %s", user.ID))
	}
	return writeError(err, "update_user")
}

func (repository *PostgresUserRepository) UpdatePassword(context context.Context, userID, passwordHash string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.PasswordHash, schema.UserAccount.UpdatedAt, schema.UserAccount.ID)

	cmd, err := repository.db.Exec(context, query, userID, passwordHash)
	if err != nil {
		return dberr.Wrap(err, "update_user_password")
	}
	if cmd.RowsAffected() == 0 {
		return apperr.NotFound(fmt.Sprintf("User with ID %s", userID))
	}
	return nil
}

func (repository *PostgresUserRepository) TouchLastLogin(context context.Context, userID string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = NOW() WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.LastLoginAt, schema.UserAccount.ID)

	_, err := repository.db.Exec(context, query, userID)
	return dberr.Wrap(err, "touch_last_login")
}

// # Helpers

// writeError maps the case-insensitive unique indexes to client messages.
func writeError(err error, action string) error {
	switch {
	case err == nil:
		return nil
	case dberr.IsUniqueViolation(err, "uq_account_username"):
		return apperr.Conflict("Username is already taken")
	case dberr.IsUniqueViolation(err, "uq_account_email"):
		return apperr.Conflict("Email is already registered")
	}
	return dberr.Wrap(err, action)
}

func notFound(err error, action, resource string) error {
	wrapped := dberr.Wrap(err, action)
	if apperr.IsNotFound(wrapped) {
		return apperr.NotFound(resource)
	}
	return wrapped
}

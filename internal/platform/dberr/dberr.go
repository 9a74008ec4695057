// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/nathanpasca/manov-sub001/internal/platform/apperr"
)

// PostgreSQL SQLSTATE codes the API reacts to.
const (
	CodeUniqueViolation     = "23505"
	CodeForeignKeyViolation = "23503"
	CodeCheckViolation      = "23514"
	CodeNotNullViolation    = "23502"
)

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// Errors that are already an [apperr.AppError] are returned untouched so that
// repositories can wrap the result of nested calls without losing the class.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	if apperr.IsAppError(err) {
		return err
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	// 2. Constraint violations carry a SQLSTATE we can classify
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case CodeUniqueViolation:
			ae := apperr.Conflict("Resource already exists")
			ae.Cause = err
			return ae
		case CodeForeignKeyViolation:
			ae := apperr.Conflict("Resource cannot be modified because it is still referenced by other records")
			ae.Cause = err
			return ae
		case CodeCheckViolation, CodeNotNullViolation:
			ae := apperr.ValidationError("Value violates a database constraint")
			ae.Cause = err
			return ae
		}
		if len(pgErr.Code) == 5 && pgErr.Code[:2] == "22" {
			ae := apperr.ValidationError("Invalid value for the requested operation")
			ae.Cause = err
			return ae
		}
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}

// IsUniqueViolation reports whether err is a PostgreSQL unique violation,
// optionally restricted to the given constraint name.
func IsUniqueViolation(err error, constraint ...string) bool {
	return hasCode(err, CodeUniqueViolation, constraint...)
}

// IsForeignKeyViolation reports whether err is a PostgreSQL foreign key violation,
// optionally restricted to the given constraint name.
func IsForeignKeyViolation(err error, constraint ...string) bool {
	return hasCode(err, CodeForeignKeyViolation, constraint...)
}

func hasCode(err error, code string, constraint ...string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != code {
		return false
	}
	if len(constraint) == 0 {
		return true
	}
	for _, name := range constraint {
		if pgErr.ConstraintName == name {
			return true
		}
	}
	return false
}

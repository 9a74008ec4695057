package dberr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/nathanpasca/manov-sub001/internal/platform/apperr"
	"github.com/nathanpasca/manov-sub001/internal/platform/dberr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"no rows", pgx.ErrNoRows, http.StatusNotFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), http.StatusNotFound},
		{"unique", &pgconn.PgError{Code: dberr.CodeUniqueViolation}, http.StatusConflict},
		{"foreign key", &pgconn.PgError{Code: dberr.CodeForeignKeyViolation}, http.StatusConflict},
		{"check", &pgconn.PgError{Code: dberr.CodeCheckViolation}, http.StatusBadRequest},
		{"data exception", &pgconn.PgError{Code: "22P02"}, http.StatusBadRequest},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ae := apperr.As(dberr.Wrap(tt.err, "test"))
			require.NotNil(t, ae)
			assert.Equal(t, tt.status, ae.HTTPStatus)
		})
	}
}

func TestWrap_PassesThroughAppErrors(t *testing.T) {
	original := apperr.Conflict("Chapter number 3 already exists")
	assert.Same(t, original, dberr.Wrap(original, "test"))
	assert.NoError(t, dberr.Wrap(nil, "test"))
}

func TestConstraintHelpers(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: dberr.CodeUniqueViolation, ConstraintName: "uq_chapter_novel_number"})

	assert.True(t, dberr.IsUniqueViolation(err))
	assert.True(t, dberr.IsUniqueViolation(err, "uq_chapter_novel_number"))
	assert.False(t, dberr.IsUniqueViolation(err, "uq_other"))
	assert.False(t, dberr.IsForeignKeyViolation(err))
	assert.False(t, dberr.IsUniqueViolation(errors.New("plain")))
}

package validate_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathanpasca/manov-sub001/internal/platform/apperr"
	"github.com/nathanpasca/manov-sub001/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "name", "Manov", false},
		{"empty_string", "name", "", true},
		{"whitespace_only", "name", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value)

			if tt.hasError {
				assert.Error(t, v.Err())
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			} else {
				assert.NoError(t, v.Err())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_Email checks the email format validation rule.
*/
func TestValidator_Email(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		isValid bool
	}{
		{"valid_email", "test@example.com", true},
		{"invalid_format", "invalid-email", false},
		{"missing_domain", "test@", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Email("email", tt.email)

			if tt.isValid {
				assert.NoError(t, v.Err())
			} else {
				assert.Error(t, v.Err())
			}
		})
	}
}

/*
TestValidator_Chain tests the fluent API (chaining multiple rules).
*/
func TestValidator_Chain(t *testing.T) {
	v := &validate.Validator{}

	// Multi-rule validation
	err := v.
		Required("username", "tai").
		MinLen("username", "tai", 3).
		MaxLen("username", "tai", 10).
		Email("email", "reader@manov.app").
		Err()

	assert.NoError(t, err)
	assert.NoError(t, v.Err())
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("username", "").       // Fails
		MinLen("username", "a", 5).     // Fails
		Email("email", "not-an-email"). // Fails
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)

	// Should accumulate all 3 errors
	assert.Len(t, ae.Details, 3)
}

/*
TestValidator_URL checks the absolute http(s) URL rule.
*/
func TestValidator_URL(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		isValid bool
	}{
		{"https", "https://cdn.manov.app/covers/1.jpg", true},
		{"http", "http://example.com", true},
		{"relative", "/covers/1.jpg", false},
		{"ftp", "ftp://example.com/file", false},
		{"garbage", "not a url", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.URL("cover_image_url", tt.value)
			assert.Equal(t, !tt.isValid, v.Err() != nil)
		})
	}
}

/*
TestValidator_DateOrder rejects an end date that precedes the start date.
*/
func TestValidator_DateOrder(t *testing.T) {
	birth := time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
	death := time.Date(1899, 1, 1, 0, 0, 0, 0, time.UTC)

	v := &validate.Validator{}
	v.DateOrder("death_date", &birth, &death, "Death date must be after birth date.")
	require.Error(t, v.Err())

	ae := apperr.As(v.Err())
	require.NotNil(t, ae)
	assert.Equal(t, "death_date", ae.Details[0].Field)

	v = &validate.Validator{}
	v.DateOrder("death_date", &birth, nil, "unused")
	assert.NoError(t, v.Err())
}

/*
TestValidator_FloatRange covers inclusive bounds.
*/
func TestValidator_FloatRange(t *testing.T) {
	v := &validate.Validator{}
	v.FloatRange("progress_percentage", 0, 0, 100).FloatRange("progress_percentage", 100, 0, 100)
	assert.NoError(t, v.Err())

	v.FloatRange("progress_percentage", 100.5, 0, 100)
	assert.Error(t, v.Err())
}

/*
TestValidator_OptionalDate treats blank input as absent.
*/
func TestValidator_OptionalDate(t *testing.T) {
	v := &validate.Validator{}
	blank := "  "
	assert.Nil(t, v.OptionalDate("published_at", nil))
	assert.Nil(t, v.OptionalDate("published_at", &blank))
	assert.NoError(t, v.Err())

	raw := "2024-02-29"
	parsed := v.OptionalDate("published_at", &raw)
	require.NotNil(t, parsed)
	assert.Equal(t, time.February, parsed.Month())

	bad := "soon"
	assert.Nil(t, v.OptionalDate("published_at", &bad))
	assert.Error(t, v.Err())
}

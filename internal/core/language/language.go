package language

import (
	"regexp"
	"time"
)

// Language is a reference row for every translatable entity.
type Language struct {
	ID         int       `json:"id"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	NativeName *string   `json:"native_name"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Filter narrows the language list.
type Filter struct {
	IsActive *bool `query:"isActive"`
}

// CreateInput is the payload of POST /languages.
type CreateInput struct {
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	NativeName *string `json:"native_name"`
	IsActive   *bool   `json:"is_active"`
}

// UpdateInput is the payload of PUT /languages/{id}. Nil fields are left untouched.
type UpdateInput struct {
	Code       *string `json:"code"`
	Name       *string `json:"name"`
	NativeName *string `json:"native_name"`
	IsActive   *bool   `json:"is_active"`
}

func (input UpdateInput) empty() bool {
	return input.Code == nil && input.Name == nil && input.NativeName == nil && input.IsActive == nil
}

// Global field names for validation
const (
	FieldCode       = "code"
	FieldName       = "name"
	FieldNativeName = "native_name"
)

// CodePattern matches BCP 47 style codes such as "en", "zh-hant" or "pt-br".
var CodePattern = regexp.MustCompile(`^[A-Za-z]{2,3}(?:-[A-Za-z0-9]{2,8})?$`)

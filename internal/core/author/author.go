package author

import "time"

// Author represents the writer behind one or more novels.
type Author struct {
	ID               int        `json:"id"`
	Name             string     `json:"name"`
	NameRomanized    *string    `json:"name_romanized"`
	Biography        *string    `json:"biography"`
	OriginalLanguage string     `json:"original_language"`
	BirthDate        *time.Time `json:"birth_date"`
	DeathDate        *time.Time `json:"death_date"`
	Nationality      *string    `json:"nationality"`
	ProfileImageURL  *string    `json:"profile_image_url"`
	IsActive         bool       `json:"is_active"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Summary is the author shape embedded in novel responses.
type Summary struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	NameRomanized *string `json:"name_romanized"`
}

// Filter holds the parameters for a paginated author search.
type Filter struct {
	IsActive *bool  `query:"isActive"`
	Query    string `query:"q"` // ILIKE against name and romanized name
}

// CreateInput is the payload of POST /authors.
type CreateInput struct {
	Name             string  `json:"name"`
	NameRomanized    *string `json:"name_romanized"`
	Biography        *string `json:"biography"`
	OriginalLanguage string  `json:"original_language"`
	BirthDate        *string `json:"birth_date"`
	DeathDate        *string `json:"death_date"`
	Nationality      *string `json:"nationality"`
	ProfileImageURL  *string `json:"profile_image_url"`
	IsActive         *bool   `json:"is_active"`
}

// UpdateInput is the payload of PUT /authors/{id}. Nil fields are left untouched.
type UpdateInput struct {
	Name             *string `json:"name"`
	NameRomanized    *string `json:"name_romanized"`
	Biography        *string `json:"biography"`
	OriginalLanguage *string `json:"original_language"`
	BirthDate        *string `json:"birth_date"`
	DeathDate        *string `json:"death_date"`
	Nationality      *string `json:"nationality"`
	ProfileImageURL  *string `json:"profile_image_url"`
	IsActive         *bool   `json:"is_active"`
}

func (input UpdateInput) empty() bool {
	return input.Name == nil && input.NameRomanized == nil && input.Biography == nil &&
		input.OriginalLanguage == nil && input.BirthDate == nil && input.DeathDate == nil &&
		input.Nationality == nil && input.ProfileImageURL == nil && input.IsActive == nil
}

// Global field names for validation
const (
	FieldName             = "name"
	FieldNameRomanized    = "name_romanized"
	FieldBiography        = "biography"
	FieldOriginalLanguage = "original_language"
	FieldBirthDate        = "birth_date"
	FieldDeathDate        = "death_date"
	FieldNationality      = "nationality"
	FieldProfileImageURL  = "profile_image_url"
)

package language

import "context"

// Repository defines the data access contract.
type Repository interface {
	ListLanguages(context context.Context, filter Filter) ([]*Language, error)
	GetLanguage(context context.Context, id int) (*Language, error)
	GetLanguageByCode(context context.Context, code string) (*Language, error)
	CreateLanguage(context context.Context, language *Language) error
	UpdateLanguage(context context.Context, language *Language) error
	DeleteLanguage(context context.Context, id int) error
}

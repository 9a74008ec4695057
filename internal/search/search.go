/*
Package search implements catalogue search over novels and authors.

Matching is a case-insensitive substring match (ILIKE) over the text columns
of each kind, restricted to active rows.
*/
package search

import (
	"context"

	"github.com/nathanpasca/manov-sub001/internal/core/author"
	"github.com/nathanpasca/manov-sub001/internal/core/novel"
	"github.com/nathanpasca/manov-sub001/pkg/pagination"
)

// Kind selects what a search looks for.
type Kind string

const (
	KindNovels  Kind = "novels"
	KindAuthors Kind = "authors"
)

// Query holds the query-string parameters of GET /search.
type Query struct {
	Term string `query:"q"`
	Kind string `query:"type" default:"novels"`
}

// Result is the response body of GET /search.
type Result struct {
	Type    Kind            `json:"type"`
	Query   string          `json:"query"`
	Results any             `json:"results"`
	Meta    pagination.Meta `json:"meta"`
}

// Field identifiers and limits.
const (
	FieldQuery  = "q"
	FieldType   = "type"
	MinTermLen  = 2
	MaxTermLen  = 100
	MaxPageSize = 50
)

// Repository runs the search statements.
type Repository interface {
	SearchNovels(context context.Context, term string, limit, offset int) ([]*novel.Novel, int, error)
	SearchAuthors(context context.Context, term string, limit, offset int) ([]*author.Author, int, error)
}

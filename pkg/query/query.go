// Package query holds helpers for list endpoints driven by the query string.
package query

import (
	"slices"
	"strings"

	"github.com/iancoleman/strcase"
)

// # Sorting

// Sort is a validated ORDER BY clause.
type Sort struct {
	// Key is the canonical snake_case sort key (e.g. "created_at").
	Key string
	// Column is the SQL expression bound to Key.
	Column string
	// Desc is true for descending order.
	Desc bool
}

// Direction returns "ASC" or "DESC".
func (s Sort) Direction() string {
	if s.Desc {
		return "DESC"
	}
	return "ASC"
}

// SQL renders "column DIRECTION".
func (s Sort) SQL() string {
	return s.Column + " " + s.Direction()
}

// SortSpec whitelists the sort keys an endpoint accepts.
//
// Keys are snake_case; clients may send them in camelCase ("createdAt"),
// snake_case or PascalCase and are normalised with strcase.
type SortSpec struct {
	Columns     map[string]string
	Default     string
	DefaultDesc bool
}

// Parse validates sortBy and sortOrder against the whitelist. Empty values select
// the defaults. The second result is false when either value is not allowed.
func (spec SortSpec) Parse(sortBy, sortOrder string) (Sort, bool) {
	key := spec.Default
	if strings.TrimSpace(sortBy) != "" {
		key = strcase.ToSnake(strings.TrimSpace(sortBy))
	}

	column, ok := spec.Columns[key]
	if !ok {
		return Sort{}, false
	}

	sort := Sort{Key: key, Column: column, Desc: spec.DefaultDesc}
	switch strings.ToLower(strings.TrimSpace(sortOrder)) {
	case "":
	case "asc":
		sort.Desc = false
	case "desc":
		sort.Desc = true
	default:
		return Sort{}, false
	}

	return sort, true
}

// Keys lists the accepted sort keys in camelCase, the form clients send, alphabetically.
func (spec SortSpec) Keys() []string {
	keys := make([]string, 0, len(spec.Columns))
	for key := range spec.Columns {
		keys = append(keys, strcase.ToLowerCamel(key))
	}
	slices.Sort(keys)
	return keys
}

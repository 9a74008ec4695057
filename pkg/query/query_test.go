package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nathanpasca/manov-sub001/pkg/query"
)

func TestSortSpec_Keys(t *testing.T) {
	spec := query.SortSpec{Columns: map[string]string{
		"updated_at":    "n.updatedat",
		"title":         "n.title",
		"created_at":    "n.createdat",
		"last_login_at": "a.lastloginat",
	}}

	want := []string{"createdAt", "lastLoginAt", "title", "updatedAt"}
	for range 20 {
		assert.Equal(t, want, spec.Keys())
	}
}

func TestSortSpec_Parse(t *testing.T) {
	spec := query.SortSpec{
		Columns: map[string]string{
			"created_at":    "n.createdat",
			"last_login_at": "a.lastloginat",
			"title":         "n.title",
		},
		Default:     "created_at",
		DefaultDesc: true,
	}

	tests := []struct {
		name      string
		sortBy    string
		sortOrder string
		want      string
		ok        bool
	}{
		{"defaults", "", "", "n.createdat DESC", true},
		{"camel case", "lastLoginAt", "asc", "a.lastloginat ASC", true},
		{"snake case", "last_login_at", "DESC", "a.lastloginat DESC", true},
		{"default order kept", "title", "", "n.title DESC", true},
		{"unknown key", "password", "", "", false},
		{"bad order", "title", "sideways", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sort, ok := spec.Parse(tt.sortBy, tt.sortOrder)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, sort.SQL())
			}
		})
	}
}

package admin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathanpasca/manov-sub001/pkg/pointer"
)

func TestListUsersQuery(t *testing.T) {
	t.Run("filters and order", func(t *testing.T) {
		sort, ok := SortSpec.Parse("lastLoginAt", "asc")
		require.True(t, ok)

		statement, args, err := listUsersQuery(Filter{IsActive: pointer.To(true), Role: "admin", Search: "nat"}, sort, 20, 40)
		require.NoError(t, err)

		assert.Contains(t, statement, `FROM "users"."account"`)
		assert.Contains(t, statement, "COUNT(*) OVER()")
		assert.Contains(t, statement, `"isactive" IS TRUE`)
		assert.Contains(t, statement, `"role" = $`)
		assert.Contains(t, statement, "ILIKE")
		assert.Contains(t, statement, `ORDER BY "lastloginat" ASC NULLS LAST, "id" ASC`)
		assert.Contains(t, args, "admin")
		assert.Contains(t, args, "%nat%")
		assert.NotContains(t, statement, "nat%")
	})

	t.Run("defaults", func(t *testing.T) {
		sort, ok := SortSpec.Parse("", "")
		require.True(t, ok)

		statement, _, err := listUsersQuery(Filter{}, sort, 20, 0)
		require.NoError(t, err)
		assert.NotContains(t, statement, "WHERE")
		assert.Contains(t, statement, `ORDER BY "createdat" DESC NULLS LAST`)
	})
}

package admin

import (
	"context"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/nathanpasca/manov-sub001/internal/platform/database/schema"
	"github.com/nathanpasca/manov-sub001/internal/platform/dberr"
	"github.com/nathanpasca/manov-sub001/internal/platform/postgres"
	"github.com/nathanpasca/manov-sub001/internal/users/auth"
	"github.com/nathanpasca/manov-sub001/pkg/query"
)

var dialect = goqu.Dialect("postgres")

// PostgresRepository implements [Repository] with goqu-built statements.
type PostgresRepository struct {
	db postgres.Querier
}

// NewPostgresRepository creates a new [PostgresRepository].
func NewPostgresRepository(db postgres.Querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) ListUsers(context context.Context, filter Filter, sort query.Sort, limit, offset int) ([]*auth.User, int, error) {
	statement, args, err := listUsersQuery(filter, sort, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("admin_build_list_users_failed: %w", err)
	}

	rows, err := repository.db.Query(context, statement, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_users")
	}
	defer rows.Close()

	var (
		users []*auth.User
		total int
	)
	for rows.Next() {
		user, err := auth.ScanUser(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_user")
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "iterate_users")
	}
	return users, total, nil
}

// listUsersQuery renders the filtered page as a prepared statement.
func listUsersQuery(filter Filter, sort query.Sort, limit, offset int) (string, []any, error) {
	columns := make([]any, 0, len(auth.UserColumns)+1)
	for _, column := range auth.UserColumns {
		columns = append(columns, goqu.C(column))
	}
	columns = append(columns, goqu.L("COUNT(*) OVER()"))

	selectStmt := dialect.From(goqu.I(schema.UserAccount.Table)).
		Prepared(true).
		Select(columns...)

	if filter.IsActive != nil {
		selectStmt = selectStmt.Where(goqu.C(schema.UserAccount.IsActive).Eq(*filter.IsActive))
	}
	if filter.Role != "" {
		selectStmt = selectStmt.Where(goqu.C(schema.UserAccount.Role).Eq(filter.Role))
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		selectStmt = selectStmt.Where(goqu.Or(
			goqu.C(schema.UserAccount.Username).ILike(pattern),
			goqu.C(schema.UserAccount.Email).ILike(pattern),
			goqu.C(schema.UserAccount.DisplayName).ILike(pattern),
		))
	}

	order := goqu.C(sort.Column).Asc()
	if sort.Desc {
		order = goqu.C(sort.Column).Desc()
	}

	return selectStmt.
		Order(order.NullsLast(), goqu.C(schema.UserAccount.ID).Asc()).
		Limit(uint(limit)).
		Offset(uint(offset)).
		ToSQL()
}

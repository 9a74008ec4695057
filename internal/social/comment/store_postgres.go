package comment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nathanpasca/manov-sub001/internal/platform/apperr"
	"github.com/nathanpasca/manov-sub001/internal/platform/database/schema"
	"github.com/nathanpasca/manov-sub001/internal/platform/dberr"
	"github.com/nathanpasca/manov-sub001/internal/users/auth"
	"github.com/nathanpasca/manov-sub001/pkg/query"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed comment store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func commentQuery(withTotal bool) string {
	columns := []string{
		schema.SocialComment.ID, schema.SocialComment.UserID, schema.SocialComment.NovelID,
		schema.SocialComment.ChapterID, schema.SocialComment.ParentID, schema.SocialComment.Content,
		schema.SocialComment.IsEdited, schema.SocialComment.CreatedAt, schema.SocialComment.UpdatedAt,
	}
	for i, column := range columns {
		columns[i] = "c." + column
	}
	columns = append(columns,
		"a."+schema.UserAccount.ID, "a."+schema.UserAccount.Username,
		"a."+schema.UserAccount.DisplayName, "a."+schema.UserAccount.AvatarURL,
	)
	if withTotal {
		columns = append(columns, "COUNT(*) OVER()")
	}

	return fmt.Sprintf(`SELECT %s FROM %s c JOIN %s a ON a.%s = c.%s`,
		strings.Join(columns, ", "), schema.SocialComment.Table, schema.UserAccount.Table,
		schema.UserAccount.ID, schema.SocialComment.UserID,
	)
}

var (
	detailSelect = commentQuery(false)
	listSelect   = commentQuery(true)
)

func scanComment(row pgx.Row, extra ...any) (*Comment, error) {
	c := &Comment{User: &auth.Summary{}}
	dest := append([]any{
		&c.ID, &c.UserID, &c.NovelID, &c.ChapterID, &c.ParentID, &c.Content, &c.IsEdited,
		&c.CreatedAt, &c.UpdatedAt,
		&c.User.ID, &c.User.Username, &c.User.DisplayName, &c.User.AvatarURL,
	}, extra...)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return c, nil
}

func (repository *PostgresRepository) ListComments(context context.Context, target Target, sort query.Sort, limit, offset int) ([]*Comment, int, error) {
	column, id := schema.SocialComment.NovelID, 0
	switch {
	case target.NovelID != nil:
		id = *target.NovelID
	case target.ChapterID != nil:
		column, id = schema.SocialComment.ChapterID, *target.ChapterID
	default:
		return nil, 0, apperr.Internal(errors.New("comment: empty target"))
	}

	query := fmt.Sprintf(`%s
		WHERE c.%s = $1 AND c.%s IS NULL
		ORDER BY %s, c.%s DESC
		LIMIT $2 OFFSET $3`,
		listSelect, column, schema.SocialComment.ParentID, sort.SQL(), schema.SocialComment.ID,
	)

	rows, err := repository.db.Query(context, query, id, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_comments")
	}
	defer rows.Close()

	var (
		comments []*Comment
		total    int
	)
	for rows.Next() {
		c, err := scanComment(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_comment")
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "iterate_comments")
	}
	return comments, total, nil
}

func (repository *PostgresRepository) ListReplies(context context.Context, parentIDs []string) (map[string][]*Comment, error) {
	replies := make(map[string][]*Comment, len(parentIDs))
	if len(parentIDs) == 0 {
		return replies, nil
	}

	query := fmt.Sprintf(`%s WHERE c.%s = ANY($1::uuid[]) ORDER BY c.%s ASC, c.%s ASC`,
		detailSelect, schema.SocialComment.ParentID, schema.SocialComment.CreatedAt, schema.SocialComment.ID)

	rows, err := repository.db.Query(context, query, parentIDs)
	if err != nil {
		return nil, dberr.Wrap(err, "list_replies")
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_reply")
		}
		replies[*c.ParentID] = append(replies[*c.ParentID], c)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "iterate_replies")
	}
	return replies, nil
}

func (repository *PostgresRepository) GetComment(context context.Context, id string) (*Comment, error) {
	query := fmt.Sprintf(`%s WHERE c.%s = $1`, detailSelect, schema.SocialComment.ID)

	c, err := scanComment(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, notFound(err, "get_comment", fmt.Sprintf("Comment with ID %s", id))
	}
	return c, nil
}

func (repository *PostgresRepository) CreateComment(context context.Context, comment *Comment) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s, %s, %s
	`,
		schema.SocialComment.Table,
		schema.SocialComment.ID, schema.SocialComment.UserID, schema.SocialComment.NovelID,
		schema.SocialComment.ChapterID, schema.SocialComment.ParentID, schema.SocialComment.Content,
		schema.SocialComment.IsEdited, schema.SocialComment.CreatedAt, schema.SocialComment.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		comment.ID, comment.UserID, comment.NovelID, comment.ChapterID, comment.ParentID, comment.Content,
	).Scan(&comment.IsEdited, &comment.CreatedAt, &comment.UpdatedAt)

	return writeError(err, "create_comment")
}

func (repository *PostgresRepository) UpdateComment(context context.Context, comment *Comment) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = TRUE, %s = NOW()
		WHERE %s = $1
		RETURNING %s, %s
	`,
		schema.SocialComment.Table,
		schema.SocialComment.Content, schema.SocialComment.IsEdited, schema.SocialComment.UpdatedAt,
		schema.SocialComment.ID,
		schema.SocialComment.IsEdited, schema.SocialComment.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query, comment.ID, comment.Content).Scan(&comment.IsEdited, &comment.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(fmt.Sprintf("Comment with ID %s", comment.ID))
	}
	return writeError(err, "update_comment")
}

func (repository *PostgresRepository) DeleteComment(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.SocialComment.Table, schema.SocialComment.ID)

	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_comment")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(fmt.Sprintf("Comment with ID %s", id))
	}
	return nil
}

// # Helpers

// writeError maps the target foreign keys to 404s. The targets are checked
// by the service first; these cover rows deleted in between.
func writeError(err error, action string) error {
	switch {
	case err == nil:
		return nil
	case dberr.IsForeignKeyViolation(err, "fk_comment_novel"):
		return apperr.NotFound("Novel")
	case dberr.IsForeignKeyViolation(err, "fk_comment_chapter"):
		return apperr.NotFound("Chapter")
	case dberr.IsForeignKeyViolation(err, "fk_comment_parent"):
		return apperr.NotFound("Comment")
	}
	return dberr.Wrap(err, action)
}

func notFound(err error, action, resource string) error {
	wrapped := dberr.Wrap(err, action)
	if apperr.IsNotFound(wrapped) {
		return apperr.NotFound(resource)
	}
	return wrapped
}

package comment

import (
	"context"

	"github.com/nathanpasca/manov-sub001/pkg/query"
)

// Repository defines the data access contract for comments.
type Repository interface {
	// ListComments returns a page of top-level comments on target.
	ListComments(context context.Context, target Target, sort query.Sort, limit, offset int) ([]*Comment, int, error)

	// ListReplies loads the replies of the given comments, oldest first,
	// grouped by parent ID.
	ListReplies(context context.Context, parentIDs []string) (map[string][]*Comment, error)

	// GetComment returns one comment with its author, or a 404 AppError.
	GetComment(context context.Context, id string) (*Comment, error)

	CreateComment(context context.Context, comment *Comment) error

	// UpdateComment stores new content and marks the comment edited.
	UpdateComment(context context.Context, comment *Comment) error

	// DeleteComment removes a comment; its replies cascade.
	DeleteComment(context context.Context, id string) error
}

/*
Package comment implements threaded discussion on novels and chapters.

A top-level comment targets exactly one novel or one chapter. Replies inherit
the target of the comment they answer, and threads are one level deep: a
reply to a reply joins the thread of the top-level comment.
*/
package comment

import (
	"time"

	"github.com/nathanpasca/manov-sub001/internal/platform/database/schema"
	"github.com/nathanpasca/manov-sub001/internal/users/auth"
	"github.com/nathanpasca/manov-sub001/pkg/query"
)

// Comment is a single message in a discussion thread.
type Comment struct {
	ID        string        `json:"id"`
	UserID    string        `json:"user_id"`
	NovelID   *int          `json:"novel_id"`
	ChapterID *int          `json:"chapter_id"`
	ParentID  *string       `json:"parent_id"`
	Content   string        `json:"content"`
	IsEdited  bool          `json:"is_edited"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	User      *auth.Summary `json:"user,omitempty"`
	Replies   []*Comment    `json:"replies,omitempty"`
}

// Target names the novel or chapter a thread hangs off. Exactly one is set.
type Target struct {
	NovelID   *int
	ChapterID *int
}

// ListQuery holds the query-string parameters of comment listings.
type ListQuery struct {
	SortBy    string `query:"sortBy" default:"createdAt"`
	SortOrder string `query:"sortOrder" default:"desc"`
}

// SortSpec whitelists the sort keys of comment listings.
var SortSpec = query.SortSpec{
	Columns: map[string]string{
		"created_at": "c." + schema.SocialComment.CreatedAt,
		"updated_at": "c." + schema.SocialComment.UpdatedAt,
	},
	Default:     "created_at",
	DefaultDesc: true,
}

// Field identifiers and limits.
const (
	FieldContent     = "content"
	FieldSortBy      = "sortBy"
	MaxContentLength = 5000
	MaxPageSize      = 50
)

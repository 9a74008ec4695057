/*
Package progress tracks where each reader stopped in each novel.

One row exists per (user, novel). Saving progress overwrites it and stamps
last_read_at, which orders the reader's "continue reading" list.
*/
package progress

import (
	"context"
	"time"

	"github.com/nathanpasca/manov-sub001/internal/core/chapter"
	"github.com/nathanpasca/manov-sub001/internal/core/novel"
)

// # Domain Entities

// Progress is a reader's bookmark into a novel.
type Progress struct {
	ID                 int              `json:"id"`
	UserID             string           `json:"user_id"`
	NovelID            int              `json:"novel_id"`
	ChapterID          int              `json:"chapter_id"`
	ReadingPosition    *string          `json:"reading_position"`
	ProgressPercentage *float64         `json:"progress_percentage"`
	LastReadAt         time.Time        `json:"last_read_at"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
	Novel              *novel.Summary   `json:"novel,omitempty"`
	Chapter            *chapter.Summary `json:"chapter,omitempty"`
}

// SaveInput is the body of PUT /novels/{novelID}/progress.
type SaveInput struct {
	ChapterID          *int     `json:"chapter_id"`
	ReadingPosition    *string  `json:"reading_position"`
	ProgressPercentage *float64 `json:"progress_percentage"`
}

// Field identifiers.
const (
	FieldChapterID          = "chapter_id"
	FieldReadingPosition    = "reading_position"
	FieldProgressPercentage = "progress_percentage"
)

// # Repository Contracts

// Repository defines the data access contract for reading progress.
type Repository interface {
	// SaveProgress upserts the (user, novel) row and stamps last_read_at.
	SaveProgress(context context.Context, progress *Progress) error

	// GetProgress returns the row with novel and chapter summaries, or a 404 AppError.
	GetProgress(context context.Context, userID string, novelID int) (*Progress, error)

	// ListProgress returns a page of the user's rows, most recently read first.
	ListProgress(context context.Context, userID string, limit, offset int) ([]*Progress, int, error)
}

package progress

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nathanpasca/manov-sub001/internal/platform/apperr"
	"github.com/nathanpasca/manov-sub001/internal/platform/validate"
	"github.com/nathanpasca/manov-sub001/pkg/pointer"
)

// # Contracts & Types

// NovelLookup reports whether a novel exists.
type NovelLookup interface {
	Exists(context context.Context, id int) (bool, error)
}

// ChapterMembership reports whether a chapter belongs to a novel.
type ChapterMembership interface {
	BelongsTo(context context.Context, chapterID, novelID int) (bool, error)
}

// Service implements reading progress.
type Service struct {
	repo     Repository
	novels   NovelLookup
	chapters ChapterMembership
	logger   *slog.Logger
}

// NewService constructs a new progress [Service].
func NewService(repo Repository, novels NovelLookup, chapters ChapterMembership, logger *slog.Logger) *Service {
	return &Service{repo: repo, novels: novels, chapters: chapters, logger: logger}
}

/*
SaveProgress records where the caller stopped in a novel.

Returns:
  - *Progress: The stored row with novel and chapter summaries
  - error: 400 validation, 404 unknown novel or a chapter of another novel
*/
func (service *Service) SaveProgress(context context.Context, userID string, novelID int, input SaveInput) (*Progress, error) {
	validator := &validate.Validator{}

	if input.ChapterID == nil {
		validator.Custom(FieldChapterID, true, "This field is required")
	} else {
		validator.Min(FieldChapterID, *input.ChapterID, 1)
	}
	if input.ReadingPosition != nil {
		validator.MaxLen(FieldReadingPosition, strings.TrimSpace(*input.ReadingPosition), 255)
	}
	if input.ProgressPercentage != nil {
		validator.FloatRange(FieldProgressPercentage, *input.ProgressPercentage, 0, 100)
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	exists, err := service.novels.Exists(context, novelID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound(fmt.Sprintf("Novel with ID %d", novelID))
	}

	belongs, err := service.chapters.BelongsTo(context, *input.ChapterID, novelID)
	if err != nil {
		return nil, err
	}
	if !belongs {
		return nil, apperr.NotFound(fmt.Sprintf("Chapter with ID %d in novel %d", *input.ChapterID, novelID))
	}

	p := &Progress{
		UserID:             userID,
		NovelID:            novelID,
		ChapterID:          *input.ChapterID,
		ReadingPosition:    pointer.Trimmed(input.ReadingPosition),
		ProgressPercentage: input.ProgressPercentage,
	}
	if err := service.repo.SaveProgress(context, p); err != nil {
		return nil, err
	}

	service.logger.Debug("reading_progress_saved",
		slog.String("user_id", userID),
		slog.Int("novel_id", novelID),
		slog.Int("chapter_id", p.ChapterID),
	)

	return service.repo.GetProgress(context, userID, novelID)
}

// GetProgress returns the caller's progress in a novel, or 404s.
func (service *Service) GetProgress(context context.Context, userID string, novelID int) (*Progress, error) {
	return service.repo.GetProgress(context, userID, novelID)
}

// ListProgress returns the caller's progress rows, most recently read first.
func (service *Service) ListProgress(context context.Context, userID string, limit, offset int) ([]*Progress, int, error) {
	return service.repo.ListProgress(context, userID, limit, offset)
}

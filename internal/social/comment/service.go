package comment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nathanpasca/manov-sub001/internal/platform/apperr"
	"github.com/nathanpasca/manov-sub001/internal/platform/sec"
	"github.com/nathanpasca/manov-sub001/internal/platform/validate"
	"github.com/nathanpasca/manov-sub001/pkg/uuid"
)

// # Contracts & Types

// NovelLookup reports whether a novel exists.
type NovelLookup interface {
	Exists(context context.Context, id int) (bool, error)
}

// ChapterLocator resolves a chapter to its novel, or 404s.
type ChapterLocator interface {
	Locate(context context.Context, chapterID int) (int, error)
}

// Actor is the caller performing a write.
type Actor struct {
	UserID string
	Role   sec.UserRole
}

// Input is the body of comment writes.
type Input struct {
	Content string `json:"content"`
}

// Service implements comment threads.
type Service struct {
	repo     Repository
	novels   NovelLookup
	chapters ChapterLocator
	logger   *slog.Logger
}

// NewService constructs a new comment [Service].
func NewService(repo Repository, novels NovelLookup, chapters ChapterLocator, logger *slog.Logger) *Service {
	return &Service{repo: repo, novels: novels, chapters: chapters, logger: logger}
}

// # Reads

// ListNovelComments returns top-level comments on a novel with their replies.
func (service *Service) ListNovelComments(context context.Context, novelID int, q ListQuery, limit, offset int) ([]*Comment, int, error) {
	if err := service.requireNovel(context, novelID); err != nil {
		return nil, 0, err
	}
	return service.list(context, Target{NovelID: &novelID}, q, limit, offset)
}

// ListChapterComments returns top-level comments on a chapter with their replies.
func (service *Service) ListChapterComments(context context.Context, chapterID int, q ListQuery, limit, offset int) ([]*Comment, int, error) {
	if _, err := service.chapters.Locate(context, chapterID); err != nil {
		return nil, 0, err
	}
	return service.list(context, Target{ChapterID: &chapterID}, q, limit, offset)
}

func (service *Service) list(context context.Context, target Target, q ListQuery, limit, offset int) ([]*Comment, int, error) {
	sort, ok := SortSpec.Parse(q.SortBy, q.SortOrder)
	if !ok {
		return nil, 0, validate.RequiredError(FieldSortBy, fmt.Sprintf("Must be one of: %s (sortOrder asc or desc)", strings.Join(SortSpec.Keys(), ", ")))
	}

	comments, total, err := service.repo.ListComments(context, target, sort, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]string, len(comments))
	for i, c := range comments {
		ids[i] = c.ID
	}

	replies, err := service.repo.ListReplies(context, ids)
	if err != nil {
		return nil, 0, err
	}
	for _, c := range comments {
		c.Replies = replies[c.ID]
	}

	return comments, total, nil
}

// # Writes

// CreateNovelComment posts a top-level comment on a novel.
func (service *Service) CreateNovelComment(context context.Context, userID string, novelID int, input Input) (*Comment, error) {
	content, err := validateContent(input)
	if err != nil {
		return nil, err
	}
	if err := service.requireNovel(context, novelID); err != nil {
		return nil, err
	}

	return service.create(context, &Comment{UserID: userID, NovelID: &novelID, Content: content})
}

// CreateChapterComment posts a top-level comment on a chapter.
func (service *Service) CreateChapterComment(context context.Context, userID string, chapterID int, input Input) (*Comment, error) {
	content, err := validateContent(input)
	if err != nil {
		return nil, err
	}
	if _, err := service.chapters.Locate(context, chapterID); err != nil {
		return nil, err
	}

	return service.create(context, &Comment{UserID: userID, ChapterID: &chapterID, Content: content})
}

/*
Reply answers an existing comment.

Description: The reply copies the novel or chapter of its parent. Replying
to a reply attaches to the top-level comment of that thread.
*/
func (service *Service) Reply(context context.Context, userID, parentID string, input Input) (*Comment, error) {
	content, err := validateContent(input)
	if err != nil {
		return nil, err
	}

	parent, err := service.repo.GetComment(context, parentID)
	if err != nil {
		return nil, err
	}

	threadID := parent.ID
	if parent.ParentID != nil {
		threadID = *parent.ParentID
	}

	return service.create(context, &Comment{
		UserID:    userID,
		NovelID:   parent.NovelID,
		ChapterID: parent.ChapterID,
		ParentID:  &threadID,
		Content:   content,
	})
}

// UpdateComment replaces the content of the caller's own comment.
func (service *Service) UpdateComment(context context.Context, userID, commentID string, input Input) (*Comment, error) {
	content, err := validateContent(input)
	if err != nil {
		return nil, err
	}

	c, err := service.repo.GetComment(context, commentID)
	if err != nil {
		return nil, err
	}
	if c.UserID != userID {
		return nil, apperr.Forbidden("You can only edit your own comments")
	}

	c.Content = content
	if err := service.repo.UpdateComment(context, c); err != nil {
		return nil, err
	}

	service.logger.Info("comment_updated", slog.String("comment_id", c.ID), slog.String("user_id", userID))
	return c, nil
}

// DeleteComment removes a comment. Authors may delete their own; moderators
// and admins may delete any.
func (service *Service) DeleteComment(context context.Context, actor Actor, commentID string) error {
	c, err := service.repo.GetComment(context, commentID)
	if err != nil {
		return err
	}
	if c.UserID != actor.UserID && !actor.Role.AtLeast(sec.RoleModerator) {
		return apperr.Forbidden("Not authorized to delete this comment")
	}

	if err := service.repo.DeleteComment(context, c.ID); err != nil {
		return err
	}

	service.logger.Info("comment_deleted",
		slog.String("comment_id", c.ID),
		slog.String("user_id", actor.UserID),
		slog.Bool("moderated", c.UserID != actor.UserID),
	)
	return nil
}

// # Helpers

func (service *Service) create(context context.Context, c *Comment) (*Comment, error) {
	c.ID = uuid.New()
	if err := service.repo.CreateComment(context, c); err != nil {
		return nil, err
	}

	service.logger.Info("comment_created",
		slog.String("comment_id", c.ID),
		slog.String("user_id", c.UserID),
		slog.Bool("reply", c.ParentID != nil),
	)

	return service.repo.GetComment(context, c.ID)
}

func (service *Service) requireNovel(context context.Context, novelID int) error {
	exists, err := service.novels.Exists(context, novelID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound(fmt.Sprintf("Novel with ID %d", novelID))
	}
	return nil
}

func validateContent(input Input) (string, error) {
	content := strings.TrimSpace(input.Content)

	validator := &validate.Validator{}
	validator.Required(FieldContent, content).MaxLen(FieldContent, content, MaxContentLength)
	if err := validator.Err(); err != nil {
		return "", err
	}
	return content, nil
}

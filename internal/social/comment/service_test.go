package comment_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathanpasca/manov-sub001/internal/platform/apperr"
	"github.com/nathanpasca/manov-sub001/internal/platform/sec"
	"github.com/nathanpasca/manov-sub001/internal/social/comment"
	"github.com/nathanpasca/manov-sub001/internal/users/auth"
	"github.com/nathanpasca/manov-sub001/pkg/query"
)

// # Fakes

type memoryRepository struct {
	rows  map[string]*comment.Comment
	order []string
	clock time.Time
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{rows: map[string]*comment.Comment{}, clock: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func matches(c *comment.Comment, target comment.Target) bool {
	if target.NovelID != nil {
		return c.NovelID != nil && *c.NovelID == *target.NovelID
	}
	return c.ChapterID != nil && *c.ChapterID == *target.ChapterID
}

func (repository *memoryRepository) ListComments(_ context.Context, target comment.Target, sort query.Sort, _, _ int) ([]*comment.Comment, int, error) {
	var out []*comment.Comment
	for _, id := range repository.order {
		c := repository.rows[id]
		if c.ParentID == nil && matches(c, target) {
			copied := *c
			out = append(out, &copied)
		}
	}
	if sort.Desc {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out, len(out), nil
}

func (repository *memoryRepository) ListReplies(_ context.Context, parentIDs []string) (map[string][]*comment.Comment, error) {
	wanted := map[string]bool{}
	for _, id := range parentIDs {
		wanted[id] = true
	}
	out := map[string][]*comment.Comment{}
	for _, id := range repository.order {
		c := repository.rows[id]
		if c.ParentID != nil && wanted[*c.ParentID] {
			out[*c.ParentID] = append(out[*c.ParentID], c)
		}
	}
	return out, nil
}

func (repository *memoryRepository) GetComment(_ context.Context, id string) (*comment.Comment, error) {
	c, ok := repository.rows[id]
	if !ok {
		return nil, apperr.NotFound("Comment")
	}
	copied := *c
	copied.User = &auth.Summary{ID: c.UserID}
	return &copied, nil
}

func (repository *memoryRepository) CreateComment(_ context.Context, c *comment.Comment) error {
	repository.clock = repository.clock.Add(time.Minute)
	copied := *c
	copied.CreatedAt, copied.UpdatedAt = repository.clock, repository.clock
	repository.rows[c.ID] = &copied
	repository.order = append(repository.order, c.ID)
	return nil
}

func (repository *memoryRepository) UpdateComment(_ context.Context, c *comment.Comment) error {
	stored := repository.rows[c.ID]
	stored.Content, stored.IsEdited = c.Content, true
	c.IsEdited = true
	return nil
}

func (repository *memoryRepository) DeleteComment(_ context.Context, id string) error {
	delete(repository.rows, id)
	kept := repository.order[:0]
	for _, existing := range repository.order {
		c, ok := repository.rows[existing]
		if ok && (c.ParentID == nil || *c.ParentID != id) {
			kept = append(kept, existing)
		} else {
			delete(repository.rows, existing)
		}
	}
	repository.order = kept
	return nil
}

type staticNovels map[int]bool

func (novels staticNovels) Exists(_ context.Context, id int) (bool, error) {
	return novels[id], nil
}

// staticChapters maps chapter IDs to their novel.
type staticChapters map[int]int

func (chapters staticChapters) Locate(_ context.Context, chapterID int) (int, error) {
	novelID, ok := chapters[chapterID]
	if !ok {
		return 0, apperr.NotFound("Chapter")
	}
	return novelID, nil
}

func newService() (*comment.Service, *memoryRepository) {
	repo := newMemoryRepository()
	service := comment.NewService(repo, staticNovels{1: true}, staticChapters{10: 1},
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	return service, repo
}

func statusOf(err error) int {
	if ae := apperr.As(err); ae != nil {
		return ae.HTTPStatus
	}
	return 0
}

// # Tests

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	service, _ := newService()

	c, err := service.CreateNovelComment(ctx, "u1", 1, comment.Input{Content: "  First!  "})
	require.NoError(t, err)
	assert.Equal(t, "First!", c.Content)
	assert.Equal(t, 1, *c.NovelID)
	assert.Nil(t, c.ChapterID)
	assert.Len(t, c.ID, 36)

	c, err = service.CreateChapterComment(ctx, "u1", 10, comment.Input{Content: "Cliffhanger"})
	require.NoError(t, err)
	assert.Equal(t, 10, *c.ChapterID)
	assert.Nil(t, c.NovelID)

	_, err = service.CreateNovelComment(ctx, "u1", 2, comment.Input{Content: "hello"})
	assert.True(t, apperr.IsNotFound(err))

	_, err = service.CreateChapterComment(ctx, "u1", 11, comment.Input{Content: "hello"})
	assert.True(t, apperr.IsNotFound(err))

	for _, content := range []string{"   ", strings.Repeat("x", 5001)} {
		_, err = service.CreateNovelComment(ctx, "u1", 1, comment.Input{Content: content})
		assert.Equal(t, http.StatusBadRequest, statusOf(err))
	}
}

func TestService_Reply(t *testing.T) {
	ctx := context.Background()
	service, _ := newService()

	root, err := service.CreateChapterComment(ctx, "u1", 10, comment.Input{Content: "root"})
	require.NoError(t, err)

	reply, err := service.Reply(ctx, "u2", root.ID, comment.Input{Content: "agreed"})
	require.NoError(t, err)
	assert.Equal(t, root.ID, *reply.ParentID)
	assert.Equal(t, 10, *reply.ChapterID)
	assert.Nil(t, reply.NovelID)

	nested, err := service.Reply(ctx, "u3", reply.ID, comment.Input{Content: "me too"})
	require.NoError(t, err)
	assert.Equal(t, root.ID, *nested.ParentID)

	_, err = service.Reply(ctx, "u3", "0190a5b2-7c3d-7e4f-8a1b-00000000ffff", comment.Input{Content: "lost"})
	assert.True(t, apperr.IsNotFound(err))
}

func TestService_ListNovelComments(t *testing.T) {
	ctx := context.Background()
	service, _ := newService()

	first, err := service.CreateNovelComment(ctx, "u1", 1, comment.Input{Content: "first"})
	require.NoError(t, err)
	_, err = service.CreateNovelComment(ctx, "u2", 1, comment.Input{Content: "second"})
	require.NoError(t, err)
	_, err = service.Reply(ctx, "u3", first.ID, comment.Input{Content: "reply one"})
	require.NoError(t, err)
	_, err = service.Reply(ctx, "u4", first.ID, comment.Input{Content: "reply two"})
	require.NoError(t, err)

	comments, total, err := service.ListNovelComments(ctx, 1, comment.ListQuery{SortBy: "createdAt", SortOrder: "desc"}, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, comments, 2)
	assert.Equal(t, "second", comments[0].Content)
	require.Len(t, comments[1].Replies, 2)
	assert.Equal(t, "reply one", comments[1].Replies[0].Content)

	_, _, err = service.ListNovelComments(ctx, 1, comment.ListQuery{SortBy: "content"}, 20, 0)
	assert.Equal(t, http.StatusBadRequest, statusOf(err))

	_, _, err = service.ListChapterComments(ctx, 99, comment.ListQuery{}, 20, 0)
	assert.True(t, apperr.IsNotFound(err))
}

func TestService_UpdateComment(t *testing.T) {
	ctx := context.Background()
	service, _ := newService()

	c, err := service.CreateNovelComment(ctx, "u1", 1, comment.Input{Content: "typo"})
	require.NoError(t, err)

	_, err = service.UpdateComment(ctx, "u2", c.ID, comment.Input{Content: "hijack"})
	assert.Equal(t, http.StatusForbidden, statusOf(err))

	updated, err := service.UpdateComment(ctx, "u1", c.ID, comment.Input{Content: "fixed"})
	require.NoError(t, err)
	assert.Equal(t, "fixed", updated.Content)
	assert.True(t, updated.IsEdited)
}

func TestService_DeleteComment(t *testing.T) {
	ctx := context.Background()
	service, repo := newService()

	c, err := service.CreateNovelComment(ctx, "u1", 1, comment.Input{Content: "spoiler"})
	require.NoError(t, err)
	_, err = service.Reply(ctx, "u2", c.ID, comment.Input{Content: "reply"})
	require.NoError(t, err)

	err = service.DeleteComment(ctx, comment.Actor{UserID: "u2", Role: sec.RoleMember}, c.ID)
	assert.Equal(t, http.StatusForbidden, statusOf(err))

	require.NoError(t, service.DeleteComment(ctx, comment.Actor{UserID: "mod", Role: sec.RoleModerator}, c.ID))
	assert.Empty(t, repo.rows)

	own, err := service.CreateNovelComment(ctx, "u1", 1, comment.Input{Content: "mine"})
	require.NoError(t, err)
	require.NoError(t, service.DeleteComment(ctx, comment.Actor{UserID: "u1", Role: sec.RoleMember}, own.ID))
}

package comment

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nathanpasca/manov-sub001/internal/platform/middleware"
	requestutil "github.com/nathanpasca/manov-sub001/internal/platform/request"
	"github.com/nathanpasca/manov-sub001/internal/platform/respond"
	"github.com/nathanpasca/manov-sub001/internal/platform/sec"
	"github.com/nathanpasca/manov-sub001/pkg/pagination"
)

// Handler implements the comment endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new comment [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterNovelRoutes mounts /novels/{novelID}/comments.
func (handler *Handler) RegisterNovelRoutes(router chi.Router) {
	router.Get("/", handler.listNovelComments)
	router.With(middleware.RequireAuth).Post("/", handler.createNovelComment)
}

// RegisterChapterRoutes mounts /chapters/{chapterID}/comments.
func (handler *Handler) RegisterChapterRoutes(router chi.Router) {
	router.Get("/", handler.listChapterComments)
	router.With(middleware.RequireAuth).Post("/", handler.createChapterComment)
}

// RegisterRoutes mounts /comments.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)
		protected.Post("/{commentID}/replies", handler.reply)
		protected.Put("/{commentID}", handler.updateComment)
		protected.Delete("/{commentID}", handler.deleteComment)
	})
}

/*
GET /api/v1/novels/{novelID}/comments.

Request:
  - sortBy: createdAt (default) | updatedAt
  - sortOrder: asc | desc (default desc)
  - page, limit: int (limit ≤ 50)

Response:
  - 200: []Comment: Top-level comments, each with its replies oldest first
*/
func (handler *Handler) listNovelComments(writer http.ResponseWriter, request *http.Request) {
	novelID, err := requestutil.IntID(request, "novelID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.list(writer, request, func(q ListQuery, limit, offset int) ([]*Comment, int, error) {
		return handler.service.ListNovelComments(request.Context(), novelID, q, limit, offset)
	})
}

// GET /api/v1/chapters/{chapterID}/comments.
func (handler *Handler) listChapterComments(writer http.ResponseWriter, request *http.Request) {
	chapterID, err := requestutil.IntID(request, "chapterID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.list(writer, request, func(q ListQuery, limit, offset int) ([]*Comment, int, error) {
		return handler.service.ListChapterComments(request.Context(), chapterID, q, limit, offset)
	})
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request, load func(q ListQuery, limit, offset int) ([]*Comment, int, error)) {
	var q ListQuery
	if err := requestutil.DecodeQuery(request, &q); err != nil {
		respond.Error(writer, request, err)
		return
	}

	paginationParams := pagination.FromRequestMax(request, MaxPageSize)

	comments, total, err := load(q, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, comments, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

// POST /api/v1/novels/{novelID}/comments.
func (handler *Handler) createNovelComment(writer http.ResponseWriter, request *http.Request) {
	novelID, err := requestutil.IntID(request, "novelID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.create(writer, request, func(userID string, input Input) (*Comment, error) {
		return handler.service.CreateNovelComment(request.Context(), userID, novelID, input)
	})
}

// POST /api/v1/chapters/{chapterID}/comments.
func (handler *Handler) createChapterComment(writer http.ResponseWriter, request *http.Request) {
	chapterID, err := requestutil.IntID(request, "chapterID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.create(writer, request, func(userID string, input Input) (*Comment, error) {
		return handler.service.CreateChapterComment(request.Context(), userID, chapterID, input)
	})
}

/*
POST /api/v1/comments/{commentID}/replies.

Response:
  - 201: Comment
  - 404: Unknown parent comment
*/
func (handler *Handler) reply(writer http.ResponseWriter, request *http.Request) {
	parentID, err := requestutil.UUIDParam(request, "commentID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.create(writer, request, func(userID string, input Input) (*Comment, error) {
		return handler.service.Reply(request.Context(), userID, parentID, input)
	})
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request, save func(userID string, input Input) (*Comment, error)) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	c, err := save(userID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, c)
}

/*
PUT /api/v1/comments/{commentID}.

Response:
  - 200: Comment (is_edited = true)
  - 403: Not the author
*/
func (handler *Handler) updateComment(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	commentID, err := requestutil.UUIDParam(request, "commentID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	c, err := handler.service.UpdateComment(request.Context(), userID, commentID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, c)
}

/*
DELETE /api/v1/comments/{commentID}.

Description: Authors delete their own comments; moderators and admins any.
Replies are removed with their parent.
*/
func (handler *Handler) deleteComment(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	commentID, err := requestutil.UUIDParam(request, "commentID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	actor := Actor{UserID: claims.UserID, Role: sec.UserRole(claims.Role)}
	if err := handler.service.DeleteComment(request.Context(), actor, commentID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

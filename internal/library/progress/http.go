package progress

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nathanpasca/manov-sub001/internal/platform/middleware"
	requestutil "github.com/nathanpasca/manov-sub001/internal/platform/request"
	"github.com/nathanpasca/manov-sub001/internal/platform/respond"
	"github.com/nathanpasca/manov-sub001/pkg/pagination"
)

// Handler implements the reading progress endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new progress [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterNovelRoutes mounts /novels/{novelID}/progress.
func (handler *Handler) RegisterNovelRoutes(router chi.Router) {
	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)
		protected.Put("/", handler.saveProgress)
		protected.Get("/", handler.getProgress)
	})
}

// RegisterUserRoutes mounts /me/reading-progress under the /users router.
func (handler *Handler) RegisterUserRoutes(router chi.Router) {
	router.With(middleware.RequireAuth).Get("/me/reading-progress", handler.listProgress)
}

/*
PUT /api/v1/novels/{novelID}/progress.

Request:
  - body: {chapter_id, reading_position?, progress_percentage?}

Response:
  - 200: Progress
  - 400: Validation failure
  - 404: Unknown novel, or the chapter is not part of it
*/
func (handler *Handler) saveProgress(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	novelID, err := requestutil.IntID(request, "novelID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input SaveInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	p, err := handler.service.SaveProgress(request.Context(), userID, novelID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, p)
}

// GET /api/v1/novels/{novelID}/progress.
func (handler *Handler) getProgress(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	novelID, err := requestutil.IntID(request, "novelID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	p, err := handler.service.GetProgress(request.Context(), userID, novelID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, p)
}

// GET /api/v1/users/me/reading-progress.
func (handler *Handler) listProgress(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	paginationParams := pagination.FromRequest(request)

	entries, total, err := handler.service.ListProgress(request.Context(), userID, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, entries, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

package rating

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nathanpasca/manov-sub001/internal/platform/middleware"
	requestutil "github.com/nathanpasca/manov-sub001/internal/platform/request"
	"github.com/nathanpasca/manov-sub001/internal/platform/respond"
	"github.com/nathanpasca/manov-sub001/pkg/pagination"
)

// Handler implements the rating endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new rating [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterNovelRoutes mounts the endpoints under /novels/{novelID}/ratings.
func (handler *Handler) RegisterNovelRoutes(router chi.Router) {
	router.Get("/", handler.listRatings)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)
		protected.Post("/", handler.upsertRating)
		protected.Get("/me", handler.getMyRating)
		protected.Delete("/me", handler.deleteMyRating)
	})
}

/*
GET /api/v1/novels/{novelID}/ratings.

Description: Newest first. limit is capped at 50.
*/
func (handler *Handler) listRatings(writer http.ResponseWriter, request *http.Request) {
	novelID, err := requestutil.IntID(request, "novelID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	paginationParams := pagination.FromRequestMax(request, MaxPageSize)

	ratings, total, err := handler.service.ListRatings(request.Context(), novelID, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, ratings, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

/*
POST /api/v1/novels/{novelID}/ratings.

Response:
  - 201: Rating (created)
  - 200: Rating (replaced)
  - 400: Validation failure
  - 404: Unknown novel
*/
func (handler *Handler) upsertRating(writer http.ResponseWriter, request *http.Request) {
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

	var input UpsertInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	r, created, err := handler.service.UpsertRating(request.Context(), userID, novelID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if created {
		respond.Created(writer, r)
		return
	}
	respond.OK(writer, r)
}

// GET /api/v1/novels/{novelID}/ratings/me.
func (handler *Handler) getMyRating(writer http.ResponseWriter, request *http.Request) {
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

	r, err := handler.service.GetMyRating(request.Context(), userID, novelID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, r)
}

// DELETE /api/v1/novels/{novelID}/ratings/me.
func (handler *Handler) deleteMyRating(writer http.ResponseWriter, request *http.Request) {
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

	if err := handler.service.DeleteMyRating(request.Context(), userID, novelID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

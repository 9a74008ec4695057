package author

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nathanpasca/manov-sub001/internal/platform/middleware"
	requestutil "github.com/nathanpasca/manov-sub001/internal/platform/request"
	"github.com/nathanpasca/manov-sub001/internal/platform/respond"
	"github.com/nathanpasca/manov-sub001/internal/platform/sec"
	"github.com/nathanpasca/manov-sub001/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	// Public
	router.Get("/", handler.listAuthors)
	router.Get("/{authorID}", handler.getAuthor)

	// Admin only
	router.Group(func(adminRoute chi.Router) {
		adminRoute.Use(middleware.RequireRole(sec.RoleAdmin))

		adminRoute.Post("/", handler.createAuthor)
		adminRoute.Put("/{authorID}", handler.updateAuthor)
		adminRoute.Delete("/{authorID}", handler.deleteAuthor)
	})
}

/*
GET /api/v1/authors.

Description: Paginated author list ordered by name.

Request:
  - isActive: bool
  - q: string (matches name or romanized name)
*/
func (handler *Handler) listAuthors(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	var filter Filter
	if err := requestutil.DecodeQuery(request, &filter); err != nil {
		respond.Error(writer, request, err)
		return
	}

	authors, total, err := handler.service.ListAuthors(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, authors, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) getAuthor(writer http.ResponseWriter, request *http.Request) {
	authorID, err := requestutil.IntID(request, "authorID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	author, err := handler.service.GetAuthor(request.Context(), authorID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, author)
}

func (handler *Handler) createAuthor(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	author, err := handler.service.CreateAuthor(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, author)
}

func (handler *Handler) updateAuthor(writer http.ResponseWriter, request *http.Request) {
	authorID, err := requestutil.IntID(request, "authorID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	author, err := handler.service.UpdateAuthor(request.Context(), authorID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, author)
}

/*
DELETE /api/v1/authors/{authorID}.

Response:
  - 204: Deleted
  - 409: The author still has novels
*/
func (handler *Handler) deleteAuthor(writer http.ResponseWriter, request *http.Request) {
	authorID, err := requestutil.IntID(request, "authorID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteAuthor(request.Context(), authorID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

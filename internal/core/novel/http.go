package novel

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nathanpasca/manov-sub001/internal/platform/constants"
	"github.com/nathanpasca/manov-sub001/internal/platform/middleware"
	requestutil "github.com/nathanpasca/manov-sub001/internal/platform/request"
	"github.com/nathanpasca/manov-sub001/internal/platform/respond"
	"github.com/nathanpasca/manov-sub001/internal/platform/sec"
	"github.com/nathanpasca/manov-sub001/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for the novel catalogue.
type Handler struct {
	service *Service
}

// NewHandler constructs a new novel [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the novel and novel-translation endpoints.
//
// Chapter, rating, comment, favorite and progress routes nest under
// /novels/{novelID} as well and are mounted by their own packages.
func (handler *Handler) RegisterRoutes(router chi.Router) {

	// ## Public Discovery
	router.Get("/", handler.listNovels)
	router.Get("/{novelID}", handler.getNovel)
	router.Get("/{novelID}/translations", handler.listTranslations)
	router.Get("/{novelID}/translations/{languageCode}", handler.getTranslation)

	// ## Content Management (Admin Protected)
	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireRole(sec.RoleAdmin))

		admin.Post("/", handler.createNovel)
		admin.Put("/{novelID}", handler.updateNovel)
		admin.Delete("/{novelID}", handler.deleteNovel)

		admin.Post("/{novelID}/translations", handler.createTranslation)
		admin.Put("/{novelID}/translations/{languageCode}", handler.updateTranslation)
		admin.Delete("/{novelID}/translations/{languageCode}", handler.deleteTranslation)
	})
}

// # Novel Endpoints

/*
GET /api/v1/novels.

Description: Paginated catalogue listing.

Request:
  - isActive: bool
  - publicationStatus: ONGOING | COMPLETED | HIATUS | DROPPED
  - originalLanguage: string
  - genre: string (exact tag)
  - authorId: int
  - sortBy: updatedAt (default) | createdAt | title | viewCount | favoriteCount | averageRating | firstPublishedAt
  - sortOrder: asc | desc (default desc)
  - lang: string (localizes title and synopsis)
  - page, limit: int

Response:
  - 200: []Novel
  - 400: Invalid filter or sort key
*/
func (handler *Handler) listNovels(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	var filter Filter
	if err := requestutil.DecodeQuery(request, &filter); err != nil {
		respond.Error(writer, request, err)
		return
	}

	novels, total, err := handler.service.ListNovels(request.Context(), filter, requestutil.Language(request), paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, novels, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

/*
GET /api/v1/novels/{novelID}.

Description: Fetches a novel by numeric ID or slug. With ?lang= the title and
synopsis come from the best matching translation and the response carries a
"localization" block; Content-Language names the language served.
*/
func (handler *Handler) getNovel(writer http.ResponseWriter, request *http.Request) {
	n, err := handler.service.GetNovel(request.Context(), requestutil.Param(request, "novelID"), requestutil.Language(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if n.Localization != nil {
		writer.Header().Set(constants.HeaderContentLang, n.Localization.Resolved)
	}
	respond.OK(writer, n)
}

/*
POST /api/v1/novels.

Response:
  - 201: Novel
  - 400: Validation failure, including an unknown author_id
*/
func (handler *Handler) createNovel(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	n, err := handler.service.CreateNovel(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, n)
}

func (handler *Handler) updateNovel(writer http.ResponseWriter, request *http.Request) {
	novelID, err := requestutil.IntID(request, "novelID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	n, err := handler.service.UpdateNovel(request.Context(), novelID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, n)
}

/*
DELETE /api/v1/novels/{novelID}.

Description: Hard delete. Chapters, translations, ratings, comments,
favorites and reading progress are removed with the novel.
*/
func (handler *Handler) deleteNovel(writer http.ResponseWriter, request *http.Request) {
	novelID, err := requestutil.IntID(request, "novelID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteNovel(request.Context(), novelID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

package chapter

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nathanpasca/manov-sub001/internal/platform/constants"
	"github.com/nathanpasca/manov-sub001/internal/platform/middleware"
	requestutil "github.com/nathanpasca/manov-sub001/internal/platform/request"
	"github.com/nathanpasca/manov-sub001/internal/platform/respond"
	"github.com/nathanpasca/manov-sub001/internal/platform/sec"
	"github.com/nathanpasca/manov-sub001/internal/platform/validate"
	"github.com/nathanpasca/manov-sub001/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for chapters.
type Handler struct {
	service *Service
}

// NewHandler constructs a new chapter [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterNovelRoutes mounts the chapter endpoints nested under /novels/{novelID}/chapters.
func (handler *Handler) RegisterNovelRoutes(router chi.Router) {
	router.Get("/", handler.listChapters)
	router.Get("/{chapterNumber}", handler.getChapterByNumber)

	router.With(middleware.RequireRole(sec.RoleAdmin)).Post("/", handler.createChapter)
}

// RegisterRoutes mounts the endpoints addressed by chapter ID under /chapters.
func (handler *Handler) RegisterRoutes(router chi.Router) {

	// ## Public Reading
	router.Get("/{chapterID}", handler.getChapter)
	router.Get("/{chapterID}/translations", handler.listTranslations)
	router.Get("/{chapterID}/translations/{languageCode}", handler.getTranslation)

	// ## Content Management (Admin Protected)
	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireRole(sec.RoleAdmin))

		admin.Put("/{chapterID}", handler.updateChapter)
		admin.Delete("/{chapterID}", handler.deleteChapter)

		admin.Post("/{chapterID}/translations", handler.createTranslation)
		admin.Put("/{chapterID}/translations/{languageCode}", handler.updateTranslation)
		admin.Delete("/{chapterID}/translations/{languageCode}", handler.deleteTranslation)
	})
}

// # Chapter Endpoints

/*
GET /api/v1/novels/{novelID}/chapters.

Description: Table of contents of a novel. Rows omit content.

Request:
  - isPublished: bool
  - sortBy: chapterNumber (default) | publishedAt | title | wordCount | createdAt | updatedAt
  - sortOrder: asc (default) | desc
  - lang: string (localizes titles)
  - page, limit: int

Response:
  - 200: []Chapter
  - 404: Unknown novel
*/
func (handler *Handler) listChapters(writer http.ResponseWriter, request *http.Request) {
	novelID, err := requestutil.IntID(request, "novelID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	paginationParams := pagination.FromRequest(request)

	var filter Filter
	if err := requestutil.DecodeQuery(request, &filter); err != nil {
		respond.Error(writer, request, err)
		return
	}

	chapters, total, err := handler.service.ListChapters(request.Context(), novelID, filter, requestutil.Language(request), paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, chapters, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

/*
GET /api/v1/novels/{novelID}/chapters/{chapterNumber}.

Description: Reads a chapter by its number within the novel ("12" or "12.5").
*/
func (handler *Handler) getChapterByNumber(writer http.ResponseWriter, request *http.Request) {
	novelID, err := requestutil.IntID(request, "novelID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	number, err := chapterNumber(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	c, err := handler.service.GetChapterByNumber(request.Context(), novelID, number, requestutil.Language(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	writeChapter(writer, c)
}

func (handler *Handler) getChapter(writer http.ResponseWriter, request *http.Request) {
	chapterID, err := requestutil.IntID(request, "chapterID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	c, err := handler.service.GetChapter(request.Context(), chapterID, requestutil.Language(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	writeChapter(writer, c)
}

/*
POST /api/v1/novels/{novelID}/chapters.

Response:
  - 201: Chapter
  - 400: Validation failure
  - 404: Unknown novel
  - 409: The chapter number is already used in this novel
*/
func (handler *Handler) createChapter(writer http.ResponseWriter, request *http.Request) {
	novelID, err := requestutil.IntID(request, "novelID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	c, err := handler.service.CreateChapter(request.Context(), novelID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, c)
}

func (handler *Handler) updateChapter(writer http.ResponseWriter, request *http.Request) {
	chapterID, err := requestutil.IntID(request, "chapterID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	c, err := handler.service.UpdateChapter(request.Context(), chapterID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, c)
}

func (handler *Handler) deleteChapter(writer http.ResponseWriter, request *http.Request) {
	chapterID, err := requestutil.IntID(request, "chapterID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteChapter(request.Context(), chapterID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Helpers

func chapterNumber(request *http.Request) (float64, error) {
	raw := strings.TrimSpace(requestutil.Param(request, "chapterNumber"))
	number, err := strconv.ParseFloat(raw, 64)
	if err != nil || number < 0 {
		return 0, validate.RequiredError("chapterNumber", "Must be a non-negative number")
	}
	return number, nil
}

func writeChapter(writer http.ResponseWriter, c *Chapter) {
	if c.Localization != nil {
		writer.Header().Set(constants.HeaderContentLang, c.Localization.Resolved)
	}
	respond.OK(writer, c)
}

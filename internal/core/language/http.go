package language

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nathanpasca/manov-sub001/internal/platform/middleware"
	requestutil "github.com/nathanpasca/manov-sub001/internal/platform/request"
	"github.com/nathanpasca/manov-sub001/internal/platform/respond"
	"github.com/nathanpasca/manov-sub001/internal/platform/sec"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listLanguages)
	router.Get("/{languageID}", handler.getLanguage)

	router.Group(func(adminRoute chi.Router) {
		adminRoute.Use(middleware.RequireRole(sec.RoleAdmin))

		adminRoute.Post("/", handler.createLanguage)
		adminRoute.Put("/{languageID}", handler.updateLanguage)
		adminRoute.Delete("/{languageID}", handler.deleteLanguage)
	})
}

/*
GET /api/v1/languages.

Description: Lists languages ordered by name. Supports ?isActive=true|false.
*/
func (handler *Handler) listLanguages(writer http.ResponseWriter, request *http.Request) {
	var filter Filter
	if err := requestutil.DecodeQuery(request, &filter); err != nil {
		respond.Error(writer, request, err)
		return
	}

	langs, err := handler.service.ListLanguages(request.Context(), filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, langs)
}

/*
GET /api/v1/languages/{languageID}.

Description: Fetches a language by numeric ID or by code.
*/
func (handler *Handler) getLanguage(writer http.ResponseWriter, request *http.Request) {
	lang, err := handler.service.GetLanguage(request.Context(), requestutil.Param(request, "languageID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, lang)
}

func (handler *Handler) createLanguage(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	lang, err := handler.service.CreateLanguage(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, lang)
}

func (handler *Handler) updateLanguage(writer http.ResponseWriter, request *http.Request) {
	languageID, err := requestutil.IntID(request, "languageID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	lang, err := handler.service.UpdateLanguage(request.Context(), languageID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, lang)
}

/*
DELETE /api/v1/languages/{languageID}.

Response:
  - 204: Deleted
  - 409: Conflict: translations still reference the language
*/
func (handler *Handler) deleteLanguage(writer http.ResponseWriter, request *http.Request) {
	languageID, err := requestutil.IntID(request, "languageID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteLanguage(request.Context(), languageID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

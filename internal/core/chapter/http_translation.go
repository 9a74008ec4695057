package chapter

import (
	"net/http"

	requestutil "github.com/nathanpasca/manov-sub001/internal/platform/request"
	"github.com/nathanpasca/manov-sub001/internal/platform/respond"
)

// # Translation Endpoints

func (handler *Handler) listTranslations(writer http.ResponseWriter, request *http.Request) {
	chapterID, err := requestutil.IntID(request, "chapterID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	translations, err := handler.service.ListTranslations(request.Context(), chapterID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, translations)
}

func (handler *Handler) getTranslation(writer http.ResponseWriter, request *http.Request) {
	chapterID, err := requestutil.IntID(request, "chapterID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	t, err := handler.service.GetTranslation(request.Context(), chapterID, requestutil.Param(request, "languageCode"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, t)
}

/*
POST /api/v1/chapters/{chapterID}/translations.

Response:
  - 201: Translation
  - 400: Validation failure or inactive language
  - 404: Unknown chapter
  - 409: The chapter already has a translation for this language
*/
func (handler *Handler) createTranslation(writer http.ResponseWriter, request *http.Request) {
	chapterID, err := requestutil.IntID(request, "chapterID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input TranslationInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	t, err := handler.service.CreateTranslation(request.Context(), chapterID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, t)
}

func (handler *Handler) updateTranslation(writer http.ResponseWriter, request *http.Request) {
	chapterID, err := requestutil.IntID(request, "chapterID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input TranslationUpdate
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	t, err := handler.service.UpdateTranslation(request.Context(), chapterID, requestutil.Param(request, "languageCode"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, t)
}

func (handler *Handler) deleteTranslation(writer http.ResponseWriter, request *http.Request) {
	chapterID, err := requestutil.IntID(request, "chapterID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteTranslation(request.Context(), chapterID, requestutil.Param(request, "languageCode")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

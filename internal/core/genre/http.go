package genre

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/nathanpasca/manov-sub001/internal/platform/request"
	"github.com/nathanpasca/manov-sub001/internal/platform/respond"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listGenres)
	router.Get("/{genre}", handler.getGenre)
}

/*
GET /api/v1/genres.

Description: Distinct genre tags over active novels, most used first. The
name is what GET /novels?genre= expects.
*/
func (handler *Handler) listGenres(writer http.ResponseWriter, request *http.Request) {
	genres, err := handler.service.ListGenres(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, genres)
}

func (handler *Handler) getGenre(writer http.ResponseWriter, request *http.Request) {
	g, err := handler.service.GetGenre(request.Context(), requestutil.Param(request, "genre"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, g)
}

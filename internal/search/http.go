package search

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/nathanpasca/manov-sub001/internal/platform/request"
	"github.com/nathanpasca/manov-sub001/internal/platform/respond"
	"github.com/nathanpasca/manov-sub001/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.search)
}

/* GET /api/v1/search?q=&type=novels|authors */
func (handler *Handler) search(writer http.ResponseWriter, request *http.Request) {
	var query Query
	if err := requestutil.DecodeQuery(request, &query); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.Search(request.Context(), query, requestutil.Language(request), pagination.FromRequestMax(request, MaxPageSize))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

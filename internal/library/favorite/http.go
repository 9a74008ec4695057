package favorite

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nathanpasca/manov-sub001/internal/platform/middleware"
	requestutil "github.com/nathanpasca/manov-sub001/internal/platform/request"
	"github.com/nathanpasca/manov-sub001/internal/platform/respond"
	"github.com/nathanpasca/manov-sub001/pkg/pagination"
)

// Handler implements the favorite endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new favorite [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterNovelRoutes mounts /novels/{novelID}/favorite.
func (handler *Handler) RegisterNovelRoutes(router chi.Router) {
	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)
		protected.Post("/", handler.addFavorite)
		protected.Delete("/", handler.removeFavorite)
	})
}

// RegisterUserRoutes mounts /me/favorites under the /users router.
func (handler *Handler) RegisterUserRoutes(router chi.Router) {
	router.With(middleware.RequireAuth).Get("/me/favorites", handler.listFavorites)
}

/*
POST /api/v1/novels/{novelID}/favorite.

Response:
  - 201: Favorite
  - 404: Unknown novel
  - 409: Already a favorite
*/
func (handler *Handler) addFavorite(writer http.ResponseWriter, request *http.Request) {
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

	f, err := handler.service.AddFavorite(request.Context(), userID, novelID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, f)
}

// DELETE /api/v1/novels/{novelID}/favorite.
func (handler *Handler) removeFavorite(writer http.ResponseWriter, request *http.Request) {
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

	if err := handler.service.RemoveFavorite(request.Context(), userID, novelID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// GET /api/v1/users/me/favorites.
func (handler *Handler) listFavorites(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	paginationParams := pagination.FromRequest(request)

	favorites, total, err := handler.service.ListFavorites(request.Context(), userID, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, favorites, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

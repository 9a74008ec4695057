package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nathanpasca/manov-sub001/internal/platform/middleware"
	requestutil "github.com/nathanpasca/manov-sub001/internal/platform/request"
	"github.com/nathanpasca/manov-sub001/internal/platform/respond"
	"github.com/nathanpasca/manov-sub001/internal/platform/sec"
	"github.com/nathanpasca/manov-sub001/pkg/pagination"
)

// Handler implements the /admin/users endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new admin [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the user administration endpoints. Every route
// requires the admin role.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireRole(sec.RoleAdmin))
		admin.Get("/", handler.listUsers)
		admin.Get("/{userID}", handler.getUser)
		admin.Put("/{userID}", handler.updateUser)
		admin.Delete("/{userID}", handler.deactivateUser)
	})
}

/*
GET /api/v1/admin/users.

Request:
  - isActive: bool
  - role: admin | moderator | member
  - q: string (username, email or display name fragment)
  - sortBy: createdAt (default) | username | email | lastLoginAt | displayName
  - sortOrder: asc | desc (default desc)
  - page, limit: int (limit ≤ 100)
*/
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	var filter Filter
	if err := requestutil.DecodeQuery(request, &filter); err != nil {
		respond.Error(writer, request, err)
		return
	}

	users, total, err := handler.service.ListUsers(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

// GET /api/v1/admin/users/{userID}.
func (handler *Handler) getUser(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.UUIDParam(request, "userID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.GetUser(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
PUT /api/v1/admin/users/{userID}.

Response:
  - 200: User
  - 400: No fields or validation failures
  - 403: Self deactivation or self role change
  - 404: Unknown user
  - 409: Email already registered
*/
func (handler *Handler) updateUser(writer http.ResponseWriter, request *http.Request) {
	actorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	userID, err := requestutil.UUIDParam(request, "userID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateUserInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.UpdateUser(request.Context(), actorID, userID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
DELETE /api/v1/admin/users/{userID}.

Description: Soft deactivation. The row stays; is_active becomes false.
*/
func (handler *Handler) deactivateUser(writer http.ResponseWriter, request *http.Request) {
	actorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	userID, err := requestutil.UUIDParam(request, "userID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeactivateUser(request.Context(), actorID, userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{"message": "User deactivated"})
}

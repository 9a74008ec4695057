package rating_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathanpasca/manov-sub001/internal/platform/ctxutil"
	"github.com/nathanpasca/manov-sub001/internal/platform/sec"
	"github.com/nathanpasca/manov-sub001/internal/social/rating"
)

// newRouter mounts the rating routes the way the API server does and signs
// every request in as userID when it is non-empty.
func newRouter(userID string) http.Handler {
	service, _, _ := newService()
	handler := rating.NewHandler(service)

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if userID != "" {
				claims := &sec.AuthClaims{UserID: userID, Username: "reader", Role: string(sec.RoleMember)}
				request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
			}
			next.ServeHTTP(writer, request)
		})
	})
	router.Route("/novels/{novelID}/ratings", handler.RegisterNovelRoutes)
	return router
}

func serve(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var request *http.Request
	if body == "" {
		request = httptest.NewRequest(method, target, nil)
	} else {
		request = httptest.NewRequest(method, target, strings.NewReader(body))
		request.Header.Set("Content-Type", "application/json")
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func TestHandler_UpsertRating(t *testing.T) {
	router := newRouter("u1")

	rec := serve(router, http.MethodPost, "/novels/1/ratings", `{"rating": 4, "review_text": "Great pacing"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Data rating.Rating `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, 4, created.Data.Rating)
	assert.Equal(t, "u1", created.Data.UserID)

	rec = serve(router, http.MethodPost, "/novels/1/ratings", `{"rating": 2}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var replaced struct {
		Data rating.Rating `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &replaced))
	assert.Equal(t, 2, replaced.Data.Rating)
	assert.Equal(t, created.Data.ID, replaced.Data.ID)

	t.Run("rejects out of range scores", func(t *testing.T) {
		rec := serve(router, http.MethodPost, "/novels/1/ratings", `{"rating": 9}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects malformed bodies", func(t *testing.T) {
		rec := serve(router, http.MethodPost, "/novels/1/ratings", `{"rating":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown novel", func(t *testing.T) {
		rec := serve(router, http.MethodPost, "/novels/99/ratings", `{"rating": 3}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandler_DeleteMyRating(t *testing.T) {
	router := newRouter("u1")

	rec := serve(router, http.MethodPost, "/novels/1/ratings", `{"rating": 5}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = serve(router, http.MethodDelete, "/novels/1/ratings/me", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = serve(router, http.MethodGet, "/novels/1/ratings/me", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(router, http.MethodDelete, "/novels/1/ratings/me", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_RequiresAuthentication(t *testing.T) {
	router := newRouter("")

	rec := serve(router, http.MethodPost, "/novels/1/ratings", `{"rating": 4}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(router, http.MethodDelete, "/novels/1/ratings/me", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(router, http.MethodGet, "/novels/1/ratings", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

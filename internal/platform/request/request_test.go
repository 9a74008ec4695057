package requestutil_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathanpasca/manov-sub001/internal/platform/apperr"
	requestutil "github.com/nathanpasca/manov-sub001/internal/platform/request"
)

type listQuery struct {
	IsActive  *bool  `query:"isActive"`
	Genre     string `query:"genre"`
	AuthorID  int    `query:"authorId"`
	SortBy    string `query:"sortBy" default:"updatedAt"`
	SortOrder string `query:"sortOrder" default:"desc"`
}

func TestDecodeQuery(t *testing.T) {
	t.Run("binds and applies defaults", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/novels?isActive=false&genre=fantasy&authorId=7&page=2", nil)

		var q listQuery
		require.NoError(t, requestutil.DecodeQuery(request, &q))

		require.NotNil(t, q.IsActive)
		assert.False(t, *q.IsActive)
		assert.Equal(t, "fantasy", q.Genre)
		assert.Equal(t, 7, q.AuthorID)
		assert.Equal(t, "updatedAt", q.SortBy)
		assert.Equal(t, "desc", q.SortOrder)
	})

	t.Run("explicit values win over defaults", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/novels?sortBy=title&sortOrder=asc", nil)

		var q listQuery
		require.NoError(t, requestutil.DecodeQuery(request, &q))
		assert.Equal(t, "title", q.SortBy)
		assert.Equal(t, "asc", q.SortOrder)
		assert.Nil(t, q.IsActive)
	})

	t.Run("conversion failures are validation errors", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/novels?isActive=maybe", nil)

		var q listQuery
		err := requestutil.DecodeQuery(request, &q)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
		require.Len(t, ae.Details, 1)
		assert.Equal(t, "isActive", ae.Details[0].Field)
	})
}

func TestDecodeJSON(t *testing.T) {
	var payload struct {
		Title string `json:"title"`
	}

	request := httptest.NewRequest(http.MethodPost, "/novels", strings.NewReader(`{"title":"Omniscient Reader"}`))
	require.NoError(t, requestutil.DecodeJSON(request, &payload))
	assert.Equal(t, "Omniscient Reader", payload.Title)

	request = httptest.NewRequest(http.MethodPost, "/novels", strings.NewReader(`{"title":`))
	assert.Error(t, requestutil.DecodeJSON(request, &payload))
}

func withParam(request *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return request.WithContext(context.WithValue(request.Context(), chi.RouteCtxKey, routeCtx))
}

func TestIntID(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)

	id, err := requestutil.IntID(withParam(request, "novelID", "42"), "novelID")
	require.NoError(t, err)
	assert.Equal(t, 42, id)

	for _, raw := range []string{"0", "-3", "abc", ""} {
		_, err := requestutil.IntID(withParam(request, "novelID", raw), "novelID")
		assert.Error(t, err, raw)
	}
}

func TestUUIDParam(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)

	id, err := requestutil.UUIDParam(withParam(request, "commentID", "0190A5B2-7C3D-7E4F-8A1B-2C3D4E5F6A7B"), "commentID")
	require.NoError(t, err)
	assert.Equal(t, "0190a5b2-7c3d-7e4f-8a1b-2c3d4e5f6a7b", id)

	_, err = requestutil.UUIDParam(withParam(request, "commentID", "nope"), "commentID")
	assert.Error(t, err)
}

package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathanpasca/manov-sub001/internal/platform/ctxutil"
	"github.com/nathanpasca/manov-sub001/internal/platform/middleware"
	"github.com/nathanpasca/manov-sub001/internal/platform/sec"
)

type stubVerifier struct {
	claims *sec.AuthClaims
}

func (verifier stubVerifier) VerifyToken(token string) (*sec.AuthClaims, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return verifier.claims, nil
}

type stubPolicy map[string]bool

func (policy stubPolicy) IsAllowedOrigin(origin string) bool { return policy[origin] }

var okHandler = http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
	writer.WriteHeader(http.StatusOK)
})

func serve(handler http.Handler, request *http.Request) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

/*
TestAuthenticate covers anonymous, malformed and valid bearer headers.
*/
func TestAuthenticate(t *testing.T) {
	claims := &sec.AuthClaims{UserID: "u-1", Role: string(sec.RoleMember)}
	var seen *sec.AuthClaims
	handler := middleware.Authenticate(stubVerifier{claims: claims})(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetAuthUser(request.Context())
	}))

	tests := []struct {
		name   string
		header string
		status int
		authed bool
	}{
		{"anonymous", "", http.StatusOK, false},
		{"malformed", "Token abc", http.StatusUnauthorized, false},
		{"invalid", "Bearer nope", http.StatusUnauthorized, false},
		{"valid", "Bearer good", http.StatusOK, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}
			recorder := serve(handler, request)
			assert.Equal(t, tt.status, recorder.Code)
			assert.Equal(t, tt.authed, seen != nil)
		})
	}
}

/*
TestRequireRole enforces the role hierarchy.
*/
func TestRequireRole(t *testing.T) {
	handler := middleware.RequireRole(sec.RoleAdmin)(okHandler)

	request := httptest.NewRequest(http.MethodDelete, "/", nil)
	assert.Equal(t, http.StatusUnauthorized, serve(handler, request).Code)

	member := request.WithContext(ctxutil.WithAuthUser(request.Context(), &sec.AuthClaims{Role: "member"}))
	assert.Equal(t, http.StatusForbidden, serve(handler, member).Code)

	admin := request.WithContext(ctxutil.WithAuthUser(request.Context(), &sec.AuthClaims{Role: "admin"}))
	assert.Equal(t, http.StatusOK, serve(handler, admin).Code)
}

/*
TestRateLimiter returns 429 with Retry-After once the burst is spent.
*/
func TestRateLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := middleware.NewRateLimiter(1, 2).Middleware(ctx)(okHandler)
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "203.0.113.7:5555"

	assert.Equal(t, http.StatusOK, serve(handler, request).Code)
	assert.Equal(t, http.StatusOK, serve(handler, request).Code)

	limited := serve(handler, request)
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.NotEmpty(t, limited.Header().Get("Retry-After"))

	other := httptest.NewRequest(http.MethodGet, "/", nil)
	other.RemoteAddr = "198.51.100.1:5555"
	assert.Equal(t, http.StatusOK, serve(handler, other).Code)
}

/*
TestCORS only echoes allowed origins and short-circuits preflight.
*/
func TestCORS(t *testing.T) {
	handler := middleware.CORS(stubPolicy{"https://manov.app": true})(okHandler)

	allowed := httptest.NewRequest(http.MethodGet, "/", nil)
	allowed.Header.Set("Origin", "https://manov.app")
	recorder := serve(handler, allowed)
	assert.Equal(t, "https://manov.app", recorder.Header().Get("Access-Control-Allow-Origin"))

	denied := httptest.NewRequest(http.MethodGet, "/", nil)
	denied.Header.Set("Origin", "https://evil.example")
	assert.Empty(t, serve(handler, denied).Header().Get("Access-Control-Allow-Origin"))

	preflight := httptest.NewRequest(http.MethodOptions, "/", nil)
	preflight.Header.Set("Origin", "https://manov.app")
	assert.Equal(t, http.StatusNoContent, serve(handler, preflight).Code)
}

/*
TestContentLanguage validates and normalises ?lang.
*/
func TestContentLanguage(t *testing.T) {
	var got string
	handler := middleware.ContentLanguage(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		got = ctxutil.GetLanguage(request.Context())
	}))

	tests := []struct {
		query  string
		status int
		want   string
	}{
		{"", http.StatusOK, ""},
		{"?lang=EN", http.StatusOK, "en"},
		{"?lang=pt_BR", http.StatusOK, "pt-br"},
		{"?lang=x", http.StatusBadRequest, ""},
		{"?lang=english-language", http.StatusBadRequest, ""},
		{"?lang=zh-Hant-TW", http.StatusOK, "zh-hant-tw"},
		{"?lang=sr-Latn-RS", http.StatusOK, "sr-latn-rs"},
		{"?lang=de-CH-1901", http.StatusOK, "de-ch-1901"},
		{"?lang=en%20us", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got = ""
			recorder := serve(handler, httptest.NewRequest(http.MethodGet, "/novels"+tt.query, nil))
			require.Equal(t, tt.status, recorder.Code)
			assert.Equal(t, tt.want, got)
		})
	}
}

/*
TestRealIP prefers proxy headers over the socket address.
*/
func TestRealIP(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "10.0.0.1:1234"
	assert.Equal(t, "10.0.0.1", middleware.RealIP(request))

	request.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", middleware.RealIP(request))

	request.Header.Set("X-Real-IP", "198.51.100.4")
	assert.Equal(t, "198.51.100.4", middleware.RealIP(request))
}

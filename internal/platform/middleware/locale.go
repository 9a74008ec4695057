package middleware

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/nathanpasca/manov-sub001/internal/platform/apperr"
	"github.com/nathanpasca/manov-sub001/internal/platform/constants"
	"github.com/nathanpasca/manov-sub001/internal/platform/ctxutil"
	"github.com/nathanpasca/manov-sub001/internal/platform/respond"
)

var languageCodeRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{2,10}$`)

// ContentLanguage reads the ?lang= query parameter, validates it and stores
// the lower-cased code in the request context. Requests without the parameter
// are served in the original language.
func ContentLanguage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		raw := strings.TrimSpace(request.URL.Query().Get(constants.QueryLang))
		if raw == "" {
			next.ServeHTTP(writer, request)
			return
		}

		if !languageCodeRegex.MatchString(raw) {
			respond.Error(writer, request, apperr.ValidationError("Validation failed", apperr.FieldError{
				Field:   constants.QueryLang,
				Message: "Language code must be 2-10 characters long",
			}))
			return
		}

		code := strings.ToLower(strings.ReplaceAll(raw, "_", "-"))
		ctx := ctxutil.WithLanguage(request.Context(), code)
		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

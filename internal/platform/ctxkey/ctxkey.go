// Package ctxkey defines typed context keys used by middleware and handlers.
package ctxkey

// key is unexported so values set here cannot collide with other packages.
type key string

const (
	// KeyRequestID is the context key for the X-Request-ID correlation value.
	KeyRequestID key = "request_id"

	// KeyUser is the context key for the authenticated user claim ([sec.AuthClaims]).
	KeyUser key = "user"

	// KeyLogger is the context key for the per-request [*log/slog.Logger].
	KeyLogger key = "logger"

	// KeyLanguage is the context key for the requested content language (?lang=).
	KeyLanguage key = "language"
)

package auth

import "time"

// # Authentication Constraints

const (
	// AccessTokenTTL is the lifetime of a JWT access token.
	AccessTokenTTL = 15 * time.Minute

	// RefreshTokenTTL is the lifetime of a refresh session.
	RefreshTokenTTL = 30 * 24 * time.Hour

	// RefreshTokenLength is the byte length of the random refresh token.
	RefreshTokenLength = 32

	// DefaultPreferredLanguage is assigned when registration omits one.
	DefaultPreferredLanguage = "en"
)

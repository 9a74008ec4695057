/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body and query-string decoding, ensuring consistent error handling and
type safety.
*/
package requestutil

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/schema"
	"github.com/segmentio/encoding/json"

	"github.com/nathanpasca/manov-sub001/internal/platform/apperr"
	"github.com/nathanpasca/manov-sub001/internal/platform/ctxutil"
	"github.com/nathanpasca/manov-sub001/internal/platform/sec"
	"github.com/nathanpasca/manov-sub001/internal/platform/validate"
)

// maxBodyBytes caps JSON request bodies; chapter content is the largest payload.
const maxBodyBytes = 4 << 20

// queryDecoder binds query strings to structs tagged with `query:"name"`.
var queryDecoder = newQueryDecoder()

func newQueryDecoder() *schema.Decoder {
	decoder := schema.NewDecoder()
	decoder.SetAliasTag("query")
	decoder.IgnoreUnknownKeys(true)
	return decoder
}

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	body := http.MaxBytesReader(nil, request.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
DecodeQuery binds the query string to target and then applies `default:"..."`
struct tags to fields left empty.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to a struct tagged with `query` and `default`)

Returns:
  - error: apperr.ValidationError listing every parameter that failed to convert
*/
func DecodeQuery(request *http.Request, target interface{}) error {
	if err := queryDecoder.Decode(target, request.URL.Query()); err != nil {
		return queryError(err)
	}

	if err := defaults.Set(target); err != nil {
		return apperr.Internal(fmt.Errorf("requestutil: apply query defaults: %w", err))
	}

	return nil
}

// queryError converts gorilla/schema failures into field-level details.
func queryError(err error) error {
	var details []apperr.FieldError

	var multi schema.MultiError
	if errors.As(err, &multi) {
		for key, fieldErr := range multi {
			details = append(details, queryFieldError(key, fieldErr))
		}
	} else {
		details = append(details, queryFieldError("query", err))
	}

	return apperr.ValidationError("Invalid query parameters", details...)
}

func queryFieldError(key string, err error) apperr.FieldError {
	var conversion schema.ConversionError
	if errors.As(err, &conversion) {
		return apperr.FieldError{Field: conversion.Key, Message: fmt.Sprintf("Must be a valid %s", conversion.Type)}
	}
	return apperr.FieldError{Field: key, Message: "Invalid value"}
}

/*
ID retrieves a named URL parameter (UUID/Slug) from the request.
*/
func ID(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
IntID retrieves a positive integer URL parameter.

Returns:
  - int: The parsed identifier
  - error: apperr.ValidationError when the segment is not a positive integer
*/
func IntID(request *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(chi.URLParam(request, name))
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, validate.RequiredError(name, "Must be a positive integer")
	}
	return id, nil
}

/*
UUIDParam retrieves a URL parameter that must be a UUID.
*/
func UUIDParam(request *http.Request, name string) (string, error) {
	raw := strings.TrimSpace(chi.URLParam(request, name))
	if err := (&validate.Validator{}).UUID(name, raw).Err(); err != nil {
		return "", err
	}
	return strings.ToLower(raw), nil
}

/*
Language returns the validated ?lang= value stored by the ContentLanguage middleware.
*/
func Language(request *http.Request) string {
	return ctxutil.GetLanguage(request.Context())
}

/*
Claims extracts the authenticated user claims from the request context.

Returns nil if the request is not authenticated.
*/
func Claims(request *http.Request) *sec.AuthClaims {
	return ctxutil.GetAuthUser(request.Context())
}

/*
RequiredClaims ensures the request is authenticated and returns the user claims.

Returns:
  - *sec.AuthClaims: The authenticated user claims
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredClaims(request *http.Request) (*sec.AuthClaims, error) {
	claims := ctxutil.GetAuthUser(request.Context())
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return claims, nil
}

/*
RequiredUserID returns the User ID of the currently logged-in user.

Returns:
  - string: User UUID
  - error: apperr.Unauthorized if not authenticated
*/
func RequiredUserID(request *http.Request) (string, error) {
	claims, err := RequiredClaims(request)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

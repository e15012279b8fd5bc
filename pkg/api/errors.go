package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorKind categorizes an API error. Each kind maps to exactly one
// HTTP status code.
type ErrorKind string

const (
	KindNotFound               ErrorKind = "not_found"
	KindBadRequest             ErrorKind = "bad_request"
	KindConflict               ErrorKind = "conflict"
	KindUnsupportedMedia       ErrorKind = "unsupported_media"
	KindTooManyRequests        ErrorKind = "too_many_requests"
	KindAuthenticationRequired ErrorKind = "authentication_required"
	KindForbidden              ErrorKind = "forbidden"
	KindServerError            ErrorKind = "server_error"
	KindDatabaseError          ErrorKind = "database_error"
)

// Error is a terminal pipeline error. Rendering it as a response stops
// all further stage execution for the request.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error // underlying cause, logged but never rendered
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error { return e.Err }

// NewNotFound creates an Error for an unresolvable resource identifier.
func NewNotFound() *Error {
	return &Error{Kind: KindNotFound, Message: "resource not found"}
}

// NewBadRequest creates an Error for a malformed request.
func NewBadRequest(message string) *Error {
	return &Error{Kind: KindBadRequest, Message: message}
}

// NewConflict creates an Error for a uniqueness violation.
func NewConflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// NewUnsupportedMedia creates an Error for a non-JSON body on a
// state-mutating method.
func NewUnsupportedMedia() *Error {
	return &Error{Kind: KindUnsupportedMedia, Message: "only support application/json content type"}
}

// NewTooManyRequests creates an Error for a rate-limiter denial.
func NewTooManyRequests() *Error {
	return &Error{Kind: KindTooManyRequests, Message: "too many requests"}
}

// NewAuthenticationRequired creates an Error for a missing verified subject.
func NewAuthenticationRequired() *Error {
	return &Error{Kind: KindAuthenticationRequired, Message: "authentication required"}
}

// NewForbidden creates an Error for a subject lacking a required capability.
func NewForbidden() *Error {
	return &Error{Kind: KindForbidden, Message: "access denied"}
}

// NewServerError creates an Error for an unexpected internal failure.
// The cause is retained for logging; the rendered message stays opaque.
func NewServerError(err error) *Error {
	return &Error{Kind: KindServerError, Message: "internal server error", Err: err}
}

// NewDatabaseError creates an Error for a persistence failure.
func NewDatabaseError(err error) *Error {
	return &Error{Kind: KindDatabaseError, Message: "database error", Err: err}
}

// HTTPStatus maps the error kind to its HTTP status code.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindBadRequest:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindUnsupportedMedia:
		return http.StatusUnsupportedMediaType
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	case KindAuthenticationRequired:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// errorBody is the wire shape of every rejection response.
type errorBody struct {
	Message string `json:"message"`
}

// RetryAfterHint is the fixed Retry-After value attached to rate-limit
// rejections. The limiter does not compute an exact wait.
const RetryAfterHint = "2"

// basicChallenge is the WWW-Authenticate value attached to
// authentication-required rejections.
const basicChallenge = `Basic realm="/", charset="UTF-8"`

// WriteError renders a terminal error as the response. Rate-limit
// rejections carry a Retry-After hint and authentication-required
// rejections name the expected credential scheme.
func WriteError(w http.ResponseWriter, e *Error) {
	w.Header().Set("Content-Type", "application/json")
	switch e.Kind {
	case KindTooManyRequests:
		w.Header().Set("Retry-After", RetryAfterHint)
	case KindAuthenticationRequired:
		w.Header().Set("WWW-Authenticate", basicChallenge)
	}
	w.WriteHeader(e.HTTPStatus())
	json.NewEncoder(w).Encode(errorBody{Message: e.Message})
}

// WriteJSON renders a successful response body with the given status code.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

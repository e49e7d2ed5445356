package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies an error for the HTTP layer
type Kind string

const (
	KindUnauthorized      Kind = "UNAUTHORIZED"
	KindPermissionDenied  Kind = "PERMISSION_DENIED"
	KindNotFound          Kind = "NOT_FOUND"
	KindValidation        Kind = "VALIDATION_ERROR"
	KindInvalidTransition Kind = "INVALID_TRANSITION"
	KindConflict          Kind = "CONFLICT"
	KindInternal          Kind = "INTERNAL_ERROR"
)

var statusByKind = map[Kind]int{
	KindUnauthorized:      http.StatusUnauthorized,
	KindPermissionDenied:  http.StatusForbidden,
	KindNotFound:          http.StatusNotFound,
	KindValidation:        http.StatusBadRequest,
	KindInvalidTransition: http.StatusBadRequest,
	KindConflict:          http.StatusConflict,
	KindInternal:          http.StatusInternalServerError,
}

type Error struct {
	Kind    Kind
	Message string
	// Fields holds per-field validation messages, keyed by JSON field name
	Fields map[string]string
	cause  error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Status returns the HTTP status code for the error kind
func (e *Error) Status() int {
	if s, ok := statusByKind[e.Kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Unauthorized(message string) *Error      { return New(KindUnauthorized, message) }
func PermissionDenied(message string) *Error  { return New(KindPermissionDenied, message) }
func NotFound(message string) *Error          { return New(KindNotFound, message) }
func InvalidTransition(message string) *Error { return New(KindInvalidTransition, message) }
func Conflict(message string) *Error          { return New(KindConflict, message) }

// Validation builds a validation error. fields may be nil when the check is
// message-level only.
func Validation(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// Internal wraps an unexpected failure. The cause is kept for logging and
// never sent to clients.
func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Message: "internal server error", cause: cause}
}

// From converts any error into an *Error, treating unknown errors as internal
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// Is reports whether err carries the given kind
func Is(err error, kind Kind) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

package services

import (
	"errors"
	"net/http"
)

// ErrorKind classifies a domain error.
type ErrorKind string

const (
	KindValidation       ErrorKind = "validation"
	KindConflict         ErrorKind = "conflict"
	KindNotFound         ErrorKind = "not_found"
	KindUnauthorized     ErrorKind = "unauthorized"
	KindInvalidToken     ErrorKind = "invalid_token"
	KindNotAuthenticated ErrorKind = "not_authenticated"
	KindInternal         ErrorKind = "internal"
)

// Error is a domain error carrying the HTTP status and the message shown to the client.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
	// Fields holds per-field validation messages, if any.
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewValidationError reports missing or malformed input.
func NewValidationError(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Status: http.StatusBadRequest, Message: message, Fields: fields}
}

// NewConflictError reports a uniqueness violation. Conflicts are answered with 400.
func NewConflictError(message string, err error) *Error {
	return &Error{Kind: KindConflict, Status: http.StatusBadRequest, Message: message, Err: err}
}

// NewNotFoundError reports a missing record.
func NewNotFoundError(message string, err error) *Error {
	return &Error{Kind: KindNotFound, Status: http.StatusNotFound, Message: message, Err: err}
}

// NewUnauthorizedError reports a credential mismatch.
func NewUnauthorizedError(message string) *Error {
	return &Error{Kind: KindUnauthorized, Status: http.StatusUnauthorized, Message: message}
}

// NewInvalidTokenError reports a session token that failed verification.
func NewInvalidTokenError(err error) *Error {
	return &Error{Kind: KindInvalidToken, Status: http.StatusUnauthorized, Message: "Invalid token", Err: err}
}

// NewNotAuthenticatedError reports a request without a session token.
func NewNotAuthenticatedError() *Error {
	return &Error{Kind: KindNotAuthenticated, Status: http.StatusUnauthorized, Message: "Not authenticated"}
}

// NewInternalError wraps an unexpected failure. message is safe to show to clients.
func NewInternalError(message string, err error) *Error {
	return &Error{Kind: KindInternal, Status: http.StatusInternalServerError, Message: message, Err: err}
}

// IsKind reports whether err is a domain Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var domainErr *Error
	return errors.As(err, &domainErr) && domainErr.Kind == kind
}

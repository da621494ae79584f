// internal/pkg/apperror/apperror.go
package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies an error for the HTTP edge
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindUnauthorized
	KindUpstream
)

// String returns the kind name used in log fields
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindUpstream:
		return "upstream"
	default:
		return "internal"
	}
}

// Error is a classified application error
type Error struct {
	Kind    Kind
	Message string
	Field   string
	Err     error
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

// New creates an error of the given kind
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap classifies an underlying error
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Validation creates a validation error
func Validation(message string) *Error {
	return New(KindValidation, message)
}

// FieldValidation creates a validation error bound to a form field
func FieldValidation(field, message string) *Error {
	return &Error{Kind: KindValidation, Message: message, Field: field}
}

// NotFound creates a not-found error
func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

// Unauthorized creates an authorization error
func Unauthorized(message string) *Error {
	return New(KindUnauthorized, message)
}

// Upstream wraps a failure of an external collaborator
func Upstream(message string, err error) *Error {
	return Wrap(KindUpstream, message, err)
}

// Internal wraps an unexpected failure
func Internal(message string, err error) *Error {
	return Wrap(KindInternal, message, err)
}

// KindOf returns the kind of the first classified error in the chain.
// Unclassified errors are internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err is classified as kind
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the user-facing message of a classified error
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Something went wrong"
}

// HTTPStatus maps a kind onto a response status
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusForbidden
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

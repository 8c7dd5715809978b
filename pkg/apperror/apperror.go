package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error.
type Kind int

const (
	KindNotFound Kind = iota + 1000
	KindConflict
	KindUnauthorized
	KindUnavailable
	KindInvalid
	KindInternal
)

// AppError represents an application error. Domain failures (not found,
// conflict, unauthorized, unavailable) are returned to callers as values;
// KindInternal wraps infrastructure failures and is never shown verbatim.
type AppError struct {
	Kind    Kind   `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode maps the error kind to an HTTP status.
func (e *AppError) StatusCode() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindUnavailable:
		return http.StatusForbidden
	case KindInvalid:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func NotFound(resource string, err error) *AppError {
	return &AppError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func Conflict(message string, err error) *AppError {
	return &AppError{
		Kind:    KindConflict,
		Message: message,
		Err:     err,
	}
}

func Unauthorized(message string) *AppError {
	return &AppError{
		Kind:    KindUnauthorized,
		Message: message,
	}
}

func Unavailable(message string) *AppError {
	return &AppError{
		Kind:    KindUnavailable,
		Message: message,
	}
}

func Invalid(message string, err error) *AppError {
	return &AppError{
		Kind:    KindInvalid,
		Message: message,
		Err:     err,
	}
}

func Internal(err error) *AppError {
	return &AppError{
		Kind:    KindInternal,
		Message: "internal server error",
		Err:     err,
	}
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

// IsDomain reports whether err is a domain failure, i.e. anything other
// than an infrastructure error.
func IsDomain(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind != KindInternal
	}
	return false
}

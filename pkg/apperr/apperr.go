// Package apperr defines typed application errors that carry an HTTP status.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Type string

const (
	TypeValidation   Type = "validation_error"
	TypeUnauthorized Type = "unauthorized"
	TypeForbidden    Type = "forbidden"
	TypeNotFound     Type = "not_found"
	TypeInternal     Type = "internal_error"
)

// Error is an application error with an HTTP status code.
type Error struct {
	Type    Type
	Message string
	Code    int
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(t Type, code int, format string, args ...any) *Error {
	return &Error{Type: t, Message: fmt.Sprintf(format, args...), Code: code}
}

func Validation(format string, args ...any) *Error {
	return newError(TypeValidation, http.StatusBadRequest, format, args...)
}

func Unauthorized(format string, args ...any) *Error {
	return newError(TypeUnauthorized, http.StatusUnauthorized, format, args...)
}

func Forbidden(format string, args ...any) *Error {
	return newError(TypeForbidden, http.StatusForbidden, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return newError(TypeNotFound, http.StatusNotFound, format, args...)
}

// Internal wraps err; its message is not shown to API callers.
func Internal(err error, format string, args ...any) *Error {
	e := newError(TypeInternal, http.StatusInternalServerError, format, args...)
	e.Err = err
	return e
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// StatusCode maps err to an HTTP status, defaulting to 500.
func StatusCode(err error) int {
	if e, ok := As(err); ok {
		return e.Code
	}
	return http.StatusInternalServerError
}

func IsNotFound(err error) bool {
	e, ok := As(err)
	return ok && e.Type == TypeNotFound
}

// Package errs holds the error taxonomy shared by the HTTP API and the realtime gateway.
package errs

import (
	"errors"
	"net/http"
)

var (
	ErrAuthentication = errors.New("authentication error")
	ErrValidation     = errors.New("validation error")
	ErrAuthorization  = errors.New("authorization error")
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
	ErrPersistence    = errors.New("persistence error")
)

// genericMessage is what clients see for persistence failures and unknown errors.
const genericMessage = "Internal server error"

// Error carries a kind (one of the sentinels above), a client-facing message and an optional cause.
type Error struct {
	Kind  error
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Msg + ": " + e.Cause.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

func Authentication(msg string, cause error) error {
	return &Error{Kind: ErrAuthentication, Msg: msg, Cause: cause}
}

func Validation(msg string) error {
	return &Error{Kind: ErrValidation, Msg: msg}
}

func Authorization(msg string) error {
	return &Error{Kind: ErrAuthorization, Msg: msg}
}

func NotFound(msg string) error {
	return &Error{Kind: ErrNotFound, Msg: msg}
}

func Conflict(msg string) error {
	return &Error{Kind: ErrConflict, Msg: msg}
}

func Persistence(op string, cause error) error {
	return &Error{Kind: ErrPersistence, Msg: op, Cause: cause}
}

// PublicMessage returns the text safe to show to a client.
func PublicMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) || errors.Is(e.Kind, ErrPersistence) {
		return genericMessage
	}
	return e.Msg
}

func ToHTTP(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrAuthentication):
		return http.StatusUnauthorized
	case errors.Is(err, ErrAuthorization):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

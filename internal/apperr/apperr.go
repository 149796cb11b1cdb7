// Package apperr defines the closed set of failure kinds the services report
// and the HTTP layer translates into responses.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindUnauthorized
	KindInvalidCredentials
	KindNotFound
	KindConflict
	// KindDuplicateUser is a registration for a username that is taken.
	// It is reported as 401.
	KindDuplicateUser
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindDuplicateUser:
		return "duplicate_user"
	default:
		return "internal"
	}
}

// Status maps a kind onto the HTTP status code returned to clients.
func (k Kind) Status() int {
	switch k {
	case KindBadRequest, KindInvalidCredentials:
		return http.StatusBadRequest
	case KindUnauthorized, KindDuplicateUser:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified failure. Message is safe to show to clients; Err is
// the underlying cause and is only ever logged.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func BadRequest(message string) *Error   { return New(KindBadRequest, message) }
func Unauthorized(message string) *Error { return New(KindUnauthorized, message) }
func NotFound(message string) *Error     { return New(KindNotFound, message) }
func Conflict(message string) *Error     { return New(KindConflict, message) }

func DuplicateUser() *Error {
	return New(KindDuplicateUser, "user already exists")
}

func InvalidCredentials() *Error {
	return New(KindInvalidCredentials, "invalid credentials")
}

func Internal(err error) *Error {
	return Wrap(KindInternal, "server error", err)
}

// KindOf returns the kind of err, treating anything unclassified as
// internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// PublicMessage returns the client-facing message for err. Unclassified
// errors never leak their text.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return "server error"
}

package common

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure so callers can react without string matching.
type Kind string

const (
	KindNotFound           Kind = "NOT_FOUND"
	KindForbidden          Kind = "FORBIDDEN"
	KindConflict           Kind = "CONFLICT"
	KindBadRequest         Kind = "BAD_REQUEST"
	KindInvalidState       Kind = "INVALID_STATE"
	KindPreconditionFailed Kind = "PRECONDITION_FAILED"
	KindInternal           Kind = "INTERNAL"
)

// Sentinels for errors.Is checks against a Kind.
var (
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrForbidden          = &Error{Kind: KindForbidden}
	ErrConflict           = &Error{Kind: KindConflict}
	ErrBadRequest         = &Error{Kind: KindBadRequest}
	ErrInvalidState       = &Error{Kind: KindInvalidState}
	ErrPreconditionFailed = &Error{Kind: KindPreconditionFailed}
)

// Error is the typed error every command returns.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.Message != "":
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Err != nil:
		return e.Err.Error()
	case e.Message != "":
		return e.Message
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind, so errors.Is(err, ErrConflict)
// works regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func NotFound(msg string) error           { return &Error{Kind: KindNotFound, Message: msg} }
func Forbidden(msg string) error          { return &Error{Kind: KindForbidden, Message: msg} }
func Conflict(msg string) error           { return &Error{Kind: KindConflict, Message: msg} }
func BadRequest(msg string) error         { return &Error{Kind: KindBadRequest, Message: msg} }
func InvalidState(msg string) error       { return &Error{Kind: KindInvalidState, Message: msg} }
func PreconditionFailed(msg string) error { return &Error{Kind: KindPreconditionFailed, Message: msg} }

// KindOf returns the Kind carried by err, or KindInternal for anything
// that is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// HTTPStatus maps an error onto the response code the API returns.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindBadRequest, KindInvalidState:
		return http.StatusBadRequest
	case KindPreconditionFailed:
		return http.StatusPreconditionFailed
	default:
		return http.StatusInternalServerError
	}
}

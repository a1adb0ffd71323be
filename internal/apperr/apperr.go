package apperr

import (
	"errors"
	"net/http"
)

// Kind tags an Error with the category the route layer matches on.
type Kind int

const (
	KindInternal Kind = iota
	KindMissingField
	KindDuplicateEmail
	KindNotFound
	KindInvalidID
	KindValidation
)

// Error is the tagged error returned by the service layer. The dispatch
// wrapper at the route boundary maps Kind to an HTTP status and renders
// Message/Details as the JSON error body.
type Error struct {
	Kind    Kind
	Message string
	Details []string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Status maps the error kind to an HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case KindMissingField, KindDuplicateEmail, KindInvalidID, KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func MissingField(msg string) *Error   { return &Error{Kind: KindMissingField, Message: msg} }
func DuplicateEmail(msg string) *Error { return &Error{Kind: KindDuplicateEmail, Message: msg} }
func NotFound(msg string) *Error       { return &Error{Kind: KindNotFound, Message: msg} }
func InvalidID(msg string) *Error      { return &Error{Kind: KindInvalidID, Message: msg} }

func Validation(msg string, details ...string) *Error {
	return &Error{Kind: KindValidation, Message: msg, Details: details}
}

func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// From normalizes any error into *Error. Errors that are not already
// tagged come back as KindInternal with a generic message, so no driver
// or library text leaks to clients.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: KindInternal, Message: "Internal server error", Err: err}
}

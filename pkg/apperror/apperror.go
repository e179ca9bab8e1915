package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the stable category of a domain error.
type Kind string

const (
	KindNotFound          Kind = "NOT_FOUND"
	KindInvalidTransition Kind = "INVALID_TRANSITION"
	KindAlreadyClaimed    Kind = "ALREADY_CLAIMED"
	KindForbidden         Kind = "FORBIDDEN"
	KindValidation        Kind = "VALIDATION_ERROR"
	KindConflict          Kind = "CONFLICT"
)

// Error carries a stable kind plus a human-readable message.
// An Error with a parent unwraps to it, so a detailed error still matches its sentinel with errors.Is.
type Error struct {
	Kind    Kind
	Message string
	parent  error
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Refine declares a sentinel with its own kind that still matches parent under errors.Is.
func Refine(parent *Error, kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, parent: parent}
}

// Wrap builds a more specific error that matches parent under errors.Is.
func Wrap(parent *Error, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    parent.Kind,
		Message: fmt.Sprintf(format, args...),
		parent:  parent,
	}
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.parent
}

// HTTPStatus maps the error kind to a response status code.
func (e *Error) HTTPStatus() int {
	return StatusFor(e.Kind)
}

func StatusFor(kind Kind) int {
	switch kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindValidation:
		return http.StatusBadRequest
	case KindInvalidTransition, KindAlreadyClaimed, KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// As extracts the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf returns the kind of err, or "" when err is not a domain error.
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return ""
}

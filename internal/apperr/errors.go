// Package apperr holds the error taxonomy shared by stores, services and controllers.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an error for the HTTP boundary.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindDownstream
)

// Error is a classified application error.
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

func Validation(msg string) *Error { return &Error{Kind: KindValidation, Message: msg} }

func NotFound(msg string) *Error { return &Error{Kind: KindNotFound, Message: msg} }

func Unauthorized(msg string, err error) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg, Err: err}
}

func Forbidden(msg string, err error) *Error {
	return &Error{Kind: KindForbidden, Message: msg, Err: err}
}

// Downstream wraps a failure from the document store, identity provider or messaging provider.
func Downstream(msg string, err error) *Error {
	return &Error{Kind: KindDownstream, Message: msg, Err: err}
}

// IsKind reports whether err (or anything it wraps) is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

// Status maps err to an HTTP status code. Unclassified errors are 500.
func Status(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

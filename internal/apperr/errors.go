// Package apperr defines the failure taxonomy of the analysis pipeline and
// its mapping onto HTTP status codes.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Failure classes. Input, document, and archive failures are
// client-correctable; parse and model failures are not.
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrDocumentParse = errors.New("document parse error")
	ErrArchive       = errors.New("archive error")
	ErrAnalysisParse = errors.New("analysis parse error")
	ErrModel         = errors.New("model request error")
)

// Error carries a failure class, a human-readable message, and the
// underlying cause. errors.Is matches the class; errors.As and Unwrap
// reach the cause.
type Error struct {
	Class   error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == e.Class }

// New returns an Error with no underlying cause.
func New(class error, message string) *Error {
	return &Error{Class: class, Message: message}
}

// Wrap classifies err under class with a message identifying the failed stage.
func Wrap(class error, message string, err error) *Error {
	return &Error{Class: class, Message: message, Err: err}
}

// Status maps an error to the HTTP status code it should surface as.
// Unclassified errors are treated as internal.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrDocumentParse),
		errors.Is(err, ErrArchive):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

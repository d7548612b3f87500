// Package apperr defines the error taxonomy services return and the HTTP boundary translates.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an error for translation at the request boundary.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindBadRequest
	KindConflict
	KindAuthentication
	KindAuthorization
	KindTokenMissing
	KindTokenInvalid
	KindTokenExpired
	KindNotFound
	KindMethodNotAllowed
)

var kindNames = map[Kind]string{
	KindInternal:         "internal",
	KindValidation:       "validation",
	KindBadRequest:       "bad_request",
	KindConflict:         "conflict",
	KindAuthentication:   "authentication",
	KindAuthorization:    "authorization",
	KindTokenMissing:     "token_missing",
	KindTokenInvalid:     "token_invalid",
	KindTokenExpired:     "token_expired",
	KindNotFound:         "not_found",
	KindMethodNotAllowed: "method_not_allowed",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// Status returns the HTTP status code for k.
func (k Kind) Status() int {
	switch k {
	case KindValidation, KindConflict:
		return http.StatusUnprocessableEntity
	case KindBadRequest:
		return http.StatusBadRequest
	case KindAuthentication, KindTokenMissing, KindTokenExpired:
		return http.StatusUnauthorized
	case KindAuthorization, KindTokenInvalid:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}

// FieldError is one field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a classified application error. Message is safe to show to clients;
// Err, when set, is the underlying cause and is never rendered.
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New returns an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Validation returns a KindValidation error carrying every field failure.
func Validation(fields []FieldError) *Error {
	return &Error{Kind: KindValidation, Message: "Validation failed", Fields: fields}
}

// Internal wraps an unexpected failure. The cause is logged, not returned to clients.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "Internal server error", Err: err}
}

// As returns the *Error in err's chain, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the Kind of err, or KindInternal when err is not classified.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindInternal
}

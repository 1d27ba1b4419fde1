// Package apperr defines the domain errors returned by services. The HTTP
// layer maps their Kind to a status code; everything else treats them as
// ordinary wrapped errors.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind categorizes a domain error.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindValidation
	KindConflict
	KindBadRequest
	KindInternal
	// KindUnavailable is a dependency that cannot serve until an operator
	// steps in, such as a rejected API key or an exhausted quota.
	KindUnavailable
	// KindBadGateway is a transient upstream failure. Callers may retry.
	KindBadGateway
)

var statusByKind = map[Kind]int{
	KindNotFound:    http.StatusNotFound,
	KindValidation:  http.StatusBadRequest,
	KindConflict:    http.StatusConflict,
	KindBadRequest:  http.StatusBadRequest,
	KindInternal:    http.StatusInternalServerError,
	KindUnavailable: http.StatusServiceUnavailable,
	KindBadGateway:  http.StatusBadGateway,
}

// Error is a domain error.
type Error struct {
	Kind    Kind
	Message string // safe to show to the user
	Op      string
	Err     error
	Details interface{}
}

func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the status code for the error's kind. Unknown kinds are
// treated as bad requests.
func (e *Error) HTTPStatus() int {
	if status, ok := statusByKind[e.Kind]; ok {
		return status
	}
	return http.StatusBadRequest
}

// WithOp sets the failing operation, e.g. "addresses.Save".
func (e *Error) WithOp(op string) *Error {
	e.Op = op
	return e
}

// WithDetails attaches data returned next to the message, such as field errors.
func (e *Error) WithDetails(details interface{}) *Error {
	e.Details = details
	return e
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func NotFound(message string) *Error   { return New(KindNotFound, message) }
func Validation(message string) *Error { return New(KindValidation, message) }
func Conflict(message string) *Error   { return New(KindConflict, message) }
func BadRequest(message string) *Error { return New(KindBadRequest, message) }
func Internal(message string) *Error   { return New(KindInternal, message) }

// Unavailable wraps a configuration-level dependency failure.
func Unavailable(message string, err error) *Error {
	return Wrap(KindUnavailable, message, err)
}

// BadGateway wraps a transient upstream failure.
func BadGateway(message string, err error) *Error {
	return Wrap(KindBadGateway, message, err)
}

// GetKind returns the kind of the first *Error in err's chain, or KindUnknown.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func Is(err error, kind Kind) bool {
	return GetKind(err) == kind
}

// Retryable reports whether repeating the same call may succeed.
func Retryable(err error) bool {
	return GetKind(err) == KindBadGateway
}

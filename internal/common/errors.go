package common

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes shared by services and the HTTP layer.
const (
	EInvalid       = "invalid"
	EUnauthorized  = "unauthorized"
	EForbidden     = "forbidden"
	ENotFound      = "not found"
	EQuotaExceeded = "quota exceeded"
	EConflict      = "conflict"
	EInternal      = "internal error"
)

// Error is the application error type.
//
// Code drives the HTTP status, Msg is safe to show to clients,
// Op names the failing operation and Err keeps the cause for server-side logs.
type Error struct {
	Code string
	Msg  string
	Op   string
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Op != "" && e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.message(), e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.message(), e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.message())
	}
	return e.message()
}

func (e *Error) message() string {
	if e.Msg != "" {
		return e.Msg
	}
	return e.Code
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds an *Error.
func NewError(code, op, msg string, err error) *Error {
	return &Error{Code: code, Op: op, Msg: msg, Err: err}
}

func Invalid(op, msg string) *Error {
	return &Error{Code: EInvalid, Op: op, Msg: msg}
}

func Unauthorized(op, msg string) *Error {
	return &Error{Code: EUnauthorized, Op: op, Msg: msg}
}

func Forbidden(op, msg string) *Error {
	return &Error{Code: EForbidden, Op: op, Msg: msg}
}

func NotFound(op, msg string) *Error {
	return &Error{Code: ENotFound, Op: op, Msg: msg}
}

func Conflict(op, msg string) *Error {
	return &Error{Code: EConflict, Op: op, Msg: msg}
}

func QuotaExceeded(op, msg string) *Error {
	return &Error{Code: EQuotaExceeded, Op: op, Msg: msg}
}

// Internal wraps an unexpected failure. The cause is never shown to clients.
func Internal(op string, err error) *Error {
	return &Error{Code: EInternal, Op: op, Err: err}
}

// ErrorCode returns the code of the first *Error in err's chain, or EInternal.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) && e.Code != "" {
		return e.Code
	}
	return EInternal
}

// ErrorMessage returns the client-safe message for err.
func ErrorMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) || e.Code == EInternal {
		return "An internal error occurred"
	}
	return e.message()
}

// HTTPStatus maps an error code to its HTTP status.
func HTTPStatus(code string) int {
	switch code {
	case "":
		return http.StatusOK
	case EInvalid:
		return http.StatusBadRequest
	case EUnauthorized:
		return http.StatusUnauthorized
	case EForbidden, EQuotaExceeded:
		return http.StatusForbidden
	case ENotFound:
		return http.StatusNotFound
	case EConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

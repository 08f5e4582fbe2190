// Package domainerrors defines coded errors shared by services and transport.
//
// Services return *Error values built with New or Wrap. The transport layer maps
// the code to an HTTP status and a stable JSON error envelope. Stores never build
// these directly; they return sentinel errors (pkg/platform/sentinel) which the
// service layer translates.
package domainerrors

import (
	"errors"
	"net/http"
)

// Code is a stable, client-facing error classifier.
type Code string

const (
	CodeBadRequest         Code = "bad_request"
	CodeInvalidInput       Code = "invalid_input"
	CodeValidation         Code = "validation_error"
	CodeUnauthorized       Code = "unauthorized"
	CodeForbidden          Code = "forbidden"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeInvariantViolation Code = "invariant_violation"
	CodeTimeout            Code = "timeout"
	CodeInternal           Code = "internal_error"
)

// Error is a coded domain error. Fields carries per-field validation messages
// and is only populated for CodeValidation.
type Error struct {
	Code    Code
	Message string
	Fields  map[string]string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New builds a coded error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error.
// Returns nil when err is nil so call sites can wrap unconditionally.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// NewValidation builds a validation error carrying field-level messages.
func NewValidation(message string, fields map[string]string) *Error {
	return &Error{Code: CodeValidation, Message: message, Fields: fields}
}

// FieldError is a shorthand for a validation error on a single field.
func FieldError(field, message string) *Error {
	return NewValidation(message, map[string]string{field: message})
}

// As extracts the first *Error in the chain.
func As(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code Code) bool {
	de, ok := As(err)
	return ok && de.Code == code
}

// CodeOf returns the code of err, or CodeInternal for uncoded errors.
func CodeOf(err error) Code {
	if de, ok := As(err); ok {
		return de.Code
	}
	return CodeInternal
}

// Fields returns the validation fields of err, if any.
func Fields(err error) map[string]string {
	if de, ok := As(err); ok {
		return de.Fields
	}
	return nil
}

// ToHTTPStatus maps a code to its HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeInvalidInput, CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeInvariantViolation:
		return http.StatusUnprocessableEntity
	case CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// FieldErrors accumulates per-field validation messages.
// The first message recorded for a field wins.
type FieldErrors map[string]string

// Add records msg for field unless the field already has a message.
func (f FieldErrors) Add(field, msg string) {
	if _, ok := f[field]; !ok {
		f[field] = msg
	}
}

// Merge copies the fields of a validation error into f. Other errors are
// recorded under the "non_field_errors" key.
func (f FieldErrors) Merge(err error) {
	if err == nil {
		return
	}
	if de, ok := As(err); ok && len(de.Fields) > 0 {
		for k, v := range de.Fields {
			f.Add(k, v)
		}
		return
	}
	f.Add("non_field_errors", err.Error())
}

// Err returns a validation error carrying the collected fields, or nil.
func (f FieldErrors) Err(message string) error {
	if len(f) == 0 {
		return nil
	}
	return NewValidation(message, map[string]string(f))
}

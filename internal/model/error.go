package model

import (
	"fmt"
	"net/http"
	"strings"
)

// ErrorKind classifies operational errors.
type ErrorKind string

// Operational error kinds.
const (
	KindNotFound     ErrorKind = "not_found"
	KindBadRequest   ErrorKind = "bad_request"
	KindUnauthorised ErrorKind = "unauthorised"
)

// AppError is an anticipated, user-facing failure carrying its HTTP status.
type AppError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
}

func (e *AppError) Error() string {
	return e.Message
}

// Status returns "fail" for client errors and "error" for everything else.
func (e *AppError) Status() string {
	if e.StatusCode >= 400 && e.StatusCode < 500 {
		return "fail"
	}
	return "error"
}

// NewAppError creates a new operational error.
func NewAppError(kind ErrorKind, statusCode int, message string) *AppError {
	return &AppError{
		Kind:       kind,
		StatusCode: statusCode,
		Message:    message,
	}
}

// NewNotFoundError creates a 404 error. An empty message falls back to a generic one.
func NewNotFoundError(message string) *AppError {
	if message == "" {
		message = "Resource not found"
	}
	return NewAppError(KindNotFound, http.StatusNotFound, message)
}

// NewBadRequestError creates a 400 error. An empty message falls back to a generic one.
func NewBadRequestError(message string) *AppError {
	if message == "" {
		message = "Bad request"
	}
	return NewAppError(KindBadRequest, http.StatusBadRequest, message)
}

// NewUnauthorisedError creates a 401 error.
func NewUnauthorisedError(message string) *AppError {
	if message == "" {
		message = "Unauthorised"
	}
	return NewAppError(KindUnauthorised, http.StatusUnauthorized, message)
}

// FieldError describes a single invalid field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports one or more invalid fields.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// NewValidationError creates a validation error from the given field failures.
func NewValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

// DuplicateKeyError reports a uniqueness conflict on one or more fields.
type DuplicateKeyError struct {
	Fields []string
}

func (e *DuplicateKeyError) Error() string {
	return "duplicate key: " + strings.Join(e.Fields, ", ")
}

// NewDuplicateKeyError creates a uniqueness conflict error.
func NewDuplicateKeyError(fields ...string) *DuplicateKeyError {
	return &DuplicateKeyError{Fields: fields}
}

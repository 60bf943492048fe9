package model

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError(t *testing.T) {
	tests := []struct {
		name           string
		err            *AppError
		expectedKind   ErrorKind
		expectedStatus int
		expectedText   string
		expectedMsg    string
	}{
		{
			name:           "Not found with message",
			err:            NewNotFoundError("Product not found with ID: 42"),
			expectedKind:   KindNotFound,
			expectedStatus: http.StatusNotFound,
			expectedText:   "fail",
			expectedMsg:    "Product not found with ID: 42",
		},
		{
			name:           "Not found default message",
			err:            NewNotFoundError(""),
			expectedKind:   KindNotFound,
			expectedStatus: http.StatusNotFound,
			expectedText:   "fail",
			expectedMsg:    "Resource not found",
		},
		{
			name:           "Bad request default message",
			err:            NewBadRequestError(""),
			expectedKind:   KindBadRequest,
			expectedStatus: http.StatusBadRequest,
			expectedText:   "fail",
			expectedMsg:    "Bad request",
		},
		{
			name:           "Unauthorised",
			err:            NewUnauthorisedError("missing credentials"),
			expectedKind:   KindUnauthorised,
			expectedStatus: http.StatusUnauthorized,
			expectedText:   "fail",
			expectedMsg:    "missing credentials",
		},
		{
			name:           "Server side operational error",
			err:            NewAppError("unavailable", http.StatusServiceUnavailable, "try later"),
			expectedKind:   "unavailable",
			expectedStatus: http.StatusServiceUnavailable,
			expectedText:   "error",
			expectedMsg:    "try later",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedKind, tt.err.Kind)
			assert.Equal(t, tt.expectedStatus, tt.err.StatusCode)
			assert.Equal(t, tt.expectedText, tt.err.Status())
			assert.Equal(t, tt.expectedMsg, tt.err.Error())
		})
	}
}

func TestErrorsSurviveWrapping(t *testing.T) {
	wrapped := fmt.Errorf("failed to replace product: %w", NewDuplicateKeyError("name"))

	var dupErr *DuplicateKeyError
	assert.True(t, errors.As(wrapped, &dupErr))
	assert.Equal(t, []string{"name"}, dupErr.Fields)

	wrapped = fmt.Errorf("failed to create product: %w", NewValidationError(
		FieldError{Field: "price", Message: "price must be greater than or equal to 0"},
	))

	var valErr *ValidationError
	assert.True(t, errors.As(wrapped, &valErr))
	assert.Len(t, valErr.Fields, 1)
	assert.Contains(t, valErr.Error(), "price: price must be greater than or equal to 0")
}

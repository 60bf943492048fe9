package handler

import (
	"errors"
	"fmt"
	"net/http"

	"product-api/internal/model"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const internalErrorMessage = "Something went wrong, it's not you, it's us. Please try again later."

// ErrorTranslator maps errors returned by handlers to HTTP responses.
type ErrorTranslator struct {
	logger zerolog.Logger
}

// NewErrorTranslator creates a new error translator.
func NewErrorTranslator(logger zerolog.Logger) *ErrorTranslator {
	return &ErrorTranslator{
		logger: logger.With().Str("component", "error_translator").Logger(),
	}
}

// Catch adapts a HandlerFunc, forwarding any returned error to Translate.
func (t *ErrorTranslator) Catch(fn HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			t.Translate(w, r, err)
		}
	}
}

// Translate writes the response for err.
func (t *ErrorTranslator) Translate(w http.ResponseWriter, r *http.Request, err error) {
	var (
		appErr        *model.AppError
		validationErr *model.ValidationError
		dupErr        *model.DuplicateKeyError
	)

	switch {
	case errors.As(err, &appErr):
		t.logger.Debug().Err(err).
			Str("request_id", middleware.GetReqID(r.Context())).
			Int("status", appErr.StatusCode).
			Msg("operational error")
		writeJSON(w, appErr.StatusCode, ErrorResponse{
			Status:  appErr.Status(),
			Message: appErr.Message,
		})

	case errors.As(err, &validationErr):
		t.logger.Debug().Err(err).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("validation error")
		writeJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Status:  "fail",
			Message: "Validation Error",
			Errors:  validationErr.Fields,
		})

	case errors.As(err, &dupErr):
		t.logger.Debug().Err(err).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("duplicate key error")
		messages := make([]string, 0, len(dupErr.Fields))
		for _, field := range dupErr.Fields {
			messages = append(messages, fmt.Sprintf("%s already exists", field))
		}
		writeJSON(w, http.StatusBadRequest, DuplicateKeyErrorResponse{
			Status:  "fail",
			Message: "Duplicate key error",
			Errors:  messages,
		})

	default:
		t.logger.Error().Err(err).
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("unhandled error")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Status:  "error",
			Message: internalErrorMessage,
		})
	}
}

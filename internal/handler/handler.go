package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"product-api/internal/model"
)

// maxBodyBytes bounds request bodies read by handlers.
const maxBodyBytes = 1 << 20

// HandlerFunc is an HTTP handler that reports failures by returning them.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// MessageResponse represents a plain message response.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an operational error response.
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ValidationErrorResponse lists field-level validation failures.
type ValidationErrorResponse struct {
	Status  string             `json:"status"`
	Message string             `json:"message"`
	Errors  []model.FieldError `json:"errors"`
}

// DuplicateKeyErrorResponse lists the fields that collided with existing records.
type DuplicateKeyErrorResponse struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

// StatsResponse wraps the per-category aggregates.
type StatsResponse struct {
	Status string    `json:"status"`
	Data   StatsData `json:"data"`
}

// StatsData holds the stats payload.
type StatsData struct {
	Stats []model.CategoryStats `json:"stats"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// headers are already sent
		return
	}
}

// decodeJSON reads the request body into dst. Malformed bodies yield a 400.
func decodeJSON(r *http.Request, dst interface{}) error {
	body := io.LimitReader(r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		return model.NewBadRequestError("Invalid request body")
	}
	return nil
}

package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse represents the health check payload.
type HealthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}

// HealthHandler serves the liveness endpoint.
type HealthHandler struct {
	store  Pinger
	logger zerolog.Logger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(store Pinger, logger zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		store:  store,
		logger: logger.With().Str("handler", "health").Logger(),
	}
}

// Check handles GET /health requests.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn().Err(err).Msg("store ping failed")
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "error", Store: "unreachable"})
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Store: "ok"})
}

const welcomeMessage = "Welcome to the Product API! Go to /api/products to see all products."

// Welcome handles GET / requests.
func Welcome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(welcomeMessage))
}

// NotFound handles requests for unknown routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, ErrorResponse{Status: "fail", Message: "Route not found"})
}

// MethodNotAllowed handles requests with an unsupported method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Status: "fail", Message: "Method not allowed"})
}

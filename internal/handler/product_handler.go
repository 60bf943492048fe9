package handler

import (
	"net/http"
	"strconv"

	"product-api/internal/model"
	"product-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// ProductHandler handles product-related HTTP requests.
type ProductHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// List handles GET /api/products requests with filtering and pagination.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()

	// Non-numeric values fall through as zero and get the service defaults.
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	result, err := h.service.List(r.Context(), model.ProductQuery{
		Category: q.Get("category"),
		Name:     q.Get("name"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, result)
	return nil
}

// GetByID handles GET /api/products/{id} requests.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) error {
	product, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, product)
	return nil
}

// Create handles POST /api/products requests.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) error {
	var input model.ProductInput
	if err := decodeJSON(r, &input); err != nil {
		return err
	}

	product, err := h.service.Create(r.Context(), input)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusCreated, product)
	return nil
}

// Replace handles PUT /api/products/{id} requests.
func (h *ProductHandler) Replace(w http.ResponseWriter, r *http.Request) error {
	var input model.ProductInput
	if err := decodeJSON(r, &input); err != nil {
		return err
	}

	product, err := h.service.Replace(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, product)
	return nil
}

// UpdatePrice handles PATCH /api/products/{id} requests.
func (h *ProductHandler) UpdatePrice(w http.ResponseWriter, r *http.Request) error {
	var body map[string]interface{}
	if err := decodeJSON(r, &body); err != nil {
		return err
	}

	price, ok := body["price"].(float64)
	if !ok || price < 0 {
		h.logger.Debug().Interface("price", body["price"]).Msg("rejected price update")
		return model.NewBadRequestError("Invalid price value")
	}

	product, err := h.service.UpdatePrice(r.Context(), chi.URLParam(r, "id"), price)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, product)
	return nil
}

// Delete handles DELETE /api/products/{id} requests.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) error {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Product deleted successfully"})
	return nil
}

// Stats handles GET /api/products/stats requests.
func (h *ProductHandler) Stats(w http.ResponseWriter, r *http.Request) error {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, StatsResponse{
		Status: "success",
		Data:   StatsData{Stats: stats},
	})
	return nil
}

package service

import (
	"context"
	"math"

	"product-api/internal/model"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100

	// maxPage keeps (page-1)*limit within int64 for any accepted limit.
	maxPage = math.MaxInt / maxLimit
)

// ProductService defines operations for product management.
type ProductService interface {
	// List retrieves one page of products matching the query.
	List(ctx context.Context, query model.ProductQuery) (*model.ProductPage, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// Create stores a new product with a generated ID and creation time.
	Create(ctx context.Context, input model.ProductInput) (*model.Product, error)

	// Replace overwrites the mutable fields of an existing product.
	Replace(ctx context.Context, id string, input model.ProductInput) (*model.Product, error)

	// UpdatePrice changes only the price of an existing product.
	UpdatePrice(ctx context.Context, id string, price float64) (*model.Product, error)

	// Delete removes a product.
	Delete(ctx context.Context, id string) error

	// Stats returns per-category aggregates.
	Stats(ctx context.Context) ([]model.CategoryStats, error)

	// Ping checks that the backing store is reachable.
	Ping(ctx context.Context) error
}

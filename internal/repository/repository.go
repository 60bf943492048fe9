package repository

import (
	"context"

	"product-api/internal/model"
)

// ProductRepository defines the interface for product data access operations.
// Lookups by id return a nil product and a nil error when no record matches.
type ProductRepository interface {
	// List retrieves one page of products matching the query, newest first,
	// together with the total number of matching products.
	List(ctx context.Context, query model.ProductQuery) ([]model.Product, int64, error)

	// GetByID retrieves a single product by its ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// Create inserts a new product.
	Create(ctx context.Context, product *model.Product) error

	// Replace overwrites the mutable fields of a product and returns the result.
	// InStock is left unchanged when the input omits it.
	Replace(ctx context.Context, id string, input model.ProductInput) (*model.Product, error)

	// UpdatePrice changes only the price of a product and returns the result.
	UpdatePrice(ctx context.Context, id string, price float64) (*model.Product, error)

	// Delete removes a product and reports whether it existed.
	Delete(ctx context.Context, id string) (bool, error)

	// Stats groups all products by category, sorted by category name.
	Stats(ctx context.Context) ([]model.CategoryStats, error)

	// Ping checks connectivity with the underlying store.
	Ping(ctx context.Context) error
}

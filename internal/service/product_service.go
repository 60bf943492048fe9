package service

import (
	"context"
	"fmt"
	"time"

	"product-api/internal/events"
	"product-api/internal/model"
	"product-api/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	publisher   events.Publisher
	logger      zerolog.Logger
	now         func() time.Time
}

// NewProductService creates a new product service. A nil publisher disables events.
func NewProductService(productRepo repository.ProductRepository, publisher events.Publisher, logger zerolog.Logger) ProductService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &productService{
		productRepo: productRepo,
		publisher:   publisher,
		logger:      logger.With().Str("service", "product").Logger(),
		now:         time.Now,
	}
}

// normaliseQuery applies the pagination defaults and bounds.
func normaliseQuery(query model.ProductQuery) model.ProductQuery {
	if query.Page < 1 {
		query.Page = defaultPage
	}
	if query.Page > maxPage {
		query.Page = maxPage
	}
	if query.Limit < 1 {
		query.Limit = defaultLimit
	}
	if query.Limit > maxLimit {
		query.Limit = maxLimit
	}
	return query
}

// List retrieves one page of products matching the query.
func (s *productService) List(ctx context.Context, query model.ProductQuery) (*model.ProductPage, error) {
	query = normaliseQuery(query)

	products, total, err := s.productRepo.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	if products == nil {
		products = []model.Product{}
	}

	totalPages := (total + int64(query.Limit) - 1) / int64(query.Limit)

	s.logger.Debug().
		Int("count", len(products)).
		Int64("total", total).
		Int("page", query.Page).
		Int("limit", query.Limit).
		Msg("listed products")

	return &model.ProductPage{
		Status:        "success",
		Results:       len(products),
		TotalProducts: total,
		CurrentPage:   query.Page,
		TotalPages:    totalPages,
		Data:          products,
	}, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil {
		s.logger.Debug().Str("product_id", id).Msg("product not found")
		return nil, notFound(id)
	}

	return product, nil
}

// Create stores a new product.
func (s *productService) Create(ctx context.Context, input model.ProductInput) (*model.Product, error) {
	inStock := true
	if input.InStock != nil {
		inStock = *input.InStock
	}

	product := &model.Product{
		ID:          uuid.NewString(),
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		InStock:     inStock,
		CreatedAt:   s.now().UTC().Truncate(time.Millisecond),
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info().
		Str("product_id", product.ID).
		Str("category", product.Category).
		Msg("product created")

	s.publish(ctx, events.ProductCreated, product.ID, product)

	return product, nil
}

// Replace overwrites the mutable fields of an existing product.
func (s *productService) Replace(ctx context.Context, id string, input model.ProductInput) (*model.Product, error) {
	product, err := s.productRepo.Replace(ctx, id, input)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	if product == nil {
		s.logger.Debug().Str("product_id", id).Msg("product not found for update")
		return nil, notFound(id)
	}

	s.logger.Info().Str("product_id", id).Msg("product updated")

	s.publish(ctx, events.ProductUpdated, id, product)

	return product, nil
}

// UpdatePrice changes only the price of an existing product.
func (s *productService) UpdatePrice(ctx context.Context, id string, price float64) (*model.Product, error) {
	product, err := s.productRepo.UpdatePrice(ctx, id, price)
	if err != nil {
		return nil, fmt.Errorf("failed to update product price: %w", err)
	}

	if product == nil {
		s.logger.Debug().Str("product_id", id).Msg("product not found for price update")
		return nil, notFound(id)
	}

	s.logger.Info().
		Str("product_id", id).
		Float64("price", price).
		Msg("product price updated")

	s.publish(ctx, events.ProductUpdated, id, product)

	return product, nil
}

// Delete removes a product.
func (s *productService) Delete(ctx context.Context, id string) error {
	deleted, err := s.productRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if !deleted {
		s.logger.Debug().Str("product_id", id).Msg("product not found for delete")
		return notFound(id)
	}

	s.logger.Info().Str("product_id", id).Msg("product deleted")

	s.publish(ctx, events.ProductDeleted, id, nil)

	return nil
}

// Stats returns per-category aggregates.
func (s *productService) Stats(ctx context.Context) ([]model.CategoryStats, error) {
	stats, err := s.productRepo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get product stats: %w", err)
	}
	if stats == nil {
		stats = []model.CategoryStats{}
	}

	return stats, nil
}

// Ping checks that the backing store is reachable.
func (s *productService) Ping(ctx context.Context) error {
	return s.productRepo.Ping(ctx)
}

// publish emits an event; failures are logged and never affect the caller.
func (s *productService) publish(ctx context.Context, eventType events.Type, id string, product *model.Product) {
	if err := s.publisher.Publish(ctx, events.NewEvent(eventType, id, product)); err != nil {
		s.logger.Warn().Err(err).
			Str("event_type", string(eventType)).
			Str("product_id", id).
			Msg("failed to publish product event")
	}
}

func notFound(id string) error {
	return model.NewNotFoundError(fmt.Sprintf("Product not found with ID: %s", id))
}

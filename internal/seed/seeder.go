package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"product-api/internal/model"
	"product-api/internal/service"
	"product-api/internal/validator"

	"github.com/rs/zerolog"
)

// Seeder inserts sample products through the product service.
type Seeder struct {
	loader  Loader
	service service.ProductService
	logger  zerolog.Logger
}

// NewSeeder creates a new seeder.
func NewSeeder(loader Loader, service service.ProductService, logger zerolog.Logger) *Seeder {
	return &Seeder{
		loader:  loader,
		service: service,
		logger:  logger.With().Str("component", "seeder").Logger(),
	}
}

// Seed loads path and creates every record, but only when the store holds no
// products. Every record is validated before the first insert. It returns the
// number of products created.
func (s *Seeder) Seed(ctx context.Context, path string) (int, error) {
	existing, err := s.service.List(ctx, model.ProductQuery{Page: 1, Limit: 1})
	if err != nil {
		return 0, fmt.Errorf("failed to check existing products: %w", err)
	}
	if existing.TotalProducts > 0 {
		s.logger.Info().
			Int64("existing", existing.TotalProducts).
			Msg("store already contains products, skipping seed")
		return 0, nil
	}

	records, err := s.loader.Load(ctx, path)
	if err != nil {
		return 0, err
	}

	inputs := make([]model.ProductInput, 0, len(records))
	for i, raw := range records {
		input, err := parseRecord(raw)
		if err != nil {
			return 0, fmt.Errorf("invalid seed record %d: %w", i, err)
		}
		inputs = append(inputs, input)
	}

	created := 0
	for _, input := range inputs {
		if _, err := s.service.Create(ctx, input); err != nil {
			return created, fmt.Errorf("failed to seed product %q: %w", input.Name, err)
		}
		created++
	}

	s.logger.Info().Int("created", created).Str("source", path).Msg("products seeded")

	return created, nil
}

// parseRecord validates a raw record with the product rules and decodes it.
func parseRecord(raw json.RawMessage) (model.ProductInput, error) {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return model.ProductInput{}, errors.New("record is not a JSON object")
	}

	if failures := validator.Validate(fields, validator.ProductRules); len(failures) > 0 {
		return model.ProductInput{}, model.NewValidationError(failures...)
	}

	var input model.ProductInput
	if err := json.Unmarshal(raw, &input); err != nil {
		return model.ProductInput{}, fmt.Errorf("failed to decode product: %w", err)
	}

	return input, nil
}

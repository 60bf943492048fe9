package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"product-api/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const productColumns = `id, name, description, price, category, in_stock, created_at`

// postgresProductRepository implements the ProductRepository interface using PostgreSQL.
type postgresProductRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPostgresProductRepository creates a new PostgreSQL-backed product repository.
func NewPostgresProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &postgresProductRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Str("store", "postgres").Logger(),
	}
}

// List retrieves one page of matching products, newest first.
func (r *postgresProductRepository) List(ctx context.Context, query model.ProductQuery) ([]model.Product, int64, error) {
	where, args := productFilter(query)

	listQuery := fmt.Sprintf(`
		SELECT %s
		FROM products
		%s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d
	`, productColumns, where, len(args)+1, len(args)+2)

	rows, err := r.pool.Query(ctx, listQuery, append(args, query.Limit, query.Skip())...)
	if err != nil {
		r.logger.Error().Err(err).
			Int("page", query.Page).
			Int("limit", query.Limit).
			Msg("failed to query products")
		return nil, 0, fmt.Errorf("failed to query products: %w", err)
	}

	products, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Product])
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to scan product rows")
		return nil, 0, fmt.Errorf("failed to scan products: %w", err)
	}
	for i := range products {
		products[i].CreatedAt = products[i].CreatedAt.UTC()
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM products ` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		r.logger.Error().Err(err).Msg("failed to count products")
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	return products, total, nil
}

// productFilter builds the WHERE clause shared by the list and count queries.
func productFilter(query model.ProductQuery) (string, []any) {
	var (
		conditions []string
		args       []any
	)

	if query.Category != "" {
		args = append(args, query.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if query.Name != "" {
		args = append(args, query.Name)
		conditions = append(conditions, fmt.Sprintf("position(lower($%d) in lower(name)) > 0", len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

// GetByID retrieves a single product by its ID.
func (r *postgresProductRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return r.collectOne(rows, id)
}

// Create inserts a new product.
func (r *postgresProductRepository) Create(ctx context.Context, product *model.Product) error {
	if err := checkProduct(product); err != nil {
		return err
	}

	query := `
		INSERT INTO products (id, name, description, price, category, in_stock, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.Category,
		product.InStock,
		product.CreatedAt,
	)
	if err != nil {
		if mapped := mapPgError(err); mapped != nil {
			return mapped
		}
		r.logger.Error().Err(err).Str("product_id", product.ID).Msg("failed to insert product")
		return fmt.Errorf("failed to insert product: %w", err)
	}

	return nil
}

// Replace overwrites the mutable fields of a product.
func (r *postgresProductRepository) Replace(ctx context.Context, id string, input model.ProductInput) (*model.Product, error) {
	if err := checkInput(input); err != nil {
		return nil, err
	}

	query := `
		UPDATE products
		SET name = $2, description = $3, price = $4, category = $5,
			in_stock = COALESCE($6, in_stock)
		WHERE id = $1
		RETURNING ` + productColumns

	rows, err := r.pool.Query(ctx, query, id, input.Name, input.Description, input.Price, input.Category, input.InStock)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to update product")
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return r.collectOne(rows, id)
}

// UpdatePrice changes only the price of a product.
func (r *postgresProductRepository) UpdatePrice(ctx context.Context, id string, price float64) (*model.Product, error) {
	if err := checkPrice(price); err != nil {
		return nil, err
	}

	query := `UPDATE products SET price = $2 WHERE id = $1 RETURNING ` + productColumns

	rows, err := r.pool.Query(ctx, query, id, price)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to update product price")
		return nil, fmt.Errorf("failed to update product price: %w", err)
	}

	return r.collectOne(rows, id)
}

// collectOne scans a single product row, returning nil when no row matched.
func (r *postgresProductRepository) collectOne(rows pgx.Rows, id string) (*model.Product, error) {
	p, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.Product])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("product_id", id).Msg("product not found")
			return nil, nil
		}
		if mapped := mapPgError(err); mapped != nil {
			return nil, mapped
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to scan product row")
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}
	p.CreatedAt = p.CreatedAt.UTC()

	return p, nil
}

// Delete removes a product by its ID.
func (r *postgresProductRepository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to delete product")
		return false, fmt.Errorf("failed to delete product: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// Stats aggregates products per category.
func (r *postgresProductRepository) Stats(ctx context.Context) ([]model.CategoryStats, error) {
	query := `
		SELECT category,
			COUNT(*),
			COUNT(*) FILTER (WHERE in_stock),
			AVG(price),
			MIN(price),
			MAX(price)
		FROM products
		GROUP BY category
		ORDER BY category ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to aggregate product stats")
		return nil, fmt.Errorf("failed to aggregate product stats: %w", err)
	}
	defer rows.Close()

	stats := make([]model.CategoryStats, 0)
	for rows.Next() {
		var s model.CategoryStats
		if err := rows.Scan(&s.Category, &s.ProductCount, &s.TotalStock, &s.AvgPrice, &s.MinPrice, &s.MaxPrice); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan stats row")
			return nil, fmt.Errorf("failed to scan product stats: %w", err)
		}
		stats = append(stats, s)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating stats rows")
		return nil, fmt.Errorf("error iterating product stats: %w", err)
	}

	return stats, nil
}

// Ping checks connectivity with PostgreSQL.
func (r *postgresProductRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

var pgKeyPattern = regexp.MustCompile(`Key \(([^)]+)\)=`)

// mapPgError converts constraint violations into store-layer errors. It
// returns nil for anything else.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}

	switch pgErr.Code {
	case "23505": // unique_violation
		if m := pgKeyPattern.FindStringSubmatch(pgErr.Detail); m != nil {
			fields := strings.Split(m[1], ",")
			for i := range fields {
				fields[i] = strings.TrimSpace(fields[i])
			}
			return model.NewDuplicateKeyError(fields...)
		}
		return model.NewDuplicateKeyError(constraintField(pgErr.ConstraintName, "_key", "_pkey"))
	case "23514": // check_violation
		field := constraintField(pgErr.ConstraintName, "_check")
		return model.NewValidationError(model.FieldError{
			Field:   field,
			Message: fmt.Sprintf("%s is invalid", field),
		})
	default:
		return nil
	}
}

// constraintField derives a column name from constraint names such as products_name_key.
func constraintField(constraint string, suffixes ...string) string {
	field := constraint
	for _, suffix := range suffixes {
		field = strings.TrimSuffix(field, suffix)
	}
	field = strings.TrimPrefix(field, "products")
	field = strings.TrimPrefix(field, "_")
	if field == "" {
		return "id"
	}
	return field
}

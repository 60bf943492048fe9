package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"product-api/internal/model"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// mongoProductRepository implements the ProductRepository interface using MongoDB.
type mongoProductRepository struct {
	collection *mongo.Collection
	logger     zerolog.Logger
}

// NewMongoProductRepository creates a new MongoDB-backed product repository and
// ensures the collection indexes exist.
func NewMongoProductRepository(ctx context.Context, db *mongo.Database, collection string, logger zerolog.Logger) (ProductRepository, error) {
	r := &mongoProductRepository{
		collection: db.Collection(collection),
		logger:     logger.With().Str("repository", "product").Str("store", "mongo").Logger(),
	}

	if err := r.ensureIndexes(ctx); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *mongoProductRepository) ensureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}

	names, err := r.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to create product indexes")
		return fmt.Errorf("failed to create product indexes: %w", err)
	}

	r.logger.Debug().Strs("indexes", names).Msg("product indexes ensured")

	return nil
}

// List retrieves one page of matching products, newest first.
func (r *mongoProductRepository) List(ctx context.Context, query model.ProductQuery) ([]model.Product, int64, error) {
	filter := bson.M{}
	if query.Category != "" {
		filter["category"] = query.Category
	}
	if query.Name != "" {
		filter["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(query.Name), Options: "i"}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(query.Skip()).
		SetLimit(int64(query.Limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error().Err(err).
			Int("page", query.Page).
			Int("limit", query.Limit).
			Msg("failed to query products")
		return nil, 0, fmt.Errorf("failed to query products: %w", err)
	}

	products := make([]model.Product, 0, query.Limit)
	if err := cursor.All(ctx, &products); err != nil {
		r.logger.Error().Err(err).Msg("failed to decode products")
		return nil, 0, fmt.Errorf("failed to decode products: %w", err)
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to count products")
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	return products, total, nil
}

// GetByID retrieves a single product by its ID.
func (r *mongoProductRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	var p model.Product
	err := r.collection.FindOne(ctx, bson.M{"id": id}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			r.logger.Debug().Str("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// Create inserts a new product.
func (r *mongoProductRepository) Create(ctx context.Context, product *model.Product) error {
	if err := checkProduct(product); err != nil {
		return err
	}

	if _, err := r.collection.InsertOne(ctx, product); err != nil {
		if dupErr := mongoDuplicateKeyError(err); dupErr != nil {
			r.logger.Debug().Strs("fields", dupErr.Fields).Msg("duplicate product")
			return dupErr
		}
		r.logger.Error().Err(err).Str("product_id", product.ID).Msg("failed to insert product")
		return fmt.Errorf("failed to insert product: %w", err)
	}

	return nil
}

// Replace overwrites the mutable fields of a product.
func (r *mongoProductRepository) Replace(ctx context.Context, id string, input model.ProductInput) (*model.Product, error) {
	if err := checkInput(input); err != nil {
		return nil, err
	}

	set := bson.M{
		"name":        input.Name,
		"description": input.Description,
		"price":       input.Price,
		"category":    input.Category,
	}
	if input.InStock != nil {
		set["inStock"] = *input.InStock
	}

	return r.findOneAndSet(ctx, id, set)
}

// UpdatePrice changes only the price of a product.
func (r *mongoProductRepository) UpdatePrice(ctx context.Context, id string, price float64) (*model.Product, error) {
	if err := checkPrice(price); err != nil {
		return nil, err
	}

	return r.findOneAndSet(ctx, id, bson.M{"price": price})
}

func (r *mongoProductRepository) findOneAndSet(ctx context.Context, id string, set bson.M) (*model.Product, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var p model.Product
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": set}, opts).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			r.logger.Debug().Str("product_id", id).Msg("product not found for update")
			return nil, nil
		}
		if dupErr := mongoDuplicateKeyError(err); dupErr != nil {
			r.logger.Debug().Strs("fields", dupErr.Fields).Msg("duplicate product")
			return nil, dupErr
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to update product")
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return &p, nil
}

// Delete removes a product by its ID.
func (r *mongoProductRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.collection.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to delete product")
		return false, fmt.Errorf("failed to delete product: %w", err)
	}

	return res.DeletedCount > 0, nil
}

// Stats aggregates products per category.
func (r *mongoProductRepository) Stats(ctx context.Context) ([]model.CategoryStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$category"},
			{Key: "productCount", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "totalStock", Value: bson.D{{Key: "$sum", Value: bson.D{
				{Key: "$cond", Value: bson.A{"$inStock", 1, 0}},
			}}}},
			{Key: "avgPrice", Value: bson.D{{Key: "$avg", Value: "$price"}}},
			{Key: "minPrice", Value: bson.D{{Key: "$min", Value: "$price"}}},
			{Key: "maxPrice", Value: bson.D{{Key: "$max", Value: "$price"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to aggregate product stats")
		return nil, fmt.Errorf("failed to aggregate product stats: %w", err)
	}

	stats := make([]model.CategoryStats, 0)
	if err := cursor.All(ctx, &stats); err != nil {
		r.logger.Error().Err(err).Msg("failed to decode product stats")
		return nil, fmt.Errorf("failed to decode product stats: %w", err)
	}

	return stats, nil
}

// Ping checks connectivity with MongoDB.
func (r *mongoProductRepository) Ping(ctx context.Context) error {
	return r.collection.Database().Client().Ping(ctx, readpref.Primary())
}

var (
	dupKeyPattern   = regexp.MustCompile(`dup key: \{\s*(.*)\s*\}`)
	dupFieldPattern = regexp.MustCompile(`(?:^|,\s*)([\w.]+):`)
	dupIndexPattern = regexp.MustCompile(`index: ([\w.]+?)_-?1`)
)

// mongoDuplicateKeyError converts a MongoDB E11000 error into a DuplicateKeyError.
// It returns nil for any other error.
func mongoDuplicateKeyError(err error) *model.DuplicateKeyError {
	if !mongo.IsDuplicateKeyError(err) {
		return nil
	}

	var writeErr mongo.WriteException
	if errors.As(err, &writeErr) {
		for _, we := range writeErr.WriteErrors {
			if we.Code != 11000 {
				continue
			}
			if fields := keyValueFields(we.Raw); len(fields) > 0 {
				return model.NewDuplicateKeyError(fields...)
			}
			return model.NewDuplicateKeyError(fieldsFromMessage(we.Message)...)
		}
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		if fields := keyValueFields(cmdErr.Raw); len(fields) > 0 {
			return model.NewDuplicateKeyError(fields...)
		}
		return model.NewDuplicateKeyError(fieldsFromMessage(cmdErr.Message)...)
	}

	return model.NewDuplicateKeyError(fieldsFromMessage(err.Error())...)
}

// keyValueFields reads the field names from the keyValue document the server
// attaches to duplicate key errors.
func keyValueFields(raw bson.Raw) []string {
	if len(raw) == 0 {
		return nil
	}

	value, err := raw.LookupErr("keyValue")
	if err != nil {
		return nil
	}

	doc, ok := value.DocumentOK()
	if !ok {
		return nil
	}

	elems, err := doc.Elements()
	if err != nil {
		return nil
	}

	fields := make([]string, 0, len(elems))
	for _, elem := range elems {
		fields = append(fields, elem.Key())
	}
	return fields
}

// fieldsFromMessage parses "dup key: { name: \"Laptop\" }" style messages,
// falling back to the index name.
func fieldsFromMessage(msg string) []string {
	if m := dupKeyPattern.FindStringSubmatch(msg); m != nil {
		var fields []string
		for _, fm := range dupFieldPattern.FindAllStringSubmatch(strings.TrimSpace(m[1]), -1) {
			fields = append(fields, fm[1])
		}
		if len(fields) > 0 {
			return fields
		}
	}

	if m := dupIndexPattern.FindStringSubmatch(msg); m != nil {
		return []string{m[1]}
	}

	return nil
}

package main

import (
	"context"
	"fmt"

	"product-api/internal/config"
	"product-api/internal/database"
	"product-api/internal/events"
	"product-api/internal/repository"
	"product-api/internal/seed"

	"github.com/rs/zerolog"
)

// openStore connects to the configured store and returns the repository with
// a cleanup func that releases the connection.
func openStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (repository.ProductRepository, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		if err := database.Migrate(cfg.Database.URL, logger); err != nil {
			return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
		}

		pool, err := database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}

		return repository.NewPostgresProductRepository(pool, logger), pool.Close, nil

	default:
		client, err := database.NewMongoClient(ctx, cfg.Mongo, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize MongoDB: %w", err)
		}
		cleanup := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.Error().Err(err).Msg("failed to disconnect from MongoDB")
			}
		}

		repo, err := repository.NewMongoProductRepository(ctx, client.Database(cfg.Mongo.Database), cfg.Mongo.Collection, logger)
		if err != nil {
			cleanup()
			return nil, nil, err
		}

		return repo, cleanup, nil
	}
}

// newPublisher connects to RabbitMQ when events are enabled. Connection
// failures degrade to a no-op publisher.
func newPublisher(cfg *config.Config, logger zerolog.Logger) events.Publisher {
	if !cfg.Events.Enabled {
		logger.Info().Msg("product events disabled")
		return events.NopPublisher{}
	}

	publisher, err := events.NewAMQPPublisher(cfg.Events.RabbitMQURL, cfg.Events.Exchange, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to connect to RabbitMQ, product events disabled")
		return events.NopPublisher{}
	}

	return publisher
}

// newSeedLoader builds the seed loader, trying S3 before the local file system when enabled.
func newSeedLoader(ctx context.Context, cfg *config.Config, logger zerolog.Logger) seed.Loader {
	fileLoader := seed.NewFileLoader(logger)

	if !cfg.S3.Enabled {
		logger.Debug().Msg("using local file system for seed data (S3 disabled)")
		return fileLoader
	}

	s3Loader, err := seed.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to initialise S3 loader, falling back to local file system only")
		return fileLoader
	}

	return seed.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, true, logger)
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"product-api/internal/config"
	"product-api/internal/handler"
	"product-api/internal/router"
	"product-api/internal/seed"
	"product-api/internal/service"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newServeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().IntP("port", "p", 0, "Port to run the server on")
	cmd.Flags().String("host", "", "Host to bind the server to")
	cmd.Flags().Bool("seed", false, "Seed sample products into an empty store on start")
	_ = v.BindPFlag("PORT", cmd.Flags().Lookup("port"))
	_ = v.BindPFlag("SERVER_HOST", cmd.Flags().Lookup("host"))
	_ = v.BindPFlag("SEED_ENABLED", cmd.Flags().Lookup("seed"))

	return cmd
}

func runServe(parent context.Context, cfg *config.Config) error {
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Str("store", cfg.Store.Driver).Msg("starting product API server")

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	productRepo, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	publisher := newPublisher(cfg, logger)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close event publisher")
		}
	}()

	productService := service.NewProductService(productRepo, publisher, logger)

	if cfg.Seed.Enabled {
		seeder := seed.NewSeeder(newSeedLoader(ctx, cfg, logger), productService, logger)
		if _, err := seeder.Seed(ctx, cfg.Seed.File); err != nil {
			logger.Warn().Err(err).Str("file", cfg.Seed.File).Msg("failed to seed products")
		}
	}

	translator := handler.NewErrorTranslator(logger)
	productHandler := handler.NewProductHandler(productService, logger)
	healthHandler := handler.NewHealthHandler(productService, logger)

	mux := router.New(productHandler, healthHandler, translator, router.Options{
		APIKey:         cfg.Auth.APIKey,
		JWTSecret:      cfg.Auth.JWTSecret,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, logger)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

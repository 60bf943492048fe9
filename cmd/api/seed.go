package main

import (
	"context"
	"fmt"

	"product-api/internal/config"
	"product-api/internal/seed"
	"product-api/internal/service"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newSeedCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load sample products into an empty store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			return runSeed(cmd.Context(), cfg, cmd)
		},
	}

	cmd.Flags().StringP("file", "f", "", "Seed file (JSON array, optionally gzipped)")
	_ = v.BindPFlag("SEED_FILE", cmd.Flags().Lookup("file"))

	return cmd
}

func runSeed(ctx context.Context, cfg *config.Config, cmd *cobra.Command) error {
	logger := config.NewLogger(cfg.Logger)

	productRepo, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	publisher := newPublisher(cfg, logger)
	defer func() { _ = publisher.Close() }()

	productService := service.NewProductService(productRepo, publisher, logger)
	seeder := seed.NewSeeder(newSeedLoader(ctx, cfg, logger), productService, logger)

	count, err := seeder.Seed(ctx, cfg.Seed.File)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d products from %s\n", count, cfg.Seed.File)
	return nil
}

package main

import (
	"fmt"

	"product-api/internal/config"
	"product-api/internal/database"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newMigrateCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending PostgreSQL schema migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			if cfg.Store.Driver != config.DriverPostgres {
				return fmt.Errorf("migrations only apply to the %s store (STORE_DRIVER=%s)", config.DriverPostgres, cfg.Store.Driver)
			}

			logger := config.NewLogger(cfg.Logger)
			if err := database.Migrate(cfg.Database.URL, logger); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Migrations completed successfully")
			return nil
		},
	}
}

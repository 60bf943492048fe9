package main

import (
	"fmt"

	"product-api/internal/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// newRootCmd builds the command tree. Every command reads its settings from
// the environment through v, with flags layered on top.
func newRootCmd() *cobra.Command {
	v := viper.New()
	config.SetDefaults(v)
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "product-api",
		Short:         "Product catalogue REST API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	root.PersistentFlags().String("store", "", "Store driver (mongo or postgres)")
	_ = v.BindPFlag("LOG_LEVEL", root.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("STORE_DRIVER", root.PersistentFlags().Lookup("store"))

	root.AddCommand(
		newServeCmd(v),
		newSeedCmd(v),
		newMigrateCmd(v),
	)

	return root
}

func loadConfig(v *viper.Viper) (*config.Config, error) {
	cfg, err := config.FromViper(v)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

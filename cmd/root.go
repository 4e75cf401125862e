package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"catalog-console/config"
	"catalog-console/logging"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog-console",
		Short: "Admin console backend and PDF catalog generator",
		Long: `catalog-console serves the admin API for products, categories, brands,
banners, administrators, contact messages and PDF catalogs, and renders
catalog definitions into paginated PDF documents.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = config.LoadEnvFile(".env")
		},
	}

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newGenerateCmd())

	return cmd
}

// loadConfig reads the environment and builds the logger every command uses
func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.IsProduction())
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

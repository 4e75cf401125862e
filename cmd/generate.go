package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"catalog-console/config"
	"catalog-console/db"
	"catalog-console/models"
	"catalog-console/repository"
	"catalog-console/service"
)

func newGenerateCmd() *cobra.Command {
	var (
		catalogID     string
		snapshotPath  string
		outDir        string
		assetEndpoint string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Render one catalog to a PDF file",
		Long: `Renders a catalog into a PDF file in the output directory.

The catalog is read either from the database (--catalog) or from a snapshot
file holding the catalog together with its products and categories
(--snapshot, YAML or JSON).`,
		Example: `  # Render a stored catalog
  catalog-console generate --catalog 6f1c... --out ./dist

  # Render a snapshot file, fetching images from a deployed server
  catalog-console generate --snapshot spring.yaml --asset-endpoint https://shop.example.com/getImageBase64`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (catalogID == "") == (snapshotPath == "") {
				return errors.New("exactly one of --catalog or --snapshot is required")
			}

			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			defer logger.Sync()

			if assetEndpoint != "" {
				cfg.AssetEndpoint = assetEndpoint
			}

			ctx := cmd.Context()
			var snapshot *models.CatalogSnapshot
			if snapshotPath != "" {
				snapshot, err = readSnapshot(snapshotPath)
			} else {
				snapshot, err = loadStoredSnapshot(ctx, cfg, catalogID, logger)
			}
			if err != nil {
				return err
			}

			resolver := service.NewAssetResolver(cfg.AssetEndpoint, cfg.AssetFetchTimeout, logger)
			generator := service.NewCatalogService(nil, nil, nil, resolver, service.NewImageOptimizer(), logger)

			var buf bytes.Buffer
			result, err := generator.Generate(ctx, *snapshot, &buf)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			outPath := filepath.Join(outDir, result.FileName)
			if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", outPath, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d pages, %d categories, %d products)\n",
				outPath, result.PageCount, result.Categories, result.Products)
			return nil
		},
	}

	cmd.Flags().StringVar(&catalogID, "catalog", "", "ID of a stored catalog")
	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "Snapshot file (YAML or JSON)")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "Output directory")
	cmd.Flags().StringVar(&assetEndpoint, "asset-endpoint", "", "Asset retrieval endpoint (overrides ASSET_ENDPOINT)")

	return cmd
}

// readSnapshot decodes a snapshot file; JSON input is read as YAML
func readSnapshot(path string) (*models.CatalogSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snapshot models.CatalogSnapshot
	if err := yaml.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", path, err)
	}
	return &snapshot, nil
}

func loadStoredSnapshot(ctx context.Context, cfg *config.Config, catalogID string, logger *zap.Logger) (*models.CatalogSnapshot, error) {
	conn, err := db.Open(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	loader := service.NewCatalogService(
		repository.NewCatalogRepository(conn, logger),
		repository.NewProductRepository(conn, logger),
		repository.NewCategoryRepository(conn, logger),
		nil, nil, logger,
	)
	return loader.LoadSnapshot(ctx, catalogID)
}

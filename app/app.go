package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"catalog-console/app/controller"
	"catalog-console/app/router"
	"catalog-console/config"
	"catalog-console/db"
	"catalog-console/models"
	"catalog-console/repository"
	"catalog-console/service"
)

// App holds the HTTP handler and the resources it owns
type App struct {
	Handler http.Handler

	conn  *sql.DB
	cache *service.RedisAssetCache
}

// Close releases the database connection and the cache client
func (a *App) Close() {
	if a.cache != nil {
		a.cache.Close()
	}
	if a.conn != nil {
		a.conn.Close()
	}
}

// Initialize connects to the database and object store and builds the route table
func Initialize(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	conn, err := db.Open(ctx, cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	a := &App{conn: conn}

	if err := db.EnsureSchema(ctx, conn); err != nil {
		a.Close()
		return nil, err
	}

	store, err := NewObjectStore(ctx, cfg.Storage, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	var cache service.AssetCacheInterface
	if cfg.RedisURL != "" {
		redisCache, err := service.NewRedisAssetCache(ctx, cfg.RedisURL, cfg.AssetCacheTTL)
		if err != nil {
			logger.Warn("⚠️ Asset cache disabled", zap.Error(err))
		} else {
			logger.Info("✓ Asset cache connected", zap.Duration("ttl", cfg.AssetCacheTTL))
			a.cache = redisCache
			cache = redisCache
		}
	}

	// Initialize repositories
	products := repository.NewProductRepository(conn, logger)
	categories := repository.NewCategoryRepository(conn, logger)
	brands := repository.NewBrandRepository(conn, logger)
	banners := repository.NewBannerRepository(conn, logger)
	admins := repository.NewAdminRepository(conn, logger)
	contactMessages := repository.NewContactMessageRepository(conn, logger)
	catalogs := repository.NewCatalogRepository(conn, logger)

	// Initialize services
	resolver := service.NewAssetResolver(cfg.AssetEndpoint, cfg.AssetFetchTimeout, logger)
	catalogService := service.NewCatalogService(catalogs, products, categories, resolver, service.NewImageOptimizer(), logger)
	orderService := service.NewCatalogOrderService(catalogs, products, categories, logger)
	previewService := service.NewPreviewService(cfg.BaseURL, cfg.ChromePath, logger)
	proxyService := service.NewAssetProxyService(store, cache, logger)

	controllers := &router.Controllers{
		Products:        controller.NewProductController(products, logger),
		Categories:      controller.NewCollectionController[models.Category]("category", categories, logger),
		Brands:          controller.NewCollectionController[models.Brand]("brand", brands, logger),
		Banners:         controller.NewBannerController(banners, logger),
		Admins:          controller.NewAdminController(admins, logger),
		ContactMessages: controller.NewContactMessageController(contactMessages, logger),
		Catalogs: controller.NewCatalogController(
			controller.NewCollectionController[models.PDFCatalog]("catalog", catalogs, logger),
			catalogService, orderService, previewService,
		),
		Assets: controller.NewAssetController(proxyService, logger),
	}

	mux := http.NewServeMux()
	router.SetupRoutes(mux, controllers)
	a.Handler = router.LogRequests(mux, logger)

	logger.Info("✓ Application initialized", zap.String("assetEndpoint", cfg.AssetEndpoint))
	return a, nil
}

// NewObjectStore picks Cloud Storage when a bucket is configured, a local directory otherwise.
// It returns nil when neither is set; the asset endpoint then answers with errors.
func NewObjectStore(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (service.ObjectStoreInterface, error) {
	switch {
	case cfg.Bucket != "":
		store, err := service.NewCloudStorage(ctx, cfg.Bucket, cfg.CredentialsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize cloud storage: %w", err)
		}
		logger.Info("✓ Cloud Storage object store", zap.String("bucket", cfg.Bucket))
		return store, nil
	case cfg.Dir != "":
		logger.Info("✓ Local object store", zap.String("dir", cfg.Dir))
		return service.NewFileObjectStore(cfg.Dir), nil
	default:
		logger.Warn("⚠️ No object store configured, set STORAGE_BUCKET or STORAGE_DIR")
		return nil, nil
	}
}

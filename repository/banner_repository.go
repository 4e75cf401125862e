package repository

import (
	"context"
	"database/sql"
	"slices"

	"go.uber.org/zap"

	"catalog-console/models"
)

// BannerRepository handles storage of storefront banners
type BannerRepository struct {
	*DocumentCollection[models.Banner, *models.Banner]
}

// NewBannerRepository creates a new BannerRepository
func NewBannerRepository(conn *sql.DB, logger *zap.Logger) *BannerRepository {
	return &BannerRepository{
		DocumentCollection: NewDocumentCollection[models.Banner](conn, "banners", logger),
	}
}

// Ensure BannerRepository implements BannerRepositoryInterface
var _ BannerRepositoryInterface = (*BannerRepository)(nil)

// GetByPage returns the active banners shown on page, including banners shown on every page,
// sorted by their display order
func (r *BannerRepository) GetByPage(ctx context.Context, page string) ([]models.Banner, error) {
	banners, err := r.list(ctx,
		`WHERE data->>'page' IN ($1, $2) AND COALESCE((data->>'isActive')::boolean, false)`,
		page, models.BannerPageAll)
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(banners, func(a, b models.Banner) int {
		return a.Order - b.Order
	})
	return banners, nil
}

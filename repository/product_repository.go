package repository

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"catalog-console/models"
)

// ProductRepository handles storage of products
type ProductRepository struct {
	*DocumentCollection[models.Product, *models.Product]
}

// NewProductRepository creates a new ProductRepository
func NewProductRepository(conn *sql.DB, logger *zap.Logger) *ProductRepository {
	return &ProductRepository{
		DocumentCollection: NewDocumentCollection[models.Product](conn, "products", logger),
	}
}

// Ensure ProductRepository implements ProductRepositoryInterface
var _ ProductRepositoryInterface = (*ProductRepository)(nil)

// GetByCategory returns the products assigned to categoryID, newest first
func (r *ProductRepository) GetByCategory(ctx context.Context, categoryID string) ([]models.Product, error) {
	return r.list(ctx, `WHERE data->>'category' = $1`, categoryID)
}

// GetBestSellers returns active products flagged as best sellers
func (r *ProductRepository) GetBestSellers(ctx context.Context) ([]models.Product, error) {
	return r.list(ctx, `WHERE (data->>'isBestSeller')::boolean AND data->>'status' = $1`, models.StatusActive)
}

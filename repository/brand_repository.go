package repository

import (
	"database/sql"

	"go.uber.org/zap"

	"catalog-console/models"
)

// BrandRepository handles storage of brands
type BrandRepository struct {
	*DocumentCollection[models.Brand, *models.Brand]
}

func NewBrandRepository(conn *sql.DB, logger *zap.Logger) *BrandRepository {
	return &BrandRepository{
		DocumentCollection: NewDocumentCollection[models.Brand](conn, "brands", logger),
	}
}

var _ BrandRepositoryInterface = (*BrandRepository)(nil)

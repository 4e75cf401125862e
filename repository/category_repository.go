package repository

import (
	"database/sql"

	"go.uber.org/zap"

	"catalog-console/models"
)

// CategoryRepository handles storage of categories
type CategoryRepository struct {
	*DocumentCollection[models.Category, *models.Category]
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(conn *sql.DB, logger *zap.Logger) *CategoryRepository {
	return &CategoryRepository{
		DocumentCollection: NewDocumentCollection[models.Category](conn, "categories", logger),
	}
}

// Ensure CategoryRepository implements CategoryRepositoryInterface
var _ CategoryRepositoryInterface = (*CategoryRepository)(nil)

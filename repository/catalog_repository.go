package repository

import (
	"database/sql"

	"go.uber.org/zap"

	"catalog-console/models"
)

// CatalogRepository handles storage of PDF catalog definitions
type CatalogRepository struct {
	*DocumentCollection[models.PDFCatalog, *models.PDFCatalog]
}

// NewCatalogRepository creates a new CatalogRepository
func NewCatalogRepository(conn *sql.DB, logger *zap.Logger) *CatalogRepository {
	return &CatalogRepository{
		DocumentCollection: NewDocumentCollection[models.PDFCatalog](conn, "pdf_catalogs", logger),
	}
}

// Ensure CatalogRepository implements CatalogRepositoryInterface
var _ CatalogRepositoryInterface = (*CatalogRepository)(nil)

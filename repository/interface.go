package repository

import (
	"context"
	"errors"

	"catalog-console/models"
)

// ErrNotFound is returned when no document has the requested id
var ErrNotFound = errors.New("document not found")

// Collection defines the data-access capabilities every stored entity type offers
type Collection[T any] interface {
	// GetAll returns every document, newest first
	GetAll(ctx context.Context) ([]T, error)
	GetByID(ctx context.Context, id string) (*T, error)
	// Create assigns a new id and timestamps to item, stores it and returns the id
	Create(ctx context.Context, item *T) (string, error)
	// Update merges the given top-level fields into the stored document
	Update(ctx context.Context, id string, changes map[string]any) error
	Delete(ctx context.Context, id string) error
	// BulkCreate stores all items in one transaction
	BulkCreate(ctx context.Context, items []T) error
}

// ProductRepositoryInterface defines the contract for product storage
type ProductRepositoryInterface interface {
	Collection[models.Product]
	GetByCategory(ctx context.Context, categoryID string) ([]models.Product, error)
	GetBestSellers(ctx context.Context) ([]models.Product, error)
}

// CategoryRepositoryInterface defines the contract for category storage
type CategoryRepositoryInterface interface {
	Collection[models.Category]
}

// BrandRepositoryInterface defines the contract for brand storage
type BrandRepositoryInterface interface {
	Collection[models.Brand]
}

// BannerRepositoryInterface defines the contract for banner storage
type BannerRepositoryInterface interface {
	Collection[models.Banner]
	GetByPage(ctx context.Context, page string) ([]models.Banner, error)
}

// AdminRepositoryInterface defines the contract for administrator storage
type AdminRepositoryInterface interface {
	Collection[models.Admin]
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
}

// ContactMessageRepositoryInterface defines the contract for contact message storage
type ContactMessageRepositoryInterface interface {
	Collection[models.ContactMessage]
	UpdateStatus(ctx context.Context, id string, status string) error
}

// CatalogRepositoryInterface defines the contract for PDF catalog storage
type CatalogRepositoryInterface interface {
	Collection[models.PDFCatalog]
}

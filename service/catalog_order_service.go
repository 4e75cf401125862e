package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"catalog-console/models"
	"catalog-console/repository"
)

var (
	// ErrOrderEntryNotFound is returned when a catalog has no entry for the category or product
	ErrOrderEntryNotFound = errors.New("catalog entry not found")
	// ErrInvalidOrder is returned for positions below 1
	ErrInvalidOrder = errors.New("order must be a positive number")
)

// CatalogOrderServiceInterface defines maintenance of a catalog's category and product orders
type CatalogOrderServiceInterface interface {
	SyncCatalogOrders(ctx context.Context, catalogID string) (*models.CatalogSyncResult, error)
	UpdateCategoryOrder(ctx context.Context, catalogID, categoryID string, update models.CategoryOrderUpdate) (*models.PDFCatalog, error)
	UpdateProductOrder(ctx context.Context, catalogID, categoryID, productID string, update models.ProductOrderUpdate) (*models.PDFCatalog, error)
}

// CatalogOrderService keeps catalog orders in step with the product and category collections
type CatalogOrderService struct {
	catalogs   repository.CatalogRepositoryInterface
	products   repository.ProductRepositoryInterface
	categories repository.CategoryRepositoryInterface
	logger     *zap.Logger
}

// NewCatalogOrderService creates a new CatalogOrderService
func NewCatalogOrderService(
	catalogs repository.CatalogRepositoryInterface,
	products repository.ProductRepositoryInterface,
	categories repository.CategoryRepositoryInterface,
	logger *zap.Logger,
) *CatalogOrderService {
	return &CatalogOrderService{
		catalogs:   catalogs,
		products:   products,
		categories: categories,
		logger:     logger,
	}
}

// Ensure CatalogOrderService implements CatalogOrderServiceInterface
var _ CatalogOrderServiceInterface = (*CatalogOrderService)(nil)

// SyncCatalogOrders seeds an empty catalog from the active categories and products,
// or appends the ones it does not list yet and refreshes display names.
func (s *CatalogOrderService) SyncCatalogOrders(ctx context.Context, catalogID string) (*models.CatalogSyncResult, error) {
	s.logger.Info("🔄 Syncing catalog orders", zap.String("catalog", catalogID))

	catalog, err := s.getCatalog(ctx, catalogID)
	if err != nil {
		return nil, err
	}
	categories, err := s.categories.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	products, err := s.products.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	result := &models.CatalogSyncResult{CatalogID: catalogID}
	if len(catalog.Categories) == 0 {
		catalog.Categories = SeedCategoryOrders(categories, products)
		result.Seeded = true
		result.AddedCategories = len(catalog.Categories)
		for _, c := range catalog.Categories {
			result.AddedProducts += len(c.Products)
		}
	} else {
		catalog.Categories, result.AddedCategories, result.AddedProducts = MergeCategoryOrders(catalog.Categories, categories, products)
	}

	if err := s.saveOrders(ctx, catalogID, catalog.Categories); err != nil {
		return nil, err
	}

	result.TotalCategories = len(catalog.Categories)
	for _, c := range catalog.Categories {
		for _, p := range c.Products {
			if p.Included {
				result.IncludedProducts++
			}
		}
	}

	s.logger.Info("✅ Catalog orders synced",
		zap.String("catalog", catalogID),
		zap.Bool("seeded", result.Seeded),
		zap.Int("addedCategories", result.AddedCategories),
		zap.Int("addedProducts", result.AddedProducts))
	return result, nil
}

// UpdateCategoryOrder changes the position or page-break flag of one category entry
func (s *CatalogOrderService) UpdateCategoryOrder(ctx context.Context, catalogID, categoryID string, update models.CategoryOrderUpdate) (*models.PDFCatalog, error) {
	if update.Order != nil && *update.Order < 1 {
		return nil, ErrInvalidOrder
	}

	catalog, err := s.getCatalog(ctx, catalogID)
	if err != nil {
		return nil, err
	}

	i := slices.IndexFunc(catalog.Categories, func(c models.CategoryOrder) bool {
		return c.CategoryID == categoryID
	})
	if i < 0 {
		return nil, ErrOrderEntryNotFound
	}

	if update.Order != nil {
		catalog.Categories[i].Order = *update.Order
	}
	if update.StartNewPage != nil {
		catalog.Categories[i].StartNewPage = *update.StartNewPage
	}
	sortCategoryOrders(catalog.Categories)

	if err := s.saveOrders(ctx, catalogID, catalog.Categories); err != nil {
		return nil, err
	}
	return catalog, nil
}

// UpdateProductOrder changes the position or inclusion of one product entry
func (s *CatalogOrderService) UpdateProductOrder(ctx context.Context, catalogID, categoryID, productID string, update models.ProductOrderUpdate) (*models.PDFCatalog, error) {
	if update.Order != nil && *update.Order < 1 {
		return nil, ErrInvalidOrder
	}

	catalog, err := s.getCatalog(ctx, catalogID)
	if err != nil {
		return nil, err
	}

	ci := slices.IndexFunc(catalog.Categories, func(c models.CategoryOrder) bool {
		return c.CategoryID == categoryID
	})
	if ci < 0 {
		return nil, ErrOrderEntryNotFound
	}
	products := catalog.Categories[ci].Products
	pi := slices.IndexFunc(products, func(p models.ProductOrder) bool {
		return p.ProductID == productID
	})
	if pi < 0 {
		return nil, ErrOrderEntryNotFound
	}

	if update.Order != nil {
		products[pi].Order = *update.Order
	}
	if update.Included != nil {
		products[pi].Included = *update.Included
	}
	sortProductOrders(products)

	if err := s.saveOrders(ctx, catalogID, catalog.Categories); err != nil {
		return nil, err
	}
	return catalog, nil
}

func (s *CatalogOrderService) getCatalog(ctx context.Context, catalogID string) (*models.PDFCatalog, error) {
	catalog, err := s.catalogs.GetByID(ctx, catalogID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCatalogNotFound
		}
		return nil, fmt.Errorf("failed to load catalog %s: %w", catalogID, err)
	}
	return catalog, nil
}

func (s *CatalogOrderService) saveOrders(ctx context.Context, catalogID string, orders []models.CategoryOrder) error {
	if err := s.catalogs.Update(ctx, catalogID, map[string]any{"categories": orders}); err != nil {
		s.logger.Error("❌ Error saving catalog orders", zap.String("catalog", catalogID), zap.Error(err))
		return fmt.Errorf("failed to save catalog %s: %w", catalogID, err)
	}
	return nil
}

// SeedCategoryOrders builds the initial orders of a catalog: every active category in the
// given sequence, each starting a new page, with all of its active products included.
func SeedCategoryOrders(categories []models.Category, products []models.Product) []models.CategoryOrder {
	byCategory := activeProductsByCategory(products)

	orders := []models.CategoryOrder{}
	for _, category := range categories {
		if !category.IsActive() {
			continue
		}
		entry := models.CategoryOrder{
			CategoryID:   category.ID,
			CategoryName: category.Name,
			Order:        len(orders) + 1,
			StartNewPage: true,
			Products:     []models.ProductOrder{},
		}
		for i, product := range byCategory[category.ID] {
			entry.Products = append(entry.Products, models.ProductOrder{
				ProductID:    product.ID,
				ProductTitle: product.Title,
				Order:        i + 1,
				Included:     true,
			})
		}
		orders = append(orders, entry)
	}
	return orders
}

// MergeCategoryOrders appends active categories and products missing from existing after the
// last position, refreshes display names and returns how many entries were added.
// existing is not modified.
func MergeCategoryOrders(existing []models.CategoryOrder, categories []models.Category, products []models.Product) ([]models.CategoryOrder, int, int) {
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	titles := make(map[string]string, len(products))
	for _, p := range products {
		titles[p.ID] = p.Title
	}
	byCategory := activeProductsByCategory(products)

	merged := make([]models.CategoryOrder, len(existing))
	listed := make(map[string]bool, len(existing))
	addedProducts := 0
	for i, entry := range existing {
		entry.Products = slices.Clone(entry.Products)
		if name, ok := names[entry.CategoryID]; ok {
			entry.CategoryName = name
		}

		present := make(map[string]bool, len(entry.Products))
		last := 0
		for j := range entry.Products {
			present[entry.Products[j].ProductID] = true
			last = max(last, entry.Products[j].Order)
			if title, ok := titles[entry.Products[j].ProductID]; ok {
				entry.Products[j].ProductTitle = title
			}
		}
		for _, product := range byCategory[entry.CategoryID] {
			if present[product.ID] {
				continue
			}
			last++
			entry.Products = append(entry.Products, models.ProductOrder{
				ProductID:    product.ID,
				ProductTitle: product.Title,
				Order:        last,
				Included:     true,
			})
			addedProducts++
		}

		listed[entry.CategoryID] = true
		merged[i] = entry
	}

	last := 0
	for _, entry := range merged {
		last = max(last, entry.Order)
	}
	addedCategories := 0
	for _, category := range categories {
		if !category.IsActive() || listed[category.ID] {
			continue
		}
		last++
		seeded := SeedCategoryOrders([]models.Category{category}, byCategory[category.ID])[0]
		seeded.Order = last
		merged = append(merged, seeded)
		addedCategories++
		addedProducts += len(seeded.Products)
	}

	sortCategoryOrders(merged)
	return merged, addedCategories, addedProducts
}

func activeProductsByCategory(products []models.Product) map[string][]models.Product {
	byCategory := make(map[string][]models.Product)
	for _, p := range products {
		if p.IsActive() {
			byCategory[p.Category] = append(byCategory[p.Category], p)
		}
	}
	return byCategory
}

func sortCategoryOrders(orders []models.CategoryOrder) {
	slices.SortStableFunc(orders, func(a, b models.CategoryOrder) int {
		return a.Order - b.Order
	})
}

func sortProductOrders(orders []models.ProductOrder) {
	slices.SortStableFunc(orders, func(a, b models.ProductOrder) int {
		return a.Order - b.Order
	})
}

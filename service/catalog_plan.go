package service

import (
	"cmp"
	"slices"

	"catalog-console/models"
)

// PlannedProduct is a product as it will appear in the catalog
type PlannedProduct struct {
	Number  int
	Product models.Product
}

// PlannedCategory is a category section as it will appear in the catalog
type PlannedCategory struct {
	Number       int
	Category     models.Category
	StartNewPage bool
	Products     []PlannedProduct
	// Configured is the number of product entries in the stored configuration, included or not
	Configured int
}

// CatalogPlan is the resolved, filtered and numbered content of a catalog
type CatalogPlan struct {
	Catalog    models.PDFCatalog
	Categories []PlannedCategory
}

// ProductCount returns the number of products the plan renders
func (p CatalogPlan) ProductCount() int {
	n := 0
	for _, c := range p.Categories {
		n += len(c.Products)
	}
	return n
}

// BuildCatalogPlan resolves the catalog's category and product orders against the snapshot.
// Entries pointing at missing entities are dropped, excluded products are dropped,
// the rest is sorted by order (stable on ties) and numbered from 1 by rendered position.
// The snapshot is not modified.
func BuildCatalogPlan(snapshot models.CatalogSnapshot) CatalogPlan {
	categories := make(map[string]models.Category, len(snapshot.Categories))
	for _, c := range snapshot.Categories {
		categories[c.ID] = c
	}
	products := make(map[string]models.Product, len(snapshot.Products))
	for _, p := range snapshot.Products {
		products[p.ID] = p
	}

	orders := make([]models.CategoryOrder, 0, len(snapshot.Catalog.Categories))
	for _, co := range snapshot.Catalog.Categories {
		if _, ok := categories[co.CategoryID]; ok {
			orders = append(orders, co)
		}
	}
	slices.SortStableFunc(orders, func(a, b models.CategoryOrder) int {
		return cmp.Compare(a.Order, b.Order)
	})

	plan := CatalogPlan{Catalog: snapshot.Catalog}
	for i, co := range orders {
		planned := PlannedCategory{
			Number:       i + 1,
			Category:     categories[co.CategoryID],
			StartNewPage: co.StartNewPage,
			Configured:   len(co.Products),
		}

		included := make([]models.ProductOrder, 0, len(co.Products))
		for _, po := range co.Products {
			if !po.Included {
				continue
			}
			if _, ok := products[po.ProductID]; ok {
				included = append(included, po)
			}
		}
		slices.SortStableFunc(included, func(a, b models.ProductOrder) int {
			return cmp.Compare(a.Order, b.Order)
		})

		for j, po := range included {
			planned.Products = append(planned.Products, PlannedProduct{
				Number:  j + 1,
				Product: products[po.ProductID],
			})
		}
		plan.Categories = append(plan.Categories, planned)
	}

	return plan
}

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-console/models"
)

func TestBuildCatalogPlan(t *testing.T) {
	snapshot := models.CatalogSnapshot{
		Catalog: models.PDFCatalog{
			Categories: []models.CategoryOrder{
				{CategoryID: "b", Order: 2, Products: []models.ProductOrder{
					{ProductID: "p3", Order: 2, Included: true},
					{ProductID: "p2", Order: 1, Included: true},
				}},
				{CategoryID: "missing", Order: 1},
				{CategoryID: "a", Order: 1, StartNewPage: true, Products: []models.ProductOrder{
					{ProductID: "p1", Order: 1, Included: false},
					{ProductID: "ghost", Order: 2, Included: true},
					{ProductID: "p4", Order: 3, Included: true},
				}},
			},
		},
		Categories: []models.Category{category("a", "Alpha"), category("b", "Beta")},
		Products: []models.Product{
			product("p1", "One", "a"),
			product("p2", "Two", "b"),
			product("p3", "Three", "b"),
			product("p4", "Four", "a"),
		},
	}

	plan := BuildCatalogPlan(snapshot)

	require.Len(t, plan.Categories, 2)

	alpha := plan.Categories[0]
	assert.Equal(t, 1, alpha.Number)
	assert.Equal(t, "Alpha", alpha.Category.Name)
	assert.True(t, alpha.StartNewPage)
	assert.Equal(t, 3, alpha.Configured)
	require.Len(t, alpha.Products, 1)
	assert.Equal(t, PlannedProduct{Number: 1, Product: snapshot.Products[3]}, alpha.Products[0])

	beta := plan.Categories[1]
	assert.Equal(t, 2, beta.Number)
	require.Len(t, beta.Products, 2)
	assert.Equal(t, "Two", beta.Products[0].Product.Title)
	assert.Equal(t, "Three", beta.Products[1].Product.Title)
	assert.Equal(t, 2, beta.Products[1].Number)

	assert.Equal(t, 3, plan.ProductCount())
	assert.Equal(t, "b", snapshot.Catalog.Categories[0].CategoryID, "input order is untouched")
}

func TestBuildCatalogPlan_TiesKeepStoredOrder(t *testing.T) {
	snapshot := models.CatalogSnapshot{
		Catalog: models.PDFCatalog{
			Categories: []models.CategoryOrder{
				{CategoryID: "b", Order: 1},
				{CategoryID: "a", Order: 1},
			},
		},
		Categories: []models.Category{category("a", "Alpha"), category("b", "Beta")},
	}

	plan := BuildCatalogPlan(snapshot)

	require.Len(t, plan.Categories, 2)
	assert.Equal(t, "Beta", plan.Categories[0].Category.Name)
	assert.Equal(t, "Alpha", plan.Categories[1].Category.Name)
}

func TestBuildCatalogPlan_Empty(t *testing.T) {
	plan := BuildCatalogPlan(models.CatalogSnapshot{})
	assert.Empty(t, plan.Categories)
	assert.Zero(t, plan.ProductCount())
}

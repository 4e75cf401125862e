package models

import "encoding/json"

// PDFCatalog is the configuration of a generated PDF product catalog
type PDFCatalog struct {
	Meta       `yaml:",inline"`
	Name       string          `json:"name" yaml:"name"`
	Version    string          `json:"version" yaml:"version"`
	IsActive   bool            `json:"isActive" yaml:"isActive"`
	CoverPage  string          `json:"coverPage,omitempty" yaml:"coverPage,omitempty"` // Stored-object reference
	BackPage   string          `json:"backPage,omitempty" yaml:"backPage,omitempty"`   // Stored-object reference
	Categories []CategoryOrder `json:"categories" yaml:"categories"`
}

// CategoryOrder places a category in the catalog
type CategoryOrder struct {
	CategoryID   string         `json:"categoryId" yaml:"categoryId"`
	CategoryName string         `json:"categoryName,omitempty" yaml:"categoryName,omitempty"` // Display only
	Order        int            `json:"order" yaml:"order"`
	StartNewPage bool           `json:"startNewPage" yaml:"startNewPage"`
	Products     []ProductOrder `json:"products" yaml:"products"`
}

// ProductOrder places a product inside its category section
type ProductOrder struct {
	ProductID    string `json:"productId" yaml:"productId"`
	ProductTitle string `json:"productTitle,omitempty" yaml:"productTitle,omitempty"` // Display only
	Order        int    `json:"order" yaml:"order"`
	Included     bool   `json:"included" yaml:"included"`
}

// UnmarshalJSON accepts "newPageStart" as a spelling of "startNewPage"
func (c *CategoryOrder) UnmarshalJSON(data []byte) error {
	type alias CategoryOrder
	aux := struct {
		*alias
		StartNewPage *bool `json:"startNewPage"`
		NewPageStart *bool `json:"newPageStart"`
	}{alias: (*alias)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	switch {
	case aux.StartNewPage != nil:
		c.StartNewPage = *aux.StartNewPage
	case aux.NewPageStart != nil:
		c.StartNewPage = *aux.NewPageStart
	}
	return nil
}

// UnmarshalJSON accepts "includeInCatalog" as a spelling of "included"
func (p *ProductOrder) UnmarshalJSON(data []byte) error {
	type alias ProductOrder
	aux := struct {
		*alias
		Included         *bool `json:"included"`
		IncludeInCatalog *bool `json:"includeInCatalog"`
	}{alias: (*alias)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	switch {
	case aux.Included != nil:
		p.Included = *aux.Included
	case aux.IncludeInCatalog != nil:
		p.Included = *aux.IncludeInCatalog
	}
	return nil
}

// CatalogSnapshot is everything catalog generation reads
type CatalogSnapshot struct {
	Catalog    PDFCatalog `json:"catalog" yaml:"catalog"`
	Products   []Product  `json:"products" yaml:"products"`
	Categories []Category `json:"categories" yaml:"categories"`
}

// CategoryOrderUpdate represents the request body for editing a catalog category entry
type CategoryOrderUpdate struct {
	Order        *int  `json:"order"`
	StartNewPage *bool `json:"startNewPage"`
}

// ProductOrderUpdate represents the request body for editing a catalog product entry
type ProductOrderUpdate struct {
	Order    *int  `json:"order"`
	Included *bool `json:"included"`
}

// CatalogSyncResult reports what a catalog order sync changed
type CatalogSyncResult struct {
	CatalogID        string `json:"catalogId"`
	Seeded           bool   `json:"seeded"`
	AddedCategories  int    `json:"addedCategories"`
	AddedProducts    int    `json:"addedProducts"`
	TotalCategories  int    `json:"totalCategories"`
	IncludedProducts int    `json:"includedProducts"`
}

// GenerationResult describes a generated catalog document
type GenerationResult struct {
	FileName   string `json:"fileName"`
	PageCount  int    `json:"pageCount"`
	Categories int    `json:"categories"`
	Products   int    `json:"products"`
}

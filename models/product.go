package models

// Product represents a sellable product
type Product struct {
	Meta         `yaml:",inline"`
	Title        string   `json:"title" yaml:"title"`
	Description  string   `json:"description" yaml:"description"`
	Category     string   `json:"category" yaml:"category"` // Category ID
	Brand        string   `json:"brand,omitempty" yaml:"brand,omitempty"`
	Image        string   `json:"image,omitempty" yaml:"image,omitempty"` // Stored-object reference
	Price        *float64 `json:"price,omitempty" yaml:"price,omitempty"`
	IsBestSeller bool     `json:"isBestSeller" yaml:"isBestSeller"`
	Status       string   `json:"status" yaml:"status"`
}

// IsActive reports whether the product is visible
func (p Product) IsActive() bool {
	return p.Status == StatusActive
}

package models

// Category groups products
type Category struct {
	Meta         `yaml:",inline"`
	Name         string `json:"name" yaml:"name"`
	Description  string `json:"description" yaml:"description"`
	Image        string `json:"image,omitempty" yaml:"image,omitempty"`
	ProductCount int    `json:"productCount" yaml:"productCount"`
	Status       string `json:"status" yaml:"status"`
}

// IsActive reports whether the category is visible
func (c Category) IsActive() bool {
	return c.Status == StatusActive
}

package models

// Brand represents a product brand
type Brand struct {
	Meta        `yaml:",inline"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Logo        string `json:"logo,omitempty" yaml:"logo,omitempty"`
	Status      string `json:"status" yaml:"status"`
}

package models

// Banner types
const (
	BannerTypeHero    = "hero"
	BannerTypeSection = "section"
	BannerTypeSidebar = "sidebar"
	BannerTypeFooter  = "footer"
)

// BannerPageAll marks a banner shown on every page
const BannerPageAll = "all"

// Banner represents a promotional banner on the storefront
type Banner struct {
	Meta        `yaml:",inline"`
	Title       string   `json:"title" yaml:"title"`
	Image       string   `json:"image" yaml:"image"`
	Images      []string `json:"images,omitempty" yaml:"images,omitempty"` // Footer banners carry several images
	Type        string   `json:"type" yaml:"type"`
	Page        string   `json:"page" yaml:"page"` // home, products, about, contact or all
	Position    string   `json:"position" yaml:"position"`
	IsActive    bool     `json:"isActive" yaml:"isActive"`
	Order       int      `json:"order" yaml:"order"`
	Link        string   `json:"link,omitempty" yaml:"link,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
}

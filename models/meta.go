package models

import "time"

// Meta holds the fields every stored document carries
type Meta struct {
	ID        string    `json:"id" yaml:"id"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// SetMeta overwrites the identifier and timestamps with the stored values
func (m *Meta) SetMeta(id string, createdAt, updatedAt time.Time) {
	m.ID = id
	m.CreatedAt = createdAt
	m.UpdatedAt = updatedAt
}

// Status values shared by products, categories, brands and admins
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

package models

import "time"

// Admin represents a console administrator
type Admin struct {
	Meta      `yaml:",inline"`
	Name      string     `json:"name" yaml:"name"`
	Email     string     `json:"email" yaml:"email"`
	Status    string     `json:"status" yaml:"status"`
	LastLogin *time.Time `json:"lastLogin,omitempty" yaml:"lastLogin,omitempty"`
}

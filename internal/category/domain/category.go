package domain

import (
	"errors"
	"time"
)

// Category groups goods for sale.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"-"`
}

// Validate validates the category for persistence.
func (c *Category) Validate() error {
	if c.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

package domain

import (
	"errors"

	categorydomain "online-shop/backend/internal/category/domain"
)

// Good is a sellable item belonging to a category.
type Good struct {
	ID       string                  `json:"id"`
	Name     string                  `json:"name"`
	Price    float64                 `json:"price"`
	Category categorydomain.Category `json:"category"`
}

// Validate validates the good for persistence.
func (g *Good) Validate() error {
	if g.Name == "" {
		return errors.New("name is required")
	}
	if g.Price < 0 {
		return errors.New("price must not be negative")
	}
	if g.Category.ID == "" {
		return errors.New("category id is required")
	}
	return nil
}

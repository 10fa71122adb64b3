package repository

import (
	"context"

	"online-shop/backend/internal/good/domain"
)

// Repository defines persistence for goods.
type Repository interface {
	// Create inserts the good and returns it joined with its category.
	Create(ctx context.Context, g *domain.Good) (*domain.Good, error)
	GetByID(ctx context.Context, id string) (*domain.Good, error)
}

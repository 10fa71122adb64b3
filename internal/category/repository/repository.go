package repository

import (
	"context"

	"online-shop/backend/internal/category/domain"
)

// Repository defines persistence for categories. Lookups return (nil, nil)
// for missing rows.
type Repository interface {
	Create(ctx context.Context, c *domain.Category) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	List(ctx context.Context, page, size int) ([]*domain.Category, error)
	Delete(ctx context.Context, id string) (*domain.Category, error)
}

package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	categorydomain "online-shop/backend/internal/category/domain"
	"online-shop/backend/internal/good/domain"
)

// Errors returned by the good service; the handler maps them to status codes.
var (
	ErrGoodNotFound    = errors.New("good not found")
	ErrUnknownCategory = errors.New("category not found")
)

// Repository is the persistence needed by the good service.
type Repository interface {
	Create(ctx context.Context, g *domain.Good) (*domain.Good, error)
	GetByID(ctx context.Context, id string) (*domain.Good, error)
}

// CategoryLookup resolves category ids; satisfied by the category repository.
type CategoryLookup interface {
	GetByID(ctx context.Context, id string) (*categorydomain.Category, error)
}

// GoodService manages goods.
type GoodService struct {
	repo       Repository
	categories CategoryLookup
}

// NewGoodService returns a GoodService backed by repo and the category lookup.
func NewGoodService(repo Repository, categories CategoryLookup) *GoodService {
	return &GoodService{repo: repo, categories: categories}
}

// Create persists a good after checking its category exists and returns it
// joined with the category.
func (s *GoodService) Create(ctx context.Context, name string, price float64, categoryID string) (*domain.Good, error) {
	category, err := s.categories.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrUnknownCategory
	}
	g := &domain.Good{
		ID:       uuid.New().String(),
		Name:     name,
		Price:    price,
		Category: *category,
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, g)
}

// Get returns the good for id.
func (s *GoodService) Get(ctx context.Context, id string) (*domain.Good, error) {
	g, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGoodNotFound
	}
	return g, nil
}

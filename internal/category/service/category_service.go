// Package service implements category management with a read-through cache
// for single-category lookups.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"online-shop/backend/internal/cache"
	"online-shop/backend/internal/category/domain"
)

// ErrCategoryNotFound is returned for lookups and deletes of unknown ids.
var ErrCategoryNotFound = errors.New("category not found")

const cacheTTL = 5 * time.Minute

// Repository is the persistence needed by the category service.
type Repository interface {
	Create(ctx context.Context, c *domain.Category) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	List(ctx context.Context, page, size int) ([]*domain.Category, error)
	Delete(ctx context.Context, id string) (*domain.Category, error)
}

// CategoryService manages categories. Reads of a single category go through
// the cache; deletes invalidate it.
type CategoryService struct {
	repo  Repository
	cache cache.Cache
}

// NewCategoryService returns a CategoryService backed by repo and cache.
func NewCategoryService(repo Repository, c cache.Cache) *CategoryService {
	if c == nil {
		c = cache.Noop{}
	}
	return &CategoryService{repo: repo, cache: c}
}

// Create persists a new category and returns it.
func (s *CategoryService) Create(ctx context.Context, name string) (*domain.Category, error) {
	c := &domain.Category{
		ID:        uuid.New().String(),
		Name:      name,
		UpdatedAt: time.Now().UTC(),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Get returns the category for id, consulting the cache first. Cache failures
// are ignored; the database remains the source of truth.
func (s *CategoryService) Get(ctx context.Context, id string) (*domain.Category, error) {
	if raw, ok, err := s.cache.Get(ctx, cacheKey(id)); err == nil && ok {
		var c domain.Category
		if json.Unmarshal([]byte(raw), &c) == nil {
			return &c, nil
		}
	}

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCategoryNotFound
	}
	if raw, err := json.Marshal(c); err == nil {
		_ = s.cache.Set(ctx, cacheKey(id), string(raw), cacheTTL)
	}
	return c, nil
}

// List returns categories paged 1-based.
func (s *CategoryService) List(ctx context.Context, page, size int) ([]*domain.Category, error) {
	return s.repo.List(ctx, page, size)
}

// Delete removes the category and invalidates its cache entry.
func (s *CategoryService) Delete(ctx context.Context, id string) (*domain.Category, error) {
	c, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCategoryNotFound
	}
	_ = s.cache.Delete(ctx, cacheKey(id))
	return c, nil
}

func cacheKey(id string) string {
	return "category:" + id
}

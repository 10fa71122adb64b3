// Package service implements user management. The auth package consumes the
// repository directly as its UserDirectory; this service carries the admin
// CRUD surface.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"online-shop/backend/internal/security"
	"online-shop/backend/internal/user/domain"
	"online-shop/backend/internal/user/repository"
)

// Errors returned by the user service; the handler maps them to status codes.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("user with this email already exists")
)

// UserService manages user records.
type UserService struct {
	repo   repository.Repository
	hasher *security.Hasher
}

// NewUserService returns a UserService backed by repo, hashing passwords with hasher.
func NewUserService(repo repository.Repository, hasher *security.Hasher) *UserService {
	return &UserService{repo: repo, hasher: hasher}
}

// Create adds a user with the given role (CUSTOMER when empty), hashing the
// password before persistence.
func (s *UserService) Create(ctx context.Context, email, password string, role domain.Role) (*domain.User, error) {
	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}
	hashed, err := s.hasher.Hash([]byte(password))
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	u := &domain.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hashed,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Get returns the user for id.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// List returns users paged 1-based.
func (s *UserService) List(ctx context.Context, page, size int) ([]*domain.User, error) {
	return s.repo.List(ctx, page, size)
}

// UpdateParams are the mutable user fields; nil fields are left unchanged.
type UpdateParams struct {
	Email    *string
	Password *string
	Role     *domain.Role
}

// Update applies the non-nil fields of params to the user with the given id.
func (s *UserService) Update(ctx context.Context, id string, params UpdateParams) (*domain.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	if params.Email != nil && *params.Email != u.Email {
		taken, err := s.repo.GetByEmail(ctx, *params.Email)
		if err != nil {
			return nil, err
		}
		if taken != nil {
			return nil, ErrDuplicateEmail
		}
		u.Email = *params.Email
	}
	if params.Password != nil {
		hashed, err := s.hasher.Hash([]byte(*params.Password))
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hashed
	}
	if params.Role != nil {
		u.Role = *params.Role
	}
	u.UpdatedAt = time.Now().UTC()
	if err := u.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Delete removes the user with the given id.
func (s *UserService) Delete(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

package repository

import (
	"context"

	"online-shop/backend/internal/session/domain"
)

// Repository defines persistence for device sessions. Lookups return
// (nil, nil) for missing rows; errors indicate database failures only.
type Repository interface {
	// Create inserts the session, atomically replacing any existing session
	// for the same (device, user) pair.
	Create(ctx context.Context, s *domain.Session) (*domain.Session, error)
	GetByDeviceAndUser(ctx context.Context, device, userID string) (*domain.Session, error)
	GetByRefreshToken(ctx context.Context, refreshToken string) (*domain.Session, error)
	// DeleteByID removes the session and returns the deleted row, or nil if
	// the id was already absent (not an error).
	DeleteByID(ctx context.Context, id string) (*domain.Session, error)
	// Rotate deletes the session oldID and inserts s in a single transaction.
	// Returns nil if oldID no longer exists; the caller must treat that as a
	// lost rotation race.
	Rotate(ctx context.Context, oldID string, s *domain.Session) (*domain.Session, error)
}

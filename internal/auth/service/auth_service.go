// Package service implements the authentication flows: password login,
// registration, refresh-token rotation, and logout over device-bound sessions.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"online-shop/backend/internal/security"
	sessiondomain "online-shop/backend/internal/session/domain"
	userdomain "online-shop/backend/internal/user/domain"
)

// Sentinel errors for auth flows; the HTTP handler maps them to status codes.
// Login failures collapse to ErrInvalidCredentials regardless of whether the
// email or the password was wrong, to avoid account enumeration.
var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrDuplicateEmail      = errors.New("user with this email already exists")
)

// TokenPair is the outcome of a successful auth flow.
type TokenPair struct {
	Access  string
	Refresh string
}

// UserDirectory is the minimal user lookup/creation capability needed by the
// auth service. The full user CRUD lives in the user package.
type UserDirectory interface {
	GetByEmail(ctx context.Context, email string) (*userdomain.User, error)
	GetByID(ctx context.Context, id string) (*userdomain.User, error)
	Create(ctx context.Context, u *userdomain.User) error
}

// SessionRepository persists device-bound sessions. See session/repository for
// the postgres implementation and its atomicity guarantees.
type SessionRepository interface {
	Create(ctx context.Context, s *sessiondomain.Session) (*sessiondomain.Session, error)
	GetByDeviceAndUser(ctx context.Context, device, userID string) (*sessiondomain.Session, error)
	GetByRefreshToken(ctx context.Context, refreshToken string) (*sessiondomain.Session, error)
	DeleteByID(ctx context.Context, id string) (*sessiondomain.Session, error)
	Rotate(ctx context.Context, oldID string, s *sessiondomain.Session) (*sessiondomain.Session, error)
}

// AuthService composes the user directory, session store, password hasher,
// and token codec into the login/register/refresh/logout flows. It holds no
// state of its own; the session store is the single source of truth.
type AuthService struct {
	users    UserDirectory
	sessions SessionRepository
	hasher   *security.Hasher
	tokens   *security.TokenCodec
}

// NewAuthService returns an AuthService with the given dependencies.
func NewAuthService(users UserDirectory, sessions SessionRepository, hasher *security.Hasher, tokens *security.TokenCodec) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		tokens:   tokens,
	}
}

// Login authenticates with email/password, replaces any existing session for
// the device, and returns a fresh token pair.
func (s *AuthService) Login(ctx context.Context, email, password, device string) (*TokenPair, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := s.hasher.Compare(user.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.openSession(ctx, device, user.ID, string(user.Role))
}

// Register creates a CUSTOMER user with the given email and password and
// opens a session for the registering device.
func (s *AuthService) Register(ctx context.Context, email, password, device string) (*TokenPair, error) {
	existing, err := s.users.GetByEmail(ctx, email)
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
	user := &userdomain.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hashed,
		Role:         userdomain.RoleCustomer,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return s.openSession(ctx, device, user.ID, string(user.Role))
}

// Refresh rotates the presented refresh token: the old session is retired and
// a new one with a fresh token pair takes its place. A rotated token can never
// be used again, and refresh is bound to the device the token was issued to.
func (s *AuthService) Refresh(ctx context.Context, refreshToken, device string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, ErrInvalidRefreshToken
	}
	sess, err := s.sessions.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrInvalidRefreshToken
	}
	if sess.Device != device {
		return nil, ErrInvalidRefreshToken
	}
	// Signature and expiry failures are indistinguishable to the caller.
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	pair, next, err := s.issueFor(device, claims.User.ID, claims.User.Role)
	if err != nil {
		return nil, err
	}
	// Delete-old plus insert-new run in one transaction; if a concurrent
	// refresh already consumed the session, this call loses the race.
	rotated, err := s.sessions.Rotate(ctx, sess.ID, next)
	if err != nil {
		return nil, err
	}
	if rotated == nil {
		return nil, ErrInvalidRefreshToken
	}
	return pair, nil
}

// Logout retires the session holding the given refresh token. Unknown tokens
// are a no-op so logout is idempotent.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	sess, err := s.sessions.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		return err
	}
	if sess == nil {
		return nil
	}
	_, err = s.sessions.DeleteByID(ctx, sess.ID)
	return err
}

// openSession issues a token pair and persists the session for (device, user),
// replacing any prior session for that pair in a single upsert.
func (s *AuthService) openSession(ctx context.Context, device, userID, role string) (*TokenPair, error) {
	pair, sess, err := s.issueFor(device, userID, role)
	if err != nil {
		return nil, err
	}
	if _, err := s.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}
	return pair, nil
}

func (s *AuthService) issueFor(device, userID, role string) (*TokenPair, *sessiondomain.Session, error) {
	access, _, err := s.tokens.IssueAccess(device, userID, role)
	if err != nil {
		return nil, nil, err
	}
	refresh, _, err := s.tokens.IssueRefresh(device, userID, role)
	if err != nil {
		return nil, nil, err
	}
	sess := &sessiondomain.Session{
		ID:           uuid.New().String(),
		Device:       device,
		RefreshToken: refresh,
		UserID:       userID,
		UpdatedAt:    time.Now().UTC(),
	}
	return &TokenPair{Access: access, Refresh: refresh}, sess, nil
}

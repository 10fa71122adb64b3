package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"online-shop/backend/internal/security"
	sessiondomain "online-shop/backend/internal/session/domain"
	userdomain "online-shop/backend/internal/user/domain"
)

type memUserRepo struct {
	mu      sync.Mutex
	byID    map[string]*userdomain.User
	byEmail map[string]*userdomain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byID: map[string]*userdomain.User{}, byEmail: map[string]*userdomain.User{}}
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*userdomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byID[id], nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*userdomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byEmail[email], nil
}

func (r *memUserRepo) Create(ctx context.Context, u *userdomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u2 := *u
	r.byID[u.ID] = &u2
	r.byEmail[u.Email] = &u2
	return nil
}

func (r *memUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

// memSessionRepo mirrors the postgres repository's semantics: Create upserts
// on (device, user), Rotate fails (nil) when the old row is already gone.
type memSessionRepo struct {
	mu sync.Mutex
	m  map[string]*sessiondomain.Session
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{m: map[string]*sessiondomain.Session{}}
}

func (r *memSessionRepo) createLocked(s *sessiondomain.Session) *sessiondomain.Session {
	for _, existing := range r.m {
		if existing.Device == s.Device && existing.UserID == s.UserID {
			existing.RefreshToken = s.RefreshToken
			existing.UpdatedAt = time.Now().UTC()
			out := *existing
			return &out
		}
	}
	s2 := *s
	r.m[s.ID] = &s2
	out := s2
	return &out
}

func (r *memSessionRepo) Create(ctx context.Context, s *sessiondomain.Session) (*sessiondomain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.createLocked(s), nil
}

func (r *memSessionRepo) GetByDeviceAndUser(ctx context.Context, device, userID string) (*sessiondomain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.m {
		if s.Device == device && s.UserID == userID {
			out := *s
			return &out, nil
		}
	}
	return nil, nil
}

func (r *memSessionRepo) GetByRefreshToken(ctx context.Context, refreshToken string) (*sessiondomain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.m {
		if s.RefreshToken == refreshToken {
			out := *s
			return &out, nil
		}
	}
	return nil, nil
}

func (r *memSessionRepo) DeleteByID(ctx context.Context, id string) (*sessiondomain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.m[id]
	if !ok {
		return nil, nil
	}
	delete(r.m, id)
	return s, nil
}

func (r *memSessionRepo) Rotate(ctx context.Context, oldID string, s *sessiondomain.Session) (*sessiondomain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.m[oldID]; !ok {
		return nil, nil
	}
	delete(r.m, oldID)
	return r.createLocked(s), nil
}

func (r *memSessionRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.m)
}

func newTestAuthService() (*AuthService, *memUserRepo, *memSessionRepo) {
	users := newMemUserRepo()
	sessions := newMemSessionRepo()
	svc := NewAuthService(users, sessions, security.NewHasher(4), security.NewTestTokenCodec())
	return svc, users, sessions
}

func TestLogin_UnknownUser(t *testing.T) {
	svc, _, sessions := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Login(ctx, "nobody@x.com", "abcdef12", "dev-1")
	if err != ErrInvalidCredentials {
		t.Errorf("unknown user: want ErrInvalidCredentials, got %v", err)
	}
	if sessions.count() != 0 {
		t.Error("failed login must not create a session")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, sessions := newTestAuthService()
	ctx := context.Background()
	if _, err := svc.Register(ctx, "a@x.com", "abcdef12", "dev-1"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, err := svc.Login(ctx, "a@x.com", "wrong-pass", "dev-1")
	if err != ErrInvalidCredentials {
		t.Errorf("wrong password: want ErrInvalidCredentials, got %v", err)
	}
	// Same error value as the unknown-user case: no account enumeration.
	_, err2 := svc.Login(ctx, "other@x.com", "abcdef12", "dev-1")
	if err2 != err {
		t.Errorf("unknown-user and wrong-password errors differ: %v vs %v", err2, err)
	}
	if sessions.count() != 1 {
		t.Errorf("failed login must not add sessions, have %d", sessions.count())
	}
}

func TestLogin_ReplacesSessionForSameDevice(t *testing.T) {
	svc, _, sessions := newTestAuthService()
	ctx := context.Background()
	first, err := svc.Register(ctx, "a@x.com", "abcdef12", "dev-1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	second, err := svc.Login(ctx, "a@x.com", "abcdef12", "dev-1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if sessions.count() != 1 {
		t.Fatalf("same device must keep a single session, have %d", sessions.count())
	}

	// The first session's refresh token is retired by the second login.
	if _, err := svc.Refresh(ctx, first.Refresh, "dev-1"); err != ErrInvalidRefreshToken {
		t.Errorf("old refresh after re-login: want ErrInvalidRefreshToken, got %v", err)
	}
	if _, err := svc.Refresh(ctx, second.Refresh, "dev-1"); err != nil {
		t.Errorf("current refresh should rotate: %v", err)
	}
}

func TestLogin_TwoDevicesTwoSessions(t *testing.T) {
	svc, _, sessions := newTestAuthService()
	ctx := context.Background()
	if _, err := svc.Register(ctx, "a@x.com", "abcdef12", "dev-1"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Login(ctx, "a@x.com", "abcdef12", "dev-2"); err != nil {
		t.Fatalf("Login from second device: %v", err)
	}
	if sessions.count() != 2 {
		t.Errorf("distinct devices should hold distinct sessions, have %d", sessions.count())
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, users, _ := newTestAuthService()
	ctx := context.Background()
	if _, err := svc.Register(ctx, "a@x.com", "abcdef12", "dev-1"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	before := users.count()

	_, err := svc.Register(ctx, "a@x.com", "other-pass", "dev-2")
	if err != ErrDuplicateEmail {
		t.Errorf("duplicate email: want ErrDuplicateEmail, got %v", err)
	}
	if users.count() != before {
		t.Error("failed register must not mutate the user table")
	}
}

func TestRegister_DefaultsToCustomer(t *testing.T) {
	svc, users, sessions := newTestAuthService()
	ctx := context.Background()
	pair, err := svc.Register(ctx, "a@x.com", "abcdef12", "dev-1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if pair.Access == "" || pair.Refresh == "" {
		t.Fatal("Register should return both tokens")
	}

	u, _ := users.GetByEmail(ctx, "a@x.com")
	if u == nil || u.Role != userdomain.RoleCustomer {
		t.Fatalf("registered user role = %v, want CUSTOMER", u)
	}
	if u.PasswordHash == "abcdef12" || u.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}

	sess, _ := sessions.GetByDeviceAndUser(ctx, "dev-1", u.ID)
	if sess == nil {
		t.Fatal("register should persist a session for the issuing device")
	}
	if sess.RefreshToken != pair.Refresh {
		t.Error("session must hold the issued refresh token value")
	}
}

func TestRefresh_RotationIsSingleUse(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()
	pair, err := svc.Register(ctx, "a@x.com", "abcdef12", "dev-1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	next, err := svc.Refresh(ctx, pair.Refresh, "dev-1")
	if err != nil {
		t.Fatalf("first Refresh: %v", err)
	}
	if next.Refresh == pair.Refresh {
		t.Error("rotation must issue a new refresh token value")
	}

	if _, err := svc.Refresh(ctx, pair.Refresh, "dev-1"); err != ErrInvalidRefreshToken {
		t.Errorf("second use of rotated token: want ErrInvalidRefreshToken, got %v", err)
	}
	if _, err := svc.Refresh(ctx, next.Refresh, "dev-1"); err != nil {
		t.Errorf("newly issued token should still rotate: %v", err)
	}
}

func TestRefresh_PersistsNewTokenValue(t *testing.T) {
	svc, users, sessions := newTestAuthService()
	ctx := context.Background()
	pair, _ := svc.Register(ctx, "a@x.com", "abcdef12", "dev-1")

	next, err := svc.Refresh(ctx, pair.Refresh, "dev-1")
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	u, _ := users.GetByEmail(ctx, "a@x.com")
	sess, _ := sessions.GetByDeviceAndUser(ctx, "dev-1", u.ID)
	if sess == nil {
		t.Fatal("rotated session missing")
	}
	// The row must be keyed by the newly issued token, not the retired one.
	if sess.RefreshToken != next.Refresh {
		t.Errorf("session holds %q, want the new refresh token", sess.RefreshToken)
	}
}

func TestRefresh_DeviceBinding(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()
	pair, _ := svc.Register(ctx, "a@x.com", "abcdef12", "dev-1")

	if _, err := svc.Refresh(ctx, pair.Refresh, "dev-other"); err != ErrInvalidRefreshToken {
		t.Errorf("refresh from foreign device: want ErrInvalidRefreshToken, got %v", err)
	}
	// Token is still valid from the bound device.
	if _, err := svc.Refresh(ctx, pair.Refresh, "dev-1"); err != nil {
		t.Errorf("refresh from bound device: %v", err)
	}
}

func TestRefresh_UnknownOrEmptyToken(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	if _, err := svc.Refresh(ctx, "", "dev-1"); err != ErrInvalidRefreshToken {
		t.Errorf("empty token: want ErrInvalidRefreshToken, got %v", err)
	}
	if _, err := svc.Refresh(ctx, "no-such-token", "dev-1"); err != ErrInvalidRefreshToken {
		t.Errorf("unknown token: want ErrInvalidRefreshToken, got %v", err)
	}
}

func TestRefresh_ExpiredToken(t *testing.T) {
	users := newMemUserRepo()
	sessions := newMemSessionRepo()
	codec := security.NewTokenCodec(security.Secrets{
		AccessSecret:  "a",
		RefreshSecret: "r",
		AccessTTL:     10 * time.Minute,
		RefreshTTL:    -time.Minute, // refresh tokens are born expired
	})
	svc := NewAuthService(users, sessions, security.NewHasher(4), codec)
	ctx := context.Background()

	pair, err := svc.Register(ctx, "a@x.com", "abcdef12", "dev-1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Refresh(ctx, pair.Refresh, "dev-1"); err != ErrInvalidRefreshToken {
		t.Errorf("expired refresh token: want ErrInvalidRefreshToken, got %v", err)
	}
}

func TestLogout(t *testing.T) {
	svc, _, sessions := newTestAuthService()
	ctx := context.Background()
	pair, _ := svc.Register(ctx, "a@x.com", "abcdef12", "dev-1")

	if err := svc.Logout(ctx, pair.Refresh); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if sessions.count() != 0 {
		t.Error("logout should retire the session")
	}
	if _, err := svc.Refresh(ctx, pair.Refresh, "dev-1"); err != ErrInvalidRefreshToken {
		t.Errorf("refresh after logout: want ErrInvalidRefreshToken, got %v", err)
	}
	// Logout with an unknown token is a no-op.
	if err := svc.Logout(ctx, pair.Refresh); err != nil {
		t.Errorf("repeated logout should be idempotent: %v", err)
	}
}

func TestRegisterThenRefreshScenario(t *testing.T) {
	svc, users, sessions := newTestAuthService()
	ctx := context.Background()

	pair, err := svc.Register(ctx, "a@x.com", "abcdef12", "dev-1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	u, _ := users.GetByEmail(ctx, "a@x.com")
	if sess, _ := sessions.GetByDeviceAndUser(ctx, "dev-1", u.ID); sess == nil {
		t.Fatal("session row should exist for the issuing device and new user")
	}

	next, err := svc.Refresh(ctx, pair.Refresh, "dev-1")
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if next.Access == "" || next.Refresh == "" {
		t.Fatal("Refresh should return a full token pair")
	}
	if _, err := svc.Refresh(ctx, pair.Refresh, "dev-1"); err != ErrInvalidRefreshToken {
		t.Errorf("prior refresh token must now be rejected, got %v", err)
	}
}

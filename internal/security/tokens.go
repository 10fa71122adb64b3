package security

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned when a token is malformed, has a bad signature,
// or is expired. Verification never returns partial claims alongside it.
var ErrInvalidToken = errors.New("invalid token")

// UserClaim identifies the authenticated user inside a token payload.
type UserClaim struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

// Claims is the payload carried by both access and refresh tokens:
// the issuing device and the user's id and role, plus standard exp/iat.
type Claims struct {
	jwt.RegisteredClaims
	Device string    `json:"device"`
	User   UserClaim `json:"user"`
}

// Secrets holds the signing configuration for the token codec. Access and
// refresh tokens are signed with distinct secrets so a leaked access secret
// cannot forge refresh tokens.
type Secrets struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// TokenCodec issues and verifies HS256-signed access and refresh tokens.
// It is stateless; expiry is derived from the issuance clock plus the
// configured TTL.
type TokenCodec struct {
	secrets Secrets
}

// NewTokenCodec returns a TokenCodec signing with the given secrets.
func NewTokenCodec(secrets Secrets) *TokenCodec {
	return &TokenCodec{secrets: secrets}
}

// IssueAccess issues a short-lived access token for the given device and user.
// Returns the signed token and its expiry.
func (c *TokenCodec) IssueAccess(device, userID, role string) (string, time.Time, error) {
	return c.issue(device, userID, role, c.secrets.AccessSecret, c.secrets.AccessTTL)
}

// IssueRefresh issues a refresh token for the given device and user.
// Returns the signed token and its expiry.
func (c *TokenCodec) IssueRefresh(device, userID, role string) (string, time.Time, error) {
	return c.issue(device, userID, role, c.secrets.RefreshSecret, c.secrets.RefreshTTL)
}

func (c *TokenCodec) issue(device, userID, role, secret string, ttl time.Duration) (string, time.Time, error) {
	// iat/exp have second granularity; the jti makes every issuance a
	// distinct token string, so a rotated refresh token can never collide
	// with its replacement.
	jti, err := generateJTI()
	if err != nil {
		return "", time.Time{}, err
	}
	now := time.Now().UTC()
	expiresAt := now.Add(ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Device: device,
		User:   UserClaim{ID: userID, Role: role},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func generateJTI() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// VerifyAccess checks the token's signature and expiry against the access
// secret and returns its claims, or ErrInvalidToken.
func (c *TokenCodec) VerifyAccess(tokenString string) (*Claims, error) {
	return c.verify(tokenString, c.secrets.AccessSecret)
}

// VerifyRefresh checks the token's signature and expiry against the refresh
// secret and returns its claims, or ErrInvalidToken.
func (c *TokenCodec) VerifyRefresh(tokenString string) (*Claims, error) {
	return c.verify(tokenString, c.secrets.RefreshSecret)
}

func (c *TokenCodec) verify(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.User.ID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

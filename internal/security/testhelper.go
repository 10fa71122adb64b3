package security

import "time"

// NewTestTokenCodec returns a TokenCodec with fixed secrets and short TTLs.
// For unit tests only.
func NewTestTokenCodec() *TokenCodec {
	return NewTokenCodec(Secrets{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		AccessTTL:     10 * time.Minute,
		RefreshTTL:    time.Hour,
	})
}

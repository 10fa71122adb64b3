package domain

import "time"

// Session is one authenticated device binding: at most one session exists per
// (device, user) pair, holding the currently valid refresh token value.
type Session struct {
	ID           string
	Device       string // opaque client identifier (e.g. User-Agent); never parsed
	RefreshToken string
	UserID       string
	UpdatedAt    time.Time
}

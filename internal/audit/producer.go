// Package audit emits best-effort audit events for auth outcomes. Failures
// are logged and never fail the request that produced the event.
package audit

import (
	"context"
	"time"
)

// Event is one auditable auth outcome.
type Event struct {
	// EventType is the flow that produced the event: login, register, refresh, logout.
	EventType string `json:"event_type"`
	// UserID is the acting user when known; empty for failed logins.
	UserID string `json:"user_id,omitempty"`
	// Device is the opaque device identifier presented with the request.
	Device string `json:"device,omitempty"`
	// Outcome is "ok" or the error kind that terminated the flow.
	Outcome string `json:"outcome"`
	// DurationMs is the handler-observed duration.
	DurationMs int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// Producer publishes audit events. Implementations must be safe for
// concurrent use.
type Producer interface {
	Emit(ctx context.Context, event *Event) error
	Close() error
}

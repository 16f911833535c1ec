package model

import (
	"time"

	"github.com/google/uuid"
)

// RateLimiter gates audited actions with fixed-window counting per user and
// action. The in-memory implementation covers single-instance deployments; a
// shared counter store can be injected instead for multi-instance setups.
type RateLimiter interface {
	// CheckAndConsume records an attempt and reports true when the limit for
	// the current window is already exhausted.
	CheckAndConsume(userID uuid.UUID, action AuditAction) bool
	// TimeUntilReset returns how long until the current window closes.
	// Zero when no window is open.
	TimeUntilReset(userID uuid.UUID, action AuditAction) time.Duration
}

// RateLimitConfig sets the fixed-window bounds for one action.
type RateLimitConfig struct {
	MaxAttempts int
	Window      time.Duration
}

// RateLimits holds the per-action limits. Disclosure operations are strictest.
var RateLimits = map[AuditAction]RateLimitConfig{
	ActionRevealPhrase:   {MaxAttempts: 5, Window: time.Hour},
	ActionExportKey:      {MaxAttempts: 3, Window: time.Hour},
	ActionPasskeyAdded:   {MaxAttempts: 10, Window: time.Hour},
	ActionPasskeyRemoved: {MaxAttempts: 10, Window: time.Hour},
	ActionPasskeyRenamed: {MaxAttempts: 20, Window: time.Hour},
}

// Package ratelimit provides the in-memory fixed-window limiter for audited
// wallet actions. Counters are process-local: in a multi-instance deployment
// each instance counts independently, so the configured limits hold per
// instance only. Swap in a shared-store implementation of model.RateLimiter
// when that matters.
package ratelimit

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/solvault/solvault-server/internal/model"
)

type entry struct {
	count   int
	resetAt time.Time
}

var _ model.RateLimiter = (*Limiter)(nil)

// Limiter counts attempts per (user, action) pair within fixed windows.
type Limiter struct {
	mu      sync.Mutex
	limits  map[model.AuditAction]model.RateLimitConfig
	entries map[string]*entry
	now     func() time.Time
	done    chan struct{}
}

// New creates a Limiter using the given limit table. A sweep goroutine removes
// expired entries every sweepInterval to bound memory; call Close to stop it.
func New(limits map[model.AuditAction]model.RateLimitConfig, sweepInterval time.Duration) *Limiter {
	l := &Limiter{
		limits:  limits,
		entries: make(map[string]*entry),
		now:     time.Now,
		done:    make(chan struct{}),
	}

	go l.sweep(sweepInterval)

	return l
}

// CheckAndConsume records an attempt for (userID, action) and reports true when
// the window limit is already exhausted. The first attempt in a fresh or
// expired window starts a new count; once the threshold is reached further
// attempts report exceeded without incrementing.
func (l *Limiter) CheckAndConsume(userID uuid.UUID, action model.AuditAction) bool {
	cfg, ok := l.limits[action]
	if !ok {
		return false
	}

	key := limiterKey(userID, action)
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e := l.entries[key]
	if e == nil || now.After(e.resetAt) {
		l.entries[key] = &entry{count: 1, resetAt: now.Add(cfg.Window)}
		return false
	}

	if e.count >= cfg.MaxAttempts {
		return true
	}

	e.count++
	return false
}

// TimeUntilReset returns the remaining duration of the open window for
// (userID, action), or zero when no window is open.
func (l *Limiter) TimeUntilReset(userID uuid.UUID, action model.AuditAction) time.Duration {
	key := limiterKey(userID, action)
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e := l.entries[key]
	if e == nil || now.After(e.resetAt) {
		return 0
	}

	return e.resetAt.Sub(now)
}

// Close stops the sweep goroutine.
func (l *Limiter) Close() {
	close(l.done)
}

func (l *Limiter) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
			now := l.now()
			l.mu.Lock()
			for key, e := range l.entries {
				if now.After(e.resetAt) {
					delete(l.entries, key)
				}
			}
			l.mu.Unlock()
		}
	}
}

func limiterKey(userID uuid.UUID, action model.AuditAction) string {
	return fmt.Sprintf("%s:%s", userID, action)
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/solvault/solvault-server/internal/logger"
	"github.com/solvault/solvault-server/internal/model"
)

// DefaultAuditLogLimit caps audit log listings.
const DefaultAuditLogLimit = 50

// Governor guards disclosure operations: it rate-limits audited actions and
// appends audit records for every attempt.
type Governor struct {
	auditStore model.AuditStore
	limiter    model.RateLimiter
	logger     *logger.Logger
}

// NewGovernor creates a Governor with the given audit store and limiter.
func NewGovernor(auditStore model.AuditStore, limiter model.RateLimiter, logger *logger.Logger) *Governor {
	return &Governor{
		auditStore: auditStore,
		limiter:    limiter,
		logger:     logger,
	}
}

// Check consumes one attempt for (userID, action). When the limit is exhausted
// it writes a failed audit record and returns a RateLimitError carrying the
// window reset time; otherwise it returns nil and the caller proceeds.
func (g *Governor) Check(ctx context.Context, userID uuid.UUID, action model.AuditAction, meta model.RequestMeta) *model.RateLimitError {
	if !g.limiter.CheckAndConsume(userID, action) {
		return nil
	}

	reset := g.limiter.TimeUntilReset(userID, action)
	g.logger.Warn("Governor: rate limit exceeded",
		"user_id", userID,
		"action", action,
		"reset", reset)

	g.Log(ctx, model.AuditRecord{
		UserID:       userID,
		Action:       action,
		IPAddress:    meta.IPAddress,
		UserAgent:    meta.UserAgent,
		Success:      false,
		ErrorMessage: "Rate limit exceeded",
	})

	return &model.RateLimitError{Action: action, Reset: reset}
}

// Log appends an audit record. Persistence failures are logged and swallowed:
// audit logging must never fail the primary operation. Records are stamped
// here so callers only fill the attempt fields.
func (g *Governor) Log(ctx context.Context, record model.AuditRecord) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	if err := g.auditStore.Append(ctx, record); err != nil {
		g.logger.Error("Governor: failed to write audit log",
			"user_id", record.UserID,
			"action", record.Action,
			"error", err.Error())
	}
}

// ListLogs returns the most recent audit records for a user, newest first.
// Limit is clamped to DefaultAuditLogLimit.
func (g *Governor) ListLogs(ctx context.Context, userID uuid.UUID, limit int) ([]model.AuditRecord, error) {
	if limit <= 0 || limit > DefaultAuditLogLimit {
		limit = DefaultAuditLogLimit
	}

	logs, err := g.auditStore.GetByUserID(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get audit logs: %w", err)
	}

	return logs, nil
}

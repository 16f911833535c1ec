package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AuditAction enumerates audited wallet security events.
type AuditAction string

const (
	// ActionRevealPhrase is a recovery-phrase disclosure.
	ActionRevealPhrase AuditAction = "reveal_phrase"
	// ActionExportKey is a private-key export.
	ActionExportKey AuditAction = "export_key"
	// ActionPasskeyAdded is a passkey registration.
	ActionPasskeyAdded AuditAction = "passkey_added"
	// ActionPasskeyRemoved is a passkey deletion.
	ActionPasskeyRemoved AuditAction = "passkey_removed"
	// ActionPasskeyRenamed is a passkey rename.
	ActionPasskeyRenamed AuditAction = "passkey_renamed"
)

// AuditStore defines append-only persistence for audit records.
type AuditStore interface {
	Append(ctx context.Context, record AuditRecord) error
	GetByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]AuditRecord, error)
}

// AuditRecord is one row per access attempt. Rows are never updated or deleted
// by this service.
type AuditRecord struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Action       AuditAction
	IPAddress    string
	UserAgent    string
	Success      bool
	ErrorMessage string
	Metadata     map[string]any
	CreatedAt    time.Time
}

// RequestMeta carries client attribution captured by the transport layer.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

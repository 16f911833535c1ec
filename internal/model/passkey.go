package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PasskeyStore defines persistence operations for passkey credentials.
// Registration happens in the identity provider; rename and delete are scoped
// to the owning user.
type PasskeyStore interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]Passkey, error)
	Rename(ctx context.Context, userID uuid.UUID, passkeyID string, name string) (Passkey, error)
	Delete(ctx context.Context, userID uuid.UUID, passkeyID string) error
}

// Passkey represents a WebAuthn credential registered to a user. CredentialID
// doubles as key-derivation input for wallets created under that passkey, so it
// must never change.
type Passkey struct {
	ID           string
	UserID       uuid.UUID
	Name         string
	CredentialID string
	CreatedAt    time.Time
}

package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users. User identities are
// created by the external identity provider; this service only reads them and
// records the wallet linkage.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	SetWalletAddress(ctx context.Context, id uuid.UUID, address string) error
}

// User represents an identity-provider user as seen by this service.
// WalletAddress is empty until a wallet is created.
type User struct {
	ID            uuid.UUID
	Email         string
	WalletAddress string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

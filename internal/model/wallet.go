package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Fixed sizes of the binary values stored with every wallet record.
const (
	// SaltLength is the key-derivation salt size in bytes.
	SaltLength = 16
	// NonceLength is the AES-GCM nonce size in bytes.
	NonceLength = 12
)

// WalletStore defines persistence operations for encrypted wallet records.
type WalletStore interface {
	Create(ctx context.Context, record WalletRecord) (WalletRecord, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (WalletRecord, error)
}

// EncryptedBlob pairs a ciphertext with the nonce used to produce it.
// Decryption requires the exact nonce, so the two always travel together.
type EncryptedBlob struct {
	Ciphertext []byte
	Nonce      []byte
}

// WalletRecord is the persisted custody record, one per user. PrivateKey holds
// the encrypted 64-byte ed25519 secret key. Mnemonic is nil for records created
// before recovery-phrase storage existed; callers must branch on that before
// attempting decryption.
type WalletRecord struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Address       string
	PrivateKey    EncryptedBlob
	Mnemonic      *EncryptedBlob
	Salt          []byte
	CredentialRef string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasMnemonic reports whether the record carries an encrypted recovery phrase.
func (r WalletRecord) HasMnemonic() bool {
	return r.Mnemonic != nil && len(r.Mnemonic.Ciphertext) > 0 && len(r.Mnemonic.Nonce) > 0
}

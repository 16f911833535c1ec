package model

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned by stores when the requested entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrWalletExists is returned when a user attempts to create a second wallet.
	ErrWalletExists = errors.New("user already has a wallet")
	// ErrMnemonicUnavailable marks records created before mnemonic storage existed.
	ErrMnemonicUnavailable = errors.New("recovery phrase not stored for this wallet")
	// ErrDecryptionFailed indicates ciphertext corruption or a credential mismatch.
	ErrDecryptionFailed = errors.New("failed to decrypt wallet data")
)

// RateLimitError is returned when a disclosure action exceeds its window limit.
// Reset carries the time until the window reopens.
type RateLimitError struct {
	Action AuditAction
	Reset  time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded for %s, retry in %s", e.Action, e.Reset)
}

// ResetSeconds returns the reset delay rounded up to whole seconds.
func (e *RateLimitError) ResetSeconds() int {
	return int((e.Reset + time.Second - 1) / time.Second)
}

package crypto

import (
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"
)

// DefaultKDFIterations is the PBKDF2 iteration count existing wallet records
// were encrypted with. Changing it makes those records undecryptable.
const DefaultKDFIterations = 100000

const derivedKeyLength = 32

// KDF derives AES-256 keys from a credential reference and a per-record salt
// using PBKDF2-SHA256. The credential reference is low-entropy (a passkey
// credential id, or a synthetic fallback string for social-login users), which
// is why the iteration count and a unique salt per record matter.
type KDF struct {
	iterations int
}

// NewKDF creates a KDF with the given iteration count. Zero or negative falls
// back to DefaultKDFIterations.
func NewKDF(iterations int) *KDF {
	if iterations <= 0 {
		iterations = DefaultKDFIterations
	}
	return &KDF{iterations: iterations}
}

// DeriveKey returns a 32-byte symmetric key. Deterministic: identical inputs
// always yield the identical key, which is what allows re-deriving the key at
// decrypt time without ever storing it.
func (k *KDF) DeriveKey(credentialRef, salt []byte) []byte {
	return pbkdf2.Key(credentialRef, salt, k.iterations, derivedKeyLength, sha256.New)
}

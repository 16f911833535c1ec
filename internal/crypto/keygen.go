package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"github.com/btcsuite/btcutil/base58"
	"github.com/tyler-smith/go-bip39"

	"github.com/solvault/solvault-server/internal/model"
)

// mnemonicEntropyBits yields a 12-word recovery phrase.
const mnemonicEntropyBits = 128

// Wallet is a freshly generated or recovered Solana keypair. PrivateKey is the
// 64-byte ed25519 secret key (seed followed by public key), the layout Solana
// tooling expects. Mnemonic is the recovery phrase the keypair derives from.
type Wallet struct {
	Address    string
	PrivateKey []byte
	Mnemonic   string
}

// GenerateWallet creates a new wallet: 128-bit entropy, 12-word BIP-39
// mnemonic, 64-byte seed with empty passphrase, ed25519 keypair from the first
// 32 seed bytes. Feeding the same mnemonic back through RecoverWallet
// reconstructs the identical keypair.
func GenerateWallet() (Wallet, error) {
	entropy, err := bip39.NewEntropy(mnemonicEntropyBits)
	if err != nil {
		return Wallet{}, fmt.Errorf("failed to generate entropy: %w", err)
	}

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return Wallet{}, fmt.Errorf("failed to generate mnemonic: %w", err)
	}

	return walletFromMnemonic(mnemonic)
}

// RecoverWallet re-derives the keypair for an existing mnemonic.
func RecoverWallet(mnemonic string) (Wallet, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return Wallet{}, fmt.Errorf("invalid mnemonic phrase")
	}
	return walletFromMnemonic(mnemonic)
}

// GenerateSalt returns a fresh random key-derivation salt.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, model.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// EncodePrivateKey returns the base58 display encoding of a raw private key.
func EncodePrivateKey(privateKey []byte) string {
	return base58.Encode(privateKey)
}

func walletFromMnemonic(mnemonic string) (Wallet, error) {
	seed := bip39.NewSeed(mnemonic, "")

	privateKey := ed25519.NewKeyFromSeed(seed[:ed25519.SeedSize])
	publicKey := privateKey.Public().(ed25519.PublicKey)

	return Wallet{
		Address:    base58.Encode(publicKey),
		PrivateKey: []byte(privateKey),
		Mnemonic:   mnemonic,
	}, nil
}

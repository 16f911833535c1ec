package service

import (
	"errors"
	"fmt"

	"context"

	"github.com/google/uuid"

	"github.com/solvault/solvault-server/internal/crypto"
	"github.com/solvault/solvault-server/internal/logger"
	"github.com/solvault/solvault-server/internal/model"
)

// Vault orchestrates the encrypted wallet lifecycle: creation at onboarding and
// the two audited disclosure operations.
type Vault struct {
	walletStore model.WalletStore
	userStore   model.UserStore
	governor    *Governor
	kdf         *crypto.KDF
	logger      *logger.Logger
}

// NewVault creates a Vault service.
func NewVault(
	walletStore model.WalletStore,
	userStore model.UserStore,
	governor *Governor,
	kdf *crypto.KDF,
	logger *logger.Logger,
) *Vault {
	return &Vault{
		walletStore: walletStore,
		userStore:   userStore,
		governor:    governor,
		kdf:         kdf,
		logger:      logger,
	}
}

// CreateWalletResult is returned once at creation. The mnemonic is not
// retrievable again through this path; only RevealMnemonic can recover it from
// the encrypted copy.
type CreateWalletResult struct {
	Address  string
	Mnemonic string
}

// ExportKeyResult is the private-key disclosure payload.
type ExportKeyResult struct {
	PrivateKey string
	Address    string
}

// CreateWallet generates a wallet for a user who has none, encrypts the
// private key and mnemonic under a key derived from credentialRef, persists
// the record and links the address to the user. Returns ErrWalletExists if a
// record is already present. When credentialRef is empty (social-login users
// without a passkey) the synthetic "social-<user_id>" fallback is used; it is
// guessable, so for those users confidentiality rests on the salt and the KDF
// cost alone.
func (v *Vault) CreateWallet(ctx context.Context, userID uuid.UUID, credentialRef string) (CreateWalletResult, error) {
	_, err := v.walletStore.GetByUserID(ctx, userID)
	if err == nil {
		return CreateWalletResult{}, model.ErrWalletExists
	}
	if !errors.Is(err, model.ErrNotFound) {
		return CreateWalletResult{}, fmt.Errorf("failed to check existing wallet: %w", err)
	}

	if credentialRef == "" {
		credentialRef = fmt.Sprintf("social-%s", userID)
	}

	wallet, err := crypto.GenerateWallet()
	if err != nil {
		return CreateWalletResult{}, fmt.Errorf("failed to generate wallet: %w", err)
	}

	salt, err := crypto.GenerateSalt()
	if err != nil {
		return CreateWalletResult{}, fmt.Errorf("failed to generate salt: %w", err)
	}

	key := v.kdf.DeriveKey([]byte(credentialRef), salt)

	encryptedKey, keyNonce, err := crypto.Encrypt(key, wallet.PrivateKey)
	if err != nil {
		return CreateWalletResult{}, fmt.Errorf("failed to encrypt private key: %w", err)
	}

	encryptedMnemonic, mnemonicNonce, err := crypto.Encrypt(key, []byte(wallet.Mnemonic))
	if err != nil {
		return CreateWalletResult{}, fmt.Errorf("failed to encrypt mnemonic: %w", err)
	}

	record := model.WalletRecord{
		ID:      uuid.New(),
		UserID:  userID,
		Address: wallet.Address,
		PrivateKey: model.EncryptedBlob{
			Ciphertext: encryptedKey,
			Nonce:      keyNonce,
		},
		Mnemonic: &model.EncryptedBlob{
			Ciphertext: encryptedMnemonic,
			Nonce:      mnemonicNonce,
		},
		Salt:          salt,
		CredentialRef: credentialRef,
	}

	if _, err := v.walletStore.Create(ctx, record); err != nil {
		if errors.Is(err, model.ErrWalletExists) {
			return CreateWalletResult{}, model.ErrWalletExists
		}
		return CreateWalletResult{}, fmt.Errorf("failed to store wallet: %w", err)
	}

	if err := v.userStore.SetWalletAddress(ctx, userID, wallet.Address); err != nil {
		return CreateWalletResult{}, fmt.Errorf("failed to link wallet address to user: %w", err)
	}

	v.logger.Info("Vault service: wallet created",
		"user_id", userID,
		"address", wallet.Address)

	return CreateWalletResult{
		Address:  wallet.Address,
		Mnemonic: wallet.Mnemonic,
	}, nil
}

// ExportPrivateKey decrypts and returns the user's private key in base58.
// Rate limited to the export_key window; every non-denied attempt produces
// exactly one audit record.
func (v *Vault) ExportPrivateKey(ctx context.Context, userID uuid.UUID, meta model.RequestMeta) (ExportKeyResult, error) {
	if rlErr := v.governor.Check(ctx, userID, model.ActionExportKey, meta); rlErr != nil {
		return ExportKeyResult{}, rlErr
	}

	record, plaintext, err := v.loadAndDecrypt(ctx, userID, privateKeyBlob)
	if err != nil {
		v.auditFailure(ctx, userID, model.ActionExportKey, meta, err)
		return ExportKeyResult{}, err
	}

	v.governor.Log(ctx, model.AuditRecord{
		UserID:    userID,
		Action:    model.ActionExportKey,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		Success:   true,
	})

	v.logger.Info("Vault service: private key exported",
		"user_id", userID,
		"address", record.Address)

	return ExportKeyResult{
		PrivateKey: crypto.EncodePrivateKey(plaintext),
		Address:    record.Address,
	}, nil
}

// RevealMnemonic decrypts and returns the user's recovery phrase. Records
// created before mnemonic storage existed fail with ErrMnemonicUnavailable
// before any cipher work. Rate limited to the reveal_phrase window.
func (v *Vault) RevealMnemonic(ctx context.Context, userID uuid.UUID, meta model.RequestMeta) (string, error) {
	if rlErr := v.governor.Check(ctx, userID, model.ActionRevealPhrase, meta); rlErr != nil {
		return "", rlErr
	}

	_, plaintext, err := v.loadAndDecrypt(ctx, userID, mnemonicBlob)
	if err != nil {
		v.auditFailure(ctx, userID, model.ActionRevealPhrase, meta, err)
		return "", err
	}

	v.governor.Log(ctx, model.AuditRecord{
		UserID:    userID,
		Action:    model.ActionRevealPhrase,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		Success:   true,
	})

	v.logger.Info("Vault service: recovery phrase revealed",
		"user_id", userID)

	return string(plaintext), nil
}

type blobKind int

const (
	privateKeyBlob blobKind = iota
	mnemonicBlob
)

func (v *Vault) loadAndDecrypt(ctx context.Context, userID uuid.UUID, kind blobKind) (model.WalletRecord, []byte, error) {
	record, err := v.walletStore.GetByUserID(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return model.WalletRecord{}, nil, model.ErrNotFound
	}
	if err != nil {
		return model.WalletRecord{}, nil, fmt.Errorf("failed to get wallet record: %w", err)
	}

	blob := record.PrivateKey
	if kind == mnemonicBlob {
		if !record.HasMnemonic() {
			return model.WalletRecord{}, nil, model.ErrMnemonicUnavailable
		}
		blob = *record.Mnemonic
	}

	key := v.kdf.DeriveKey([]byte(record.CredentialRef), record.Salt)

	plaintext, err := crypto.Decrypt(key, blob.Ciphertext, blob.Nonce)
	if err != nil {
		return model.WalletRecord{}, nil, err
	}

	return record, plaintext, nil
}

func (v *Vault) auditFailure(ctx context.Context, userID uuid.UUID, action model.AuditAction, meta model.RequestMeta, cause error) {
	v.logger.Error("Vault service: disclosure failed",
		"user_id", userID,
		"action", action,
		"error", cause.Error())

	v.governor.Log(ctx, model.AuditRecord{
		UserID:       userID,
		Action:       action,
		IPAddress:    meta.IPAddress,
		UserAgent:    meta.UserAgent,
		Success:      false,
		ErrorMessage: cause.Error(),
	})
}

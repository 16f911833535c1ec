package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/solvault/solvault-server/internal/model"
)

var _ model.WalletStore = (*WalletRepository)(nil)

type WalletRepository struct {
	db *Connection
}

func NewWalletRepository(db *Connection) *WalletRepository {
	return &WalletRepository{
		db: db,
	}
}

// Create inserts a wallet record. The unique constraint on user_id is the
// final guard against double creation; violating it maps to ErrWalletExists.
func (r *WalletRepository) Create(ctx context.Context, record model.WalletRecord) (model.WalletRecord, error) {
	query := `INSERT INTO encrypted_wallets
				(id, user_id, address, encrypted_privkey, privkey_nonce, encrypted_mnemonic, mnemonic_nonce, salt, credential_reference)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING created_at, updated_at`

	var mnemonicCiphertext, mnemonicNonce []byte
	if record.Mnemonic != nil {
		mnemonicCiphertext = record.Mnemonic.Ciphertext
		mnemonicNonce = record.Mnemonic.Nonce
	}

	err := r.db.QueryRow(ctx, query,
		record.ID, record.UserID, record.Address,
		record.PrivateKey.Ciphertext, record.PrivateKey.Nonce,
		mnemonicCiphertext, mnemonicNonce,
		record.Salt, record.CredentialRef,
	).Scan(&record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.WalletRecord{}, model.ErrWalletExists
		}
		return model.WalletRecord{}, fmt.Errorf("failed to create wallet record: %w", err)
	}

	return record, nil
}

func (r *WalletRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (model.WalletRecord, error) {
	query := `SELECT id, user_id, address, encrypted_privkey, privkey_nonce, encrypted_mnemonic, mnemonic_nonce, salt, credential_reference, created_at, updated_at
			  FROM encrypted_wallets WHERE user_id = $1`

	var (
		record             model.WalletRecord
		mnemonicCiphertext []byte
		mnemonicNonce      []byte
	)
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&record.ID, &record.UserID, &record.Address,
		&record.PrivateKey.Ciphertext, &record.PrivateKey.Nonce,
		&mnemonicCiphertext, &mnemonicNonce,
		&record.Salt, &record.CredentialRef,
		&record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.WalletRecord{}, model.ErrNotFound
		}
		return model.WalletRecord{}, fmt.Errorf("failed to get wallet record by user id: %w", err)
	}

	if len(mnemonicCiphertext) > 0 && len(mnemonicNonce) > 0 {
		record.Mnemonic = &model.EncryptedBlob{
			Ciphertext: mnemonicCiphertext,
			Nonce:      mnemonicNonce,
		}
	}

	return record, nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/solvault/solvault-server/internal/model"
)

var _ model.PasskeyStore = (*PasskeyRepository)(nil)

type PasskeyRepository struct {
	db *Connection
}

func NewPasskeyRepository(db *Connection) *PasskeyRepository {
	return &PasskeyRepository{
		db: db,
	}
}

func (r *PasskeyRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]model.Passkey, error) {
	query := `SELECT id, user_id, name, credential_id, created_at
			  FROM passkeys WHERE user_id = $1 ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get passkeys by user id: %w", err)
	}
	defer rows.Close()

	var passkeys []model.Passkey
	for rows.Next() {
		var p model.Passkey
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.CredentialID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan passkey: %w", err)
		}
		passkeys = append(passkeys, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate passkeys: %w", err)
	}

	return passkeys, nil
}

// Rename updates the display name of a passkey scoped to its owner. A missing
// or foreign passkey maps to ErrNotFound rather than leaking ownership.
func (r *PasskeyRepository) Rename(ctx context.Context, userID uuid.UUID, passkeyID string, name string) (model.Passkey, error) {
	query := `UPDATE passkeys SET name = $3 WHERE id = $1 AND user_id = $2
			  RETURNING id, user_id, name, credential_id, created_at`

	var p model.Passkey
	err := r.db.QueryRow(ctx, query, passkeyID, userID, name).Scan(
		&p.ID, &p.UserID, &p.Name, &p.CredentialID, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Passkey{}, model.ErrNotFound
		}
		return model.Passkey{}, fmt.Errorf("failed to rename passkey: %w", err)
	}

	return p, nil
}

func (r *PasskeyRepository) Delete(ctx context.Context, userID uuid.UUID, passkeyID string) error {
	query := `DELETE FROM passkeys WHERE id = $1 AND user_id = $2`

	tag, err := r.db.Exec(ctx, query, passkeyID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete passkey: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

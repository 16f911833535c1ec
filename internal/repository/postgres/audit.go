package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/solvault/solvault-server/internal/model"
)

var _ model.AuditStore = (*AuditRepository)(nil)

type AuditRepository struct {
	db *Connection
}

func NewAuditRepository(db *Connection) *AuditRepository {
	return &AuditRepository{
		db: db,
	}
}

func (r *AuditRepository) Append(ctx context.Context, record model.AuditRecord) error {
	query := `INSERT INTO wallet_access_log (id, user_id, action, ip_address, user_agent, success, error_message, metadata, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9)`

	var metadata []byte
	if record.Metadata != nil {
		var err error
		metadata, err = json.Marshal(record.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal audit metadata: %w", err)
		}
	}

	_, err := r.db.Exec(ctx, query,
		record.ID, record.UserID, string(record.Action),
		record.IPAddress, record.UserAgent,
		record.Success, record.ErrorMessage, metadata, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append audit record: %w", err)
	}

	return nil
}

func (r *AuditRepository) GetByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]model.AuditRecord, error) {
	query := `SELECT id, user_id, action, COALESCE(ip_address, ''), COALESCE(user_agent, ''), success, COALESCE(error_message, ''), metadata, created_at
			  FROM wallet_access_log
			  WHERE user_id = $1
			  ORDER BY created_at DESC
			  LIMIT $2`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get audit records by user id: %w", err)
	}
	defer rows.Close()

	var records []model.AuditRecord
	for rows.Next() {
		var (
			record   model.AuditRecord
			action   string
			metadata []byte
		)
		if err := rows.Scan(
			&record.ID, &record.UserID, &action,
			&record.IPAddress, &record.UserAgent,
			&record.Success, &record.ErrorMessage, &metadata, &record.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit record: %w", err)
		}
		record.Action = model.AuditAction(action)
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &record.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal audit metadata: %w", err)
			}
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit records: %w", err)
	}

	return records, nil
}

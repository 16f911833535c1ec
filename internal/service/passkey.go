package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/solvault/solvault-server/internal/logger"
	"github.com/solvault/solvault-server/internal/model"
)

// Passkey manages credentials registered through the identity provider.
// Rename and removal are audited and rate limited like disclosure operations.
type Passkey struct {
	passkeyStore model.PasskeyStore
	governor     *Governor
	logger       *logger.Logger
}

// NewPasskey creates a Passkey service.
func NewPasskey(passkeyStore model.PasskeyStore, governor *Governor, logger *logger.Logger) *Passkey {
	return &Passkey{
		passkeyStore: passkeyStore,
		governor:     governor,
		logger:       logger,
	}
}

// List returns the user's registered passkeys.
func (p *Passkey) List(ctx context.Context, userID uuid.UUID) ([]model.Passkey, error) {
	passkeys, err := p.passkeyStore.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get passkeys: %w", err)
	}

	return passkeys, nil
}

// Rename changes the display name of a passkey owned by the user.
func (p *Passkey) Rename(ctx context.Context, userID uuid.UUID, passkeyID, name string, meta model.RequestMeta) (model.Passkey, error) {
	if rlErr := p.governor.Check(ctx, userID, model.ActionPasskeyRenamed, meta); rlErr != nil {
		return model.Passkey{}, rlErr
	}

	renamed, err := p.passkeyStore.Rename(ctx, userID, passkeyID, name)
	if err != nil {
		p.auditFailure(ctx, userID, model.ActionPasskeyRenamed, meta, err)
		if errors.Is(err, model.ErrNotFound) {
			return model.Passkey{}, model.ErrNotFound
		}
		return model.Passkey{}, fmt.Errorf("failed to rename passkey: %w", err)
	}

	p.governor.Log(ctx, model.AuditRecord{
		UserID:    userID,
		Action:    model.ActionPasskeyRenamed,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		Success:   true,
		Metadata:  map[string]any{"passkeyId": passkeyID, "newName": name},
	})

	return renamed, nil
}

// Remove deletes a passkey owned by the user. Wallets encrypted under the
// removed credential keep their stored credential reference, so they remain
// decryptable.
func (p *Passkey) Remove(ctx context.Context, userID uuid.UUID, passkeyID string, meta model.RequestMeta) error {
	if rlErr := p.governor.Check(ctx, userID, model.ActionPasskeyRemoved, meta); rlErr != nil {
		return rlErr
	}

	if err := p.passkeyStore.Delete(ctx, userID, passkeyID); err != nil {
		p.auditFailure(ctx, userID, model.ActionPasskeyRemoved, meta, err)
		if errors.Is(err, model.ErrNotFound) {
			return model.ErrNotFound
		}
		return fmt.Errorf("failed to delete passkey: %w", err)
	}

	p.governor.Log(ctx, model.AuditRecord{
		UserID:    userID,
		Action:    model.ActionPasskeyRemoved,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		Success:   true,
		Metadata:  map[string]any{"passkeyId": passkeyID},
	})

	return nil
}

func (p *Passkey) auditFailure(ctx context.Context, userID uuid.UUID, action model.AuditAction, meta model.RequestMeta, cause error) {
	p.logger.Error("Passkey service: operation failed",
		"user_id", userID,
		"action", action,
		"error", cause.Error())

	p.governor.Log(ctx, model.AuditRecord{
		UserID:       userID,
		Action:       action,
		IPAddress:    meta.IPAddress,
		UserAgent:    meta.UserAgent,
		Success:      false,
		ErrorMessage: cause.Error(),
	})
}

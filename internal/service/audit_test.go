package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/solvault/solvault-server/internal/model"
	"github.com/solvault/solvault-server/internal/testutil"
)

func TestGovernor_Check_Allowed(t *testing.T) {
	userID := uuid.New()
	auditStore := &MockAuditStore{}
	limiter := &MockRateLimiter{}

	limiter.On("CheckAndConsume", userID, model.ActionRevealPhrase).Return(false)

	g := NewGovernor(auditStore, limiter, testutil.MakeNoopLogger())

	rlErr := g.Check(context.Background(), userID, model.ActionRevealPhrase, model.RequestMeta{})
	assert.Nil(t, rlErr)

	// Allowed attempts leave auditing to the caller.
	auditStore.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestGovernor_Check_Denied(t *testing.T) {
	userID := uuid.New()
	meta := model.RequestMeta{IPAddress: "198.51.100.7", UserAgent: "test-agent"}
	auditStore := &MockAuditStore{}
	limiter := &MockRateLimiter{}

	limiter.On("CheckAndConsume", userID, model.ActionRevealPhrase).Return(true)
	limiter.On("TimeUntilReset", userID, model.ActionRevealPhrase).Return(17 * time.Minute)

	auditStore.On("Append", mock.Anything, mock.MatchedBy(func(r model.AuditRecord) bool {
		return r.UserID == userID &&
			r.Action == model.ActionRevealPhrase &&
			!r.Success &&
			r.ErrorMessage == "Rate limit exceeded" &&
			r.IPAddress == meta.IPAddress &&
			r.UserAgent == meta.UserAgent
	})).Return(nil).Once()

	g := NewGovernor(auditStore, limiter, testutil.MakeNoopLogger())

	rlErr := g.Check(context.Background(), userID, model.ActionRevealPhrase, meta)
	require.NotNil(t, rlErr)
	assert.Equal(t, model.ActionRevealPhrase, rlErr.Action)
	assert.Equal(t, 17*time.Minute, rlErr.Reset)
	assert.Equal(t, 17*60, rlErr.ResetSeconds())

	auditStore.AssertExpectations(t)
}

func TestGovernor_Log_StampsRecord(t *testing.T) {
	userID := uuid.New()
	auditStore := &MockAuditStore{}

	auditStore.On("Append", mock.Anything, mock.MatchedBy(func(r model.AuditRecord) bool {
		return r.ID != uuid.Nil && !r.CreatedAt.IsZero() && r.UserID == userID
	})).Return(nil).Once()

	g := NewGovernor(auditStore, allowAll(), testutil.MakeNoopLogger())

	g.Log(context.Background(), model.AuditRecord{
		UserID:  userID,
		Action:  model.ActionExportKey,
		Success: true,
	})

	auditStore.AssertExpectations(t)
}

func TestGovernor_Log_SwallowsStoreError(t *testing.T) {
	auditStore := &MockAuditStore{}
	auditStore.On("Append", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	g := NewGovernor(auditStore, allowAll(), testutil.MakeNoopLogger())

	// Must not panic or surface the error.
	g.Log(context.Background(), model.AuditRecord{
		UserID: uuid.New(),
		Action: model.ActionExportKey,
	})
}

func TestGovernor_ListLogs(t *testing.T) {
	userID := uuid.New()

	logs := []model.AuditRecord{
		{ID: uuid.New(), UserID: userID, Action: model.ActionRevealPhrase, Success: true},
		{ID: uuid.New(), UserID: userID, Action: model.ActionExportKey, Success: false},
	}

	tests := []struct {
		name      string
		limit     int
		wantLimit int
	}{
		{
			name:      "explicit limit",
			limit:     10,
			wantLimit: 10,
		},
		{
			name:      "zero limit clamped to default",
			limit:     0,
			wantLimit: DefaultAuditLogLimit,
		},
		{
			name:      "oversized limit clamped to default",
			limit:     500,
			wantLimit: DefaultAuditLogLimit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auditStore := &MockAuditStore{}
			auditStore.On("GetByUserID", mock.Anything, userID, tt.wantLimit).Return(logs, nil)

			g := NewGovernor(auditStore, allowAll(), testutil.MakeNoopLogger())

			got, err := g.ListLogs(context.Background(), userID, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, logs, got)
			auditStore.AssertExpectations(t)
		})
	}
}

func TestGovernor_ListLogs_StoreError(t *testing.T) {
	userID := uuid.New()
	auditStore := &MockAuditStore{}
	auditStore.On("GetByUserID", mock.Anything, userID, DefaultAuditLogLimit).Return([]model.AuditRecord(nil), errors.New("connection refused"))

	g := NewGovernor(auditStore, allowAll(), testutil.MakeNoopLogger())

	_, err := g.ListLogs(context.Background(), userID, 0)
	require.Error(t, err)
}

package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	httpctx "github.com/solvault/solvault-server/internal/api/http/context"
	"github.com/solvault/solvault-server/internal/crypto"
	"github.com/solvault/solvault-server/internal/model"
	"github.com/solvault/solvault-server/internal/ratelimit"
	"github.com/solvault/solvault-server/internal/service"
	"github.com/solvault/solvault-server/internal/testutil"
	"github.com/solvault/solvault-server/internal/token"
)

// MockWalletStore mocks the WalletStore interface
type MockWalletStore struct {
	mock.Mock
}

func (m *MockWalletStore) Create(ctx context.Context, record model.WalletRecord) (model.WalletRecord, error) {
	args := m.Called(ctx, record)
	return args.Get(0).(model.WalletRecord), args.Error(1)
}

func (m *MockWalletStore) GetByUserID(ctx context.Context, userID uuid.UUID) (model.WalletRecord, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.WalletRecord), args.Error(1)
}

// MockUserStore mocks the UserStore interface
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) SetWalletAddress(ctx context.Context, id uuid.UUID, address string) error {
	args := m.Called(ctx, id, address)
	return args.Error(0)
}

// MockAuditStore mocks the AuditStore interface
type MockAuditStore struct {
	mock.Mock
}

func (m *MockAuditStore) Append(ctx context.Context, record model.AuditRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockAuditStore) GetByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]model.AuditRecord, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]model.AuditRecord), args.Error(1)
}

// MockPasskeyStore mocks the PasskeyStore interface
type MockPasskeyStore struct {
	mock.Mock
}

func (m *MockPasskeyStore) GetByUserID(ctx context.Context, userID uuid.UUID) ([]model.Passkey, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.Passkey), args.Error(1)
}

func (m *MockPasskeyStore) Rename(ctx context.Context, userID uuid.UUID, passkeyID string, name string) (model.Passkey, error) {
	args := m.Called(ctx, userID, passkeyID, name)
	return args.Get(0).(model.Passkey), args.Error(1)
}

func (m *MockPasskeyStore) Delete(ctx context.Context, userID uuid.UUID, passkeyID string) error {
	args := m.Called(ctx, userID, passkeyID)
	return args.Error(0)
}

type routerEnv struct {
	engine       http.Handler
	tokenManager model.TokenManager
	walletStore  *MockWalletStore
	auditStore   *MockAuditStore
	passkeyStore *MockPasskeyStore
	limiter      *ratelimit.Limiter
}

func newRouterEnv(t *testing.T) *routerEnv {
	t.Helper()

	e := &routerEnv{
		walletStore:  &MockWalletStore{},
		auditStore:   &MockAuditStore{},
		passkeyStore: &MockPasskeyStore{},
	}

	e.limiter = ratelimit.New(model.RateLimits, time.Minute)
	t.Cleanup(e.limiter.Close)

	log := testutil.MakeNoopLogger()
	contextManager := httpctx.NewManager()
	governor := service.NewGovernor(e.auditStore, e.limiter, log)
	vault := service.NewVault(e.walletStore, &MockUserStore{}, governor, crypto.NewKDF(1000), log)
	passkey := service.NewPasskey(e.passkeyStore, governor, log)
	e.tokenManager = token.NewJWT("test-secret")

	e.engine = New(vault, passkey, governor, e.tokenManager, contextManager, log).Register()
	return e
}

func (e *routerEnv) authorizedRequest(t *testing.T, userID uuid.UUID, method, path string) *http.Request {
	t.Helper()

	accessToken, err := e.tokenManager.GenerateAccessToken(userID)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	return req
}

func TestRouter_RejectsUnauthenticated(t *testing.T) {
	e := newRouterEnv(t)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/wallet"},
		{http.MethodPost, "/api/wallet/export-key"},
		{http.MethodPost, "/api/wallet/reveal-phrase"},
		{http.MethodGet, "/api/audit-logs"},
		{http.MethodGet, "/api/passkeys"},
		{http.MethodPost, "/api/passkeys/rename"},
		{http.MethodPost, "/api/passkeys/delete"},
	}

	for _, route := range routes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			e.engine.ServeHTTP(w, httptest.NewRequest(route.method, route.path, nil))
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRouter_AuthenticatedRoute(t *testing.T) {
	e := newRouterEnv(t)
	userID := uuid.New()

	e.auditStore.On("GetByUserID", mock.Anything, userID, mock.AnythingOfType("int")).Return([]model.AuditRecord{}, nil)

	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, e.authorizedRequest(t, userID, http.MethodGet, "/api/audit-logs"))

	require.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_ExportKeyRateLimitEndToEnd(t *testing.T) {
	e := newRouterEnv(t)
	userID := uuid.New()

	e.walletStore.On("GetByUserID", mock.Anything, userID).Return(model.WalletRecord{}, model.ErrNotFound)
	e.auditStore.On("Append", mock.Anything, mock.Anything).Return(nil)

	// The export_key window allows 3 attempts per hour. After those the real
	// limiter denies the request before it reaches the store.
	for range 3 {
		w := httptest.NewRecorder()
		e.engine.ServeHTTP(w, e.authorizedRequest(t, userID, http.MethodPost, "/api/wallet/export-key"))
		assert.Equal(t, http.StatusNotFound, w.Code)
	}

	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, e.authorizedRequest(t, userID, http.MethodPost, "/api/wallet/export-key"))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

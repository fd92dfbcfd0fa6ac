package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/erp/distribution/internal/domain/identity"
	"github.com/erp/distribution/internal/domain/shared"
	"github.com/erp/distribution/internal/interfaces/http/dto"
	"github.com/erp/distribution/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// fixedTenant resolves every request to one active tenant
type fixedTenant struct {
	tenant *identity.Tenant
}

func newFixedTenant(t *testing.T) *fixedTenant {
	t.Helper()
	tenant, err := identity.NewTenant("ACME", "Acme Distribution")
	require.NoError(t, err)
	return &fixedTenant{tenant: tenant}
}

func (f *fixedTenant) ResolveByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	return f.tenant, nil
}

func (f *fixedTenant) ResolveByCode(ctx context.Context, code string) (*identity.Tenant, error) {
	return f.tenant, nil
}

// tenantRouter returns an engine whose routes run behind the tenant middleware
func tenantRouter(t *testing.T) (*gin.Engine, uuid.UUID) {
	t.Helper()
	resolver := newFixedTenant(t)
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Tenant(resolver, nil))
	return r, resolver.tenant.ID
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.TenantIDHeader, uuid.NewString())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.ErrorInfo  `json:"error"`
	Meta    *dto.Meta       `json:"meta"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

// mockTenantRepo mocks shared.TenantRepository for any aggregate
type mockTenantRepo[T any] struct {
	mock.Mock
}

func (m *mockTenantRepo[T]) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*T, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *mockTenantRepo[T]) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]T, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

func (m *mockTenantRepo[T]) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockTenantRepo[T]) Create(ctx context.Context, entity *T) error {
	return m.Called(ctx, entity).Error(0)
}

func (m *mockTenantRepo[T]) Save(ctx context.Context, entity *T) error {
	return m.Called(ctx, entity).Error(0)
}

func (m *mockTenantRepo[T]) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

// mockCodedRepo adds the per-tenant code lookup
type mockCodedRepo[T any] struct {
	mockTenantRepo[T]
}

func (m *mockCodedRepo[T]) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, tenantID, code)
	return args.Bool(0), args.Error(1)
}

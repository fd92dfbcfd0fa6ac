package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/erp/distribution/internal/domain/identity"
	"github.com/erp/distribution/internal/domain/shared"
	"github.com/erp/distribution/internal/infrastructure/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTenantResolver struct {
	mock.Mock
}

func (m *MockTenantResolver) ResolveByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	args := m.Called(ctx, id)
	if t := args.Get(0); t != nil {
		return t.(*identity.Tenant), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTenantResolver) ResolveByCode(ctx context.Context, code string) (*identity.Tenant, error) {
	args := m.Called(ctx, code)
	if t := args.Get(0); t != nil {
		return t.(*identity.Tenant), args.Error(1)
	}
	return nil, args.Error(1)
}

func tenantRouter(resolver TenantResolver, fallback *uuid.UUID, claims *auth.Claims) *gin.Engine {
	router := gin.New()
	router.Use(RequestID())
	if claims != nil {
		router.Use(func(c *gin.Context) { c.Set(JWTClaimsKey, claims) })
	}
	router.Use(Tenant(resolver, fallback))
	router.GET("/t", func(c *gin.Context) {
		id, _ := GetTenantID(c)
		c.String(http.StatusOK, id.String())
	})
	return router
}

func tenantRequest(headers map[string]string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/t", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return req
}

func TestTenant(t *testing.T) {
	tenant, err := identity.NewTenant("ACME", "Acme Distribution")
	require.NoError(t, err)

	t.Run("header id", func(t *testing.T) {
		r := new(MockTenantResolver)
		r.On("ResolveByID", mock.Anything, tenant.ID).Return(tenant, nil)

		w := serve(tenantRouter(r, nil, nil), tenantRequest(map[string]string{TenantIDHeader: tenant.ID.String()}))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, tenant.ID.String(), w.Body.String())
	})

	t.Run("claim wins over header", func(t *testing.T) {
		other := uuid.New()
		r := new(MockTenantResolver)
		r.On("ResolveByID", mock.Anything, tenant.ID).Return(tenant, nil)

		w := serve(tenantRouter(r, nil, &auth.Claims{TenantID: tenant.ID.String()}),
			tenantRequest(map[string]string{TenantIDHeader: other.String()}))
		assert.Equal(t, http.StatusOK, w.Code)
		r.AssertNotCalled(t, "ResolveByID", mock.Anything, other)
	})

	t.Run("code is upper-cased", func(t *testing.T) {
		r := new(MockTenantResolver)
		r.On("ResolveByCode", mock.Anything, "ACME").Return(tenant, nil)

		w := serve(tenantRouter(r, nil, nil), tenantRequest(map[string]string{TenantCodeHeader: " acme "}))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing tenant", func(t *testing.T) {
		w := serve(tenantRouter(new(MockTenantResolver), nil, nil), tenantRequest(nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("fallback tenant", func(t *testing.T) {
		r := new(MockTenantResolver)
		r.On("ResolveByID", mock.Anything, tenant.ID).Return(tenant, nil)
		w := serve(tenantRouter(r, &tenant.ID, nil), tenantRequest(nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		w := serve(tenantRouter(new(MockTenantResolver), nil, nil), tenantRequest(map[string]string{TenantIDHeader: "nope"}))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown tenant", func(t *testing.T) {
		r := new(MockTenantResolver)
		r.On("ResolveByCode", mock.Anything, "GHOST").Return(nil, shared.ErrNotFound)
		w := serve(tenantRouter(r, nil, nil), tenantRequest(map[string]string{TenantCodeHeader: "ghost"}))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("suspended tenant", func(t *testing.T) {
		r := new(MockTenantResolver)
		r.On("ResolveByID", mock.Anything, tenant.ID).Return(nil, shared.ErrTenantSuspended)
		w := serve(tenantRouter(r, nil, nil), tenantRequest(map[string]string{TenantIDHeader: tenant.ID.String()}))
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), `"TENANT_SUSPENDED"`)
	})

	t.Run("lookup failure", func(t *testing.T) {
		r := new(MockTenantResolver)
		r.On("ResolveByID", mock.Anything, tenant.ID).Return(nil, errors.New("db down"))
		w := serve(tenantRouter(r, nil, nil), tenantRequest(map[string]string{TenantIDHeader: tenant.ID.String()}))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "db down")
	})
}

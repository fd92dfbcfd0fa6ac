package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erp/distribution/internal/domain/identity"
	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindByCode(ctx context.Context, code string) (*identity.Tenant, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.Tenant, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.Tenant), args.Error(1)
}

func (m *MockTenantRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTenantRepository) Create(ctx context.Context, t *identity.Tenant) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTenantRepository) Save(ctx context.Context, t *identity.Tenant) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTenantRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

type mapCodeCache struct {
	ids map[string]uuid.UUID
}

func (c *mapCodeCache) Get(_ context.Context, code string) (uuid.UUID, bool, error) {
	id, ok := c.ids[code]
	return id, ok, nil
}

func (c *mapCodeCache) Set(_ context.Context, code string, id uuid.UUID, _ time.Duration) error {
	c.ids[code] = id
	return nil
}

func (c *mapCodeCache) Invalidate(_ context.Context, code string) error {
	delete(c.ids, code)
	return nil
}

func newTenant(t *testing.T, code string) *identity.Tenant {
	t.Helper()
	tenant, err := identity.NewTenant(code, "Tenant "+code)
	require.NoError(t, err)
	return tenant
}

func TestTenantService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates tenant", func(t *testing.T) {
		repo := new(MockTenantRepository)
		svc := NewTenantService(repo, nil, nil)
		repo.On("ExistsByCode", ctx, "acme").Return(false, nil)
		repo.On("Create", ctx, mock.AnythingOfType("*identity.Tenant")).Return(nil)

		resp, err := svc.Create(ctx, CreateTenantRequest{Code: "acme", Name: "Acme", Currency: "kes"})
		require.NoError(t, err)
		assert.Equal(t, "ACME", resp.Code)
		assert.Equal(t, "KES", resp.Currency)
		assert.Equal(t, "active", resp.Status)
		assert.Equal(t, 1, resp.Version)
		repo.AssertExpectations(t)
	})

	t.Run("rejects duplicate code", func(t *testing.T) {
		repo := new(MockTenantRepository)
		svc := NewTenantService(repo, nil, nil)
		repo.On("ExistsByCode", ctx, "acme").Return(true, nil)

		_, err := svc.Create(ctx, CreateTenantRequest{Code: "acme", Name: "Acme"})
		assert.True(t, errors.Is(err, shared.ErrAlreadyExists))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestTenantService_SuspendActivate(t *testing.T) {
	ctx := context.Background()
	repo := new(MockTenantRepository)
	svc := NewTenantService(repo, nil, nil)
	tenant := newTenant(t, "ACME")
	repo.On("FindByID", ctx, tenant.ID).Return(tenant, nil)
	repo.On("Save", ctx, tenant).Return(nil)

	resp, err := svc.Suspend(ctx, tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, "suspended", resp.Status)

	_, err = svc.Suspend(ctx, tenant.ID)
	assert.True(t, errors.Is(err, shared.ErrInvalidState))

	_, err = svc.ResolveByID(ctx, tenant.ID)
	assert.True(t, errors.Is(err, shared.ErrTenantSuspended))

	resp, err = svc.Activate(ctx, tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, "active", resp.Status)
}

func TestTenantService_ResolveByCode(t *testing.T) {
	ctx := context.Background()
	tenant := newTenant(t, "ACME")

	t.Run("caches the lookup", func(t *testing.T) {
		repo := new(MockTenantRepository)
		cache := &mapCodeCache{ids: map[string]uuid.UUID{}}
		svc := NewTenantService(repo, cache, nil)
		repo.On("FindByCode", ctx, "acme").Return(tenant, nil).Once()
		repo.On("FindByID", ctx, tenant.ID).Return(tenant, nil).Once()

		got, err := svc.ResolveByCode(ctx, "acme")
		require.NoError(t, err)
		assert.Equal(t, tenant.ID, got.ID)
		assert.Equal(t, tenant.ID, cache.ids["acme"])

		got, err = svc.ResolveByCode(ctx, "acme")
		require.NoError(t, err)
		assert.Equal(t, tenant.ID, got.ID)
		repo.AssertExpectations(t)
	})

	t.Run("stale cache entry falls back to code lookup", func(t *testing.T) {
		repo := new(MockTenantRepository)
		stale := uuid.New()
		cache := &mapCodeCache{ids: map[string]uuid.UUID{"acme": stale}}
		svc := NewTenantService(repo, cache, nil)
		repo.On("FindByID", ctx, stale).Return(nil, shared.ErrNotFound)
		repo.On("FindByCode", ctx, "acme").Return(tenant, nil)

		got, err := svc.ResolveByCode(ctx, "acme")
		require.NoError(t, err)
		assert.Equal(t, tenant.ID, got.ID)
		assert.Equal(t, tenant.ID, cache.ids["acme"])
	})

	t.Run("unknown code", func(t *testing.T) {
		repo := new(MockTenantRepository)
		svc := NewTenantService(repo, nil, nil)
		repo.On("FindByCode", ctx, "nope").Return(nil, shared.ErrNotFound)

		_, err := svc.ResolveByCode(ctx, "nope")
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}

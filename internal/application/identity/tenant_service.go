// Package identity manages tenants and resolves the tenant of a request.
package identity

import (
	"context"
	"errors"
	"time"

	appshared "github.com/erp/distribution/internal/application/shared"
	"github.com/erp/distribution/internal/domain/identity"
	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TenantCodeCacheTTL is how long a code → id lookup is cached
const TenantCodeCacheTTL = 10 * time.Minute

// TenantCodeCache caches tenant code lookups
type TenantCodeCache interface {
	Get(ctx context.Context, code string) (uuid.UUID, bool, error)
	Set(ctx context.Context, code string, id uuid.UUID, ttl time.Duration) error
	Invalidate(ctx context.Context, code string) error
}

// TenantService handles tenant administration and request tenant resolution
type TenantService struct {
	tenantRepo identity.TenantRepository
	codeCache  TenantCodeCache
	log        *zap.Logger
}

// NewTenantService creates a new TenantService. codeCache may be nil.
func NewTenantService(tenantRepo identity.TenantRepository, codeCache TenantCodeCache, log *zap.Logger) *TenantService {
	if log == nil {
		log = zap.NewNop()
	}
	return &TenantService{tenantRepo: tenantRepo, codeCache: codeCache, log: log}
}

// Create registers a new tenant
func (s *TenantService) Create(ctx context.Context, req CreateTenantRequest) (*TenantResponse, error) {
	exists, err := s.tenantRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Tenant with this code already exists")
	}

	tenant, err := identity.NewTenant(req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	if req.Currency != "" || req.Timezone != "" || req.ContactEmail != "" {
		if err := tenant.Update("", req.Currency, req.Timezone, req.ContactEmail); err != nil {
			return nil, err
		}
		tenant.Version = 1
	}
	if err := s.tenantRepo.Create(ctx, tenant); err != nil {
		return nil, err
	}

	response := ToTenantResponse(tenant)
	return &response, nil
}

// GetByID retrieves a tenant by ID
func (s *TenantService) GetByID(ctx context.Context, id uuid.UUID) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToTenantResponse(tenant)
	return &response, nil
}

// List returns a page of tenants and the total count
func (s *TenantService) List(ctx context.Context, filter TenantListFilter) ([]TenantResponse, int64, error) {
	f := filter.Filter().With("status", filter.Status)
	tenants, err := s.tenantRepo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.tenantRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	return appshared.MapSlice(tenants, ToTenantResponse), total, nil
}

// Update changes the descriptive fields of a tenant
func (s *TenantService) Update(ctx context.Context, id uuid.UUID, req UpdateTenantRequest) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := tenant.Update(req.Name, req.Currency, req.Timezone, req.ContactEmail); err != nil {
		return nil, err
	}
	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}
	response := ToTenantResponse(tenant)
	return &response, nil
}

// Suspend blocks all requests of a tenant
func (s *TenantService) Suspend(ctx context.Context, id uuid.UUID) (*TenantResponse, error) {
	return s.changeStatus(ctx, id, (*identity.Tenant).Suspend)
}

// Activate re-enables a suspended tenant
func (s *TenantService) Activate(ctx context.Context, id uuid.UUID) (*TenantResponse, error) {
	return s.changeStatus(ctx, id, (*identity.Tenant).Activate)
}

func (s *TenantService) changeStatus(ctx context.Context, id uuid.UUID, apply func(*identity.Tenant) error) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(tenant); err != nil {
		return nil, err
	}
	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}
	response := ToTenantResponse(tenant)
	return &response, nil
}

// ResolveByID returns an active tenant. Suspended tenants yield TENANT_SUSPENDED.
func (s *TenantService) ResolveByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !tenant.IsActive() {
		return nil, shared.ErrTenantSuspended
	}
	return tenant, nil
}

// ResolveByCode looks the code up through the cache, then resolves by ID
func (s *TenantService) ResolveByCode(ctx context.Context, code string) (*identity.Tenant, error) {
	if s.codeCache != nil {
		id, ok, err := s.codeCache.Get(ctx, code)
		if err != nil {
			s.log.Warn("tenant code cache read failed", zap.String("code", code), zap.Error(err))
		} else if ok {
			tenant, err := s.ResolveByID(ctx, id)
			if !errors.Is(err, shared.ErrNotFound) {
				return tenant, err
			}
			_ = s.codeCache.Invalidate(ctx, code)
		}
	}

	tenant, err := s.tenantRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if s.codeCache != nil {
		if err := s.codeCache.Set(ctx, code, tenant.ID, TenantCodeCacheTTL); err != nil {
			s.log.Warn("tenant code cache write failed", zap.String("code", code), zap.Error(err))
		}
	}
	if !tenant.IsActive() {
		return nil, shared.ErrTenantSuspended
	}
	return tenant, nil
}

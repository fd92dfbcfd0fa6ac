package identity

import (
	"context"

	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
)

// TenantLookup resolves tenants by ID or code
type TenantLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	FindByCode(ctx context.Context, code string) (*Tenant, error)
}

// TenantRepository persists tenants. Tenant rows live at platform level
// and carry no tenant_id of their own.
type TenantRepository interface {
	TenantLookup

	FindAll(ctx context.Context, filter shared.Filter) ([]Tenant, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)

	Create(ctx context.Context, tenant *Tenant) error
	Save(ctx context.Context, tenant *Tenant) error
}

package commission

import (
	"context"
	"time"

	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
)

// StructureRepository defines the interface for commission structure persistence
type StructureRepository interface {
	shared.TenantRepository[Structure]

	// FindApplicable returns active structures effective on the day that cover the agent
	FindApplicable(ctx context.Context, tenantID, agentID uuid.UUID, at time.Time) ([]Structure, error)
}

// CommissionRepository defines the interface for accrued commission persistence
type CommissionRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Commission, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Commission, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	FindByIdempotencyKey(ctx context.Context, tenantID uuid.UUID, key string) (*Commission, error)
	Create(ctx context.Context, c *Commission) error

	// TransitionStatus saves c only if its stored status equals from
	TransitionStatus(ctx context.Context, c *Commission, from Status) error
}

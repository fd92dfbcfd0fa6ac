package field

import (
	"context"

	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
)

// AgentRepository defines the interface for agent persistence
type AgentRepository interface {
	shared.TenantRepository[Agent]
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
}

// RouteRepository defines the interface for route persistence
type RouteRepository interface {
	shared.TenantRepository[Route]
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
}

// VisitRepository defines the interface for visit persistence
type VisitRepository interface {
	shared.TenantRepository[Visit]

	// SaveWithLock persists when the stored version equals expectedVersion,
	// otherwise it returns shared.ErrConcurrencyConflict
	SaveWithLock(ctx context.Context, v *Visit, expectedVersion int) error
}

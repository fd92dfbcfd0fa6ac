package approval

import (
	"context"

	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
)

// EntityTypeRepository reads the global entity type lookup
type EntityTypeRepository interface {
	FindAll(ctx context.Context) ([]EntityType, error)
	FindByCode(ctx context.Context, code string) (*EntityType, error)
}

// RequestRepository defines the interface for approval request persistence.
// Finders preload the entity type.
type RequestRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Request, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Request, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// FindPendingForEntity returns the pending request for an entity, or NOT_FOUND
	FindPendingForEntity(ctx context.Context, tenantID uuid.UUID, entityTypeCode string, entityID uuid.UUID) (*Request, error)

	Create(ctx context.Context, r *Request) error

	// TransitionStatus saves r only if its stored status equals from
	TransitionStatus(ctx context.Context, r *Request, from Status) error
}

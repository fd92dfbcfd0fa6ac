package partner

import (
	"context"

	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	shared.TenantRepository[Customer]

	// ExistsByCode checks if a customer code is taken within the tenant
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)

	// FindByRoute returns the customers assigned to a route
	FindByRoute(ctx context.Context, tenantID, routeID uuid.UUID) ([]Customer, error)

	// AssignRoute moves the given customers onto a route and returns the number updated
	AssignRoute(ctx context.Context, tenantID, routeID uuid.UUID, customerIDs []uuid.UUID) (int64, error)
}

package trade

import (
	"context"
	"time"

	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderRepository defines the interface for order persistence.
// Finders preload items.
type OrderRepository interface {
	shared.TenantRepository[Order]

	// FindByIDForUpdate loads an order with items inside a transaction
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Order, error)

	// CountForDay counts the tenant's orders with the given order date
	CountForDay(ctx context.Context, tenantID uuid.UUID, day time.Time) (int64, error)

	// ExistsForCustomer reports whether the customer has any order
	ExistsForCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (bool, error)

	// SaveWithLock persists header fields when the stored version equals expectedVersion
	SaveWithLock(ctx context.Context, order *Order, expectedVersion int) error
}

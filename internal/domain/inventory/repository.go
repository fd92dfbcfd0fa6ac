package inventory

import (
	"context"

	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
)

// WarehouseRepository defines the interface for warehouse persistence
type WarehouseRepository interface {
	shared.TenantRepository[Warehouse]
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
}

// StockItemRepository defines the interface for stock level persistence
type StockItemRepository interface {
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]StockItem, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// FindByWarehouseAndProduct returns shared.ErrNotFound when no row exists yet
	FindByWarehouseAndProduct(ctx context.Context, tenantID, warehouseID, productID uuid.UUID) (*StockItem, error)

	Create(ctx context.Context, item *StockItem) error

	// SaveWithLock persists quantities only if the stored version equals expectedVersion
	SaveWithLock(ctx context.Context, item *StockItem, expectedVersion int) error
}

// StockMovementRepository defines the interface for the movement ledger
type StockMovementRepository interface {
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]StockMovement, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Create(ctx context.Context, movement *StockMovement) error
}

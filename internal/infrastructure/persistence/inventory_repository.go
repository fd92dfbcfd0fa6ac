package persistence

import (
	"context"

	"github.com/erp/distribution/internal/domain/inventory"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormWarehouseRepository implements inventory.WarehouseRepository
type GormWarehouseRepository struct {
	TenantStore[inventory.Warehouse]
}

// NewGormWarehouseRepository creates a new GormWarehouseRepository
func NewGormWarehouseRepository(db *gorm.DB) *GormWarehouseRepository {
	return &GormWarehouseRepository{NewTenantStore[inventory.Warehouse](db, QuerySpec{
		Filters: map[string]string{"status": "status"},
		Search:  []string{"name", "code"},
		Sort:    WarehouseSortFields,
	})}
}

// GormStockItemRepository implements inventory.StockItemRepository over inventory_stock
type GormStockItemRepository struct {
	TenantStore[inventory.StockItem]
}

// NewGormStockItemRepository creates a new GormStockItemRepository
func NewGormStockItemRepository(db *gorm.DB) *GormStockItemRepository {
	return &GormStockItemRepository{NewTenantStore[inventory.StockItem](db, QuerySpec{
		Filters: map[string]string{
			"warehouse_id": "warehouse_id",
			"product_id":   "product_id",
			"low_stock":    "quantity_on_hand <= ?",
		},
		Sort: StockSortFields,
	})}
}

// FindByWarehouseAndProduct returns the stock row for the pair
func (r *GormStockItemRepository) FindByWarehouseAndProduct(ctx context.Context, tenantID, warehouseID, productID uuid.UUID) (*inventory.StockItem, error) {
	return r.FindOne(ctx, tenantID, "warehouse_id = ? AND product_id = ?", warehouseID, productID)
}

// GormStockMovementRepository implements inventory.StockMovementRepository
type GormStockMovementRepository struct {
	TenantStore[inventory.StockMovement]
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{NewTenantStore[inventory.StockMovement](db, QuerySpec{
		Filters: map[string]string{
			"warehouse_id":   "warehouse_id",
			"product_id":     "product_id",
			"movement_type":  "movement_type",
			"reference_type": "reference_type",
			"reference_id":   "reference_id",
		},
		Sort: MovementSortFields,
	})}
}

var (
	_ inventory.WarehouseRepository     = (*GormWarehouseRepository)(nil)
	_ inventory.StockItemRepository     = (*GormStockItemRepository)(nil)
	_ inventory.StockMovementRepository = (*GormStockMovementRepository)(nil)
)

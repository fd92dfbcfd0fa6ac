package inventory

import (
	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
)

// MovementType classifies a stock movement
type MovementType string

const (
	MovementIn          MovementType = "in"
	MovementOut         MovementType = "out"
	MovementAdjustment  MovementType = "adjustment"
	MovementTransferIn  MovementType = "transfer_in"
	MovementTransferOut MovementType = "transfer_out"
	MovementReserve     MovementType = "reserve"
	MovementRelease     MovementType = "release"
)

// Reference types recorded on movements
const (
	ReferenceOrder    = "order"
	ReferenceTransfer = "transfer"
	ReferenceManual   = "manual"
)

// StockMovement is an append-only record of a stock change
type StockMovement struct {
	shared.TenantAggregateRoot
	WarehouseID   uuid.UUID    `gorm:"type:uuid;not null;index"`
	ProductID     uuid.UUID    `gorm:"type:uuid;not null;index"`
	MovementType  MovementType `gorm:"type:varchar(20);not null;index"`
	Quantity      int64        `gorm:"not null"`
	BalanceAfter  int64        `gorm:"not null"`
	ReferenceType string       `gorm:"type:varchar(30);index"`
	ReferenceID   *uuid.UUID   `gorm:"type:uuid;index"`
	Notes         string       `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement records a movement against the given stock level after it changed
func NewStockMovement(item *StockItem, movementType MovementType, qty int64, refType string, refID *uuid.UUID, notes string) *StockMovement {
	return &StockMovement{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(item.TenantID),
		WarehouseID:         item.WarehouseID,
		ProductID:           item.ProductID,
		MovementType:        movementType,
		Quantity:            qty,
		BalanceAfter:        item.QuantityOnHand,
		ReferenceType:       refType,
		ReferenceID:         refID,
		Notes:               notes,
	}
}

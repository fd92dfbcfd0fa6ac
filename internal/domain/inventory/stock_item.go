package inventory

import (
	"fmt"

	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
)

// StockItem is the stock level of one product in one warehouse
type StockItem struct {
	shared.TenantAggregateRoot
	WarehouseID      uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID `gorm:"type:uuid;not null;index"`
	QuantityOnHand   int64     `gorm:"not null;default:0"`
	QuantityReserved int64     `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (StockItem) TableName() string {
	return "inventory_stock"
}

// NewStockItem creates an empty stock level for a warehouse/product pair
func NewStockItem(tenantID, warehouseID, productID uuid.UUID) (*StockItem, error) {
	if warehouseID == uuid.Nil {
		return nil, shared.NewValidationError("warehouse id is required")
	}
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("product id is required")
	}
	return &StockItem{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		WarehouseID:         warehouseID,
		ProductID:           productID,
	}, nil
}

// Available is on-hand stock not held by reservations
func (s *StockItem) Available() int64 {
	return s.QuantityOnHand - s.QuantityReserved
}

// Receive adds stock
func (s *StockItem) Receive(qty int64) error {
	if qty <= 0 {
		return shared.NewValidationError("quantity must be positive")
	}
	s.QuantityOnHand += qty
	s.IncrementVersion()
	return nil
}

// Adjust applies a signed correction. On-hand may not drop below reserved.
func (s *StockItem) Adjust(delta int64) error {
	if delta == 0 {
		return shared.NewValidationError("adjustment cannot be zero")
	}
	next := s.QuantityOnHand + delta
	if next < 0 || next < s.QuantityReserved {
		return insufficient(s.Available(), -delta)
	}
	s.QuantityOnHand = next
	s.IncrementVersion()
	return nil
}

// Reserve holds stock for a confirmed order
func (s *StockItem) Reserve(qty int64) error {
	if qty <= 0 {
		return shared.NewValidationError("quantity must be positive")
	}
	if s.Available() < qty {
		return insufficient(s.Available(), qty)
	}
	s.QuantityReserved += qty
	s.IncrementVersion()
	return nil
}

// Release returns reserved stock to available
func (s *StockItem) Release(qty int64) error {
	if qty <= 0 {
		return shared.NewValidationError("quantity must be positive")
	}
	if s.QuantityReserved < qty {
		return shared.NewInvalidStateError("cannot release %d, only %d reserved", qty, s.QuantityReserved)
	}
	s.QuantityReserved -= qty
	s.IncrementVersion()
	return nil
}

// IssueReserved ships stock that was previously reserved
func (s *StockItem) IssueReserved(qty int64) error {
	if qty <= 0 {
		return shared.NewValidationError("quantity must be positive")
	}
	if s.QuantityReserved < qty || s.QuantityOnHand < qty {
		return shared.NewInvalidStateError("cannot issue %d, only %d reserved", qty, s.QuantityReserved)
	}
	s.QuantityReserved -= qty
	s.QuantityOnHand -= qty
	s.IncrementVersion()
	return nil
}

// Issue ships unreserved stock
func (s *StockItem) Issue(qty int64) error {
	if qty <= 0 {
		return shared.NewValidationError("quantity must be positive")
	}
	if s.Available() < qty {
		return insufficient(s.Available(), qty)
	}
	s.QuantityOnHand -= qty
	s.IncrementVersion()
	return nil
}

func insufficient(available, requested int64) error {
	return shared.NewDomainError("INSUFFICIENT_STOCK",
		fmt.Sprintf("insufficient stock: available %d, requested %d", available, requested))
}

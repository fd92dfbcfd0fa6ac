package inventory

import (
	"context"
	"errors"

	"github.com/erp/distribution/internal/domain/inventory"
	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
)

// Change is one stock mutation and the movement that records it
type Change struct {
	TenantID    uuid.UUID
	WarehouseID uuid.UUID
	ProductID   uuid.UUID
	Type        inventory.MovementType
	// Quantity is a signed delta for adjustments and positive otherwise
	Quantity int64
	// FromReserved issues an out movement against reserved stock
	FromReserved  bool
	ReferenceType string
	ReferenceID   *uuid.UUID
	Notes         string
}

// Ledger applies stock changes and appends their movements. Callers
// running inside a transaction pass the transaction's repositories.
type Ledger struct {
	stock     inventory.StockItemRepository
	movements inventory.StockMovementRepository
}

// NewLedger creates a Ledger over the given repositories
func NewLedger(stock inventory.StockItemRepository, movements inventory.StockMovementRepository) *Ledger {
	return &Ledger{stock: stock, movements: movements}
}

// Apply mutates the stock row under the version guard and records the movement
func (l *Ledger) Apply(ctx context.Context, c Change) (*inventory.StockItem, error) {
	item, err := l.stock.FindByWarehouseAndProduct(ctx, c.TenantID, c.WarehouseID, c.ProductID)
	isNew := false
	if errors.Is(err, shared.ErrNotFound) {
		item, err = inventory.NewStockItem(c.TenantID, c.WarehouseID, c.ProductID)
		isNew = true
	}
	if err != nil {
		return nil, err
	}
	expectedVersion := item.Version

	if err := mutate(item, c); err != nil {
		return nil, err
	}

	if isNew {
		if err := l.stock.Create(ctx, item); err != nil {
			if errors.Is(err, shared.ErrAlreadyExists) {
				return nil, shared.ErrConcurrencyConflict
			}
			return nil, err
		}
	} else if err := l.stock.SaveWithLock(ctx, item, expectedVersion); err != nil {
		return nil, err
	}

	movement := inventory.NewStockMovement(item, c.Type, c.Quantity, c.ReferenceType, c.ReferenceID, c.Notes)
	if err := l.movements.Create(ctx, movement); err != nil {
		return nil, err
	}
	return item, nil
}

func mutate(item *inventory.StockItem, c Change) error {
	switch c.Type {
	case inventory.MovementIn, inventory.MovementTransferIn:
		return item.Receive(c.Quantity)
	case inventory.MovementAdjustment:
		return item.Adjust(c.Quantity)
	case inventory.MovementOut:
		if c.FromReserved {
			return item.IssueReserved(c.Quantity)
		}
		return item.Issue(c.Quantity)
	case inventory.MovementTransferOut:
		return item.Issue(c.Quantity)
	case inventory.MovementReserve:
		return item.Reserve(c.Quantity)
	case inventory.MovementRelease:
		return item.Release(c.Quantity)
	}
	return shared.NewValidationError("unknown movement type %q", c.Type)
}

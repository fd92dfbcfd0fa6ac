// Package inventory contains the warehouse and stock use cases.
package inventory

import (
	"context"
	"errors"

	appshared "github.com/erp/distribution/internal/application/shared"
	"github.com/erp/distribution/internal/domain/catalog"
	"github.com/erp/distribution/internal/domain/inventory"
	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StockService handles stock levels and the movement ledger
type StockService struct {
	stockRepo     inventory.StockItemRepository
	movementRepo  inventory.StockMovementRepository
	warehouseRepo inventory.WarehouseRepository
	productRepo   catalog.ProductRepository
	txScope       TransactionScope
	log           *zap.Logger
}

// NewStockService creates a new StockService
func NewStockService(
	stockRepo inventory.StockItemRepository,
	movementRepo inventory.StockMovementRepository,
	warehouseRepo inventory.WarehouseRepository,
	productRepo catalog.ProductRepository,
	txScope TransactionScope,
	log *zap.Logger,
) *StockService {
	if log == nil {
		log = zap.NewNop()
	}
	return &StockService{
		stockRepo:     stockRepo,
		movementRepo:  movementRepo,
		warehouseRepo: warehouseRepo,
		productRepo:   productRepo,
		txScope:       txScope,
		log:           log,
	}
}

// List returns a page of stock levels
func (s *StockService) List(ctx context.Context, tenantID uuid.UUID, filter StockListFilter) ([]StockResponse, int64, error) {
	f := filter.Filter().
		With("warehouse_id", filter.WarehouseID).
		With("product_id", filter.ProductID)
	if filter.LowStock != nil {
		f = f.With("low_stock", *filter.LowStock)
	}
	items, err := s.stockRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.stockRepo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	return appshared.MapSlice(items, ToStockResponse), total, nil
}

// Get returns the stock level of a warehouse/product pair
func (s *StockService) Get(ctx context.Context, tenantID, warehouseID, productID uuid.UUID) (*StockResponse, error) {
	item, err := s.stockRepo.FindByWarehouseAndProduct(ctx, tenantID, warehouseID, productID)
	if err != nil {
		return nil, err
	}
	response := ToStockResponse(item)
	return &response, nil
}

// Adjust applies a signed correction and records an adjustment movement
func (s *StockService) Adjust(ctx context.Context, tenantID uuid.UUID, req AdjustStockRequest) (*StockResponse, error) {
	if req.Quantity == 0 {
		return nil, shared.NewValidationError("quantity cannot be zero")
	}
	if err := s.checkPair(ctx, tenantID, req.WarehouseID, req.ProductID); err != nil {
		return nil, err
	}
	return s.applyOne(ctx, Change{
		TenantID:      tenantID,
		WarehouseID:   req.WarehouseID,
		ProductID:     req.ProductID,
		Type:          inventory.MovementAdjustment,
		Quantity:      req.Quantity,
		ReferenceType: inventory.ReferenceManual,
		Notes:         req.Reason,
	})
}

// Receive adds stock as an in movement
func (s *StockService) Receive(ctx context.Context, tenantID uuid.UUID, req ReceiveStockRequest) (*StockResponse, error) {
	if req.Quantity <= 0 {
		return nil, shared.NewValidationError("quantity must be positive")
	}
	if err := s.checkPair(ctx, tenantID, req.WarehouseID, req.ProductID); err != nil {
		return nil, err
	}
	return s.applyOne(ctx, Change{
		TenantID:      tenantID,
		WarehouseID:   req.WarehouseID,
		ProductID:     req.ProductID,
		Type:          inventory.MovementIn,
		Quantity:      req.Quantity,
		ReferenceType: inventory.ReferenceManual,
		Notes:         req.Notes,
	})
}

// Transfer moves stock between warehouses. Both legs commit together.
func (s *StockService) Transfer(ctx context.Context, tenantID uuid.UUID, req TransferStockRequest) (*TransferResponse, error) {
	if req.Quantity <= 0 {
		return nil, shared.NewValidationError("quantity must be positive")
	}
	if req.FromWarehouseID == req.ToWarehouseID {
		return nil, shared.NewValidationError("source and destination warehouses must differ")
	}
	if err := s.checkPair(ctx, tenantID, req.FromWarehouseID, req.ProductID); err != nil {
		return nil, err
	}
	if err := s.checkWarehouse(ctx, tenantID, req.ToWarehouseID); err != nil {
		return nil, err
	}

	transferID := uuid.New()
	var result TransferResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		ledger := NewLedger(repos.StockRepo(), repos.MovementRepo())
		from, err := ledger.Apply(ctx, Change{
			TenantID:      tenantID,
			WarehouseID:   req.FromWarehouseID,
			ProductID:     req.ProductID,
			Type:          inventory.MovementTransferOut,
			Quantity:      req.Quantity,
			ReferenceType: inventory.ReferenceTransfer,
			ReferenceID:   &transferID,
			Notes:         req.Notes,
		})
		if err != nil {
			return err
		}
		to, err := ledger.Apply(ctx, Change{
			TenantID:      tenantID,
			WarehouseID:   req.ToWarehouseID,
			ProductID:     req.ProductID,
			Type:          inventory.MovementTransferIn,
			Quantity:      req.Quantity,
			ReferenceType: inventory.ReferenceTransfer,
			ReferenceID:   &transferID,
			Notes:         req.Notes,
		})
		if err != nil {
			return err
		}
		result = TransferResponse{From: ToStockResponse(from), To: ToStockResponse(to)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("stock transferred",
		zap.String("tenant_id", tenantID.String()),
		zap.String("transfer_id", transferID.String()),
		zap.String("product_id", req.ProductID.String()),
		zap.Int64("quantity", req.Quantity))
	return &result, nil
}

// ListMovements returns a page of the movement ledger
func (s *StockService) ListMovements(ctx context.Context, tenantID uuid.UUID, filter MovementListFilter) ([]MovementResponse, int64, error) {
	f := filter.Filter().
		With("warehouse_id", filter.WarehouseID).
		With("product_id", filter.ProductID).
		With("movement_type", filter.MovementType).
		With("reference_type", filter.ReferenceType).
		With("reference_id", filter.ReferenceID)
	movements, err := s.movementRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.movementRepo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	return appshared.MapSlice(movements, ToMovementResponse), total, nil
}

func (s *StockService) applyOne(ctx context.Context, c Change) (*StockResponse, error) {
	var item *inventory.StockItem
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		item, err = NewLedger(repos.StockRepo(), repos.MovementRepo()).Apply(ctx, c)
		return err
	})
	if err != nil {
		return nil, err
	}
	response := ToStockResponse(item)
	return &response, nil
}

func (s *StockService) checkPair(ctx context.Context, tenantID, warehouseID, productID uuid.UUID) error {
	if err := s.checkWarehouse(ctx, tenantID, warehouseID); err != nil {
		return err
	}
	if _, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewValidationError("product does not exist")
		}
		return err
	}
	return nil
}

func (s *StockService) checkWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID) error {
	warehouse, err := s.warehouseRepo.FindByIDForTenant(ctx, tenantID, warehouseID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewValidationError("warehouse does not exist")
		}
		return err
	}
	if !warehouse.IsActive() {
		return shared.NewInvalidStateError("warehouse %s is inactive", warehouse.Code)
	}
	return nil
}

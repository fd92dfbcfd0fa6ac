package inventory

import (
	"time"

	appshared "github.com/erp/distribution/internal/application/shared"
	"github.com/erp/distribution/internal/domain/inventory"
	"github.com/google/uuid"
)

// CreateWarehouseRequest represents a request to create a warehouse
type CreateWarehouseRequest struct {
	Code    string `json:"code" binding:"required,min=1,max=50"`
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Address string `json:"address"`
}

// UpdateWarehouseRequest represents a request to update a warehouse
type UpdateWarehouseRequest struct {
	Name    string `json:"name" binding:"omitempty,min=1,max=200"`
	Address string `json:"address"`
	Status  string `json:"status" binding:"omitempty,oneof=active inactive"`
}

// WarehouseListFilter is the query of GET /warehouses
type WarehouseListFilter struct {
	appshared.PageQuery
	Status string `form:"status" binding:"omitempty,oneof=active inactive"`
}

// WarehouseResponse is the API representation of a warehouse
type WarehouseResponse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToWarehouseResponse converts a domain Warehouse to WarehouseResponse
func ToWarehouseResponse(w *inventory.Warehouse) WarehouseResponse {
	return WarehouseResponse{
		ID:        w.ID,
		Code:      w.Code,
		Name:      w.Name,
		Address:   w.Address,
		Status:    string(w.Status),
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

// AdjustStockRequest changes on-hand stock by a signed delta
type AdjustStockRequest struct {
	WarehouseID uuid.UUID `json:"warehouse_id" binding:"required"`
	ProductID   uuid.UUID `json:"product_id" binding:"required"`
	Quantity    int64     `json:"quantity" binding:"required,ne=0"`
	Reason      string    `json:"reason" binding:"max=500"`
}

// ReceiveStockRequest adds stock to a warehouse
type ReceiveStockRequest struct {
	WarehouseID uuid.UUID `json:"warehouse_id" binding:"required"`
	ProductID   uuid.UUID `json:"product_id" binding:"required"`
	Quantity    int64     `json:"quantity" binding:"required,gt=0"`
	Notes       string    `json:"notes" binding:"max=500"`
}

// TransferStockRequest moves stock between two warehouses
type TransferStockRequest struct {
	FromWarehouseID uuid.UUID `json:"from_warehouse_id" binding:"required"`
	ToWarehouseID   uuid.UUID `json:"to_warehouse_id" binding:"required,nefield=FromWarehouseID"`
	ProductID       uuid.UUID `json:"product_id" binding:"required"`
	Quantity        int64     `json:"quantity" binding:"required,gt=0"`
	Notes           string    `json:"notes" binding:"max=500"`
}

// StockListFilter is the query of GET /inventory
type StockListFilter struct {
	appshared.PageQuery
	WarehouseID *uuid.UUID `form:"warehouse_id"`
	ProductID   *uuid.UUID `form:"product_id"`
	// LowStock lists rows whose on-hand quantity is at or below the threshold
	LowStock *int64 `form:"low_stock" binding:"omitempty,min=0"`
}

// StockResponse is the API representation of a stock level
type StockResponse struct {
	ID                uuid.UUID `json:"id"`
	WarehouseID       uuid.UUID `json:"warehouse_id"`
	ProductID         uuid.UUID `json:"product_id"`
	QuantityOnHand    int64     `json:"quantity_on_hand"`
	QuantityReserved  int64     `json:"quantity_reserved"`
	QuantityAvailable int64     `json:"quantity_available"`
	UpdatedAt         time.Time `json:"updated_at"`
	Version           int       `json:"version"`
}

// ToStockResponse converts a domain StockItem to StockResponse
func ToStockResponse(s *inventory.StockItem) StockResponse {
	return StockResponse{
		ID:                s.ID,
		WarehouseID:       s.WarehouseID,
		ProductID:         s.ProductID,
		QuantityOnHand:    s.QuantityOnHand,
		QuantityReserved:  s.QuantityReserved,
		QuantityAvailable: s.Available(),
		UpdatedAt:         s.UpdatedAt,
		Version:           s.Version,
	}
}

// TransferResponse carries both legs of a transfer
type TransferResponse struct {
	From StockResponse `json:"from"`
	To   StockResponse `json:"to"`
}

// MovementListFilter is the query of GET /stock-movements
type MovementListFilter struct {
	appshared.PageQuery
	WarehouseID   *uuid.UUID `form:"warehouse_id"`
	ProductID     *uuid.UUID `form:"product_id"`
	MovementType  string     `form:"movement_type" binding:"omitempty,oneof=in out adjustment transfer_in transfer_out reserve release"`
	ReferenceType string     `form:"reference_type"`
	ReferenceID   *uuid.UUID `form:"reference_id"`
}

// MovementResponse is the API representation of a stock movement
type MovementResponse struct {
	ID            uuid.UUID  `json:"id"`
	WarehouseID   uuid.UUID  `json:"warehouse_id"`
	ProductID     uuid.UUID  `json:"product_id"`
	MovementType  string     `json:"movement_type"`
	Quantity      int64      `json:"quantity"`
	BalanceAfter  int64      `json:"balance_after"`
	ReferenceType string     `json:"reference_type,omitempty"`
	ReferenceID   *uuid.UUID `json:"reference_id,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ToMovementResponse converts a domain StockMovement to MovementResponse
func ToMovementResponse(m *inventory.StockMovement) MovementResponse {
	return MovementResponse{
		ID:            m.ID,
		WarehouseID:   m.WarehouseID,
		ProductID:     m.ProductID,
		MovementType:  string(m.MovementType),
		Quantity:      m.Quantity,
		BalanceAfter:  m.BalanceAfter,
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID,
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
	}
}

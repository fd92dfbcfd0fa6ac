package inventory

import (
	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
)

// WarehouseStatus represents whether a warehouse accepts stock movements
type WarehouseStatus string

const (
	WarehouseStatusActive   WarehouseStatus = "active"
	WarehouseStatusInactive WarehouseStatus = "inactive"
)

// Warehouse is a depot or van holding stock
type Warehouse struct {
	shared.TenantAggregateRoot
	Code    string          `gorm:"type:varchar(50);not null;index"`
	Name    string          `gorm:"type:varchar(200);not null"`
	Address string          `gorm:"type:text"`
	Status  WarehouseStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Warehouse) TableName() string {
	return "warehouses"
}

// NewWarehouse creates a new active warehouse
func NewWarehouse(tenantID uuid.UUID, code, name, address string) (*Warehouse, error) {
	code, err := shared.NormalizeCode(code, 50)
	if err != nil {
		return nil, err
	}
	name, err = shared.RequireName(name, 200)
	if err != nil {
		return nil, err
	}
	return &Warehouse{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		Name:                name,
		Address:             address,
		Status:              WarehouseStatusActive,
	}, nil
}

// Update changes the warehouse name, address and status
func (w *Warehouse) Update(name, address string, status WarehouseStatus) error {
	if name != "" {
		n, err := shared.RequireName(name, 200)
		if err != nil {
			return err
		}
		w.Name = n
	}
	switch status {
	case "":
	case WarehouseStatusActive, WarehouseStatusInactive:
		w.Status = status
	default:
		return shared.NewValidationError("invalid warehouse status %q", status)
	}
	w.Address = address
	w.IncrementVersion()
	return nil
}

// IsActive reports whether stock can move through the warehouse
func (w *Warehouse) IsActive() bool {
	return w.Status == WarehouseStatusActive
}

package catalog

import (
	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
)

// Brand is a product brand
type Brand struct {
	shared.TenantAggregateRoot
	Code   string `gorm:"type:varchar(50);not null;index"`
	Name   string `gorm:"type:varchar(200);not null"`
	Status Status `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Brand) TableName() string {
	return "brands"
}

// NewBrand creates a new active brand
func NewBrand(tenantID uuid.UUID, code, name string) (*Brand, error) {
	code, err := shared.NormalizeCode(code, 50)
	if err != nil {
		return nil, err
	}
	name, err = shared.RequireName(name, 200)
	if err != nil {
		return nil, err
	}
	return &Brand{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		Name:                name,
		Status:              StatusActive,
	}, nil
}

// Update renames the brand and sets its status
func (b *Brand) Update(name string, status Status) error {
	if name != "" {
		n, err := shared.RequireName(name, 200)
		if err != nil {
			return err
		}
		b.Name = n
	}
	if status != "" {
		if err := status.validate(); err != nil {
			return err
		}
		b.Status = status
	}
	b.IncrementVersion()
	return nil
}

package catalog

import (
	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
)

// Category groups products, optionally under a parent category
type Category struct {
	shared.TenantAggregateRoot
	Code        string     `gorm:"type:varchar(50);not null;index"`
	Name        string     `gorm:"type:varchar(200);not null"`
	Description string     `gorm:"type:text"`
	ParentID    *uuid.UUID `gorm:"type:uuid;index"`
	Status      Status     `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new active category
func NewCategory(tenantID uuid.UUID, code, name string, parentID *uuid.UUID) (*Category, error) {
	code, err := shared.NormalizeCode(code, 50)
	if err != nil {
		return nil, err
	}
	name, err = shared.RequireName(name, 200)
	if err != nil {
		return nil, err
	}
	return &Category{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		Name:                name,
		ParentID:            parentID,
		Status:              StatusActive,
	}, nil
}

// Update changes name, description, parent and status
func (c *Category) Update(name, description string, parentID *uuid.UUID, status Status) error {
	if name != "" {
		n, err := shared.RequireName(name, 200)
		if err != nil {
			return err
		}
		c.Name = n
	}
	if parentID != nil && *parentID == c.ID {
		return shared.NewValidationError("category cannot be its own parent")
	}
	if status != "" {
		if err := status.validate(); err != nil {
			return err
		}
		c.Status = status
	}
	c.Description = description
	c.ParentID = parentID
	c.IncrementVersion()
	return nil
}

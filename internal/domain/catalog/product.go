package catalog

import (
	"strings"

	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var maxTaxRate = decimal.NewFromInt(100)

// Product is a sellable SKU
type Product struct {
	shared.TenantAggregateRoot
	Code          string          `gorm:"type:varchar(50);not null;index"`
	Barcode       string          `gorm:"type:varchar(50);index"`
	Name          string          `gorm:"type:varchar(200);not null"`
	Description   string          `gorm:"type:text"`
	CategoryID    *uuid.UUID      `gorm:"type:uuid;index"`
	BrandID       *uuid.UUID      `gorm:"type:uuid;index"`
	UnitOfMeasure string          `gorm:"type:varchar(20);not null;default:'pcs'"`
	SellingPrice  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	CostPrice     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TaxRate       decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	Status        Status          `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new active product priced at zero
func NewProduct(tenantID uuid.UUID, code, name, unit string) (*Product, error) {
	code, err := shared.NormalizeCode(code, 50)
	if err != nil {
		return nil, err
	}
	name, err = shared.RequireName(name, 200)
	if err != nil {
		return nil, err
	}
	unit = strings.TrimSpace(unit)
	if unit == "" {
		unit = "pcs"
	}
	return &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		Name:                name,
		UnitOfMeasure:       unit,
		SellingPrice:        decimal.Zero,
		CostPrice:           decimal.Zero,
		TaxRate:             decimal.Zero,
		Status:              StatusActive,
	}, nil
}

// SetPricing sets selling price, cost price and tax rate percentage
func (p *Product) SetPricing(selling, cost, taxRate decimal.Decimal) error {
	if selling.IsNegative() {
		return shared.NewValidationError("selling price cannot be negative")
	}
	if cost.IsNegative() {
		return shared.NewValidationError("cost price cannot be negative")
	}
	if taxRate.IsNegative() || taxRate.GreaterThan(maxTaxRate) {
		return shared.NewValidationError("tax rate must be between 0 and 100")
	}
	p.SellingPrice = selling
	p.CostPrice = cost
	p.TaxRate = taxRate
	p.IncrementVersion()
	return nil
}

// Classify sets the category and brand
func (p *Product) Classify(categoryID, brandID *uuid.UUID) {
	p.CategoryID = categoryID
	p.BrandID = brandID
	p.IncrementVersion()
}

// UpdateDetails changes descriptive fields
func (p *Product) UpdateDetails(name, description, barcode, unit string) error {
	if name != "" {
		n, err := shared.RequireName(name, 200)
		if err != nil {
			return err
		}
		p.Name = n
	}
	if unit != "" {
		p.UnitOfMeasure = strings.TrimSpace(unit)
	}
	p.Description = description
	p.Barcode = strings.TrimSpace(barcode)
	p.IncrementVersion()
	return nil
}

// SetStatus activates or deactivates the product
func (p *Product) SetStatus(s Status) error {
	if err := s.validate(); err != nil {
		return err
	}
	p.Status = s
	p.IncrementVersion()
	return nil
}

// IsSellable reports whether the product can be ordered
func (p *Product) IsSellable() bool {
	return p.Status == StatusActive
}

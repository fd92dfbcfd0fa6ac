package partner

import (
	"strings"

	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomerType represents the trade channel of a customer
type CustomerType string

const (
	CustomerTypeRetail      CustomerType = "retail"
	CustomerTypeWholesale   CustomerType = "wholesale"
	CustomerTypeDistributor CustomerType = "distributor"
)

// IsValid reports whether t is a known customer type
func (t CustomerType) IsValid() bool {
	switch t {
	case CustomerTypeRetail, CustomerTypeWholesale, CustomerTypeDistributor:
		return true
	}
	return false
}

// CustomerStatus represents the status of a customer
type CustomerStatus string

const (
	CustomerStatusActive    CustomerStatus = "active"
	CustomerStatusInactive  CustomerStatus = "inactive"
	CustomerStatusSuspended CustomerStatus = "suspended"
)

// IsValid reports whether s is a known customer status
func (s CustomerStatus) IsValid() bool {
	switch s {
	case CustomerStatusActive, CustomerStatusInactive, CustomerStatusSuspended:
		return true
	}
	return false
}

// Customer is an outlet served by the field sales force
type Customer struct {
	shared.TenantAggregateRoot
	Code         string          `gorm:"type:varchar(50);not null;index"`
	Name         string          `gorm:"type:varchar(200);not null"`
	Type         CustomerType    `gorm:"type:varchar(20);not null;default:'retail'"`
	Status       CustomerStatus  `gorm:"type:varchar(20);not null;default:'active'"`
	Phone        string          `gorm:"type:varchar(50)"`
	Email        string          `gorm:"type:varchar(200)"`
	Address      string          `gorm:"type:text"`
	Latitude     *float64        `gorm:"type:decimal(10,7)"`
	Longitude    *float64        `gorm:"type:decimal(10,7)"`
	RouteID      *uuid.UUID      `gorm:"type:uuid;index"`
	CreditLimit  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	PaymentTerms int             `gorm:"not null;default:0"`
	Balance      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new active customer
func NewCustomer(tenantID uuid.UUID, code, name string, customerType CustomerType) (*Customer, error) {
	code, err := shared.NormalizeCode(code, 50)
	if err != nil {
		return nil, err
	}
	name, err = shared.RequireName(name, 200)
	if err != nil {
		return nil, err
	}
	if customerType == "" {
		customerType = CustomerTypeRetail
	}
	if !customerType.IsValid() {
		return nil, shared.NewValidationError("invalid customer type %q", customerType)
	}

	c := &Customer{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		Name:                name,
		Type:                customerType,
		Status:              CustomerStatusActive,
		CreditLimit:         decimal.Zero,
		Balance:             decimal.Zero,
	}
	c.AddDomainEvent(NewCustomerCreatedEvent(c))
	return c, nil
}

// UpdateContact replaces the contact details
func (c *Customer) UpdateContact(name, phone, email, address string) error {
	if name != "" {
		n, err := shared.RequireName(name, 200)
		if err != nil {
			return err
		}
		c.Name = n
	}
	c.Phone = strings.TrimSpace(phone)
	c.Email = strings.TrimSpace(email)
	c.Address = strings.TrimSpace(address)
	c.IncrementVersion()
	return nil
}

// SetLocation records GPS coordinates of the outlet
func (c *Customer) SetLocation(lat, lng *float64) error {
	if lat != nil && (*lat < -90 || *lat > 90) {
		return shared.NewValidationError("latitude must be between -90 and 90")
	}
	if lng != nil && (*lng < -180 || *lng > 180) {
		return shared.NewValidationError("longitude must be between -180 and 180")
	}
	c.Latitude = lat
	c.Longitude = lng
	c.IncrementVersion()
	return nil
}

// SetType changes the trade channel
func (c *Customer) SetType(t CustomerType) error {
	if !t.IsValid() {
		return shared.NewValidationError("invalid customer type %q", t)
	}
	c.Type = t
	c.IncrementVersion()
	return nil
}

// SetStatus changes the customer status
func (c *Customer) SetStatus(s CustomerStatus) error {
	if !s.IsValid() {
		return shared.NewValidationError("invalid customer status %q", s)
	}
	c.Status = s
	c.IncrementVersion()
	return nil
}

// SetCreditTerms sets the credit limit and payment terms in days
func (c *Customer) SetCreditTerms(limit decimal.Decimal, termsDays int) error {
	if limit.IsNegative() {
		return shared.NewValidationError("credit limit cannot be negative")
	}
	if termsDays < 0 {
		return shared.NewValidationError("payment terms cannot be negative")
	}
	c.CreditLimit = limit
	c.PaymentTerms = termsDays
	c.IncrementVersion()
	return nil
}

// AssignRoute puts the customer on a route, or removes it when routeID is nil
func (c *Customer) AssignRoute(routeID *uuid.UUID) {
	c.RouteID = routeID
	c.IncrementVersion()
}

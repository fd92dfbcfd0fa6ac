package identity

import (
	"strings"

	"github.com/erp/distribution/internal/domain/shared"
)

// TenantStatus represents the status of a tenant
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusSuspended TenantStatus = "suspended"
)

// Tenant is an organization whose data is isolated by tenant_id
type Tenant struct {
	shared.BaseAggregateRoot
	Code         string       `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name         string       `gorm:"type:varchar(200);not null"`
	Status       TenantStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Currency     string       `gorm:"type:varchar(3);not null;default:'USD'"`
	Timezone     string       `gorm:"type:varchar(64)"`
	ContactEmail string       `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (Tenant) TableName() string {
	return "tenants"
}

// NewTenant creates a new active tenant
func NewTenant(code, name string) (*Tenant, error) {
	code, err := shared.NormalizeCode(code, 50)
	if err != nil {
		return nil, err
	}
	name, err = shared.RequireName(name, 200)
	if err != nil {
		return nil, err
	}
	t := &Tenant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		Status:            TenantStatusActive,
		Currency:          "USD",
		Timezone:          "UTC",
	}
	return t, nil
}

// Update changes the descriptive fields of the tenant
func (t *Tenant) Update(name, currency, timezone, contactEmail string) error {
	if name != "" {
		n, err := shared.RequireName(name, 200)
		if err != nil {
			return err
		}
		t.Name = n
	}
	if currency != "" {
		if len(currency) != 3 {
			return shared.NewValidationError("currency must be a 3-letter ISO code")
		}
		t.Currency = strings.ToUpper(currency)
	}
	if timezone != "" {
		t.Timezone = timezone
	}
	if contactEmail != "" {
		t.ContactEmail = contactEmail
	}
	t.IncrementVersion()
	return nil
}

// Suspend blocks all tenant-scoped requests
func (t *Tenant) Suspend() error {
	if t.Status == TenantStatusSuspended {
		return shared.NewInvalidStateError("tenant is already suspended")
	}
	t.Status = TenantStatusSuspended
	t.IncrementVersion()
	return nil
}

// Activate re-enables a suspended tenant
func (t *Tenant) Activate() error {
	if t.Status == TenantStatusActive {
		return shared.NewInvalidStateError("tenant is already active")
	}
	t.Status = TenantStatusActive
	t.IncrementVersion()
	return nil
}

// IsActive reports whether the tenant may be used
func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}

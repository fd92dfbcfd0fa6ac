package identity

import (
	"time"

	appshared "github.com/erp/distribution/internal/application/shared"
	"github.com/erp/distribution/internal/domain/identity"
	"github.com/google/uuid"
)

// CreateTenantRequest represents a request to register a tenant
type CreateTenantRequest struct {
	Code         string `json:"code" binding:"required,min=1,max=50"`
	Name         string `json:"name" binding:"required,min=1,max=200"`
	Currency     string `json:"currency" binding:"omitempty,len=3"`
	Timezone     string `json:"timezone" binding:"omitempty,max=64"`
	ContactEmail string `json:"contact_email" binding:"omitempty,email,max=200"`
}

// UpdateTenantRequest represents a request to update a tenant
type UpdateTenantRequest struct {
	Name         string `json:"name" binding:"omitempty,min=1,max=200"`
	Currency     string `json:"currency" binding:"omitempty,len=3"`
	Timezone     string `json:"timezone" binding:"omitempty,max=64"`
	ContactEmail string `json:"contact_email" binding:"omitempty,email,max=200"`
}

// TenantListFilter is the query of GET /tenants
type TenantListFilter struct {
	appshared.PageQuery
	Status string `form:"status" binding:"omitempty,oneof=active suspended"`
}

// TenantResponse is the API representation of a tenant
type TenantResponse struct {
	ID           uuid.UUID `json:"id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	Status       string    `json:"status"`
	Currency     string    `json:"currency"`
	Timezone     string    `json:"timezone"`
	ContactEmail string    `json:"contact_email,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Version      int       `json:"version"`
}

// ToTenantResponse converts a domain Tenant to TenantResponse
func ToTenantResponse(t *identity.Tenant) TenantResponse {
	return TenantResponse{
		ID:           t.ID,
		Code:         t.Code,
		Name:         t.Name,
		Status:       string(t.Status),
		Currency:     t.Currency,
		Timezone:     t.Timezone,
		ContactEmail: t.ContactEmail,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
		Version:      t.Version,
	}
}

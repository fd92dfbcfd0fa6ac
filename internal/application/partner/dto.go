package partner

import (
	"time"

	appshared "github.com/erp/distribution/internal/application/shared"
	"github.com/erp/distribution/internal/domain/partner"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateCustomerRequest represents a request to create a new customer
type CreateCustomerRequest struct {
	Code         string           `json:"code" binding:"required,min=1,max=50"`
	Name         string           `json:"name" binding:"required,min=1,max=200"`
	Type         string           `json:"type" binding:"omitempty,oneof=retail wholesale distributor"`
	Phone        string           `json:"phone" binding:"max=50"`
	Email        string           `json:"email" binding:"omitempty,email,max=200"`
	Address      string           `json:"address" binding:"max=500"`
	Latitude     *float64         `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude    *float64         `json:"longitude" binding:"omitempty,min=-180,max=180"`
	RouteID      *uuid.UUID       `json:"route_id"`
	CreditLimit  *decimal.Decimal `json:"credit_limit"`
	PaymentTerms int              `json:"payment_terms" binding:"min=0"`
}

// UpdateCustomerRequest represents a request to update a customer.
// Nil fields are left unchanged.
type UpdateCustomerRequest struct {
	Name         *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Type         *string          `json:"type" binding:"omitempty,oneof=retail wholesale distributor"`
	Status       *string          `json:"status" binding:"omitempty,oneof=active inactive suspended"`
	Phone        *string          `json:"phone" binding:"omitempty,max=50"`
	Email        *string          `json:"email" binding:"omitempty,email,max=200"`
	Address      *string          `json:"address" binding:"omitempty,max=500"`
	Latitude     *float64         `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude    *float64         `json:"longitude" binding:"omitempty,min=-180,max=180"`
	RouteID      *uuid.UUID       `json:"route_id"`
	CreditLimit  *decimal.Decimal `json:"credit_limit"`
	PaymentTerms *int             `json:"payment_terms" binding:"omitempty,min=0"`
}

// CustomerListFilter is the query of GET /customers
type CustomerListFilter struct {
	appshared.PageQuery
	Type    string     `form:"type" binding:"omitempty,oneof=retail wholesale distributor"`
	Status  string     `form:"status" binding:"omitempty,oneof=active inactive suspended"`
	RouteID *uuid.UUID `form:"route_id"`
}

// CustomerResponse is the API representation of a customer
type CustomerResponse struct {
	ID           uuid.UUID       `json:"id"`
	TenantID     uuid.UUID       `json:"tenant_id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Type         string          `json:"type"`
	Status       string          `json:"status"`
	Phone        string          `json:"phone,omitempty"`
	Email        string          `json:"email,omitempty"`
	Address      string          `json:"address,omitempty"`
	Latitude     *float64        `json:"latitude,omitempty"`
	Longitude    *float64        `json:"longitude,omitempty"`
	RouteID      *uuid.UUID      `json:"route_id,omitempty"`
	CreditLimit  decimal.Decimal `json:"credit_limit"`
	PaymentTerms int             `json:"payment_terms"`
	Balance      decimal.Decimal `json:"balance"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Version      int             `json:"version"`
}

// ToCustomerResponse converts a domain Customer to CustomerResponse
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:           c.ID,
		TenantID:     c.TenantID,
		Code:         c.Code,
		Name:         c.Name,
		Type:         string(c.Type),
		Status:       string(c.Status),
		Phone:        c.Phone,
		Email:        c.Email,
		Address:      c.Address,
		Latitude:     c.Latitude,
		Longitude:    c.Longitude,
		RouteID:      c.RouteID,
		CreditLimit:  c.CreditLimit,
		PaymentTerms: c.PaymentTerms,
		Balance:      c.Balance,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
		Version:      c.Version,
	}
}

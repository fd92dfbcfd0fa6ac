package commission

import (
	"time"

	appshared "github.com/erp/distribution/internal/application/shared"
	"github.com/erp/distribution/internal/domain/commission"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TierInput is one tier of a tiered structure
type TierInput struct {
	Threshold decimal.Decimal `json:"threshold"`
	Rate      decimal.Decimal `json:"rate"`
	Type      string          `json:"type" binding:"omitempty,oneof=flat percentage"`
}

// CreateStructureRequest is the body of POST /commission-structures
type CreateStructureRequest struct {
	Name            string          `json:"name" binding:"required,max=200"`
	AgentID         *uuid.UUID      `json:"agent_id"`
	ProductID       *uuid.UUID      `json:"product_id"`
	CalculationType string          `json:"calculation_type" binding:"required,oneof=flat per_unit percentage tiered"`
	Rate            decimal.Decimal `json:"rate"`
	Tiers           []TierInput     `json:"tiers" binding:"omitempty,dive"`
	EffectiveFrom   *time.Time      `json:"effective_from"`
	EffectiveTo     *time.Time      `json:"effective_to"`
}

// UpdateStructureRequest is the body of PUT /commission-structures/:id
type UpdateStructureRequest struct {
	Name            string           `json:"name" binding:"max=200"`
	AgentID         *uuid.UUID       `json:"agent_id"`
	ProductID       *uuid.UUID       `json:"product_id"`
	CalculationType string           `json:"calculation_type" binding:"omitempty,oneof=flat per_unit percentage tiered"`
	Rate            *decimal.Decimal `json:"rate"`
	Tiers           []TierInput      `json:"tiers" binding:"omitempty,dive"`
	EffectiveFrom   *time.Time       `json:"effective_from"`
	EffectiveTo     *time.Time       `json:"effective_to"`
	Status          string           `json:"status" binding:"omitempty,oneof=active inactive"`
}

// StructureListFilter is the query of GET /commission-structures
type StructureListFilter struct {
	appshared.PageQuery
	AgentID         *uuid.UUID `form:"agent_id"`
	CalculationType string     `form:"calculation_type"`
	Status          string     `form:"status" binding:"omitempty,oneof=active inactive"`
}

// StructureResponse is the API representation of a commission structure
type StructureResponse struct {
	ID              uuid.UUID         `json:"id"`
	Name            string            `json:"name"`
	AgentID         *uuid.UUID        `json:"agent_id,omitempty"`
	ProductID       *uuid.UUID        `json:"product_id,omitempty"`
	CalculationType string            `json:"calculation_type"`
	Rate            decimal.Decimal   `json:"rate"`
	Tiers           []commission.Tier `json:"tiers,omitempty"`
	EffectiveFrom   time.Time         `json:"effective_from"`
	EffectiveTo     *time.Time        `json:"effective_to,omitempty"`
	Status          string            `json:"status"`
	Version         int               `json:"version"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// ToStructureResponse converts a domain Structure to StructureResponse
func ToStructureResponse(s *commission.Structure) StructureResponse {
	return StructureResponse{
		ID:              s.ID,
		Name:            s.Name,
		AgentID:         s.AgentID,
		ProductID:       s.ProductID,
		CalculationType: string(s.CalculationType),
		Rate:            s.Rate,
		Tiers:           s.Tiers.Data,
		EffectiveFrom:   s.EffectiveFrom,
		EffectiveTo:     s.EffectiveTo,
		Status:          string(s.Status),
		Version:         s.Version,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

// CalculateRequest is the body of POST /commissions/calculate. Either a
// stored structure or an inline formula is used.
type CalculateRequest struct {
	StructureID     *uuid.UUID      `json:"structure_id"`
	CalculationType string          `json:"calculation_type" binding:"omitempty,oneof=flat per_unit percentage tiered"`
	Rate            decimal.Decimal `json:"rate"`
	Tiers           []TierInput     `json:"tiers" binding:"omitempty,dive"`
	BaseAmount      decimal.Decimal `json:"base_amount"`
	Quantity        int64           `json:"quantity" binding:"min=0"`
}

// CalculateResponse is a commission preview
type CalculateResponse struct {
	CalculationType  string          `json:"calculation_type"`
	BaseAmount       decimal.Decimal `json:"base_amount"`
	Quantity         int64           `json:"quantity"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
}

// RecordCommissionRequest is the body of POST /commissions. Without an
// explicit amount the structure computes it.
type RecordCommissionRequest struct {
	AgentID          uuid.UUID        `json:"agent_id" binding:"required"`
	StructureID      *uuid.UUID       `json:"structure_id"`
	SourceType       string           `json:"source_type" binding:"required,max=30"`
	SourceID         *uuid.UUID       `json:"source_id"`
	BaseAmount       decimal.Decimal  `json:"base_amount"`
	Quantity         int64            `json:"quantity" binding:"min=0"`
	CommissionAmount *decimal.Decimal `json:"commission_amount"`
	IdempotencyKey   string           `json:"idempotency_key" binding:"max=200"`
}

// ApproveCommissionRequest is the body of POST /commissions/:id/approve
type ApproveCommissionRequest struct {
	ApprovedBy string `json:"approved_by" binding:"max=100"`
}

// PayCommissionRequest is the body of POST /commissions/:id/pay
type PayCommissionRequest struct {
	PaymentReference string `json:"payment_reference" binding:"required,max=100"`
}

// CommissionListFilter is the query of GET /commissions
type CommissionListFilter struct {
	appshared.PageQuery
	AgentID    *uuid.UUID `form:"agent_id"`
	Status     string     `form:"status" binding:"omitempty,oneof=pending approved paid"`
	SourceType string     `form:"source_type"`
}

// CommissionResponse is the API representation of an accrued commission
type CommissionResponse struct {
	ID               uuid.UUID       `json:"id"`
	AgentID          uuid.UUID       `json:"agent_id"`
	StructureID      *uuid.UUID      `json:"structure_id,omitempty"`
	SourceType       string          `json:"source_type"`
	SourceID         *uuid.UUID      `json:"source_id,omitempty"`
	BaseAmount       decimal.Decimal `json:"base_amount"`
	Quantity         int64           `json:"quantity"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
	Status           string          `json:"status"`
	IdempotencyKey   string          `json:"idempotency_key"`
	ApprovedBy       string          `json:"approved_by,omitempty"`
	ApprovedAt       *time.Time      `json:"approved_at,omitempty"`
	PaidAt           *time.Time      `json:"paid_at,omitempty"`
	PaymentReference string          `json:"payment_reference,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// ToCommissionResponse converts a domain Commission to CommissionResponse
func ToCommissionResponse(c *commission.Commission) CommissionResponse {
	return CommissionResponse{
		ID:               c.ID,
		AgentID:          c.AgentID,
		StructureID:      c.StructureID,
		SourceType:       c.SourceType,
		SourceID:         c.SourceID,
		BaseAmount:       c.BaseAmount,
		Quantity:         c.Quantity,
		CommissionAmount: c.CommissionAmount,
		Status:           string(c.Status),
		IdempotencyKey:   c.IdempotencyKey,
		ApprovedBy:       c.ApprovedBy,
		ApprovedAt:       c.ApprovedAt,
		PaidAt:           c.PaidAt,
		PaymentReference: c.PaymentReference,
		CreatedAt:        c.CreatedAt,
	}
}

func toTiers(in []TierInput) []commission.Tier {
	if in == nil {
		return nil
	}
	out := make([]commission.Tier, len(in))
	for i, t := range in {
		out[i] = commission.Tier{Threshold: t.Threshold, Rate: t.Rate, Type: commission.TierType(t.Type)}
	}
	return out
}

package approval

import (
	"time"

	appshared "github.com/erp/distribution/internal/application/shared"
	"github.com/erp/distribution/internal/domain/approval"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntityTypeResponse is one row of the approval entity type lookup
type EntityTypeResponse struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	TableName   string    `json:"table_name"`
	Description string    `json:"description,omitempty"`
}

// CreateApprovalRequest is the body of POST /approvals
type CreateApprovalRequest struct {
	EntityType  string          `json:"entity_type" binding:"required,max=50"`
	EntityID    uuid.UUID       `json:"entity_id" binding:"required"`
	Reason      string          `json:"reason"`
	Amount      decimal.Decimal `json:"amount"`
	RequestedBy string          `json:"requested_by" binding:"max=100"`
}

// DecideRequest is the body of POST /approvals/:id/approve and /reject
type DecideRequest struct {
	DecidedBy string `json:"decided_by" binding:"max=100"`
	Notes     string `json:"notes"`
}

// ApprovalListFilter is the query of GET /approvals
type ApprovalListFilter struct {
	appshared.PageQuery
	Status     string     `form:"status" binding:"omitempty,oneof=pending approved rejected"`
	EntityType string     `form:"entity_type"`
	EntityID   *uuid.UUID `form:"entity_id"`
}

// ApprovalResponse is the API representation of an approval request
type ApprovalResponse struct {
	ID            uuid.UUID       `json:"id"`
	EntityType    string          `json:"entity_type"`
	EntityID      uuid.UUID       `json:"entity_id"`
	Status        string          `json:"status"`
	RequestedBy   string          `json:"requested_by,omitempty"`
	Reason        string          `json:"reason,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	DecidedBy     string          `json:"decided_by,omitempty"`
	DecidedAt     *time.Time      `json:"decided_at,omitempty"`
	DecisionNotes string          `json:"decision_notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToApprovalResponse converts a domain Request to ApprovalResponse
func ToApprovalResponse(r *approval.Request) ApprovalResponse {
	return ApprovalResponse{
		ID:            r.ID,
		EntityType:    r.EntityCode(),
		EntityID:      r.EntityID,
		Status:        string(r.Status),
		RequestedBy:   r.RequestedBy,
		Reason:        r.Reason,
		Amount:        r.Amount,
		DecidedBy:     r.DecidedBy,
		DecidedAt:     r.DecidedAt,
		DecisionNotes: r.DecisionNotes,
		CreatedAt:     r.CreatedAt,
	}
}

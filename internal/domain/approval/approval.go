package approval

import (
	"strings"
	"time"

	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Entity type codes seeded by migration
const (
	EntityCashSession = "cash_session"
	EntityCommission  = "commission"
	EntityOrder       = "order"
	EntityInvoice     = "invoice"
)

// EntityType is a global lookup row naming an approvable table
type EntityType struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Code        string    `gorm:"type:varchar(50);not null" json:"code"`
	EntityTable string    `gorm:"column:table_name;type:varchar(100);not null" json:"table_name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName returns the table name for GORM
func (EntityType) TableName() string {
	return "approval_entity_types"
}

// Status is the decision state of a request
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Request asks for a decision on one entity row
type Request struct {
	shared.TenantAggregateRoot
	EntityTypeID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	EntityType    *EntityType     `gorm:"foreignKey:EntityTypeID;references:ID"`
	EntityID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status        Status          `gorm:"type:varchar(20);not null;default:'pending';index"`
	RequestedBy   string          `gorm:"type:varchar(100)"`
	Reason        string          `gorm:"type:text"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	DecidedBy     string          `gorm:"type:varchar(100)"`
	DecidedAt     *time.Time
	DecisionNotes string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Request) TableName() string {
	return "approval_requests"
}

// NewRequest opens a pending request for an entity
func NewRequest(tenantID uuid.UUID, entityType *EntityType, entityID uuid.UUID, requestedBy, reason string, amount decimal.Decimal) (*Request, error) {
	if entityType == nil {
		return nil, shared.NewValidationError("entity_type is required")
	}
	if entityID == uuid.Nil {
		return nil, shared.NewValidationError("entity_id is required")
	}
	return &Request{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		EntityTypeID:        entityType.ID,
		EntityType:          entityType,
		EntityID:            entityID,
		Status:              StatusPending,
		RequestedBy:         requestedBy,
		Reason:              strings.TrimSpace(reason),
		Amount:              shared.RoundMoney(amount),
	}, nil
}

// Decide approves or rejects a pending request
func (r *Request) Decide(approve bool, by, notes string, at time.Time) error {
	if r.Status != StatusPending {
		return shared.NewInvalidStateError("request is already %s", r.Status)
	}
	if approve {
		r.Status = StatusApproved
	} else {
		r.Status = StatusRejected
	}
	r.DecidedBy = by
	r.DecidedAt = &at
	r.DecisionNotes = notes
	r.IncrementVersion()
	return nil
}

// EntityCode returns the entity type code when the type is loaded
func (r *Request) EntityCode() string {
	if r.EntityType == nil {
		return ""
	}
	return r.EntityType.Code
}

package commission

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the payout state of an accrued commission
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusPaid     Status = "paid"
)

// SourceOrder marks commissions accrued from delivered orders
const SourceOrder = "order"

// Commission is an accrued commission event for an agent
type Commission struct {
	shared.TenantAggregateRoot
	AgentID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	StructureID      *uuid.UUID      `gorm:"type:uuid;index"`
	SourceType       string          `gorm:"type:varchar(30);not null;index"`
	SourceID         *uuid.UUID      `gorm:"type:uuid;index"`
	BaseAmount       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Quantity         int64           `gorm:"not null;default:0"`
	CommissionAmount decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Status           Status          `gorm:"type:varchar(20);not null;default:'pending';index"`
	IdempotencyKey   string          `gorm:"type:varchar(200);not null;index"`
	ApprovedBy       string          `gorm:"type:varchar(100)"`
	ApprovedAt       *time.Time
	PaidAt           *time.Time
	PaymentReference string `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (Commission) TableName() string {
	return "agent_commissions"
}

// NewCommission records a pending commission
func NewCommission(tenantID, agentID uuid.UUID, sourceType string, sourceID *uuid.UUID, base decimal.Decimal, qty int64, amount decimal.Decimal, idempotencyKey string) (*Commission, error) {
	if agentID == uuid.Nil {
		return nil, shared.NewValidationError("agent_id is required")
	}
	sourceType = strings.TrimSpace(sourceType)
	if sourceType == "" {
		return nil, shared.NewValidationError("source_type is required")
	}
	if amount.IsNegative() {
		return nil, shared.NewValidationError("commission_amount cannot be negative")
	}
	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	}
	c := &Commission{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		AgentID:             agentID,
		SourceType:          sourceType,
		SourceID:            sourceID,
		BaseAmount:          shared.RoundMoney(base),
		Quantity:            qty,
		CommissionAmount:    shared.RoundMoney(amount),
		Status:              StatusPending,
		IdempotencyKey:      idempotencyKey,
	}
	c.AddDomainEvent(NewCommissionAccruedEvent(c))
	return c, nil
}

// FromStructure links the commission to the rule that produced it
func (c *Commission) FromStructure(structureID uuid.UUID) {
	c.StructureID = &structureID
}

// Approve moves pending to approved
func (c *Commission) Approve(by string, at time.Time) error {
	if c.Status != StatusPending {
		return shared.NewInvalidStateError("cannot approve a %s commission", c.Status)
	}
	c.Status = StatusApproved
	c.ApprovedBy = by
	c.ApprovedAt = &at
	c.IncrementVersion()
	return nil
}

// Pay moves approved to paid
func (c *Commission) Pay(reference string, at time.Time) error {
	if c.Status != StatusApproved {
		return shared.NewInvalidStateError("cannot pay a %s commission", c.Status)
	}
	if strings.TrimSpace(reference) == "" {
		return shared.NewValidationError("payment_reference is required")
	}
	c.Status = StatusPaid
	c.PaymentReference = reference
	c.PaidAt = &at
	c.IncrementVersion()
	return nil
}

// OrderAccrualKey is the idempotency key of an automatic accrual
func OrderAccrualKey(orderID, structureID uuid.UUID) string {
	return fmt.Sprintf("order:%s:%s", orderID, structureID)
}

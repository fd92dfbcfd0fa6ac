package commission

import (
	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypeCommission is the aggregate type for commission events
const AggregateTypeCommission = "Commission"

// EventTypeCommissionAccrued is raised when a commission is recorded
const EventTypeCommissionAccrued = "CommissionAccrued"

// CommissionAccruedEvent is raised when a commission is recorded
type CommissionAccruedEvent struct {
	shared.BaseDomainEvent
	CommissionID uuid.UUID       `json:"commission_id"`
	AgentID      uuid.UUID       `json:"agent_id"`
	Amount       decimal.Decimal `json:"amount"`
	SourceType   string          `json:"source_type"`
}

// NewCommissionAccruedEvent creates a new CommissionAccruedEvent
func NewCommissionAccruedEvent(c *Commission) *CommissionAccruedEvent {
	return &CommissionAccruedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCommissionAccrued, AggregateTypeCommission, c.ID, c.TenantID),
		CommissionID:    c.ID,
		AgentID:         c.AgentID,
		Amount:          c.CommissionAmount,
		SourceType:      c.SourceType,
	}
}

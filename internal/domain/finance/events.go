package finance

import (
	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeCashSession = "CashSession"
	AggregateTypePayment     = "Payment"
)

// Event type constants
const (
	EventTypeCashSessionOpened           = "CashSessionOpened"
	EventTypeCashSessionClosed           = "CashSessionClosed"
	EventTypeCashSessionApprovalRequired = "CashSessionApprovalRequired"
	EventTypeCashSessionDeposited        = "CashSessionDeposited"
	EventTypePaymentReceived             = "PaymentReceived"
)

// CashSessionEvent carries a cash session state change
type CashSessionEvent struct {
	shared.BaseDomainEvent
	SessionID          uuid.UUID           `json:"session_id"`
	AgentID            uuid.UUID           `json:"agent_id"`
	Status             CashSessionStatus   `json:"status"`
	ExpectedCash       decimal.Decimal     `json:"expected_cash"`
	VariancePercentage decimal.NullDecimal `json:"variance_percentage"`
}

// NewCashSessionEvent creates a cash session event of the given type
func NewCashSessionEvent(eventType string, s *CashSession) *CashSessionEvent {
	return &CashSessionEvent{
		BaseDomainEvent:    shared.NewBaseDomainEvent(eventType, AggregateTypeCashSession, s.ID, s.TenantID),
		SessionID:          s.ID,
		AgentID:            s.AgentID,
		Status:             s.Status,
		ExpectedCash:       s.ExpectedCash,
		VariancePercentage: s.VariancePercentage,
	}
}

// PaymentReceivedEvent is raised when an invoice payment is booked
type PaymentReceivedEvent struct {
	shared.BaseDomainEvent
	PaymentID     uuid.UUID       `json:"payment_id"`
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	OrderID       *uuid.UUID      `json:"order_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	InvoiceStatus InvoiceStatus   `json:"invoice_status"`
}

// NewPaymentReceivedEvent creates a new PaymentReceivedEvent
func NewPaymentReceivedEvent(p *Payment, inv *Invoice) *PaymentReceivedEvent {
	return &PaymentReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentReceived, AggregateTypePayment, p.ID, p.TenantID),
		PaymentID:       p.ID,
		InvoiceID:       inv.ID,
		OrderID:         inv.OrderID,
		Amount:          p.Amount,
		InvoiceStatus:   inv.Status,
	}
}

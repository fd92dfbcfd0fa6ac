package finance

import (
	"strings"
	"time"

	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod is how an invoice was paid
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentMobileMoney  PaymentMethod = "mobile_money"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentCheque       PaymentMethod = "cheque"
	PaymentCard         PaymentMethod = "card"
)

// IsValid checks if the payment method is known
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCash, PaymentMobileMoney, PaymentBankTransfer, PaymentCheque, PaymentCard:
		return true
	}
	return false
}

// Payment settles all or part of an invoice
type Payment struct {
	shared.TenantAggregateRoot
	InvoiceID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PaymentMethod PaymentMethod   `gorm:"type:varchar(20);not null"`
	Reference     string          `gorm:"type:varchar(100)"`
	PaidAt        time.Time       `gorm:"not null"`
	CashSessionID *uuid.UUID      `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// NewPayment applies a payment to the invoice and returns the record to persist
func NewPayment(inv *Invoice, amount decimal.Decimal, method PaymentMethod, reference string) (*Payment, error) {
	if !method.IsValid() {
		return nil, shared.NewValidationError("invalid payment_method %q", method)
	}
	amount = shared.RoundMoney(amount)
	if err := inv.ApplyPayment(amount); err != nil {
		return nil, err
	}
	p := &Payment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(inv.TenantID),
		InvoiceID:           inv.ID,
		CustomerID:          inv.CustomerID,
		Amount:              amount,
		PaymentMethod:       method,
		Reference:           strings.TrimSpace(reference),
		PaidAt:              time.Now(),
	}
	p.AddDomainEvent(NewPaymentReceivedEvent(p, inv))
	return p, nil
}

// InSession ties a cash payment to the agent's open cash session
func (p *Payment) InSession(sessionID uuid.UUID) {
	p.CashSessionID = &sessionID
}

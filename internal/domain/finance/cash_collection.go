package finance

import (
	"time"

	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CollectionMethod is how a customer paid the agent
type CollectionMethod string

const (
	CollectionCash        CollectionMethod = "cash"
	CollectionMobileMoney CollectionMethod = "mobile_money"
)

// CashCollection is money collected by an agent during a session
type CashCollection struct {
	shared.BaseEntity
	TenantID      uuid.UUID        `gorm:"type:uuid;not null;index"`
	CashSessionID uuid.UUID        `gorm:"type:uuid;not null;index"`
	CustomerID    *uuid.UUID       `gorm:"type:uuid;index"`
	OrderID       *uuid.UUID       `gorm:"type:uuid;index"`
	InvoiceID     *uuid.UUID       `gorm:"type:uuid;index"`
	Amount        decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	PaymentMethod CollectionMethod `gorm:"type:varchar(20);not null"`
	Reference     string           `gorm:"type:varchar(100)"`
	CollectedAt   time.Time        `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CashCollection) TableName() string {
	return "cash_collections"
}

// NewCashCollection validates and builds a collection for a session
func NewCashCollection(session *CashSession, amount decimal.Decimal, method CollectionMethod, reference string) (*CashCollection, error) {
	amount = shared.RoundMoney(amount)
	if !amount.IsPositive() {
		return nil, shared.NewValidationError("amount must be greater than 0")
	}
	if method == "" {
		method = CollectionCash
	}
	if method != CollectionCash && method != CollectionMobileMoney {
		return nil, shared.NewValidationError("payment_method must be cash or mobile_money")
	}
	return &CashCollection{
		BaseEntity:    shared.NewBaseEntity(),
		TenantID:      session.TenantID,
		CashSessionID: session.ID,
		Amount:        amount,
		PaymentMethod: method,
		Reference:     reference,
		CollectedAt:   time.Now(),
	}, nil
}

// LinkTo attaches the customer, order and invoice the money was for
func (c *CashCollection) LinkTo(customerID, orderID, invoiceID *uuid.UUID) {
	c.CustomerID = customerID
	c.OrderID = orderID
	c.InvoiceID = invoiceID
}

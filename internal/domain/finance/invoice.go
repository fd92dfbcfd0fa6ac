package finance

import (
	"fmt"
	"time"

	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus is the settlement state of an invoice
type InvoiceStatus string

const (
	InvoiceIssued        InvoiceStatus = "issued"
	InvoicePartiallyPaid InvoiceStatus = "partially_paid"
	InvoicePaid          InvoiceStatus = "paid"
	InvoiceCancelled     InvoiceStatus = "cancelled"
)

// InvoiceItem is a billed line stored with the invoice
type InvoiceItem struct {
	ProductID   *uuid.UUID      `json:"product_id,omitempty"`
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// Invoice bills a customer, usually for one order
type Invoice struct {
	shared.TenantAggregateRoot
	InvoiceNumber string                     `gorm:"type:varchar(50);not null;index"`
	OrderID       *uuid.UUID                 `gorm:"type:uuid;index"`
	CustomerID    uuid.UUID                  `gorm:"type:uuid;not null;index"`
	Amount        decimal.Decimal            `gorm:"type:decimal(18,2);not null"`
	TaxAmount     decimal.Decimal            `gorm:"type:decimal(18,2);not null;default:0"`
	TotalAmount   decimal.Decimal            `gorm:"type:decimal(18,2);not null"`
	PaidAmount    decimal.Decimal            `gorm:"type:decimal(18,2);not null;default:0"`
	DueDate       time.Time                  `gorm:"type:date;not null;index"`
	Status        InvoiceStatus              `gorm:"type:varchar(20);not null;default:'issued';index"`
	Items         shared.JSON[[]InvoiceItem] `gorm:"type:jsonb"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoice issues an invoice; total is amount plus tax
func NewInvoice(tenantID uuid.UUID, number string, customerID uuid.UUID, amount, tax decimal.Decimal, dueDate time.Time, items []InvoiceItem) (*Invoice, error) {
	if number == "" {
		return nil, shared.NewValidationError("invoice number is required")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("customer_id is required")
	}
	amount = shared.RoundMoney(amount)
	tax = shared.RoundMoney(tax)
	if !amount.IsPositive() {
		return nil, shared.NewValidationError("amount must be greater than 0")
	}
	if tax.IsNegative() {
		return nil, shared.NewValidationError("tax_amount cannot be negative")
	}
	if dueDate.IsZero() {
		dueDate = time.Now().AddDate(0, 0, 30)
	}
	if items == nil {
		items = []InvoiceItem{}
	}
	inv := &Invoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		InvoiceNumber:       number,
		CustomerID:          customerID,
		Amount:              amount,
		TaxAmount:           tax,
		TotalAmount:         amount.Add(tax),
		PaidAmount:          decimal.Zero,
		DueDate:             shared.DateOf(dueDate),
		Status:              InvoiceIssued,
		Items:               shared.NewJSON(items),
	}
	return inv, nil
}

// ForOrder links the invoice to the order it bills
func (i *Invoice) ForOrder(orderID uuid.UUID) {
	i.OrderID = &orderID
}

// Outstanding is the unpaid balance
func (i *Invoice) Outstanding() decimal.Decimal {
	return i.TotalAmount.Sub(i.PaidAmount)
}

// ApplyPayment books a payment and moves the status to partially_paid or paid
func (i *Invoice) ApplyPayment(amount decimal.Decimal) error {
	if i.Status == InvoiceCancelled || i.Status == InvoicePaid {
		return shared.NewInvalidStateError("cannot pay a %s invoice", i.Status)
	}
	if !amount.IsPositive() {
		return shared.NewValidationError("amount must be greater than 0")
	}
	if amount.GreaterThan(i.Outstanding()) {
		return shared.NewValidationError("amount %s exceeds outstanding balance %s", amount.StringFixed(2), i.Outstanding().StringFixed(2))
	}
	i.PaidAmount = i.PaidAmount.Add(amount)
	if i.Outstanding().IsZero() {
		i.Status = InvoicePaid
	} else {
		i.Status = InvoicePartiallyPaid
	}
	i.IncrementVersion()
	return nil
}

// Cancel voids an invoice that has no payments
func (i *Invoice) Cancel() error {
	if i.Status == InvoiceCancelled {
		return shared.NewInvalidStateError("invoice already cancelled")
	}
	if i.PaidAmount.IsPositive() {
		return shared.NewInvalidStateError("cannot cancel an invoice with payments")
	}
	i.Status = InvoiceCancelled
	i.IncrementVersion()
	return nil
}

// IsOverdue reports whether an unsettled invoice is past due
func (i *Invoice) IsOverdue(now time.Time) bool {
	if i.Status == InvoicePaid || i.Status == InvoiceCancelled {
		return false
	}
	return shared.DateOf(now).After(i.DueDate)
}

// FormatInvoiceNumber builds INV-YYYYMMDD-NNNN from the day's sequence
func FormatInvoiceNumber(day time.Time, seq int64) string {
	return fmt.Sprintf("INV-%s-%04d", day.Format("20060102"), seq)
}

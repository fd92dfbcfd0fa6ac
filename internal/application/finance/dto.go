package finance

import (
	"time"

	appshared "github.com/erp/distribution/internal/application/shared"
	"github.com/erp/distribution/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OpenCashSessionRequest is the body of POST /cash-sessions
type OpenCashSessionRequest struct {
	AgentID         uuid.UUID        `json:"agent_id" binding:"required"`
	SessionDate     *time.Time       `json:"session_date"`
	StartingBalance *decimal.Decimal `json:"starting_balance"`
	Notes           string           `json:"notes"`
}

// RecordCollectionRequest is the body of POST /cash-sessions/:id/collections
type RecordCollectionRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	PaymentMethod string          `json:"payment_method" binding:"omitempty,oneof=cash mobile_money"`
	CustomerID    *uuid.UUID      `json:"customer_id"`
	OrderID       *uuid.UUID      `json:"order_id"`
	InvoiceID     *uuid.UUID      `json:"invoice_id"`
	Reference     string          `json:"reference" binding:"max=100"`
}

// CloseCashSessionRequest is the body of POST /cash-sessions/:id/close
type CloseCashSessionRequest struct {
	ActualCash decimal.Decimal `json:"actual_cash" binding:"required"`
	Notes      string          `json:"notes"`
	ClosedBy   string          `json:"-"`
}

// ApproveCashSessionRequest is the body of POST /cash-sessions/:id/approve
type ApproveCashSessionRequest struct {
	ApprovedBy    string `json:"approved_by" binding:"max=100"`
	ApprovalNotes string `json:"approval_notes"`
}

// RejectCashSessionRequest is the body of POST /cash-sessions/:id/reject
type RejectCashSessionRequest struct {
	RejectedBy    string `json:"-"`
	DecisionNotes string `json:"decision_notes"`
}

// CashSessionListFilter is the query of GET /cash-sessions
type CashSessionListFilter struct {
	appshared.PageQuery
	Status      string     `form:"status" binding:"omitempty,oneof=open pending_approval closed deposited"`
	AgentID     *uuid.UUID `form:"agent_id"`
	SessionDate *time.Time `form:"session_date" time_format:"2006-01-02"`
}

// CashSessionResponse is the API representation of a cash session
type CashSessionResponse struct {
	ID                 uuid.UUID           `json:"id"`
	AgentID            uuid.UUID           `json:"agent_id"`
	SessionDate        time.Time           `json:"session_date"`
	StartingBalance    decimal.Decimal     `json:"starting_balance"`
	ExpectedCash       decimal.Decimal     `json:"expected_cash"`
	ActualCash         decimal.NullDecimal `json:"actual_cash"`
	Variance           decimal.NullDecimal `json:"variance"`
	VariancePercentage decimal.NullDecimal `json:"variance_percentage"`
	Status             string              `json:"status"`
	OpenedAt           time.Time           `json:"opened_at"`
	ClosedAt           *time.Time          `json:"closed_at,omitempty"`
	ApprovedBy         string              `json:"approved_by,omitempty"`
	ApprovedAt         *time.Time          `json:"approved_at,omitempty"`
	ApprovalNotes      string              `json:"approval_notes,omitempty"`
	Notes              string              `json:"notes,omitempty"`
	ApprovalRequestID  *uuid.UUID          `json:"approval_request_id,omitempty"`
	Version            int                 `json:"version"`
}

// ToCashSessionResponse converts a domain CashSession to CashSessionResponse
func ToCashSessionResponse(s *finance.CashSession) CashSessionResponse {
	return CashSessionResponse{
		ID:                 s.ID,
		AgentID:            s.AgentID,
		SessionDate:        s.SessionDate,
		StartingBalance:    s.StartingBalance,
		ExpectedCash:       s.ExpectedCash,
		ActualCash:         s.ActualCash,
		Variance:           s.Variance,
		VariancePercentage: s.VariancePercentage,
		Status:             string(s.Status),
		OpenedAt:           s.OpenedAt,
		ClosedAt:           s.ClosedAt,
		ApprovedBy:         s.ApprovedBy,
		ApprovedAt:         s.ApprovedAt,
		ApprovalNotes:      s.ApprovalNotes,
		Notes:              s.Notes,
		Version:            s.Version,
	}
}

// CollectionResponse is the API representation of a cash collection
type CollectionResponse struct {
	ID            uuid.UUID       `json:"id"`
	CashSessionID uuid.UUID       `json:"cash_session_id"`
	CustomerID    *uuid.UUID      `json:"customer_id,omitempty"`
	OrderID       *uuid.UUID      `json:"order_id,omitempty"`
	InvoiceID     *uuid.UUID      `json:"invoice_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	Reference     string          `json:"reference,omitempty"`
	CollectedAt   time.Time       `json:"collected_at"`
}

// ToCollectionResponse converts a domain CashCollection to CollectionResponse
func ToCollectionResponse(c *finance.CashCollection) CollectionResponse {
	return CollectionResponse{
		ID:            c.ID,
		CashSessionID: c.CashSessionID,
		CustomerID:    c.CustomerID,
		OrderID:       c.OrderID,
		InvoiceID:     c.InvoiceID,
		Amount:        c.Amount,
		PaymentMethod: string(c.PaymentMethod),
		Reference:     c.Reference,
		CollectedAt:   c.CollectedAt,
	}
}

// CreateDepositRequest is the body of POST /bank-deposits
type CreateDepositRequest struct {
	SessionIDs       []uuid.UUID      `json:"session_ids" binding:"required,min=1"`
	BankName         string           `json:"bank_name" binding:"required,max=200"`
	AccountNumber    string           `json:"account_number" binding:"max=100"`
	DepositReference string           `json:"deposit_reference" binding:"max=100"`
	DepositedAt      *time.Time       `json:"deposited_at"`
	Amount           *decimal.Decimal `json:"amount"`
	Notes            string           `json:"notes"`
	DepositedBy      string           `json:"-"`
}

// DepositListFilter is the query of GET /bank-deposits
type DepositListFilter struct {
	appshared.PageQuery
	BankName         string `form:"bank_name"`
	DepositReference string `form:"deposit_reference"`
}

// DepositResponse is the API representation of a bank deposit
type DepositResponse struct {
	ID               uuid.UUID       `json:"id"`
	BankName         string          `json:"bank_name"`
	AccountNumber    string          `json:"account_number,omitempty"`
	DepositReference string          `json:"deposit_reference,omitempty"`
	Amount           decimal.Decimal `json:"amount"`
	DepositedAt      time.Time       `json:"deposited_at"`
	DepositedBy      string          `json:"deposited_by,omitempty"`
	Notes            string          `json:"notes,omitempty"`
	SessionIDs       []uuid.UUID     `json:"session_ids"`
	CreatedAt        time.Time       `json:"created_at"`
}

// ToDepositResponse converts a domain BankDeposit to DepositResponse
func ToDepositResponse(d *finance.BankDeposit) DepositResponse {
	return DepositResponse{
		ID:               d.ID,
		BankName:         d.BankName,
		AccountNumber:    d.AccountNumber,
		DepositReference: d.DepositReference,
		Amount:           d.Amount,
		DepositedAt:      d.DepositedAt,
		DepositedBy:      d.DepositedBy,
		Notes:            d.Notes,
		SessionIDs:       d.SessionIDs(),
		CreatedAt:        d.CreatedAt,
	}
}

// InvoiceItemInput is an explicit invoice line
type InvoiceItemInput struct {
	ProductID   *uuid.UUID      `json:"product_id"`
	Description string          `json:"description" binding:"max=500"`
	Quantity    int64           `json:"quantity" binding:"min=0"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// CreateInvoiceRequest is the body of POST /invoices. With order_id the
// amounts come from the order; otherwise customer_id and amount are required.
type CreateInvoiceRequest struct {
	OrderID    *uuid.UUID         `json:"order_id"`
	CustomerID *uuid.UUID         `json:"customer_id"`
	Items      []InvoiceItemInput `json:"items" binding:"omitempty,dive"`
	Amount     *decimal.Decimal   `json:"amount"`
	TaxAmount  *decimal.Decimal   `json:"tax_amount"`
	DueDate    *time.Time         `json:"due_date"`
}

// InvoiceListFilter is the query of GET /invoices
type InvoiceListFilter struct {
	appshared.PageQuery
	Status     string     `form:"status" binding:"omitempty,oneof=issued partially_paid paid cancelled"`
	CustomerID *uuid.UUID `form:"customer_id"`
	OrderID    *uuid.UUID `form:"order_id"`
	Overdue    bool       `form:"overdue"`
}

// InvoiceResponse is the API representation of an invoice
type InvoiceResponse struct {
	ID            uuid.UUID             `json:"id"`
	InvoiceNumber string                `json:"invoice_number"`
	OrderID       *uuid.UUID            `json:"order_id,omitempty"`
	CustomerID    uuid.UUID             `json:"customer_id"`
	Amount        decimal.Decimal       `json:"amount"`
	TaxAmount     decimal.Decimal       `json:"tax_amount"`
	TotalAmount   decimal.Decimal       `json:"total_amount"`
	PaidAmount    decimal.Decimal       `json:"paid_amount"`
	Outstanding   decimal.Decimal       `json:"outstanding_amount"`
	DueDate       time.Time             `json:"due_date"`
	Status        string                `json:"status"`
	Overdue       bool                  `json:"overdue"`
	Items         []finance.InvoiceItem `json:"items"`
	Version       int                   `json:"version"`
	CreatedAt     time.Time             `json:"created_at"`
}

// ToInvoiceResponse converts a domain Invoice to InvoiceResponse
func ToInvoiceResponse(inv *finance.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		OrderID:       inv.OrderID,
		CustomerID:    inv.CustomerID,
		Amount:        inv.Amount,
		TaxAmount:     inv.TaxAmount,
		TotalAmount:   inv.TotalAmount,
		PaidAmount:    inv.PaidAmount,
		Outstanding:   inv.Outstanding(),
		DueDate:       inv.DueDate,
		Status:        string(inv.Status),
		Overdue:       inv.IsOverdue(time.Now()),
		Items:         inv.Items.Data,
		Version:       inv.Version,
		CreatedAt:     inv.CreatedAt,
	}
}

// CreatePaymentRequest is the body of POST /payments
type CreatePaymentRequest struct {
	InvoiceID     uuid.UUID       `json:"invoice_id" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	PaymentMethod string          `json:"payment_method" binding:"required,oneof=cash mobile_money bank_transfer cheque card"`
	Reference     string          `json:"reference" binding:"max=100"`
	CashSessionID *uuid.UUID      `json:"cash_session_id"`
}

// PaymentListFilter is the query of GET /payments
type PaymentListFilter struct {
	appshared.PageQuery
	InvoiceID     *uuid.UUID `form:"invoice_id"`
	CustomerID    *uuid.UUID `form:"customer_id"`
	PaymentMethod string     `form:"payment_method"`
}

// PaymentResponse is the API representation of a payment
type PaymentResponse struct {
	ID            uuid.UUID       `json:"id"`
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	Reference     string          `json:"reference,omitempty"`
	PaidAt        time.Time       `json:"paid_at"`
	CashSessionID *uuid.UUID      `json:"cash_session_id,omitempty"`
	InvoiceStatus string          `json:"invoice_status,omitempty"`
}

// ToPaymentResponse converts a domain Payment to PaymentResponse
func ToPaymentResponse(p *finance.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		InvoiceID:     p.InvoiceID,
		CustomerID:    p.CustomerID,
		Amount:        p.Amount,
		PaymentMethod: string(p.PaymentMethod),
		Reference:     p.Reference,
		PaidAt:        p.PaidAt,
		CashSessionID: p.CashSessionID,
	}
}

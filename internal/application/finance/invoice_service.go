package finance

import (
	"context"
	"errors"
	"time"

	appshared "github.com/erp/distribution/internal/application/shared"
	"github.com/erp/distribution/internal/domain/finance"
	"github.com/erp/distribution/internal/domain/partner"
	"github.com/erp/distribution/internal/domain/shared"
	"github.com/erp/distribution/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	invoiceNumberAttempts  = 3
	defaultPaymentTermDays = 30
)

// InvoiceService issues and cancels invoices
type InvoiceService struct {
	invoices  finance.InvoiceRepository
	orders    trade.OrderRepository
	customers partner.CustomerRepository
	now       func() time.Time
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(invoices finance.InvoiceRepository, orders trade.OrderRepository, customers partner.CustomerRepository) *InvoiceService {
	return &InvoiceService{invoices: invoices, orders: orders, customers: customers, now: time.Now}
}

// Create issues an invoice for an order, or from explicit amounts
func (s *InvoiceService) Create(ctx context.Context, tenantID uuid.UUID, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	dueDate := s.now().AddDate(0, 0, defaultPaymentTermDays)
	if req.DueDate != nil {
		dueDate = *req.DueDate
	}
	var build func(number string) (*finance.Invoice, error)
	if req.OrderID != nil {
		order, err := s.orders.FindByIDForTenant(ctx, tenantID, *req.OrderID)
		if err != nil {
			return nil, missingReference(err, "order")
		}
		if order.OrderStatus == trade.OrderStatusCancelled {
			return nil, shared.NewInvalidStateError("cannot invoice a cancelled order")
		}
		invoiced, err := s.invoices.CountForTenant(ctx, tenantID,
			shared.DefaultFilter().With("order_id", order.ID).With("active", true))
		if err != nil {
			return nil, err
		}
		if invoiced > 0 {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Order already has an open invoice")
		}
		build = func(number string) (*finance.Invoice, error) {
			return invoiceForOrder(tenantID, number, order, dueDate)
		}
	} else {
		if req.CustomerID == nil {
			return nil, shared.NewValidationError("order_id or customer_id is required")
		}
		if req.Amount == nil {
			return nil, shared.NewValidationError("amount is required without order_id")
		}
		if _, err := s.customers.FindByIDForTenant(ctx, tenantID, *req.CustomerID); err != nil {
			return nil, missingReference(err, "customer")
		}
		build = func(number string) (*finance.Invoice, error) {
			return explicitInvoice(tenantID, number, req, dueDate)
		}
	}

	day := s.now()
	for attempt := 1; ; attempt++ {
		seq, err := s.invoices.CountForDay(ctx, tenantID, day)
		if err != nil {
			return nil, err
		}
		inv, err := build(finance.FormatInvoiceNumber(day, seq+int64(attempt)))
		if err != nil {
			return nil, err
		}
		err = s.invoices.Create(ctx, inv)
		if err == nil {
			response := ToInvoiceResponse(inv)
			return &response, nil
		}
		if !errors.Is(err, shared.ErrAlreadyExists) || attempt == invoiceNumberAttempts {
			return nil, err
		}
	}
}

func invoiceForOrder(tenantID uuid.UUID, number string, order *trade.Order, dueDate time.Time) (*finance.Invoice, error) {
	items := make([]finance.InvoiceItem, 0, len(order.Items))
	for _, it := range order.Items {
		productID := it.ProductID
		items = append(items, finance.InvoiceItem{
			ProductID: &productID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Amount:    it.LineTotal,
		})
	}
	amount := order.TotalAmount.Sub(order.TaxAmount)
	inv, err := finance.NewInvoice(tenantID, number, order.CustomerID, amount, order.TaxAmount, dueDate, items)
	if err != nil {
		return nil, err
	}
	inv.ForOrder(order.ID)
	return inv, nil
}

func explicitInvoice(tenantID uuid.UUID, number string, req CreateInvoiceRequest, dueDate time.Time) (*finance.Invoice, error) {
	items := make([]finance.InvoiceItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, finance.InvoiceItem{
			ProductID:   it.ProductID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Amount:      shared.RoundMoney(it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity))),
		})
	}
	tax := decimal.Zero
	if req.TaxAmount != nil {
		tax = *req.TaxAmount
	}
	return finance.NewInvoice(tenantID, number, *req.CustomerID, *req.Amount, tax, dueDate, items)
}

// GetByID retrieves an invoice
func (s *InvoiceService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoices.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(inv)
	return &response, nil
}

// List returns a page of invoices
func (s *InvoiceService) List(ctx context.Context, tenantID uuid.UUID, filter InvoiceListFilter) ([]InvoiceResponse, int64, error) {
	f := filter.Filter().
		With("status", filter.Status).
		With("customer_id", filter.CustomerID).
		With("order_id", filter.OrderID)
	if filter.Overdue {
		f = f.With("overdue", shared.DateOf(s.now()))
	}
	list, err := s.invoices.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.invoices.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	return appshared.MapSlice(list, ToInvoiceResponse), total, nil
}

// Cancel voids an invoice without payments
func (s *InvoiceService) Cancel(ctx context.Context, tenantID, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoices.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	expected := inv.Version
	if err := inv.Cancel(); err != nil {
		return nil, err
	}
	if err := s.invoices.SaveWithLock(ctx, inv, expected); err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(inv)
	return &response, nil
}

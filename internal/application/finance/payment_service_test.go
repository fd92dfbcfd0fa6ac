package finance

import (
	"testing"
	"time"

	"github.com/erp/distribution/internal/domain/finance"
	"github.com/erp/distribution/internal/domain/shared"
	"github.com/erp/distribution/internal/domain/trade"
	"github.com/erp/distribution/internal/infrastructure/cache"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type billingFixture struct {
	*cashFixture
	invoices *InvoiceService
	payments *PaymentService
	store    *cache.InMemoryIdempotencyStore
}

func newBillingFixture(t *testing.T) *billingFixture {
	t.Helper()
	f := newCashFixture(t)
	invoices := NewInvoiceService(f.l.InvoiceRepo(), f.l.OrderRepo(), anyCustomer{})
	invoices.now = f.svc.now
	store := cache.NewInMemoryIdempotencyStore(time.Minute)
	t.Cleanup(func() { _ = store.Close() })
	payments := NewPaymentService(PaymentServiceDeps{
		Payments:    f.l.PaymentRepo(),
		TxScope:     financeScope{f.l},
		Idempotency: store,
	})
	return &billingFixture{cashFixture: f, invoices: invoices, payments: payments, store: store}
}

// seedOrder stores a delivered order of 100 net plus 10 tax
func (f *billingFixture) seedOrder() trade.Order {
	o := trade.Order{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(f.tenantID),
		OrderNumber:         "ORD-20260314-0001",
		CustomerID:          uuid.New(),
		OrderDate:           time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		Subtotal:            decimal.NewFromInt(100),
		TaxAmount:           decimal.NewFromInt(10),
		TotalAmount:         decimal.NewFromInt(110),
		PaymentStatus:       trade.PaymentStatusPending,
		OrderStatus:         trade.OrderStatusDelivered,
	}
	o.Items = []trade.OrderItem{{
		TenantID:  f.tenantID,
		OrderID:   o.ID,
		ProductID: uuid.New(),
		Quantity:  4,
		UnitPrice: decimal.NewFromInt(25),
		LineTotal: decimal.NewFromInt(100),
	}}
	f.l.orders[o.ID] = o
	return o
}

func (f *billingFixture) pay(t *testing.T, invoiceID uuid.UUID, amount, key string) (*PaymentResponse, error) {
	t.Helper()
	return f.payments.Create(f.ctx, f.tenantID, CreatePaymentRequest{
		InvoiceID:     invoiceID,
		Amount:        decimal.RequireFromString(amount),
		PaymentMethod: "bank_transfer",
	}, key)
}

func TestInvoiceService_CreateFromOrder(t *testing.T) {
	f := newBillingFixture(t)
	order := f.seedOrder()

	inv, err := f.invoices.Create(f.ctx, f.tenantID, CreateInvoiceRequest{OrderID: &order.ID})
	require.NoError(t, err)
	assert.Equal(t, "INV-20260314-0001", inv.InvoiceNumber)
	assert.Equal(t, order.CustomerID, inv.CustomerID)
	assert.True(t, inv.Amount.Equal(decimal.NewFromInt(100)))
	assert.True(t, inv.TotalAmount.Equal(decimal.NewFromInt(110)))
	assert.Equal(t, "issued", inv.Status)
	require.Len(t, inv.Items, 1)
	assert.Equal(t, int64(4), inv.Items[0].Quantity)

	t.Run("second active invoice for the order", func(t *testing.T) {
		_, err := f.invoices.Create(f.ctx, f.tenantID, CreateInvoiceRequest{OrderID: &order.ID})
		assertCode(t, err, "ALREADY_EXISTS")
	})

	t.Run("reissue after cancel", func(t *testing.T) {
		_, err := f.invoices.Cancel(f.ctx, f.tenantID, inv.ID)
		require.NoError(t, err)
		again, err := f.invoices.Create(f.ctx, f.tenantID, CreateInvoiceRequest{OrderID: &order.ID})
		require.NoError(t, err)
		assert.Equal(t, "INV-20260314-0002", again.InvoiceNumber)
	})

	t.Run("unknown order", func(t *testing.T) {
		missing := uuid.New()
		_, err := f.invoices.Create(f.ctx, f.tenantID, CreateInvoiceRequest{OrderID: &missing})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestInvoiceService_CreateExplicit(t *testing.T) {
	f := newBillingFixture(t)
	customerID := uuid.New()

	_, err := f.invoices.Create(f.ctx, f.tenantID, CreateInvoiceRequest{CustomerID: &customerID})
	assert.ErrorIs(t, err, shared.ErrValidation)

	amount := decimal.RequireFromString("75.555")
	inv, err := f.invoices.Create(f.ctx, f.tenantID, CreateInvoiceRequest{CustomerID: &customerID, Amount: &amount})
	require.NoError(t, err)
	assert.Equal(t, "75.56", inv.TotalAmount.StringFixed(2))
	assert.Nil(t, inv.OrderID)
	assert.Equal(t, time.Date(2026, 4, 13, 0, 0, 0, 0, time.UTC), inv.DueDate.UTC())
}

func TestPaymentService_SettlesInvoiceAndOrder(t *testing.T) {
	f := newBillingFixture(t)
	order := f.seedOrder()
	inv, err := f.invoices.Create(f.ctx, f.tenantID, CreateInvoiceRequest{OrderID: &order.ID})
	require.NoError(t, err)

	p, err := f.pay(t, inv.ID, "50", "")
	require.NoError(t, err)
	assert.Equal(t, "partially_paid", p.InvoiceStatus)
	assert.Equal(t, trade.PaymentStatusPartial, f.l.orders[order.ID].PaymentStatus)

	t.Run("overpayment", func(t *testing.T) {
		_, err := f.pay(t, inv.ID, "60.01", "")
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	p, err = f.pay(t, inv.ID, "60", "")
	require.NoError(t, err)
	assert.Equal(t, "paid", p.InvoiceStatus)
	assert.Equal(t, trade.PaymentStatusPaid, f.l.orders[order.ID].PaymentStatus)

	stored := f.l.invoices[inv.ID]
	assert.True(t, stored.Outstanding().IsZero())

	_, err = f.pay(t, inv.ID, "1", "")
	assertCode(t, err, "INVALID_STATE")

	_, err = f.invoices.Cancel(f.ctx, f.tenantID, inv.ID)
	assertCode(t, err, "INVALID_STATE")

	list, total, err := f.payments.List(f.ctx, f.tenantID, PaymentListFilter{InvoiceID: &inv.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, list, 2)
}

func TestPaymentService_IdempotencyKey(t *testing.T) {
	f := newBillingFixture(t)
	customerID := uuid.New()
	amount := decimal.NewFromInt(100)
	inv, err := f.invoices.Create(f.ctx, f.tenantID, CreateInvoiceRequest{CustomerID: &customerID, Amount: &amount})
	require.NoError(t, err)

	_, err = f.pay(t, inv.ID, "40", "key-1")
	require.NoError(t, err)

	_, err = f.pay(t, inv.ID, "40", "key-1")
	assert.ErrorIs(t, err, shared.ErrDuplicateRequest)
	assert.Len(t, f.l.payments, 1)

	t.Run("failed attempt releases the key", func(t *testing.T) {
		_, err := f.pay(t, inv.ID, "500", "key-2")
		assert.ErrorIs(t, err, shared.ErrValidation)
		_, err = f.pay(t, inv.ID, "10", "key-2")
		require.NoError(t, err)
	})

	t.Run("keys are scoped per tenant", func(t *testing.T) {
		processed, err := f.store.IsProcessed(f.ctx, "payment:"+f.tenantID.String()+":key-1")
		require.NoError(t, err)
		assert.True(t, processed)
	})
}

func TestPaymentService_CashSession(t *testing.T) {
	f := newBillingFixture(t)
	customerID := uuid.New()
	amount := decimal.NewFromInt(80)
	inv, err := f.invoices.Create(f.ctx, f.tenantID, CreateInvoiceRequest{CustomerID: &customerID, Amount: &amount})
	require.NoError(t, err)
	session, err := f.svc.Open(f.ctx, f.tenantID, OpenCashSessionRequest{AgentID: f.agentID})
	require.NoError(t, err)

	p, err := f.payments.Create(f.ctx, f.tenantID, CreatePaymentRequest{
		InvoiceID:     inv.ID,
		Amount:        decimal.NewFromInt(30),
		PaymentMethod: "cash",
		CashSessionID: &session.ID,
	}, "")
	require.NoError(t, err)
	require.NotNil(t, p.CashSessionID)
	assert.Equal(t, session.ID, *p.CashSessionID)

	s := f.l.sessions[session.ID]
	assert.True(t, s.ExpectedCash.Equal(decimal.NewFromInt(30)))
	require.Len(t, f.l.collections, 1)
	c := f.l.collections[0]
	assert.Equal(t, finance.CollectionCash, c.PaymentMethod)
	require.NotNil(t, c.InvoiceID)
	assert.Equal(t, inv.ID, *c.InvoiceID)

	f.close(t, session.ID, "30")
	_, err = f.payments.Create(f.ctx, f.tenantID, CreatePaymentRequest{
		InvoiceID:     inv.ID,
		Amount:        decimal.NewFromInt(10),
		PaymentMethod: "cash",
		CashSessionID: &session.ID,
	}, "")
	assertCode(t, err, "INVALID_STATE")
}

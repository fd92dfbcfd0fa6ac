package export

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	partnerapp "github.com/erp/distribution/internal/application/partner"
	tradeapp "github.com/erp/distribution/internal/application/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type customerPages struct {
	all   []partnerapp.CustomerResponse
	pages []int
	err   error
}

func (p *customerPages) List(_ context.Context, _ uuid.UUID, f partnerapp.CustomerListFilter) ([]partnerapp.CustomerResponse, int64, error) {
	if p.err != nil {
		return nil, 0, p.err
	}
	p.pages = append(p.pages, f.Page)
	start := (f.Page - 1) * f.PageSize
	if start >= len(p.all) {
		return nil, int64(len(p.all)), nil
	}
	end := min(start+f.PageSize, len(p.all))
	return p.all[start:end], int64(len(p.all)), nil
}

type orderPages struct {
	all []tradeapp.OrderResponse
}

func (p *orderPages) List(_ context.Context, _ uuid.UUID, f tradeapp.OrderListFilter) ([]tradeapp.OrderResponse, int64, error) {
	start := (f.Page - 1) * f.PageSize
	if start >= len(p.all) {
		return nil, int64(len(p.all)), nil
	}
	end := min(start+f.PageSize, len(p.all))
	return p.all[start:end], int64(len(p.all)), nil
}

func readSheet(t *testing.T, buf *bytes.Buffer, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	return rows
}

func TestService_Customers(t *testing.T) {
	customers := make([]partnerapp.CustomerResponse, 0, 150)
	for i := 0; i < 150; i++ {
		customers = append(customers, partnerapp.CustomerResponse{
			ID:          uuid.New(),
			Code:        gofakeit.LetterN(6),
			Name:        gofakeit.Company(),
			Type:        "retail",
			Status:      "active",
			CreditLimit: decimal.NewFromInt(500),
			CreatedAt:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		})
	}
	lister := &customerPages{all: customers}
	svc := NewService(lister, &orderPages{})

	var buf bytes.Buffer
	n, err := svc.Customers(context.Background(), uuid.New(), partnerapp.CustomerListFilter{Type: "retail"}, &buf)
	require.NoError(t, err)
	assert.Equal(t, 150, n)
	assert.Equal(t, []int{1, 2}, lister.pages)

	rows := readSheet(t, &buf, "Customers")
	require.Len(t, rows, 151)
	assert.Equal(t, []string{"Code", "Name", "Type", "Status", "Phone", "Email", "Address", "Credit Limit", "Balance", "Created At"}, rows[0])
	assert.Equal(t, customers[0].Code, rows[1][0])
	assert.Equal(t, "2026-03-01", rows[1][9])
}

func TestService_CustomersError(t *testing.T) {
	svc := NewService(&customerPages{err: errors.New("db down")}, &orderPages{})
	var buf bytes.Buffer
	_, err := svc.Customers(context.Background(), uuid.New(), partnerapp.CustomerListFilter{}, &buf)
	assert.EqualError(t, err, "db down")
	assert.Zero(t, buf.Len())
}

func TestService_Orders(t *testing.T) {
	order := tradeapp.OrderResponse{
		OrderNumber:   "ORD-20260314-0001",
		OrderDate:     time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		CustomerID:    uuid.New(),
		OrderStatus:   "delivered",
		PaymentStatus: "paid",
		Subtotal:      decimal.RequireFromString("100.00"),
		TaxAmount:     decimal.RequireFromString("10.00"),
		TotalAmount:   decimal.RequireFromString("110.00"),
	}
	svc := NewService(&customerPages{}, &orderPages{all: []tradeapp.OrderResponse{order}})

	var buf bytes.Buffer
	n, err := svc.Orders(context.Background(), uuid.New(), tradeapp.OrderListFilter{}, &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	rows := readSheet(t, &buf, "Orders")
	require.Len(t, rows, 2)
	assert.Equal(t, "Order Number", rows[0][0])
	assert.Equal(t, "Total Amount", rows[0][8])
	assert.Equal(t, "ORD-20260314-0001", rows[1][0])
	assert.Equal(t, "110", rows[1][8])
}

func TestService_Label(t *testing.T) {
	svc := NewService(nil, nil)
	assert.Equal(t, "Payment Status", svc.Label("payment_status"))
	assert.Equal(t, "Code", svc.Label("code"))
}

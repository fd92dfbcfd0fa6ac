package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	exportapp "github.com/erp/distribution/internal/application/export"
	partnerapp "github.com/erp/distribution/internal/application/partner"
	tradeapp "github.com/erp/distribution/internal/application/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type customerListFunc func(ctx context.Context, tenantID uuid.UUID, filter partnerapp.CustomerListFilter) ([]partnerapp.CustomerResponse, int64, error)

func (f customerListFunc) List(ctx context.Context, tenantID uuid.UUID, filter partnerapp.CustomerListFilter) ([]partnerapp.CustomerResponse, int64, error) {
	return f(ctx, tenantID, filter)
}

type orderListFunc func(ctx context.Context, tenantID uuid.UUID, filter tradeapp.OrderListFilter) ([]tradeapp.OrderResponse, int64, error)

func (f orderListFunc) List(ctx context.Context, tenantID uuid.UUID, filter tradeapp.OrderListFilter) ([]tradeapp.OrderResponse, int64, error) {
	return f(ctx, tenantID, filter)
}

func TestExportHandler_Customers(t *testing.T) {
	r, tenantID := tenantRouter(t)
	var seen partnerapp.CustomerListFilter
	customers := customerListFunc(func(ctx context.Context, gotTenant uuid.UUID, filter partnerapp.CustomerListFilter) ([]partnerapp.CustomerResponse, int64, error) {
		assert.Equal(t, tenantID, gotTenant)
		seen = filter
		return []partnerapp.CustomerResponse{
			{Code: "C-001", Name: gofakeit.Company(), Type: "retail", Status: "active", CreditLimit: decimal.NewFromInt(500)},
			{Code: "C-002", Name: gofakeit.Company(), Type: "retail", Status: "active"},
		}, 2, nil
	})
	h := NewExportHandler(exportapp.NewService(customers, nil))
	r.GET("/exports/customers.xlsx", h.Customers)

	w := doJSON(r, http.MethodGet, "/exports/customers.xlsx?type=retail&search=kios", nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), `attachment; filename="customers-`)
	assert.Equal(t, "2", w.Header().Get("X-Export-Rows"))
	assert.Equal(t, "retail", seen.Type)
	assert.Equal(t, "kios", seen.Search)

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows("Customers")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Code", rows[0][0])
	assert.Equal(t, "Credit Limit", rows[0][7])
	assert.Equal(t, "C-001", rows[1][0])
}

func TestExportHandler_Orders(t *testing.T) {
	t.Run("invalid status filter", func(t *testing.T) {
		r, _ := tenantRouter(t)
		h := NewExportHandler(exportapp.NewService(nil, nil))
		r.GET("/exports/orders.xlsx", h.Orders)

		w := doJSON(r, http.MethodGet, "/exports/orders.xlsx?order_status=shipped", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("lister failure returns the error envelope", func(t *testing.T) {
		r, _ := tenantRouter(t)
		orders := orderListFunc(func(ctx context.Context, tenantID uuid.UUID, filter tradeapp.OrderListFilter) ([]tradeapp.OrderResponse, int64, error) {
			return nil, 0, errors.New("db down")
		})
		h := NewExportHandler(exportapp.NewService(nil, orders))
		r.GET("/exports/orders.xlsx", h.Orders)

		w := doJSON(r, http.MethodGet, "/exports/orders.xlsx", nil)
		env := decode(t, w, nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "INTERNAL_ERROR", env.Error.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	})
}

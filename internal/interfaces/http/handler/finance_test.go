package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	financeapp "github.com/erp/distribution/internal/application/finance"
	"github.com/erp/distribution/internal/infrastructure/cache"
	"github.com/erp/distribution/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paymentRouter(t *testing.T) (*gin.Engine, uuid.UUID, *cache.InMemoryIdempotencyStore) {
	t.Helper()
	r, tenantID := tenantRouter(t)
	store := cache.NewInMemoryIdempotencyStore(0)
	t.Cleanup(func() { _ = store.Close() })
	payments := financeapp.NewPaymentService(financeapp.PaymentServiceDeps{Idempotency: store, TTL: time.Hour})
	h := NewFinanceHandler(nil, payments)
	r.POST("/payments", h.CreatePayment)
	return r, tenantID, store
}

func postPayment(r http.Handler, body any, key string) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/payments", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.TenantIDHeader, uuid.NewString())
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestFinanceHandler_CreatePayment(t *testing.T) {
	valid := map[string]any{"invoice_id": uuid.NewString(), "amount": "150.00", "payment_method": "cash"}

	t.Run("replayed idempotency key is refused", func(t *testing.T) {
		r, tenantID, store := paymentRouter(t)
		fresh, err := store.MarkProcessed(context.Background(), fmt.Sprintf("payment:%s:%s", tenantID, "pay-123"), time.Hour)
		require.NoError(t, err)
		require.True(t, fresh)

		w := postPayment(r, valid, "pay-123")

		env := decode(t, w, nil)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "DUPLICATE_REQUEST", env.Error.Code)
	})

	t.Run("oversized idempotency key", func(t *testing.T) {
		r, _, store := paymentRouter(t)

		w := postPayment(r, valid, strings.Repeat("k", 256))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Zero(t, store.Len())
	})

	t.Run("unknown payment method", func(t *testing.T) {
		r, _, _ := paymentRouter(t)
		body := map[string]any{"invoice_id": uuid.NewString(), "amount": "10", "payment_method": "barter"}

		w := postPayment(r, body, "")

		env := decode(t, w, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotEmpty(t, env.Error.Details)
		assert.Equal(t, "payment_method", env.Error.Details[0].Field)
	})

	t.Run("missing invoice", func(t *testing.T) {
		r, _, _ := paymentRouter(t)

		w := postPayment(r, map[string]any{"amount": "10", "payment_method": "cash"}, "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCashSessionHandler_MalformedID(t *testing.T) {
	r, _ := tenantRouter(t)
	h := NewCashSessionHandler(nil)
	r.POST("/cash-sessions/:id/close", h.Close)
	r.GET("/bank-deposits/:id", h.GetDeposit)

	w := doJSON(r, http.MethodPost, "/cash-sessions/42/close", map[string]string{"actual_cash": "10"})
	env := decode(t, w, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid cash session ID format", env.Error.Message)

	w = doJSON(r, http.MethodGet, "/bank-deposits/xyz", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

package handler

import (
	financeapp "github.com/erp/distribution/internal/application/finance"
	"github.com/gin-gonic/gin"
)

// IdempotencyKeyHeader carries the client key that deduplicates payment submissions
const IdempotencyKeyHeader = "Idempotency-Key"

// FinanceHandler serves /invoices and /payments
type FinanceHandler struct {
	BaseHandler
	invoiceService *financeapp.InvoiceService
	paymentService *financeapp.PaymentService
}

// NewFinanceHandler creates a new FinanceHandler
func NewFinanceHandler(invoiceService *financeapp.InvoiceService, paymentService *financeapp.PaymentService) *FinanceHandler {
	return &FinanceHandler{invoiceService: invoiceService, paymentService: paymentService}
}

// CreateInvoice godoc
// @ID           createInvoice
// @Summary      Issue an invoice
// @Description  With order_id the amounts come from the order and only one active invoice per order is allowed.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        request body financeapp.CreateInvoiceRequest true "Invoice"
// @Success      201 {object} APIResponse[financeapp.InvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices [post]
func (h *FinanceHandler) CreateInvoice(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req financeapp.CreateInvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	invoice, err := h.invoiceService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// GetInvoice godoc
// @ID           getInvoiceById
// @Summary      Get an invoice
// @Tags         invoices
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.InvoiceResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id} [get]
func (h *FinanceHandler) GetInvoice(c *gin.Context) {
	tenantID, id, ok := h.scoped(c, "invoice")
	if !ok {
		return
	}
	invoice, err := h.invoiceService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// ListInvoices godoc
// @ID           listInvoices
// @Summary      List invoices
// @Tags         invoices
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        page        query int    false "Page number"
// @Param        page_size   query int    false "Page size"
// @Param        status      query string false "Status" Enums(issued, partially_paid, paid, cancelled)
// @Param        customer_id query string false "Customer ID" format(uuid)
// @Param        order_id    query string false "Order ID" format(uuid)
// @Param        overdue     query bool   false "Only unpaid invoices past their due date"
// @Success      200 {object} APIResponse[[]financeapp.InvoiceResponse]
// @Security     BearerAuth
// @Router       /invoices [get]
func (h *FinanceHandler) ListInvoices(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter financeapp.InvoiceListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	invoices, total, err := h.invoiceService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Paged(c, invoices, total, filter.PageQuery)
}

// CancelInvoice godoc
// @ID           cancelInvoice
// @Summary      Cancel an invoice without payments
// @Tags         invoices
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.InvoiceResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id}/cancel [post]
func (h *FinanceHandler) CancelInvoice(c *gin.Context) {
	tenantID, id, ok := h.scoped(c, "invoice")
	if !ok {
		return
	}
	invoice, err := h.invoiceService.Cancel(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// CreatePayment godoc
// @ID           createPayment
// @Summary      Record a payment against an invoice
// @Description  A repeated Idempotency-Key within 24 hours is refused with DUPLICATE_REQUEST.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID     header string false "Tenant ID"
// @Param        Idempotency-Key header string false "Client deduplication key"
// @Param        request body financeapp.CreatePaymentRequest true "Payment"
// @Success      201 {object} APIResponse[financeapp.PaymentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payments [post]
func (h *FinanceHandler) CreatePayment(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req financeapp.CreatePaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	key := c.GetHeader(IdempotencyKeyHeader)
	if len(key) > 255 {
		h.BadRequest(c, "Idempotency-Key must be at most 255 characters")
		return
	}
	payment, err := h.paymentService.Create(c.Request.Context(), tenantID, req, key)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, payment)
}

// ListPayments godoc
// @ID           listPayments
// @Summary      List payments
// @Tags         payments
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        page           query int    false "Page number"
// @Param        page_size      query int    false "Page size"
// @Param        invoice_id     query string false "Invoice ID" format(uuid)
// @Param        customer_id    query string false "Customer ID" format(uuid)
// @Param        payment_method query string false "Payment method"
// @Success      200 {object} APIResponse[[]financeapp.PaymentResponse]
// @Security     BearerAuth
// @Router       /payments [get]
func (h *FinanceHandler) ListPayments(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter financeapp.PaymentListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	payments, total, err := h.paymentService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Paged(c, payments, total, filter.PageQuery)
}

package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	exportapp "github.com/erp/distribution/internal/application/export"
	partnerapp "github.com/erp/distribution/internal/application/partner"
	tradeapp "github.com/erp/distribution/internal/application/trade"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler streams list endpoints as XLSX workbooks
type ExportHandler struct {
	BaseHandler
	exportService *exportapp.Service
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(exportService *exportapp.Service) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// Customers godoc
// @ID           exportCustomers
// @Summary      Export customers as XLSX
// @Description  Accepts the filters of GET /customers; at most 10000 rows are written.
// @Tags         exports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        type     query string false "Customer type"
// @Param        status   query string false "Status"
// @Param        route_id query string false "Route ID" format(uuid)
// @Param        search   query string false "Search term"
// @Success      200 {file} file
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /exports/customers.xlsx [get]
func (h *ExportHandler) Customers(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter partnerapp.CustomerListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	var buf bytes.Buffer
	rows, err := h.exportService.Customers(c.Request.Context(), tenantID, filter, &buf)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.sendWorkbook(c, "customers", rows, &buf)
}

// Orders godoc
// @ID           exportOrders
// @Summary      Export orders as XLSX
// @Description  Accepts the filters of GET /orders; at most 10000 rows are written.
// @Tags         exports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        order_status   query string false "Order status"
// @Param        payment_status query string false "Payment status"
// @Param        customer_id    query string false "Customer ID" format(uuid)
// @Param        date_from      query string false "Order date from" format(date)
// @Param        date_to        query string false "Order date to" format(date)
// @Success      200 {file} file
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /exports/orders.xlsx [get]
func (h *ExportHandler) Orders(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter tradeapp.OrderListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	var buf bytes.Buffer
	rows, err := h.exportService.Orders(c.Request.Context(), tenantID, filter, &buf)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.sendWorkbook(c, "orders", rows, &buf)
}

func (h *ExportHandler) sendWorkbook(c *gin.Context, name string, rows int, buf *bytes.Buffer) {
	filename := fmt.Sprintf("%s-%s.xlsx", name, time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("X-Export-Rows", strconv.Itoa(rows))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

package handler

import (
	inventoryapp "github.com/erp/distribution/internal/application/inventory"
	"github.com/gin-gonic/gin"
)

// InventoryHandler serves stock levels, stock operations and the movement ledger
type InventoryHandler struct {
	BaseHandler
	stockService *inventoryapp.StockService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(stockService *inventoryapp.StockService) *InventoryHandler {
	return &InventoryHandler{stockService: stockService}
}

// List godoc
// @ID           listStock
// @Summary      List stock levels
// @Tags         inventory
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        page         query int    false "Page number"
// @Param        page_size    query int    false "Page size"
// @Param        warehouse_id query string false "Warehouse ID" format(uuid)
// @Param        product_id   query string false "Product ID" format(uuid)
// @Param        low_stock    query int    false "Only rows with quantity on hand at or below this threshold"
// @Success      200 {object} APIResponse[[]inventoryapp.StockResponse]
// @Security     BearerAuth
// @Router       /inventory [get]
func (h *InventoryHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter inventoryapp.StockListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	levels, total, err := h.stockService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Paged(c, levels, total, filter.PageQuery)
}

// Get godoc
// @ID           getStock
// @Summary      Get the stock of a product in a warehouse
// @Tags         inventory
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        warehouse_id path string true "Warehouse ID" format(uuid)
// @Param        product_id   path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[inventoryapp.StockResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/{warehouse_id}/{product_id} [get]
func (h *InventoryHandler) Get(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	warehouseID, ok := h.pathID(c, "warehouse_id", "warehouse")
	if !ok {
		return
	}
	productID, ok := h.pathID(c, "product_id", "product")
	if !ok {
		return
	}
	level, err := h.stockService.Get(c.Request.Context(), tenantID, warehouseID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, level)
}

// Adjust godoc
// @ID           adjustStock
// @Summary      Set or change a stock level
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        request body inventoryapp.AdjustStockRequest true "Adjustment"
// @Success      200 {object} APIResponse[inventoryapp.StockResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/adjust [post]
func (h *InventoryHandler) Adjust(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req inventoryapp.AdjustStockRequest
	if !h.bindJSON(c, &req) {
		return
	}
	level, err := h.stockService.Adjust(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, level)
}

// Receive godoc
// @ID           receiveStock
// @Summary      Receive stock into a warehouse
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        request body inventoryapp.ReceiveStockRequest true "Receipt"
// @Success      200 {object} APIResponse[inventoryapp.StockResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/receive [post]
func (h *InventoryHandler) Receive(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req inventoryapp.ReceiveStockRequest
	if !h.bindJSON(c, &req) {
		return
	}
	level, err := h.stockService.Receive(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, level)
}

// Transfer godoc
// @ID           transferStock
// @Summary      Move stock between warehouses
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        request body inventoryapp.TransferStockRequest true "Transfer"
// @Success      200 {object} APIResponse[inventoryapp.TransferResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/transfer [post]
func (h *InventoryHandler) Transfer(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req inventoryapp.TransferStockRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.stockService.Transfer(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Movements godoc
// @ID           listStockMovements
// @Summary      List stock movements
// @Tags         inventory
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        page           query int    false "Page number"
// @Param        page_size      query int    false "Page size"
// @Param        warehouse_id   query string false "Warehouse ID" format(uuid)
// @Param        product_id     query string false "Product ID" format(uuid)
// @Param        movement_type  query string false "Movement type" Enums(in, out, adjustment, transfer_in, transfer_out, reserve, release)
// @Param        reference_type query string false "Reference type"
// @Param        reference_id   query string false "Reference ID" format(uuid)
// @Success      200 {object} APIResponse[[]inventoryapp.MovementResponse]
// @Security     BearerAuth
// @Router       /stock-movements [get]
func (h *InventoryHandler) Movements(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter inventoryapp.MovementListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	movements, total, err := h.stockService.ListMovements(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Paged(c, movements, total, filter.PageQuery)
}

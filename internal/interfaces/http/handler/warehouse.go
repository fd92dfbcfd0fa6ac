package handler

import (
	inventoryapp "github.com/erp/distribution/internal/application/inventory"
	"github.com/gin-gonic/gin"
)

// WarehouseHandler serves /warehouses
type WarehouseHandler struct {
	BaseHandler
	warehouseService *inventoryapp.WarehouseService
}

// NewWarehouseHandler creates a new WarehouseHandler
func NewWarehouseHandler(warehouseService *inventoryapp.WarehouseService) *WarehouseHandler {
	return &WarehouseHandler{warehouseService: warehouseService}
}

// Create godoc
// @ID           createWarehouse
// @Summary      Create a warehouse
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        request body inventoryapp.CreateWarehouseRequest true "Warehouse"
// @Success      201 {object} APIResponse[inventoryapp.WarehouseResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /warehouses [post]
func (h *WarehouseHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req inventoryapp.CreateWarehouseRequest
	if !h.bindJSON(c, &req) {
		return
	}
	warehouse, err := h.warehouseService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, warehouse)
}

// GetByID godoc
// @ID           getWarehouseById
// @Summary      Get a warehouse
// @Tags         inventory
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id path string true "Warehouse ID" format(uuid)
// @Success      200 {object} APIResponse[inventoryapp.WarehouseResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /warehouses/{id} [get]
func (h *WarehouseHandler) GetByID(c *gin.Context) {
	tenantID, id, ok := h.scoped(c, "warehouse")
	if !ok {
		return
	}
	warehouse, err := h.warehouseService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, warehouse)
}

// List godoc
// @ID           listWarehouses
// @Summary      List warehouses
// @Tags         inventory
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        page      query int    false "Page number"
// @Param        page_size query int    false "Page size"
// @Param        search    query string false "Search term"
// @Param        status    query string false "Status" Enums(active, inactive)
// @Success      200 {object} APIResponse[[]inventoryapp.WarehouseResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /warehouses [get]
func (h *WarehouseHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter inventoryapp.WarehouseListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	items, total, err := h.warehouseService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Paged(c, items, total, filter.PageQuery)
}

// Update godoc
// @ID           updateWarehouse
// @Summary      Update a warehouse
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id      path string true "Warehouse ID" format(uuid)
// @Param        request body inventoryapp.UpdateWarehouseRequest true "Changes"
// @Success      200 {object} APIResponse[inventoryapp.WarehouseResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /warehouses/{id} [put]
func (h *WarehouseHandler) Update(c *gin.Context) {
	tenantID, id, ok := h.scoped(c, "warehouse")
	if !ok {
		return
	}
	var req inventoryapp.UpdateWarehouseRequest
	if !h.bindJSON(c, &req) {
		return
	}
	warehouse, err := h.warehouseService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, warehouse)
}

// Delete godoc
// @ID           deleteWarehouse
// @Summary      Delete a warehouse
// @Tags         inventory
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id path string true "Warehouse ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /warehouses/{id} [delete]
func (h *WarehouseHandler) Delete(c *gin.Context) {
	tenantID, id, ok := h.scoped(c, "warehouse")
	if !ok {
		return
	}
	if err := h.warehouseService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

package handler

import (
	commissionapp "github.com/erp/distribution/internal/application/commission"
	"github.com/gin-gonic/gin"
)

// CommissionStructureHandler serves /commission-structures
type CommissionStructureHandler struct {
	BaseHandler
	structureService *commissionapp.StructureService
}

// NewCommissionStructureHandler creates a new CommissionStructureHandler
func NewCommissionStructureHandler(structureService *commissionapp.StructureService) *CommissionStructureHandler {
	return &CommissionStructureHandler{structureService: structureService}
}

// Create godoc
// @ID           createCommissionStructure
// @Summary      Create a commission structure
// @Tags         commissions
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        request body commissionapp.CreateStructureRequest true "Commission structure"
// @Success      201 {object} APIResponse[commissionapp.StructureResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /commission-structures [post]
func (h *CommissionStructureHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req commissionapp.CreateStructureRequest
	if !h.bindJSON(c, &req) {
		return
	}
	structure, err := h.structureService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, structure)
}

// GetByID godoc
// @ID           getCommissionStructureById
// @Summary      Get a commission structure
// @Tags         commissions
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id path string true "Commission structure ID" format(uuid)
// @Success      200 {object} APIResponse[commissionapp.StructureResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /commission-structures/{id} [get]
func (h *CommissionStructureHandler) GetByID(c *gin.Context) {
	tenantID, id, ok := h.scoped(c, "commission structure")
	if !ok {
		return
	}
	structure, err := h.structureService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, structure)
}

// List godoc
// @ID           listCommissionStructures
// @Summary      List commission structures
// @Tags         commissions
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        page      query int    false "Page number"
// @Param        page_size query int    false "Page size"
// @Param        search    query string false "Search term"
// @Param        agent_id         query string false "Agent ID" format(uuid)
// @Param        calculation_type query string false "Calculation type" Enums(flat, per_unit, percentage, tiered)
// @Param        status    query string false "Status" Enums(active, inactive)
// @Success      200 {object} APIResponse[[]commissionapp.StructureResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /commission-structures [get]
func (h *CommissionStructureHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter commissionapp.StructureListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	items, total, err := h.structureService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Paged(c, items, total, filter.PageQuery)
}

// Update godoc
// @ID           updateCommissionStructure
// @Summary      Update a commission structure
// @Tags         commissions
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id      path string true "Commission structure ID" format(uuid)
// @Param        request body commissionapp.UpdateStructureRequest true "Changes"
// @Success      200 {object} APIResponse[commissionapp.StructureResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /commission-structures/{id} [put]
func (h *CommissionStructureHandler) Update(c *gin.Context) {
	tenantID, id, ok := h.scoped(c, "commission structure")
	if !ok {
		return
	}
	var req commissionapp.UpdateStructureRequest
	if !h.bindJSON(c, &req) {
		return
	}
	structure, err := h.structureService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, structure)
}

// Delete godoc
// @ID           deleteCommissionStructure
// @Summary      Delete a commission structure
// @Tags         commissions
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id path string true "Commission structure ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /commission-structures/{id} [delete]
func (h *CommissionStructureHandler) Delete(c *gin.Context) {
	tenantID, id, ok := h.scoped(c, "commission structure")
	if !ok {
		return
	}
	if err := h.structureService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

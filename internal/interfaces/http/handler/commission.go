package handler

import (
	commissionapp "github.com/erp/distribution/internal/application/commission"
	"github.com/gin-gonic/gin"
)

// CommissionHandler serves /commissions
type CommissionHandler struct {
	BaseHandler
	commissionService *commissionapp.CommissionService
}

// NewCommissionHandler creates a new CommissionHandler
func NewCommissionHandler(commissionService *commissionapp.CommissionService) *CommissionHandler {
	return &CommissionHandler{commissionService: commissionService}
}

// Calculate godoc
// @ID           calculateCommission
// @Summary      Preview a commission without recording it
// @Tags         commissions
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        request body commissionapp.CalculateRequest true "Structure or inline formula"
// @Success      200 {object} APIResponse[commissionapp.CalculateResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /commissions/calculate [post]
func (h *CommissionHandler) Calculate(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req commissionapp.CalculateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.commissionService.Calculate(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Record godoc
// @ID           recordCommission
// @Summary      Record an accrued commission
// @Description  A repeated idempotency_key returns the existing record with 200.
// @Tags         commissions
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        request body commissionapp.RecordCommissionRequest true "Commission"
// @Success      201 {object} APIResponse[commissionapp.CommissionResponse]
// @Success      200 {object} APIResponse[commissionapp.CommissionResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /commissions [post]
func (h *CommissionHandler) Record(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req commissionapp.RecordCommissionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	commission, created, err := h.commissionService.Record(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !created {
		h.Success(c, commission)
		return
	}
	h.Created(c, commission)
}

// GetByID godoc
// @ID           getCommissionById
// @Summary      Get a commission
// @Tags         commissions
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id path string true "Commission ID" format(uuid)
// @Success      200 {object} APIResponse[commissionapp.CommissionResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /commissions/{id} [get]
func (h *CommissionHandler) GetByID(c *gin.Context) {
	tenantID, id, ok := h.scoped(c, "commission")
	if !ok {
		return
	}
	commission, err := h.commissionService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, commission)
}

// List godoc
// @ID           listCommissions
// @Summary      List commissions
// @Tags         commissions
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        page        query int    false "Page number"
// @Param        page_size   query int    false "Page size"
// @Param        agent_id    query string false "Agent ID" format(uuid)
// @Param        status      query string false "Status" Enums(pending, approved, paid)
// @Param        source_type query string false "Source type"
// @Success      200 {object} APIResponse[[]commissionapp.CommissionResponse]
// @Security     BearerAuth
// @Router       /commissions [get]
func (h *CommissionHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter commissionapp.CommissionListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	commissions, total, err := h.commissionService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Paged(c, commissions, total, filter.PageQuery)
}

// Approve godoc
// @ID           approveCommission
// @Summary      Approve a pending commission
// @Tags         commissions
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id      path string                                 true  "Commission ID" format(uuid)
// @Param        request body commissionapp.ApproveCommissionRequest false "Approver"
// @Success      200 {object} APIResponse[commissionapp.CommissionResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /commissions/{id}/approve [post]
func (h *CommissionHandler) Approve(c *gin.Context) {
	tenantID, id, ok := h.scoped(c, "commission")
	if !ok {
		return
	}
	var req commissionapp.ApproveCommissionRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}
	commission, err := h.commissionService.Approve(c.Request.Context(), tenantID, id, h.actorOr(c, req.ApprovedBy))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, commission)
}

// Pay godoc
// @ID           payCommission
// @Summary      Mark an approved commission as paid
// @Tags         commissions
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id      path string                             true "Commission ID" format(uuid)
// @Param        request body commissionapp.PayCommissionRequest true "Payment reference"
// @Success      200 {object} APIResponse[commissionapp.CommissionResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /commissions/{id}/pay [post]
func (h *CommissionHandler) Pay(c *gin.Context) {
	tenantID, id, ok := h.scoped(c, "commission")
	if !ok {
		return
	}
	var req commissionapp.PayCommissionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	commission, err := h.commissionService.Pay(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, commission)
}

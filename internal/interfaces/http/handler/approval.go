package handler

import (
	approvalapp "github.com/erp/distribution/internal/application/approval"
	"github.com/gin-gonic/gin"
)

// ApprovalHandler serves /approvals and the entity type lookup
type ApprovalHandler struct {
	BaseHandler
	approvalService *approvalapp.ApprovalService
}

// NewApprovalHandler creates a new ApprovalHandler
func NewApprovalHandler(approvalService *approvalapp.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{approvalService: approvalService}
}

// EntityTypes godoc
// @ID           listApprovalEntityTypes
// @Summary      List the entity types that can be sent for approval
// @Tags         approvals
// @Produce      json
// @Success      200 {object} APIResponse[[]approvalapp.EntityTypeResponse]
// @Security     BearerAuth
// @Router       /approval-entity-types [get]
func (h *ApprovalHandler) EntityTypes(c *gin.Context) {
	types, err := h.approvalService.EntityTypes(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, types)
}

// Create godoc
// @ID           createApproval
// @Summary      Open an approval request
// @Tags         approvals
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        request body approvalapp.CreateApprovalRequest true "Approval request"
// @Success      201 {object} APIResponse[approvalapp.ApprovalResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /approvals [post]
func (h *ApprovalHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req approvalapp.CreateApprovalRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.RequestedBy = h.actorOr(c, req.RequestedBy)
	approval, err := h.approvalService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, approval)
}

// GetByID godoc
// @ID           getApprovalById
// @Summary      Get an approval request
// @Tags         approvals
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id path string true "Approval ID" format(uuid)
// @Success      200 {object} APIResponse[approvalapp.ApprovalResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /approvals/{id} [get]
func (h *ApprovalHandler) GetByID(c *gin.Context) {
	tenantID, id, ok := h.scoped(c, "approval")
	if !ok {
		return
	}
	approval, err := h.approvalService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, approval)
}

// List godoc
// @ID           listApprovals
// @Summary      List approval requests
// @Tags         approvals
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        page        query int    false "Page number"
// @Param        page_size   query int    false "Page size"
// @Param        status      query string false "Status" Enums(pending, approved, rejected)
// @Param        entity_type query string false "Entity type code"
// @Param        entity_id   query string false "Entity ID" format(uuid)
// @Success      200 {object} APIResponse[[]approvalapp.ApprovalResponse]
// @Security     BearerAuth
// @Router       /approvals [get]
func (h *ApprovalHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter approvalapp.ApprovalListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	approvals, total, err := h.approvalService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Paged(c, approvals, total, filter.PageQuery)
}

// Approve godoc
// @ID           approveApproval
// @Summary      Approve a pending request
// @Tags         approvals
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id      path string                    true  "Approval ID" format(uuid)
// @Param        request body approvalapp.DecideRequest false "Decision"
// @Success      200 {object} APIResponse[approvalapp.ApprovalResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /approvals/{id}/approve [post]
func (h *ApprovalHandler) Approve(c *gin.Context) {
	h.decide(c, true)
}

// Reject godoc
// @ID           rejectApproval
// @Summary      Reject a pending request
// @Tags         approvals
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id      path string                    true  "Approval ID" format(uuid)
// @Param        request body approvalapp.DecideRequest false "Decision"
// @Success      200 {object} APIResponse[approvalapp.ApprovalResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /approvals/{id}/reject [post]
func (h *ApprovalHandler) Reject(c *gin.Context) {
	h.decide(c, false)
}

func (h *ApprovalHandler) decide(c *gin.Context, approve bool) {
	tenantID, id, ok := h.scoped(c, "approval")
	if !ok {
		return
	}
	var req approvalapp.DecideRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}
	req.DecidedBy = h.actorOr(c, req.DecidedBy)

	decide := h.approvalService.Reject
	if approve {
		decide = h.approvalService.Approve
	}
	approval, err := decide(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, approval)
}

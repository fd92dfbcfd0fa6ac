package handler

import (
	identityapp "github.com/erp/distribution/internal/application/identity"
	"github.com/gin-gonic/gin"
)

// TenantHandler serves the platform-level tenant endpoints. They are not tenant scoped.
type TenantHandler struct {
	BaseHandler
	tenantService *identityapp.TenantService
}

// NewTenantHandler creates a new TenantHandler
func NewTenantHandler(tenantService *identityapp.TenantService) *TenantHandler {
	return &TenantHandler{tenantService: tenantService}
}

// Create godoc
// @ID           createTenant
// @Summary      Create a tenant
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        request body identityapp.CreateTenantRequest true "Tenant"
// @Success      201 {object} APIResponse[identityapp.TenantResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /tenants [post]
func (h *TenantHandler) Create(c *gin.Context) {
	var req identityapp.CreateTenantRequest
	if !h.bindJSON(c, &req) {
		return
	}
	tenant, err := h.tenantService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tenant)
}

// GetByID godoc
// @ID           getTenantById
// @Summary      Get a tenant
// @Tags         tenants
// @Produce      json
// @Param        id path string true "Tenant ID" format(uuid)
// @Success      200 {object} APIResponse[identityapp.TenantResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /tenants/{id} [get]
func (h *TenantHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id", "tenant")
	if !ok {
		return
	}
	tenant, err := h.tenantService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tenant)
}

// List godoc
// @ID           listTenants
// @Summary      List tenants
// @Tags         tenants
// @Produce      json
// @Param        page      query int    false "Page number"
// @Param        page_size query int    false "Page size"
// @Param        status    query string false "Status" Enums(active, suspended)
// @Param        search    query string false "Search code or name"
// @Success      200 {object} APIResponse[[]identityapp.TenantResponse]
// @Router       /tenants [get]
func (h *TenantHandler) List(c *gin.Context) {
	var filter identityapp.TenantListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	tenants, total, err := h.tenantService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Paged(c, tenants, total, filter.PageQuery)
}

// Update godoc
// @ID           updateTenant
// @Summary      Update a tenant
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        id      path string                          true "Tenant ID" format(uuid)
// @Param        request body identityapp.UpdateTenantRequest true "Changes"
// @Success      200 {object} APIResponse[identityapp.TenantResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /tenants/{id} [put]
func (h *TenantHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id", "tenant")
	if !ok {
		return
	}
	var req identityapp.UpdateTenantRequest
	if !h.bindJSON(c, &req) {
		return
	}
	tenant, err := h.tenantService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tenant)
}

// Suspend godoc
// @ID           suspendTenant
// @Summary      Suspend a tenant
// @Tags         tenants
// @Produce      json
// @Param        id path string true "Tenant ID" format(uuid)
// @Success      200 {object} APIResponse[identityapp.TenantResponse]
// @Failure      422 {object} ErrorResponse
// @Router       /tenants/{id}/suspend [post]
func (h *TenantHandler) Suspend(c *gin.Context) {
	id, ok := h.pathID(c, "id", "tenant")
	if !ok {
		return
	}
	tenant, err := h.tenantService.Suspend(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tenant)
}

// Activate godoc
// @ID           activateTenant
// @Summary      Activate a tenant
// @Tags         tenants
// @Produce      json
// @Param        id path string true "Tenant ID" format(uuid)
// @Success      200 {object} APIResponse[identityapp.TenantResponse]
// @Failure      422 {object} ErrorResponse
// @Router       /tenants/{id}/activate [post]
func (h *TenantHandler) Activate(c *gin.Context) {
	id, ok := h.pathID(c, "id", "tenant")
	if !ok {
		return
	}
	tenant, err := h.tenantService.Activate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tenant)
}

package handler

import (
	fieldapp "github.com/erp/distribution/internal/application/field"
	"github.com/gin-gonic/gin"
)

// AgentHandler serves /agents
type AgentHandler struct {
	BaseHandler
	agentService *fieldapp.AgentService
}

// NewAgentHandler creates a new AgentHandler
func NewAgentHandler(agentService *fieldapp.AgentService) *AgentHandler {
	return &AgentHandler{agentService: agentService}
}

// Create godoc
// @ID           createAgent
// @Summary      Create an agent
// @Tags         field
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        request body fieldapp.CreateAgentRequest true "Agent"
// @Success      201 {object} APIResponse[fieldapp.AgentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /agents [post]
func (h *AgentHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req fieldapp.CreateAgentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	agent, err := h.agentService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, agent)
}

// GetByID godoc
// @ID           getAgentById
// @Summary      Get an agent
// @Tags         field
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id path string true "Agent ID" format(uuid)
// @Success      200 {object} APIResponse[fieldapp.AgentResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /agents/{id} [get]
func (h *AgentHandler) GetByID(c *gin.Context) {
	tenantID, id, ok := h.scoped(c, "agent")
	if !ok {
		return
	}
	agent, err := h.agentService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, agent)
}

// List godoc
// @ID           listAgents
// @Summary      List agents
// @Tags         field
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        page      query int    false "Page number"
// @Param        page_size query int    false "Page size"
// @Param        search    query string false "Search term"
// @Param        type      query string false "Agent type" Enums(van_sales, merchandiser, promoter, field_agent)
// @Param        status    query string false "Status" Enums(active, inactive)
// @Success      200 {object} APIResponse[[]fieldapp.AgentResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /agents [get]
func (h *AgentHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter fieldapp.AgentListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	items, total, err := h.agentService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Paged(c, items, total, filter.PageQuery)
}

// Update godoc
// @ID           updateAgent
// @Summary      Update an agent
// @Tags         field
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id      path string true "Agent ID" format(uuid)
// @Param        request body fieldapp.UpdateAgentRequest true "Changes"
// @Success      200 {object} APIResponse[fieldapp.AgentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /agents/{id} [put]
func (h *AgentHandler) Update(c *gin.Context) {
	tenantID, id, ok := h.scoped(c, "agent")
	if !ok {
		return
	}
	var req fieldapp.UpdateAgentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	agent, err := h.agentService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, agent)
}

// Delete godoc
// @ID           deleteAgent
// @Summary      Delete an agent
// @Tags         field
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id path string true "Agent ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /agents/{id} [delete]
func (h *AgentHandler) Delete(c *gin.Context) {
	tenantID, id, ok := h.scoped(c, "agent")
	if !ok {
		return
	}
	if err := h.agentService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

package handler

import (
	fieldapp "github.com/erp/distribution/internal/application/field"
	"github.com/gin-gonic/gin"
)

// RouteHandler serves /routes and their customer assignments
type RouteHandler struct {
	BaseHandler
	routeService *fieldapp.RouteService
}

// NewRouteHandler creates a new RouteHandler
func NewRouteHandler(routeService *fieldapp.RouteService) *RouteHandler {
	return &RouteHandler{routeService: routeService}
}

// Create godoc
// @ID           createRoute
// @Summary      Create a route
// @Tags         field
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        request body fieldapp.CreateRouteRequest true "Route"
// @Success      201 {object} APIResponse[fieldapp.RouteResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /routes [post]
func (h *RouteHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req fieldapp.CreateRouteRequest
	if !h.bindJSON(c, &req) {
		return
	}
	route, err := h.routeService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, route)
}

// GetByID godoc
// @ID           getRouteById
// @Summary      Get a route
// @Tags         field
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id path string true "Route ID" format(uuid)
// @Success      200 {object} APIResponse[fieldapp.RouteResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /routes/{id} [get]
func (h *RouteHandler) GetByID(c *gin.Context) {
	tenantID, id, ok := h.scoped(c, "route")
	if !ok {
		return
	}
	route, err := h.routeService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, route)
}

// List godoc
// @ID           listRoutes
// @Summary      List routes
// @Tags         field
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        page      query int    false "Page number"
// @Param        page_size query int    false "Page size"
// @Param        search    query string false "Search term"
// @Param        salesman_id query string false "Salesman ID" format(uuid)
// @Param        status    query string false "Status" Enums(active, inactive)
// @Success      200 {object} APIResponse[[]fieldapp.RouteResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /routes [get]
func (h *RouteHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter fieldapp.RouteListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	items, total, err := h.routeService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Paged(c, items, total, filter.PageQuery)
}

// Update godoc
// @ID           updateRoute
// @Summary      Update a route
// @Tags         field
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id      path string true "Route ID" format(uuid)
// @Param        request body fieldapp.UpdateRouteRequest true "Changes"
// @Success      200 {object} APIResponse[fieldapp.RouteResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /routes/{id} [put]
func (h *RouteHandler) Update(c *gin.Context) {
	tenantID, id, ok := h.scoped(c, "route")
	if !ok {
		return
	}
	var req fieldapp.UpdateRouteRequest
	if !h.bindJSON(c, &req) {
		return
	}
	route, err := h.routeService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, route)
}

// Delete godoc
// @ID           deleteRoute
// @Summary      Delete a route
// @Tags         field
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id path string true "Route ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /routes/{id} [delete]
func (h *RouteHandler) Delete(c *gin.Context) {
	tenantID, id, ok := h.scoped(c, "route")
	if !ok {
		return
	}
	if err := h.routeService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Customers godoc
// @ID           listRouteCustomers
// @Summary      List the customers on a route
// @Tags         field
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id path string true "Route ID" format(uuid)
// @Success      200 {object} APIResponse[[]fieldapp.RouteCustomerResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /routes/{id}/customers [get]
func (h *RouteHandler) Customers(c *gin.Context) {
	tenantID, id, ok := h.scoped(c, "route")
	if !ok {
		return
	}
	customers, err := h.routeService.Customers(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customers)
}

// AssignCustomers godoc
// @ID           assignRouteCustomers
// @Summary      Assign customers to a route
// @Description  Every customer must exist in the tenant; they are moved off any previous route.
// @Tags         field
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id      path string                          true "Route ID" format(uuid)
// @Param        request body fieldapp.AssignCustomersRequest true "Customers"
// @Success      200 {object} APIResponse[fieldapp.AssignCustomersResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /routes/{id}/customers [put]
func (h *RouteHandler) AssignCustomers(c *gin.Context) {
	tenantID, id, ok := h.scoped(c, "route")
	if !ok {
		return
	}
	var req fieldapp.AssignCustomersRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.routeService.AssignCustomers(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

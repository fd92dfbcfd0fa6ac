package handler

import (
	catalogapp "github.com/erp/distribution/internal/application/catalog"
	"github.com/gin-gonic/gin"
)

// BrandHandler serves /brands
type BrandHandler struct {
	BaseHandler
	brandService *catalogapp.BrandService
}

// NewBrandHandler creates a new BrandHandler
func NewBrandHandler(brandService *catalogapp.BrandService) *BrandHandler {
	return &BrandHandler{brandService: brandService}
}

// Create godoc
// @ID           createBrand
// @Summary      Create a brand
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        request body catalogapp.CreateBrandRequest true "Brand"
// @Success      201 {object} APIResponse[catalogapp.BrandResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /brands [post]
func (h *BrandHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req catalogapp.CreateBrandRequest
	if !h.bindJSON(c, &req) {
		return
	}
	brand, err := h.brandService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, brand)
}

// GetByID godoc
// @ID           getBrandById
// @Summary      Get a brand
// @Tags         catalog
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id path string true "Brand ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.BrandResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /brands/{id} [get]
func (h *BrandHandler) GetByID(c *gin.Context) {
	tenantID, id, ok := h.scoped(c, "brand")
	if !ok {
		return
	}
	brand, err := h.brandService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, brand)
}

// List godoc
// @ID           listBrands
// @Summary      List brands
// @Tags         catalog
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        page      query int    false "Page number"
// @Param        page_size query int    false "Page size"
// @Param        search    query string false "Search term"
// @Param        status    query string false "Status" Enums(active, inactive)
// @Success      200 {object} APIResponse[[]catalogapp.BrandResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /brands [get]
func (h *BrandHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter catalogapp.StatusListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	items, total, err := h.brandService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Paged(c, items, total, filter.PageQuery)
}

// Update godoc
// @ID           updateBrand
// @Summary      Update a brand
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id      path string true "Brand ID" format(uuid)
// @Param        request body catalogapp.UpdateBrandRequest true "Changes"
// @Success      200 {object} APIResponse[catalogapp.BrandResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /brands/{id} [put]
func (h *BrandHandler) Update(c *gin.Context) {
	tenantID, id, ok := h.scoped(c, "brand")
	if !ok {
		return
	}
	var req catalogapp.UpdateBrandRequest
	if !h.bindJSON(c, &req) {
		return
	}
	brand, err := h.brandService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, brand)
}

// Delete godoc
// @ID           deleteBrand
// @Summary      Delete a brand
// @Tags         catalog
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id path string true "Brand ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /brands/{id} [delete]
func (h *BrandHandler) Delete(c *gin.Context) {
	tenantID, id, ok := h.scoped(c, "brand")
	if !ok {
		return
	}
	if err := h.brandService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

package handler

import (
	"net/http"

	fieldapp "github.com/erp/distribution/internal/application/field"
	"github.com/erp/distribution/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// VisitHandler serves /visits
type VisitHandler struct {
	BaseHandler
	visitService *fieldapp.VisitService
}

// NewVisitHandler creates a new VisitHandler
func NewVisitHandler(visitService *fieldapp.VisitService) *VisitHandler {
	return &VisitHandler{visitService: visitService}
}

// Create godoc
// @ID           createVisit
// @Summary      Create a visit
// @Tags         field
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        request body fieldapp.CreateVisitRequest true "Visit"
// @Success      201 {object} APIResponse[fieldapp.VisitResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /visits [post]
func (h *VisitHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req fieldapp.CreateVisitRequest
	if !h.bindJSON(c, &req) {
		return
	}
	visit, err := h.visitService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, visit)
}

// GetByID godoc
// @ID           getVisitById
// @Summary      Get a visit
// @Tags         field
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id path string true "Visit ID" format(uuid)
// @Success      200 {object} APIResponse[fieldapp.VisitResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /visits/{id} [get]
func (h *VisitHandler) GetByID(c *gin.Context) {
	tenantID, id, ok := h.scoped(c, "visit")
	if !ok {
		return
	}
	visit, err := h.visitService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, visit)
}

// List godoc
// @ID           listVisits
// @Summary      List visits
// @Tags         field
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        page      query int    false "Page number"
// @Param        page_size query int    false "Page size"
// @Param        search    query string false "Search term"
// @Param        agent_id    query string false "Agent ID" format(uuid)
// @Param        customer_id query string false "Customer ID" format(uuid)
// @Param        route_id    query string false "Route ID" format(uuid)
// @Param        status      query string false "Status" Enums(planned, in_progress, completed, cancelled)
// @Param        visit_date  query string false "Visit date" format(date)
// @Success      200 {object} APIResponse[[]fieldapp.VisitResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /visits [get]
func (h *VisitHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter fieldapp.VisitListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	items, total, err := h.visitService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Paged(c, items, total, filter.PageQuery)
}

// CheckIn godoc
// @ID           checkInVisit
// @Summary      Check in to a planned visit
// @Tags         field
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id      path string                  true  "Visit ID" format(uuid)
// @Param        request body fieldapp.CheckInRequest false "GPS position"
// @Success      200 {object} APIResponse[fieldapp.VisitResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /visits/{id}/check-in [post]
func (h *VisitHandler) CheckIn(c *gin.Context) {
	tenantID, id, ok := h.scoped(c, "visit")
	if !ok {
		return
	}
	var req fieldapp.CheckInRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}
	visit, err := h.visitService.CheckIn(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, visit)
}

// CheckOut godoc
// @ID           checkOutVisit
// @Summary      Complete an in-progress visit
// @Tags         field
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id      path string                   true  "Visit ID" format(uuid)
// @Param        request body fieldapp.CheckOutRequest false "Outcome"
// @Success      200 {object} APIResponse[fieldapp.VisitResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /visits/{id}/check-out [post]
func (h *VisitHandler) CheckOut(c *gin.Context) {
	tenantID, id, ok := h.scoped(c, "visit")
	if !ok {
		return
	}
	var req fieldapp.CheckOutRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}
	visit, err := h.visitService.CheckOut(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, visit)
}

// Cancel godoc
// @ID           cancelVisit
// @Summary      Cancel a visit
// @Tags         field
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id path string true "Visit ID" format(uuid)
// @Success      200 {object} APIResponse[fieldapp.VisitResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /visits/{id}/cancel [post]
func (h *VisitHandler) Cancel(c *gin.Context) {
	tenantID, id, ok := h.scoped(c, "visit")
	if !ok {
		return
	}
	visit, err := h.visitService.Cancel(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, visit)
}

// UploadPhoto godoc
// @ID           uploadVisitPhoto
// @Summary      Attach a photo to a visit
// @Description  Accepts JPEG, PNG, WebP or HEIC up to 10MB in the "file" form field.
// @Tags         field
// @Accept       multipart/form-data
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id    path     string true "Visit ID" format(uuid)
// @Param        file  formData file   true "Photo"
// @Success      201 {object} APIResponse[fieldapp.PhotoResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      413 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /visits/{id}/photos [post]
func (h *VisitHandler) UploadPhoto(c *gin.Context) {
	tenantID, id, ok := h.scoped(c, "visit")
	if !ok {
		return
	}
	header, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "file is required")
		return
	}
	if header.Size > fieldapp.MaxPhotoSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, "Photo exceeds the 10MB limit")
		return
	}
	file, err := header.Open()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer file.Close()

	photo, err := h.visitService.UploadPhoto(c.Request.Context(), tenantID, id, fieldapp.PhotoUpload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	}, file)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, photo)
}

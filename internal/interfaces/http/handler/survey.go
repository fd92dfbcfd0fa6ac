package handler

import (
	surveyapp "github.com/erp/distribution/internal/application/survey"
	"github.com/gin-gonic/gin"
)

// SurveyHandler serves /surveys, their responses and analytics
type SurveyHandler struct {
	BaseHandler
	surveyService *surveyapp.SurveyService
}

// NewSurveyHandler creates a new SurveyHandler
func NewSurveyHandler(surveyService *surveyapp.SurveyService) *SurveyHandler {
	return &SurveyHandler{surveyService: surveyService}
}

// Create godoc
// @ID           createSurvey
// @Summary      Create a survey
// @Tags         surveys
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        request body surveyapp.CreateSurveyRequest true "Survey"
// @Success      201 {object} APIResponse[surveyapp.SurveyResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /surveys [post]
func (h *SurveyHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req surveyapp.CreateSurveyRequest
	if !h.bindJSON(c, &req) {
		return
	}
	survey, err := h.surveyService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, survey)
}

// GetByID godoc
// @ID           getSurveyById
// @Summary      Get a survey
// @Tags         surveys
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id path string true "Survey ID" format(uuid)
// @Success      200 {object} APIResponse[surveyapp.SurveyResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /surveys/{id} [get]
func (h *SurveyHandler) GetByID(c *gin.Context) {
	tenantID, id, ok := h.scoped(c, "survey")
	if !ok {
		return
	}
	survey, err := h.surveyService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, survey)
}

// List godoc
// @ID           listSurveys
// @Summary      List surveys
// @Tags         surveys
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        page      query int    false "Page number"
// @Param        page_size query int    false "Page size"
// @Param        search    query string false "Search term"
// @Param        status      query string false "Status" Enums(draft, active, closed)
// @Param        survey_type query string false "Survey type"
// @Success      200 {object} APIResponse[[]surveyapp.SurveyResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /surveys [get]
func (h *SurveyHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter surveyapp.SurveyListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	items, total, err := h.surveyService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Paged(c, items, total, filter.PageQuery)
}

// Update godoc
// @ID           updateSurvey
// @Summary      Update a survey
// @Tags         surveys
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id      path string true "Survey ID" format(uuid)
// @Param        request body surveyapp.UpdateSurveyRequest true "Changes"
// @Success      200 {object} APIResponse[surveyapp.SurveyResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /surveys/{id} [put]
func (h *SurveyHandler) Update(c *gin.Context) {
	tenantID, id, ok := h.scoped(c, "survey")
	if !ok {
		return
	}
	var req surveyapp.UpdateSurveyRequest
	if !h.bindJSON(c, &req) {
		return
	}
	survey, err := h.surveyService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, survey)
}

// Delete godoc
// @ID           deleteSurvey
// @Summary      Delete a survey
// @Tags         surveys
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id path string true "Survey ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /surveys/{id} [delete]
func (h *SurveyHandler) Delete(c *gin.Context) {
	tenantID, id, ok := h.scoped(c, "survey")
	if !ok {
		return
	}
	if err := h.surveyService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Submit godoc
// @ID           submitSurveyResponse
// @Summary      Submit a response to an active survey
// @Tags         surveys
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id      path string                          true "Survey ID" format(uuid)
// @Param        request body surveyapp.SubmitResponseRequest true "Answers keyed by question ID"
// @Success      201 {object} APIResponse[surveyapp.AnswerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /surveys/{id}/responses [post]
func (h *SurveyHandler) Submit(c *gin.Context) {
	tenantID, id, ok := h.scoped(c, "survey")
	if !ok {
		return
	}
	var req surveyapp.SubmitResponseRequest
	if !h.bindJSON(c, &req) {
		return
	}
	answer, err := h.surveyService.Submit(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, answer)
}

// Responses godoc
// @ID           listSurveyResponses
// @Summary      List the responses of a survey
// @Tags         surveys
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id          path  string true  "Survey ID" format(uuid)
// @Param        page        query int    false "Page number"
// @Param        page_size   query int    false "Page size"
// @Param        customer_id query string false "Customer ID" format(uuid)
// @Param        agent_id    query string false "Agent ID" format(uuid)
// @Success      200 {object} APIResponse[[]surveyapp.AnswerResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /surveys/{id}/responses [get]
func (h *SurveyHandler) Responses(c *gin.Context) {
	tenantID, id, ok := h.scoped(c, "survey")
	if !ok {
		return
	}
	var filter surveyapp.ResponseListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	answers, total, err := h.surveyService.Responses(c.Request.Context(), tenantID, id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Paged(c, answers, total, filter.PageQuery)
}

// Analytics godoc
// @ID           getSurveyAnalytics
// @Summary      Aggregate the answers of a survey
// @Tags         surveys
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id path string true "Survey ID" format(uuid)
// @Success      200 {object} APIResponse[surveyapp.AnalyticsResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /surveys/{id}/analytics [get]
func (h *SurveyHandler) Analytics(c *gin.Context) {
	tenantID, id, ok := h.scoped(c, "survey")
	if !ok {
		return
	}
	analytics, err := h.surveyService.Analytics(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, analytics)
}

package handler

import (
	financeapp "github.com/erp/distribution/internal/application/finance"
	"github.com/gin-gonic/gin"
)

// CashSessionHandler serves /cash-sessions and /bank-deposits
type CashSessionHandler struct {
	BaseHandler
	sessionService *financeapp.CashSessionService
}

// NewCashSessionHandler creates a new CashSessionHandler
func NewCashSessionHandler(sessionService *financeapp.CashSessionService) *CashSessionHandler {
	return &CashSessionHandler{sessionService: sessionService}
}

// Open godoc
// @ID           openCashSession
// @Summary      Open a cash session for an agent
// @Description  An agent may hold only one open or pending_approval session.
// @Tags         cash-sessions
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        request body financeapp.OpenCashSessionRequest true "Session"
// @Success      201 {object} APIResponse[financeapp.CashSessionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cash-sessions [post]
func (h *CashSessionHandler) Open(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req financeapp.OpenCashSessionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	session, err := h.sessionService.Open(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, session)
}

// GetByID godoc
// @ID           getCashSessionById
// @Summary      Get a cash session
// @Tags         cash-sessions
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id path string true "Cash session ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.CashSessionResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cash-sessions/{id} [get]
func (h *CashSessionHandler) GetByID(c *gin.Context) {
	tenantID, id, ok := h.scoped(c, "cash session")
	if !ok {
		return
	}
	session, err := h.sessionService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, session)
}

// List godoc
// @ID           listCashSessions
// @Summary      List cash sessions
// @Tags         cash-sessions
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        page         query int    false "Page number"
// @Param        page_size    query int    false "Page size"
// @Param        status       query string false "Status" Enums(open, pending_approval, closed, deposited)
// @Param        agent_id     query string false "Agent ID" format(uuid)
// @Param        session_date query string false "Session date" format(date)
// @Success      200 {object} APIResponse[[]financeapp.CashSessionResponse]
// @Security     BearerAuth
// @Router       /cash-sessions [get]
func (h *CashSessionHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter financeapp.CashSessionListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	sessions, total, err := h.sessionService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Paged(c, sessions, total, filter.PageQuery)
}

// RecordCollection godoc
// @ID           recordCashCollection
// @Summary      Record a collection in an open session
// @Description  Only cash collections raise expected cash.
// @Tags         cash-sessions
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id      path string                             true "Cash session ID" format(uuid)
// @Param        request body financeapp.RecordCollectionRequest true "Collection"
// @Success      201 {object} APIResponse[financeapp.CollectionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cash-sessions/{id}/collections [post]
func (h *CashSessionHandler) RecordCollection(c *gin.Context) {
	tenantID, id, ok := h.scoped(c, "cash session")
	if !ok {
		return
	}
	var req financeapp.RecordCollectionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	collection, err := h.sessionService.RecordCollection(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, collection)
}

// Collections godoc
// @ID           listCashCollections
// @Summary      List the collections of a session
// @Tags         cash-sessions
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id path string true "Cash session ID" format(uuid)
// @Success      200 {object} APIResponse[[]financeapp.CollectionResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cash-sessions/{id}/collections [get]
func (h *CashSessionHandler) Collections(c *gin.Context) {
	tenantID, id, ok := h.scoped(c, "cash session")
	if !ok {
		return
	}
	collections, err := h.sessionService.Collections(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, collections)
}

// Close godoc
// @ID           closeCashSession
// @Summary      Close a session with the counted cash
// @Description  A variance above the threshold moves the session to pending_approval and opens an approval request.
// @Tags         cash-sessions
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id      path string                             true "Cash session ID" format(uuid)
// @Param        request body financeapp.CloseCashSessionRequest true "Count"
// @Success      200 {object} APIResponse[financeapp.CashSessionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cash-sessions/{id}/close [post]
func (h *CashSessionHandler) Close(c *gin.Context) {
	tenantID, id, ok := h.scoped(c, "cash session")
	if !ok {
		return
	}
	var req financeapp.CloseCashSessionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.ClosedBy = h.actorOr(c, "")
	session, err := h.sessionService.Close(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, session)
}

// Approve godoc
// @ID           approveCashSession
// @Summary      Approve the variance of a pending session
// @Tags         cash-sessions
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id      path string                               true  "Cash session ID" format(uuid)
// @Param        request body financeapp.ApproveCashSessionRequest false "Approval"
// @Success      200 {object} APIResponse[financeapp.CashSessionResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cash-sessions/{id}/approve [post]
func (h *CashSessionHandler) Approve(c *gin.Context) {
	tenantID, id, ok := h.scoped(c, "cash session")
	if !ok {
		return
	}
	var req financeapp.ApproveCashSessionRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}
	req.ApprovedBy = h.actorOr(c, req.ApprovedBy)
	session, err := h.sessionService.Approve(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, session)
}

// Reject godoc
// @ID           rejectCashSession
// @Summary      Send a pending session back to open for a recount
// @Tags         cash-sessions
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id      path string                              true  "Cash session ID" format(uuid)
// @Param        request body financeapp.RejectCashSessionRequest false "Decision notes"
// @Success      200 {object} APIResponse[financeapp.CashSessionResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cash-sessions/{id}/reject [post]
func (h *CashSessionHandler) Reject(c *gin.Context) {
	tenantID, id, ok := h.scoped(c, "cash session")
	if !ok {
		return
	}
	var req financeapp.RejectCashSessionRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}
	req.RejectedBy = h.actorOr(c, "")
	session, err := h.sessionService.Reject(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, session)
}

// Deposit godoc
// @ID           createBankDeposit
// @Summary      Deposit closed sessions at a bank
// @Description  Every session must be closed; a supplied amount must equal the sum of their actual cash.
// @Tags         bank-deposits
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        request body financeapp.CreateDepositRequest true "Deposit"
// @Success      201 {object} APIResponse[financeapp.DepositResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /bank-deposits [post]
func (h *CashSessionHandler) Deposit(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req financeapp.CreateDepositRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.DepositedBy = h.actorOr(c, "")
	deposit, err := h.sessionService.Deposit(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, deposit)
}

// GetDeposit godoc
// @ID           getBankDepositById
// @Summary      Get a bank deposit with its session IDs
// @Tags         bank-deposits
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id path string true "Deposit ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.DepositResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /bank-deposits/{id} [get]
func (h *CashSessionHandler) GetDeposit(c *gin.Context) {
	tenantID, id, ok := h.scoped(c, "deposit")
	if !ok {
		return
	}
	deposit, err := h.sessionService.GetDeposit(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, deposit)
}

// ListDeposits godoc
// @ID           listBankDeposits
// @Summary      List bank deposits
// @Tags         bank-deposits
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        page              query int    false "Page number"
// @Param        page_size         query int    false "Page size"
// @Param        bank_name         query string false "Bank name"
// @Param        deposit_reference query string false "Deposit reference"
// @Success      200 {object} APIResponse[[]financeapp.DepositResponse]
// @Security     BearerAuth
// @Router       /bank-deposits [get]
func (h *CashSessionHandler) ListDeposits(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter financeapp.DepositListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	deposits, total, err := h.sessionService.ListDeposits(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Paged(c, deposits, total, filter.PageQuery)
}

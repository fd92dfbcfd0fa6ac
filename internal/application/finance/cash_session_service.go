// Package finance contains the cash reconciliation, invoicing and payment use cases.
package finance

import (
	"context"
	"errors"
	"fmt"
	"time"

	approvalapp "github.com/erp/distribution/internal/application/approval"
	appshared "github.com/erp/distribution/internal/application/shared"
	"github.com/erp/distribution/internal/domain/approval"
	"github.com/erp/distribution/internal/domain/field"
	"github.com/erp/distribution/internal/domain/finance"
	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CashSessionServiceDeps holds the collaborators of CashSessionService
type CashSessionServiceDeps struct {
	Sessions    finance.CashSessionRepository
	Collections finance.CashCollectionRepository
	Deposits    finance.BankDepositRepository
	Agents      field.AgentRepository
	TxScope     TransactionScope
	Metrics     appshared.BusinessMetrics
	Logger      *zap.Logger
	// VarianceThreshold is the largest absolute variance percentage closed
	// without approval; zero means finance.DefaultVarianceThreshold
	VarianceThreshold decimal.Decimal
}

// CashSessionService runs the agent cash session state machine
type CashSessionService struct {
	sessions    finance.CashSessionRepository
	collections finance.CashCollectionRepository
	deposits    finance.BankDepositRepository
	agents      field.AgentRepository
	txScope     TransactionScope
	metrics     appshared.BusinessMetrics
	publisher   shared.EventPublisher
	log         *zap.Logger
	threshold   decimal.Decimal
	now         func() time.Time
}

// NewCashSessionService creates a new CashSessionService
func NewCashSessionService(deps CashSessionServiceDeps) *CashSessionService {
	s := &CashSessionService{
		sessions:    deps.Sessions,
		collections: deps.Collections,
		deposits:    deps.Deposits,
		agents:      deps.Agents,
		txScope:     deps.TxScope,
		metrics:     deps.Metrics,
		log:         deps.Logger,
		threshold:   deps.VarianceThreshold,
		now:         time.Now,
	}
	if s.metrics == nil {
		s.metrics = appshared.NopMetrics{}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if !s.threshold.IsPositive() {
		s.threshold = finance.DefaultVarianceThreshold
	}
	return s
}

// SetEventPublisher sets the publisher for cash session events
func (s *CashSessionService) SetEventPublisher(p shared.EventPublisher) {
	s.publisher = p
}

// Open starts a session for an agent without another active session
func (s *CashSessionService) Open(ctx context.Context, tenantID uuid.UUID, req OpenCashSessionRequest) (*CashSessionResponse, error) {
	if _, err := s.agents.FindByIDForTenant(ctx, tenantID, req.AgentID); err != nil {
		return nil, missingReference(err, "agent")
	}
	active, err := s.sessions.ExistsActiveForAgent(ctx, tenantID, req.AgentID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Agent already has an open cash session")
	}

	var day time.Time
	if req.SessionDate != nil {
		day = *req.SessionDate
	} else {
		day = s.now()
	}
	balance := decimal.Zero
	if req.StartingBalance != nil {
		balance = *req.StartingBalance
	}
	session, err := finance.NewCashSession(tenantID, req.AgentID, day, balance, req.Notes)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Agent already has an open cash session")
		}
		return nil, err
	}
	s.publish(ctx, session)
	response := ToCashSessionResponse(session)
	return &response, nil
}

// GetByID retrieves a session
func (s *CashSessionService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*CashSessionResponse, error) {
	session, err := s.sessions.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToCashSessionResponse(session)
	return &response, nil
}

// List returns a page of sessions
func (s *CashSessionService) List(ctx context.Context, tenantID uuid.UUID, filter CashSessionListFilter) ([]CashSessionResponse, int64, error) {
	f := filter.Filter().With("status", filter.Status).With("agent_id", filter.AgentID)
	if filter.SessionDate != nil {
		f = f.With("session_date", shared.DateOf(*filter.SessionDate))
	}
	list, err := s.sessions.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.sessions.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	return appshared.MapSlice(list, ToCashSessionResponse), total, nil
}

// RecordCollection books money collected during an open session
func (s *CashSessionService) RecordCollection(ctx context.Context, tenantID, sessionID uuid.UUID, req RecordCollectionRequest) (*CollectionResponse, error) {
	var collection *finance.CashCollection
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		session, err := repos.CashSessionRepo().FindByIDForUpdate(ctx, tenantID, sessionID)
		if err != nil {
			return err
		}
		collection, err = collect(ctx, repos, session, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	response := ToCollectionResponse(collection)
	return &response, nil
}

// collect inserts a collection and raises expected cash. The session must
// have been loaded with FindByIDForUpdate; the write is still guarded on the
// open status and the loaded version.
func collect(ctx context.Context, repos TransactionalRepositories, session *finance.CashSession, req RecordCollectionRequest) (*finance.CashCollection, error) {
	loaded := session.Version
	c, err := finance.NewCashCollection(session, req.Amount, finance.CollectionMethod(req.PaymentMethod), req.Reference)
	if err != nil {
		return nil, err
	}
	c.LinkTo(req.CustomerID, req.OrderID, req.InvoiceID)
	if err := session.RecordCollection(c); err != nil {
		return nil, err
	}
	if err := repos.CashSessionRepo().TransitionStatus(ctx, session, finance.CashSessionOpen, loaded); err != nil {
		return nil, err
	}
	if err := repos.CollectionRepo().Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Collections lists the collections of a session
func (s *CashSessionService) Collections(ctx context.Context, tenantID, sessionID uuid.UUID) ([]CollectionResponse, error) {
	if _, err := s.sessions.FindByIDForTenant(ctx, tenantID, sessionID); err != nil {
		return nil, err
	}
	list, err := s.collections.FindBySession(ctx, tenantID, sessionID)
	if err != nil {
		return nil, err
	}
	return appshared.MapSlice(list, ToCollectionResponse), nil
}

// Close counts the cash. A variance beyond the threshold parks the session
// in pending_approval and files an approval request in the same transaction.
func (s *CashSessionService) Close(ctx context.Context, tenantID, id uuid.UUID, req CloseCashSessionRequest) (*CashSessionResponse, error) {
	var (
		session   *finance.CashSession
		result    finance.CloseResult
		requestID *uuid.UUID
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		session, err = repos.CashSessionRepo().FindByIDForUpdate(ctx, tenantID, id)
		if err != nil {
			return err
		}
		loaded := session.Version
		result, err = session.Close(req.ActualCash, req.Notes, s.threshold, s.now())
		if err != nil {
			return err
		}
		if err := repos.CashSessionRepo().TransitionStatus(ctx, session, finance.CashSessionOpen, loaded); err != nil {
			return err
		}
		if !result.RequiresApproval {
			return nil
		}
		et, err := repos.EntityTypeRepo().FindByCode(ctx, approval.EntityCashSession)
		if err != nil {
			return fmt.Errorf("load cash_session approval type: %w", err)
		}
		reason := fmt.Sprintf("Cash variance of %s (%s%%)", result.Variance.StringFixed(2), result.VariancePercentage.StringFixed(2))
		r, err := approval.NewRequest(tenantID, et, session.ID, req.ClosedBy, reason, result.Variance)
		if err != nil {
			return err
		}
		if err := repos.ApprovalRepo().Create(ctx, r); err != nil {
			return err
		}
		requestID = &r.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.CashSessionClosed(ctx, result.RequiresApproval)
	s.log.Info("cash session closed",
		zap.String("session_id", session.ID.String()),
		zap.String("status", string(session.Status)),
		zap.String("variance", result.Variance.StringFixed(2)),
		zap.String("variance_percentage", result.VariancePercentage.StringFixed(2)))
	s.publish(ctx, session)

	response := ToCashSessionResponse(session)
	response.ApprovalRequestID = requestID
	return &response, nil
}

// Approve accepts the variance of a pending session and settles its approval request
func (s *CashSessionService) Approve(ctx context.Context, tenantID, id uuid.UUID, req ApproveCashSessionRequest) (*CashSessionResponse, error) {
	d := approvalapp.Decision{Approve: true, By: req.ApprovedBy, Notes: req.ApprovalNotes, At: s.now()}
	return s.decide(ctx, tenantID, id, d)
}

// Reject sends a pending session back to open for a recount
func (s *CashSessionService) Reject(ctx context.Context, tenantID, id uuid.UUID, req RejectCashSessionRequest) (*CashSessionResponse, error) {
	d := approvalapp.Decision{Approve: false, By: req.RejectedBy, Notes: req.DecisionNotes, At: s.now()}
	return s.decide(ctx, tenantID, id, d)
}

func (s *CashSessionService) decide(ctx context.Context, tenantID, id uuid.UUID, d approvalapp.Decision) (*CashSessionResponse, error) {
	var session *finance.CashSession
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		session, err = applyCashSessionDecision(ctx, repos.CashSessionRepo(), tenantID, id, d)
		if err != nil {
			return err
		}
		r, err := repos.ApprovalRepo().FindPendingForEntity(ctx, tenantID, approval.EntityCashSession, id)
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := r.Decide(d.Approve, d.By, d.Notes, d.At); err != nil {
			return err
		}
		return repos.ApprovalRepo().TransitionStatus(ctx, r, approval.StatusPending)
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, session)
	response := ToCashSessionResponse(session)
	return &response, nil
}

// CashSessionDecisionHook drives the session of a cash_session approval
// request: approve closes it, reject reopens it.
func CashSessionDecisionHook() approvalapp.DecisionHook {
	return func(ctx context.Context, repos approvalapp.TransactionalRepositories, r *approval.Request, d approvalapp.Decision) error {
		_, err := applyCashSessionDecision(ctx, repos.CashSessionRepo(), r.TenantID, r.EntityID, d)
		return err
	}
}

func applyCashSessionDecision(ctx context.Context, sessions finance.CashSessionRepository, tenantID, id uuid.UUID, d approvalapp.Decision) (*finance.CashSession, error) {
	session, err := sessions.FindByIDForUpdate(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	loaded := session.Version
	if d.Approve {
		err = session.Approve(d.By, d.Notes, d.At)
	} else {
		err = session.Reject(d.Notes)
	}
	if err != nil {
		return nil, err
	}
	if err := sessions.TransitionStatus(ctx, session, finance.CashSessionPendingApproval, loaded); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *CashSessionService) publish(ctx context.Context, session *finance.CashSession) {
	events := session.GetDomainEvents()
	session.ClearDomainEvents()
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.log.Warn("publish cash session events failed", zap.String("session_id", session.ID.String()), zap.Error(err))
	}
}

func missingReference(err error, what string) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewValidationError("%s does not exist", what)
	}
	return err
}

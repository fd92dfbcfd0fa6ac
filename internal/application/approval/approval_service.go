// Package approval contains the generic approval workflow use cases.
package approval

import (
	"context"
	"errors"
	"sync"
	"time"

	appshared "github.com/erp/distribution/internal/application/shared"
	"github.com/erp/distribution/internal/domain/approval"
	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Decision is the outcome applied to a pending request
type Decision struct {
	Approve bool
	By      string
	Notes   string
	At      time.Time
}

// DecisionHook applies a decision to the entity behind a request. It runs
// inside the decision transaction; an error rolls the decision back.
type DecisionHook func(ctx context.Context, repos TransactionalRepositories, r *approval.Request, d Decision) error

// ApprovalService creates and decides approval requests
type ApprovalService struct {
	entityTypes approval.EntityTypeRepository
	requests    approval.RequestRepository
	txScope     TransactionScope
	log         *zap.Logger
	now         func() time.Time

	mu    sync.RWMutex
	hooks map[string]DecisionHook
}

// NewApprovalService creates a new ApprovalService
func NewApprovalService(
	entityTypes approval.EntityTypeRepository,
	requests approval.RequestRepository,
	txScope TransactionScope,
	log *zap.Logger,
) *ApprovalService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ApprovalService{
		entityTypes: entityTypes,
		requests:    requests,
		txScope:     txScope,
		log:         log,
		now:         time.Now,
		hooks:       make(map[string]DecisionHook),
	}
}

// RegisterHook installs the decision hook of an entity type code
func (s *ApprovalService) RegisterHook(entityType string, hook DecisionHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks[entityType] = hook
}

func (s *ApprovalService) hook(entityType string) DecisionHook {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hooks[entityType]
}

// EntityTypes lists the approvable entity types
func (s *ApprovalService) EntityTypes(ctx context.Context) ([]EntityTypeResponse, error) {
	types, err := s.entityTypes.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return appshared.MapSlice(types, func(t *approval.EntityType) EntityTypeResponse {
		return EntityTypeResponse{ID: t.ID, Code: t.Code, TableName: t.EntityTable, Description: t.Description}
	}), nil
}

// Create opens a pending request for an entity
func (s *ApprovalService) Create(ctx context.Context, tenantID uuid.UUID, req CreateApprovalRequest) (*ApprovalResponse, error) {
	et, err := s.entityTypes.FindByCode(ctx, req.EntityType)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewValidationError("unknown entity_type %q", req.EntityType)
		}
		return nil, err
	}
	r, err := approval.NewRequest(tenantID, et, req.EntityID, req.RequestedBy, req.Reason, req.Amount)
	if err != nil {
		return nil, err
	}
	if err := s.requests.Create(ctx, r); err != nil {
		return nil, err
	}
	response := ToApprovalResponse(r)
	return &response, nil
}

// GetByID retrieves a request
func (s *ApprovalService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ApprovalResponse, error) {
	r, err := s.requests.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToApprovalResponse(r)
	return &response, nil
}

// List returns a page of requests
func (s *ApprovalService) List(ctx context.Context, tenantID uuid.UUID, filter ApprovalListFilter) ([]ApprovalResponse, int64, error) {
	f := filter.Filter().
		With("status", filter.Status).
		With("entity_type", filter.EntityType).
		With("entity_id", filter.EntityID)
	list, err := s.requests.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.requests.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	return appshared.MapSlice(list, ToApprovalResponse), total, nil
}

// Approve moves a pending request to approved and runs its hook
func (s *ApprovalService) Approve(ctx context.Context, tenantID, id uuid.UUID, req DecideRequest) (*ApprovalResponse, error) {
	return s.decide(ctx, tenantID, id, Decision{Approve: true, By: req.DecidedBy, Notes: req.Notes})
}

// Reject moves a pending request to rejected and runs its hook
func (s *ApprovalService) Reject(ctx context.Context, tenantID, id uuid.UUID, req DecideRequest) (*ApprovalResponse, error) {
	return s.decide(ctx, tenantID, id, Decision{Approve: false, By: req.DecidedBy, Notes: req.Notes})
}

func (s *ApprovalService) decide(ctx context.Context, tenantID, id uuid.UUID, d Decision) (*ApprovalResponse, error) {
	d.At = s.now()
	var r *approval.Request
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		r, err = repos.ApprovalRepo().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if err := r.Decide(d.Approve, d.By, d.Notes, d.At); err != nil {
			return err
		}
		if err := repos.ApprovalRepo().TransitionStatus(ctx, r, approval.StatusPending); err != nil {
			return err
		}
		if hook := s.hook(r.EntityCode()); hook != nil {
			return hook(ctx, repos, r, d)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("approval decided",
		zap.String("approval_id", r.ID.String()),
		zap.String("entity_type", r.EntityCode()),
		zap.String("status", string(r.Status)))
	response := ToApprovalResponse(r)
	return &response, nil
}

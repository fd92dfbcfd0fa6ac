package approval

import (
	"context"
	"errors"
	"testing"

	"github.com/erp/distribution/internal/domain/approval"
	"github.com/erp/distribution/internal/domain/finance"
	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockEntityTypeRepository struct {
	mock.Mock
}

func (m *MockEntityTypeRepository) FindAll(ctx context.Context) ([]approval.EntityType, error) {
	args := m.Called(ctx)
	return args.Get(0).([]approval.EntityType), args.Error(1)
}

func (m *MockEntityTypeRepository) FindByCode(ctx context.Context, code string) (*approval.EntityType, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*approval.EntityType), args.Error(1)
}

type MockRequestRepository struct {
	mock.Mock
}

func (m *MockRequestRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*approval.Request, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*approval.Request), args.Error(1)
}

func (m *MockRequestRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]approval.Request, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]approval.Request), args.Error(1)
}

func (m *MockRequestRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRequestRepository) FindPendingForEntity(ctx context.Context, tenantID uuid.UUID, code string, entityID uuid.UUID) (*approval.Request, error) {
	args := m.Called(ctx, tenantID, code, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*approval.Request), args.Error(1)
}

func (m *MockRequestRepository) Create(ctx context.Context, r *approval.Request) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRequestRepository) TransitionStatus(ctx context.Context, r *approval.Request, from approval.Status) error {
	return m.Called(ctx, r, from).Error(0)
}

// mockScope runs the callback on the mocks without a database
type mockScope struct {
	requests    *MockRequestRepository
	entityTypes *MockEntityTypeRepository
}

func (s mockScope) Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s mockScope) ApprovalRepo() approval.RequestRepository       { return s.requests }
func (s mockScope) EntityTypeRepo() approval.EntityTypeRepository  { return s.entityTypes }
func (s mockScope) CashSessionRepo() finance.CashSessionRepository { return nil }

func newTestService() (*ApprovalService, *MockRequestRepository, *MockEntityTypeRepository) {
	requests := new(MockRequestRepository)
	entityTypes := new(MockEntityTypeRepository)
	svc := NewApprovalService(entityTypes, requests, mockScope{requests, entityTypes}, nil)
	return svc, requests, entityTypes
}

var orderType = &approval.EntityType{ID: uuid.New(), Code: approval.EntityOrder, EntityTable: "orders"}

func pendingRequest(tenantID uuid.UUID) *approval.Request {
	r, _ := approval.NewRequest(tenantID, orderType, uuid.New(), "agent-7", "discount above limit", decimal.NewFromInt(250))
	return r
}

func TestApprovalService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("known entity type", func(t *testing.T) {
		svc, requests, entityTypes := newTestService()
		entityTypes.On("FindByCode", ctx, approval.EntityOrder).Return(orderType, nil)
		requests.On("Create", ctx, mock.AnythingOfType("*approval.Request")).Return(nil)

		entityID := uuid.New()
		r, err := svc.Create(ctx, tenantID, CreateApprovalRequest{
			EntityType: approval.EntityOrder,
			EntityID:   entityID,
			Reason:     "  discount above limit ",
			Amount:     decimal.RequireFromString("12.345"),
		})
		require.NoError(t, err)
		assert.Equal(t, "pending", r.Status)
		assert.Equal(t, approval.EntityOrder, r.EntityType)
		assert.Equal(t, entityID, r.EntityID)
		assert.Equal(t, "discount above limit", r.Reason)
		assert.Equal(t, "12.35", r.Amount.StringFixed(2))
		requests.AssertExpectations(t)
	})

	t.Run("unknown entity type", func(t *testing.T) {
		svc, requests, entityTypes := newTestService()
		entityTypes.On("FindByCode", ctx, "vehicle").Return(nil, shared.ErrNotFound)

		_, err := svc.Create(ctx, tenantID, CreateApprovalRequest{EntityType: "vehicle", EntityID: uuid.New()})
		assert.ErrorIs(t, err, shared.ErrValidation)
		requests.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestApprovalService_DecideRunsHook(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc, requests, _ := newTestService()
	r := pendingRequest(tenantID)
	requests.On("FindByIDForTenant", ctx, tenantID, r.ID).Return(r, nil)
	requests.On("TransitionStatus", ctx, r, approval.StatusPending).Return(nil)

	var got Decision
	var calls int
	svc.RegisterHook(approval.EntityOrder, func(ctx context.Context, repos TransactionalRepositories, req *approval.Request, d Decision) error {
		calls++
		got = d
		assert.Equal(t, approval.StatusApproved, req.Status)
		return nil
	})

	resp, err := svc.Approve(ctx, tenantID, r.ID, DecideRequest{DecidedBy: "manager", Notes: "ok"})
	require.NoError(t, err)
	assert.Equal(t, "approved", resp.Status)
	assert.Equal(t, "manager", resp.DecidedBy)
	assert.Equal(t, 1, calls)
	assert.True(t, got.Approve)
	assert.Equal(t, "ok", got.Notes)
	assert.False(t, got.At.IsZero())

	_, err = svc.Reject(ctx, tenantID, r.ID, DecideRequest{})
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	assert.Equal(t, 1, calls)
}

func TestApprovalService_HookFailureAborts(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc, requests, _ := newTestService()
	r := pendingRequest(tenantID)
	requests.On("FindByIDForTenant", ctx, tenantID, r.ID).Return(r, nil)
	requests.On("TransitionStatus", ctx, r, approval.StatusPending).Return(nil)

	boom := errors.New("entity is gone")
	svc.RegisterHook(approval.EntityOrder, func(context.Context, TransactionalRepositories, *approval.Request, Decision) error {
		return boom
	})

	_, err := svc.Reject(ctx, tenantID, r.ID, DecideRequest{DecidedBy: "manager"})
	assert.ErrorIs(t, err, boom)
}

func TestApprovalService_DecideWithoutHook(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc, requests, _ := newTestService()
	r := pendingRequest(tenantID)
	requests.On("FindByIDForTenant", ctx, tenantID, r.ID).Return(r, nil)
	requests.On("TransitionStatus", ctx, r, approval.StatusPending).Return(nil)

	resp, err := svc.Reject(ctx, tenantID, r.ID, DecideRequest{DecidedBy: "manager", Notes: "no"})
	require.NoError(t, err)
	assert.Equal(t, "rejected", resp.Status)
	assert.Equal(t, "no", resp.DecisionNotes)
}

func TestApprovalService_ListFiltersByEntityType(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc, requests, _ := newTestService()
	matchesType := mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["entity_type"] == approval.EntityCashSession && f.Filters["status"] == "pending"
	})
	requests.On("FindAllForTenant", ctx, tenantID, matchesType).Return([]approval.Request{*pendingRequest(tenantID)}, nil)
	requests.On("CountForTenant", ctx, tenantID, matchesType).Return(int64(1), nil)

	list, total, err := svc.List(ctx, tenantID, ApprovalListFilter{Status: "pending", EntityType: approval.EntityCashSession})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, list, 1)
}

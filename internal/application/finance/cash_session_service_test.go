package finance

import (
	"context"
	"errors"
	"testing"
	"time"

	approvalapp "github.com/erp/distribution/internal/application/approval"
	"github.com/erp/distribution/internal/domain/approval"
	"github.com/erp/distribution/internal/domain/finance"
	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cashFixture struct {
	ctx      context.Context
	tenantID uuid.UUID
	agentID  uuid.UUID
	l        *ledger
	svc      *CashSessionService
}

func newCashFixture(t *testing.T) *cashFixture {
	t.Helper()
	l := newLedger()
	svc := NewCashSessionService(CashSessionServiceDeps{
		Sessions:    l.CashSessionRepo(),
		Collections: l.CollectionRepo(),
		Deposits:    l.DepositRepo(),
		Agents:      anyAgent{},
		TxScope:     financeScope{l},
	})
	svc.now = func() time.Time { return time.Date(2026, 3, 14, 17, 0, 0, 0, time.UTC) }
	return &cashFixture{
		ctx:      context.Background(),
		tenantID: uuid.New(),
		agentID:  uuid.New(),
		l:        l,
		svc:      svc,
	}
}

// openWithCash opens a session for a fresh agent and collects amount in cash
func (f *cashFixture) openWithCash(t *testing.T, amount string) *CashSessionResponse {
	t.Helper()
	s, err := f.svc.Open(f.ctx, f.tenantID, OpenCashSessionRequest{AgentID: uuid.New()})
	require.NoError(t, err)
	_, err = f.svc.RecordCollection(f.ctx, f.tenantID, s.ID, RecordCollectionRequest{
		Amount: decimal.RequireFromString(amount),
	})
	require.NoError(t, err)
	return s
}

func (f *cashFixture) close(t *testing.T, id uuid.UUID, actual string) *CashSessionResponse {
	t.Helper()
	s, err := f.svc.Close(f.ctx, f.tenantID, id, CloseCashSessionRequest{
		ActualCash: decimal.RequireFromString(actual),
		ClosedBy:   "supervisor",
	})
	require.NoError(t, err)
	return s
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var de *shared.DomainError
	require.True(t, errors.As(err, &de), "expected a domain error, got %v", err)
	assert.Equal(t, code, de.Code)
}

func TestCashSessionService_Open(t *testing.T) {
	f := newCashFixture(t)
	balance := decimal.NewFromInt(200)

	s, err := f.svc.Open(f.ctx, f.tenantID, OpenCashSessionRequest{AgentID: f.agentID, StartingBalance: &balance})
	require.NoError(t, err)
	assert.Equal(t, "open", s.Status)
	assert.True(t, s.ExpectedCash.Equal(balance))
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), s.SessionDate)

	t.Run("second active session for the agent", func(t *testing.T) {
		_, err := f.svc.Open(f.ctx, f.tenantID, OpenCashSessionRequest{AgentID: f.agentID})
		assertCode(t, err, "ALREADY_EXISTS")
	})

	t.Run("negative starting balance", func(t *testing.T) {
		neg := decimal.NewFromInt(-1)
		_, err := f.svc.Open(f.ctx, f.tenantID, OpenCashSessionRequest{AgentID: uuid.New(), StartingBalance: &neg})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestCashSessionService_RecordCollection(t *testing.T) {
	f := newCashFixture(t)
	s := f.openWithCash(t, "300")

	_, err := f.svc.RecordCollection(f.ctx, f.tenantID, s.ID, RecordCollectionRequest{
		Amount:        decimal.NewFromInt(50),
		PaymentMethod: "mobile_money",
	})
	require.NoError(t, err)

	got, err := f.svc.GetByID(f.ctx, f.tenantID, s.ID)
	require.NoError(t, err)
	assert.True(t, got.ExpectedCash.Equal(decimal.NewFromInt(300)), "mobile money does not raise expected cash")

	collections, err := f.svc.Collections(f.ctx, f.tenantID, s.ID)
	require.NoError(t, err)
	assert.Len(t, collections, 2)

	t.Run("non-positive amount", func(t *testing.T) {
		_, err := f.svc.RecordCollection(f.ctx, f.tenantID, s.ID, RecordCollectionRequest{Amount: decimal.Zero})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("closed session", func(t *testing.T) {
		f.close(t, s.ID, "300")
		_, err := f.svc.RecordCollection(f.ctx, f.tenantID, s.ID, RecordCollectionRequest{Amount: decimal.NewFromInt(5)})
		assertCode(t, err, "INVALID_STATE")
	})
}

func TestCashSessionService_StaleCollectionIsRejected(t *testing.T) {
	f := newCashFixture(t)
	s := f.openWithCash(t, "100")

	first, err := f.l.CashSessionRepo().FindByIDForTenant(f.ctx, f.tenantID, s.ID)
	require.NoError(t, err)
	second, err := f.l.CashSessionRepo().FindByIDForTenant(f.ctx, f.tenantID, s.ID)
	require.NoError(t, err)

	_, err = collect(f.ctx, f.l, first, RecordCollectionRequest{Amount: decimal.NewFromInt(50)})
	require.NoError(t, err)
	_, err = collect(f.ctx, f.l, second, RecordCollectionRequest{Amount: decimal.NewFromInt(30)})
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

	got, err := f.svc.GetByID(f.ctx, f.tenantID, s.ID)
	require.NoError(t, err)
	assert.True(t, got.ExpectedCash.Equal(decimal.NewFromInt(150)), "got %s", got.ExpectedCash)

	collections, err := f.svc.Collections(f.ctx, f.tenantID, s.ID)
	require.NoError(t, err)
	assert.Len(t, collections, 2)
}

func TestCashSessionService_CloseWithinThreshold(t *testing.T) {
	f := newCashFixture(t)
	s := f.openWithCash(t, "1000")

	closed := f.close(t, s.ID, "995")

	assert.Equal(t, "closed", closed.Status)
	assert.Nil(t, closed.ApprovalRequestID)
	assert.True(t, closed.Variance.Decimal.Equal(decimal.NewFromInt(-5)))
	assert.Equal(t, "-0.50", closed.VariancePercentage.Decimal.StringFixed(2))
	assert.Empty(t, f.l.requests)

	_, err := f.svc.Close(f.ctx, f.tenantID, s.ID, CloseCashSessionRequest{ActualCash: decimal.NewFromInt(995)})
	assertCode(t, err, "INVALID_STATE")
}

func TestCashSessionService_CloseBeyondThresholdAndApprove(t *testing.T) {
	f := newCashFixture(t)
	s := f.openWithCash(t, "1000")

	pending := f.close(t, s.ID, "950")

	assert.Equal(t, "pending_approval", pending.Status)
	require.NotNil(t, pending.ApprovalRequestID)
	r := f.l.requests[*pending.ApprovalRequestID]
	assert.Equal(t, approval.StatusPending, r.Status)
	assert.Equal(t, s.ID, r.EntityID)
	assert.Equal(t, approval.EntityCashSession, r.EntityCode())
	assert.True(t, r.Amount.Equal(decimal.NewFromInt(-50)))
	assert.Equal(t, "Cash variance of -50.00 (-5.00%)", r.Reason)
	assert.Equal(t, "supervisor", r.RequestedBy)

	_, err := f.svc.Deposit(f.ctx, f.tenantID, CreateDepositRequest{SessionIDs: []uuid.UUID{s.ID}, BankName: "Bank"})
	assertCode(t, err, "INVALID_STATE")

	approved, err := f.svc.Approve(f.ctx, f.tenantID, s.ID, ApproveCashSessionRequest{ApprovedBy: "manager", ApprovalNotes: "counted twice"})
	require.NoError(t, err)
	assert.Equal(t, "closed", approved.Status)
	assert.Equal(t, "manager", approved.ApprovedBy)
	assert.NotNil(t, approved.ApprovedAt)
	assert.Equal(t, approval.StatusApproved, f.l.requests[r.ID].Status)

	_, err = f.svc.Approve(f.ctx, f.tenantID, s.ID, ApproveCashSessionRequest{})
	assertCode(t, err, "INVALID_STATE")
}

func TestCashSessionService_RejectReopens(t *testing.T) {
	f := newCashFixture(t)
	s := f.openWithCash(t, "500")
	pending := f.close(t, s.ID, "400")
	require.Equal(t, "pending_approval", pending.Status)

	reopened, err := f.svc.Reject(f.ctx, f.tenantID, s.ID, RejectCashSessionRequest{RejectedBy: "manager", DecisionNotes: "recount"})
	require.NoError(t, err)
	assert.Equal(t, "open", reopened.Status)
	assert.False(t, reopened.ActualCash.Valid)
	assert.Equal(t, approval.StatusRejected, f.l.requests[*pending.ApprovalRequestID].Status)

	closed := f.close(t, s.ID, "500")
	assert.Equal(t, "closed", closed.Status)
}

func TestCashSessionService_Deposit(t *testing.T) {
	f := newCashFixture(t)
	a := f.openWithCash(t, "120")
	b := f.openWithCash(t, "80.50")
	f.close(t, a.ID, "120")
	f.close(t, b.ID, "80.50")

	t.Run("amount must match counted cash", func(t *testing.T) {
		wrong := decimal.NewFromInt(10)
		_, err := f.svc.Deposit(f.ctx, f.tenantID, CreateDepositRequest{
			SessionIDs: []uuid.UUID{a.ID, b.ID}, BankName: "Bank", Amount: &wrong,
		})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("unknown session", func(t *testing.T) {
		_, err := f.svc.Deposit(f.ctx, f.tenantID, CreateDepositRequest{
			SessionIDs: []uuid.UUID{a.ID, uuid.New()}, BankName: "Bank",
		})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	d, err := f.svc.Deposit(f.ctx, f.tenantID, CreateDepositRequest{
		SessionIDs:  []uuid.UUID{a.ID, b.ID},
		BankName:    "Bank",
		DepositedBy: "cashier",
	})
	require.NoError(t, err)
	assert.Equal(t, "200.50", d.Amount.StringFixed(2))
	assert.ElementsMatch(t, []uuid.UUID{a.ID, b.ID}, d.SessionIDs)
	for _, id := range []uuid.UUID{a.ID, b.ID} {
		assert.Equal(t, finance.CashSessionDeposited, f.l.sessions[id].Status)
	}

	got, err := f.svc.GetDeposit(f.ctx, f.tenantID, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bank", got.BankName)

	_, err = f.svc.Deposit(f.ctx, f.tenantID, CreateDepositRequest{SessionIDs: []uuid.UUID{a.ID}, BankName: "Bank"})
	assertCode(t, err, "INVALID_STATE")
}

func TestCashSessionDecisionHook_ThroughApprovals(t *testing.T) {
	f := newCashFixture(t)
	s := f.openWithCash(t, "1000")
	pending := f.close(t, s.ID, "900")
	require.NotNil(t, pending.ApprovalRequestID)

	approvals := approvalapp.NewApprovalService(f.l.EntityTypeRepo(), f.l.ApprovalRepo(), approvalScope{f.l}, nil)
	approvals.RegisterHook(approval.EntityCashSession, CashSessionDecisionHook())

	r, err := approvals.Approve(f.ctx, f.tenantID, *pending.ApprovalRequestID, approvalapp.DecideRequest{DecidedBy: "manager"})
	require.NoError(t, err)
	assert.Equal(t, "approved", r.Status)

	session, err := f.svc.GetByID(f.ctx, f.tenantID, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "closed", session.Status)
	assert.Equal(t, "manager", session.ApprovedBy)

	_, err = approvals.Approve(f.ctx, f.tenantID, *pending.ApprovalRequestID, approvalapp.DecideRequest{})
	assertCode(t, err, "INVALID_STATE")
}

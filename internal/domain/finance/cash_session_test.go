package finance

import (
	"errors"
	"testing"
	"time"

	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func openSession(t *testing.T, start string) *CashSession {
	t.Helper()
	s, err := NewCashSession(uuid.New(), uuid.New(), time.Now(), d(start), "")
	require.NoError(t, err)
	return s
}

func collect(t *testing.T, s *CashSession, amount string, method CollectionMethod) {
	t.Helper()
	c, err := NewCashCollection(s, d(amount), method, "")
	require.NoError(t, err)
	require.NoError(t, s.RecordCollection(c))
}

func TestCashSession_OnlyCashRaisesExpected(t *testing.T) {
	s := openSession(t, "50")
	assert.True(t, d("50").Equal(s.ExpectedCash))

	collect(t, s, "100", CollectionCash)
	collect(t, s, "30", CollectionMobileMoney)
	assert.True(t, d("150").Equal(s.ExpectedCash))

	_, err := NewCashCollection(s, d("0"), CollectionCash, "")
	assert.Error(t, err)
	_, err = NewCashCollection(s, d("1"), "card", "")
	assert.Error(t, err)
}

func TestNewCashCollection_SubCentAmountIsRejected(t *testing.T) {
	s := openSession(t, "50")

	_, err := NewCashCollection(s, d("0.004"), CollectionCash, "")
	assert.ErrorIs(t, err, shared.ErrValidation)

	c, err := NewCashCollection(s, d("0.005"), CollectionCash, "")
	require.NoError(t, err)
	assert.Equal(t, "0.01", c.Amount.StringFixed(2))
}

func TestEvaluateClose(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		actual   string
		pct      string
		approval bool
	}{
		{"exact", "1000", "1000", "0", false},
		{"within one percent short", "1000", "990", "-1", false},
		{"just over", "1000", "989.90", "-1.01", true},
		{"large shortfall", "1000", "900", "-10", true},
		{"overage", "200", "205", "2.5", true},
		{"zero expected zero actual", "0", "0", "0", false},
		{"zero expected with cash", "0", "10", "100", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := EvaluateClose(d(tt.expected), d(tt.actual), DefaultVarianceThreshold)
			assert.True(t, d(tt.pct).Equal(res.VariancePercentage), "pct %s", res.VariancePercentage)
			assert.Equal(t, tt.approval, res.RequiresApproval)
			assert.True(t, d(tt.actual).Sub(d(tt.expected)).Equal(res.Variance))
		})
	}
}

func TestCashSession_CloseWithinThreshold(t *testing.T) {
	s := openSession(t, "0")
	collect(t, s, "1000", CollectionCash)

	res, err := s.Close(d("995"), "", DefaultVarianceThreshold, time.Now())
	require.NoError(t, err)
	assert.False(t, res.RequiresApproval)
	assert.Equal(t, CashSessionClosed, s.Status)
	assert.True(t, d("-5").Equal(s.Variance.Decimal))
	assert.True(t, d("-0.5").Equal(s.VariancePercentage.Decimal))

	_, err = s.Close(d("995"), "", DefaultVarianceThreshold, time.Now())
	assert.True(t, errors.Is(err, shared.ErrInvalidState))
}

func TestCashSession_ApproveAndDeposit(t *testing.T) {
	s := openSession(t, "0")
	collect(t, s, "1000", CollectionCash)

	res, err := s.Close(d("900"), "short", DefaultVarianceThreshold, time.Now())
	require.NoError(t, err)
	assert.True(t, res.RequiresApproval)
	assert.Equal(t, CashSessionPendingApproval, s.Status)

	assert.Error(t, s.MarkDeposited())
	require.NoError(t, s.Approve("supervisor", "counted twice", time.Now()))
	assert.Equal(t, CashSessionClosed, s.Status)
	assert.Equal(t, "supervisor", s.ApprovedBy)
	assert.Error(t, s.Approve("supervisor", "", time.Now()))

	dep, err := NewBankDeposit(s.TenantID, DepositDetails{BankName: "KCB"}, []*CashSession{s})
	require.NoError(t, err)
	assert.True(t, d("900").Equal(dep.Amount))
	assert.Equal(t, CashSessionDeposited, s.Status)
	assert.Equal(t, []uuid.UUID{s.ID}, dep.SessionIDs())

	_, err = NewBankDeposit(s.TenantID, DepositDetails{BankName: "KCB"}, []*CashSession{s})
	assert.True(t, errors.Is(err, shared.ErrInvalidState))
}

func TestCashSession_RejectReopens(t *testing.T) {
	s := openSession(t, "100")
	_, err := s.Close(d("50"), "", DefaultVarianceThreshold, time.Now())
	require.NoError(t, err)
	require.NoError(t, s.Reject("recount"))
	assert.Equal(t, CashSessionOpen, s.Status)
	assert.False(t, s.ActualCash.Valid)
	assert.Nil(t, s.ClosedAt)
	collect(t, s, "10", CollectionCash)
}

func TestNewBankDeposit_AmountMismatch(t *testing.T) {
	s := openSession(t, "100")
	_, err := s.Close(d("100"), "", DefaultVarianceThreshold, time.Now())
	require.NoError(t, err)

	wrong := d("99")
	_, err = NewBankDeposit(s.TenantID, DepositDetails{BankName: "KCB", Amount: &wrong}, []*CashSession{s})
	assert.Error(t, err)
	assert.Equal(t, CashSessionClosed, s.Status)

	_, err = NewBankDeposit(s.TenantID, DepositDetails{BankName: "KCB"}, []*CashSession{s, s})
	assert.Error(t, err)
}

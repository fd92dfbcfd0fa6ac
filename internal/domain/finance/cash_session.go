package finance

import (
	"time"

	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CashSessionStatus is the reconciliation state of a cash session
type CashSessionStatus string

const (
	CashSessionOpen            CashSessionStatus = "open"
	CashSessionPendingApproval CashSessionStatus = "pending_approval"
	CashSessionClosed          CashSessionStatus = "closed"
	CashSessionDeposited       CashSessionStatus = "deposited"
)

// IsValid checks if the status is known
func (s CashSessionStatus) IsValid() bool {
	switch s {
	case CashSessionOpen, CashSessionPendingApproval, CashSessionClosed, CashSessionDeposited:
		return true
	}
	return false
}

// IsActive reports whether the session still blocks a new session for the agent
func (s CashSessionStatus) IsActive() bool {
	return s == CashSessionOpen || s == CashSessionPendingApproval
}

// DefaultVarianceThreshold is the absolute variance percentage closed without approval
var DefaultVarianceThreshold = decimal.NewFromInt(1)

// CashSession is an agent's cash-collection accounting period
type CashSession struct {
	shared.TenantAggregateRoot
	AgentID            uuid.UUID           `gorm:"type:uuid;not null;index"`
	SessionDate        time.Time           `gorm:"type:date;not null;index"`
	StartingBalance    decimal.Decimal     `gorm:"type:decimal(18,2);not null;default:0"`
	ExpectedCash       decimal.Decimal     `gorm:"type:decimal(18,2);not null;default:0"`
	ActualCash         decimal.NullDecimal `gorm:"type:decimal(18,2)"`
	Variance           decimal.NullDecimal `gorm:"type:decimal(18,2)"`
	VariancePercentage decimal.NullDecimal `gorm:"type:decimal(9,2)"`
	Status             CashSessionStatus   `gorm:"type:varchar(20);not null;default:'open';index"`
	OpenedAt           time.Time           `gorm:"not null"`
	ClosedAt           *time.Time
	ApprovedBy         string `gorm:"type:varchar(100)"`
	ApprovedAt         *time.Time
	ApprovalNotes      string `gorm:"type:text"`
	Notes              string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CashSession) TableName() string {
	return "cash_sessions"
}

// NewCashSession opens a session; expected cash starts at the float
func NewCashSession(tenantID, agentID uuid.UUID, sessionDate time.Time, startingBalance decimal.Decimal, notes string) (*CashSession, error) {
	if agentID == uuid.Nil {
		return nil, shared.NewValidationError("agent_id is required")
	}
	if startingBalance.IsNegative() {
		return nil, shared.NewValidationError("starting_balance cannot be negative")
	}
	now := time.Now()
	if sessionDate.IsZero() {
		sessionDate = now
	}
	startingBalance = shared.RoundMoney(startingBalance)
	s := &CashSession{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		AgentID:             agentID,
		SessionDate:         shared.DateOf(sessionDate),
		StartingBalance:     startingBalance,
		ExpectedCash:        startingBalance,
		Status:              CashSessionOpen,
		OpenedAt:            now,
		Notes:               notes,
	}
	s.AddDomainEvent(NewCashSessionEvent(EventTypeCashSessionOpened, s))
	return s, nil
}

// RecordCollection adds a collection to the session. Only cash raises expected cash.
func (s *CashSession) RecordCollection(c *CashCollection) error {
	if s.Status != CashSessionOpen {
		return shared.NewInvalidStateError("cannot record collections on a %s session", s.Status)
	}
	if c.CashSessionID != s.ID {
		return shared.NewValidationError("collection belongs to another session")
	}
	if c.PaymentMethod == CollectionCash {
		s.ExpectedCash = s.ExpectedCash.Add(c.Amount)
	}
	s.IncrementVersion()
	return nil
}

// CloseResult reports the computed variance of a close
type CloseResult struct {
	Variance           decimal.Decimal
	VariancePercentage decimal.Decimal
	RequiresApproval   bool
}

// EvaluateClose computes variance against expected cash without changing state
func EvaluateClose(expected, actual, threshold decimal.Decimal) CloseResult {
	variance := actual.Sub(expected)
	pct := shared.PercentChange(variance, expected)
	return CloseResult{
		Variance:           variance,
		VariancePercentage: pct,
		RequiresApproval:   pct.Abs().GreaterThan(threshold),
	}
}

// Close counts the cash. Within threshold the session closes, otherwise it awaits approval.
func (s *CashSession) Close(actual decimal.Decimal, notes string, threshold decimal.Decimal, at time.Time) (CloseResult, error) {
	if s.Status != CashSessionOpen {
		return CloseResult{}, shared.NewInvalidStateError("cannot close a %s session", s.Status)
	}
	if actual.IsNegative() {
		return CloseResult{}, shared.NewValidationError("actual_cash cannot be negative")
	}
	actual = shared.RoundMoney(actual)
	res := EvaluateClose(s.ExpectedCash, actual, threshold)

	s.ActualCash = decimal.NewNullDecimal(actual)
	s.Variance = decimal.NewNullDecimal(res.Variance)
	s.VariancePercentage = decimal.NewNullDecimal(res.VariancePercentage)
	s.ClosedAt = &at
	if notes != "" {
		s.Notes = notes
	}
	if res.RequiresApproval {
		s.Status = CashSessionPendingApproval
		s.AddDomainEvent(NewCashSessionEvent(EventTypeCashSessionApprovalRequired, s))
	} else {
		s.Status = CashSessionClosed
		s.AddDomainEvent(NewCashSessionEvent(EventTypeCashSessionClosed, s))
	}
	s.IncrementVersion()
	return res, nil
}

// Approve accepts a variance and closes the session
func (s *CashSession) Approve(by, notes string, at time.Time) error {
	if s.Status != CashSessionPendingApproval {
		return shared.NewInvalidStateError("cannot approve a %s session", s.Status)
	}
	s.Status = CashSessionClosed
	s.ApprovedBy = by
	s.ApprovedAt = &at
	s.ApprovalNotes = notes
	s.AddDomainEvent(NewCashSessionEvent(EventTypeCashSessionClosed, s))
	s.IncrementVersion()
	return nil
}

// Reject reopens the session for a recount
func (s *CashSession) Reject(notes string) error {
	if s.Status != CashSessionPendingApproval {
		return shared.NewInvalidStateError("cannot reject a %s session", s.Status)
	}
	s.Status = CashSessionOpen
	s.ActualCash = decimal.NullDecimal{}
	s.Variance = decimal.NullDecimal{}
	s.VariancePercentage = decimal.NullDecimal{}
	s.ClosedAt = nil
	s.ApprovalNotes = notes
	s.IncrementVersion()
	return nil
}

// MarkDeposited records that the counted cash was banked
func (s *CashSession) MarkDeposited() error {
	if s.Status != CashSessionClosed {
		return shared.NewInvalidStateError("cannot deposit a %s session", s.Status)
	}
	s.Status = CashSessionDeposited
	s.AddDomainEvent(NewCashSessionEvent(EventTypeCashSessionDeposited, s))
	s.IncrementVersion()
	return nil
}

// CountedCash is the actual cash, or zero before close
func (s *CashSession) CountedCash() decimal.Decimal {
	if s.ActualCash.Valid {
		return s.ActualCash.Decimal
	}
	return decimal.Zero
}

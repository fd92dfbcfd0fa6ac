package finance

import (
	"strings"
	"time"

	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BankDeposit banks the cash of one or more closed sessions
type BankDeposit struct {
	shared.TenantAggregateRoot
	BankName         string               `gorm:"type:varchar(200);not null"`
	AccountNumber    string               `gorm:"type:varchar(100)"`
	DepositReference string               `gorm:"type:varchar(100);index"`
	Amount           decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	DepositedAt      time.Time            `gorm:"not null"`
	DepositedBy      string               `gorm:"type:varchar(100)"`
	Notes            string               `gorm:"type:text"`
	Sessions         []BankDepositSession `gorm:"foreignKey:BankDepositID;references:ID"`
}

// TableName returns the table name for GORM
func (BankDeposit) TableName() string {
	return "bank_deposits"
}

// BankDepositSession links a deposit to a cash session
type BankDepositSession struct {
	shared.BaseEntity
	TenantID      uuid.UUID `gorm:"type:uuid;not null;index"`
	BankDepositID uuid.UUID `gorm:"type:uuid;not null;index"`
	CashSessionID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for GORM
func (BankDepositSession) TableName() string {
	return "bank_deposit_sessions"
}

// DepositDetails are the bank-side fields of a deposit
type DepositDetails struct {
	BankName         string
	AccountNumber    string
	DepositReference string
	DepositedAt      time.Time
	DepositedBy      string
	Notes            string
	// Amount is optional; when set it must equal the counted cash of the sessions
	Amount *decimal.Decimal
}

// NewBankDeposit deposits the given closed sessions and marks them deposited
func NewBankDeposit(tenantID uuid.UUID, details DepositDetails, sessions []*CashSession) (*BankDeposit, error) {
	if strings.TrimSpace(details.BankName) == "" {
		return nil, shared.NewValidationError("bank_name is required")
	}
	if len(sessions) == 0 {
		return nil, shared.NewValidationError("session_ids are required")
	}
	seen := make(map[uuid.UUID]struct{}, len(sessions))
	total := decimal.Zero
	for _, s := range sessions {
		if _, dup := seen[s.ID]; dup {
			return nil, shared.NewValidationError("session %s listed twice", s.ID)
		}
		seen[s.ID] = struct{}{}
		total = total.Add(s.CountedCash())
	}
	if details.Amount != nil && !details.Amount.Round(shared.MoneyScale).Equal(total) {
		return nil, shared.NewValidationError("amount %s does not match session total %s", details.Amount.StringFixed(2), total.StringFixed(2))
	}
	if details.DepositedAt.IsZero() {
		details.DepositedAt = time.Now()
	}

	d := &BankDeposit{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		BankName:            strings.TrimSpace(details.BankName),
		AccountNumber:       details.AccountNumber,
		DepositReference:    details.DepositReference,
		Amount:              total,
		DepositedAt:         details.DepositedAt,
		DepositedBy:         details.DepositedBy,
		Notes:               details.Notes,
	}
	for _, s := range sessions {
		if err := s.MarkDeposited(); err != nil {
			return nil, err
		}
		d.Sessions = append(d.Sessions, BankDepositSession{
			BaseEntity:    shared.NewBaseEntity(),
			TenantID:      tenantID,
			BankDepositID: d.ID,
			CashSessionID: s.ID,
		})
	}
	return d, nil
}

// SessionIDs lists the deposited session ids
func (d *BankDeposit) SessionIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(d.Sessions))
	for _, s := range d.Sessions {
		ids = append(ids, s.CashSessionID)
	}
	return ids
}

package persistence

import (
	"context"
	"time"

	"github.com/erp/distribution/internal/domain/finance"
	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCashSessionRepository implements finance.CashSessionRepository
type GormCashSessionRepository struct {
	TenantStore[finance.CashSession]
}

// NewGormCashSessionRepository creates a new GormCashSessionRepository
func NewGormCashSessionRepository(db *gorm.DB) *GormCashSessionRepository {
	return &GormCashSessionRepository{NewTenantStore[finance.CashSession](db, QuerySpec{
		Filters: map[string]string{
			"status":       "status",
			"agent_id":     "agent_id",
			"session_date": "session_date",
		},
		Sort: CashSessionSortFields,
	})}
}

// FindByIDs loads the sessions with the given ids
func (r *GormCashSessionRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]finance.CashSession, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.FindWhere(ctx, tenantID, "id IN ?", ids)
}

// ExistsActiveForAgent reports an open or pending_approval session for the agent
func (r *GormCashSessionRepository) ExistsActiveForAgent(ctx context.Context, tenantID, agentID uuid.UUID) (bool, error) {
	return r.Exists(ctx, tenantID, "agent_id = ? AND status IN ?", agentID,
		[]finance.CashSessionStatus{finance.CashSessionOpen, finance.CashSessionPendingApproval})
}

// TransitionStatus saves s only if the stored row is still in from at expectedVersion
func (r *GormCashSessionRepository) TransitionStatus(ctx context.Context, s *finance.CashSession, from finance.CashSessionStatus, expectedVersion int) error {
	return r.TransitionStatusWithLock(ctx, s, from, expectedVersion)
}

// GormCashCollectionRepository implements finance.CashCollectionRepository
type GormCashCollectionRepository struct {
	db *gorm.DB
}

// NewGormCashCollectionRepository creates a new GormCashCollectionRepository
func NewGormCashCollectionRepository(db *gorm.DB) *GormCashCollectionRepository {
	return &GormCashCollectionRepository{db: db}
}

// FindBySession lists a session's collections in collection order
func (r *GormCashCollectionRepository) FindBySession(ctx context.Context, tenantID, sessionID uuid.UUID) ([]finance.CashCollection, error) {
	var list []finance.CashCollection
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND cash_session_id = ?", tenantID, sessionID).
		Order("collected_at ASC").
		Find(&list).Error
	return list, err
}

// Create inserts a collection
func (r *GormCashCollectionRepository) Create(ctx context.Context, c *finance.CashCollection) error {
	return translateError(r.db.WithContext(ctx).Create(c).Error)
}

// GormBankDepositRepository implements finance.BankDepositRepository
type GormBankDepositRepository struct {
	TenantStore[finance.BankDeposit]
}

// NewGormBankDepositRepository creates a new GormBankDepositRepository
func NewGormBankDepositRepository(db *gorm.DB) *GormBankDepositRepository {
	return &GormBankDepositRepository{NewTenantStore[finance.BankDeposit](db, QuerySpec{
		Filters: map[string]string{
			"bank_name":         "bank_name",
			"deposit_reference": "deposit_reference",
		},
		Search:  []string{"deposit_reference", "bank_name"},
		Sort:    BankDepositSortFields,
		Preload: []string{"Sessions"},
	})}
}

// GormInvoiceRepository implements finance.InvoiceRepository
type GormInvoiceRepository struct {
	TenantStore[finance.Invoice]
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository.
// The "overdue" filter takes the current day as its value.
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{NewTenantStore[finance.Invoice](db, QuerySpec{
		Filters: map[string]string{
			"status":      "status",
			"customer_id": "customer_id",
			"order_id":    "order_id",
			"overdue":     "due_date < ? AND status IN ('issued', 'partially_paid')",
			"active":      "(status <> 'cancelled') = ?",
		},
		Search: []string{"invoice_number"},
		Sort:   InvoiceSortFields,
	})}
}

// CountForDay counts invoices created on day
func (r *GormInvoiceRepository) CountForDay(ctx context.Context, tenantID uuid.UUID, day time.Time) (int64, error) {
	start := shared.DateOf(day)
	var n int64
	err := r.scoped(ctx, tenantID).
		Where("created_at >= ? AND created_at < ?", start, start.AddDate(0, 0, 1)).
		Count(&n).Error
	return n, err
}

// GormPaymentRepository implements finance.PaymentRepository
type GormPaymentRepository struct {
	TenantStore[finance.Payment]
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{NewTenantStore[finance.Payment](db, QuerySpec{
		Filters: map[string]string{
			"invoice_id":      "invoice_id",
			"customer_id":     "customer_id",
			"payment_method":  "payment_method",
			"cash_session_id": "cash_session_id",
		},
		Search: []string{"reference"},
		Sort:   PaymentSortFields,
	})}
}

var (
	_ finance.CashSessionRepository    = (*GormCashSessionRepository)(nil)
	_ finance.CashCollectionRepository = (*GormCashCollectionRepository)(nil)
	_ finance.BankDepositRepository    = (*GormBankDepositRepository)(nil)
	_ finance.InvoiceRepository        = (*GormInvoiceRepository)(nil)
	_ finance.PaymentRepository        = (*GormPaymentRepository)(nil)
)

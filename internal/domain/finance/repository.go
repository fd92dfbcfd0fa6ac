package finance

import (
	"context"
	"time"

	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
)

// CashSessionRepository defines the interface for cash session persistence
type CashSessionRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*CashSession, error)
	// FindByIDForUpdate locks the session row for the rest of the transaction
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*CashSession, error)
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]CashSession, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]CashSession, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// ExistsActiveForAgent reports an open or pending_approval session for the agent
	ExistsActiveForAgent(ctx context.Context, tenantID, agentID uuid.UUID) (bool, error)

	Create(ctx context.Context, s *CashSession) error

	// TransitionStatus saves s only if the stored row is in from at expectedVersion.
	// Returns INVALID_STATE when the status moved on, CONCURRENCY_CONFLICT when
	// another writer bumped the version and NOT_FOUND when the row is missing.
	TransitionStatus(ctx context.Context, s *CashSession, from CashSessionStatus, expectedVersion int) error
}

// CashCollectionRepository defines the interface for cash collection persistence
type CashCollectionRepository interface {
	FindBySession(ctx context.Context, tenantID, sessionID uuid.UUID) ([]CashCollection, error)
	Create(ctx context.Context, c *CashCollection) error
}

// BankDepositRepository defines the interface for bank deposit persistence
type BankDepositRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*BankDeposit, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]BankDeposit, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// Create inserts the deposit with its session links
	Create(ctx context.Context, d *BankDeposit) error
}

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Invoice, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	CountForDay(ctx context.Context, tenantID uuid.UUID, day time.Time) (int64, error)
	Create(ctx context.Context, inv *Invoice) error

	// SaveWithLock persists when the stored version equals expectedVersion
	SaveWithLock(ctx context.Context, inv *Invoice, expectedVersion int) error
}

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Payment, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Create(ctx context.Context, p *Payment) error
}

package persistence

import (
	"context"

	approvalapp "github.com/erp/distribution/internal/application/approval"
	financeapp "github.com/erp/distribution/internal/application/finance"
	inventoryapp "github.com/erp/distribution/internal/application/inventory"
	tradeapp "github.com/erp/distribution/internal/application/trade"
	"github.com/erp/distribution/internal/domain/approval"
	"github.com/erp/distribution/internal/domain/finance"
	"github.com/erp/distribution/internal/domain/inventory"
	"github.com/erp/distribution/internal/domain/trade"
	"gorm.io/gorm"
)

// GormTransactionScope runs application use cases inside one GORM
// transaction. Each application package declares its own scope
// interface; the For* methods adapt this scope to them.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// run commits when fn returns nil and rolls back otherwise
func (s *GormTransactionScope) run(ctx context.Context, fn func(repos *gormTransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// ForInventory adapts the scope to inventory use cases
func (s *GormTransactionScope) ForInventory() inventoryapp.TransactionScope {
	return inventoryScope{s}
}

// ForTrade adapts the scope to order use cases
func (s *GormTransactionScope) ForTrade() tradeapp.TransactionScope {
	return tradeScope{s}
}

// ForApproval adapts the scope to approval decisions
func (s *GormTransactionScope) ForApproval() approvalapp.TransactionScope {
	return approvalScope{s}
}

// ForFinance adapts the scope to cash, invoice and payment use cases
func (s *GormTransactionScope) ForFinance() financeapp.TransactionScope {
	return financeScope{s}
}

type inventoryScope struct{ s *GormTransactionScope }

func (a inventoryScope) Execute(ctx context.Context, fn func(repos inventoryapp.TransactionalRepositories) error) error {
	return a.s.run(ctx, func(r *gormTransactionalRepositories) error { return fn(r) })
}

type tradeScope struct{ s *GormTransactionScope }

func (a tradeScope) Execute(ctx context.Context, fn func(repos tradeapp.TransactionalRepositories) error) error {
	return a.s.run(ctx, func(r *gormTransactionalRepositories) error { return fn(r) })
}

type approvalScope struct{ s *GormTransactionScope }

func (a approvalScope) Execute(ctx context.Context, fn func(repos approvalapp.TransactionalRepositories) error) error {
	return a.s.run(ctx, func(r *gormTransactionalRepositories) error { return fn(r) })
}

type financeScope struct{ s *GormTransactionScope }

func (a financeScope) Execute(ctx context.Context, fn func(repos financeapp.TransactionalRepositories) error) error {
	return a.s.run(ctx, func(r *gormTransactionalRepositories) error { return fn(r) })
}

// gormTransactionalRepositories hands out repositories bound to tx
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) StockRepo() inventory.StockItemRepository {
	return NewGormStockItemRepository(r.tx)
}

func (r *gormTransactionalRepositories) MovementRepo() inventory.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

func (r *gormTransactionalRepositories) OrderRepo() trade.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

func (r *gormTransactionalRepositories) ApprovalRepo() approval.RequestRepository {
	return NewGormApprovalRequestRepository(r.tx)
}

func (r *gormTransactionalRepositories) EntityTypeRepo() approval.EntityTypeRepository {
	return NewGormEntityTypeRepository(r.tx)
}

func (r *gormTransactionalRepositories) CashSessionRepo() finance.CashSessionRepository {
	return NewGormCashSessionRepository(r.tx)
}

func (r *gormTransactionalRepositories) CollectionRepo() finance.CashCollectionRepository {
	return NewGormCashCollectionRepository(r.tx)
}

func (r *gormTransactionalRepositories) DepositRepo() finance.BankDepositRepository {
	return NewGormBankDepositRepository(r.tx)
}

func (r *gormTransactionalRepositories) InvoiceRepo() finance.InvoiceRepository {
	return NewGormInvoiceRepository(r.tx)
}

func (r *gormTransactionalRepositories) PaymentRepo() finance.PaymentRepository {
	return NewGormPaymentRepository(r.tx)
}

var (
	_ inventoryapp.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
	_ tradeapp.TransactionalRepositories     = (*gormTransactionalRepositories)(nil)
	_ approvalapp.TransactionalRepositories  = (*gormTransactionalRepositories)(nil)
	_ financeapp.TransactionalRepositories   = (*gormTransactionalRepositories)(nil)
)

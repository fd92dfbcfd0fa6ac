package finance

import (
	"context"

	"github.com/erp/distribution/internal/domain/approval"
	"github.com/erp/distribution/internal/domain/finance"
	"github.com/erp/distribution/internal/domain/trade"
)

// TransactionScope runs multi-table finance changes in one database transaction
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories hands out repositories bound to the running transaction
type TransactionalRepositories interface {
	CashSessionRepo() finance.CashSessionRepository
	CollectionRepo() finance.CashCollectionRepository
	DepositRepo() finance.BankDepositRepository
	InvoiceRepo() finance.InvoiceRepository
	PaymentRepo() finance.PaymentRepository
	ApprovalRepo() approval.RequestRepository
	EntityTypeRepo() approval.EntityTypeRepository
	OrderRepo() trade.OrderRepository
}

package trade

import (
	"context"

	"github.com/erp/distribution/internal/domain/inventory"
	"github.com/erp/distribution/internal/domain/trade"
)

// TransactionScope runs order and stock changes in one database transaction
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories hands out repositories bound to the running transaction
type TransactionalRepositories interface {
	OrderRepo() trade.OrderRepository
	StockRepo() inventory.StockItemRepository
	MovementRepo() inventory.StockMovementRepository
}

package inventory

import (
	"context"

	"github.com/erp/distribution/internal/domain/inventory"
)

// TransactionScope runs a function inside one database transaction.
// A returned error rolls the transaction back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories hands out repositories bound to the running transaction
type TransactionalRepositories interface {
	StockRepo() inventory.StockItemRepository
	MovementRepo() inventory.StockMovementRepository
}

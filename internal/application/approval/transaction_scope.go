package approval

import (
	"context"

	"github.com/erp/distribution/internal/domain/approval"
	"github.com/erp/distribution/internal/domain/finance"
)

// TransactionScope runs a decision and its hook in one database transaction
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories hands out repositories bound to the running
// transaction. Decision hooks reach the approved entity through them.
type TransactionalRepositories interface {
	ApprovalRepo() approval.RequestRepository
	EntityTypeRepo() approval.EntityTypeRepository
	CashSessionRepo() finance.CashSessionRepository
}

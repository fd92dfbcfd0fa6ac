package finance

import (
	"context"

	appshared "github.com/erp/distribution/internal/application/shared"
	"github.com/erp/distribution/internal/domain/finance"
	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Deposit banks closed sessions. Every session moves closed -> deposited
// under a status guard in one transaction.
func (s *CashSessionService) Deposit(ctx context.Context, tenantID uuid.UUID, req CreateDepositRequest) (*DepositResponse, error) {
	var deposit *finance.BankDeposit
	var sessions []*finance.CashSession
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		found, err := repos.CashSessionRepo().FindByIDs(ctx, tenantID, req.SessionIDs)
		if err != nil {
			return err
		}
		byID := make(map[uuid.UUID]*finance.CashSession, len(found))
		for i := range found {
			byID[found[i].ID] = &found[i]
		}
		sessions = make([]*finance.CashSession, 0, len(req.SessionIDs))
		loaded := make(map[uuid.UUID]int, len(req.SessionIDs))
		for _, id := range req.SessionIDs {
			session, ok := byID[id]
			if !ok {
				return shared.NewValidationError("cash session %s does not exist", id)
			}
			sessions = append(sessions, session)
			loaded[id] = session.Version
		}

		details := finance.DepositDetails{
			BankName:         req.BankName,
			AccountNumber:    req.AccountNumber,
			DepositReference: req.DepositReference,
			DepositedBy:      req.DepositedBy,
			Notes:            req.Notes,
			Amount:           req.Amount,
		}
		if req.DepositedAt != nil {
			details.DepositedAt = *req.DepositedAt
		}
		deposit, err = finance.NewBankDeposit(tenantID, details, sessions)
		if err != nil {
			return err
		}
		for _, session := range sessions {
			if err := repos.CashSessionRepo().TransitionStatus(ctx, session, finance.CashSessionClosed, loaded[session.ID]); err != nil {
				return err
			}
		}
		return repos.DepositRepo().Create(ctx, deposit)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("bank deposit recorded",
		zap.String("deposit_id", deposit.ID.String()),
		zap.Int("sessions", len(sessions)),
		zap.String("amount", deposit.Amount.StringFixed(2)))
	for _, session := range sessions {
		s.publish(ctx, session)
	}
	response := ToDepositResponse(deposit)
	return &response, nil
}

// GetDeposit retrieves a deposit with its session ids
func (s *CashSessionService) GetDeposit(ctx context.Context, tenantID, id uuid.UUID) (*DepositResponse, error) {
	d, err := s.deposits.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToDepositResponse(d)
	return &response, nil
}

// ListDeposits returns a page of deposits
func (s *CashSessionService) ListDeposits(ctx context.Context, tenantID uuid.UUID, filter DepositListFilter) ([]DepositResponse, int64, error) {
	f := filter.Filter().
		With("bank_name", filter.BankName).
		With("deposit_reference", filter.DepositReference)
	list, err := s.deposits.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.deposits.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	return appshared.MapSlice(list, ToDepositResponse), total, nil
}

package finance

import (
	"context"
	"fmt"
	"time"

	appshared "github.com/erp/distribution/internal/application/shared"
	tradeapp "github.com/erp/distribution/internal/application/trade"
	"github.com/erp/distribution/internal/domain/finance"
	"github.com/erp/distribution/internal/domain/shared"
	"github.com/erp/distribution/internal/domain/trade"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultIdempotencyTTL is how long an Idempotency-Key blocks repeats
const DefaultIdempotencyTTL = 24 * time.Hour

// PaymentServiceDeps holds the collaborators of PaymentService
type PaymentServiceDeps struct {
	Payments    finance.PaymentRepository
	TxScope     TransactionScope
	Idempotency shared.IdempotencyStore
	TTL         time.Duration
	Metrics     appshared.BusinessMetrics
	Logger      *zap.Logger
}

// PaymentService books invoice payments
type PaymentService struct {
	payments    finance.PaymentRepository
	txScope     TransactionScope
	idempotency shared.IdempotencyStore
	ttl         time.Duration
	metrics     appshared.BusinessMetrics
	publisher   shared.EventPublisher
	log         *zap.Logger
}

// NewPaymentService creates a new PaymentService. Idempotency may be nil.
func NewPaymentService(deps PaymentServiceDeps) *PaymentService {
	s := &PaymentService{
		payments:    deps.Payments,
		txScope:     deps.TxScope,
		idempotency: deps.Idempotency,
		ttl:         deps.TTL,
		metrics:     deps.Metrics,
		log:         deps.Logger,
	}
	if s.ttl <= 0 {
		s.ttl = DefaultIdempotencyTTL
	}
	if s.metrics == nil {
		s.metrics = appshared.NopMetrics{}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

// SetEventPublisher sets the publisher for PaymentReceived events
func (s *PaymentService) SetEventPublisher(p shared.EventPublisher) {
	s.publisher = p
}

// Create books a payment against an invoice. The invoice balance and
// status, the linked order's payment status and an optional cash session
// collection change in one transaction. A repeated idempotencyKey within
// the TTL fails with DUPLICATE_REQUEST.
func (s *PaymentService) Create(ctx context.Context, tenantID uuid.UUID, req CreatePaymentRequest, idempotencyKey string) (*PaymentResponse, error) {
	var claimed string
	if idempotencyKey != "" && s.idempotency != nil {
		key := fmt.Sprintf("payment:%s:%s", tenantID, idempotencyKey)
		fresh, err := s.idempotency.MarkProcessed(ctx, key, s.ttl)
		if err != nil {
			return nil, fmt.Errorf("check idempotency key: %w", err)
		}
		if !fresh {
			return nil, shared.ErrDuplicateRequest
		}
		claimed = key
	}

	payment, inv, err := s.book(ctx, tenantID, req)
	if err != nil {
		if claimed != "" {
			if relErr := s.idempotency.Release(ctx, claimed); relErr != nil {
				s.log.Warn("release idempotency key failed", zap.String("key", claimed), zap.Error(relErr))
			}
		}
		return nil, err
	}

	s.metrics.PaymentReceived(ctx, string(payment.PaymentMethod), payment.Amount)
	events := payment.GetDomainEvents()
	payment.ClearDomainEvents()
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events...); err != nil {
			s.log.Warn("publish payment events failed", zap.String("payment_id", payment.ID.String()), zap.Error(err))
		}
	}
	response := ToPaymentResponse(payment)
	response.InvoiceStatus = string(inv.Status)
	return &response, nil
}

func (s *PaymentService) book(ctx context.Context, tenantID uuid.UUID, req CreatePaymentRequest) (*finance.Payment, *finance.Invoice, error) {
	var payment *finance.Payment
	var inv *finance.Invoice
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		inv, err = repos.InvoiceRepo().FindByIDForTenant(ctx, tenantID, req.InvoiceID)
		if err != nil {
			return missingReference(err, "invoice")
		}
		expected := inv.Version
		payment, err = finance.NewPayment(inv, req.Amount, finance.PaymentMethod(req.PaymentMethod), req.Reference)
		if err != nil {
			return err
		}
		if req.CashSessionID != nil {
			if err := collectInSession(ctx, repos, tenantID, *req.CashSessionID, payment, inv); err != nil {
				return err
			}
		}
		if err := repos.InvoiceRepo().SaveWithLock(ctx, inv, expected); err != nil {
			return err
		}
		if err := repos.PaymentRepo().Create(ctx, payment); err != nil {
			return err
		}
		if inv.OrderID != nil {
			return tradeapp.SetPaymentStatus(ctx, repos.OrderRepo(), tenantID, *inv.OrderID, orderPaymentStatus(inv.Status))
		}
		return nil
	})
	return payment, inv, err
}

// collectInSession ties the payment to an open cash session. Cash and
// mobile money payments are also booked as collections of that session.
func collectInSession(ctx context.Context, repos TransactionalRepositories, tenantID, sessionID uuid.UUID, p *finance.Payment, inv *finance.Invoice) error {
	session, err := repos.CashSessionRepo().FindByIDForUpdate(ctx, tenantID, sessionID)
	if err != nil {
		return missingReference(err, "cash session")
	}
	if session.Status != finance.CashSessionOpen {
		return shared.NewInvalidStateError("cash session is %s", session.Status)
	}
	p.InSession(session.ID)
	if p.PaymentMethod != finance.PaymentCash && p.PaymentMethod != finance.PaymentMobileMoney {
		return nil
	}
	customerID := inv.CustomerID
	invoiceID := inv.ID
	_, err = collect(ctx, repos, session, RecordCollectionRequest{
		Amount:        p.Amount,
		PaymentMethod: string(p.PaymentMethod),
		CustomerID:    &customerID,
		OrderID:       inv.OrderID,
		InvoiceID:     &invoiceID,
		Reference:     p.Reference,
	})
	return err
}

func orderPaymentStatus(s finance.InvoiceStatus) trade.PaymentStatus {
	switch s {
	case finance.InvoicePaid:
		return trade.PaymentStatusPaid
	case finance.InvoicePartiallyPaid:
		return trade.PaymentStatusPartial
	}
	return trade.PaymentStatusPending
}

// List returns a page of payments
func (s *PaymentService) List(ctx context.Context, tenantID uuid.UUID, filter PaymentListFilter) ([]PaymentResponse, int64, error) {
	f := filter.Filter().
		With("invoice_id", filter.InvoiceID).
		With("customer_id", filter.CustomerID).
		With("payment_method", filter.PaymentMethod)
	list, err := s.payments.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.payments.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	return appshared.MapSlice(list, ToPaymentResponse), total, nil
}

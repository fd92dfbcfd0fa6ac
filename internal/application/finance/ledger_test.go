package finance

import (
	"context"
	"sync"
	"time"

	approvalapp "github.com/erp/distribution/internal/application/approval"
	"github.com/erp/distribution/internal/domain/approval"
	"github.com/erp/distribution/internal/domain/field"
	"github.com/erp/distribution/internal/domain/finance"
	"github.com/erp/distribution/internal/domain/partner"
	"github.com/erp/distribution/internal/domain/shared"
	"github.com/erp/distribution/internal/domain/trade"
	"github.com/google/uuid"
)

// ledger is an in-memory backing store for every finance repository.
// Its transaction scopes run the callback directly.
type ledger struct {
	mu          sync.Mutex
	sessions    map[uuid.UUID]finance.CashSession
	collections []finance.CashCollection
	deposits    map[uuid.UUID]finance.BankDeposit
	invoices    map[uuid.UUID]finance.Invoice
	payments    []finance.Payment
	requests    map[uuid.UUID]approval.Request
	entityTypes map[string]approval.EntityType
	orders      map[uuid.UUID]trade.Order
}

func newLedger() *ledger {
	return &ledger{
		sessions: make(map[uuid.UUID]finance.CashSession),
		deposits: make(map[uuid.UUID]finance.BankDeposit),
		invoices: make(map[uuid.UUID]finance.Invoice),
		requests: make(map[uuid.UUID]approval.Request),
		orders:   make(map[uuid.UUID]trade.Order),
		entityTypes: map[string]approval.EntityType{
			approval.EntityCashSession: {ID: uuid.New(), Code: approval.EntityCashSession, EntityTable: "cash_sessions"},
		},
	}
}

func (l *ledger) CashSessionRepo() finance.CashSessionRepository   { return sessionStore{l} }
func (l *ledger) CollectionRepo() finance.CashCollectionRepository { return collectionStore{l} }
func (l *ledger) DepositRepo() finance.BankDepositRepository       { return depositStore{l} }
func (l *ledger) InvoiceRepo() finance.InvoiceRepository           { return invoiceStore{l} }
func (l *ledger) PaymentRepo() finance.PaymentRepository           { return paymentStore{l} }
func (l *ledger) ApprovalRepo() approval.RequestRepository         { return requestStore{l} }
func (l *ledger) EntityTypeRepo() approval.EntityTypeRepository    { return entityTypeStore{l} }
func (l *ledger) OrderRepo() trade.OrderRepository                 { return orderStore{l: l} }

type financeScope struct{ l *ledger }

func (s financeScope) Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s.l)
}

type approvalScope struct{ l *ledger }

func (s approvalScope) Execute(ctx context.Context, fn func(repos approvalapp.TransactionalRepositories) error) error {
	return fn(s.l)
}

type sessionStore struct{ l *ledger }

func (s sessionStore) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.CashSession, error) {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	cs, ok := s.l.sessions[id]
	if !ok || cs.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return &cs, nil
}

func (s sessionStore) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*finance.CashSession, error) {
	return s.FindByIDForTenant(ctx, tenantID, id)
}

func (s sessionStore) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]finance.CashSession, error) {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	var out []finance.CashSession
	for _, id := range ids {
		if cs, ok := s.l.sessions[id]; ok && cs.TenantID == tenantID {
			out = append(out, cs)
		}
	}
	return out, nil
}

func (s sessionStore) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.CashSession, error) {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	var out []finance.CashSession
	for _, cs := range s.l.sessions {
		if cs.TenantID == tenantID {
			out = append(out, cs)
		}
	}
	return out, nil
}

func (s sessionStore) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	list, _ := s.FindAllForTenant(ctx, tenantID, filter)
	return int64(len(list)), nil
}

func (s sessionStore) ExistsActiveForAgent(ctx context.Context, tenantID, agentID uuid.UUID) (bool, error) {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	for _, cs := range s.l.sessions {
		if cs.TenantID == tenantID && cs.AgentID == agentID && cs.Status.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

func (s sessionStore) Create(ctx context.Context, cs *finance.CashSession) error {
	if active, _ := s.ExistsActiveForAgent(ctx, cs.TenantID, cs.AgentID); active {
		return shared.ErrAlreadyExists
	}
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	s.l.sessions[cs.ID] = *cs
	return nil
}

func (s sessionStore) TransitionStatus(ctx context.Context, cs *finance.CashSession, from finance.CashSessionStatus, expectedVersion int) error {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	stored, ok := s.l.sessions[cs.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if stored.Status != from {
		return shared.NewInvalidStateError("cash session is %s", stored.Status)
	}
	if stored.Version != expectedVersion {
		return shared.ErrConcurrencyConflict
	}
	s.l.sessions[cs.ID] = *cs
	return nil
}

type collectionStore struct{ l *ledger }

func (s collectionStore) FindBySession(ctx context.Context, tenantID, sessionID uuid.UUID) ([]finance.CashCollection, error) {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	var out []finance.CashCollection
	for _, c := range s.l.collections {
		if c.TenantID == tenantID && c.CashSessionID == sessionID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s collectionStore) Create(ctx context.Context, c *finance.CashCollection) error {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	s.l.collections = append(s.l.collections, *c)
	return nil
}

type depositStore struct{ l *ledger }

func (s depositStore) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.BankDeposit, error) {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	d, ok := s.l.deposits[id]
	if !ok || d.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return &d, nil
}

func (s depositStore) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.BankDeposit, error) {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	var out []finance.BankDeposit
	for _, d := range s.l.deposits {
		if d.TenantID == tenantID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s depositStore) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	list, _ := s.FindAllForTenant(ctx, tenantID, filter)
	return int64(len(list)), nil
}

func (s depositStore) Create(ctx context.Context, d *finance.BankDeposit) error {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	for _, existing := range s.l.deposits {
		for _, link := range existing.Sessions {
			for _, n := range d.Sessions {
				if link.CashSessionID == n.CashSessionID {
					return shared.ErrAlreadyExists
				}
			}
		}
	}
	s.l.deposits[d.ID] = *d
	return nil
}

type invoiceStore struct{ l *ledger }

func (s invoiceStore) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.Invoice, error) {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	inv, ok := s.l.invoices[id]
	if !ok || inv.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return &inv, nil
}

func (s invoiceStore) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.Invoice, error) {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	var out []finance.Invoice
	for _, inv := range s.l.invoices {
		if inv.TenantID != tenantID {
			continue
		}
		if orderID, ok := filter.Filters["order_id"]; ok && (inv.OrderID == nil || *inv.OrderID != orderID) {
			continue
		}
		if _, ok := filter.Filters["active"]; ok && inv.Status == finance.InvoiceCancelled {
			continue
		}
		if day, ok := filter.Filters["overdue"].(time.Time); ok && !inv.IsOverdue(day) {
			continue
		}
		out = append(out, inv)
	}
	return out, nil
}

func (s invoiceStore) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	list, _ := s.FindAllForTenant(ctx, tenantID, filter)
	return int64(len(list)), nil
}

func (s invoiceStore) CountForDay(ctx context.Context, tenantID uuid.UUID, day time.Time) (int64, error) {
	list, _ := s.FindAllForTenant(ctx, tenantID, shared.DefaultFilter())
	return int64(len(list)), nil
}

func (s invoiceStore) Create(ctx context.Context, inv *finance.Invoice) error {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	for _, existing := range s.l.invoices {
		if existing.TenantID == inv.TenantID && existing.InvoiceNumber == inv.InvoiceNumber {
			return shared.ErrAlreadyExists
		}
	}
	s.l.invoices[inv.ID] = *inv
	return nil
}

func (s invoiceStore) SaveWithLock(ctx context.Context, inv *finance.Invoice, expectedVersion int) error {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	stored, ok := s.l.invoices[inv.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if stored.Version != expectedVersion {
		return shared.ErrConcurrencyConflict
	}
	s.l.invoices[inv.ID] = *inv
	return nil
}

type paymentStore struct{ l *ledger }

func (s paymentStore) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.Payment, error) {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	var out []finance.Payment
	for _, p := range s.l.payments {
		if p.TenantID != tenantID {
			continue
		}
		if invoiceID, ok := filter.Filters["invoice_id"]; ok && p.InvoiceID != invoiceID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s paymentStore) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	list, _ := s.FindAllForTenant(ctx, tenantID, filter)
	return int64(len(list)), nil
}

func (s paymentStore) Create(ctx context.Context, p *finance.Payment) error {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	s.l.payments = append(s.l.payments, *p)
	return nil
}

type requestStore struct{ l *ledger }

func (s requestStore) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*approval.Request, error) {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	r, ok := s.l.requests[id]
	if !ok || r.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return &r, nil
}

func (s requestStore) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]approval.Request, error) {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	var out []approval.Request
	for _, r := range s.l.requests {
		if r.TenantID == tenantID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s requestStore) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	list, _ := s.FindAllForTenant(ctx, tenantID, filter)
	return int64(len(list)), nil
}

func (s requestStore) FindPendingForEntity(ctx context.Context, tenantID uuid.UUID, code string, entityID uuid.UUID) (*approval.Request, error) {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	for _, r := range s.l.requests {
		if r.TenantID == tenantID && r.EntityID == entityID && r.EntityCode() == code && r.Status == approval.StatusPending {
			return &r, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (s requestStore) Create(ctx context.Context, r *approval.Request) error {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	s.l.requests[r.ID] = *r
	return nil
}

func (s requestStore) TransitionStatus(ctx context.Context, r *approval.Request, from approval.Status) error {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	stored, ok := s.l.requests[r.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if stored.Status != from {
		return shared.NewInvalidStateError("request is %s", stored.Status)
	}
	s.l.requests[r.ID] = *r
	return nil
}

type entityTypeStore struct{ l *ledger }

func (s entityTypeStore) FindAll(ctx context.Context) ([]approval.EntityType, error) {
	var out []approval.EntityType
	for _, et := range s.l.entityTypes {
		out = append(out, et)
	}
	return out, nil
}

func (s entityTypeStore) FindByCode(ctx context.Context, code string) (*approval.EntityType, error) {
	et, ok := s.l.entityTypes[code]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &et, nil
}

type orderStore struct {
	trade.OrderRepository
	l *ledger
}

func (s orderStore) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.Order, error) {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	o, ok := s.l.orders[id]
	if !ok || o.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return &o, nil
}

func (s orderStore) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*trade.Order, error) {
	return s.FindByIDForTenant(ctx, tenantID, id)
}

func (s orderStore) SaveWithLock(ctx context.Context, o *trade.Order, expectedVersion int) error {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	stored, ok := s.l.orders[o.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if stored.Version != expectedVersion {
		return shared.ErrConcurrencyConflict
	}
	s.l.orders[o.ID] = *o
	return nil
}

// anyAgent resolves every agent id
type anyAgent struct{ field.AgentRepository }

func (anyAgent) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*field.Agent, error) {
	a := &field.Agent{}
	a.ID = id
	a.TenantID = tenantID
	return a, nil
}

// anyCustomer resolves every customer id
type anyCustomer struct{ partner.CustomerRepository }

func (anyCustomer) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Customer, error) {
	c := &partner.Customer{}
	c.ID = id
	c.TenantID = tenantID
	return c, nil
}

// Package trade contains the sales order use cases.
package trade

import (
	"context"
	"errors"
	"maps"
	"slices"

	inventoryapp "github.com/erp/distribution/internal/application/inventory"
	appshared "github.com/erp/distribution/internal/application/shared"
	"github.com/erp/distribution/internal/domain/catalog"
	"github.com/erp/distribution/internal/domain/field"
	"github.com/erp/distribution/internal/domain/inventory"
	"github.com/erp/distribution/internal/domain/partner"
	"github.com/erp/distribution/internal/domain/shared"
	"github.com/erp/distribution/internal/domain/trade"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// orderNumberAttempts bounds retries when two orders race for the same day sequence
const orderNumberAttempts = 3

// OrderService handles order placement and fulfilment
type OrderService struct {
	orderRepo      trade.OrderRepository
	customerRepo   partner.CustomerRepository
	agentRepo      field.AgentRepository
	productRepo    catalog.ProductRepository
	warehouseRepo  inventory.WarehouseRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
	metrics        appshared.BusinessMetrics
	log            *zap.Logger
}

// OrderServiceDeps groups the collaborators of OrderService
type OrderServiceDeps struct {
	Orders     trade.OrderRepository
	Customers  partner.CustomerRepository
	Agents     field.AgentRepository
	Products   catalog.ProductRepository
	Warehouses inventory.WarehouseRepository
	TxScope    TransactionScope
	Metrics    appshared.BusinessMetrics
	Logger     *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(deps OrderServiceDeps) *OrderService {
	s := &OrderService{
		orderRepo:     deps.Orders,
		customerRepo:  deps.Customers,
		agentRepo:     deps.Agents,
		productRepo:   deps.Products,
		warehouseRepo: deps.Warehouses,
		txScope:       deps.TxScope,
		metrics:       deps.Metrics,
		log:           deps.Logger,
	}
	if s.metrics == nil {
		s.metrics = appshared.NopMetrics{}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

// SetEventPublisher sets the publisher for order events
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create validates references, prices the lines and stores a pending order
func (s *OrderService) Create(ctx context.Context, tenantID uuid.UUID, req CreateOrderRequest) (*OrderResponse, error) {
	if len(req.Items) == 0 {
		return nil, shared.NewValidationError("items must not be empty")
	}
	if err := s.checkReferences(ctx, tenantID, req); err != nil {
		return nil, err
	}
	products, err := s.loadProducts(ctx, tenantID, req.Items)
	if err != nil {
		return nil, err
	}

	var order *trade.Order
	for attempt := 1; ; attempt++ {
		order, err = s.buildOrder(ctx, tenantID, req, products)
		if err != nil {
			return nil, err
		}
		// header and items insert together or not at all
		err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			return repos.OrderRepo().Create(ctx, order)
		})
		if err == nil {
			break
		}
		if !errors.Is(err, shared.ErrAlreadyExists) || attempt == orderNumberAttempts {
			return nil, err
		}
		s.log.Warn("order number taken, retrying",
			zap.String("order_number", order.OrderNumber), zap.Int("attempt", attempt))
	}

	s.metrics.OrderCreated(ctx, order.TotalAmount)
	s.publish(ctx, order)
	response := ToOrderResponse(order)
	return &response, nil
}

// GetByID returns an order with its items
func (s *OrderService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// List returns a page of orders
func (s *OrderService) List(ctx context.Context, tenantID uuid.UUID, filter OrderListFilter) ([]OrderResponse, int64, error) {
	f := filter.Filter().
		With("order_status", filter.OrderStatus).
		With("payment_status", filter.PaymentStatus).
		With("customer_id", filter.CustomerID).
		With("salesman_id", filter.SalesmanID)
	if filter.DateFrom != nil {
		f = f.With("date_from", shared.DateOf(*filter.DateFrom))
	}
	if filter.DateTo != nil {
		f = f.With("date_to", shared.DateOf(*filter.DateTo))
	}
	orders, err := s.orderRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	return appshared.MapSlice(orders, ToOrderResponse), total, nil
}

// ListByCustomer returns a page of one customer's orders
func (s *OrderService) ListByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, filter OrderListFilter) ([]OrderResponse, int64, error) {
	if _, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID); err != nil {
		return nil, 0, err
	}
	filter.CustomerID = &customerID
	return s.List(ctx, tenantID, filter)
}

// Update applies a status transition with its stock effects, and the
// payment status, delivery date and notes, in one transaction
func (s *OrderService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateOrderRequest) (*OrderResponse, error) {
	return s.mutate(ctx, tenantID, id, func(order *trade.Order) error {
		if req.OrderStatus != "" {
			if err := order.ChangeStatus(trade.OrderStatus(req.OrderStatus)); err != nil {
				return err
			}
		}
		if req.PaymentStatus != "" {
			if err := order.SetPaymentStatus(trade.PaymentStatus(req.PaymentStatus)); err != nil {
				return err
			}
		}
		if req.DeliveryDate != nil || req.Notes != nil {
			order.UpdateDetails(req.DeliveryDate, req.Notes)
		}
		return nil
	})
}

// Cancel soft-cancels an order that is neither delivered nor cancelled
func (s *OrderService) Cancel(ctx context.Context, tenantID, id uuid.UUID) (*OrderResponse, error) {
	return s.mutate(ctx, tenantID, id, func(order *trade.Order) error {
		return order.Cancel()
	})
}

// SetPaymentStatus mirrors an invoice's payment state onto its order.
// It runs on the caller's order repository so it can join a transaction.
func SetPaymentStatus(ctx context.Context, orders trade.OrderRepository, tenantID, id uuid.UUID, status trade.PaymentStatus) error {
	order, err := orders.FindByIDForUpdate(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if order.PaymentStatus == status || order.OrderStatus == trade.OrderStatusCancelled {
		return nil
	}
	expected := order.Version
	if err := order.SetPaymentStatus(status); err != nil {
		return err
	}
	return orders.SaveWithLock(ctx, order, expected)
}

func (s *OrderService) mutate(ctx context.Context, tenantID, id uuid.UUID, fn func(*trade.Order) error) (*OrderResponse, error) {
	var order *trade.Order
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.OrderRepo().FindByIDForUpdate(ctx, tenantID, id)
		if err != nil {
			return err
		}
		expected := order.Version
		from := order.OrderStatus
		if err := fn(order); err != nil {
			return err
		}
		if err := s.applyStock(ctx, repos, order, from); err != nil {
			return err
		}
		return repos.OrderRepo().SaveWithLock(ctx, order, expected)
	})
	if err != nil {
		return nil, err
	}

	for _, e := range order.GetDomainEvents() {
		if e.EventType() == trade.EventTypeOrderDelivered {
			s.metrics.OrderDelivered(ctx)
		}
	}
	s.publish(ctx, order)
	response := ToOrderResponse(order)
	return &response, nil
}

// applyStock reserves on confirm, issues reserved stock on delivery and
// releases the reservation on cancel
func (s *OrderService) applyStock(ctx context.Context, repos TransactionalRepositories, order *trade.Order, from trade.OrderStatus) error {
	to := order.OrderStatus
	if order.WarehouseID == nil || from == to {
		return nil
	}

	var change inventoryapp.Change
	switch {
	case to == trade.OrderStatusConfirmed:
		change.Type = inventory.MovementReserve
	case to == trade.OrderStatusDelivered && from.HoldsReservation():
		change.Type = inventory.MovementOut
		change.FromReserved = true
	case to == trade.OrderStatusCancelled && from.HoldsReservation():
		change.Type = inventory.MovementRelease
	default:
		return nil
	}

	ledger := inventoryapp.NewLedger(repos.StockRepo(), repos.MovementRepo())
	quantities := order.ProductQuantities()
	// Sorted so concurrent orders touch stock rows in the same order
	productIDs := slices.SortedFunc(maps.Keys(quantities), func(a, b uuid.UUID) int {
		return slices.Compare(a[:], b[:])
	})
	for _, productID := range productIDs {
		change.TenantID = order.TenantID
		change.WarehouseID = *order.WarehouseID
		change.ProductID = productID
		change.Quantity = quantities[productID]
		change.ReferenceType = inventory.ReferenceOrder
		change.ReferenceID = &order.ID
		change.Notes = order.OrderNumber
		if _, err := ledger.Apply(ctx, change); err != nil {
			return err
		}
	}
	return nil
}

func (s *OrderService) checkReferences(ctx context.Context, tenantID uuid.UUID, req CreateOrderRequest) error {
	if _, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, req.CustomerID); err != nil {
		return notFoundAsValidation(err, "customer does not exist")
	}
	if req.SalesmanID != nil {
		if _, err := s.agentRepo.FindByIDForTenant(ctx, tenantID, *req.SalesmanID); err != nil {
			return notFoundAsValidation(err, "salesman does not exist")
		}
	}
	if req.WarehouseID != nil {
		warehouse, err := s.warehouseRepo.FindByIDForTenant(ctx, tenantID, *req.WarehouseID)
		if err != nil {
			return notFoundAsValidation(err, "warehouse does not exist")
		}
		if !warehouse.IsActive() {
			return shared.NewInvalidStateError("warehouse %s is inactive", warehouse.Code)
		}
	}
	return nil
}

func (s *OrderService) loadProducts(ctx context.Context, tenantID uuid.UUID, items []CreateOrderItemInput) (map[uuid.UUID]catalog.Product, error) {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if !slices.Contains(ids, item.ProductID) {
			ids = append(ids, item.ProductID)
		}
	}
	products, err := s.productRepo.FindByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		p, ok := products[id]
		if !ok {
			return nil, shared.NewValidationError("product %s does not exist", id)
		}
		if !p.IsSellable() {
			return nil, shared.NewValidationError("product %s is not active", p.Code)
		}
	}
	return products, nil
}

func (s *OrderService) buildOrder(ctx context.Context, tenantID uuid.UUID, req CreateOrderRequest, products map[uuid.UUID]catalog.Product) (*trade.Order, error) {
	seq, err := s.orderRepo.CountForDay(ctx, tenantID, req.OrderDate)
	if err != nil {
		return nil, err
	}
	order, err := trade.NewOrder(tenantID, trade.FormatOrderNumber(req.OrderDate, seq+1), req.CustomerID, req.OrderDate)
	if err != nil {
		return nil, err
	}
	order.AssignSalesman(req.SalesmanID)
	order.AssignWarehouse(req.WarehouseID)
	order.PaymentMethod = req.PaymentMethod
	order.Notes = req.Notes
	if req.DeliveryDate != nil {
		d := shared.DateOf(*req.DeliveryDate)
		order.DeliveryDate = &d
	}

	for _, item := range req.Items {
		product := products[item.ProductID]
		in := trade.LineInput{
			ProductID:          item.ProductID,
			Quantity:           item.Quantity,
			UnitPrice:          product.SellingPrice,
			DiscountPercentage: item.DiscountPercentage,
			TaxPercentage:      product.TaxRate,
		}
		if item.UnitPrice != nil {
			in.UnitPrice = *item.UnitPrice
		}
		if item.TaxPercentage != nil {
			in.TaxPercentage = *item.TaxPercentage
		}
		if _, err := order.AddLine(in); err != nil {
			return nil, err
		}
	}
	order.Version = 1
	return order, nil
}

func (s *OrderService) publish(ctx context.Context, order *trade.Order) {
	events := order.GetDomainEvents()
	order.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.log.Error("failed to publish order events",
			zap.String("order_id", order.ID.String()), zap.Error(err))
	}
}

func notFoundAsValidation(err error, msg string) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewValidationError("%s", msg)
	}
	return err
}

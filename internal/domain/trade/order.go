package trade

import (
	"fmt"
	"slices"
	"time"

	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the fulfilment status of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:  {OrderStatusProcessing, OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusDelivered, OrderStatusCancelled},
}

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	return slices.Contains(orderTransitions[s], target)
}

// IsTerminal reports whether no further transitions are possible
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// HoldsReservation reports whether stock is reserved for an order in this status
func (s OrderStatus) HoldsReservation() bool {
	return s == OrderStatusConfirmed || s == OrderStatusProcessing
}

// PaymentStatus represents the payment state of an order
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPartial   PaymentStatus = "partial"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// IsValid checks if the payment status is known
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPartial, PaymentStatusPaid, PaymentStatusCancelled:
		return true
	}
	return false
}

// Order is a customer sales order with its line items
type Order struct {
	shared.TenantAggregateRoot
	OrderNumber    string          `gorm:"type:varchar(50);not null;index"`
	CustomerID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	SalesmanID     *uuid.UUID      `gorm:"type:uuid;index"`
	WarehouseID    *uuid.UUID      `gorm:"type:uuid;index"`
	OrderDate      time.Time       `gorm:"type:date;not null;index"`
	DeliveryDate   *time.Time      `gorm:"type:date"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	PaymentMethod  string          `gorm:"type:varchar(30)"`
	PaymentStatus  PaymentStatus   `gorm:"type:varchar(20);not null;default:'pending';index"`
	OrderStatus    OrderStatus     `gorm:"type:varchar(20);not null;default:'pending';index"`
	Notes          string          `gorm:"type:text"`
	Items          []OrderItem     `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// OrderItem is a priced order line
type OrderItem struct {
	shared.BaseEntity
	TenantID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity           int64           `gorm:"not null"`
	UnitPrice          decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	DiscountPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	TaxPercentage      decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	LineTotal          decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// NewOrder creates a pending order. Lines are added with AddLine.
func NewOrder(tenantID uuid.UUID, orderNumber string, customerID uuid.UUID, orderDate time.Time) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewValidationError("order number is required")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("customer_id is required")
	}
	if orderDate.IsZero() {
		return nil, shared.NewValidationError("order_date is required")
	}
	o := &Order{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OrderNumber:         orderNumber,
		CustomerID:          customerID,
		OrderDate:           shared.DateOf(orderDate),
		PaymentStatus:       PaymentStatusPending,
		OrderStatus:         OrderStatusPending,
		Subtotal:            decimal.Zero,
		DiscountAmount:      decimal.Zero,
		TaxAmount:           decimal.Zero,
		TotalAmount:         decimal.Zero,
	}
	o.AddDomainEvent(NewOrderCreatedEvent(o))
	return o, nil
}

// AddLine prices a line and adds it to the order totals
func (o *Order) AddLine(in LineInput) (*OrderItem, error) {
	amounts, err := CalculateLine(in)
	if err != nil {
		return nil, err
	}
	item := OrderItem{
		BaseEntity:         shared.NewBaseEntity(),
		TenantID:           o.TenantID,
		OrderID:            o.ID,
		ProductID:          in.ProductID,
		Quantity:           in.Quantity,
		UnitPrice:          in.UnitPrice,
		DiscountPercentage: in.DiscountPercentage,
		TaxPercentage:      in.TaxPercentage,
		LineTotal:          amounts.Total,
	}
	o.Items = append(o.Items, item)
	o.Subtotal = o.Subtotal.Add(amounts.Subtotal)
	o.DiscountAmount = o.DiscountAmount.Add(amounts.Discount)
	o.TaxAmount = o.TaxAmount.Add(amounts.Tax)
	o.TotalAmount = o.Subtotal.Sub(o.DiscountAmount).Add(o.TaxAmount)
	return &o.Items[len(o.Items)-1], nil
}

// AssignSalesman sets the salesman (agent) credited with the order
func (o *Order) AssignSalesman(id *uuid.UUID) {
	o.SalesmanID = id
}

// AssignWarehouse sets the warehouse stock is reserved from
func (o *Order) AssignWarehouse(id *uuid.UUID) {
	o.WarehouseID = id
}

// ChangeStatus moves the order along the fulfilment state machine
func (o *Order) ChangeStatus(target OrderStatus) error {
	if !target.IsValid() {
		return shared.NewValidationError("invalid order_status %q", target)
	}
	if o.OrderStatus == target {
		return nil
	}
	if !o.OrderStatus.CanTransitionTo(target) {
		return shared.NewInvalidStateError("cannot change order from %s to %s", o.OrderStatus, target)
	}
	from := o.OrderStatus
	o.OrderStatus = target
	switch target {
	case OrderStatusCancelled:
		o.PaymentStatus = PaymentStatusCancelled
		o.AddDomainEvent(NewOrderCancelledEvent(o, from))
	case OrderStatusDelivered:
		if o.DeliveryDate == nil {
			today := shared.DateOf(time.Now())
			o.DeliveryDate = &today
		}
		o.AddDomainEvent(NewOrderDeliveredEvent(o))
	default:
		o.AddDomainEvent(NewOrderStatusChangedEvent(o, from))
	}
	o.IncrementVersion()
	return nil
}

// Cancel soft-deletes the order
func (o *Order) Cancel() error {
	if o.OrderStatus.IsTerminal() {
		return shared.NewInvalidStateError("cannot cancel a %s order", o.OrderStatus)
	}
	return o.ChangeStatus(OrderStatusCancelled)
}

// SetPaymentStatus records the payment state of the order
func (o *Order) SetPaymentStatus(status PaymentStatus) error {
	if !status.IsValid() {
		return shared.NewValidationError("invalid payment_status %q", status)
	}
	if o.OrderStatus == OrderStatusCancelled && status != PaymentStatusCancelled {
		return shared.NewInvalidStateError("order is cancelled")
	}
	o.PaymentStatus = status
	o.IncrementVersion()
	return nil
}

// UpdateDetails changes delivery date and notes
func (o *Order) UpdateDetails(deliveryDate *time.Time, notes *string) {
	if deliveryDate != nil {
		d := shared.DateOf(*deliveryDate)
		o.DeliveryDate = &d
	}
	if notes != nil {
		o.Notes = *notes
	}
	o.IncrementVersion()
}

// ProductQuantities sums ordered quantity per product
func (o *Order) ProductQuantities() map[uuid.UUID]int64 {
	out := make(map[uuid.UUID]int64, len(o.Items))
	for _, item := range o.Items {
		out[item.ProductID] += item.Quantity
	}
	return out
}

// FormatOrderNumber builds ORD-YYYYMMDD-NNNN from the day's sequence
func FormatOrderNumber(day time.Time, seq int64) string {
	return fmt.Sprintf("ORD-%s-%04d", day.Format("20060102"), seq)
}

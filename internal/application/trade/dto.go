package trade

import (
	"time"

	appshared "github.com/erp/distribution/internal/application/shared"
	"github.com/erp/distribution/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateOrderItemInput is one requested order line. Price and tax default
// to the product's selling price and tax rate.
type CreateOrderItemInput struct {
	ProductID          uuid.UUID        `json:"product_id" binding:"required"`
	Quantity           int64            `json:"quantity" binding:"required,gt=0"`
	UnitPrice          *decimal.Decimal `json:"unit_price"`
	DiscountPercentage decimal.Decimal  `json:"discount_percentage"`
	TaxPercentage      *decimal.Decimal `json:"tax_percentage"`
}

// CreateOrderRequest represents a request to place an order
type CreateOrderRequest struct {
	CustomerID    uuid.UUID              `json:"customer_id" binding:"required"`
	SalesmanID    *uuid.UUID             `json:"salesman_id"`
	WarehouseID   *uuid.UUID             `json:"warehouse_id"`
	OrderDate     time.Time              `json:"order_date" binding:"required"`
	DeliveryDate  *time.Time             `json:"delivery_date"`
	PaymentMethod string                 `json:"payment_method" binding:"max=30"`
	Notes         string                 `json:"notes"`
	Items         []CreateOrderItemInput `json:"items" binding:"required,min=1,dive"`
}

// UpdateOrderRequest changes status, payment status, delivery date or notes
type UpdateOrderRequest struct {
	OrderStatus   string     `json:"order_status" binding:"omitempty,oneof=pending confirmed processing delivered cancelled"`
	PaymentStatus string     `json:"payment_status" binding:"omitempty,oneof=pending partial paid cancelled"`
	DeliveryDate  *time.Time `json:"delivery_date"`
	Notes         *string    `json:"notes"`
}

// OrderListFilter is the query of GET /orders
type OrderListFilter struct {
	appshared.PageQuery
	OrderStatus   string     `form:"order_status" binding:"omitempty,oneof=pending confirmed processing delivered cancelled"`
	PaymentStatus string     `form:"payment_status" binding:"omitempty,oneof=pending partial paid cancelled"`
	CustomerID    *uuid.UUID `form:"customer_id"`
	SalesmanID    *uuid.UUID `form:"salesman_id"`
	DateFrom      *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo        *time.Time `form:"date_to" time_format:"2006-01-02"`
}

// OrderItemResponse is the API representation of an order line
type OrderItemResponse struct {
	ID                 uuid.UUID       `json:"id"`
	ProductID          uuid.UUID       `json:"product_id"`
	Quantity           int64           `json:"quantity"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	TaxPercentage      decimal.Decimal `json:"tax_percentage"`
	LineTotal          decimal.Decimal `json:"line_total"`
}

// OrderResponse is the API representation of an order
type OrderResponse struct {
	ID             uuid.UUID           `json:"id"`
	OrderNumber    string              `json:"order_number"`
	CustomerID     uuid.UUID           `json:"customer_id"`
	SalesmanID     *uuid.UUID          `json:"salesman_id,omitempty"`
	WarehouseID    *uuid.UUID          `json:"warehouse_id,omitempty"`
	OrderDate      time.Time           `json:"order_date"`
	DeliveryDate   *time.Time          `json:"delivery_date,omitempty"`
	Subtotal       decimal.Decimal     `json:"subtotal"`
	DiscountAmount decimal.Decimal     `json:"discount_amount"`
	TaxAmount      decimal.Decimal     `json:"tax_amount"`
	TotalAmount    decimal.Decimal     `json:"total_amount"`
	PaymentMethod  string              `json:"payment_method,omitempty"`
	PaymentStatus  string              `json:"payment_status"`
	OrderStatus    string              `json:"order_status"`
	Notes          string              `json:"notes,omitempty"`
	Items          []OrderItemResponse `json:"items"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
	Version        int                 `json:"version"`
}

// ToOrderResponse converts a domain Order to OrderResponse
func ToOrderResponse(o *trade.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			ID:                 item.ID,
			ProductID:          item.ProductID,
			Quantity:           item.Quantity,
			UnitPrice:          item.UnitPrice,
			DiscountPercentage: item.DiscountPercentage,
			TaxPercentage:      item.TaxPercentage,
			LineTotal:          item.LineTotal,
		}
	}
	return OrderResponse{
		ID:             o.ID,
		OrderNumber:    o.OrderNumber,
		CustomerID:     o.CustomerID,
		SalesmanID:     o.SalesmanID,
		WarehouseID:    o.WarehouseID,
		OrderDate:      o.OrderDate,
		DeliveryDate:   o.DeliveryDate,
		Subtotal:       o.Subtotal,
		DiscountAmount: o.DiscountAmount,
		TaxAmount:      o.TaxAmount,
		TotalAmount:    o.TotalAmount,
		PaymentMethod:  o.PaymentMethod,
		PaymentStatus:  string(o.PaymentStatus),
		OrderStatus:    string(o.OrderStatus),
		Notes:          o.Notes,
		Items:          items,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
		Version:        o.Version,
	}
}

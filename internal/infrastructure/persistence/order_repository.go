package persistence

import (
	"context"
	"time"

	"github.com/erp/distribution/internal/domain/shared"
	"github.com/erp/distribution/internal/domain/trade"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements trade.OrderRepository. Finders preload items.
type GormOrderRepository struct {
	TenantStore[trade.Order]
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{NewTenantStore[trade.Order](db, QuerySpec{
		Filters: map[string]string{
			"order_status":   "order_status",
			"payment_status": "payment_status",
			"customer_id":    "customer_id",
			"salesman_id":    "salesman_id",
			"warehouse_id":   "warehouse_id",
			"date_from":      "order_date >= ?",
			"date_to":        "order_date <= ?",
		},
		Search:  []string{"order_number"},
		Sort:    OrderSortFields,
		Preload: []string{"Items"},
	})}
}

// FindByIDForUpdate locks the order row for the rest of the transaction
func (r *GormOrderRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*trade.Order, error) {
	var o trade.Order
	err := r.DB(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&o).Error
	if err != nil {
		return nil, translateError(err)
	}
	if err := r.DB(ctx).Where("order_id = ?", o.ID).Order("created_at ASC").Find(&o.Items).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// CountForDay counts orders dated on day
func (r *GormOrderRepository) CountForDay(ctx context.Context, tenantID uuid.UUID, day time.Time) (int64, error) {
	start := shared.DateOf(day)
	var n int64
	err := r.scoped(ctx, tenantID).
		Where("order_date >= ? AND order_date < ?", start, start.AddDate(0, 0, 1)).
		Count(&n).Error
	return n, err
}

// ExistsForCustomer reports whether the customer has any order
func (r *GormOrderRepository) ExistsForCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (bool, error) {
	return r.Exists(ctx, tenantID, "customer_id = ?", customerID)
}

var _ trade.OrderRepository = (*GormOrderRepository)(nil)

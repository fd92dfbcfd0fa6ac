package persistence

import (
	"context"

	"github.com/erp/distribution/internal/domain/partner"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCustomerRepository implements partner.CustomerRepository
type GormCustomerRepository struct {
	TenantStore[partner.Customer]
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{NewTenantStore[partner.Customer](db, QuerySpec{
		Filters: map[string]string{
			"type":     "type",
			"status":   "status",
			"route_id": "route_id",
		},
		Search: []string{"name", "code", "phone"},
		Sort:   CustomerSortFields,
	})}
}

// FindByRoute returns the customers assigned to a route ordered by name
func (r *GormCustomerRepository) FindByRoute(ctx context.Context, tenantID, routeID uuid.UUID) ([]partner.Customer, error) {
	var customers []partner.Customer
	err := r.DB(ctx).
		Where("tenant_id = ? AND route_id = ?", tenantID, routeID).
		Order("name ASC").
		Find(&customers).Error
	return customers, err
}

// AssignRoute moves the given customers onto a route
func (r *GormCustomerRepository) AssignRoute(ctx context.Context, tenantID, routeID uuid.UUID, customerIDs []uuid.UUID) (int64, error) {
	if len(customerIDs) == 0 {
		return 0, nil
	}
	res := r.DB(ctx).Model(&partner.Customer{}).
		Where("tenant_id = ? AND id IN ?", tenantID, customerIDs).
		Updates(map[string]any{
			"route_id": routeID,
			"version":  gorm.Expr("version + 1"),
		})
	return res.RowsAffected, res.Error
}

var _ partner.CustomerRepository = (*GormCustomerRepository)(nil)

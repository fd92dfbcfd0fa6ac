package persistence

import (
	"github.com/erp/distribution/internal/domain/field"
	"gorm.io/gorm"
)

// GormAgentRepository implements field.AgentRepository
type GormAgentRepository struct {
	TenantStore[field.Agent]
}

// NewGormAgentRepository creates a new GormAgentRepository
func NewGormAgentRepository(db *gorm.DB) *GormAgentRepository {
	return &GormAgentRepository{NewTenantStore[field.Agent](db, QuerySpec{
		Filters: map[string]string{"type": "type", "status": "status"},
		Search:  []string{"name", "code", "phone"},
		Sort:    AgentSortFields,
	})}
}

// GormRouteRepository implements field.RouteRepository
type GormRouteRepository struct {
	TenantStore[field.Route]
}

// NewGormRouteRepository creates a new GormRouteRepository
func NewGormRouteRepository(db *gorm.DB) *GormRouteRepository {
	return &GormRouteRepository{NewTenantStore[field.Route](db, QuerySpec{
		Filters: map[string]string{"status": "status", "salesman_id": "salesman_id", "area": "area"},
		Search:  []string{"name", "code", "area"},
		Sort:    RouteSortFields,
	})}
}

// GormVisitRepository implements field.VisitRepository
type GormVisitRepository struct {
	TenantStore[field.Visit]
}

// NewGormVisitRepository creates a new GormVisitRepository
func NewGormVisitRepository(db *gorm.DB) *GormVisitRepository {
	return &GormVisitRepository{NewTenantStore[field.Visit](db, QuerySpec{
		Filters: map[string]string{
			"agent_id":    "agent_id",
			"customer_id": "customer_id",
			"route_id":    "route_id",
			"status":      "status",
			"visit_date":  "visit_date",
		},
		Sort: VisitSortFields,
	})}
}

var (
	_ field.AgentRepository = (*GormAgentRepository)(nil)
	_ field.RouteRepository = (*GormRouteRepository)(nil)
	_ field.VisitRepository = (*GormVisitRepository)(nil)
)

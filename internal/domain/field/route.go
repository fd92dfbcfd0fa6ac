package field

import (
	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
)

// RouteStatus represents whether a route is in use
type RouteStatus string

const (
	RouteStatusActive   RouteStatus = "active"
	RouteStatusInactive RouteStatus = "inactive"
)

// Route is a sales territory served by one salesman
type Route struct {
	shared.TenantAggregateRoot
	Code       string      `gorm:"type:varchar(50);not null;index"`
	Name       string      `gorm:"type:varchar(200);not null"`
	Area       string      `gorm:"type:varchar(200)"`
	SalesmanID *uuid.UUID  `gorm:"type:uuid;index"`
	Status     RouteStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Route) TableName() string {
	return "routes"
}

// NewRoute creates an active route
func NewRoute(tenantID uuid.UUID, code, name, area string, salesmanID *uuid.UUID) (*Route, error) {
	code, err := shared.NormalizeCode(code, 50)
	if err != nil {
		return nil, err
	}
	name, err = shared.RequireName(name, 200)
	if err != nil {
		return nil, err
	}
	return &Route{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		Name:                name,
		Area:                area,
		SalesmanID:          salesmanID,
		Status:              RouteStatusActive,
	}, nil
}

// Update changes the route; empty name and status are left unchanged
func (r *Route) Update(name, area string, salesmanID *uuid.UUID, status RouteStatus) error {
	if name != "" {
		n, err := shared.RequireName(name, 200)
		if err != nil {
			return err
		}
		r.Name = n
	}
	switch status {
	case "":
	case RouteStatusActive, RouteStatusInactive:
		r.Status = status
	default:
		return shared.NewValidationError("invalid route status %q", status)
	}
	r.Area = area
	r.SalesmanID = salesmanID
	r.IncrementVersion()
	return nil
}

package field

import (
	"context"
	"errors"

	appshared "github.com/erp/distribution/internal/application/shared"
	"github.com/erp/distribution/internal/domain/field"
	"github.com/erp/distribution/internal/domain/partner"
	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
)

// RouteService handles routes and their customer assignments
type RouteService struct {
	routeRepo    field.RouteRepository
	agentRepo    field.AgentRepository
	customerRepo partner.CustomerRepository
}

// NewRouteService creates a new RouteService
func NewRouteService(routeRepo field.RouteRepository, agentRepo field.AgentRepository, customerRepo partner.CustomerRepository) *RouteService {
	return &RouteService{routeRepo: routeRepo, agentRepo: agentRepo, customerRepo: customerRepo}
}

// Create creates a route
func (s *RouteService) Create(ctx context.Context, tenantID uuid.UUID, req CreateRouteRequest) (*RouteResponse, error) {
	exists, err := s.routeRepo.ExistsByCode(ctx, tenantID, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Route with this code already exists")
	}
	if err := s.checkSalesman(ctx, tenantID, req.SalesmanID); err != nil {
		return nil, err
	}
	route, err := field.NewRoute(tenantID, req.Code, req.Name, req.Area, req.SalesmanID)
	if err != nil {
		return nil, err
	}
	if err := s.routeRepo.Create(ctx, route); err != nil {
		return nil, err
	}
	response := ToRouteResponse(route)
	return &response, nil
}

// GetByID retrieves a route
func (s *RouteService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*RouteResponse, error) {
	route, err := s.routeRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToRouteResponse(route)
	return &response, nil
}

// List returns a page of routes
func (s *RouteService) List(ctx context.Context, tenantID uuid.UUID, filter RouteListFilter) ([]RouteResponse, int64, error) {
	f := filter.Filter().With("salesman_id", filter.SalesmanID).With("status", filter.Status)
	routes, err := s.routeRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.routeRepo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	return appshared.MapSlice(routes, ToRouteResponse), total, nil
}

// Update changes a route
func (s *RouteService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateRouteRequest) (*RouteResponse, error) {
	route, err := s.routeRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	salesmanID := route.SalesmanID
	if req.SalesmanID != nil {
		if err := s.checkSalesman(ctx, tenantID, req.SalesmanID); err != nil {
			return nil, err
		}
		salesmanID = req.SalesmanID
	}
	area := route.Area
	if req.Area != nil {
		area = *req.Area
	}
	if err := route.Update(req.Name, area, salesmanID, field.RouteStatus(req.Status)); err != nil {
		return nil, err
	}
	if err := s.routeRepo.Save(ctx, route); err != nil {
		return nil, err
	}
	response := ToRouteResponse(route)
	return &response, nil
}

// Delete removes a route
func (s *RouteService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.routeRepo.DeleteForTenant(ctx, tenantID, id)
}

// Customers lists the customers assigned to a route
func (s *RouteService) Customers(ctx context.Context, tenantID, routeID uuid.UUID) ([]RouteCustomerResponse, error) {
	if _, err := s.routeRepo.FindByIDForTenant(ctx, tenantID, routeID); err != nil {
		return nil, err
	}
	customers, err := s.customerRepo.FindByRoute(ctx, tenantID, routeID)
	if err != nil {
		return nil, err
	}
	return appshared.MapSlice(customers, func(c *partner.Customer) RouteCustomerResponse {
		return RouteCustomerResponse{
			ID:      c.ID,
			Code:    c.Code,
			Name:    c.Name,
			Phone:   c.Phone,
			Address: c.Address,
			Status:  string(c.Status),
		}
	}), nil
}

// AssignCustomers moves the given customers onto the route. Every id must
// belong to the tenant.
func (s *RouteService) AssignCustomers(ctx context.Context, tenantID, routeID uuid.UUID, req AssignCustomersRequest) (*AssignCustomersResponse, error) {
	if len(req.CustomerIDs) == 0 {
		return nil, shared.NewValidationError("customer_ids must not be empty")
	}
	if _, err := s.routeRepo.FindByIDForTenant(ctx, tenantID, routeID); err != nil {
		return nil, err
	}
	ids := uniqueIDs(req.CustomerIDs)
	for _, id := range ids {
		if _, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, id); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewValidationError("customer %s does not exist", id)
			}
			return nil, err
		}
	}
	n, err := s.customerRepo.AssignRoute(ctx, tenantID, routeID, ids)
	if err != nil {
		return nil, err
	}
	return &AssignCustomersResponse{RouteID: routeID, Assigned: n}, nil
}

func (s *RouteService) checkSalesman(ctx context.Context, tenantID uuid.UUID, salesmanID *uuid.UUID) error {
	if salesmanID == nil {
		return nil
	}
	if _, err := s.agentRepo.FindByIDForTenant(ctx, tenantID, *salesmanID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewValidationError("salesman does not exist")
		}
		return err
	}
	return nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

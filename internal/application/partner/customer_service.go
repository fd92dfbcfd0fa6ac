// Package partner contains the customer use cases.
package partner

import (
	"context"

	appshared "github.com/erp/distribution/internal/application/shared"
	"github.com/erp/distribution/internal/domain/partner"
	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderLookup reports whether a customer has orders
type OrderLookup interface {
	ExistsForCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (bool, error)
}

// CustomerService handles customer-related business operations
type CustomerService struct {
	customerRepo partner.CustomerRepository
	orders       OrderLookup
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository, orders OrderLookup) *CustomerService {
	return &CustomerService{customerRepo: customerRepo, orders: orders}
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, tenantID uuid.UUID, req CreateCustomerRequest) (*CustomerResponse, error) {
	exists, err := s.customerRepo.ExistsByCode(ctx, tenantID, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer with this code already exists")
	}

	customer, err := partner.NewCustomer(tenantID, req.Code, req.Name, partner.CustomerType(req.Type))
	if err != nil {
		return nil, err
	}
	if err := customer.UpdateContact("", req.Phone, req.Email, req.Address); err != nil {
		return nil, err
	}
	if req.Latitude != nil || req.Longitude != nil {
		if err := customer.SetLocation(req.Latitude, req.Longitude); err != nil {
			return nil, err
		}
	}
	limit := decimal.Zero
	if req.CreditLimit != nil {
		limit = *req.CreditLimit
	}
	if err := customer.SetCreditTerms(limit, req.PaymentTerms); err != nil {
		return nil, err
	}
	if req.RouteID != nil {
		customer.AssignRoute(req.RouteID)
	}
	customer.Version = 1

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, tenantID, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// List returns a page of customers and the total count
func (s *CustomerService) List(ctx context.Context, tenantID uuid.UUID, filter CustomerListFilter) ([]CustomerResponse, int64, error) {
	f := filter.Filter().
		With("type", filter.Type).
		With("status", filter.Status).
		With("route_id", filter.RouteID)

	customers, err := s.customerRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.customerRepo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	return appshared.MapSlice(customers, ToCustomerResponse), total, nil
}

// Update applies the non-nil fields of req
func (s *CustomerService) Update(ctx context.Context, tenantID, customerID uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Phone != nil || req.Email != nil || req.Address != nil {
		err := customer.UpdateContact(
			deref(req.Name, customer.Name),
			deref(req.Phone, customer.Phone),
			deref(req.Email, customer.Email),
			deref(req.Address, customer.Address),
		)
		if err != nil {
			return nil, err
		}
	}
	if req.Type != nil {
		if err := customer.SetType(partner.CustomerType(*req.Type)); err != nil {
			return nil, err
		}
	}
	if req.Status != nil {
		if err := customer.SetStatus(partner.CustomerStatus(*req.Status)); err != nil {
			return nil, err
		}
	}
	if req.Latitude != nil || req.Longitude != nil {
		lat, lng := customer.Latitude, customer.Longitude
		if req.Latitude != nil {
			lat = req.Latitude
		}
		if req.Longitude != nil {
			lng = req.Longitude
		}
		if err := customer.SetLocation(lat, lng); err != nil {
			return nil, err
		}
	}
	if req.CreditLimit != nil || req.PaymentTerms != nil {
		limit, terms := customer.CreditLimit, customer.PaymentTerms
		if req.CreditLimit != nil {
			limit = *req.CreditLimit
		}
		if req.PaymentTerms != nil {
			terms = *req.PaymentTerms
		}
		if err := customer.SetCreditTerms(limit, terms); err != nil {
			return nil, err
		}
	}
	if req.RouteID != nil {
		customer.AssignRoute(req.RouteID)
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// Delete removes a customer without orders
func (s *CustomerService) Delete(ctx context.Context, tenantID, customerID uuid.UUID) error {
	if _, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID); err != nil {
		return err
	}
	hasOrders, err := s.orders.ExistsForCustomer(ctx, tenantID, customerID)
	if err != nil {
		return err
	}
	if hasOrders {
		return shared.NewDomainError("CONFLICT", "Customer has orders and cannot be deleted")
	}
	return s.customerRepo.DeleteForTenant(ctx, tenantID, customerID)
}

func deref(p *string, fallback string) string {
	if p == nil {
		return fallback
	}
	return *p
}

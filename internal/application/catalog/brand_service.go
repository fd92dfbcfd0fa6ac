package catalog

import (
	"context"

	appshared "github.com/erp/distribution/internal/application/shared"
	"github.com/erp/distribution/internal/domain/catalog"
	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
)

// BrandService handles brand operations
type BrandService struct {
	brandRepo   catalog.BrandRepository
	productRepo catalog.ProductRepository
}

// NewBrandService creates a new BrandService
func NewBrandService(brandRepo catalog.BrandRepository, productRepo catalog.ProductRepository) *BrandService {
	return &BrandService{brandRepo: brandRepo, productRepo: productRepo}
}

// Create creates a brand
func (s *BrandService) Create(ctx context.Context, tenantID uuid.UUID, req CreateBrandRequest) (*BrandResponse, error) {
	exists, err := s.brandRepo.ExistsByCode(ctx, tenantID, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Brand with this code already exists")
	}
	brand, err := catalog.NewBrand(tenantID, req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.brandRepo.Create(ctx, brand); err != nil {
		return nil, err
	}
	response := ToBrandResponse(brand)
	return &response, nil
}

// GetByID retrieves a brand
func (s *BrandService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*BrandResponse, error) {
	brand, err := s.brandRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToBrandResponse(brand)
	return &response, nil
}

// List returns a page of brands
func (s *BrandService) List(ctx context.Context, tenantID uuid.UUID, filter StatusListFilter) ([]BrandResponse, int64, error) {
	f := filter.Filter().With("status", filter.Status)
	brands, err := s.brandRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.brandRepo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	return appshared.MapSlice(brands, ToBrandResponse), total, nil
}

// Update renames a brand or changes its status
func (s *BrandService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateBrandRequest) (*BrandResponse, error) {
	brand, err := s.brandRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := brand.Update(req.Name, catalog.Status(req.Status)); err != nil {
		return nil, err
	}
	if err := s.brandRepo.Save(ctx, brand); err != nil {
		return nil, err
	}
	response := ToBrandResponse(brand)
	return &response, nil
}

// Delete removes a brand no product references
func (s *BrandService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.brandRepo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	n, err := s.productRepo.CountByBrand(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return shared.NewDomainError("CONFLICT", "Brand is used by products")
	}
	return s.brandRepo.DeleteForTenant(ctx, tenantID, id)
}

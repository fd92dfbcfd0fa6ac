package catalog

import (
	"context"
	"errors"

	appshared "github.com/erp/distribution/internal/application/shared"
	"github.com/erp/distribution/internal/domain/catalog"
	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductService handles product operations
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	brandRepo    catalog.BrandRepository
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, categoryRepo catalog.CategoryRepository, brandRepo catalog.BrandRepository) *ProductService {
	return &ProductService{productRepo: productRepo, categoryRepo: categoryRepo, brandRepo: brandRepo}
}

// Create creates a product with pricing and classification
func (s *ProductService) Create(ctx context.Context, tenantID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	exists, err := s.productRepo.ExistsByCode(ctx, tenantID, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this code already exists")
	}
	if err := s.checkClassification(ctx, tenantID, req.CategoryID, req.BrandID); err != nil {
		return nil, err
	}

	product, err := catalog.NewProduct(tenantID, req.Code, req.Name, req.UnitOfMeasure)
	if err != nil {
		return nil, err
	}
	taxRate := decimal.Zero
	if req.TaxRate != nil {
		taxRate = *req.TaxRate
	}
	if err := product.SetPricing(req.SellingPrice, req.CostPrice, taxRate); err != nil {
		return nil, err
	}
	if err := product.UpdateDetails("", req.Description, req.Barcode, ""); err != nil {
		return nil, err
	}
	product.Classify(req.CategoryID, req.BrandID)
	product.Version = 1

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product
func (s *ProductService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List returns a page of products
func (s *ProductService) List(ctx context.Context, tenantID uuid.UUID, filter ProductListFilter) ([]ProductResponse, int64, error) {
	f := filter.Filter().
		With("category_id", filter.CategoryID).
		With("brand_id", filter.BrandID).
		With("status", filter.Status)
	products, err := s.productRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	return appshared.MapSlice(products, ToProductResponse), total, nil
}

// Update applies the non-nil fields of req
func (s *ProductService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Description != nil || req.Barcode != nil || req.UnitOfMeasure != nil {
		name := ""
		if req.Name != nil {
			name = *req.Name
		}
		unit := ""
		if req.UnitOfMeasure != nil {
			unit = *req.UnitOfMeasure
		}
		description, barcode := product.Description, product.Barcode
		if req.Description != nil {
			description = *req.Description
		}
		if req.Barcode != nil {
			barcode = *req.Barcode
		}
		if err := product.UpdateDetails(name, description, barcode, unit); err != nil {
			return nil, err
		}
	}
	if req.SellingPrice != nil || req.CostPrice != nil || req.TaxRate != nil {
		selling, cost, tax := product.SellingPrice, product.CostPrice, product.TaxRate
		if req.SellingPrice != nil {
			selling = *req.SellingPrice
		}
		if req.CostPrice != nil {
			cost = *req.CostPrice
		}
		if req.TaxRate != nil {
			tax = *req.TaxRate
		}
		if err := product.SetPricing(selling, cost, tax); err != nil {
			return nil, err
		}
	}
	if req.CategoryID != nil || req.BrandID != nil {
		categoryID, brandID := product.CategoryID, product.BrandID
		if req.CategoryID != nil {
			categoryID = req.CategoryID
		}
		if req.BrandID != nil {
			brandID = req.BrandID
		}
		if err := s.checkClassification(ctx, tenantID, req.CategoryID, req.BrandID); err != nil {
			return nil, err
		}
		product.Classify(categoryID, brandID)
	}
	if req.Status != nil {
		if err := product.SetStatus(catalog.Status(*req.Status)); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// Delete removes a product
func (s *ProductService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.productRepo.DeleteForTenant(ctx, tenantID, id)
}

func (s *ProductService) checkClassification(ctx context.Context, tenantID uuid.UUID, categoryID, brandID *uuid.UUID) error {
	if categoryID != nil {
		if _, err := s.categoryRepo.FindByIDForTenant(ctx, tenantID, *categoryID); err != nil {
			if isNotFound(err) {
				return shared.NewValidationError("category does not exist")
			}
			return err
		}
	}
	if brandID != nil {
		if _, err := s.brandRepo.FindByIDForTenant(ctx, tenantID, *brandID); err != nil {
			if isNotFound(err) {
				return shared.NewValidationError("brand does not exist")
			}
			return err
		}
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, shared.ErrNotFound)
}

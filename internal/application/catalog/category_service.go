// Package catalog contains the category, brand and product use cases.
package catalog

import (
	"context"

	appshared "github.com/erp/distribution/internal/application/shared"
	"github.com/erp/distribution/internal/domain/catalog"
	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
)

// CategoryService handles category operations
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
	productRepo  catalog.ProductRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo catalog.CategoryRepository, productRepo catalog.ProductRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo, productRepo: productRepo}
}

// Create creates a category, checking the code and parent
func (s *CategoryService) Create(ctx context.Context, tenantID uuid.UUID, req CreateCategoryRequest) (*CategoryResponse, error) {
	exists, err := s.categoryRepo.ExistsByCode(ctx, tenantID, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Category with this code already exists")
	}
	if err := s.checkParent(ctx, tenantID, req.ParentID); err != nil {
		return nil, err
	}

	category, err := catalog.NewCategory(tenantID, req.Code, req.Name, req.ParentID)
	if err != nil {
		return nil, err
	}
	category.Description = req.Description
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	response := ToCategoryResponse(category)
	return &response, nil
}

// GetByID retrieves a category
func (s *CategoryService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToCategoryResponse(category)
	return &response, nil
}

// List returns a page of categories
func (s *CategoryService) List(ctx context.Context, tenantID uuid.UUID, filter StatusListFilter) ([]CategoryResponse, int64, error) {
	f := filter.Filter().With("status", filter.Status)
	categories, err := s.categoryRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.categoryRepo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	return appshared.MapSlice(categories, ToCategoryResponse), total, nil
}

// Update changes a category
func (s *CategoryService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkParent(ctx, tenantID, req.ParentID); err != nil {
		return nil, err
	}
	if err := category.Update(req.Name, req.Description, req.ParentID, catalog.Status(req.Status)); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	response := ToCategoryResponse(category)
	return &response, nil
}

// Delete removes a category that has no children and no products
func (s *CategoryService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.categoryRepo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	hasChildren, err := s.categoryRepo.HasChildren(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if hasChildren {
		return shared.NewDomainError("CONFLICT", "Category has child categories")
	}
	n, err := s.productRepo.CountByCategory(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return shared.NewDomainError("CONFLICT", "Category is used by products")
	}
	return s.categoryRepo.DeleteForTenant(ctx, tenantID, id)
}

func (s *CategoryService) checkParent(ctx context.Context, tenantID uuid.UUID, parentID *uuid.UUID) error {
	if parentID == nil {
		return nil
	}
	if _, err := s.categoryRepo.FindByIDForTenant(ctx, tenantID, *parentID); err != nil {
		if isNotFound(err) {
			return shared.NewValidationError("parent category does not exist")
		}
		return err
	}
	return nil
}

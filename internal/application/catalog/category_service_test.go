package catalog

import (
	"context"
	"testing"

	"github.com/erp/distribution/internal/domain/catalog"
	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCategoryService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("creates a child category", func(t *testing.T) {
		categories := new(MockCategoryRepository)
		svc := NewCategoryService(categories, new(MockProductRepository))
		parent, _ := catalog.NewCategory(tenantID, "DRINKS", "Drinks", nil)

		categories.On("ExistsByCode", ctx, tenantID, "soda").Return(false, nil)
		categories.On("FindByIDForTenant", ctx, tenantID, parent.ID).Return(parent, nil)
		categories.On("Create", ctx, mock.AnythingOfType("*catalog.Category")).Return(nil)

		resp, err := svc.Create(ctx, tenantID, CreateCategoryRequest{Code: "soda", Name: "Soda", ParentID: &parent.ID, Description: "fizzy"})
		require.NoError(t, err)
		assert.Equal(t, "SODA", resp.Code)
		assert.Equal(t, &parent.ID, resp.ParentID)
		assert.Equal(t, "fizzy", resp.Description)
		assert.Equal(t, "active", resp.Status)
	})

	t.Run("rejects missing parent", func(t *testing.T) {
		categories := new(MockCategoryRepository)
		svc := NewCategoryService(categories, new(MockProductRepository))
		missing := uuid.New()
		categories.On("ExistsByCode", ctx, tenantID, "SODA").Return(false, nil)
		categories.On("FindByIDForTenant", ctx, tenantID, missing).Return(nil, shared.ErrNotFound)

		_, err := svc.Create(ctx, tenantID, CreateCategoryRequest{Code: "SODA", Name: "Soda", ParentID: &missing})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestCategoryService_Delete(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	category, _ := catalog.NewCategory(tenantID, "DRINKS", "Drinks", nil)

	t.Run("refuses when children exist", func(t *testing.T) {
		categories := new(MockCategoryRepository)
		svc := NewCategoryService(categories, new(MockProductRepository))
		categories.On("FindByIDForTenant", ctx, tenantID, category.ID).Return(category, nil)
		categories.On("HasChildren", ctx, tenantID, category.ID).Return(true, nil)

		err := svc.Delete(ctx, tenantID, category.ID)
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "CONFLICT", de.Code)
	})

	t.Run("refuses when products reference it", func(t *testing.T) {
		categories := new(MockCategoryRepository)
		products := new(MockProductRepository)
		svc := NewCategoryService(categories, products)
		categories.On("FindByIDForTenant", ctx, tenantID, category.ID).Return(category, nil)
		categories.On("HasChildren", ctx, tenantID, category.ID).Return(false, nil)
		products.On("CountByCategory", ctx, tenantID, category.ID).Return(int64(3), nil)

		err := svc.Delete(ctx, tenantID, category.ID)
		require.Error(t, err)
		categories.AssertNotCalled(t, "DeleteForTenant", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("deletes an unused category", func(t *testing.T) {
		categories := new(MockCategoryRepository)
		products := new(MockProductRepository)
		svc := NewCategoryService(categories, products)
		categories.On("FindByIDForTenant", ctx, tenantID, category.ID).Return(category, nil)
		categories.On("HasChildren", ctx, tenantID, category.ID).Return(false, nil)
		products.On("CountByCategory", ctx, tenantID, category.ID).Return(int64(0), nil)
		categories.On("DeleteForTenant", ctx, tenantID, category.ID).Return(nil)

		require.NoError(t, svc.Delete(ctx, tenantID, category.ID))
		categories.AssertExpectations(t)
	})
}

func TestBrandService(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	brands := new(MockBrandRepository)
	products := new(MockProductRepository)
	svc := NewBrandService(brands, products)

	brands.On("ExistsByCode", ctx, tenantID, "acme").Return(false, nil)
	brands.On("Create", ctx, mock.AnythingOfType("*catalog.Brand")).Return(nil)
	created, err := svc.Create(ctx, tenantID, CreateBrandRequest{Code: "acme", Name: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, "ACME", created.Code)

	brand, _ := catalog.NewBrand(tenantID, "ACME", "Acme")
	brands.On("FindByIDForTenant", ctx, tenantID, brand.ID).Return(brand, nil)
	brands.On("Save", ctx, brand).Return(nil)
	updated, err := svc.Update(ctx, tenantID, brand.ID, UpdateBrandRequest{Status: "inactive"})
	require.NoError(t, err)
	assert.Equal(t, "Acme", updated.Name)
	assert.Equal(t, "inactive", updated.Status)

	products.On("CountByBrand", ctx, tenantID, brand.ID).Return(int64(1), nil)
	err = svc.Delete(ctx, tenantID, brand.ID)
	assert.Error(t, err)
}

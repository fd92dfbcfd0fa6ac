package catalog

import (
	"context"
	"testing"

	"github.com/erp/distribution/internal/domain/catalog"
	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newProductService() (*ProductService, *MockProductRepository, *MockCategoryRepository, *MockBrandRepository) {
	products := new(MockProductRepository)
	categories := new(MockCategoryRepository)
	brands := new(MockBrandRepository)
	return NewProductService(products, categories, brands), products, categories, brands
}

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("creates a classified product", func(t *testing.T) {
		svc, products, categories, brands := newProductService()
		category, _ := catalog.NewCategory(tenantID, "DRINKS", "Drinks", nil)
		brand, _ := catalog.NewBrand(tenantID, "ACME", "Acme")
		tax := decimal.NewFromInt(11)

		products.On("ExistsByCode", ctx, tenantID, "sku-1").Return(false, nil)
		categories.On("FindByIDForTenant", ctx, tenantID, category.ID).Return(category, nil)
		brands.On("FindByIDForTenant", ctx, tenantID, brand.ID).Return(brand, nil)
		products.On("Create", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

		resp, err := svc.Create(ctx, tenantID, CreateProductRequest{
			Code:         "sku-1",
			Name:         "Cola 330ml",
			Barcode:      " 899000 ",
			CategoryID:   &category.ID,
			BrandID:      &brand.ID,
			SellingPrice: decimal.NewFromInt(10000),
			CostPrice:    decimal.NewFromInt(7000),
			TaxRate:      &tax,
		})
		require.NoError(t, err)
		assert.Equal(t, "SKU-1", resp.Code)
		assert.Equal(t, "899000", resp.Barcode)
		assert.Equal(t, "pcs", resp.UnitOfMeasure)
		assert.True(t, resp.TaxRate.Equal(tax))
		assert.Equal(t, &category.ID, resp.CategoryID)
		assert.Equal(t, 1, resp.Version)
		products.AssertExpectations(t)
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		svc, products, categories, _ := newProductService()
		missing := uuid.New()
		products.On("ExistsByCode", ctx, tenantID, "SKU-2").Return(false, nil)
		categories.On("FindByIDForTenant", ctx, tenantID, missing).Return(nil, shared.ErrNotFound)

		_, err := svc.Create(ctx, tenantID, CreateProductRequest{Code: "SKU-2", Name: "X", CategoryID: &missing})
		assert.ErrorIs(t, err, shared.ErrValidation)
		products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects negative price", func(t *testing.T) {
		svc, products, _, _ := newProductService()
		products.On("ExistsByCode", ctx, tenantID, "SKU-3").Return(false, nil)

		_, err := svc.Create(ctx, tenantID, CreateProductRequest{Code: "SKU-3", Name: "X", SellingPrice: decimal.NewFromInt(-1)})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("rejects duplicate code", func(t *testing.T) {
		svc, products, _, _ := newProductService()
		products.On("ExistsByCode", ctx, tenantID, "SKU-1").Return(true, nil)

		_, err := svc.Create(ctx, tenantID, CreateProductRequest{Code: "SKU-1", Name: "X"})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})
}

func TestProductService_Update(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc, products, _, _ := newProductService()

	product, err := catalog.NewProduct(tenantID, "SKU-1", "Cola", "btl")
	require.NoError(t, err)
	require.NoError(t, product.SetPricing(decimal.NewFromInt(100), decimal.NewFromInt(60), decimal.Zero))
	product.Barcode = "123"

	products.On("FindByIDForTenant", ctx, tenantID, product.ID).Return(product, nil)
	products.On("Save", ctx, product).Return(nil)

	price := decimal.NewFromInt(120)
	inactive := "inactive"
	resp, err := svc.Update(ctx, tenantID, product.ID, UpdateProductRequest{SellingPrice: &price, Status: &inactive})
	require.NoError(t, err)
	assert.True(t, resp.SellingPrice.Equal(price))
	assert.True(t, resp.CostPrice.Equal(decimal.NewFromInt(60)))
	assert.Equal(t, "123", resp.Barcode)
	assert.Equal(t, "btl", resp.UnitOfMeasure)
	assert.Equal(t, "inactive", resp.Status)
}

func TestProductService_List(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	categoryID := uuid.New()
	svc, products, _, _ := newProductService()

	p, _ := catalog.NewProduct(tenantID, "SKU-1", "Cola", "")
	matcher := mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["category_id"] == &categoryID && f.Filters["status"] == "active" && f.PageSize == 5
	})
	products.On("FindAllForTenant", ctx, tenantID, matcher).Return([]catalog.Product{*p}, nil)
	products.On("CountForTenant", ctx, tenantID, matcher).Return(int64(1), nil)

	filter := ProductListFilter{CategoryID: &categoryID, Status: "active"}
	filter.PageSize = 5
	items, total, err := svc.List(ctx, tenantID, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "SKU-1", items[0].Code)
}

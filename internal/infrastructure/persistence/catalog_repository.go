package persistence

import (
	"context"

	"github.com/erp/distribution/internal/domain/catalog"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCategoryRepository implements catalog.CategoryRepository
type GormCategoryRepository struct {
	TenantStore[catalog.Category]
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{NewTenantStore[catalog.Category](db, QuerySpec{
		Filters: map[string]string{"status": "status", "parent_id": "parent_id"},
		Search:  []string{"name", "code"},
		Sort:    CategorySortFields,
	})}
}

// HasChildren reports whether any category names id as parent
func (r *GormCategoryRepository) HasChildren(ctx context.Context, tenantID, id uuid.UUID) (bool, error) {
	return r.Exists(ctx, tenantID, "parent_id = ?", id)
}

// GormBrandRepository implements catalog.BrandRepository
type GormBrandRepository struct {
	TenantStore[catalog.Brand]
}

// NewGormBrandRepository creates a new GormBrandRepository
func NewGormBrandRepository(db *gorm.DB) *GormBrandRepository {
	return &GormBrandRepository{NewTenantStore[catalog.Brand](db, QuerySpec{
		Filters: map[string]string{"status": "status"},
		Search:  []string{"name", "code"},
		Sort:    BrandSortFields,
	})}
}

// GormProductRepository implements catalog.ProductRepository
type GormProductRepository struct {
	TenantStore[catalog.Product]
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{NewTenantStore[catalog.Product](db, QuerySpec{
		Filters: map[string]string{
			"status":      "status",
			"category_id": "category_id",
			"brand_id":    "brand_id",
		},
		Search: []string{"name", "code", "barcode"},
		Sort:   ProductSortFields,
	})}
}

// FindByIDs loads products keyed by id; unknown ids are absent from the map
func (r *GormProductRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]catalog.Product, error) {
	out := make(map[uuid.UUID]catalog.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var products []catalog.Product
	if err := r.DB(ctx).Where("tenant_id = ? AND id IN ?", tenantID, ids).Find(&products).Error; err != nil {
		return nil, err
	}
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

// CountByCategory counts products in a category
func (r *GormProductRepository) CountByCategory(ctx context.Context, tenantID, categoryID uuid.UUID) (int64, error) {
	var n int64
	err := r.scoped(ctx, tenantID).Where("category_id = ?", categoryID).Count(&n).Error
	return n, err
}

// CountByBrand counts products of a brand
func (r *GormProductRepository) CountByBrand(ctx context.Context, tenantID, brandID uuid.UUID) (int64, error) {
	var n int64
	err := r.scoped(ctx, tenantID).Where("brand_id = ?", brandID).Count(&n).Error
	return n, err
}

var (
	_ catalog.CategoryRepository = (*GormCategoryRepository)(nil)
	_ catalog.BrandRepository    = (*GormBrandRepository)(nil)
	_ catalog.ProductRepository  = (*GormProductRepository)(nil)
)

package catalog

import (
	"context"

	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
)

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	shared.TenantRepository[Category]
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
	HasChildren(ctx context.Context, tenantID, id uuid.UUID) (bool, error)
}

// BrandRepository defines the interface for brand persistence
type BrandRepository interface {
	shared.TenantRepository[Brand]
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	shared.TenantRepository[Product]
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
	// FindByIDs loads several products at once, keyed by id
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]Product, error)
	// CountByCategory counts products referencing a category
	CountByCategory(ctx context.Context, tenantID, categoryID uuid.UUID) (int64, error)
	// CountByBrand counts products referencing a brand
	CountByBrand(ctx context.Context, tenantID, brandID uuid.UUID) (int64, error)
}

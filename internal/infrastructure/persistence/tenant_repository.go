package persistence

import (
	"context"
	"strings"

	"github.com/erp/distribution/internal/domain/identity"
	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTenantRepository implements identity.TenantRepository. Tenants are platform rows.
type GormTenantRepository struct {
	db *gorm.DB
}

// NewGormTenantRepository creates a new GormTenantRepository
func NewGormTenantRepository(db *gorm.DB) *GormTenantRepository {
	return &GormTenantRepository{db: db}
}

// FindByID finds a tenant by id
func (r *GormTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	var t identity.Tenant
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &t, nil
}

// FindByCode finds a tenant by its unique code
func (r *GormTenantRepository) FindByCode(ctx context.Context, code string) (*identity.Tenant, error) {
	var t identity.Tenant
	if err := r.db.WithContext(ctx).First(&t, "code = ?", strings.ToUpper(strings.TrimSpace(code))).Error; err != nil {
		return nil, translateError(err)
	}
	return &t, nil
}

// FindAll lists tenants
func (r *GormTenantRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.Tenant, error) {
	q := r.applyFilter(r.db.WithContext(ctx).Model(&identity.Tenant{}), filter).
		Order(ValidateSortField(filter.OrderBy, TenantSortFields, "created_at") + " " + ValidateSortOrder(filter.OrderDir))
	if filter.PageSize > 0 {
		q = q.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	var tenants []identity.Tenant
	if err := q.Find(&tenants).Error; err != nil {
		return nil, err
	}
	return tenants, nil
}

// Count counts tenants matching filter
func (r *GormTenantRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var n int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&identity.Tenant{}), filter).Count(&n).Error
	return n, err
}

// Create inserts a tenant
func (r *GormTenantRepository) Create(ctx context.Context, t *identity.Tenant) error {
	return translateError(r.db.WithContext(ctx).Create(t).Error)
}

// Save updates a tenant
func (r *GormTenantRepository) Save(ctx context.Context, t *identity.Tenant) error {
	res := r.db.WithContext(ctx).Model(t).Select("*").Omit("id", "created_at").Updates(t)
	if err := translateError(res.Error); err != nil {
		return err
	}
	if res.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ExistsByCode checks whether a tenant code is taken
func (r *GormTenantRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&identity.Tenant{}).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		Count(&n).Error
	return n > 0, err
}

func (r *GormTenantRepository) applyFilter(q *gorm.DB, filter shared.Filter) *gorm.DB {
	if term := strings.TrimSpace(filter.Search); term != "" {
		p := "%" + strings.ToLower(term) + "%"
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(code) LIKE ?)", p, p)
	}
	if status, ok := filter.Filters["status"]; ok {
		q = q.Where("status = ?", status)
	}
	return q
}

var _ identity.TenantRepository = (*GormTenantRepository)(nil)

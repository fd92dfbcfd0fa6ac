package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QuerySpec whitelists what a Filter may touch for one table
type QuerySpec struct {
	// Filters maps a filter key to a column name, or to a condition
	// with a single "?" placeholder such as "order_date >= ?".
	Filters map[string]string
	// Search lists the columns matched case-insensitively by Filter.Search
	Search []string
	// Sort lists the columns accepted as Filter.OrderBy
	Sort map[string]bool
	// Preload lists associations loaded by the finders
	Preload []string
}

// tenantEntity is satisfied by pointers to aggregates embedding shared.TenantAggregateRoot
type tenantEntity interface {
	GetID() uuid.UUID
	GetTenantID() uuid.UUID
}

// TenantStore is the generic tenant-scoped access layer. Entity
// repositories embed it and add their own queries.
type TenantStore[T any] struct {
	db   *gorm.DB
	spec QuerySpec
}

// NewTenantStore creates a store for T
func NewTenantStore[T any](db *gorm.DB, spec QuerySpec) TenantStore[T] {
	if spec.Sort == nil {
		spec.Sort = CommonSortFields
	}
	return TenantStore[T]{db: db, spec: spec}
}

// DB returns a session bound to ctx
func (s *TenantStore[T]) DB(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func (s *TenantStore[T]) scoped(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	return s.db.WithContext(ctx).Model(new(T)).Where("tenant_id = ?", tenantID)
}

func (s *TenantStore[T]) withPreload(q *gorm.DB) *gorm.DB {
	for _, assoc := range s.spec.Preload {
		q = q.Preload(assoc)
	}
	return q
}

// FindByIDForTenant returns shared.ErrNotFound for rows of other tenants
func (s *TenantStore[T]) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*T, error) {
	return s.FindOne(ctx, tenantID, "id = ?", id)
}

// FindByIDForUpdate loads a row and holds its lock until the surrounding
// transaction ends
func (s *TenantStore[T]) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*T, error) {
	var entity T
	err := s.scoped(ctx, tenantID).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&entity).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &entity, nil
}

// FindOne returns the first row matching cond within the tenant
func (s *TenantStore[T]) FindOne(ctx context.Context, tenantID uuid.UUID, cond string, args ...any) (*T, error) {
	var entity T
	err := s.withPreload(s.scoped(ctx, tenantID)).Where(cond, args...).First(&entity).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &entity, nil
}

// FindWhere returns all rows matching cond within the tenant, newest first
func (s *TenantStore[T]) FindWhere(ctx context.Context, tenantID uuid.UUID, cond string, args ...any) ([]T, error) {
	var list []T
	err := s.withPreload(s.scoped(ctx, tenantID)).Where(cond, args...).Order("created_at DESC").Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// FindAllForTenant applies filter, search, ordering and paging
func (s *TenantStore[T]) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]T, error) {
	q := s.withPreload(s.applyFilter(s.scoped(ctx, tenantID), filter))
	q = q.Order(s.orderClause(filter))
	if filter.PageSize > 0 {
		q = q.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	var list []T
	if err := q.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// CountForTenant counts rows matching filter, ignoring paging
func (s *TenantStore[T]) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var n int64
	err := s.applyFilter(s.scoped(ctx, tenantID), filter).Count(&n).Error
	return n, err
}

// Exists reports whether any row matches cond within the tenant
func (s *TenantStore[T]) Exists(ctx context.Context, tenantID uuid.UUID, cond string, args ...any) (bool, error) {
	var n int64
	err := s.scoped(ctx, tenantID).Where(cond, args...).Limit(1).Count(&n).Error
	return n > 0, err
}

// ExistsByCode checks code uniqueness within the tenant
func (s *TenantStore[T]) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	return s.Exists(ctx, tenantID, "code = ?", strings.ToUpper(strings.TrimSpace(code)))
}

// Create inserts the entity with its associations
func (s *TenantStore[T]) Create(ctx context.Context, entity *T) error {
	return translateError(s.db.WithContext(ctx).Create(entity).Error)
}

// Save updates every column of the entity within its tenant
func (s *TenantStore[T]) Save(ctx context.Context, entity *T) error {
	te := any(entity).(tenantEntity)
	rows, err := s.update(ctx, entity, "tenant_id = ?", te.GetTenantID())
	if err != nil {
		return err
	}
	if rows == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SaveWithLock updates the entity only when the stored version equals
// expectedVersion. A stale version yields shared.ErrConcurrencyConflict.
func (s *TenantStore[T]) SaveWithLock(ctx context.Context, entity *T, expectedVersion int) error {
	te := any(entity).(tenantEntity)
	rows, err := s.update(ctx, entity, "tenant_id = ? AND version = ?", te.GetTenantID(), expectedVersion)
	return s.guarded(ctx, te, rows, err, shared.ErrConcurrencyConflict)
}

// TransitionStatus updates the entity only when the stored status equals
// from. A failed guard yields INVALID_STATE, a missing row NOT_FOUND.
func (s *TenantStore[T]) TransitionStatus(ctx context.Context, entity *T, from any) error {
	te := any(entity).(tenantEntity)
	rows, err := s.update(ctx, entity, "tenant_id = ? AND status = ?", te.GetTenantID(), from)
	return s.guarded(ctx, te, rows, err,
		shared.NewInvalidStateError("cannot transition: status is no longer %v", from))
}

// TransitionStatusWithLock combines the status guard with the version guard.
// A row still in from but at another version yields
// shared.ErrConcurrencyConflict; a row that left from yields INVALID_STATE.
func (s *TenantStore[T]) TransitionStatusWithLock(ctx context.Context, entity *T, from any, expectedVersion int) error {
	te := any(entity).(tenantEntity)
	rows, err := s.update(ctx, entity, "tenant_id = ? AND status = ? AND version = ?", te.GetTenantID(), from, expectedVersion)
	if err != nil || rows > 0 {
		return err
	}
	stillFrom, err := s.Exists(ctx, te.GetTenantID(), "id = ? AND status = ?", te.GetID(), from)
	if err != nil {
		return err
	}
	if stillFrom {
		return shared.ErrConcurrencyConflict
	}
	return s.guarded(ctx, te, 0, nil,
		shared.NewInvalidStateError("cannot transition: status is no longer %v", from))
}

// DeleteForTenant removes a row; NOT_FOUND when it does not exist in the tenant
func (s *TenantStore[T]) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).Delete(new(T))
	if err := translateError(res.Error); err != nil {
		return err
	}
	if res.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// update writes all columns except identity and associations, restricted by cond
func (s *TenantStore[T]) update(ctx context.Context, entity *T, cond string, args ...any) (int64, error) {
	res := s.db.WithContext(ctx).Model(entity).
		Select("*").
		Omit("id", "tenant_id", "created_at", clause.Associations).
		Where(cond, args...).
		Updates(entity)
	return res.RowsAffected, translateError(res.Error)
}

func (s *TenantStore[T]) guarded(ctx context.Context, te tenantEntity, rows int64, err, conflict error) error {
	if err != nil || rows > 0 {
		return err
	}
	exists, err := s.Exists(ctx, te.GetTenantID(), "id = ?", te.GetID())
	if err != nil {
		return err
	}
	if !exists {
		return shared.ErrNotFound
	}
	return conflict
}

func (s *TenantStore[T]) applyFilter(q *gorm.DB, filter shared.Filter) *gorm.DB {
	if term := strings.TrimSpace(filter.Search); term != "" && len(s.spec.Search) > 0 {
		pattern := "%" + strings.ToLower(term) + "%"
		conds := make([]string, len(s.spec.Search))
		args := make([]any, len(s.spec.Search))
		for i, col := range s.spec.Search {
			conds[i] = "LOWER(" + col + ") LIKE ?"
			args[i] = pattern
		}
		q = q.Where("("+strings.Join(conds, " OR ")+")", args...)
	}
	for key, value := range filter.Filters {
		cond, ok := s.spec.Filters[key]
		if !ok {
			continue
		}
		if !strings.Contains(cond, "?") {
			cond += " = ?"
		}
		q = q.Where(cond, value)
	}
	return q
}

func (s *TenantStore[T]) orderClause(filter shared.Filter) string {
	field := ValidateSortField(filter.OrderBy, s.spec.Sort, "created_at")
	return field + " " + ValidateSortOrder(filter.OrderDir)
}

// translateError maps gorm sentinel errors onto domain errors
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return shared.NewValidationError("referenced record does not exist")
	}
	return err
}

package persistence

import (
	"context"
	"strings"

	"github.com/erp/distribution/internal/domain/approval"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormEntityTypeRepository implements approval.EntityTypeRepository
type GormEntityTypeRepository struct {
	db *gorm.DB
}

// NewGormEntityTypeRepository creates a new GormEntityTypeRepository
func NewGormEntityTypeRepository(db *gorm.DB) *GormEntityTypeRepository {
	return &GormEntityTypeRepository{db: db}
}

// FindAll lists every entity type by code
func (r *GormEntityTypeRepository) FindAll(ctx context.Context) ([]approval.EntityType, error) {
	var list []approval.EntityType
	if err := r.db.WithContext(ctx).Order("code ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// FindByCode finds an entity type by its code
func (r *GormEntityTypeRepository) FindByCode(ctx context.Context, code string) (*approval.EntityType, error) {
	var et approval.EntityType
	err := r.db.WithContext(ctx).Where("code = ?", strings.ToLower(strings.TrimSpace(code))).First(&et).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &et, nil
}

// GormApprovalRequestRepository implements approval.RequestRepository
type GormApprovalRequestRepository struct {
	TenantStore[approval.Request]
}

// NewGormApprovalRequestRepository creates a new GormApprovalRequestRepository
func NewGormApprovalRequestRepository(db *gorm.DB) *GormApprovalRequestRepository {
	return &GormApprovalRequestRepository{NewTenantStore[approval.Request](db, QuerySpec{
		Filters: map[string]string{
			"status":       "status",
			"entity_id":    "entity_id",
			"requested_by": "requested_by",
			"entity_type":  "entity_type_id IN (SELECT id FROM approval_entity_types WHERE code = ?)",
		},
		Search:  []string{"reason", "requested_by"},
		Sort:    ApprovalSortFields,
		Preload: []string{"EntityType"},
	})}
}

// FindPendingForEntity returns the pending request for an entity
func (r *GormApprovalRequestRepository) FindPendingForEntity(ctx context.Context, tenantID uuid.UUID, entityTypeCode string, entityID uuid.UUID) (*approval.Request, error) {
	return r.FindOne(ctx, tenantID,
		"status = ? AND entity_id = ? AND entity_type_id IN (SELECT id FROM approval_entity_types WHERE code = ?)",
		approval.StatusPending, entityID, entityTypeCode)
}

// Create inserts the request without touching the entity type lookup
func (r *GormApprovalRequestRepository) Create(ctx context.Context, req *approval.Request) error {
	return translateError(r.DB(ctx).Omit("EntityType").Create(req).Error)
}

// TransitionStatus saves req only if its stored status equals from
func (r *GormApprovalRequestRepository) TransitionStatus(ctx context.Context, req *approval.Request, from approval.Status) error {
	return r.TenantStore.TransitionStatus(ctx, req, from)
}

var (
	_ approval.EntityTypeRepository = (*GormEntityTypeRepository)(nil)
	_ approval.RequestRepository    = (*GormApprovalRequestRepository)(nil)
)

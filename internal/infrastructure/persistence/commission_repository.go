package persistence

import (
	"context"
	"time"

	"github.com/erp/distribution/internal/domain/commission"
	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStructureRepository implements commission.StructureRepository
type GormStructureRepository struct {
	TenantStore[commission.Structure]
}

// NewGormStructureRepository creates a new GormStructureRepository
func NewGormStructureRepository(db *gorm.DB) *GormStructureRepository {
	return &GormStructureRepository{NewTenantStore[commission.Structure](db, QuerySpec{
		Filters: map[string]string{
			"status":           "status",
			"agent_id":         "agent_id",
			"product_id":       "product_id",
			"calculation_type": "calculation_type",
		},
		Search: []string{"name"},
		Sort:   StructureSortFields,
	})}
}

// FindApplicable returns active structures for the agent (or for all agents)
// whose effective window contains at
func (r *GormStructureRepository) FindApplicable(ctx context.Context, tenantID, agentID uuid.UUID, at time.Time) ([]commission.Structure, error) {
	day := shared.DateOf(at)
	var list []commission.Structure
	err := r.scoped(ctx, tenantID).
		Where("status = ?", commission.StructureStatusActive).
		Where("(agent_id IS NULL OR agent_id = ?)", agentID).
		Where("effective_from <= ?", day).
		Where("(effective_to IS NULL OR effective_to >= ?)", day).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}

// GormCommissionRepository implements commission.CommissionRepository over agent_commissions
type GormCommissionRepository struct {
	TenantStore[commission.Commission]
}

// NewGormCommissionRepository creates a new GormCommissionRepository
func NewGormCommissionRepository(db *gorm.DB) *GormCommissionRepository {
	return &GormCommissionRepository{NewTenantStore[commission.Commission](db, QuerySpec{
		Filters: map[string]string{
			"agent_id":     "agent_id",
			"status":       "status",
			"source_type":  "source_type",
			"source_id":    "source_id",
			"structure_id": "structure_id",
		},
		Sort: CommissionSortFields,
	})}
}

// FindByIdempotencyKey returns the commission recorded under key
func (r *GormCommissionRepository) FindByIdempotencyKey(ctx context.Context, tenantID uuid.UUID, key string) (*commission.Commission, error) {
	return r.FindOne(ctx, tenantID, "idempotency_key = ?", key)
}

// TransitionStatus saves c only if its stored status equals from
func (r *GormCommissionRepository) TransitionStatus(ctx context.Context, c *commission.Commission, from commission.Status) error {
	return r.TenantStore.TransitionStatus(ctx, c, from)
}

var (
	_ commission.StructureRepository  = (*GormStructureRepository)(nil)
	_ commission.CommissionRepository = (*GormCommissionRepository)(nil)
)

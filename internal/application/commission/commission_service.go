package commission

import (
	"context"
	"errors"
	"time"

	appshared "github.com/erp/distribution/internal/application/shared"
	"github.com/erp/distribution/internal/domain/commission"
	"github.com/erp/distribution/internal/domain/field"
	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CommissionService records, approves and pays agent commissions
type CommissionService struct {
	structureRepo  commission.StructureRepository
	commissionRepo commission.CommissionRepository
	agentRepo      field.AgentRepository
	metrics        appshared.BusinessMetrics
	publisher      shared.EventPublisher
	log            *zap.Logger
	now            func() time.Time
}

// NewCommissionService creates a new CommissionService
func NewCommissionService(
	structureRepo commission.StructureRepository,
	commissionRepo commission.CommissionRepository,
	agentRepo field.AgentRepository,
	metrics appshared.BusinessMetrics,
	log *zap.Logger,
) *CommissionService {
	if metrics == nil {
		metrics = appshared.NopMetrics{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CommissionService{
		structureRepo:  structureRepo,
		commissionRepo: commissionRepo,
		agentRepo:      agentRepo,
		metrics:        metrics,
		log:            log,
		now:            time.Now,
	}
}

// SetEventPublisher sets the publisher for CommissionAccrued events
func (s *CommissionService) SetEventPublisher(p shared.EventPublisher) {
	s.publisher = p
}

// Calculate previews a commission without persisting anything
func (s *CommissionService) Calculate(ctx context.Context, tenantID uuid.UUID, req CalculateRequest) (*CalculateResponse, error) {
	if req.BaseAmount.IsNegative() {
		return nil, shared.NewValidationError("base_amount cannot be negative")
	}
	var amount decimal.Decimal
	calcType := commission.CalculationType(req.CalculationType)
	if req.StructureID != nil {
		st, err := s.structureRepo.FindByIDForTenant(ctx, tenantID, *req.StructureID)
		if err != nil {
			return nil, missingReference(err, "commission structure")
		}
		calcType = st.CalculationType
		amount = st.Calculate(req.BaseAmount, req.Quantity)
	} else {
		if !calcType.IsValid() {
			return nil, shared.NewValidationError("structure_id or calculation_type is required")
		}
		amount = commission.Calculate(calcType, req.Rate, toTiers(req.Tiers), req.BaseAmount, req.Quantity)
	}
	return &CalculateResponse{
		CalculationType:  string(calcType),
		BaseAmount:       req.BaseAmount,
		Quantity:         req.Quantity,
		CommissionAmount: amount,
	}, nil
}

// Record stores a pending commission. A repeated idempotency key returns
// the existing commission with created=false.
func (s *CommissionService) Record(ctx context.Context, tenantID uuid.UUID, req RecordCommissionRequest) (*CommissionResponse, bool, error) {
	if req.IdempotencyKey != "" {
		existing, err := s.commissionRepo.FindByIdempotencyKey(ctx, tenantID, req.IdempotencyKey)
		if err == nil {
			response := ToCommissionResponse(existing)
			return &response, false, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, false, err
		}
	}
	if _, err := s.agentRepo.FindByIDForTenant(ctx, tenantID, req.AgentID); err != nil {
		return nil, false, missingReference(err, "agent")
	}

	var st *commission.Structure
	if req.StructureID != nil {
		found, err := s.structureRepo.FindByIDForTenant(ctx, tenantID, *req.StructureID)
		if err != nil {
			return nil, false, missingReference(err, "commission structure")
		}
		st = found
	}
	var amount decimal.Decimal
	switch {
	case req.CommissionAmount != nil:
		amount = *req.CommissionAmount
	case st != nil:
		amount = st.Calculate(req.BaseAmount, req.Quantity)
	default:
		return nil, false, shared.NewValidationError("commission_amount or structure_id is required")
	}

	c, err := commission.NewCommission(tenantID, req.AgentID, req.SourceType, req.SourceID,
		req.BaseAmount, req.Quantity, amount, req.IdempotencyKey)
	if err != nil {
		return nil, false, err
	}
	if st != nil {
		c.FromStructure(st.ID)
	}
	created, existing, err := s.create(ctx, c)
	if err != nil {
		return nil, false, err
	}
	if !created {
		response := ToCommissionResponse(existing)
		return &response, false, nil
	}
	response := ToCommissionResponse(c)
	return &response, true, nil
}

// create inserts c. A concurrent insert with the same key yields the
// winner's row.
func (s *CommissionService) create(ctx context.Context, c *commission.Commission) (bool, *commission.Commission, error) {
	if err := s.commissionRepo.Create(ctx, c); err != nil {
		if !errors.Is(err, shared.ErrAlreadyExists) {
			return false, nil, err
		}
		existing, findErr := s.commissionRepo.FindByIdempotencyKey(ctx, c.TenantID, c.IdempotencyKey)
		if findErr != nil {
			return false, nil, findErr
		}
		return false, existing, nil
	}
	s.metrics.CommissionAccrued(ctx, c.CommissionAmount)
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, c.GetDomainEvents()...); err != nil {
			s.log.Warn("publish commission events failed", zap.String("commission_id", c.ID.String()), zap.Error(err))
		}
	}
	c.ClearDomainEvents()
	return true, c, nil
}

// GetByID retrieves a commission
func (s *CommissionService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*CommissionResponse, error) {
	c, err := s.commissionRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToCommissionResponse(c)
	return &response, nil
}

// List returns a page of commissions
func (s *CommissionService) List(ctx context.Context, tenantID uuid.UUID, filter CommissionListFilter) ([]CommissionResponse, int64, error) {
	f := filter.Filter().
		With("agent_id", filter.AgentID).
		With("status", filter.Status).
		With("source_type", filter.SourceType)
	list, err := s.commissionRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.commissionRepo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	return appshared.MapSlice(list, ToCommissionResponse), total, nil
}

// Approve moves a pending commission to approved
func (s *CommissionService) Approve(ctx context.Context, tenantID, id uuid.UUID, approvedBy string) (*CommissionResponse, error) {
	return s.transition(ctx, tenantID, id, commission.StatusPending, func(c *commission.Commission) error {
		return c.Approve(approvedBy, s.now())
	})
}

// Pay moves an approved commission to paid
func (s *CommissionService) Pay(ctx context.Context, tenantID, id uuid.UUID, req PayCommissionRequest) (*CommissionResponse, error) {
	return s.transition(ctx, tenantID, id, commission.StatusApproved, func(c *commission.Commission) error {
		return c.Pay(req.PaymentReference, s.now())
	})
}

func (s *CommissionService) transition(ctx context.Context, tenantID, id uuid.UUID, from commission.Status, fn func(*commission.Commission) error) (*CommissionResponse, error) {
	c, err := s.commissionRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := fn(c); err != nil {
		return nil, err
	}
	if err := s.commissionRepo.TransitionStatus(ctx, c, from); err != nil {
		return nil, err
	}
	response := ToCommissionResponse(c)
	return &response, nil
}

// Package commission contains the commission structure and accrual use cases.
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
)

// StructureService manages commission structures
type StructureService struct {
	structureRepo commission.StructureRepository
	agentRepo     field.AgentRepository
}

// NewStructureService creates a new StructureService
func NewStructureService(structureRepo commission.StructureRepository, agentRepo field.AgentRepository) *StructureService {
	return &StructureService{structureRepo: structureRepo, agentRepo: agentRepo}
}

// Create creates an active structure
func (s *StructureService) Create(ctx context.Context, tenantID uuid.UUID, req CreateStructureRequest) (*StructureResponse, error) {
	if err := s.checkAgent(ctx, tenantID, req.AgentID); err != nil {
		return nil, err
	}
	var from time.Time
	if req.EffectiveFrom != nil {
		from = *req.EffectiveFrom
	}
	st, err := commission.NewStructure(tenantID, req.Name, commission.CalculationType(req.CalculationType),
		req.Rate, toTiers(req.Tiers), from, req.EffectiveTo)
	if err != nil {
		return nil, err
	}
	st.Scope(req.AgentID, req.ProductID)
	st.Version = 1
	if err := s.structureRepo.Create(ctx, st); err != nil {
		return nil, err
	}
	response := ToStructureResponse(st)
	return &response, nil
}

// GetByID retrieves a structure
func (s *StructureService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*StructureResponse, error) {
	st, err := s.structureRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToStructureResponse(st)
	return &response, nil
}

// List returns a page of structures
func (s *StructureService) List(ctx context.Context, tenantID uuid.UUID, filter StructureListFilter) ([]StructureResponse, int64, error) {
	f := filter.Filter().
		With("agent_id", filter.AgentID).
		With("calculation_type", filter.CalculationType).
		With("status", filter.Status)
	list, err := s.structureRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.structureRepo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	return appshared.MapSlice(list, ToStructureResponse), total, nil
}

// Update merges the request into the stored structure
func (s *StructureService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateStructureRequest) (*StructureResponse, error) {
	st, err := s.structureRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkAgent(ctx, tenantID, req.AgentID); err != nil {
		return nil, err
	}

	name, calcType, rate, tiers := st.Name, st.CalculationType, st.Rate, st.Tiers.Data
	from, to := st.EffectiveFrom, st.EffectiveTo
	if req.Name != "" {
		name = req.Name
	}
	if req.CalculationType != "" {
		calcType = commission.CalculationType(req.CalculationType)
	}
	if req.Rate != nil {
		rate = *req.Rate
	}
	if req.Tiers != nil {
		tiers = toTiers(req.Tiers)
	}
	if req.EffectiveFrom != nil {
		from = *req.EffectiveFrom
	}
	if req.EffectiveTo != nil {
		to = req.EffectiveTo
	}
	if err := st.Configure(name, calcType, rate, tiers, from, to); err != nil {
		return nil, err
	}

	agentID, productID := st.AgentID, st.ProductID
	if req.AgentID != nil {
		agentID = req.AgentID
	}
	if req.ProductID != nil {
		productID = req.ProductID
	}
	st.Scope(agentID, productID)
	if req.Status != "" {
		if err := st.SetStatus(commission.StructureStatus(req.Status)); err != nil {
			return nil, err
		}
	}
	if err := s.structureRepo.Save(ctx, st); err != nil {
		return nil, err
	}
	response := ToStructureResponse(st)
	return &response, nil
}

// Delete removes a structure. Recorded commissions keep their amounts.
func (s *StructureService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.structureRepo.DeleteForTenant(ctx, tenantID, id)
}

func (s *StructureService) checkAgent(ctx context.Context, tenantID uuid.UUID, agentID *uuid.UUID) error {
	if agentID == nil {
		return nil
	}
	if _, err := s.agentRepo.FindByIDForTenant(ctx, tenantID, *agentID); err != nil {
		return missingReference(err, "agent")
	}
	return nil
}

func missingReference(err error, what string) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewValidationError("%s does not exist", what)
	}
	return err
}

// Package field contains the agent, route and visit use cases.
package field

import (
	"context"

	appshared "github.com/erp/distribution/internal/application/shared"
	"github.com/erp/distribution/internal/domain/field"
	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
)

// AgentService handles agent operations
type AgentService struct {
	agentRepo field.AgentRepository
}

// NewAgentService creates a new AgentService
func NewAgentService(agentRepo field.AgentRepository) *AgentService {
	return &AgentService{agentRepo: agentRepo}
}

// Create creates an agent
func (s *AgentService) Create(ctx context.Context, tenantID uuid.UUID, req CreateAgentRequest) (*AgentResponse, error) {
	exists, err := s.agentRepo.ExistsByCode(ctx, tenantID, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Agent with this code already exists")
	}
	agent, err := field.NewAgent(tenantID, req.Code, req.Name, field.AgentType(req.Type))
	if err != nil {
		return nil, err
	}
	agent.Phone = req.Phone
	agent.Email = req.Email
	if err := s.agentRepo.Create(ctx, agent); err != nil {
		return nil, err
	}
	response := ToAgentResponse(agent)
	return &response, nil
}

// GetByID retrieves an agent
func (s *AgentService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*AgentResponse, error) {
	agent, err := s.agentRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToAgentResponse(agent)
	return &response, nil
}

// List returns a page of agents
func (s *AgentService) List(ctx context.Context, tenantID uuid.UUID, filter AgentListFilter) ([]AgentResponse, int64, error) {
	f := filter.Filter().With("type", filter.Type).With("status", filter.Status)
	agents, err := s.agentRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.agentRepo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	return appshared.MapSlice(agents, ToAgentResponse), total, nil
}

// Update changes an agent
func (s *AgentService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateAgentRequest) (*AgentResponse, error) {
	agent, err := s.agentRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	phone, email := agent.Phone, agent.Email
	if req.Phone != nil {
		phone = *req.Phone
	}
	if req.Email != nil {
		email = *req.Email
	}
	if err := agent.Update(req.Name, phone, email, field.AgentType(req.Type), field.AgentStatus(req.Status)); err != nil {
		return nil, err
	}
	if err := s.agentRepo.Save(ctx, agent); err != nil {
		return nil, err
	}
	response := ToAgentResponse(agent)
	return &response, nil
}

// Delete removes an agent
func (s *AgentService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.agentRepo.DeleteForTenant(ctx, tenantID, id)
}

package field

import (
	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
)

// AgentType classifies field staff
type AgentType string

const (
	AgentTypeVanSales     AgentType = "van_sales"
	AgentTypeMerchandiser AgentType = "merchandiser"
	AgentTypePromoter     AgentType = "promoter"
	AgentTypeFieldAgent   AgentType = "field_agent"
)

// IsValid checks if the agent type is known
func (t AgentType) IsValid() bool {
	switch t {
	case AgentTypeVanSales, AgentTypeMerchandiser, AgentTypePromoter, AgentTypeFieldAgent:
		return true
	}
	return false
}

// AgentStatus represents whether an agent is working
type AgentStatus string

const (
	AgentStatusActive   AgentStatus = "active"
	AgentStatusInactive AgentStatus = "inactive"
)

// Agent is a salesman or field worker
type Agent struct {
	shared.TenantAggregateRoot
	Code   string      `gorm:"type:varchar(50);not null;index"`
	Name   string      `gorm:"type:varchar(200);not null"`
	Phone  string      `gorm:"type:varchar(50)"`
	Email  string      `gorm:"type:varchar(200)"`
	Type   AgentType   `gorm:"type:varchar(30);not null;default:'field_agent'"`
	Status AgentStatus `gorm:"type:varchar(20);not null;default:'active';index"`
}

// TableName returns the table name for GORM
func (Agent) TableName() string {
	return "agents"
}

// NewAgent creates an active agent
func NewAgent(tenantID uuid.UUID, code, name string, agentType AgentType) (*Agent, error) {
	code, err := shared.NormalizeCode(code, 50)
	if err != nil {
		return nil, err
	}
	name, err = shared.RequireName(name, 200)
	if err != nil {
		return nil, err
	}
	if agentType == "" {
		agentType = AgentTypeFieldAgent
	}
	if !agentType.IsValid() {
		return nil, shared.NewValidationError("invalid agent type %q", agentType)
	}
	return &Agent{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		Name:                name,
		Type:                agentType,
		Status:              AgentStatusActive,
	}, nil
}

// Update changes mutable agent fields; empty values are left unchanged
func (a *Agent) Update(name, phone, email string, agentType AgentType, status AgentStatus) error {
	if name != "" {
		n, err := shared.RequireName(name, 200)
		if err != nil {
			return err
		}
		a.Name = n
	}
	if agentType != "" {
		if !agentType.IsValid() {
			return shared.NewValidationError("invalid agent type %q", agentType)
		}
		a.Type = agentType
	}
	switch status {
	case "":
	case AgentStatusActive, AgentStatusInactive:
		a.Status = status
	default:
		return shared.NewValidationError("invalid agent status %q", status)
	}
	a.Phone = phone
	a.Email = email
	a.IncrementVersion()
	return nil
}

// IsActive reports whether the agent is working
func (a *Agent) IsActive() bool {
	return a.Status == AgentStatusActive
}

package commission

import (
	"sort"
	"strings"
	"time"

	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CalculationType selects the commission formula
type CalculationType string

const (
	CalculationFlat       CalculationType = "flat"
	CalculationPerUnit    CalculationType = "per_unit"
	CalculationPercentage CalculationType = "percentage"
	CalculationTiered     CalculationType = "tiered"
)

// IsValid checks if the calculation type is known
func (c CalculationType) IsValid() bool {
	switch c {
	case CalculationFlat, CalculationPerUnit, CalculationPercentage, CalculationTiered:
		return true
	}
	return false
}

// TierType decides whether a tier rate is an amount or a percentage
type TierType string

const (
	TierFlat       TierType = "flat"
	TierPercentage TierType = "percentage"
)

// Tier pays Rate once the base amount reaches Threshold
type Tier struct {
	Threshold decimal.Decimal `json:"threshold"`
	Rate      decimal.Decimal `json:"rate"`
	Type      TierType        `json:"type"`
}

// StructureStatus represents whether a structure accrues commissions
type StructureStatus string

const (
	StructureStatusActive   StructureStatus = "active"
	StructureStatusInactive StructureStatus = "inactive"
)

// Structure is a commission rule. A nil AgentID applies to every agent,
// a nil ProductID to every product.
type Structure struct {
	shared.TenantAggregateRoot
	Name            string              `gorm:"type:varchar(200);not null"`
	AgentID         *uuid.UUID          `gorm:"type:uuid;index"`
	ProductID       *uuid.UUID          `gorm:"type:uuid;index"`
	CalculationType CalculationType     `gorm:"type:varchar(20);not null"`
	Rate            decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	Tiers           shared.JSON[[]Tier] `gorm:"type:jsonb"`
	EffectiveFrom   time.Time           `gorm:"type:date;not null"`
	EffectiveTo     *time.Time          `gorm:"type:date"`
	Status          StructureStatus     `gorm:"type:varchar(20);not null;default:'active';index"`
}

// TableName returns the table name for GORM
func (Structure) TableName() string {
	return "commission_structures"
}

// NewStructure creates an active commission structure
func NewStructure(tenantID uuid.UUID, name string, calcType CalculationType, rate decimal.Decimal, tiers []Tier, effectiveFrom time.Time, effectiveTo *time.Time) (*Structure, error) {
	s := &Structure{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Status:              StructureStatusActive,
	}
	if effectiveFrom.IsZero() {
		effectiveFrom = time.Now()
	}
	if err := s.Configure(name, calcType, rate, tiers, effectiveFrom, effectiveTo); err != nil {
		return nil, err
	}
	return s, nil
}

// Configure validates and sets the formula and validity window
func (s *Structure) Configure(name string, calcType CalculationType, rate decimal.Decimal, tiers []Tier, effectiveFrom time.Time, effectiveTo *time.Time) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("name is required")
	}
	if !calcType.IsValid() {
		return shared.NewValidationError("invalid calculation_type %q", calcType)
	}
	if rate.IsNegative() {
		return shared.NewValidationError("rate cannot be negative")
	}
	if calcType == CalculationPercentage && rate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewValidationError("percentage rate cannot exceed 100")
	}
	if calcType == CalculationTiered {
		if len(tiers) == 0 {
			return shared.NewValidationError("tiered structures need at least one tier")
		}
		for i, t := range tiers {
			if t.Threshold.IsNegative() || t.Rate.IsNegative() {
				return shared.NewValidationError("tier %d has a negative value", i+1)
			}
			if t.Type == "" {
				tiers[i].Type = TierPercentage
			} else if t.Type != TierFlat && t.Type != TierPercentage {
				return shared.NewValidationError("tier %d has invalid type %q", i+1, t.Type)
			}
		}
	}
	if effectiveTo != nil && effectiveTo.Before(effectiveFrom) {
		return shared.NewValidationError("effective_to must not be before effective_from")
	}
	s.Name = name
	s.CalculationType = calcType
	s.Rate = rate
	s.Tiers = shared.NewJSON(tiers)
	s.EffectiveFrom = effectiveFrom
	s.EffectiveTo = effectiveTo
	s.IncrementVersion()
	return nil
}

// Scope restricts the structure to an agent and/or product
func (s *Structure) Scope(agentID, productID *uuid.UUID) {
	s.AgentID = agentID
	s.ProductID = productID
}

// SetStatus activates or deactivates the structure
func (s *Structure) SetStatus(status StructureStatus) error {
	if status != StructureStatusActive && status != StructureStatusInactive {
		return shared.NewValidationError("invalid status %q", status)
	}
	s.Status = status
	s.IncrementVersion()
	return nil
}

// IsEffective reports whether the structure is active on the given day
func (s *Structure) IsEffective(at time.Time) bool {
	if s.Status != StructureStatusActive {
		return false
	}
	day := shared.DateOf(at)
	if day.Before(shared.DateOf(s.EffectiveFrom)) {
		return false
	}
	return s.EffectiveTo == nil || !day.After(shared.DateOf(*s.EffectiveTo))
}

// AppliesToAgent reports whether the structure covers the agent
func (s *Structure) AppliesToAgent(agentID uuid.UUID) bool {
	return s.AgentID == nil || *s.AgentID == agentID
}

// Calculate returns the commission for base amount and quantity, rounded to cents
func (s *Structure) Calculate(base decimal.Decimal, qty int64) decimal.Decimal {
	return Calculate(s.CalculationType, s.Rate, s.Tiers.Data, base, qty)
}

// Calculate applies a commission formula
func Calculate(calcType CalculationType, rate decimal.Decimal, tiers []Tier, base decimal.Decimal, qty int64) decimal.Decimal {
	var amount decimal.Decimal
	switch calcType {
	case CalculationFlat:
		amount = rate
	case CalculationPerUnit:
		amount = rate.Mul(decimal.NewFromInt(qty))
	case CalculationPercentage:
		amount = shared.PercentOf(base, rate)
	case CalculationTiered:
		tier, ok := selectTier(tiers, base)
		if !ok {
			return decimal.Zero
		}
		if tier.Type == TierFlat {
			amount = tier.Rate
		} else {
			amount = shared.PercentOf(base, tier.Rate)
		}
	default:
		return decimal.Zero
	}
	return shared.RoundMoney(amount)
}

// selectTier picks the tier with the highest threshold not above base
func selectTier(tiers []Tier, base decimal.Decimal) (Tier, bool) {
	sorted := make([]Tier, len(tiers))
	copy(sorted, tiers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Threshold.GreaterThan(sorted[j].Threshold)
	})
	for _, t := range sorted {
		if base.GreaterThanOrEqual(t.Threshold) {
			return t, true
		}
	}
	return Tier{}, false
}

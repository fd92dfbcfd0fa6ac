package commission

import (
	"errors"
	"testing"
	"time"

	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCalculate(t *testing.T) {
	tiers := []Tier{
		{Threshold: d("0"), Rate: d("1"), Type: TierPercentage},
		{Threshold: d("1000"), Rate: d("2.5"), Type: TierPercentage},
		{Threshold: d("5000"), Rate: d("300"), Type: TierFlat},
	}
	tests := []struct {
		name  string
		typ   CalculationType
		rate  string
		tiers []Tier
		base  string
		qty   int64
		want  string
	}{
		{"flat", CalculationFlat, "50", nil, "999", 3, "50"},
		{"per unit", CalculationPerUnit, "1.25", nil, "0", 7, "8.75"},
		{"percentage", CalculationPercentage, "3", nil, "1234.56", 0, "37.04"},
		{"tier lowest", CalculationTiered, "0", tiers, "500", 0, "5"},
		{"tier boundary", CalculationTiered, "0", tiers, "1000", 0, "25"},
		{"tier middle", CalculationTiered, "0", tiers, "4000", 0, "100"},
		{"tier flat top", CalculationTiered, "0", tiers, "9000", 0, "300"},
		{"no tier met", CalculationTiered, "0", []Tier{{Threshold: d("100"), Rate: d("5"), Type: TierPercentage}}, "99.99", 0, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(tt.typ, d(tt.rate), tt.tiers, d(tt.base), tt.qty)
			assert.True(t, d(tt.want).Equal(got), "got %s want %s", got, tt.want)
		})
	}
}

func TestNewStructure_Validation(t *testing.T) {
	tenant := uuid.New()
	_, err := NewStructure(tenant, "", CalculationFlat, d("1"), nil, time.Now(), nil)
	assert.Error(t, err)
	_, err = NewStructure(tenant, "X", "bonus", d("1"), nil, time.Now(), nil)
	assert.Error(t, err)
	_, err = NewStructure(tenant, "X", CalculationTiered, d("0"), nil, time.Now(), nil)
	assert.Error(t, err)
	past := time.Now().AddDate(0, -1, 0)
	_, err = NewStructure(tenant, "X", CalculationFlat, d("1"), nil, time.Now(), &past)
	assert.Error(t, err)

	s, err := NewStructure(tenant, "Tiered", CalculationTiered, d("0"), []Tier{{Threshold: d("0"), Rate: d("2")}}, time.Now(), nil)
	require.NoError(t, err)
	assert.Equal(t, TierPercentage, s.Tiers.Data[0].Type)
}

func TestStructure_Applicability(t *testing.T) {
	agent := uuid.New()
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	s, err := NewStructure(uuid.New(), "Jan", CalculationFlat, d("10"), nil, from, &to)
	require.NoError(t, err)

	assert.True(t, s.AppliesToAgent(uuid.New()))
	s.Scope(&agent, nil)
	assert.True(t, s.AppliesToAgent(agent))
	assert.False(t, s.AppliesToAgent(uuid.New()))

	assert.True(t, s.IsEffective(time.Date(2024, 1, 31, 18, 0, 0, 0, time.UTC)))
	assert.False(t, s.IsEffective(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, s.SetStatus(StructureStatusInactive))
	assert.False(t, s.IsEffective(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)))
}

func TestCommission_Lifecycle(t *testing.T) {
	c, err := NewCommission(uuid.New(), uuid.New(), SourceOrder, nil, d("100"), 2, d("5"), "")
	require.NoError(t, err)
	assert.NotEmpty(t, c.IdempotencyKey)
	assert.Equal(t, StatusPending, c.Status)

	err = c.Pay("REF-1", time.Now())
	assert.True(t, errors.Is(err, shared.ErrInvalidState))

	require.NoError(t, c.Approve("manager", time.Now()))
	assert.Error(t, c.Approve("manager", time.Now()))
	assert.Error(t, c.Pay("", time.Now()))
	require.NoError(t, c.Pay("REF-1", time.Now()))
	assert.Equal(t, StatusPaid, c.Status)
	assert.NotNil(t, c.PaidAt)
}

func TestOrderAccrualKey(t *testing.T) {
	o := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	s := uuid.MustParse("22222222-2222-2222-2222-222222222222")
	assert.Equal(t, "order:11111111-1111-1111-1111-111111111111:22222222-2222-2222-2222-222222222222", OrderAccrualKey(o, s))
}

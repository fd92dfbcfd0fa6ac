package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	p, err := NewProduct(uuid.New(), "sku-1", "Soda 500ml", "")
	require.NoError(t, err)
	assert.Equal(t, "SKU-1", p.Code)
	assert.Equal(t, "pcs", p.UnitOfMeasure)
	assert.True(t, p.IsSellable())
}

func TestProduct_SetPricing(t *testing.T) {
	p, err := NewProduct(uuid.New(), "SKU-1", "Soda", "btl")
	require.NoError(t, err)

	tests := []struct {
		name    string
		selling string
		cost    string
		tax     string
		wantErr bool
	}{
		{"valid", "50", "35.5", "16", false},
		{"negative selling", "-1", "0", "0", true},
		{"negative cost", "1", "-1", "0", true},
		{"tax above 100", "1", "1", "101", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.SetPricing(
				decimal.RequireFromString(tt.selling),
				decimal.RequireFromString(tt.cost),
				decimal.RequireFromString(tt.tax),
			)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "16", p.TaxRate.String())
		})
	}
}

func TestCategory_Update(t *testing.T) {
	c, err := NewCategory(uuid.New(), "BEV", "Beverages", nil)
	require.NoError(t, err)

	self := c.ID
	assert.Error(t, c.Update("", "", &self, ""))
	assert.Error(t, c.Update("", "", nil, "archived"))
	require.NoError(t, c.Update("Drinks", "cold drinks", nil, StatusInactive))
	assert.Equal(t, "Drinks", c.Name)
	assert.Equal(t, StatusInactive, c.Status)
}

package approval

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

func TestRequest_Decide(t *testing.T) {
	et := &EntityType{ID: uuid.New(), Code: EntityCashSession, EntityTable: "cash_sessions"}
	r, err := NewRequest(uuid.New(), et, uuid.New(), "agent", " variance ", decimal.RequireFromString("-12.345"))
	require.NoError(t, err)
	assert.Equal(t, StatusPending, r.Status)
	assert.Equal(t, "variance", r.Reason)
	assert.Equal(t, "-12.35", r.Amount.StringFixed(2))
	assert.Equal(t, EntityCashSession, r.EntityCode())

	require.NoError(t, r.Decide(false, "boss", "no", time.Now()))
	assert.Equal(t, StatusRejected, r.Status)
	err = r.Decide(true, "boss", "", time.Now())
	assert.True(t, errors.Is(err, shared.ErrInvalidState))
}

func TestNewRequest_Validation(t *testing.T) {
	_, err := NewRequest(uuid.New(), nil, uuid.New(), "", "", decimal.Zero)
	assert.Error(t, err)
	_, err = NewRequest(uuid.New(), &EntityType{ID: uuid.New()}, uuid.Nil, "", "", decimal.Zero)
	assert.Error(t, err)
}

package field

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVisit(t *testing.T) *Visit {
	t.Helper()
	v, err := NewVisit(uuid.New(), uuid.New(), uuid.New(), nil, time.Now(), "")
	require.NoError(t, err)
	return v
}

func TestVisit_CheckInCheckOut(t *testing.T) {
	v := newVisit(t)
	assert.Equal(t, VisitStatusPlanned, v.Status)
	assert.Equal(t, "routine", v.VisitType)

	err := v.CheckOut(time.Now(), "ordered", "", nil)
	assert.True(t, errors.Is(err, shared.ErrInvalidState))

	lat, lng := -1.2921, 36.8219
	start := time.Now()
	require.NoError(t, v.CheckIn(start, &lat, &lng))
	assert.Equal(t, VisitStatusInProgress, v.Status)

	err = v.CheckIn(time.Now(), nil, nil)
	assert.True(t, errors.Is(err, shared.ErrInvalidState))

	require.NoError(t, v.CheckOut(start.Add(15*time.Minute), "ordered", "good call", []string{"visits/a/b/c.jpg"}))
	assert.Equal(t, VisitStatusCompleted, v.Status)
	assert.Equal(t, 15*time.Minute, v.Duration())
	assert.Equal(t, []string{"visits/a/b/c.jpg"}, v.Photos.Data)

	err = v.CheckOut(time.Now(), "", "", nil)
	assert.True(t, errors.Is(err, shared.ErrInvalidState))
}

func TestVisit_CheckInRejectsBadCoordinates(t *testing.T) {
	v := newVisit(t)
	lat := 91.0
	assert.Error(t, v.CheckIn(time.Now(), &lat, nil))
	assert.Nil(t, v.CheckInTime)
}

func TestVisit_PhotoLimit(t *testing.T) {
	v := newVisit(t)
	for i := 0; i < MaxPhotosPerVisit; i++ {
		require.NoError(t, v.AddPhoto(fmt.Sprintf("k%d", i)))
	}
	assert.Error(t, v.AddPhoto("overflow"))
}

func TestVisit_Cancel(t *testing.T) {
	v := newVisit(t)
	require.NoError(t, v.Cancel())
	assert.Error(t, v.CheckIn(time.Now(), nil, nil))
	assert.Error(t, v.AddPhoto("x"))
}

func TestNewAgent(t *testing.T) {
	a, err := NewAgent(uuid.New(), " ag-01 ", "Jane", "")
	require.NoError(t, err)
	assert.Equal(t, "AG-01", a.Code)
	assert.Equal(t, AgentTypeFieldAgent, a.Type)

	_, err = NewAgent(uuid.New(), "AG-02", "Joe", "pilot")
	assert.Error(t, err)

	require.NoError(t, a.Update("", "0700", "j@x.io", AgentTypeVanSales, AgentStatusInactive))
	assert.False(t, a.IsActive())
	assert.Equal(t, AgentTypeVanSales, a.Type)
}

package shared

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewFilter(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		f := NewFilter(0, 0, "", "", "")
		assert.Equal(t, 1, f.Page)
		assert.Equal(t, DefaultPageSize, f.PageSize)
		assert.Equal(t, "created_at", f.OrderBy)
		assert.Equal(t, "desc", f.OrderDir)
	})

	t.Run("clamps page size", func(t *testing.T) {
		f := NewFilter(2, 1000, "name", "asc", "abc")
		assert.Equal(t, MaxPageSize, f.PageSize)
		assert.Equal(t, 100, f.Offset())
		assert.Equal(t, "abc", f.Search)
	})
}

func TestFilter_With(t *testing.T) {
	id := uuid.New()
	var nilID *uuid.UUID

	f := DefaultFilter().
		With("status", "active").
		With("type", "").
		With("route_id", &id).
		With("agent_id", nilID).
		With("missing", nil)

	assert.Equal(t, "active", f.Filters["status"])
	assert.Equal(t, id, f.Filters["route_id"])
	assert.NotContains(t, f.Filters, "type")
	assert.NotContains(t, f.Filters, "agent_id")
	assert.NotContains(t, f.Filters, "missing")
}

func TestNewPaginated(t *testing.T) {
	p := NewPaginated[int](nil, 41, 1, 20)
	assert.Equal(t, 3, p.TotalPages)
	assert.NotNil(t, p.Items)
	assert.Empty(t, p.Items)
}

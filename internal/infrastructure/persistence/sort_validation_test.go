package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	assert.Equal(t, "ASC", ValidateSortOrder("asc"))
	assert.Equal(t, "ASC", ValidateSortOrder(" ASC "))
	assert.Equal(t, "DESC", ValidateSortOrder("desc"))
	assert.Equal(t, "DESC", ValidateSortOrder(""))
	assert.Equal(t, "DESC", ValidateSortOrder("; DROP TABLE orders"))
}

func TestValidateSortField(t *testing.T) {
	assert.Equal(t, "order_number", ValidateSortField("order_number", OrderSortFields, "created_at"))
	assert.Equal(t, "created_at", ValidateSortField("", OrderSortFields, "created_at"))
	assert.Equal(t, "created_at", ValidateSortField("name; DROP TABLE x", OrderSortFields, "created_at"))
	assert.Equal(t, "updated_at", ValidateSortField("updated_at", CustomerSortFields, "created_at"))
}

func TestSortable_DoesNotMutateCommon(t *testing.T) {
	m := sortable("extra_column")
	assert.True(t, m["extra_column"])
	assert.True(t, m["id"])
	assert.False(t, CommonSortFields["extra_column"])
}

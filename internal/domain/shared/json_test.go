package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON_ValueScan(t *testing.T) {
	in := NewJSON(map[string]int{"a": 1})
	v, err := in.Value()
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, v)

	var out JSON[map[string]int]
	require.NoError(t, out.Scan([]byte(`{"b":2}`)))
	assert.Equal(t, 2, out.Data["b"])

	require.NoError(t, out.Scan(nil))
	assert.Nil(t, out.Data)

	assert.Error(t, out.Scan(42))
}

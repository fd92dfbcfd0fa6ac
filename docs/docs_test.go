package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag/v2"
)

func TestSwaggerDocument_DescribesRoutes(t *testing.T) {
	raw, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var doc struct {
		Paths       map[string]map[string]json.RawMessage `json:"paths"`
		Definitions map[string]json.RawMessage            `json:"definitions"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	assert.NotEmpty(t, doc.Paths)
	for path, methods := range map[string][]string{
		"/orders":                         {"get", "post"},
		"/cash-sessions/{id}/collections": {"get", "post"},
		"/cash-sessions/{id}/reject":      {"post"},
		"/visits/{id}/photos":             {"post"},
	} {
		for _, m := range methods {
			assert.Contains(t, doc.Paths[path], m, "%s %s", m, path)
		}
	}
	assert.Contains(t, doc.Definitions, "handler.ErrorResponse")
	assert.Contains(t, doc.Definitions, "trade.CreateOrderRequest")
}

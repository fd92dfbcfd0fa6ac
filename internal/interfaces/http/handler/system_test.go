package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemHandler_Health(t *testing.T) {
	up := func(ctx context.Context) error { return nil }

	t.Run("all components up", func(t *testing.T) {
		h := NewSystemHandler("erp-distribution", "test", map[string]HealthCheck{"database": up, "redis": up})
		r := gin.New()
		r.GET("/health", h.Health)

		w := doJSON(r, http.MethodGet, "/health", nil)

		var resp HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ok", resp.Status)
		require.Len(t, resp.Components, 2)
		assert.Equal(t, "database", resp.Components[0].Name)
		assert.Equal(t, "redis", resp.Components[1].Name)
	})

	t.Run("a failing component degrades the service", func(t *testing.T) {
		h := NewSystemHandler("erp-distribution", "test", map[string]HealthCheck{
			"database": up,
			"redis":    func(ctx context.Context) error { return errors.New("dial tcp: connection refused") },
		})
		r := gin.New()
		r.GET("/health", h.Health)

		w := doJSON(r, http.MethodGet, "/health", nil)

		var resp HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "degraded", resp.Status)
		assert.Equal(t, "down", resp.Components[1].Status)
		assert.Contains(t, resp.Components[1].Error, "connection refused")
	})
}

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	h := NewSystemHandler("erp-distribution", "1.2.3", nil)
	r := gin.New()
	r.GET("/info", h.GetSystemInfo)

	w := doJSON(r, http.MethodGet, "/info", nil)

	var info SystemInfoResponse
	decode(t, w, &info)
	assert.Equal(t, "erp-distribution", info.Name)
	assert.Equal(t, "1.2.3", info.Version)
}

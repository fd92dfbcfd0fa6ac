package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	appshared "github.com/erp/distribution/internal/application/shared"
	"github.com/erp/distribution/internal/domain/shared"
	"github.com/erp/distribution/internal/interfaces/http/dto"
	"github.com/erp/distribution/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{"not found", shared.NewNotFoundError("agent"), http.StatusNotFound, dto.ErrCodeNotFound},
		{"wrapped not found", fmt.Errorf("load: %w", shared.ErrNotFound), http.StatusNotFound, dto.ErrCodeNotFound},
		{"validation", shared.NewValidationError("amount must be positive"), http.StatusBadRequest, dto.ErrCodeValidation},
		{"already exists", shared.ErrAlreadyExists, http.StatusConflict, dto.ErrCodeAlreadyExists},
		{"duplicate request", shared.ErrDuplicateRequest, http.StatusConflict, dto.ErrCodeDuplicateRequest},
		{"invalid state", shared.NewInvalidStateError("session is closed"), http.StatusUnprocessableEntity, dto.ErrCodeInvalidState},
		{"insufficient stock", shared.ErrInsufficientStock, http.StatusUnprocessableEntity, dto.ErrCodeInsufficientStock},
		{"storage unavailable", shared.NewDomainError("STORAGE_UNAVAILABLE", "no storage"), http.StatusServiceUnavailable, dto.ErrCodeStorageUnavailable},
		{"plain error", errors.New("connection reset"), http.StatusInternalServerError, dto.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			r := gin.New()
			r.Use(middleware.RequestID())
			r.GET("/x", func(c *gin.Context) { h.HandleError(c, tt.err) })

			w := doJSON(r, http.MethodGet, "/x", nil)
			env := decode(t, w, nil)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.False(t, env.Success)
			assert.Equal(t, tt.wantErr, env.Error.Code)
			assert.NotEmpty(t, env.Error.RequestID)
		})
	}

	t.Run("internal errors hide the cause", func(t *testing.T) {
		h := &BaseHandler{}
		r := gin.New()
		r.GET("/x", func(c *gin.Context) { h.HandleError(c, errors.New("pq: password authentication failed")) })

		w := doJSON(r, http.MethodGet, "/x", nil)
		assert.NotContains(t, w.Body.String(), "password")
	})
}

func TestBaseHandler_Paged(t *testing.T) {
	h := &BaseHandler{}
	r := gin.New()
	r.GET("/items", func(c *gin.Context) {
		h.Paged(c, []string{"a", "b"}, 45, appshared.PageQuery{Page: 2, PageSize: 20})
	})

	w := doJSON(r, http.MethodGet, "/items", nil)
	var items []string
	env := decode(t, w, &items)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"a", "b"}, items)
	assert.Equal(t, int64(45), env.Meta.Total)
	assert.Equal(t, 2, env.Meta.Page)
	assert.Equal(t, 20, env.Meta.PageSize)
	assert.Equal(t, 3, env.Meta.TotalPages)
}

func TestBaseHandler_Scoped(t *testing.T) {
	r, tenantID := tenantRouter(t)
	h := &BaseHandler{}
	r.GET("/items/:id", func(c *gin.Context) {
		gotTenant, id, ok := h.scoped(c, "item")
		if !ok {
			return
		}
		h.Success(c, gin.H{"tenant": gotTenant, "id": id})
	})

	t.Run("malformed id", func(t *testing.T) {
		w := doJSON(r, http.MethodGet, "/items/not-a-uuid", nil)
		env := decode(t, w, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid item ID format", env.Error.Message)
	})

	t.Run("valid id", func(t *testing.T) {
		w := doJSON(r, http.MethodGet, "/items/"+tenantID.String(), nil)
		var data map[string]string
		decode(t, w, &data)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, tenantID.String(), data["tenant"])
	})
}

func TestBaseHandler_ValidationError(t *testing.T) {
	type body struct {
		Code string `json:"code" binding:"required"`
	}
	h := &BaseHandler{}
	r := gin.New()
	r.POST("/x", func(c *gin.Context) {
		var req body
		if !h.bindJSON(c, &req) {
			return
		}
		h.Created(c, req)
	})

	w := doJSON(r, http.MethodPost, "/x", map[string]string{})
	env := decode(t, w, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeValidation, env.Error.Code)
	if assert.Len(t, env.Error.Details, 1) {
		assert.Equal(t, "code", env.Error.Details[0].Field)
	}
}

func TestBaseHandler_BindOptionalJSON(t *testing.T) {
	type body struct {
		Notes string `json:"notes" binding:"max=10"`
	}
	h := &BaseHandler{}
	r := gin.New()
	r.POST("/x", func(c *gin.Context) {
		var req body
		if !h.bindOptionalJSON(c, &req) {
			return
		}
		h.Success(c, req)
	})
	send := func(payload string, contentLength int64) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/x", io.NopCloser(strings.NewReader(payload)))
		req.ContentLength = contentLength
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	tests := []struct {
		name          string
		payload       string
		contentLength int64
		code          int
		notes         string
	}{
		{"chunked body is bound", `{"notes":"recount"}`, -1, http.StatusOK, "recount"},
		{"empty chunked body", "", -1, http.StatusOK, ""},
		{"sized body", `{"notes":"short"}`, 17, http.StatusOK, "short"},
		{"malformed", `{"notes":`, -1, http.StatusBadRequest, ""},
		{"rule still applies", `{"notes":"far too long for it"}`, -1, http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := send(tt.payload, tt.contentLength)
			require.Equal(t, tt.code, w.Code, w.Body.String())
			if tt.code == http.StatusOK {
				var got body
				decode(t, w, &got)
				assert.Equal(t, tt.notes, got.Notes)
			}
		})
	}

	w := doJSON(r, http.MethodPost, "/x", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

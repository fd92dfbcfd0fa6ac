package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/erp/distribution/internal/infrastructure/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type stubVerifier struct {
	claims *auth.Claims
	err    error
}

func (s stubVerifier) Verify(string) (*auth.Claims, error) {
	return s.claims, s.err
}

func jwtRouter(v TokenVerifier) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), OptionalJWT(v))
	router.GET("/who", func(c *gin.Context) { c.String(http.StatusOK, Actor(c)) })
	return router
}

func TestOptionalJWT(t *testing.T) {
	claims := &auth.Claims{TenantID: uuid.NewString(), Username: "alice"}

	t.Run("no token passes through", func(t *testing.T) {
		w := serve(jwtRouter(stubVerifier{err: auth.ErrInvalidToken}), httptest.NewRequest(http.MethodGet, "/who", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("valid token sets claims", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/who", nil)
		req.Header.Set("Authorization", "Bearer good")
		w := serve(jwtRouter(stubVerifier{claims: claims}), req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "alice", w.Body.String())
	})

	t.Run("expired token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/who", nil)
		req.Header.Set("Authorization", "Bearer old")
		w := serve(jwtRouter(stubVerifier{err: auth.ErrExpiredToken}), req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Token has expired")
		assert.NotEmpty(t, w.Header().Get("WWW-Authenticate"))
	})

	t.Run("wrong scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/who", nil)
		req.Header.Set("Authorization", "Basic abc")
		w := serve(jwtRouter(stubVerifier{claims: claims}), req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), `"UNAUTHORIZED"`)
	})
}

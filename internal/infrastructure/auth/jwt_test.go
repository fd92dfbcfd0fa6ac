package auth

import (
	"testing"
	"time"

	"github.com/erp/distribution/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-at-least-32-bytes!!"

func sign(t *testing.T, method jwt.SigningMethod, secret string, claims Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func validClaims(tenant uuid.UUID) Claims {
	now := time.Now()
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "erp",
			Subject:   "sub-1",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		TenantID: tenant.String(),
		Username: "alice",
	}
}

func TestVerifier_Verify(t *testing.T) {
	v := NewVerifier(config.JWTConfig{Secret: testSecret, Issuer: "erp"})
	tenant := uuid.New()

	t.Run("valid token", func(t *testing.T) {
		claims, err := v.Verify(sign(t, jwt.SigningMethodHS256, testSecret, validClaims(tenant)))
		require.NoError(t, err)
		got, err := claims.TenantUUID()
		require.NoError(t, err)
		assert.Equal(t, tenant, got)
		assert.Equal(t, "alice", claims.Actor())
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := v.Verify(sign(t, jwt.SigningMethodHS256, "other-secret", validClaims(tenant)))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		c := validClaims(tenant)
		c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		_, err := v.Verify(sign(t, jwt.SigningMethodHS256, testSecret, c))
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		c := validClaims(tenant)
		c.Issuer = "someone-else"
		_, err := v.Verify(sign(t, jwt.SigningMethodHS256, testSecret, c))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing tenant", func(t *testing.T) {
		c := validClaims(tenant)
		c.TenantID = ""
		_, err := v.Verify(sign(t, jwt.SigningMethodHS256, testSecret, c))
		assert.ErrorIs(t, err, ErrMissingTenantID)
	})

	t.Run("malformed tenant", func(t *testing.T) {
		c := validClaims(tenant)
		c.TenantID = "acme"
		_, err := v.Verify(sign(t, jwt.SigningMethodHS256, testSecret, c))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := v.Verify("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestClaims_Actor(t *testing.T) {
	assert.Equal(t, "u-1", (&Claims{UserID: "u-1"}).Actor())
	c := &Claims{}
	c.Subject = "svc"
	assert.Equal(t, "svc", c.Actor())
}

package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/erp/distribution/internal/infrastructure/auth"
	"github.com/erp/distribution/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// JWT context keys
const (
	JWTClaimsKey = "jwt_claims"
	bearerPrefix = "Bearer "
)

// TokenVerifier validates a raw bearer token
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// OptionalJWT verifies a bearer token when one is sent. Requests without a
// token pass through; a token that fails verification is rejected with 401.
func OptionalJWT(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}
		if !strings.HasPrefix(header, bearerPrefix) {
			abortUnauthorized(c, "Authorization header must use the Bearer scheme")
			return
		}
		claims, err := verifier.Verify(strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix)))
		if err != nil {
			msg := "Invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				msg = "Token has expired"
			}
			abortUnauthorized(c, msg)
			return
		}
		c.Set(JWTClaimsKey, claims)
		c.Next()
	}
}

// GetJWTClaims returns the verified claims, or nil without a token
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(JWTClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// Actor names the caller for audit fields; empty without a token
func Actor(c *gin.Context) string {
	if claims := GetJWTClaims(c); claims != nil {
		return claims.Actor()
	}
	return ""
}

func abortUnauthorized(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", `Bearer realm="api"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, message, GetRequestID(c)))
}

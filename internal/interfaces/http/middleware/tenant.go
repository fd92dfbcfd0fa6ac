package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/erp/distribution/internal/domain/identity"
	"github.com/erp/distribution/internal/domain/shared"
	"github.com/erp/distribution/internal/infrastructure/logger"
	"github.com/erp/distribution/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const tenantKey = "tenant"

// TenantResolver loads an active tenant by ID or code
type TenantResolver interface {
	ResolveByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error)
	ResolveByCode(ctx context.Context, code string) (*identity.Tenant, error)
}

// Tenant resolves the request tenant from, in order, the JWT tenant_id
// claim, the X-Tenant-ID header and the X-Tenant-Code header. A missing or
// malformed tenant is 400, an unknown one 404 and a suspended one 403.
// fallback, when not nil, is used for requests that name no tenant.
func Tenant(resolver TenantResolver, fallback *uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var (
			tenant *identity.Tenant
			err    error
		)

		switch claims, idHeader, code := GetJWTClaims(c), c.GetHeader(TenantIDHeader), strings.TrimSpace(c.GetHeader(TenantCodeHeader)); {
		case claims != nil:
			id, perr := claims.TenantUUID()
			if perr != nil {
				abortTenant(c, http.StatusBadRequest, dto.ErrCodeValidation, "Invalid tenant_id claim")
				return
			}
			tenant, err = resolver.ResolveByID(ctx, id)
		case idHeader != "":
			id, perr := uuid.Parse(idHeader)
			if perr != nil {
				abortTenant(c, http.StatusBadRequest, dto.ErrCodeValidation, "X-Tenant-ID must be a UUID")
				return
			}
			tenant, err = resolver.ResolveByID(ctx, id)
		case code != "":
			tenant, err = resolver.ResolveByCode(ctx, strings.ToUpper(code))
		case fallback != nil:
			tenant, err = resolver.ResolveByID(ctx, *fallback)
		default:
			abortTenant(c, http.StatusBadRequest, dto.ErrCodeValidation, "Tenant is required: send X-Tenant-ID or X-Tenant-Code")
			return
		}

		switch {
		case err == nil:
		case errors.Is(err, shared.ErrNotFound):
			abortTenant(c, http.StatusNotFound, dto.ErrCodeNotFound, "Tenant not found")
			return
		case errors.Is(err, shared.ErrTenantSuspended):
			abortTenant(c, http.StatusForbidden, dto.ErrCodeTenantSuspended, "Tenant is suspended")
			return
		default:
			logger.FromGin(c).Error("tenant resolution failed", zap.Error(err))
			abortTenant(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
			return
		}

		c.Set(tenantKey, tenant)
		c.Set(logger.GinTenantIDKey, tenant.ID.String())
		c.Request = c.Request.WithContext(logger.WithTenantID(ctx, tenant.ID.String()))
		c.Next()
	}
}

// GetTenantID returns the resolved tenant ID
func GetTenantID(c *gin.Context) (uuid.UUID, bool) {
	if v, ok := c.Get(tenantKey); ok {
		if t, ok := v.(*identity.Tenant); ok {
			return t.ID, true
		}
	}
	return uuid.Nil, false
}

func abortTenant(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}

package router

import (
	"time"

	fieldapp "github.com/erp/distribution/internal/application/field"
	"github.com/erp/distribution/internal/infrastructure/logger"
	"github.com/erp/distribution/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Options configures the engine built by New
type Options struct {
	Logger         *zap.Logger
	ServiceName    string
	APIVersion     string
	MaxBodySize    int64
	TrustedProxies []string
	CORS           middleware.CORSConfig

	// Optional collaborators; nil disables the matching middleware or endpoint
	Metrics     *middleware.HTTPMetrics
	RateLimiter *middleware.RateLimiter
	Verifier    middleware.TokenVerifier

	Tenants        middleware.TenantResolver
	FallbackTenant *uuid.UUID

	Tracing   bool
	Profiling bool
	Swagger   bool
}

// New builds the gin engine: global middleware, operational endpoints,
// the platform API and the tenant-scoped API.
func New(opts Options, h Handlers) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	engine := gin.New()
	if len(opts.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(opts.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// RequestID first so recovery and access logs carry it
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(corsOrDefault(opts.CORS)))
	if opts.Metrics != nil {
		engine.Use(opts.Metrics.Middleware())
	}
	if opts.Tracing {
		engine.Use(middleware.Tracing(opts.ServiceName))
	}
	if opts.RateLimiter != nil {
		engine.Use(middleware.RateLimit(opts.RateLimiter))
	}

	engine.GET("/health", h.System.Health)
	if opts.Metrics != nil {
		engine.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}
	if opts.Swagger {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	version := opts.APIVersion
	if version == "" {
		version = "v1"
	}

	platform := NewRouter(engine, WithAPIVersion(version))
	if opts.Verifier != nil {
		platform.Use(middleware.OptionalJWT(opts.Verifier))
	}
	platform.Use(middleware.BodyLimit(opts.MaxBodySize))
	platform.Register(asRegistrars(PlatformGroups(h))...)
	platform.Setup()

	scoped := NewRouter(engine, WithAPIVersion(version))
	if opts.Verifier != nil {
		scoped.Use(middleware.OptionalJWT(opts.Verifier))
	}
	scoped.Use(middleware.Tenant(opts.Tenants, opts.FallbackTenant))
	if opts.Tracing {
		scoped.Use(middleware.SpanAttributes())
	}
	if opts.Profiling {
		scoped.Use(middleware.Profiling())
	}
	scoped.Use(middleware.BodyLimitByRoute(opts.MaxBodySize, map[string]int64{
		scoped.BasePath() + PhotoUploadRoute: PhotoUploadLimit,
	}))
	scoped.Register(asRegistrars(TenantGroups(h))...)
	scoped.Setup()

	log.Info("HTTP routes registered",
		zap.String("base_path", scoped.BasePath()),
		zap.Bool("swagger", opts.Swagger),
		zap.Bool("metrics", opts.Metrics != nil),
		zap.Bool("rate_limit", opts.RateLimiter != nil),
	)
	return engine
}

// PhotoUploadLimit leaves room for multipart framing around the largest photo
const PhotoUploadLimit = fieldapp.MaxPhotoSize + 1<<20

func asRegistrars(groups []*DomainGroup) []RouteRegistrar {
	out := make([]RouteRegistrar, len(groups))
	for i, g := range groups {
		out[i] = g
	}
	return out
}

func corsOrDefault(cfg middleware.CORSConfig) middleware.CORSConfig {
	def := middleware.DefaultCORSConfig()
	if len(cfg.AllowOrigins) == 0 {
		cfg.AllowOrigins = def.AllowOrigins
	}
	if len(cfg.AllowMethods) == 0 {
		cfg.AllowMethods = def.AllowMethods
	}
	if len(cfg.AllowHeaders) == 0 {
		cfg.AllowHeaders = def.AllowHeaders
	}
	if len(cfg.ExposeHeaders) == 0 {
		cfg.ExposeHeaders = def.ExposeHeaders
	}
	if cfg.MaxAge == 0 {
		cfg.MaxAge = 12 * time.Hour
	}
	return cfg
}

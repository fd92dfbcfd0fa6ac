package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	approvalapp "github.com/erp/distribution/internal/application/approval"
	catalogapp "github.com/erp/distribution/internal/application/catalog"
	commissionapp "github.com/erp/distribution/internal/application/commission"
	exportapp "github.com/erp/distribution/internal/application/export"
	fieldapp "github.com/erp/distribution/internal/application/field"
	financeapp "github.com/erp/distribution/internal/application/finance"
	identityapp "github.com/erp/distribution/internal/application/identity"
	inventoryapp "github.com/erp/distribution/internal/application/inventory"
	partnerapp "github.com/erp/distribution/internal/application/partner"
	appshared "github.com/erp/distribution/internal/application/shared"
	surveyapp "github.com/erp/distribution/internal/application/survey"
	tradeapp "github.com/erp/distribution/internal/application/trade"
	"github.com/erp/distribution/internal/domain/approval"
	"github.com/erp/distribution/internal/domain/shared"
	"github.com/erp/distribution/internal/infrastructure/auth"
	"github.com/erp/distribution/internal/infrastructure/cache"
	"github.com/erp/distribution/internal/infrastructure/config"
	"github.com/erp/distribution/internal/infrastructure/event"
	"github.com/erp/distribution/internal/infrastructure/logger"
	"github.com/erp/distribution/internal/infrastructure/persistence"
	"github.com/erp/distribution/internal/infrastructure/storage"
	"github.com/erp/distribution/internal/infrastructure/telemetry"
	"github.com/erp/distribution/internal/interfaces/http/handler"
	"github.com/erp/distribution/internal/interfaces/http/middleware"
	"github.com/erp/distribution/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "github.com/erp/distribution/docs"
)

// version is stamped at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Distribution ERP API
//	@version		1.0
//	@description	Multi-tenant sales and distribution backend.

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Optional bearer token carrying a tenant_id claim. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	ctx := context.Background()

	telemetryCfg := telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}

	// Log pipeline comes first so the logger can tee into it
	logsCfg := telemetryCfg
	logsCfg.Enabled = cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled
	logProvider, err := telemetry.NewLoggerProvider(ctx, logsCfg)
	if err != nil {
		panic("Failed to initialize log exporter: " + err.Error())
	}
	var extraCores []zapcore.Core
	if core := logProvider.Core(logger.ParseLevel(cfg.Log.Level)); core != nil {
		extraCores = append(extraCores, core)
	}
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}, extraCores...)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting distribution ERP",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	metricsCfg := telemetryCfg
	metricsCfg.Enabled = cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled
	meterProvider, err := telemetry.NewMeterProvider(ctx, metricsCfg, cfg.Telemetry.MetricsInterval)
	if err != nil {
		log.Fatal("Failed to initialize metric exporter", zap.Error(err))
	}
	var metrics appshared.BusinessMetrics = appshared.NopMetrics{}
	if bm, err := telemetry.NewBusinessMetrics(meterProvider.Meter(cfg.Telemetry.ServiceName)); err != nil {
		log.Warn("Business metrics unavailable", zap.Error(err))
	} else {
		metrics = bm
	}

	profiler, err := telemetry.StartProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Profiling.Enabled,
		ServerAddress:     cfg.Profiling.ServerAddress,
		ApplicationName:   cfg.Telemetry.ServiceName,
		BasicAuthUser:     cfg.Profiling.BasicAuthUser,
		BasicAuthPassword: cfg.Profiling.BasicAuthPass,
		Tags:              map[string]string{"env": cfg.App.Env, "version": version},
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if cfg.Profiling.Enabled {
		tracerProvider.EnableSpanProfiles()
	}

	gormLog := logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBName:          cfg.Database.DBName,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Redis backs idempotency keys and tenant code lookups; without it both stay in process
	var (
		redisClient *redis.Client
		idempotency shared.IdempotencyStore
		tenantCodes identityapp.TenantCodeCache
	)
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		idempotency = cache.NewRedisIdempotencyStore(redisClient, "")
		tenantCodes = cache.NewRedisTenantCodeCache(redisClient)
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	} else {
		idempotency = cache.NewInMemoryIdempotencyStore(time.Minute)
		tenantCodes = cache.NewInMemoryTenantCodeCache()
		log.Warn("Redis disabled, idempotency keys are kept in process memory")
	}

	var objects appshared.ObjectStore
	if cfg.Storage.Enabled {
		s3Store, err := storage.NewS3ObjectStore(ctx, &cfg.Storage, log)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		objects = s3Store
	} else if !cfg.IsProduction() {
		objects = storage.NewMemoryObjectStore("http://localhost:" + cfg.App.Port + "/files")
		log.Warn("Object storage disabled, visit photos are kept in memory")
	}

	// Repositories
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	brandRepo := persistence.NewGormBrandRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	warehouseRepo := persistence.NewGormWarehouseRepository(db.DB)
	stockRepo := persistence.NewGormStockItemRepository(db.DB)
	movementRepo := persistence.NewGormStockMovementRepository(db.DB)
	agentRepo := persistence.NewGormAgentRepository(db.DB)
	routeRepo := persistence.NewGormRouteRepository(db.DB)
	visitRepo := persistence.NewGormVisitRepository(db.DB)
	surveyRepo := persistence.NewGormSurveyRepository(db.DB)
	responseRepo := persistence.NewGormResponseRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	structureRepo := persistence.NewGormStructureRepository(db.DB)
	commissionRepo := persistence.NewGormCommissionRepository(db.DB)
	sessionRepo := persistence.NewGormCashSessionRepository(db.DB)
	collectionRepo := persistence.NewGormCashCollectionRepository(db.DB)
	depositRepo := persistence.NewGormBankDepositRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	entityTypeRepo := persistence.NewGormEntityTypeRepository(db.DB)
	approvalRepo := persistence.NewGormApprovalRequestRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Application services
	tenantService := identityapp.NewTenantService(tenantRepo, tenantCodes, log)
	customerService := partnerapp.NewCustomerService(customerRepo, orderRepo)
	categoryService := catalogapp.NewCategoryService(categoryRepo, productRepo)
	brandService := catalogapp.NewBrandService(brandRepo, productRepo)
	productService := catalogapp.NewProductService(productRepo, categoryRepo, brandRepo)
	warehouseService := inventoryapp.NewWarehouseService(warehouseRepo)
	stockService := inventoryapp.NewStockService(stockRepo, movementRepo, warehouseRepo, productRepo, txScope.ForInventory(), log)
	agentService := fieldapp.NewAgentService(agentRepo)
	routeService := fieldapp.NewRouteService(routeRepo, agentRepo, customerRepo)
	visitService := fieldapp.NewVisitService(visitRepo, agentRepo, routeRepo, customerRepo, objects, log)
	surveyService := surveyapp.NewSurveyService(surveyRepo, responseRepo, customerRepo, agentRepo)
	orderService := tradeapp.NewOrderService(tradeapp.OrderServiceDeps{
		Orders:     orderRepo,
		Customers:  customerRepo,
		Agents:     agentRepo,
		Products:   productRepo,
		Warehouses: warehouseRepo,
		TxScope:    txScope.ForTrade(),
		Metrics:    metrics,
		Logger:     log,
	})
	structureService := commissionapp.NewStructureService(structureRepo, agentRepo)
	commissionService := commissionapp.NewCommissionService(structureRepo, commissionRepo, agentRepo, metrics, log)
	cashSessionService := financeapp.NewCashSessionService(financeapp.CashSessionServiceDeps{
		Sessions:          sessionRepo,
		Collections:       collectionRepo,
		Deposits:          depositRepo,
		Agents:            agentRepo,
		TxScope:           txScope.ForFinance(),
		Metrics:           metrics,
		Logger:            log,
		VarianceThreshold: cfg.Cash.VarianceThresholdPercent,
	})
	invoiceService := financeapp.NewInvoiceService(invoiceRepo, orderRepo, customerRepo)
	paymentService := financeapp.NewPaymentService(financeapp.PaymentServiceDeps{
		Payments:    paymentRepo,
		TxScope:     txScope.ForFinance(),
		Idempotency: idempotency,
		TTL:         cfg.Idempotency.TTL,
		Metrics:     metrics,
		Logger:      log,
	})
	approvalService := approvalapp.NewApprovalService(entityTypeRepo, approvalRepo, txScope.ForApproval(), log)
	approvalService.RegisterHook(approval.EntityCashSession, financeapp.CashSessionDecisionHook())
	exportService := exportapp.NewService(customerService, orderService)

	// Event bus: delivered orders accrue commissions once per event
	eventBus := event.NewInMemoryEventBus(log)
	accrual := commissionapp.NewOrderDeliveredHandler(commissionService, log)
	eventBus.Subscribe(event.NewIdempotentHandler(accrual, idempotency, cfg.Idempotency.TTL, log))
	orderService.SetEventPublisher(eventBus)
	commissionService.SetEventPublisher(eventBus)
	cashSessionService.SetEventPublisher(eventBus)
	paymentService.SetEventPublisher(eventBus)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	log.Info("Event handlers registered", zap.Strings("commission_accrual_events", accrual.EventTypes()))

	// HTTP
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	checks := map[string]handler.HealthCheck{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}

	var fallbackTenant *uuid.UUID
	if cfg.App.DefaultTenantID != "" && !cfg.IsProduction() {
		id, err := uuid.Parse(cfg.App.DefaultTenantID)
		if err != nil {
			log.Fatal("Invalid default tenant ID", zap.String("default_tenant_id", cfg.App.DefaultTenantID), zap.Error(err))
		}
		fallbackTenant = &id
		log.Warn("Requests without a tenant fall back to the default tenant", zap.String("tenant_id", id.String()))
	}

	var verifier middleware.TokenVerifier
	if cfg.JWT.Enabled {
		verifier = auth.NewVerifier(cfg.JWT)
	}

	var rateLimiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer rateLimiter.Stop()
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	engine := router.New(router.Options{
		Logger:         log,
		ServiceName:    cfg.Telemetry.ServiceName,
		MaxBodySize:    cfg.HTTP.MaxBodySize,
		TrustedProxies: cfg.HTTP.TrustedProxies,
		CORS: middleware.CORSConfig{
			AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
			AllowMethods:     cfg.HTTP.CORSAllowMethods,
			AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
			AllowCredentials: true,
		},
		Metrics:        middleware.NewHTTPMetrics("erp"),
		RateLimiter:    rateLimiter,
		Verifier:       verifier,
		Tenants:        tenantService,
		FallbackTenant: fallbackTenant,
		Tracing:        cfg.Telemetry.Enabled,
		Profiling:      cfg.Profiling.Enabled,
		Swagger:        cfg.Swagger.Enabled,
	}, router.Handlers{
		Tenant:              handler.NewTenantHandler(tenantService),
		Customer:            handler.NewCustomerHandler(customerService, orderService),
		Category:            handler.NewCategoryHandler(categoryService),
		Brand:               handler.NewBrandHandler(brandService),
		Product:             handler.NewProductHandler(productService),
		Warehouse:           handler.NewWarehouseHandler(warehouseService),
		Inventory:           handler.NewInventoryHandler(stockService),
		Agent:               handler.NewAgentHandler(agentService),
		Route:               handler.NewRouteHandler(routeService),
		Visit:               handler.NewVisitHandler(visitService),
		Survey:              handler.NewSurveyHandler(surveyService),
		Order:               handler.NewOrderHandler(orderService),
		CommissionStructure: handler.NewCommissionStructureHandler(structureService),
		Commission:          handler.NewCommissionHandler(commissionService),
		CashSession:         handler.NewCashSessionHandler(cashSessionService),
		Finance:             handler.NewFinanceHandler(invoiceService, paymentService),
		Approval:            handler.NewApprovalHandler(approvalService),
		Export:              handler.NewExportHandler(exportService),
		System:              handler.NewSystemHandler(cfg.App.Name, version, checks),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	timeout := cfg.HTTP.ShutdownTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}
	// The Redis store owns the client; the in-memory one owns its sweeper
	if closer, ok := idempotency.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}
	if err := db.Close(); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Error("Error stopping profiler", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error flushing metrics", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error flushing traces", zap.Error(err))
	}
	log.Info("Server exited gracefully")
	if err := logProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error flushing logs", zap.Error(err))
	}
}

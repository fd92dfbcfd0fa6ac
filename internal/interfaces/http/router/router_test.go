package router

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	fieldapp "github.com/erp/distribution/internal/application/field"
	"github.com/erp/distribution/internal/domain/identity"
	"github.com/erp/distribution/internal/domain/shared"
	"github.com/erp/distribution/internal/interfaces/http/dto"
	"github.com/erp/distribution/internal/interfaces/http/handler"
	"github.com/erp/distribution/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "v1", r.apiVersion)
	assert.Equal(t, "/api/v1", r.BasePath())
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "/api/v2", r.BasePath())
}

func TestRouterSetup_AppliesRouterMiddleware(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("test", "/test")
	g.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	NewRouter(engine, WithMiddleware(func(c *gin.Context) {
		c.Header("X-Router", "yes")
		c.Next()
	})).Register(g).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/test/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
	assert.Equal(t, "yes", w.Header().Get("X-Router"))
}

func TestRoutersShareBasePath(t *testing.T) {
	engine := gin.New()
	tag := func(v string) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Header("X-Group", v)
			c.Next()
		}
	}
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }

	NewRouter(engine, WithMiddleware(tag("platform"))).Register(NewDomainGroup("a", "/a").GET("", ok)).Setup()
	NewRouter(engine, WithMiddleware(tag("scoped"))).Register(NewDomainGroup("b", "/b").GET("", ok)).Setup()

	for path, want := range map[string]string{"/api/v1/a": "platform", "/api/v1/b": "scoped"} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Equal(t, want, w.Header().Get("X-Group"), path)
	}
}

func TestDomainGroup_Methods(t *testing.T) {
	tests := []struct {
		method   string
		register func(g *DomainGroup, h gin.HandlerFunc)
	}{
		{http.MethodGet, func(g *DomainGroup, h gin.HandlerFunc) { g.GET("/items/:id", h) }},
		{http.MethodPost, func(g *DomainGroup, h gin.HandlerFunc) { g.POST("/items/:id", h) }},
		{http.MethodPut, func(g *DomainGroup, h gin.HandlerFunc) { g.PUT("/items/:id", h) }},
		{http.MethodPatch, func(g *DomainGroup, h gin.HandlerFunc) { g.PATCH("/items/:id", h) }},
		{http.MethodDelete, func(g *DomainGroup, h gin.HandlerFunc) { g.DELETE("/items/:id", h) }},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			engine := gin.New()
			g := NewDomainGroup("test", "/test")
			tt.register(g, func(c *gin.Context) { c.String(http.StatusOK, c.Param("id")) })
			g.RegisterRoutes(engine.Group("/api/v1"))

			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(tt.method, "/api/v1/test/items/42", nil))
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "42", w.Body.String())
		})
	}
}

func TestDomainGroup_SubgroupsAndMiddleware(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("catalog", "/catalog")
	g.Use(func(c *gin.Context) {
		c.Header("X-Domain", g.Name())
		c.Next()
	})
	g.Group("products", "/products").GET("", func(c *gin.Context) { c.String(http.StatusOK, "products") })
	g.Group("brands", "/brands").GET("", func(c *gin.Context) { c.String(http.StatusOK, "brands") })
	g.RegisterRoutes(engine.Group("/api/v1"))

	for _, name := range []string{"products", "brands"} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/"+name, nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, name, w.Body.String())
		assert.Equal(t, "catalog", w.Header().Get("X-Domain"))
	}

	assert.Equal(t, []Route{
		{Method: http.MethodGet, Path: "/catalog/brands"},
		{Method: http.MethodGet, Path: "/catalog/products"},
	}, g.Routes())
}

func TestTenantGroups_Routes(t *testing.T) {
	h := testHandlers()
	seen := map[Route]bool{}
	for _, g := range TenantGroups(h) {
		for _, r := range g.Routes() {
			assert.False(t, seen[r], "duplicate route %v", r)
			seen[r] = true
		}
	}

	for _, want := range []Route{
		{http.MethodGet, "/customers/:id/orders"},
		{http.MethodGet, "/inventory/:warehouse_id/:product_id"},
		{http.MethodPost, "/inventory/transfer"},
		{http.MethodGet, "/stock-movements"},
		{http.MethodPut, "/routes/:id/customers"},
		{http.MethodPost, PhotoUploadRoute},
		{http.MethodGet, "/surveys/:id/analytics"},
		{http.MethodDelete, "/orders/:id"},
		{http.MethodPost, "/commissions/calculate"},
		{http.MethodPost, "/cash-sessions/:id/approve"},
		{http.MethodGet, "/bank-deposits/:id"},
		{http.MethodPost, "/invoices/:id/cancel"},
		{http.MethodPost, "/payments"},
		{http.MethodGet, "/approval-entity-types"},
		{http.MethodPost, "/approvals/:id/reject"},
		{http.MethodGet, "/exports/orders.xlsx"},
	} {
		assert.True(t, seen[want], "missing route %v", want)
	}

	var platform []Route
	for _, g := range PlatformGroups(h) {
		platform = append(platform, g.Routes()...)
	}
	assert.Contains(t, platform, Route{http.MethodPost, "/tenants/:id/suspend"})
	assert.Contains(t, platform, Route{http.MethodGet, "/system/info"})
}

// stubTenants resolves one known tenant and rejects the rest
type stubTenants struct {
	tenant *identity.Tenant
}

func (s stubTenants) ResolveByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	if id == s.tenant.ID {
		return s.tenant, nil
	}
	return nil, shared.ErrNotFound
}

func (s stubTenants) ResolveByCode(ctx context.Context, code string) (*identity.Tenant, error) {
	if code == s.tenant.Code {
		return s.tenant, nil
	}
	return nil, shared.ErrNotFound
}

// testHandlers builds handlers whose services are never reached by the
// requests below, apart from the visit service which reports missing storage.
func testHandlers() Handlers {
	return Handlers{
		Tenant:              handler.NewTenantHandler(nil),
		Customer:            handler.NewCustomerHandler(nil, nil),
		Category:            handler.NewCategoryHandler(nil),
		Brand:               handler.NewBrandHandler(nil),
		Product:             handler.NewProductHandler(nil),
		Warehouse:           handler.NewWarehouseHandler(nil),
		Inventory:           handler.NewInventoryHandler(nil),
		Agent:               handler.NewAgentHandler(nil),
		Route:               handler.NewRouteHandler(nil),
		Visit:               handler.NewVisitHandler(fieldapp.NewVisitService(nil, nil, nil, nil, nil, nil)),
		Survey:              handler.NewSurveyHandler(nil),
		Order:               handler.NewOrderHandler(nil),
		CommissionStructure: handler.NewCommissionStructureHandler(nil),
		Commission:          handler.NewCommissionHandler(nil),
		CashSession:         handler.NewCashSessionHandler(nil),
		Finance:             handler.NewFinanceHandler(nil, nil),
		Approval:            handler.NewApprovalHandler(nil),
		Export:              handler.NewExportHandler(nil),
		System:              handler.NewSystemHandler("distribution-erp", "test", nil),
	}
}

func newTestEngine(t *testing.T, mutate func(*Options)) (*gin.Engine, *identity.Tenant) {
	t.Helper()
	tenant, err := identity.NewTenant("ACME", "Acme Distribution")
	require.NoError(t, err)
	opts := Options{
		ServiceName: "distribution-erp",
		MaxBodySize: 1 << 10,
		Metrics:     middleware.NewHTTPMetrics("erp_test"),
		Tenants:     stubTenants{tenant: tenant},
	}
	if mutate != nil {
		mutate(&opts)
	}
	return New(opts, testHandlers()), tenant
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

func TestNew_OperationalEndpoints(t *testing.T) {
	engine, _ := newTestEngine(t, nil)

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	w = serve(engine, httptest.NewRequest(http.MethodGet, "/api/v1/system/info", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(engine, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "erp_test_http_requests_total")

	w = serve(engine, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNew_TenantScoping(t *testing.T) {
	engine, tenant := newTestEngine(t, nil)

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/api/v1/customers/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeValidation, errorCode(t, w))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers/not-a-uuid", nil)
	req.Header.Set(middleware.TenantIDHeader, uuid.NewString())
	w = serve(engine, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/customers/not-a-uuid", nil)
	req.Header.Set(middleware.TenantCodeHeader, strings.ToLower(tenant.Code))
	w = serve(engine, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Invalid customer ID format", resp.Error.Message)
}

func TestNew_FallbackTenant(t *testing.T) {
	tenant, err := identity.NewTenant("DEV", "Development")
	require.NoError(t, err)
	fallback := tenant.ID
	engine, _ := newTestEngine(t, func(o *Options) {
		o.Tenants = stubTenants{tenant: tenant}
		o.FallbackTenant = &fallback
	})

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/api/v1/orders/bad", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Invalid order ID format", resp.Error.Message)
}

func TestNew_BodyLimits(t *testing.T) {
	engine, tenant := newTestEngine(t, nil)
	big := bytes.Repeat([]byte("x"), 4<<10)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/visits", bytes.NewReader(big))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.TenantIDHeader, tenant.ID.String())
	w := serve(engine, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, dto.ErrCodeRequestTooLarge, errorCode(t, w))

	req = httptest.NewRequest(http.MethodPost, "/api/v1/tenants", bytes.NewReader(big))
	w = serve(engine, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="shelf.jpg"`)
	header.Set("Content-Type", "image/jpeg")
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(big)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req = httptest.NewRequest(http.MethodPost, "/api/v1/visits/"+uuid.NewString()+"/photos", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set(middleware.TenantIDHeader, tenant.ID.String())
	w = serve(engine, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, dto.ErrCodeStorageUnavailable, errorCode(t, w))
}

func TestNew_RateLimit(t *testing.T) {
	limiter := middleware.NewRateLimiter(2, time.Minute)
	t.Cleanup(limiter.Stop)
	engine, _ := newTestEngine(t, func(o *Options) { o.RateLimiter = limiter })

	for range 2 {
		w := serve(engine, httptest.NewRequest(http.MethodGet, "/api/v1/system/info", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := serve(engine, httptest.NewRequest(http.MethodGet, "/api/v1/system/info", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

package router

import (
	"github.com/erp/distribution/internal/interfaces/http/handler"
)

// Handlers holds every API handler mounted by the router
type Handlers struct {
	Tenant              *handler.TenantHandler
	Customer            *handler.CustomerHandler
	Category            *handler.CategoryHandler
	Brand               *handler.BrandHandler
	Product             *handler.ProductHandler
	Warehouse           *handler.WarehouseHandler
	Inventory           *handler.InventoryHandler
	Agent               *handler.AgentHandler
	Route               *handler.RouteHandler
	Visit               *handler.VisitHandler
	Survey              *handler.SurveyHandler
	Order               *handler.OrderHandler
	CommissionStructure *handler.CommissionStructureHandler
	Commission          *handler.CommissionHandler
	CashSession         *handler.CashSessionHandler
	Finance             *handler.FinanceHandler
	Approval            *handler.ApprovalHandler
	Export              *handler.ExportHandler
	System              *handler.SystemHandler
}

// PhotoUploadRoute is the route pattern of visit photo uploads relative to the API base
const PhotoUploadRoute = "/visits/:id/photos"

// PlatformGroups returns the groups served without a tenant: tenant
// administration and system info.
func PlatformGroups(h Handlers) []*DomainGroup {
	tenants := NewDomainGroup("tenants", "/tenants")
	tenants.POST("", h.Tenant.Create).
		GET("", h.Tenant.List).
		GET("/:id", h.Tenant.GetByID).
		PUT("/:id", h.Tenant.Update).
		POST("/:id/suspend", h.Tenant.Suspend).
		POST("/:id/activate", h.Tenant.Activate)

	system := NewDomainGroup("system", "/system")
	system.GET("/info", h.System.GetSystemInfo)

	return []*DomainGroup{tenants, system}
}

// TenantGroups returns the tenant-scoped resource groups
func TenantGroups(h Handlers) []*DomainGroup {
	return []*DomainGroup{
		partnerGroup(h),
		catalogGroup(h),
		inventoryGroup(h),
		fieldGroup(h),
		surveyGroup(h),
		tradeGroup(h),
		commissionGroup(h),
		financeGroup(h),
		approvalGroup(h),
		exportGroup(h),
	}
}

func partnerGroup(h Handlers) *DomainGroup {
	g := NewDomainGroup("partner", "")
	g.Group("customers", "/customers").
		POST("", h.Customer.Create).
		GET("", h.Customer.List).
		GET("/:id", h.Customer.GetByID).
		PUT("/:id", h.Customer.Update).
		DELETE("/:id", h.Customer.Delete).
		GET("/:id/orders", h.Customer.Orders)
	return g
}

func catalogGroup(h Handlers) *DomainGroup {
	g := NewDomainGroup("catalog", "")
	g.Group("categories", "/categories").
		POST("", h.Category.Create).
		GET("", h.Category.List).
		GET("/:id", h.Category.GetByID).
		PUT("/:id", h.Category.Update).
		DELETE("/:id", h.Category.Delete)
	g.Group("brands", "/brands").
		POST("", h.Brand.Create).
		GET("", h.Brand.List).
		GET("/:id", h.Brand.GetByID).
		PUT("/:id", h.Brand.Update).
		DELETE("/:id", h.Brand.Delete)
	g.Group("products", "/products").
		POST("", h.Product.Create).
		GET("", h.Product.List).
		GET("/:id", h.Product.GetByID).
		PUT("/:id", h.Product.Update).
		DELETE("/:id", h.Product.Delete)
	return g
}

func inventoryGroup(h Handlers) *DomainGroup {
	g := NewDomainGroup("inventory", "")
	g.Group("warehouses", "/warehouses").
		POST("", h.Warehouse.Create).
		GET("", h.Warehouse.List).
		GET("/:id", h.Warehouse.GetByID).
		PUT("/:id", h.Warehouse.Update).
		DELETE("/:id", h.Warehouse.Delete)
	g.Group("stock", "/inventory").
		GET("", h.Inventory.List).
		GET("/:warehouse_id/:product_id", h.Inventory.Get).
		POST("/adjust", h.Inventory.Adjust).
		POST("/receive", h.Inventory.Receive).
		POST("/transfer", h.Inventory.Transfer)
	g.GET("/stock-movements", h.Inventory.Movements)
	return g
}

func fieldGroup(h Handlers) *DomainGroup {
	g := NewDomainGroup("field", "")
	g.Group("agents", "/agents").
		POST("", h.Agent.Create).
		GET("", h.Agent.List).
		GET("/:id", h.Agent.GetByID).
		PUT("/:id", h.Agent.Update).
		DELETE("/:id", h.Agent.Delete)
	g.Group("routes", "/routes").
		POST("", h.Route.Create).
		GET("", h.Route.List).
		GET("/:id", h.Route.GetByID).
		PUT("/:id", h.Route.Update).
		DELETE("/:id", h.Route.Delete).
		GET("/:id/customers", h.Route.Customers).
		PUT("/:id/customers", h.Route.AssignCustomers)
	g.Group("visits", "/visits").
		POST("", h.Visit.Create).
		GET("", h.Visit.List).
		GET("/:id", h.Visit.GetByID).
		POST("/:id/check-in", h.Visit.CheckIn).
		POST("/:id/check-out", h.Visit.CheckOut).
		POST("/:id/cancel", h.Visit.Cancel).
		POST("/:id/photos", h.Visit.UploadPhoto)
	return g
}

func surveyGroup(h Handlers) *DomainGroup {
	g := NewDomainGroup("surveys", "/surveys")
	g.POST("", h.Survey.Create).
		GET("", h.Survey.List).
		GET("/:id", h.Survey.GetByID).
		PUT("/:id", h.Survey.Update).
		DELETE("/:id", h.Survey.Delete).
		POST("/:id/responses", h.Survey.Submit).
		GET("/:id/responses", h.Survey.Responses).
		GET("/:id/analytics", h.Survey.Analytics)
	return g
}

func tradeGroup(h Handlers) *DomainGroup {
	g := NewDomainGroup("orders", "/orders")
	g.POST("", h.Order.Create).
		GET("", h.Order.List).
		GET("/:id", h.Order.GetByID).
		PUT("/:id", h.Order.Update).
		DELETE("/:id", h.Order.Cancel)
	return g
}

func commissionGroup(h Handlers) *DomainGroup {
	g := NewDomainGroup("commission", "")
	g.Group("structures", "/commission-structures").
		POST("", h.CommissionStructure.Create).
		GET("", h.CommissionStructure.List).
		GET("/:id", h.CommissionStructure.GetByID).
		PUT("/:id", h.CommissionStructure.Update).
		DELETE("/:id", h.CommissionStructure.Delete)
	g.Group("commissions", "/commissions").
		POST("/calculate", h.Commission.Calculate).
		POST("", h.Commission.Record).
		GET("", h.Commission.List).
		GET("/:id", h.Commission.GetByID).
		POST("/:id/approve", h.Commission.Approve).
		POST("/:id/pay", h.Commission.Pay)
	return g
}

func financeGroup(h Handlers) *DomainGroup {
	g := NewDomainGroup("finance", "")
	g.Group("cash-sessions", "/cash-sessions").
		POST("", h.CashSession.Open).
		GET("", h.CashSession.List).
		GET("/:id", h.CashSession.GetByID).
		POST("/:id/collections", h.CashSession.RecordCollection).
		GET("/:id/collections", h.CashSession.Collections).
		POST("/:id/close", h.CashSession.Close).
		POST("/:id/approve", h.CashSession.Approve).
		POST("/:id/reject", h.CashSession.Reject)
	g.Group("bank-deposits", "/bank-deposits").
		POST("", h.CashSession.Deposit).
		GET("", h.CashSession.ListDeposits).
		GET("/:id", h.CashSession.GetDeposit)
	g.Group("invoices", "/invoices").
		POST("", h.Finance.CreateInvoice).
		GET("", h.Finance.ListInvoices).
		GET("/:id", h.Finance.GetInvoice).
		POST("/:id/cancel", h.Finance.CancelInvoice)
	g.Group("payments", "/payments").
		POST("", h.Finance.CreatePayment).
		GET("", h.Finance.ListPayments)
	return g
}

func approvalGroup(h Handlers) *DomainGroup {
	g := NewDomainGroup("approval", "")
	g.GET("/approval-entity-types", h.Approval.EntityTypes)
	g.Group("approvals", "/approvals").
		POST("", h.Approval.Create).
		GET("", h.Approval.List).
		GET("/:id", h.Approval.GetByID).
		POST("/:id/approve", h.Approval.Approve).
		POST("/:id/reject", h.Approval.Reject)
	return g
}

func exportGroup(h Handlers) *DomainGroup {
	g := NewDomainGroup("exports", "/exports")
	g.GET("/customers.xlsx", h.Export.Customers).
		GET("/orders.xlsx", h.Export.Orders)
	return g
}

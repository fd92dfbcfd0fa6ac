package persistence

import (
	"maps"
	"strings"
)

// ValidateSortOrder normalizes the direction to ASC or DESC, defaulting to DESC
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField when whitelisted, otherwise defaultField
func ValidateSortField(sortField string, allowed map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if allowed[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields are accepted by every table
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// sortable extends CommonSortFields with table columns
func sortable(columns ...string) map[string]bool {
	m := maps.Clone(CommonSortFields)
	for _, c := range columns {
		m[c] = true
	}
	return m
}

var (
	TenantSortFields      = sortable("code", "name", "status")
	CustomerSortFields    = sortable("code", "name", "type", "status", "balance", "credit_limit")
	CategorySortFields    = sortable("code", "name", "status")
	BrandSortFields       = sortable("code", "name", "status")
	ProductSortFields     = sortable("code", "name", "barcode", "status", "selling_price", "cost_price")
	WarehouseSortFields   = sortable("code", "name", "status")
	StockSortFields       = sortable("quantity_on_hand", "quantity_reserved")
	MovementSortFields    = sortable("movement_type", "quantity")
	OrderSortFields       = sortable("order_number", "order_date", "delivery_date", "total_amount", "order_status", "payment_status")
	AgentSortFields       = sortable("code", "name", "type", "status")
	RouteSortFields       = sortable("code", "name", "area", "status")
	VisitSortFields       = sortable("visit_date", "status", "check_in_time")
	SurveySortFields      = sortable("title", "status")
	ResponseSortFields    = sortable("submitted_at")
	StructureSortFields   = sortable("name", "calculation_type", "effective_from", "status")
	CommissionSortFields  = sortable("commission_amount", "status", "approved_at", "paid_at")
	InvoiceSortFields     = sortable("invoice_number", "due_date", "total_amount", "status")
	PaymentSortFields     = sortable("paid_at", "amount", "payment_method")
	CashSessionSortFields = sortable("session_date", "status", "opened_at", "closed_at")
	BankDepositSortFields = sortable("deposited_at", "amount", "bank_name")
	ApprovalSortFields    = sortable("status", "amount", "decided_at")
)

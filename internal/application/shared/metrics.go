// Package shared holds cross-cutting contracts used by application services.
package shared

import (
	"context"

	"github.com/shopspring/decimal"
)

// BusinessMetrics records business-level counters.
// Implementations must be safe for concurrent use.
type BusinessMetrics interface {
	OrderCreated(ctx context.Context, total decimal.Decimal)
	OrderDelivered(ctx context.Context)
	CashSessionClosed(ctx context.Context, requiresApproval bool)
	CommissionAccrued(ctx context.Context, amount decimal.Decimal)
	PaymentReceived(ctx context.Context, method string, amount decimal.Decimal)
}

// NopMetrics discards every measurement
type NopMetrics struct{}

func (NopMetrics) OrderCreated(context.Context, decimal.Decimal)            {}
func (NopMetrics) OrderDelivered(context.Context)                           {}
func (NopMetrics) CashSessionClosed(context.Context, bool)                  {}
func (NopMetrics) CommissionAccrued(context.Context, decimal.Decimal)       {}
func (NopMetrics) PaymentReceived(context.Context, string, decimal.Decimal) {}

var _ BusinessMetrics = NopMetrics{}

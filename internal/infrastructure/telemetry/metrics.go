package telemetry

import (
	"context"
	"fmt"
	"time"

	appshared "github.com/erp/distribution/internal/application/shared"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// MeterProvider owns the SDK meter provider. A disabled provider serves the global no-op meter.
type MeterProvider struct {
	provider *sdkmetric.MeterProvider
}

// NewMeterProvider exports metrics over OTLP gRPC every interval (default 60s)
func NewMeterProvider(ctx context.Context, cfg Config, interval time.Duration) (*MeterProvider, error) {
	mp := &MeterProvider{}
	if !cfg.Enabled {
		return mp, nil
	}
	if interval <= 0 {
		interval = 60 * time.Second
	}

	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metric exporter: %w", err)
	}
	res, err := newResource(cfg.ServiceName)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	mp.provider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
	)
	otel.SetMeterProvider(mp.provider)
	return mp, nil
}

// Meter returns a named meter from the provider, or the global one when disabled
func (mp *MeterProvider) Meter(name string) metric.Meter {
	if mp.provider == nil {
		return otel.Meter(name)
	}
	return mp.provider.Meter(name)
}

// Shutdown flushes pending measurements
func (mp *MeterProvider) Shutdown(ctx context.Context) error {
	if mp.provider == nil {
		return nil
	}
	ctx, cancel := shutdownContext(ctx)
	defer cancel()
	if err := mp.provider.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown meter provider: %w", err)
	}
	return nil
}

// BusinessMetrics records order, cash, commission and payment counters
type BusinessMetrics struct {
	ordersCreated    metric.Int64Counter
	orderAmount      metric.Float64Counter
	ordersDelivered  metric.Int64Counter
	cashClosed       metric.Int64Counter
	commissionAmount metric.Float64Counter
	payments         metric.Int64Counter
	paymentAmount    metric.Float64Counter
}

// NewBusinessMetrics registers the business instruments on meter
func NewBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	var (
		bm  BusinessMetrics
		err error
	)
	if bm.ordersCreated, err = meter.Int64Counter("erp_orders_created_total",
		metric.WithDescription("Orders created"), metric.WithUnit("{order}")); err != nil {
		return nil, err
	}
	if bm.orderAmount, err = meter.Float64Counter("erp_order_amount_total",
		metric.WithDescription("Sum of created order totals")); err != nil {
		return nil, err
	}
	if bm.ordersDelivered, err = meter.Int64Counter("erp_orders_delivered_total",
		metric.WithDescription("Orders delivered"), metric.WithUnit("{order}")); err != nil {
		return nil, err
	}
	if bm.cashClosed, err = meter.Int64Counter("erp_cash_sessions_closed_total",
		metric.WithDescription("Cash session close attempts by outcome"), metric.WithUnit("{session}")); err != nil {
		return nil, err
	}
	if bm.commissionAmount, err = meter.Float64Counter("erp_commission_accrued_amount_total",
		metric.WithDescription("Sum of accrued commission amounts")); err != nil {
		return nil, err
	}
	if bm.payments, err = meter.Int64Counter("erp_payments_total",
		metric.WithDescription("Payments received"), metric.WithUnit("{payment}")); err != nil {
		return nil, err
	}
	if bm.paymentAmount, err = meter.Float64Counter("erp_payment_amount_total",
		metric.WithDescription("Sum of payment amounts")); err != nil {
		return nil, err
	}
	return &bm, nil
}

func (m *BusinessMetrics) OrderCreated(ctx context.Context, total decimal.Decimal) {
	m.ordersCreated.Add(ctx, 1)
	m.orderAmount.Add(ctx, total.InexactFloat64())
}

func (m *BusinessMetrics) OrderDelivered(ctx context.Context) {
	m.ordersDelivered.Add(ctx, 1)
}

func (m *BusinessMetrics) CashSessionClosed(ctx context.Context, requiresApproval bool) {
	m.cashClosed.Add(ctx, 1, metric.WithAttributes(attribute.Bool("requires_approval", requiresApproval)))
}

func (m *BusinessMetrics) CommissionAccrued(ctx context.Context, amount decimal.Decimal) {
	m.commissionAmount.Add(ctx, amount.InexactFloat64())
}

func (m *BusinessMetrics) PaymentReceived(ctx context.Context, method string, amount decimal.Decimal) {
	attrs := metric.WithAttributes(attribute.String("method", method))
	m.payments.Add(ctx, 1, attrs)
	m.paymentAmount.Add(ctx, amount.InexactFloat64(), attrs)
}

var _ appshared.BusinessMetrics = (*BusinessMetrics)(nil)

package telemetry

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func TestBusinessMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	bm, err := NewBusinessMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	bm.OrderCreated(ctx, decimal.RequireFromString("120.50"))
	bm.OrderCreated(ctx, decimal.RequireFromString("10"))
	bm.OrderDelivered(ctx)
	bm.CashSessionClosed(ctx, true)
	bm.CashSessionClosed(ctx, false)
	bm.PaymentReceived(ctx, "cash", decimal.NewFromInt(40))

	data := collect(t, reader)

	created := data["erp_orders_created_total"].(metricdata.Sum[int64])
	require.Len(t, created.DataPoints, 1)
	assert.Equal(t, int64(2), created.DataPoints[0].Value)

	amount := data["erp_order_amount_total"].(metricdata.Sum[float64])
	assert.InDelta(t, 130.5, amount.DataPoints[0].Value, 0.001)

	closed := data["erp_cash_sessions_closed_total"].(metricdata.Sum[int64])
	assert.Len(t, closed.DataPoints, 2)

	payments := data["erp_payments_total"].(metricdata.Sum[int64])
	require.Len(t, payments.DataPoints, 1)
	method, ok := payments.DataPoints[0].Attributes.Value("method")
	require.True(t, ok)
	assert.Equal(t, "cash", method.AsString())
}

func TestDisabledProviders(t *testing.T) {
	ctx := context.Background()

	mp, err := NewMeterProvider(ctx, Config{}, 0)
	require.NoError(t, err)
	assert.NotNil(t, mp.Meter("x"))
	assert.NoError(t, mp.Shutdown(ctx))

	lp, err := NewLoggerProvider(ctx, Config{})
	require.NoError(t, err)
	assert.False(t, lp.IsEnabled())
	assert.Nil(t, lp.Core(0))
	assert.NoError(t, lp.Shutdown(ctx))

	p, err := StartProfiler(ProfilerConfig{}, nil)
	require.NoError(t, err)
	assert.False(t, p.IsRunning())
	assert.NoError(t, p.Stop())
}

func TestStartProfiler_RequiresAddress(t *testing.T) {
	_, err := StartProfiler(ProfilerConfig{Enabled: true}, nil)
	assert.Error(t, err)
}

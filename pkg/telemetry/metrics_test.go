//go:build unit || !integration

package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader, name string) metricdata.Aggregation {
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name == name {
				return m.Data
			}
		}
	}
	require.Failf(t, "metric not found", "%s was not collected", name)
	return nil
}

func TestCounter(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")

	counter, err := NewCounter(meter, "jobs", "jobs seen")
	require.NoError(t, err)
	counter.Inc(context.Background(), attribute.String("outcome", "done"))
	counter.Add(context.Background(), 2, attribute.String("outcome", "done"))

	sum, ok := collect(t, reader, "jobs").(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	require.Equal(t, int64(3), sum.DataPoints[0].Value)
}

func TestTimerUsesClock(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")
	histogram, err := NewDurationHistogram(meter, "wait", "time waited")
	require.NoError(t, err)

	clk := clock.NewMock()
	stop := Timer(context.Background(), clk, histogram)
	clk.Add(1500 * time.Millisecond)
	require.Equal(t, 1500*time.Millisecond, stop())

	hist, ok := collect(t, reader, "wait").(metricdata.Histogram[int64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	require.Equal(t, uint64(1), hist.DataPoints[0].Count)
	require.Equal(t, int64(1500), hist.DataPoints[0].Sum)
}

func TestSetupWithoutEndpoint(t *testing.T) {
	shutdown, err := Setup(context.Background(), TraceConfig{})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

package telemetry

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// NewDurationHistogram creates a histogram of durations in milliseconds.
func NewDurationHistogram(meter metric.Meter, name string, description string) (metric.Int64Histogram, error) {
	return meter.Int64Histogram(name, metric.WithDescription(description), metric.WithUnit("ms"))
}

// Timer records a duration. Calling it starts the timer, calling the returned function records
// the time elapsed on clk.
func Timer(
	ctx context.Context,
	clk clock.Clock,
	durationRecorder metric.Int64Histogram,
	attrs ...attribute.KeyValue,
) func() time.Duration {
	start := clk.Now()
	return func() time.Duration {
		dur := clk.Since(start)
		durationRecorder.Record(ctx, dur.Milliseconds(), metric.WithAttributes(attrs...))
		return dur
	}
}

package client

import (
	"go.opentelemetry.io/otel/metric"

	"github.com/gridlab/gridclient/pkg/telemetry"
)

const (
	metricJobsSubmitted  = "grid.client.jobs.submitted"
	metricSubmitLockWait = "grid.client.submit.lock_wait"
)

type clientMetrics struct {
	// submitted counts finished submissions by outcome.
	submitted *telemetry.Counter
	lockWait  metric.Int64Histogram
}

func newClientMetrics(meter metric.Meter) (*clientMetrics, error) {
	submitted, err := telemetry.NewCounter(meter, metricJobsSubmitted, "Job submissions by outcome")
	if err != nil {
		return nil, err
	}
	lockWait, err := telemetry.NewDurationHistogram(meter, metricSubmitLockWait,
		"Time a submission waited for the submission lock")
	if err != nil {
		return nil, err
	}
	return &clientMetrics{submitted: submitted, lockWait: lockWait}, nil
}

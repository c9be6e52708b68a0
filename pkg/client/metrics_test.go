//go:build unit || !integration

package client

import (
	"context"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func (s *ClientSuite) TestSubmissionsAreCountedByOutcome() {
	reader := sdkmetric.NewManualReader()
	c, err := New(Params{
		Ledger:        s.ledger,
		Uploader:      s.uploader,
		Signer:        s.signer,
		MetaScheduler: metaScheduler,
		Clock:         s.clock,
		Meter:         sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test"),
	})
	s.Require().NoError(err)

	s.uploader.On("Submit", mock.Anything, mock.Anything).Return("QmHash", nil)
	s.ledger.On("Simulate", mock.Anything, method("requestNewJob")).Return([]interface{}{[32]byte{1}}, nil)
	s.ledger.On("Write", mock.Anything, method("requestNewJob")).Return(common.Hash{}, nil)

	_, err = c.SubmitJob(context.Background(), s.testJob(), "ok", nil, nil)
	s.Require().NoError(err)
	_, err = c.SubmitJob(context.Background(), s.testJob(), strings.Repeat("a", 33), nil, nil)
	s.Require().Error(err)

	var rm metricdata.ResourceMetrics
	s.Require().NoError(reader.Collect(context.Background(), &rm))

	outcomes := map[string]int64{}
	var lockWaits uint64
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				s.Equal(metricJobsSubmitted, m.Name)
				for _, dp := range data.DataPoints {
					outcome, _ := dp.Attributes.Value(attribute.Key("outcome"))
					outcomes[outcome.AsString()] += dp.Value
				}
			case metricdata.Histogram[int64]:
				s.Equal(metricSubmitLockWait, m.Name)
				for _, dp := range data.DataPoints {
					lockWaits += dp.Count
				}
			}
		}
	}
	s.Equal(map[string]int64{"done": 1, "ValidationError": 1}, outcomes)
	s.Equal(uint64(1), lockWaits)
}

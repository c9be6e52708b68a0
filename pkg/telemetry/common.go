package telemetry

import (
	"context"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
)

// Setup installs the global trace and meter providers. The returned function flushes the
// remaining spans and metrics and releases both providers.
func Setup(ctx context.Context, cfg TraceConfig) (func(context.Context) error, error) {
	shutdownTraces, err := SetupTraceProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}
	shutdownMetrics, err := SetupMeterProvider(ctx, cfg)
	if err != nil {
		_ = shutdownTraces(ctx)
		return nil, err
	}

	otel.SetErrorHandler(otel.ErrorHandlerFunc(func(err error) {
		log.Debug().Err(err).Msg("Error occurred while exporting telemetry")
	}))

	return func(ctx context.Context) error {
		var errs *multierror.Error
		errs = multierror.Append(errs, shutdownTraces(ctx), shutdownMetrics(ctx))
		return errs.ErrorOrNil()
	}, nil
}

// newResource returns a resource describing this application.
func newResource() *resource.Resource {
	res, err := resource.Merge(
		resource.Environment(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(ServiceName),
		),
	)
	if err != nil {
		log.Debug().Err(err).Msg("failed to create otel resource. Falling back to default resource config")
		res = resource.Default()
	}
	return res
}

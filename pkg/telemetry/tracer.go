// Package telemetry owns the tracer and meter used by the client and the providers set up by
// binaries embedding it.
package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/baggage"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc/credentials"
)

const (
	TracerName  = "github.com/gridlab/gridclient"
	ServiceName = "gridclient"

	AttributeJobID   = "grid.job_id"
	AttributeAccount = "grid.account"
)

type TraceConfig struct {
	// Endpoint is an OTLP gRPC collector receiving spans and metrics. When empty, spans are
	// written to the trace log and metrics are not exported.
	Endpoint string
	Insecure bool
	Headers  map[string]string
}

// GetTracer returns the tracer of the global provider. It is a no-op tracer until
// SetupTraceProvider is called.
func GetTracer() oteltrace.Tracer {
	return otel.Tracer(TracerName)
}

// NewSpan starts a span named after the operation, tagged with the network the client talks to
// when it is set in baggage.
func NewSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, oteltrace.Span) {
	if network := baggage.FromContext(ctx).Member("network").Value(); network != "" {
		attrs = append(attrs, attribute.String("network", network))
	}
	return GetTracer().Start(ctx, name, oteltrace.WithAttributes(attrs...))
}

// ContextWithNetwork records the network name in baggage, so every span below ctx carries it.
func ContextWithNetwork(ctx context.Context, network string) context.Context {
	m, err := baggage.NewMember("network", network)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("failed to add network to baggage")
		return ctx
	}
	b, err := baggage.FromContext(ctx).SetMember(m)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("failed to add network to baggage")
		return ctx
	}
	return baggage.ContextWithBaggage(ctx, b)
}

// RecordError marks the span as failed when err is not nil, and returns err.
func RecordError(span oteltrace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
	}
	return err
}

// SetupTraceProvider installs the global trace provider and returns its shutdown function.
func SetupTraceProvider(ctx context.Context, cfg TraceConfig) (func(context.Context) error, error) {
	var (
		tp  *sdktrace.TracerProvider
		err error
	)
	if cfg.Endpoint != "" {
		tp, err = otlpTraceProvider(ctx, cfg)
	} else {
		tp, err = loggerTraceProvider()
	}
	if err != nil {
		return nil, err
	}

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	)
	return tp.Shutdown, nil
}

func otlpTraceProvider(ctx context.Context, cfg TraceConfig) (*sdktrace.TracerProvider, error) {
	options := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		options = append(options, otlptracegrpc.WithInsecure())
	} else {
		options = append(options, otlptracegrpc.WithTLSCredentials(credentials.NewClientTLSFromCert(nil, "")))
	}
	if len(cfg.Headers) > 0 {
		options = append(options, otlptracegrpc.WithHeaders(cfg.Headers))
	}

	exp, err := otlptrace.New(ctx, otlptracegrpc.NewClient(options...))
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter for %s: %w", cfg.Endpoint, err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(newResource()),
	), nil
}

func loggerTraceProvider() (*sdktrace.TracerProvider, error) {
	exp, err := stdouttrace.New(stdouttrace.WithWriter(jsonLogger()))
	if err != nil {
		return nil, err
	}
	return sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp)), nil
}

// jsonLogger returns a writer that trace logs all JSON objects thrown at it.
func jsonLogger() io.Writer {
	r, w := io.Pipe()
	go func(r io.Reader) {
		d := json.NewDecoder(r)
		for {
			var data json.RawMessage
			if err := d.Decode(&data); err != nil {
				if err == io.EOF {
					return
				}
				log.Trace().Msgf("error parsing json span: %v", err)
				_, _ = io.Copy(io.Discard, r)
				return
			}
			log.Trace().RawJSON("span", data).Msg("span")
		}
	}(r)
	return w
}

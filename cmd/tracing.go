package cmd

import (
	"context"
	"fmt"

	"github.com/appclacks/fleetwatch/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// initTracing configures the OTLP trace exporter. Tracing is disabled when
// no endpoint is configured; the returned shutdown function is nil in that
// case.
func initTracing(ctx context.Context, config config.Tracing) (func(context.Context) error, error) {
	if config.Endpoint == "" {
		return nil, nil
	}
	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(config.Endpoint),
		otlptracehttp.WithInsecure())
	if err != nil {
		return nil, fmt.Errorf("fail to create the otlp trace exporter: %w", err)
	}
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName("fleetwatch"),
		)),
	)
	otel.SetTracerProvider(provider)
	return provider.Shutdown, nil
}

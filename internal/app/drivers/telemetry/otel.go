package telemetry

import (
	"context"
	"fmt"
	"mediconnect-service/internal/app/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// ShutdownFunc flushes and stops the tracer provider.
type ShutdownFunc func(context.Context) error

// NewTracerProvider installs a global OTLP tracer provider. Without an
// endpoint tracing stays on the no-op provider.
func NewTracerProvider(ctx context.Context, driverConfig *config.DriverConfig, internalConfig *config.InternalConfig) (ShutdownFunc, error) {
	noop := func(context.Context) error { return nil }
	if driverConfig.Telemetry.OtlpEndpoint == "" {
		return noop, nil
	}

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(driverConfig.Telemetry.OtlpEndpoint)}
	if driverConfig.Telemetry.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return noop, fmt.Errorf("failed to create otlp exporter: %w", err)
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceName(driverConfig.Telemetry.ServiceName),
		semconv.ServiceVersion(internalConfig.App.Version),
		semconv.DeploymentEnvironment(internalConfig.App.Env),
	))
	if err != nil {
		return noop, fmt.Errorf("failed to create otel resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return provider.Shutdown, nil
}

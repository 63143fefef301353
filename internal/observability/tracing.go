package observability

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/cory-johannsen/dungeon/internal/config"
)

// TracerProvider hands out named tracers and flushes spans on shutdown.
type TracerProvider struct {
	provider trace.TracerProvider
	prefix   string
	shutdown func(context.Context) error
}

// NewTracerProvider builds an OTLP/HTTP-backed provider when cfg.Enabled is
// set, and a no-op provider otherwise.
//
// Postcondition: the returned provider is non-nil on success and must be
// shut down by the caller.
func NewTracerProvider(ctx context.Context, cfg config.TelemetryConfig) (*TracerProvider, error) {
	if !cfg.Enabled {
		return &TracerProvider{
			provider: noop.NewTracerProvider(),
			prefix:   cfg.ServiceName,
			shutdown: func(context.Context) error { return nil },
		}, nil
	}

	var opts []otlptracehttp.Option
	if cfg.Endpoint != "" {
		opts = append(opts, otlptracehttp.WithEndpoint(cfg.Endpoint))
	}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", cfg.ServiceName),
			attribute.String("host.name", hostname()),
			attribute.String("os.type", runtime.GOOS),
			attribute.String("process.runtime.version", runtime.Version()),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("building trace resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return &TracerProvider{provider: tp, prefix: cfg.ServiceName, shutdown: tp.Shutdown}, nil
}

// Tracer returns a tracer named "<service>/<component>".
func (p *TracerProvider) Tracer(component string) trace.Tracer {
	return p.provider.Tracer(p.prefix + "/" + component)
}

// Shutdown flushes pending spans.
func (p *TracerProvider) Shutdown(ctx context.Context) error {
	return p.shutdown(ctx)
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return h
}

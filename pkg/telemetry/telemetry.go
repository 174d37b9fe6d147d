// Package telemetry owns the OpenTelemetry tracer provider. Spans are always
// recorded in-process; the OTLP exporter ships them to a collector when configured.
package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/JaimeStill/studybuddy/pkg/lifecycle"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

const shutdownTimeout = 5 * time.Second

// System exposes tracers backed by the service provider.
type System interface {
	Tracer(name string) trace.Tracer
	Start(lc *lifecycle.Coordinator) error
}

// Option customizes a telemetry System.
type Option func(*telemetry)

// WithExporter replaces the configured exporter.
func WithExporter(exp sdktrace.SpanExporter) Option {
	return func(t *telemetry) {
		t.exporter = exp
	}
}

type telemetry struct {
	cfg      *Config
	provider *sdktrace.TracerProvider
	exporter sdktrace.SpanExporter
	logger   *slog.Logger
}

// New builds the tracer provider for cfg. It is installed as the global
// provider when the system starts.
func New(ctx context.Context, cfg *Config, logger *slog.Logger, opts ...Option) (System, error) {
	t := &telemetry{
		cfg:    cfg,
		logger: logger.With("system", "telemetry"),
	}
	for _, opt := range opts {
		opt(t)
	}

	if t.exporter == nil && cfg.Exporter == ExporterOTLP {
		exp, err := newExporter(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("create trace exporter: %w", err)
		}
		t.exporter = exp
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
	)

	popts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRate))),
	}
	if t.exporter != nil {
		popts = append(popts, sdktrace.WithBatcher(t.exporter))
	}

	t.provider = sdktrace.NewTracerProvider(popts...)
	return t, nil
}

func (t *telemetry) Tracer(name string) trace.Tracer {
	return t.provider.Tracer(name)
}

// Start installs the provider globally and flushes pending spans on shutdown.
func (t *telemetry) Start(lc *lifecycle.Coordinator) error {
	otel.SetTracerProvider(t.provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	t.logger.Info("tracing started",
		"exporter", t.cfg.Exporter,
		"endpoint", t.cfg.Endpoint,
		"sample_rate", t.cfg.SampleRate,
	)

	lc.OnShutdown(func() {
		<-lc.Context().Done()

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := t.provider.Shutdown(ctx); err != nil {
			t.logger.Error("tracer provider shutdown failed", "error", err)
			return
		}
		t.logger.Info("tracer provider shut down")
	})

	return nil
}

func newExporter(ctx context.Context, cfg *Config) (sdktrace.SpanExporter, error) {
	switch cfg.Protocol {
	case ProtocolHTTP:
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
		if cfg.InsecureTransport() {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		return otlptracehttp.New(ctx, opts...)
	default:
		opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.Endpoint)}
		if cfg.InsecureTransport() {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		return otlptracegrpc.New(ctx, opts...)
	}
}

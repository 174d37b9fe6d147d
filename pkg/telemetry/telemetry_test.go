package telemetry_test

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/JaimeStill/studybuddy/pkg/lifecycle"
	"github.com/JaimeStill/studybuddy/pkg/telemetry"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// captureExporter keeps exported span names across provider shutdown.
type captureExporter struct {
	mu       sync.Mutex
	names    []string
	shutdown bool
}

func (c *captureExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range spans {
		c.names = append(c.names, s.Name())
	}
	return nil
}

func (c *captureExporter) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shutdown = true
	return nil
}

func finalized(t *testing.T) *telemetry.Config {
	t.Helper()
	cfg := &telemetry.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}
	return cfg
}

func TestSystem_ExportsOnShutdown(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	exp := &captureExporter{}
	sys, err := telemetry.New(context.Background(), finalized(t), testLogger(), telemetry.WithExporter(exp))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	lc := lifecycle.New()
	if err := sys.Start(lc); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	_, span := otel.Tracer("telemetry-test").Start(context.Background(), "ingestion.extracting")
	if !span.IsRecording() {
		t.Error("global tracer span not recording after Start")
	}
	span.End()

	_, local := sys.Tracer("telemetry-test").Start(context.Background(), "retrieval.Retrieve")
	local.End()

	if err := lc.Shutdown(time.Second); err != nil {
		t.Fatalf("Shutdown() failed: %v", err)
	}

	exp.mu.Lock()
	defer exp.mu.Unlock()
	if !exp.shutdown {
		t.Error("exporter not shut down")
	}
	if len(exp.names) != 2 || exp.names[0] != "ingestion.extracting" || exp.names[1] != "retrieval.Retrieve" {
		t.Errorf("exported spans = %v", exp.names)
	}
}

func TestSystem_RecordsWithoutExporter(t *testing.T) {
	sys, err := telemetry.New(context.Background(), finalized(t), testLogger())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	_, span := sys.Tracer("telemetry-test").Start(context.Background(), "chat.Send")
	defer span.End()

	if !span.IsRecording() {
		t.Error("span not recording with exporter none")
	}
	if !span.SpanContext().IsValid() {
		t.Error("span context invalid")
	}
}

func TestSystem_OTLPExporter(t *testing.T) {
	for _, protocol := range []string{telemetry.ProtocolGRPC, telemetry.ProtocolHTTP} {
		t.Run(protocol, func(t *testing.T) {
			cfg := &telemetry.Config{Exporter: telemetry.ExporterOTLP, Protocol: protocol, Endpoint: "127.0.0.1:1"}
			if err := cfg.Finalize(nil); err != nil {
				t.Fatalf("Finalize() failed: %v", err)
			}

			if _, err := telemetry.New(context.Background(), cfg, testLogger()); err != nil {
				t.Fatalf("New() failed: %v", err)
			}
		})
	}
}

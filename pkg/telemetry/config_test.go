package telemetry_test

import (
	"testing"

	"github.com/JaimeStill/studybuddy/pkg/telemetry"
)

var testEnv = &telemetry.Env{
	Exporter:    "TEST_TRACING_EXPORTER",
	Endpoint:    "TEST_TRACING_ENDPOINT",
	Protocol:    "TEST_TRACING_PROTOCOL",
	Insecure:    "TEST_TRACING_INSECURE",
	SampleRate:  "TEST_TRACING_SAMPLE_RATE",
	ServiceName: "TEST_TRACING_SERVICE_NAME",
}

func TestConfig_Defaults(t *testing.T) {
	cfg := &telemetry.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}

	if cfg.Exporter != telemetry.ExporterNone {
		t.Errorf("Exporter = %q, want none", cfg.Exporter)
	}
	if cfg.Endpoint != "localhost:4317" || cfg.Protocol != telemetry.ProtocolGRPC {
		t.Errorf("endpoint = %q, protocol = %q", cfg.Endpoint, cfg.Protocol)
	}
	if cfg.SampleRate != 1.0 || cfg.ServiceName != "studybuddy" {
		t.Errorf("cfg = %+v", cfg)
	}
	if !cfg.InsecureTransport() {
		t.Error("InsecureTransport() = false, want true by default")
	}
}

func TestConfig_EnvOverrides(t *testing.T) {
	t.Setenv(testEnv.Exporter, "otlp")
	t.Setenv(testEnv.Endpoint, "collector:4318")
	t.Setenv(testEnv.Protocol, "http/protobuf")
	t.Setenv(testEnv.Insecure, "false")
	t.Setenv(testEnv.SampleRate, "0.25")

	cfg := &telemetry.Config{}
	if err := cfg.Finalize(testEnv); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}

	if cfg.Exporter != telemetry.ExporterOTLP || cfg.Endpoint != "collector:4318" || cfg.Protocol != telemetry.ProtocolHTTP {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.InsecureTransport() {
		t.Error("InsecureTransport() = true, want false")
	}
	if cfg.SampleRate != 0.25 {
		t.Errorf("SampleRate = %v, want 0.25", cfg.SampleRate)
	}
}

func TestConfig_Merge(t *testing.T) {
	off := false
	cfg := &telemetry.Config{Exporter: telemetry.ExporterNone, Endpoint: "localhost:4317"}
	cfg.Merge(&telemetry.Config{Exporter: telemetry.ExporterOTLP, Insecure: &off})

	if cfg.Exporter != telemetry.ExporterOTLP {
		t.Errorf("Exporter = %q, want otlp", cfg.Exporter)
	}
	if cfg.Endpoint != "localhost:4317" {
		t.Errorf("Endpoint overwritten: %q", cfg.Endpoint)
	}
	if cfg.InsecureTransport() {
		t.Error("Insecure overlay not applied")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name string
		cfg  telemetry.Config
	}{
		{"unknown exporter", telemetry.Config{Exporter: "zipkin"}},
		{"unknown protocol", telemetry.Config{Protocol: "udp"}},
		{"sample rate above one", telemetry.Config{SampleRate: 1.5}},
		{"negative sample rate", telemetry.Config{SampleRate: -0.1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Finalize(nil); err == nil {
				t.Error("Finalize() error = nil")
			}
		})
	}
}

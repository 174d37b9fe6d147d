package telemetry

import (
	"fmt"
	"os"
	"strconv"
)

// Exporter names a span export target.
type Exporter string

// Supported exporters. With ExporterNone spans are recorded and sampled but
// never leave the process.
const (
	ExporterNone Exporter = "none"
	ExporterOTLP Exporter = "otlp"
)

// Protocols accepted by the OTLP exporter.
const (
	ProtocolGRPC = "grpc"
	ProtocolHTTP = "http/protobuf"
)

// Config contains tracing configuration.
type Config struct {
	Exporter    Exporter `toml:"exporter"`
	Endpoint    string   `toml:"endpoint"`
	Protocol    string   `toml:"protocol"`
	Insecure    *bool    `toml:"insecure"`
	SampleRate  float64  `toml:"sample_rate"`
	ServiceName string   `toml:"service_name"`
}

// Env maps environment variable names for tracing configuration.
type Env struct {
	Exporter    string
	Endpoint    string
	Protocol    string
	Insecure    string
	SampleRate  string
	ServiceName string
}

// InsecureTransport reports whether the exporter connects without TLS.
func (c *Config) InsecureTransport() bool {
	return c.Insecure == nil || *c.Insecure
}

// Finalize applies defaults, loads environment overrides, and validates the tracing configuration.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *Config) Merge(overlay *Config) {
	if overlay.Exporter != "" {
		c.Exporter = overlay.Exporter
	}
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.Protocol != "" {
		c.Protocol = overlay.Protocol
	}
	if overlay.Insecure != nil {
		c.Insecure = overlay.Insecure
	}
	if overlay.SampleRate != 0 {
		c.SampleRate = overlay.SampleRate
	}
	if overlay.ServiceName != "" {
		c.ServiceName = overlay.ServiceName
	}
}

func (c *Config) loadDefaults() {
	if c.Exporter == "" {
		c.Exporter = ExporterNone
	}
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4317"
	}
	if c.Protocol == "" {
		c.Protocol = ProtocolGRPC
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.ServiceName == "" {
		c.ServiceName = "studybuddy"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Exporter != "" {
		if v := os.Getenv(env.Exporter); v != "" {
			c.Exporter = Exporter(v)
		}
	}
	if env.Endpoint != "" {
		if v := os.Getenv(env.Endpoint); v != "" {
			c.Endpoint = v
		}
	}
	if env.Protocol != "" {
		if v := os.Getenv(env.Protocol); v != "" {
			c.Protocol = v
		}
	}
	if env.Insecure != "" {
		if v := os.Getenv(env.Insecure); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				c.Insecure = &b
			}
		}
	}
	if env.SampleRate != "" {
		if v := os.Getenv(env.SampleRate); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				c.SampleRate = f
			}
		}
	}
	if env.ServiceName != "" {
		if v := os.Getenv(env.ServiceName); v != "" {
			c.ServiceName = v
		}
	}
}

func (c *Config) validate() error {
	switch c.Exporter {
	case ExporterNone, ExporterOTLP:
	default:
		return fmt.Errorf("invalid exporter: %s", c.Exporter)
	}
	switch c.Protocol {
	case ProtocolGRPC, ProtocolHTTP:
	default:
		return fmt.Errorf("invalid protocol: %s", c.Protocol)
	}
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("sample_rate must be between 0 and 1, got %v", c.SampleRate)
	}
	return nil
}

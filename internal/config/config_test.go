package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/studybuddy/internal/config"
	"github.com/JaimeStill/studybuddy/pkg/telemetry"
)

const baseConfig = `
[server]
port = 9000

[database]
name = "studybuddy"
user = "studybuddy"

[storage]
max_upload_size = "10MiB"

[ai]
api_key = "from-file"

[chat]
top_k = 4
`

func writeConfig(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, baseConfig)
	t.Chdir(dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Addr() != "0.0.0.0:9000" {
		t.Errorf("Addr() = %s", cfg.Server.Addr())
	}
	if cfg.Server.WriteTimeoutDuration() != 0 {
		t.Errorf("write timeout = %v, want unbounded", cfg.Server.WriteTimeoutDuration())
	}
	if cfg.Storage.MaxUploadSizeBytes() != 10<<20 {
		t.Errorf("MaxUploadSizeBytes() = %d", cfg.Storage.MaxUploadSizeBytes())
	}
	if cfg.AI.Dimensions != 768 || cfg.AI.EmbeddingModel != "text-embedding-004" {
		t.Errorf("ai defaults = %+v", cfg.AI)
	}
	if cfg.AI.PollTimeoutDuration() != 30*time.Second {
		t.Errorf("poll timeout = %v", cfg.AI.PollTimeoutDuration())
	}
	if cfg.Ingestion.ChunkSize != 1000 || cfg.Ingestion.ChunkOverlap != 200 || cfg.Ingestion.BatchSize != 50 {
		t.Errorf("ingestion defaults = %+v", cfg.Ingestion)
	}
	if cfg.Ingestion.TimeoutDuration() != 60*time.Second {
		t.Errorf("ingestion timeout = %v", cfg.Ingestion.TimeoutDuration())
	}
	if cfg.Chat.TopK != 4 || cfg.Chat.AuthMaxTokens != 1000 || cfg.Chat.GuestMaxTokens != 300 {
		t.Errorf("chat = %+v", cfg.Chat)
	}
	if cfg.Auth.SessionTTLDuration() != 720*time.Hour || cfg.Auth.BcryptCost != 12 {
		t.Errorf("auth = %+v", cfg.Auth)
	}
	if cfg.API.BasePath != "/api" {
		t.Errorf("base path = %s", cfg.API.BasePath)
	}
	if cfg.Tracing.Exporter != telemetry.ExporterNone || cfg.Tracing.SampleRate != 1.0 {
		t.Errorf("tracing = %+v", cfg.Tracing)
	}
}

func TestLoad_OverlayAndEnv(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, baseConfig)
	writeConfig(t, dir, "config.test.toml", "[server]\nport = 9100\n\n[ingestion]\nbatch_size = 10\n")
	t.Chdir(dir)

	t.Setenv(config.EnvServiceEnv, "test")
	t.Setenv(config.EnvAIAPIKey, "from-env")
	t.Setenv(config.EnvChatGuestRate, "1.5")
	t.Setenv("TRACING_EXPORTER", "otlp")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != 9100 {
		t.Errorf("port = %d, want overlay value", cfg.Server.Port)
	}
	if cfg.Ingestion.BatchSize != 10 {
		t.Errorf("batch size = %d, want overlay value", cfg.Ingestion.BatchSize)
	}
	if cfg.AI.APIKey != "from-env" {
		t.Errorf("api key = %q, want env value", cfg.AI.APIKey)
	}
	if cfg.Chat.GuestRate != 1.5 {
		t.Errorf("guest rate = %v", cfg.Chat.GuestRate)
	}
	if cfg.Tracing.Exporter != telemetry.ExporterOTLP {
		t.Errorf("tracing exporter = %q, want env value", cfg.Tracing.Exporter)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"missing api key", strings.Replace(baseConfig, `api_key = "from-file"`, "", 1), "ai:"},
		{"overlap not below size", baseConfig + "\n[ingestion]\nchunk_size = 100\nchunk_overlap = 100\n", "ingestion:"},
		{"bad storage backend", strings.Replace(baseConfig, `max_upload_size = "10MiB"`, `backend = "s3"`, 1), "storage:"},
		{"bcrypt cost too high", baseConfig + "\n[auth]\nbcrypt_cost = 40\n", "auth:"},
		{"bad tracing exporter", baseConfig + "\n[tracing]\nexporter = \"zipkin\"\n", "tracing:"},
		{"missing database name", strings.Replace(baseConfig, `name = "studybuddy"`, "", 1), "database:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, config.BaseConfigFile, tt.content)
			t.Chdir(dir)
			t.Setenv(config.EnvAIAPIKey, "")

			_, err := config.Load()
			if err == nil {
				t.Fatal("Load() succeeded, want error")
			}
			if !strings.HasPrefix(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want prefix %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadDatabase_IgnoresOtherSections(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, "[database]\nname = \"db\"\nuser = \"u\"\n")
	t.Chdir(dir)
	t.Setenv(config.EnvAIAPIKey, "")

	cfg, err := config.LoadDatabase()
	if err != nil {
		t.Fatalf("LoadDatabase() failed: %v", err)
	}
	if cfg.Name != "db" || cfg.Port != 5432 {
		t.Errorf("database = %+v", cfg)
	}
}

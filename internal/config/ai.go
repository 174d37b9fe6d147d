package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvAIAPIKey          = "GEMINI_API_KEY"
	EnvAIChatModel       = "AI_CHAT_MODEL"
	EnvAIEmbeddingModel  = "AI_EMBEDDING_MODEL"
	EnvAIExtractionModel = "AI_EXTRACTION_MODEL"
	EnvAIDimensions      = "AI_DIMENSIONS"
	EnvAIPollInterval    = "AI_POLL_INTERVAL"
	EnvAIPollTimeout     = "AI_POLL_TIMEOUT"
)

// AIConfig holds the hosted model settings shared by extraction, embedding, and chat.
type AIConfig struct {
	APIKey          string `toml:"api_key"`
	ChatModel       string `toml:"chat_model"`
	EmbeddingModel  string `toml:"embedding_model"`
	ExtractionModel string `toml:"extraction_model"`
	// Dimensions must match the vector column width of the chunks table.
	Dimensions   int    `toml:"dimensions"`
	PollInterval string `toml:"poll_interval"`
	PollTimeout  string `toml:"poll_timeout"`
}

func (c *AIConfig) PollIntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.PollInterval)
	return d
}

func (c *AIConfig) PollTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.PollTimeout)
	return d
}

// Finalize applies defaults, loads environment overrides, and validates the AI configuration.
func (c *AIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *AIConfig) Merge(overlay *AIConfig) {
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.ChatModel != "" {
		c.ChatModel = overlay.ChatModel
	}
	if overlay.EmbeddingModel != "" {
		c.EmbeddingModel = overlay.EmbeddingModel
	}
	if overlay.ExtractionModel != "" {
		c.ExtractionModel = overlay.ExtractionModel
	}
	if overlay.Dimensions != 0 {
		c.Dimensions = overlay.Dimensions
	}
	if overlay.PollInterval != "" {
		c.PollInterval = overlay.PollInterval
	}
	if overlay.PollTimeout != "" {
		c.PollTimeout = overlay.PollTimeout
	}
}

func (c *AIConfig) loadDefaults() {
	if c.ChatModel == "" {
		c.ChatModel = "gemini-2.5-flash"
	}
	if c.EmbeddingModel == "" {
		c.EmbeddingModel = "text-embedding-004"
	}
	if c.ExtractionModel == "" {
		c.ExtractionModel = "gemini-2.5-flash"
	}
	if c.Dimensions == 0 {
		c.Dimensions = 768
	}
	if c.PollInterval == "" {
		c.PollInterval = "1s"
	}
	if c.PollTimeout == "" {
		c.PollTimeout = "30s"
	}
}

func (c *AIConfig) loadEnv() {
	if v := os.Getenv(EnvAIAPIKey); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv(EnvAIChatModel); v != "" {
		c.ChatModel = v
	}
	if v := os.Getenv(EnvAIEmbeddingModel); v != "" {
		c.EmbeddingModel = v
	}
	if v := os.Getenv(EnvAIExtractionModel); v != "" {
		c.ExtractionModel = v
	}
	if v := os.Getenv(EnvAIDimensions); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Dimensions = n
		}
	}
	if v := os.Getenv(EnvAIPollInterval); v != "" {
		c.PollInterval = v
	}
	if v := os.Getenv(EnvAIPollTimeout); v != "" {
		c.PollTimeout = v
	}
}

func (c *AIConfig) validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("api_key required (set %s)", EnvAIAPIKey)
	}
	if c.Dimensions <= 0 {
		return fmt.Errorf("dimensions must be positive")
	}
	interval, err := time.ParseDuration(c.PollInterval)
	if err != nil || interval <= 0 {
		return fmt.Errorf("invalid poll_interval: %q", c.PollInterval)
	}
	timeout, err := time.ParseDuration(c.PollTimeout)
	if err != nil || timeout < interval {
		return fmt.Errorf("invalid poll_timeout: %q", c.PollTimeout)
	}
	return nil
}

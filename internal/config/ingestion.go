package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvIngestionChunkSize    = "INGESTION_CHUNK_SIZE"
	EnvIngestionChunkOverlap = "INGESTION_CHUNK_OVERLAP"
	EnvIngestionBatchSize    = "INGESTION_BATCH_SIZE"
	EnvIngestionTimeout      = "INGESTION_TIMEOUT"
)

// IngestionConfig controls chunking and persistence of uploaded documents.
type IngestionConfig struct {
	ChunkSize    int    `toml:"chunk_size"`
	ChunkOverlap int    `toml:"chunk_overlap"`
	BatchSize    int    `toml:"batch_size"`
	Timeout      string `toml:"timeout"`
}

// TimeoutDuration is the wall-clock ceiling for one ingestion.
func (c *IngestionConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

func (c *IngestionConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

func (c *IngestionConfig) Merge(overlay *IngestionConfig) {
	if overlay.ChunkSize != 0 {
		c.ChunkSize = overlay.ChunkSize
	}
	if overlay.ChunkOverlap != 0 {
		c.ChunkOverlap = overlay.ChunkOverlap
	}
	if overlay.BatchSize != 0 {
		c.BatchSize = overlay.BatchSize
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *IngestionConfig) loadDefaults() {
	if c.ChunkSize == 0 {
		c.ChunkSize = 1000
	}
	if c.ChunkOverlap == 0 {
		c.ChunkOverlap = 200
	}
	if c.BatchSize == 0 {
		c.BatchSize = 50
	}
	if c.Timeout == "" {
		c.Timeout = "60s"
	}
}

func (c *IngestionConfig) loadEnv() {
	for env, dst := range map[string]*int{
		EnvIngestionChunkSize:    &c.ChunkSize,
		EnvIngestionChunkOverlap: &c.ChunkOverlap,
		EnvIngestionBatchSize:    &c.BatchSize,
	} {
		if v := os.Getenv(env); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
	if v := os.Getenv(EnvIngestionTimeout); v != "" {
		c.Timeout = v
	}
}

func (c *IngestionConfig) validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive")
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("chunk_overlap must be in [0, chunk_size)")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be positive")
	}
	if d, err := time.ParseDuration(c.Timeout); err != nil || d <= 0 {
		return fmt.Errorf("invalid timeout: %q", c.Timeout)
	}
	return nil
}

package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvChatAuthMaxTokens  = "CHAT_AUTH_MAX_TOKENS"
	EnvChatGuestMaxTokens = "CHAT_GUEST_MAX_TOKENS"
	EnvChatTopK           = "CHAT_TOP_K"
	EnvChatGuestRate      = "CHAT_GUEST_RATE"
	EnvChatGuestBurst     = "CHAT_GUEST_BURST"
)

// ChatConfig bounds chat responses. GuestRate is requests per second per client IP.
type ChatConfig struct {
	AuthMaxTokens  int     `toml:"auth_max_tokens"`
	GuestMaxTokens int     `toml:"guest_max_tokens"`
	TopK           int     `toml:"top_k"`
	GuestRate      float64 `toml:"guest_rate"`
	GuestBurst     int     `toml:"guest_burst"`
}

func (c *ChatConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

func (c *ChatConfig) Merge(overlay *ChatConfig) {
	if overlay.AuthMaxTokens != 0 {
		c.AuthMaxTokens = overlay.AuthMaxTokens
	}
	if overlay.GuestMaxTokens != 0 {
		c.GuestMaxTokens = overlay.GuestMaxTokens
	}
	if overlay.TopK != 0 {
		c.TopK = overlay.TopK
	}
	if overlay.GuestRate != 0 {
		c.GuestRate = overlay.GuestRate
	}
	if overlay.GuestBurst != 0 {
		c.GuestBurst = overlay.GuestBurst
	}
}

func (c *ChatConfig) loadDefaults() {
	if c.AuthMaxTokens == 0 {
		c.AuthMaxTokens = 1000
	}
	if c.GuestMaxTokens == 0 {
		c.GuestMaxTokens = 300
	}
	if c.TopK == 0 {
		c.TopK = 5
	}
	if c.GuestRate == 0 {
		c.GuestRate = 0.2
	}
	if c.GuestBurst == 0 {
		c.GuestBurst = 3
	}
}

func (c *ChatConfig) loadEnv() {
	for env, dst := range map[string]*int{
		EnvChatAuthMaxTokens:  &c.AuthMaxTokens,
		EnvChatGuestMaxTokens: &c.GuestMaxTokens,
		EnvChatTopK:           &c.TopK,
		EnvChatGuestBurst:     &c.GuestBurst,
	} {
		if v := os.Getenv(env); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
	if v := os.Getenv(EnvChatGuestRate); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.GuestRate = f
		}
	}
}

func (c *ChatConfig) validate() error {
	if c.AuthMaxTokens <= 0 || c.GuestMaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive")
	}
	if c.TopK <= 0 {
		return fmt.Errorf("top_k must be positive")
	}
	if c.GuestRate <= 0 || c.GuestBurst <= 0 {
		return fmt.Errorf("guest_rate and guest_burst must be positive")
	}
	return nil
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	EnvAuthSessionTTL = "AUTH_SESSION_TTL"
	EnvAuthCookieName = "AUTH_COOKIE_NAME"
	EnvAuthBcryptCost = "AUTH_BCRYPT_COST"
)

// AuthConfig holds session and password hashing settings.
type AuthConfig struct {
	SessionTTL string `toml:"session_ttl"`
	CookieName string `toml:"cookie_name"`
	BcryptCost int    `toml:"bcrypt_cost"`
}

func (c *AuthConfig) SessionTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.SessionTTL)
	return d
}

func (c *AuthConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

func (c *AuthConfig) Merge(overlay *AuthConfig) {
	if overlay.SessionTTL != "" {
		c.SessionTTL = overlay.SessionTTL
	}
	if overlay.CookieName != "" {
		c.CookieName = overlay.CookieName
	}
	if overlay.BcryptCost != 0 {
		c.BcryptCost = overlay.BcryptCost
	}
}

func (c *AuthConfig) loadDefaults() {
	if c.SessionTTL == "" {
		c.SessionTTL = "720h"
	}
	if c.CookieName == "" {
		c.CookieName = "studybuddy_session"
	}
	if c.BcryptCost == 0 {
		c.BcryptCost = 12
	}
}

func (c *AuthConfig) loadEnv() {
	if v := os.Getenv(EnvAuthSessionTTL); v != "" {
		c.SessionTTL = v
	}
	if v := os.Getenv(EnvAuthCookieName); v != "" {
		c.CookieName = v
	}
	if v := os.Getenv(EnvAuthBcryptCost); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.BcryptCost = n
		}
	}
}

func (c *AuthConfig) validate() error {
	if d, err := time.ParseDuration(c.SessionTTL); err != nil || d <= 0 {
		return fmt.Errorf("invalid session_ttl: %q", c.SessionTTL)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt_cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	return nil
}

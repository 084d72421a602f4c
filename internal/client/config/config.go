package config

import (
	"fmt"
	"net/url"
	"time"
)

// Store backends accepted by StoreBackend.
const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
	StoreMemory = "memory"
	// StoreJar keeps credentials as cookies of the express-api origin in the
	// jar the transport client sends requests with.
	StoreJar = "jar"
)

// Config holds runtime settings for the console CLI.
type Config struct {
	// ServerBaseURL is the origin of express-api, APIPrefix the path it is
	// mounted under.
	ServerBaseURL string
	APIPrefix     string

	// ConsoleOrigin is the origin the console itself is served from. Redirect
	// targets on any other origin are rejected.
	ConsoleOrigin string
	RouterBase    string
	LoginPath     string

	RequestTimeout time.Duration
	ReloadDelay    time.Duration

	StoreBackend string
	StoreDSN     string
	RedisAddr    string
	RedisPrefix  string
	// SealSecret, when set, encrypts the remembered login at rest.
	SealSecret string

	LogLevel string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:3000"
	c.APIPrefix = "/express-api"
	c.ConsoleOrigin = "http://localhost:8000"
	c.RouterBase = "/"
	c.LoginPath = "/user/login"
	c.RequestTimeout = 10 * time.Second
	c.ReloadDelay = 1023 * time.Millisecond
	c.StoreBackend = StoreSQLite
	c.StoreDSN = "console.db"
	c.RedisAddr = "127.0.0.1:6379"
	c.RedisPrefix = "console"
	c.LogLevel = "warn"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// a config file (if present) and command-line flags (if present). Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseFlags(cfg)
	return cfg
}

// Validate reports settings the client cannot start with.
func (c *Config) Validate() error {
	for name, raw := range map[string]string{"server base url": c.ServerBaseURL, "console origin": c.ConsoleOrigin} {
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("invalid %s %q", name, raw)
		}
	}

	switch c.StoreBackend {
	case StoreSQLite, StoreRedis, StoreMemory, StoreJar:
	default:
		return fmt.Errorf("unknown store backend %q", c.StoreBackend)
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	return nil
}

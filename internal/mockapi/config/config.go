// Package config handles configuration for the mock express-api server:
// defaults first, then command-line flags.
package config

import "time"

// Config holds runtime settings for the mock backend.
//
// Fields:
//   - Addr: bind address of the HTTP endpoint.
//   - APIPrefix: path prefix every route is mounted under.
//   - SecretKey: HMAC secret for signing session tokens (HS256). Do not use test defaults in prod.
//   - TokenValidity: lifetime of a token when the login asks for none.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	Addr          string
	APIPrefix     string
	SecretKey     string
	TokenValidity time.Duration
	LogLevel      string
}

// LoadDefaults populates Config with development defaults matching the
// console client defaults.
func (c *Config) LoadDefaults() {
	c.Addr = ":3000"
	c.APIPrefix = "/express-api"
	c.SecretKey = "secretKey"
	c.TokenValidity = 24 * time.Hour
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults and then command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)
	return cfg
}

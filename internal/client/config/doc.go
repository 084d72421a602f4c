// Package config loads runtime configuration for the console CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file (see parseFile) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// # Config file
//
// JSON (comments allowed) or YAML, chosen by file extension. Durations are
// timex.Duration, so "10s" and integer nanoseconds both work:
//
//	{
//	  // backend
//	  "server_base_url": "http://127.0.0.1:3000",
//	  "api_prefix": "/express-api",
//	  "request_timeout": "10s",
//	  "store_backend": "redis",
//	  "redis_addr": "127.0.0.1:6379",
//	}
//
// Note: This package does not read environment variables directly; use the
// config file or flags to configure values.
package config

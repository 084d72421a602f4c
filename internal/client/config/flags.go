package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/console/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     express-api base URL
//	-p string     API path prefix
//	-o string     console origin
//	-b string     router base
//	-l string     login path
//	-t duration   request timeout
//	-s string     credential store backend (sqlite, redis, memory, jar)
//	-d string     SQLite DSN
//	-r string     Redis address
//	-k string     seal secret for the remembered login
//	-v string     log level
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-p", "-o", "-b", "-l", "-t", "-s", "-d", "-r", "-k", "-v"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "express-api base URL")
	fs.StringVar(&cfg.APIPrefix, "p", cfg.APIPrefix, "API path prefix")
	fs.StringVar(&cfg.ConsoleOrigin, "o", cfg.ConsoleOrigin, "console origin")
	fs.StringVar(&cfg.RouterBase, "b", cfg.RouterBase, "router base")
	fs.StringVar(&cfg.LoginPath, "l", cfg.LoginPath, "login path")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout")
	fs.StringVar(&cfg.StoreBackend, "s", cfg.StoreBackend, "credential store backend: sqlite, redis, memory or jar")
	fs.StringVar(&cfg.StoreDSN, "d", cfg.StoreDSN, "SQLite DSN")
	fs.StringVar(&cfg.RedisAddr, "r", cfg.RedisAddr, "Redis address")
	fs.StringVar(&cfg.SealSecret, "k", cfg.SealSecret, "secret sealing the remembered login")
	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}

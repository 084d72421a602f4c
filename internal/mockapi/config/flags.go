package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/console/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     bind address (e.g., ":3000")
//	-p string     API prefix (e.g., "/express-api")
//	-s string     token HMAC secret key
//	-t duration   default token validity (e.g., "24h")
//	-v string     log level
//
// os.Args is filtered with flagx.FilterArgs first, so unknown flags are
// ignored instead of failing the parse.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-p", "-s", "-t", "-v"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.Addr, "a", config.Addr, "address and port to run server")
	fs.StringVar(&config.APIPrefix, "p", config.APIPrefix, "API path prefix")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.DurationVar(&config.TokenValidity, "t", config.TokenValidity, "default token validity")
	fs.StringVar(&config.LogLevel, "v", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/console/internal/flagx"
	"github.com/dmitrijs2005/console/internal/timex"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// FileConfig is a DTO used exclusively for config file unmarshalling. Empty
// fields leave the current value alone.
type FileConfig struct {
	ServerBaseURL  string         `json:"server_base_url" yaml:"server_base_url"`
	APIPrefix      string         `json:"api_prefix" yaml:"api_prefix"`
	ConsoleOrigin  string         `json:"console_origin" yaml:"console_origin"`
	RouterBase     string         `json:"router_base" yaml:"router_base"`
	LoginPath      string         `json:"login_path" yaml:"login_path"`
	RequestTimeout timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	ReloadDelay    timex.Duration `json:"reload_delay" yaml:"reload_delay"`
	StoreBackend   string         `json:"store_backend" yaml:"store_backend"`
	StoreDSN       string         `json:"store_dsn" yaml:"store_dsn"`
	RedisAddr      string         `json:"redis_addr" yaml:"redis_addr"`
	RedisPrefix    string         `json:"redis_prefix" yaml:"redis_prefix"`
	SealSecret     string         `json:"seal_secret" yaml:"seal_secret"`
	LogLevel       string         `json:"log_level" yaml:"log_level"`
}

// parseFile overlays Config with values from the file named by -c or
// -config. Files ending in .yaml or .yml are YAML; anything else is JSON,
// which may contain comments and trailing commas. Panics on read or decode
// errors.
func parseFile(cfg *Config) {
	path := flagx.ConfigFileFlag(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	fc, err := decodeFile(path, data)
	if err != nil {
		panic(err)
	}
	fc.apply(cfg)
}

func decodeFile(path string, data []byte) (FileConfig, error) {
	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err := yaml.Unmarshal(data, &fc)
		return fc, err
	default:
		err := json.Unmarshal(jsonc.ToJSON(data), &fc)
		return fc, err
	}
}

func (fc FileConfig) apply(cfg *Config) {
	setString := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	setString(&cfg.ServerBaseURL, fc.ServerBaseURL)
	setString(&cfg.APIPrefix, fc.APIPrefix)
	setString(&cfg.ConsoleOrigin, fc.ConsoleOrigin)
	setString(&cfg.RouterBase, fc.RouterBase)
	setString(&cfg.LoginPath, fc.LoginPath)
	setString(&cfg.StoreBackend, fc.StoreBackend)
	setString(&cfg.StoreDSN, fc.StoreDSN)
	setString(&cfg.RedisAddr, fc.RedisAddr)
	setString(&cfg.RedisPrefix, fc.RedisPrefix)
	setString(&cfg.SealSecret, fc.SealSecret)
	setString(&cfg.LogLevel, fc.LogLevel)

	if fc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.ReloadDelay.Duration > 0 {
		cfg.ReloadDelay = fc.ReloadDelay.Duration
	}
}

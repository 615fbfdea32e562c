// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MoneySpace Contributors

// Package config loads MoneySpace configuration from file, flags, and
// environment, in increasing order of precedence.
package config

import (
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Default values used when neither file nor flags set an option.
const (
	DefaultHTTPAddr    = "127.0.0.1:8080"
	DefaultMetricsAddr = "127.0.0.1:9100"
	DefaultLogFormat   = "json"
)

// ServerConfig holds HTTP API server settings.
type ServerConfig struct {
	Addr string `koanf:"addr"`
}

// MetricsConfig holds observability server settings.
// An empty Addr disables the observability server.
type MetricsConfig struct {
	Addr string `koanf:"addr"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Format string `koanf:"format"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	URL string `koanf:"url"`
}

// Config is the root configuration for the MoneySpace server.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Metrics  MetricsConfig  `koanf:"metrics"`
	Log      LogConfig      `koanf:"log"`
	Database DatabaseConfig `koanf:"database"`
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return oops.Code("CONFIG_INVALID").Errorf("server.addr is required")
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return oops.Code("CONFIG_INVALID").
			With("log_format", c.Log.Format).
			Errorf("log.format must be 'json' or 'text'")
	}
	if c.Database.URL == "" {
		return oops.Code("CONFIG_INVALID").
			Errorf("database.url is required (set DATABASE_URL or database.url)")
	}
	return nil
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"http-addr":    "server.addr",
	"metrics-addr": "metrics.addr",
	"log-format":   "log.format",
	"database-url": "database.url",
}

// Load builds the configuration in three layers: the optional YAML file at
// path, then the given flag set, then the DATABASE_URL environment variable.
// Later layers override earlier ones. A missing file is an error only when
// path was explicitly given.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").
				With("path", path).
				Wrap(err)
		}
	}

	if flags != nil {
		provider := posflag.ProviderWithValue(flags, ".", k, func(key, value string) (string, any) {
			if mapped, ok := flagKeys[key]; ok {
				return mapped, value
			}
			return key, value
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").
				With("source", "flags").
				Wrap(err)
		}
	}

	cfg := &Config{
		Server:  ServerConfig{Addr: DefaultHTTPAddr},
		Metrics: MetricsConfig{Addr: DefaultMetricsAddr},
		Log:     LogConfig{Format: DefaultLogFormat},
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").
			With("source", "unmarshal").
			Wrap(err)
	}

	// Environment wins over file and flags for the database URL so that
	// deployments can inject credentials without touching config files.
	if envURL := os.Getenv("DATABASE_URL"); envURL != "" {
		cfg.Database.URL = envURL
	}

	return cfg, nil
}

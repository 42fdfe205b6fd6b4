// Logtap - Structured Event Logging and Log Tailing Pipeline
// Copyright 2026 Logtap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oasys-platform/logtap

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where a config file is searched, in order.
var DefaultConfigPaths = []string{
	"logtap.yaml",
	"logtap.yml",
	"/etc/logtap/logtap.yaml",
	"/etc/logtap/logtap.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "LOGTAP_CONFIG"

// envPrefix namespaces every Logtap environment variable.
const envPrefix = "LOGTAP_"

// defaultConfig returns the built-in defaults, applied before file and
// environment layers.
func defaultConfig() *Config {
	return &Config{
		Logs: LogsConfig{
			Dir:      "",
			StateDir: "",
		},
		Retention: RetentionConfig{
			Days: 30,
		},
		Postgres: PostgresConfig{
			SlowQueryMs: 1000.0,
		},
		Schedule: ScheduleConfig{
			MetricsAddr: "",
			Sources:     nil,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file, and
// LOGTAP_* environment variables, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// LOGTAP_LOGS_DIR -> logs.dir, LOGTAP_RETENTION_DAYS -> retention.days
	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// envTransform maps an environment variable name to a koanf path. Only the
// first underscore becomes a section separator; the remainder is the key
// (LOGTAP_LOGS_STATE_DIR -> logs.state_dir).
func envTransform(name string) string {
	trimmed := strings.ToLower(strings.TrimPrefix(name, envPrefix))
	section, key, found := strings.Cut(trimmed, "_")
	if !found {
		return trimmed
	}
	return section + "." + key
}

// findConfigFile returns the first config file that exists, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

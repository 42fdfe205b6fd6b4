// Logtap - Structured Event Logging and Log Tailing Pipeline
// Copyright 2026 Logtap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oasys-platform/logtap

// Package config holds all Logtap configuration, loaded via Koanf v2 with
// layered sources (highest priority wins):
//
//  1. Environment variables (LOGTAP_ prefix, e.g. LOGTAP_LOGS_DIR)
//  2. Optional YAML config file (logtap.yaml, /etc/logtap/logtap.yaml,
//     or the path in LOGTAP_CONFIG)
//  3. Built-in defaults
package config

import (
	"fmt"
	"path/filepath"

	"github.com/oasys-platform/logtap/internal/event"
)

// Config is the root configuration for every Logtap command.
type Config struct {
	Logs      LogsConfig      `koanf:"logs"`
	Retention RetentionConfig `koanf:"retention"`
	Postgres  PostgresConfig  `koanf:"postgres"`
	Schedule  ScheduleConfig  `koanf:"schedule"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// LogsConfig locates the event log tree. An empty Dir means the log service
// is not configured: the writer degrades to a no-op and the parser commands
// refuse to run (they would have nowhere to emit).
type LogsConfig struct {
	// Dir is the log root: dated directories, failures.log, and the event
	// registry live under it.
	Dir string `koanf:"dir"`

	// StateDir overrides where parser offset state is kept.
	// Empty means <dir>/parser_state.
	StateDir string `koanf:"state_dir"`
}

// ResolvedStateDir returns the effective parser-state directory.
func (l LogsConfig) ResolvedStateDir() string {
	if l.StateDir != "" {
		return l.StateDir
	}
	if l.Dir == "" {
		return ""
	}
	return filepath.Join(l.Dir, "parser_state")
}

// Configured reports whether the log service has a root to write to.
func (l LogsConfig) Configured() bool { return l.Dir != "" }

// RetentionConfig controls the sweeper's default window.
type RetentionConfig struct {
	// Days is the number of days of dated directories to keep.
	Days int `koanf:"days"`
}

// PostgresConfig carries database-parser tuning.
type PostgresConfig struct {
	// SlowQueryMs is the duration at or above which a statement is
	// reclassified as a slow query.
	SlowQueryMs float64 `koanf:"slow_query_ms"`
}

// ScheduleConfig drives the long-running `run` mode.
type ScheduleConfig struct {
	// MetricsAddr is the listen address for the Prometheus /metrics
	// endpoint. Empty disables the endpoint.
	MetricsAddr string `koanf:"metrics_addr"`

	// Sources are the external log files tailed on a schedule.
	Sources []SourceConfig `koanf:"sources"`
}

// SourceConfig binds one parser kind to one external log file.
type SourceConfig struct {
	// Parser is the parser kind: nginx_access, nginx_error, authlog,
	// syslog, ufw, postgres.
	Parser string `koanf:"parser"`

	// Path is the external log file to tail.
	Path string `koanf:"path"`

	// Cron is a standard 5-field cron expression. Empty means every minute.
	Cron string `koanf:"cron"`

	// Format selects a named layout for format-flexible parsers
	// (nginx_access: combined; postgres: csv, stderr).
	Format string `koanf:"format"`

	// SlowQueryMs overrides postgres.slow_query_ms for this source.
	SlowQueryMs float64 `koanf:"slow_query_ms"`
}

// LoggingConfig configures the process's own diagnostic logging.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// RegistryPath returns the event registry location under the log root.
func (c *Config) RegistryPath() string {
	if !c.Logs.Configured() {
		return ""
	}
	return filepath.Join(c.Logs.Dir, event.RegistryFileName)
}

// Validate checks that the configuration is internally consistent. A missing
// log root is not an error here - commands that need it check
// Logs.Configured() and degrade or refuse individually.
func (c *Config) Validate() error {
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateRetention(); err != nil {
		return err
	}
	if err := c.validatePostgres(); err != nil {
		return err
	}
	return c.validateSchedule()
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("LOGTAP_LOGGING_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateRetention() error {
	if c.Retention.Days < 1 {
		return fmt.Errorf("LOGTAP_RETENTION_DAYS must be at least 1, got %d", c.Retention.Days)
	}
	return nil
}

func (c *Config) validatePostgres() error {
	if c.Postgres.SlowQueryMs < 0 {
		return fmt.Errorf("LOGTAP_POSTGRES_SLOW_QUERY_MS must not be negative, got %v", c.Postgres.SlowQueryMs)
	}
	return nil
}

func (c *Config) validateSchedule() error {
	seen := make(map[string]struct{}, len(c.Schedule.Sources))
	for i, src := range c.Schedule.Sources {
		if src.Parser == "" {
			return fmt.Errorf("schedule.sources[%d]: parser kind is required", i)
		}
		if src.Path == "" {
			return fmt.Errorf("schedule.sources[%d]: path is required", i)
		}
		// One active runner per (parser kind, file path) pair: state files
		// are not locked, so a duplicate source would race on its own state.
		key := src.Parser + "\x00" + src.Path
		if _, dup := seen[key]; dup {
			return fmt.Errorf("schedule.sources[%d]: duplicate source %s %s", i, src.Parser, src.Path)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// Logtap - Structured Event Logging and Log Tailing Pipeline
// Copyright 2026 Logtap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oasys-platform/logtap

package config

import (
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Retention.Days != 30 {
		t.Errorf("retention days default = %d, want 30", cfg.Retention.Days)
	}
	if cfg.Postgres.SlowQueryMs != 1000.0 {
		t.Errorf("slow query default = %v, want 1000", cfg.Postgres.SlowQueryMs)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("logging defaults = %+v", cfg.Logging)
	}
	if cfg.Logs.Configured() {
		t.Error("log root should be unconfigured by default")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("LOGTAP_LOGS_DIR", "/srv/logs")
	t.Setenv("LOGTAP_LOGS_STATE_DIR", "/srv/state")
	t.Setenv("LOGTAP_RETENTION_DAYS", "7")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Logs.Dir != "/srv/logs" {
		t.Errorf("logs.dir = %q", cfg.Logs.Dir)
	}
	if cfg.Logs.ResolvedStateDir() != "/srv/state" {
		t.Errorf("state dir = %q", cfg.Logs.ResolvedStateDir())
	}
	if cfg.Retention.Days != 7 {
		t.Errorf("retention days = %d, want 7", cfg.Retention.Days)
	}
}

func TestEnvTransform(t *testing.T) {
	cases := map[string]string{
		"LOGTAP_LOGS_DIR":               "logs.dir",
		"LOGTAP_LOGS_STATE_DIR":         "logs.state_dir",
		"LOGTAP_RETENTION_DAYS":         "retention.days",
		"LOGTAP_POSTGRES_SLOW_QUERY_MS": "postgres.slow_query_ms",
		"LOGTAP_LOGGING_LEVEL":          "logging.level",
	}
	for in, want := range cases {
		if got := envTransform(in); got != want {
			t.Errorf("envTransform(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestResolvedStateDirDefault(t *testing.T) {
	l := LogsConfig{Dir: "/var/log/logtap"}
	want := filepath.Join("/var/log/logtap", "parser_state")
	if got := l.ResolvedStateDir(); got != want {
		t.Errorf("ResolvedStateDir() = %q, want %q", got, want)
	}
	if (LogsConfig{}).ResolvedStateDir() != "" {
		t.Error("unconfigured logs should have no state dir")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative retention", func(c *Config) { c.Retention.Days = 0 }},
		{"negative threshold", func(c *Config) { c.Postgres.SlowQueryMs = -1 }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"source without parser", func(c *Config) {
			c.Schedule.Sources = []SourceConfig{{Path: "/var/log/syslog"}}
		}},
		{"source without path", func(c *Config) {
			c.Schedule.Sources = []SourceConfig{{Parser: "syslog"}}
		}},
		{"duplicate source", func(c *Config) {
			c.Schedule.Sources = []SourceConfig{
				{Parser: "syslog", Path: "/var/log/syslog"},
				{Parser: "syslog", Path: "/var/log/syslog"},
			}
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidateAcceptsDistinctSources(t *testing.T) {
	cfg := defaultConfig()
	cfg.Schedule.Sources = []SourceConfig{
		{Parser: "syslog", Path: "/var/log/syslog"},
		{Parser: "ufw", Path: "/var/log/syslog"},
		{Parser: "syslog", Path: "/var/log/messages"},
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("distinct sources should validate: %v", err)
	}
}

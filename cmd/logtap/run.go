// Logtap - Structured Event Logging and Log Tailing Pipeline
// Copyright 2026 Logtap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oasys-platform/logtap

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/oasys-platform/logtap/internal/config"
	"github.com/oasys-platform/logtap/internal/eventlog"
	"github.com/oasys-platform/logtap/internal/logging"
	"github.com/oasys-platform/logtap/internal/schedule"
	"github.com/oasys-platform/logtap/internal/supervisor"
	"github.com/oasys-platform/logtap/internal/tailer"
)

// runScheduler starts the long-running mode: every configured source is
// tailed on its cron schedule, retention sweeps nightly, and Prometheus
// metrics are exposed when an address is configured. Services run under a
// supervision tree and restart with backoff on failure.
func runScheduler(cfg *config.Config, args []string) int {
	if len(args) > 0 {
		fmt.Fprintf(os.Stderr, "logtap run: unexpected arguments %v\n", args)
		return 2
	}
	if !cfg.Logs.Configured() {
		fmt.Fprintln(os.Stderr, "logtap: no log directory configured (set LOGTAP_LOGS_DIR)")
		return 1
	}
	if len(cfg.Schedule.Sources) == 0 {
		fmt.Fprintln(os.Stderr, "logtap run: no sources configured under schedule.sources")
		return 1
	}

	writer := eventlog.NewWriter(cfg.Logs.Dir)
	store := tailer.NewStateStore(cfg.Logs.ResolvedStateDir())

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.Add(schedule.NewRunner(cfg, writer, store))
	if cfg.Schedule.MetricsAddr != "" {
		tree.Add(schedule.NewMetricsServer(cfg.Schedule.MetricsAddr))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().
		Int("sources", len(cfg.Schedule.Sources)).
		Str("metrics_addr", cfg.Schedule.MetricsAddr).
		Msg("logtap run mode starting")

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("supervision tree terminated")
		return 1
	}
	logging.Info().Msg("logtap run mode stopped")
	return 0
}

// Logtap - Structured Event Logging and Log Tailing Pipeline
// Copyright 2026 Logtap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oasys-platform/logtap

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/oasys-platform/logtap/internal/config"
	"github.com/oasys-platform/logtap/internal/eventlog"
	"github.com/oasys-platform/logtap/internal/logging"
	"github.com/oasys-platform/logtap/internal/parser"
	"github.com/oasys-platform/logtap/internal/tailer"
)

// runParse executes one incremental tail of an external log file. The
// parser kind is derived from the command name (parse-nginx-access ->
// nginx_access).
func runParse(cfg *config.Config, cmd string, args []string) int {
	kind := strings.ReplaceAll(strings.TrimPrefix(cmd, "parse-"), "-", "_")

	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	logFile := fs.String("log-file", "", "external log file to tail (required)")
	stateDir := fs.String("state-dir", "", "override the parser state directory")
	logFormat := fs.String("log-format", "", "sub-format for format-flexible parsers (postgres: stderr, csv)")
	minDurationMs := fs.Float64("min-duration-ms", 0, "slow-query threshold override in milliseconds (postgres)")
	fs.Parse(args)

	if *logFile == "" {
		fmt.Fprintf(os.Stderr, "logtap %s: --log-file is required\n", cmd)
		return 2
	}
	if !cfg.Logs.Configured() {
		fmt.Fprintln(os.Stderr, "logtap: no log directory configured (set LOGTAP_LOGS_DIR)")
		return 1
	}

	slowMs := cfg.Postgres.SlowQueryMs
	if *minDurationMs > 0 {
		slowMs = *minDurationMs
	}
	m, err := parser.New(kind, parser.Options{
		Format:      *logFormat,
		SlowQueryMs: slowMs,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logtap %s: %v\n", cmd, err)
		return 2
	}

	dir := cfg.Logs.ResolvedStateDir()
	if *stateDir != "" {
		dir = *stateDir
	}
	store := tailer.NewStateStore(dir)
	writer := eventlog.NewWriter(cfg.Logs.Dir)

	sum, err := tailer.New(m.Name(), *logFile, store).Run(context.Background(), parser.EmitFunc(m, writer, *logFile))
	if err != nil {
		logging.Error().Err(err).Str("log_file", *logFile).Msg("tail run failed")
		return 1
	}

	fmt.Printf("%s: %d lines, %d events, %d parse errors (offset %d -> %d)\n",
		*logFile, sum.LinesSeen, sum.EventsEmitted, sum.ParseErrors,
		sum.StartOffset, sum.FinalOffset)
	return 0
}

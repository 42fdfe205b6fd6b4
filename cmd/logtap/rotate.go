// Logtap - Structured Event Logging and Log Tailing Pipeline
// Copyright 2026 Logtap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oasys-platform/logtap

package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/oasys-platform/logtap/internal/config"
	"github.com/oasys-platform/logtap/internal/logging"
	"github.com/oasys-platform/logtap/internal/retention"
)

// runRotate sweeps dated directories past the retention window. The window
// comes from the first positional argument, falling back to the configured
// retention.days.
func runRotate(cfg *config.Config, args []string) int {
	fs := flag.NewFlagSet("rotate", flag.ExitOnError)
	dryRun := fs.Bool("dry-run", false, "report what would be deleted without deleting")

	// Accept "rotate --dry-run 14" and "rotate 14 --dry-run": standard flag
	// parsing stops at the first positional, so parse any trailing flags in
	// a second pass.
	fs.Parse(args)
	positional := fs.Args()
	if len(positional) > 1 {
		fs.Parse(positional[1:])
	}

	days := cfg.Retention.Days
	if len(positional) > 0 {
		n, err := strconv.Atoi(positional[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "logtap rotate: invalid day count %q\n", positional[0])
			return 2
		}
		days = n
	}

	if !cfg.Logs.Configured() {
		fmt.Fprintln(os.Stderr, "logtap: no log directory configured (set LOGTAP_LOGS_DIR)")
		return 1
	}

	s := retention.NewSweeper(cfg.Logs.Dir, logging.Logger())
	sum, err := s.Sweep(days, *dryRun)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logtap rotate: %v\n", err)
		return 1
	}

	verb := "deleted"
	if sum.DryRun {
		verb = "would delete"
	}
	fmt.Printf("%s %d directories older than %s, %s reclaimed\n",
		verb, len(sum.Deleted), sum.Cutoff, retention.FormatSize(sum.BytesReclaimed))
	for _, name := range sum.Deleted {
		fmt.Printf("  %s %s\n", verb, name)
	}
	for _, name := range sum.Skipped {
		fmt.Printf("  skipped %s (not a dated directory)\n", name)
	}
	return 0
}

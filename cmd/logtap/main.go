// Logtap - Structured Event Logging and Log Tailing Pipeline
// Copyright 2026 Logtap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oasys-platform/logtap

// Package main is the Logtap command line entry point.
//
// Logtap maintains a structured event log tree: applications append JSON
// Lines events by category into dated directories, and the parser commands
// tail external system logs (web server, auth log, syslog, firewall,
// database) into the same tree with persisted read offsets.
//
// Commands:
//
//	logtap parse-nginx-access --log-file /var/log/nginx/access.log
//	logtap parse-nginx-error  --log-file /var/log/nginx/error.log
//	logtap parse-authlog      --log-file /var/log/auth.log
//	logtap parse-syslog       --log-file /var/log/syslog
//	logtap parse-ufw          --log-file /var/log/ufw.log
//	logtap parse-postgres     --log-file /var/log/postgresql/postgresql.log [--log-format csv] [--min-duration-ms 500]
//	logtap rotate <days> [--dry-run]
//	logtap events list [--type <category>]
//	logtap events register <category> <name>
//	logtap check [--create-test-logs]
//	logtap run
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins): environment variables (LOGTAP_ prefix), an optional YAML
// file (logtap.yaml, /etc/logtap/logtap.yaml, or LOGTAP_CONFIG), and
// built-in defaults. LOGTAP_LOGS_DIR locates the log tree.
package main

import (
	"fmt"
	"os"

	"github.com/oasys-platform/logtap/internal/config"
	"github.com/oasys-platform/logtap/internal/logging"
)

func main() {
	os.Exit(realMain(os.Args[1:]))
}

func realMain(args []string) int {
	if len(args) == 0 {
		usage(os.Stderr)
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logtap: %v\n", err)
		return 1
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "parse-nginx-access", "parse-nginx-error", "parse-authlog",
		"parse-syslog", "parse-ufw", "parse-postgres":
		return runParse(cfg, cmd, rest)
	case "rotate":
		return runRotate(cfg, rest)
	case "events":
		return runEvents(cfg, rest)
	case "check":
		return runCheck(cfg, rest)
	case "run":
		return runScheduler(cfg, rest)
	case "help", "-h", "--help":
		usage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "logtap: unknown command %q\n\n", cmd)
		usage(os.Stderr)
		return 2
	}
}

func usage(w *os.File) {
	fmt.Fprint(w, `Usage: logtap <command> [flags]

Parser commands (tail an external log into the event tree):
  parse-nginx-access   web server access log (combined format)
  parse-nginx-error    web server error log
  parse-authlog        OS authentication log
  parse-syslog         general system log
  parse-ufw            firewall log
  parse-postgres       database server log (stderr or csv format)

Maintenance commands:
  rotate <days>        delete dated directories older than <days> days
  events list          show the event registry
  events register      add a (category, name) pair to the registry
  check                verify configuration and log tree health
  run                  long-running mode: cron-scheduled tailing + metrics

Run 'logtap <command> -h' for command flags.
`)
}

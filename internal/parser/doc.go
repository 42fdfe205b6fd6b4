// Logtap - Structured Event Logging and Log Tailing Pipeline
// Copyright 2026 Logtap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oasys-platform/logtap

// Package parser turns raw log lines from external systems (web server,
// OS auth log, syslog, firewall, database) into structured events on the
// shared taxonomy.
//
// Each matcher handles one line format. Timestamps are taken from the line
// itself so re-reading old log content backfills events into the correct
// day, and severities are mapped from each source's native vocabulary onto
// the shared scale.
package parser

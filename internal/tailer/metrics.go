// Logtap - Structured Event Logging and Log Tailing Pipeline
// Copyright 2026 Logtap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oasys-platform/logtap

package tailer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	tailerLines = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "logtap_tailer_lines_total",
		Help: "Log lines scanned, by parser.",
	}, []string{"parser"})

	tailerEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "logtap_tailer_events_total",
		Help: "Events emitted from scanned lines, by parser.",
	}, []string{"parser"})

	tailerParseErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "logtap_tailer_parse_errors_total",
		Help: "Lines that failed to parse and were skipped, by parser.",
	}, []string{"parser"})
)

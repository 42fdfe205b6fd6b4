// Logtap - Structured Event Logging and Log Tailing Pipeline
// Copyright 2026 Logtap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oasys-platform/logtap

package eventlog

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsWritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "logtap_events_written_total",
		Help: "Events appended to category log files, by category.",
	}, []string{"category"})

	eventWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "logtap_event_write_failures_total",
		Help: "Events diverted to the failure sink because the category file could not be written.",
	})
)

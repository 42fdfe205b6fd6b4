// Logtap - Structured Event Logging and Log Tailing Pipeline
// Copyright 2026 Logtap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oasys-platform/logtap

package retention

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sweptDirectories = promauto.NewCounter(prometheus.CounterOpts{
		Name: "logtap_retention_directories_deleted_total",
		Help: "Dated log directories removed by the retention sweeper.",
	})

	sweptBytes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "logtap_retention_bytes_reclaimed_total",
		Help: "Bytes reclaimed by the retention sweeper.",
	})
)

// Logtap - Structured Event Logging and Log Tailing Pipeline
// Copyright 2026 Logtap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oasys-platform/logtap

package schedule

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/oasys-platform/logtap/internal/logging"
)

// MetricsServer exposes the Prometheus registry over HTTP. It implements
// suture.Service.
type MetricsServer struct {
	addr string
	log  zerolog.Logger
}

// NewMetricsServer returns a metrics endpoint on addr.
func NewMetricsServer(addr string) *MetricsServer {
	return &MetricsServer{
		addr: addr,
		log:  logging.With().Str("component", "metrics").Logger(),
	}
}

// Serve implements suture.Service.
func (m *MetricsServer) Serve(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              m.addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		m.log.Info().Str("addr", m.addr).Msg("metrics endpoint listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			m.log.Warn().Err(err).Msg("metrics endpoint shutdown forced")
		}
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// String implements fmt.Stringer for supervisor logs.
func (m *MetricsServer) String() string { return "schedule.metrics" }

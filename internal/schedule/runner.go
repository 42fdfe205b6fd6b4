// Logtap - Structured Event Logging and Log Tailing Pipeline
// Copyright 2026 Logtap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oasys-platform/logtap

// Package schedule wires the tailers and the retention sweeper into the
// long-running `run` mode: a cron scheduler and a metrics endpoint, each a
// supervised service.
package schedule

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/oasys-platform/logtap/internal/config"
	"github.com/oasys-platform/logtap/internal/eventlog"
	"github.com/oasys-platform/logtap/internal/logging"
	"github.com/oasys-platform/logtap/internal/parser"
	"github.com/oasys-platform/logtap/internal/retention"
	"github.com/oasys-platform/logtap/internal/tailer"
)

const defaultCron = "* * * * *"

// retentionCron runs the sweeper once a day, after midnight.
const retentionCron = "10 0 * * *"

// Runner owns the cron scheduler that drives the configured log sources and
// the daily retention sweep. It implements suture.Service.
type Runner struct {
	cfg    *config.Config
	writer *eventlog.Writer
	store  *tailer.StateStore
	log    zerolog.Logger

	// mu serializes runs of the same source against a slow previous run.
	mu sync.Mutex
}

// NewRunner builds a runner from the loaded configuration.
func NewRunner(cfg *config.Config, writer *eventlog.Writer, store *tailer.StateStore) *Runner {
	return &Runner{
		cfg:    cfg,
		writer: writer,
		store:  store,
		log:    logging.With().Str("component", "schedule").Logger(),
	}
}

// Serve implements suture.Service: it registers every source with the cron
// scheduler, runs until ctx is cancelled, then drains in-flight jobs.
func (r *Runner) Serve(ctx context.Context) error {
	c := cron.New()

	for _, src := range r.cfg.Schedule.Sources {
		job, err := r.sourceJob(src)
		if err != nil {
			return fmt.Errorf("source %s %s: %w", src.Parser, src.Path, err)
		}
		spec := src.Cron
		if spec == "" {
			spec = defaultCron
		}
		if _, err := c.AddFunc(spec, job); err != nil {
			return fmt.Errorf("source %s %s: invalid cron expression %q: %w", src.Parser, src.Path, spec, err)
		}
		r.log.Info().
			Str("parser", src.Parser).
			Str("path", src.Path).
			Str("cron", spec).
			Msg("source scheduled")
	}

	if _, err := c.AddFunc(retentionCron, r.sweepJob()); err != nil {
		return fmt.Errorf("retention schedule: %w", err)
	}

	c.Start()
	<-ctx.Done()

	// Stop accepting new runs, then wait for running jobs to finish.
	<-c.Stop().Done()
	r.log.Info().Msg("scheduler stopped")
	return ctx.Err()
}

// sourceJob builds the cron callback for one source. The matcher is
// constructed once here so a bad parser kind or format fails service
// startup instead of every tick.
func (r *Runner) sourceJob(src config.SourceConfig) (func(), error) {
	slowMs := src.SlowQueryMs
	if slowMs == 0 {
		slowMs = r.cfg.Postgres.SlowQueryMs
	}
	m, err := parser.New(src.Parser, parser.Options{
		Format:      src.Format,
		SlowQueryMs: slowMs,
	})
	if err != nil {
		return nil, err
	}

	t := tailer.New(m.Name(), src.Path, r.store)
	fn := parser.EmitFunc(m, r.writer, src.Path)

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if _, err := t.Run(context.Background(), fn); err != nil {
			r.log.Error().Err(err).
				Str("parser", src.Parser).
				Str("path", src.Path).
				Msg("scheduled tail failed")
		}
	}, nil
}

func (r *Runner) sweepJob() func() {
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		s := retention.NewSweeper(r.cfg.Logs.Dir, r.log)
		sum, err := s.Sweep(r.cfg.Retention.Days, false)
		if err != nil {
			r.log.Error().Err(err).Msg("scheduled retention sweep failed")
			return
		}
		r.log.Info().
			Int("deleted", len(sum.Deleted)).
			Str("reclaimed", retention.FormatSize(sum.BytesReclaimed)).
			Msg("retention sweep finished")
	}
}

// String implements fmt.Stringer for supervisor logs.
func (r *Runner) String() string { return "schedule.runner" }

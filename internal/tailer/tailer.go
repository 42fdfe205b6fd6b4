// Logtap - Structured Event Logging and Log Tailing Pipeline
// Copyright 2026 Logtap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oasys-platform/logtap

package tailer

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/oasys-platform/logtap/internal/logging"
)

// LineFunc handles one complete log line. emitted reports whether the line
// produced an event. A non-nil error marks the line as unparseable; the
// tailer counts it and moves on, it is never fatal to the run.
type LineFunc func(line string) (emitted bool, err error)

// Summary describes one completed tailer run.
type Summary struct {
	RunID         string
	Path          string
	Rotated       bool
	Truncated     bool
	StartOffset   int64
	FinalOffset   int64
	LinesSeen     int64
	EventsEmitted int64
	ParseErrors   int64
}

// Tailer reads one log file incrementally on behalf of one parser.
type Tailer struct {
	parser string
	path   string
	store  *StateStore
	log    zerolog.Logger
}

// New returns a tailer for logPath whose position is tracked under parser's
// name in store.
func New(parser, logPath string, store *StateStore) *Tailer {
	return &Tailer{
		parser: parser,
		path:   logPath,
		store:  store,
		log: logging.With().
			Str("component", "tailer").
			Str("parser", parser).
			Str("log_file", logPath).
			Logger(),
	}
}

// Run reads every line added to the file since the previous run and hands
// each to fn. On return the position is persisted, including the mid-run
// position when the run fails, so no scanned byte is ever read twice and no
// unscanned byte is ever skipped.
func (t *Tailer) Run(ctx context.Context, fn LineFunc) (Summary, error) {
	sum := Summary{
		RunID: uuid.NewString(),
		Path:  t.path,
	}

	f, err := os.Open(t.path)
	if err != nil {
		return sum, fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return sum, fmt.Errorf("stat log file: %w", err)
	}
	inode, err := inodeOf(info)
	if err != nil {
		return sum, err
	}
	size := info.Size()

	start := int64(0)
	if prev := t.store.Load(t.parser, t.path); prev != nil {
		switch {
		case prev.Inode != inode:
			sum.Rotated = true
			t.log.Info().
				Uint64("previous_inode", prev.Inode).
				Uint64("current_inode", inode).
				Msg("file rotated, restarting from offset 0")
		case prev.Offset > size:
			sum.Truncated = true
			t.log.Info().
				Int64("previous_offset", prev.Offset).
				Int64("current_size", size).
				Msg("file truncated, restarting from offset 0")
		default:
			start = prev.Offset
		}
	}
	sum.StartOffset = start
	sum.FinalOffset = start

	if start > 0 {
		if _, err := f.Seek(start, io.SeekStart); err != nil {
			return sum, fmt.Errorf("seek to offset %d: %w", start, err)
		}
	}

	runErr := t.scan(ctx, f, fn, &sum)

	// Persist the position even when the run failed: everything before
	// FinalOffset was fully scanned and must not be replayed.
	if err := t.store.Save(t.parser, t.path, State{Inode: inode, Offset: sum.FinalOffset}); err != nil {
		if runErr == nil {
			runErr = err
		} else {
			t.log.Error().Err(err).Msg("failed to persist tailer state after run error")
		}
	}

	tailerLines.WithLabelValues(t.parser).Add(float64(sum.LinesSeen))
	tailerEvents.WithLabelValues(t.parser).Add(float64(sum.EventsEmitted))
	tailerParseErrors.WithLabelValues(t.parser).Add(float64(sum.ParseErrors))

	t.log.Info().
		Str("run_id", sum.RunID).
		Int64("start_offset", sum.StartOffset).
		Int64("final_offset", sum.FinalOffset).
		Int64("lines", sum.LinesSeen).
		Int64("events", sum.EventsEmitted).
		Int64("parse_errors", sum.ParseErrors).
		Msg("tailer run finished")

	return sum, runErr
}

// scan consumes lines until EOF or cancellation, advancing sum.FinalOffset
// past each fully scanned line, parse failures included. A final line
// without a trailing newline is still processed; its bytes were read, so
// the offset moves past it.
func (t *Tailer) scan(ctx context.Context, f *os.File, fn LineFunc, sum *Summary) error {
	r := bufio.NewReader(f)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		raw, err := r.ReadString('\n')
		if len(raw) > 0 {
			sum.FinalOffset += int64(len(raw))
			line := strings.TrimRight(raw, "\r\n")
			if line != "" {
				sum.LinesSeen++
				emitted, lineErr := fn(line)
				if lineErr != nil {
					sum.ParseErrors++
					t.log.Debug().Err(lineErr).Str("line", line).Msg("unparseable line skipped")
				} else if emitted {
					sum.EventsEmitted++
				}
			}
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("read log file: %w", err)
		}
	}
}

// Logtap - Structured Event Logging and Log Tailing Pipeline
// Copyright 2026 Logtap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oasys-platform/logtap

// Package retention deletes dated log directories past their keep window.
package retention

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/oasys-platform/logtap/internal/event"
	"github.com/oasys-platform/logtap/internal/eventlog"
)

const dateLayout = "2006-01-02"

// protected are the undated fixtures at the log root that the sweeper never
// touches, whatever their age.
var protected = map[string]struct{}{
	eventlog.FailureFileName: {},
	event.RegistryFileName:   {},
	"parser_state":           {},
}

// Summary reports the outcome of one sweep.
type Summary struct {
	DryRun         bool
	Cutoff         string
	Deleted        []string
	Skipped        []string
	BytesReclaimed int64
}

// Sweeper removes dated directories older than the retention window.
type Sweeper struct {
	root string
	now  func() time.Time
	log  zerolog.Logger
}

// NewSweeper returns a sweeper over the log tree at root.
func NewSweeper(root string, logger zerolog.Logger) *Sweeper {
	return &Sweeper{
		root: root,
		now:  time.Now,
		log:  logger.With().Str("component", "retention").Logger(),
	}
}

// Sweep deletes every dated directory strictly older than daysToKeep days
// before today. The directory exactly at the boundary is kept: daysToKeep=7
// on 2025-01-15 keeps 2025-01-08 and deletes 2025-01-07. Entries whose name
// is not a date are left alone and flagged in the summary. With dryRun set
// nothing is removed; the summary reports what would have been.
func (s *Sweeper) Sweep(daysToKeep int, dryRun bool) (Summary, error) {
	if daysToKeep < 1 {
		return Summary{}, fmt.Errorf("days to keep must be at least 1, got %d", daysToKeep)
	}

	today := s.now().UTC().Truncate(24 * time.Hour)
	cutoff := today.AddDate(0, 0, -daysToKeep)
	sum := Summary{DryRun: dryRun, Cutoff: cutoff.Format(dateLayout)}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return sum, fmt.Errorf("read log root %s: %w", s.root, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if _, ok := protected[name]; ok {
			continue
		}
		if !entry.IsDir() {
			// Stray files at the root are not ours to manage.
			sum.Skipped = append(sum.Skipped, name)
			continue
		}
		date, err := time.Parse(dateLayout, name)
		if err != nil {
			sum.Skipped = append(sum.Skipped, name)
			s.log.Warn().Str("entry", name).Msg("non-date directory at log root, skipping")
			continue
		}
		if !date.Before(cutoff) {
			continue
		}

		path := filepath.Join(s.root, name)
		size, err := dirSize(path)
		if err != nil {
			s.log.Warn().Err(err).Str("directory", name).Msg("could not measure directory size")
		}

		if dryRun {
			s.log.Info().Str("directory", name).Int64("bytes", size).Msg("would delete")
		} else {
			if err := os.RemoveAll(path); err != nil {
				return sum, fmt.Errorf("delete %s: %w", path, err)
			}
			s.log.Info().Str("directory", name).Int64("bytes", size).Msg("deleted")
			sweptDirectories.Inc()
			sweptBytes.Add(float64(size))
		}
		sum.Deleted = append(sum.Deleted, name)
		sum.BytesReclaimed += size
	}
	return sum, nil
}

func dirSize(path string) (int64, error) {
	var total int64
	err := filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		total += info.Size()
		return nil
	})
	return total, err
}

// FormatSize renders a byte count for human consumption.
func FormatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

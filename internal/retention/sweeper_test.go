// Logtap - Structured Event Logging and Log Tailing Pipeline
// Copyright 2026 Logtap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oasys-platform/logtap

package retention

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func seedRoot(t *testing.T, names ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, name := range names {
		dir := filepath.Join(root, name)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "application.log"), []byte("{}\n{}\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func newSweeper(root string, now time.Time) *Sweeper {
	s := NewSweeper(root, zerolog.Nop())
	s.now = func() time.Time { return now }
	return s
}

func TestSweepBoundary(t *testing.T) {
	root := seedRoot(t, "2025-01-06", "2025-01-07", "2025-01-08", "2025-01-14", "not-a-date")
	s := newSweeper(root, time.Date(2025, 1, 15, 13, 30, 0, 0, time.UTC))

	sum, err := s.Sweep(7, false)
	if err != nil {
		t.Fatal(err)
	}
	if sum.Cutoff != "2025-01-08" {
		t.Errorf("cutoff = %s", sum.Cutoff)
	}
	wantDeleted := []string{"2025-01-06", "2025-01-07"}
	if !slices.Equal(sum.Deleted, wantDeleted) {
		t.Errorf("deleted = %v, want %v", sum.Deleted, wantDeleted)
	}
	if !slices.Contains(sum.Skipped, "not-a-date") {
		t.Errorf("skipped = %v, want not-a-date flagged", sum.Skipped)
	}

	// Boundary directory and newer survive; non-date untouched.
	for _, keep := range []string{"2025-01-08", "2025-01-14", "not-a-date"} {
		if _, err := os.Stat(filepath.Join(root, keep)); err != nil {
			t.Errorf("%s should survive: %v", keep, err)
		}
	}
	for _, gone := range wantDeleted {
		if _, err := os.Stat(filepath.Join(root, gone)); !os.IsNotExist(err) {
			t.Errorf("%s should be deleted", gone)
		}
	}
	if sum.BytesReclaimed == 0 {
		t.Error("bytes reclaimed should be counted")
	}
}

func TestSweepDryRunDeletesNothing(t *testing.T) {
	root := seedRoot(t, "2024-12-01", "2025-01-14")
	s := newSweeper(root, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC))

	sum, err := s.Sweep(7, true)
	if err != nil {
		t.Fatal(err)
	}
	if !sum.DryRun || len(sum.Deleted) != 1 || sum.Deleted[0] != "2024-12-01" {
		t.Fatalf("summary = %+v", sum)
	}
	if _, err := os.Stat(filepath.Join(root, "2024-12-01")); err != nil {
		t.Error("dry run must not delete")
	}
}

func TestSweepProtectsFixtures(t *testing.T) {
	root := seedRoot(t, "2020-01-01")
	for _, f := range []string{"failures.log", "event_registry.json"} {
		if err := os.WriteFile(filepath.Join(root, f), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.MkdirAll(filepath.Join(root, "parser_state"), 0o755); err != nil {
		t.Fatal(err)
	}

	s := newSweeper(root, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC))
	sum, err := s.Sweep(7, false)
	if err != nil {
		t.Fatal(err)
	}
	for _, keep := range []string{"failures.log", "event_registry.json", "parser_state"} {
		if _, err := os.Stat(filepath.Join(root, keep)); err != nil {
			t.Errorf("%s must never be swept: %v", keep, err)
		}
		if slices.Contains(sum.Skipped, keep) {
			t.Errorf("%s is protected, not skipped-with-flag", keep)
		}
	}
}

func TestSweepRejectsNonPositiveDays(t *testing.T) {
	s := newSweeper(t.TempDir(), time.Now())
	if _, err := s.Sweep(0, false); err == nil {
		t.Fatal("expected error for days=0")
	}
}

func TestFormatSize(t *testing.T) {
	cases := []struct {
		n    int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
	}
	for _, tc := range cases {
		if got := FormatSize(tc.n); got != tc.want {
			t.Errorf("FormatSize(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}

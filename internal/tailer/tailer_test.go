// Logtap - Structured Event Logging and Log Tailing Pipeline
// Copyright 2026 Logtap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oasys-platform/logtap

package tailer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func collectLines(lines *[]string) LineFunc {
	return func(line string) (bool, error) {
		*lines = append(*lines, line)
		return true, nil
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func appendFile(t *testing.T, path, content string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		t.Fatal(err)
	}
}

func TestTailerResumesAtSavedOffset(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "app.log")
	store := NewStateStore(filepath.Join(dir, "state"))

	writeFile(t, logPath, "one\ntwo\n")

	var first []string
	sum, err := New("testparser", logPath, store).Run(context.Background(), collectLines(&first))
	if err != nil {
		t.Fatal(err)
	}
	if sum.LinesSeen != 2 || sum.StartOffset != 0 {
		t.Fatalf("first run: %+v", sum)
	}

	appendFile(t, logPath, "three\nfour\n")

	var second []string
	sum, err = New("testparser", logPath, store).Run(context.Background(), collectLines(&second))
	if err != nil {
		t.Fatal(err)
	}
	if len(second) != 2 || second[0] != "three" || second[1] != "four" {
		t.Fatalf("second run re-read or skipped lines: %v", second)
	}
	if sum.StartOffset != 8 {
		t.Errorf("second run start offset = %d, want 8", sum.StartOffset)
	}
}

func TestTailerNoNewContentIsNoOp(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "app.log")
	store := NewStateStore(filepath.Join(dir, "state"))
	writeFile(t, logPath, "only\n")

	var lines []string
	if _, err := New("p", logPath, store).Run(context.Background(), collectLines(&lines)); err != nil {
		t.Fatal(err)
	}
	lines = nil
	sum, err := New("p", logPath, store).Run(context.Background(), collectLines(&lines))
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 0 || sum.LinesSeen != 0 {
		t.Fatalf("expected no lines on unchanged file, got %v", lines)
	}
	if sum.StartOffset != sum.FinalOffset {
		t.Errorf("offset moved on unchanged file: %+v", sum)
	}
}

func TestTailerDetectsRotation(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "app.log")
	store := NewStateStore(filepath.Join(dir, "state"))
	writeFile(t, logPath, "old line\n")

	var lines []string
	if _, err := New("p", logPath, store).Run(context.Background(), collectLines(&lines)); err != nil {
		t.Fatal(err)
	}

	// Rotate: move the file aside and create a fresh one at the same path.
	// The new inode must trigger a restart from offset 0 even though the
	// new file is longer than the saved offset.
	if err := os.Rename(logPath, logPath+".1"); err != nil {
		t.Fatal(err)
	}
	writeFile(t, logPath, "fresh one\nfresh two\n")

	lines = nil
	sum, err := New("p", logPath, store).Run(context.Background(), collectLines(&lines))
	if err != nil {
		t.Fatal(err)
	}
	if !sum.Rotated {
		t.Error("rotation not detected")
	}
	if len(lines) != 2 || lines[0] != "fresh one" {
		t.Fatalf("rotated file not read from start: %v", lines)
	}
}

func TestTailerDetectsTruncation(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "app.log")
	store := NewStateStore(filepath.Join(dir, "state"))
	writeFile(t, logPath, "a long first line of content\n")

	var lines []string
	if _, err := New("p", logPath, store).Run(context.Background(), collectLines(&lines)); err != nil {
		t.Fatal(err)
	}

	// Truncate in place: same inode, smaller size than the saved offset.
	if err := os.Truncate(logPath, 0); err != nil {
		t.Fatal(err)
	}
	appendFile(t, logPath, "short\n")

	lines = nil
	sum, err := New("p", logPath, store).Run(context.Background(), collectLines(&lines))
	if err != nil {
		t.Fatal(err)
	}
	if !sum.Truncated {
		t.Error("truncation not detected")
	}
	if len(lines) != 1 || lines[0] != "short" {
		t.Fatalf("truncated file not read from start: %v", lines)
	}
}

func TestTailerParseErrorsAdvanceOffset(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "app.log")
	store := NewStateStore(filepath.Join(dir, "state"))
	writeFile(t, logPath, "good\nBAD\ngood\n")

	parseErr := errors.New("no match")
	fn := func(line string) (bool, error) {
		if line == "BAD" {
			return false, parseErr
		}
		return true, nil
	}

	sum, err := New("p", logPath, store).Run(context.Background(), fn)
	if err != nil {
		t.Fatal(err)
	}
	if sum.ParseErrors != 1 || sum.EventsEmitted != 2 || sum.LinesSeen != 3 {
		t.Fatalf("summary = %+v", sum)
	}

	// The bad line must not be replayed next run.
	appendFile(t, logPath, "more\n")
	var lines []string
	if _, err := New("p", logPath, store).Run(context.Background(), collectLines(&lines)); err != nil {
		t.Fatal(err)
	}
	if len(lines) != 1 || lines[0] != "more" {
		t.Fatalf("second run = %v, want only the appended line", lines)
	}
}

func TestTailerProcessesPartialFinalLine(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "app.log")
	store := NewStateStore(filepath.Join(dir, "state"))
	writeFile(t, logPath, "complete\npartial without newline")

	var lines []string
	sum, err := New("p", logPath, store).Run(context.Background(), collectLines(&lines))
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 2 || lines[1] != "partial without newline" {
		t.Fatalf("lines = %v", lines)
	}
	info, err := os.Stat(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if sum.FinalOffset != info.Size() {
		t.Errorf("final offset %d != file size %d", sum.FinalOffset, info.Size())
	}
}

func TestTailerMissingFileReturnsError(t *testing.T) {
	dir := t.TempDir()
	store := NewStateStore(filepath.Join(dir, "state"))
	_, err := New("p", filepath.Join(dir, "nope.log"), store).Run(context.Background(), func(string) (bool, error) {
		return false, nil
	})
	if err == nil {
		t.Fatal("expected error for missing log file")
	}
}

func TestStateStoreIsolatesParsersAndPaths(t *testing.T) {
	dir := t.TempDir()
	store := NewStateStore(dir)

	if err := store.Save("alpha", "/var/log/a.log", State{Inode: 1, Offset: 10}); err != nil {
		t.Fatal(err)
	}
	if err := store.Save("beta", "/var/log/a.log", State{Inode: 1, Offset: 20}); err != nil {
		t.Fatal(err)
	}
	if err := store.Save("alpha", "/var/log/b.log", State{Inode: 2, Offset: 30}); err != nil {
		t.Fatal(err)
	}

	if st := store.Load("alpha", "/var/log/a.log"); st == nil || st.Offset != 10 {
		t.Errorf("alpha/a = %+v", st)
	}
	if st := store.Load("beta", "/var/log/a.log"); st == nil || st.Offset != 20 {
		t.Errorf("beta/a = %+v", st)
	}
	if st := store.Load("alpha", "/var/log/b.log"); st == nil || st.Offset != 30 {
		t.Errorf("alpha/b = %+v", st)
	}
}

func TestStateStoreCorruptFileMeansRestart(t *testing.T) {
	dir := t.TempDir()
	store := NewStateStore(dir)
	if err := store.Save("p", "/var/log/x.log", State{Inode: 7, Offset: 99}); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(store.statePath("p", "/var/log/x.log"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if st := store.Load("p", "/var/log/x.log"); st != nil {
		t.Errorf("corrupt state should load as nil, got %+v", st)
	}
}

func TestStateStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewStateStore(dir)
	if err := store.Save("p", "/var/log/x.log", State{Inode: 1, Offset: 5}); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) != ".json" {
			t.Errorf("unexpected leftover file %s", e.Name())
		}
	}
}

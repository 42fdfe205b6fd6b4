// Logtap - Structured Event Logging and Log Tailing Pipeline
// Copyright 2026 Logtap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oasys-platform/logtap

package tailer

import (
	"crypto/md5"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/oasys-platform/logtap/internal/logging"
)

// State is the persisted read position for one (parser, file) pair.
type State struct {
	Inode  uint64 `json:"inode"`
	Offset int64  `json:"offset"`
}

// StateStore persists tailer read positions as one small JSON file per
// (parser, file) pair under a dedicated state directory.
type StateStore struct {
	dir string
	log zerolog.Logger
}

// NewStateStore returns a store rooted at dir. The directory is created on
// first save, not here, so read-only inspection never mutates the tree.
func NewStateStore(dir string) *StateStore {
	return &StateStore{
		dir: dir,
		log: logging.With().Str("component", "tailer_state").Logger(),
	}
}

// Dir returns the state directory.
func (s *StateStore) Dir() string { return s.dir }

// statePath derives the state file name from the parser name and a digest
// of the absolute log file path. The digest keys the pair stably across
// runs; it is a file-naming convention, not a security boundary.
func (s *StateStore) statePath(parser, logPath string) string {
	abs, err := filepath.Abs(logPath)
	if err != nil {
		abs = logPath
	}
	digest := md5.Sum([]byte(abs))
	return filepath.Join(s.dir, fmt.Sprintf("%s_%x.json", parser, digest))
}

// Load returns the saved state for (parser, logPath), or nil when no usable
// state exists. A missing or corrupt state file means "start from the
// beginning"; it is never an error.
func (s *StateStore) Load(parser, logPath string) *State {
	path := s.statePath(parser, logPath)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn().Err(err).Str("state_file", path).Msg("state file unreadable, restarting from offset 0")
		}
		return nil
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		s.log.Warn().Err(err).Str("state_file", path).Msg("state file corrupt, restarting from offset 0")
		return nil
	}
	return &st
}

// Save atomically persists st for (parser, logPath) via a temp file and
// rename, so a crash mid-write leaves either the old state or the new one,
// never a torn file.
func (s *StateStore) Save(parser, logPath string, st State) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create state directory %s: %w", s.dir, err)
	}
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode tailer state: %w", err)
	}
	path := s.statePath(parser, logPath)
	tmp := fmt.Sprintf("%s.tmp_%d", path, os.Getpid())
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace state file %s: %w", path, err)
	}
	return nil
}

// inodeOf returns the inode behind an open file, used to detect rotation.
func inodeOf(info os.FileInfo) (uint64, error) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, fmt.Errorf("no inode available for %s", info.Name())
	}
	return stat.Ino, nil
}

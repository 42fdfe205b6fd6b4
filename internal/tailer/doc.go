// Logtap - Structured Event Logging and Log Tailing Pipeline
// Copyright 2026 Logtap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oasys-platform/logtap

// Package tailer reads log files incrementally across process invocations.
//
// A Tailer remembers, per (parser, file) pair, the inode and byte offset it
// last stopped at. The next run resumes exactly there unless the file was
// rotated (inode changed) or truncated (offset beyond current size), in
// which case it restarts from the beginning of the current file. Offsets
// only ever advance past bytes that have been scanned, so a crash never
// skips unread content; at worst a run re-reads lines it already processed.
//
// Lines that fail to parse still advance the offset - a malformed line is
// counted and reported, never retried forever.
package tailer

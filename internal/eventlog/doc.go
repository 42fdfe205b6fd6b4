// Logtap - Structured Event Logging and Log Tailing Pipeline
// Copyright 2026 Logtap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oasys-platform/logtap

// Package eventlog implements the write path of the pipeline: the Writer
// appends one JSON Lines record per event into LOGS_DIR/YYYY-MM-DD/
// <category>.log, and the FailureSink captures the Writer's own failures
// into failures.log so a logging problem is never silently dropped and
// never surfaces as an error in the calling code.
//
// The Writer's contract is "never fails the caller": disk errors and
// serialization problems are routed to the sink, an unconfigured log root
// turns the Writer into a no-op, and only the sink's own unwritability
// falls back to the process diagnostic channel.
//
// Concurrency: many processes may call the Writer against the same log
// root. Each record is appended with a single write on a file opened in
// append mode, relying on the OS guarantee that such writes do not
// interleave at typical record sizes.
package eventlog

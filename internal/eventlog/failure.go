// Logtap - Structured Event Logging and Log Tailing Pipeline
// Copyright 2026 Logtap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oasys-platform/logtap

package eventlog

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/oasys-platform/logtap/internal/event"
	"github.com/oasys-platform/logtap/internal/logging"
)

// FailureFileName is the undated file at the log root that records events
// the writer could not persist to their category file.
const FailureFileName = "failures.log"

// FailureContext carries the identifying fields of the event that failed,
// so the original can be reconstructed or at least investigated later.
type FailureContext struct {
	Actor       string         `json:"actor,omitempty"`
	RequestPath string         `json:"request_path,omitempty"`
	Severity    event.Severity `json:"severity,omitempty"`
	Source      string         `json:"source,omitempty"`
	Target      string         `json:"target,omitempty"`
}

type failureRecord struct {
	Timestamp    event.Timestamp `json:"timestamp"`
	Severity     event.Severity  `json:"severity"`
	Source       string          `json:"source"`
	Message      string          `json:"message"`
	ErrorType    string          `json:"error_type"`
	ErrorMessage string          `json:"error_message"`
	Original     failureOriginal `json:"original_context"`
}

type failureOriginal struct {
	Category  event.Category `json:"category"`
	EventName string         `json:"event_name"`
	FailureContext
}

// FailureSink is the last-resort destination for events that could not be
// written. It appends to failures.log at the log root; if even that fails,
// the failure is emitted on the process diagnostic log so it is never
// silently dropped.
type FailureSink struct {
	path string
	log  zerolog.Logger
}

// NewFailureSink returns a sink appending to failures.log under root.
func NewFailureSink(root string) *FailureSink {
	return &FailureSink{
		path: filepath.Join(root, FailureFileName),
		log:  logging.With().Str("component", "failure_sink").Logger(),
	}
}

// LogFailure records that an event under category named eventName could not
// be written, along with the cause. It never returns an error.
func (s *FailureSink) LogFailure(category event.Category, eventName string, cause error, ctx FailureContext) {
	rec := failureRecord{
		Timestamp:    event.NewTimestamp(time.Now()),
		Severity:     event.SeverityCritical,
		Source:       "eventlog.failure_sink",
		Message:      fmt.Sprintf("failed to write event %s/%s", category, eventName),
		ErrorType:    fmt.Sprintf("%T", cause),
		ErrorMessage: cause.Error(),
		Original: failureOriginal{
			Category:       category,
			EventName:      eventName,
			FailureContext: ctx,
		},
	}

	if err := s.append(rec); err != nil {
		s.log.Error().Err(cause).
			Str("sink_error", err.Error()).
			Str("category", category.String()).
			Str("event", eventName).
			Msg("failure sink unavailable, event loss recorded on diagnostic log only")
	}
}

func (s *FailureSink) append(rec failureRecord) error {
	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode failure record: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create log root: %w", err)
	}
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()
	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append to %s: %w", s.path, err)
	}
	return nil
}

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

// Entry carries everything a caller supplies about one event. Only Name is
// required; Severity defaults to INFO and Timestamp to the current time.
type Entry struct {
	// Name identifies the event within its category, e.g. "login_failed".
	Name string

	// Severity defaults to SeverityInfo when empty.
	Severity event.Severity

	// Source names the originating component,
	// e.g. "accounts.LoginView" or "parser.ufw.syslog".
	Source string

	// Message is an optional human-readable summary.
	Message string

	// Target optionally identifies the resource acted upon.
	Target string

	// Actor attributes the event to an authenticated principal.
	Actor *event.Actor

	// IPAddress is the client/source IP when already known; a Request
	// context, when present, takes precedence.
	IPAddress string

	// Timestamp is the event time. Zero means now. Backfilled events
	// (parsers re-reading old log content) land in the dated directory of
	// this timestamp, not of the wall clock.
	Timestamp time.Time

	// Request folds request-derived fields (client IP, method, path,
	// user agent, referer) into the record.
	Request *RequestContext

	// Extra is the free-form structured payload. Values that cannot be
	// represented as JSON degrade to their string form. Caller keys win
	// over request-derived keys on collision.
	Extra map[string]any
}

// Writer appends structured events to the dated log tree. The zero-value
// Writer is not usable; construct with NewWriter. Writer is safe for
// concurrent use from multiple goroutines and multiple processes.
type Writer struct {
	root     string
	enabled  bool
	registry *event.Registry
	sink     *FailureSink
	log      zerolog.Logger
}

// NewWriter returns a Writer rooted at root. An empty root means the log
// service is unconfigured: the Writer becomes a no-op and says so once on
// the diagnostic channel instead of failing every call site.
func NewWriter(root string) *Writer {
	log := logging.With().Str("component", "eventlog").Logger()
	w := &Writer{
		root:    root,
		enabled: root != "",
		log:     log,
	}
	if !w.enabled {
		log.Warn().Msg("log root not configured, event writer is a no-op")
		return w
	}
	w.registry = event.NewRegistry(filepath.Join(root, event.RegistryFileName))
	w.sink = NewFailureSink(root)
	return w
}

// Enabled reports whether the writer has a log root to append to.
func (w *Writer) Enabled() bool { return w.enabled }

// Registry exposes the writer's event registry for inspection tooling.
func (w *Writer) Registry() *event.Registry { return w.registry }

// Log appends one event under category. It never returns an error and
// never panics on the failure paths it owns: I/O and serialization
// problems are captured by the failure sink, and the caller continues
// undisturbed.
func (w *Writer) Log(category event.Category, e Entry) {
	if !w.enabled {
		w.log.Debug().Str("event", e.Name).Msg("event writer unconfigured, dropping event")
		return
	}

	// Registry maintenance is descriptive only; a persistence failure is
	// reported but never blocks the event itself.
	if err := w.registry.Register(category, e.Name); err != nil {
		w.log.Error().Err(err).
			Str("category", category.String()).
			Str("event", e.Name).
			Msg("event registry update failed")
	}

	rec := w.buildRecord(category, e)
	if err := w.append(category, rec); err != nil {
		eventWriteFailures.Inc()
		w.sink.LogFailure(category, e.Name, err, FailureContext{
			Actor:       actorString(e.Actor),
			RequestPath: requestPath(e.Request),
			Severity:    rec.Severity,
			Source:      e.Source,
			Target:      e.Target,
		})
		return
	}
	eventsWritten.WithLabelValues(category.String()).Inc()
}

func (w *Writer) buildRecord(category event.Category, e Entry) *event.Record {
	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	severity := e.Severity
	if severity == "" {
		severity = event.SeverityInfo
	}

	extra := e.Request.extraFields()
	for k, v := range e.Extra {
		if extra == nil {
			extra = make(map[string]any, len(e.Extra))
		}
		extra[k] = v
	}

	ip := e.IPAddress
	if clientIP := e.Request.ClientIP(); clientIP != "" {
		ip = clientIP
	}

	return &event.Record{
		Timestamp: event.NewTimestamp(ts),
		EventType: category,
		EventName: e.Name,
		Severity:  severity,
		Source:    e.Source,
		Actor:     e.Actor,
		IPAddress: ip,
		Message:   e.Message,
		Target:    e.Target,
		ExtraData: event.SanitizeExtra(extra),
	}
}

// append serializes rec and appends it to the category's dated file with a
// single write call, so concurrent writers interleave at line granularity.
func (w *Writer) append(category event.Category, rec *event.Record) error {
	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode event record: %w", err)
	}

	dir := filepath.Join(w.root, rec.Date())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create log directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, category.LogFileName())
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append to log file %s: %w", path, err)
	}
	return nil
}

func actorString(a *event.Actor) string {
	if a == nil {
		return ""
	}
	return a.Username
}

func requestPath(rc *RequestContext) string {
	if rc == nil {
		return ""
	}
	return rc.Path
}

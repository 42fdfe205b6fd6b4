// Logtap - Structured Event Logging and Log Tailing Pipeline
// Copyright 2026 Logtap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oasys-platform/logtap

package parser

import (
	"encoding/csv"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/oasys-platform/logtap/internal/event"
)

var (
	// pgStderrRe recognizes the default log_line_prefix
	// "%m [%p] %q%u@%d " followed by the severity and message.
	pgStderrRe = regexp.MustCompile(
		`^(?P<timestamp>\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d{3}\s+\S+)\s+` +
			`\[(?P<pid>\d+)\]\s+(?:(?P<user>\S+?)@(?P<database>\S+)\s+)?` +
			`(?P<severity>[A-Z]+[0-9]?):\s+(?P<message>.*)$`)

	pgDurationRe  = regexp.MustCompile(`duration:\s+(\d+(?:\.\d+)?)\s+ms`)
	pgStatementRe = regexp.MustCompile(`(?is)(?:statement|execute[^:]*):\s+(.*)`)
)

const pgTimeLayout = "2006-01-02 15:04:05.000 MST"

// pgSeverity maps the server's message level to an event severity. FATAL
// and PANIC terminate a backend or the whole server, hence CRITICAL.
func pgSeverity(level string) event.Severity {
	switch {
	case strings.HasPrefix(level, "DEBUG"):
		return event.SeverityDebug
	case level == "LOG", level == "INFO", level == "NOTICE", level == "STATEMENT", level == "DETAIL", level == "HINT":
		return event.SeverityInfo
	case level == "WARNING":
		return event.SeverityWarning
	case level == "ERROR":
		return event.SeverityError
	case level == "FATAL", level == "PANIC":
		return event.SeverityCritical
	default:
		return event.SeverityInfo
	}
}

// PostgresFormat selects the database server's log destination format.
type PostgresFormat string

const (
	PostgresStderr PostgresFormat = "stderr"
	PostgresCSV    PostgresFormat = "csv"
)

// Postgres parses database server logs. Only significant lines become
// events: statements at or above the slow-query threshold, errors, logged
// statements, and any message above INFO. Routine chatter (checkpoints,
// autovacuum at LOG level) parses fine and is dropped.
type Postgres struct {
	format      PostgresFormat
	slowQueryMs float64
}

// NewPostgres returns a database log matcher. slowQueryMs is the duration
// at or above which a statement is classified as a slow query.
func NewPostgres(format PostgresFormat, slowQueryMs float64) (*Postgres, error) {
	switch format {
	case "":
		format = PostgresStderr
	case PostgresStderr, PostgresCSV:
	default:
		return nil, fmt.Errorf("unknown postgres log format %q", format)
	}
	return &Postgres{format: format, slowQueryMs: slowQueryMs}, nil
}

// Name implements Matcher.
func (p *Postgres) Name() string { return "postgres" }

// MatchLine implements Matcher.
func (p *Postgres) MatchLine(line string) (*Match, error) {
	if p.format == PostgresCSV {
		return p.matchCSV(line)
	}
	return p.matchStderr(line)
}

func (p *Postgres) matchStderr(line string) (*Match, error) {
	g := namedGroups(pgStderrRe, line)
	if g == nil {
		return nil, ErrNoMatch
	}
	ts, err := time.Parse(pgTimeLayout, g["timestamp"])
	if err != nil {
		return nil, err
	}
	return p.classify(ts.UTC(), g["severity"], g["message"], g["user"], g["database"], g["pid"])
}

// csvlog column positions per the server's documented fixed layout.
const (
	csvColLogTime  = 0
	csvColUser     = 1
	csvColDatabase = 2
	csvColPID      = 3
	csvColSeverity = 11
	csvColMessage  = 13
	csvMinColumns  = 14
)

// matchCSV handles one csvlog record. Records are read line-at-a-time, so
// a record with a quoted embedded newline (multi-line statements) arrives
// split and its fragments fail to parse; they are counted as parse errors
// and skipped rather than stalling the scan.
func (p *Postgres) matchCSV(line string) (*Match, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = -1
	fields, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoMatch, err)
	}
	if len(fields) < csvMinColumns {
		return nil, ErrNoMatch
	}
	ts, err := time.Parse(pgTimeLayout, fields[csvColLogTime])
	if err != nil {
		return nil, err
	}
	return p.classify(ts.UTC(), fields[csvColSeverity], fields[csvColMessage],
		fields[csvColUser], fields[csvColDatabase], fields[csvColPID])
}

// classify applies the significance filter and builds the event.
func (p *Postgres) classify(ts time.Time, level, message, user, database, pid string) (*Match, error) {
	severity := pgSeverity(level)

	var durationMs float64
	hasDuration := false
	if d := pgDurationRe.FindStringSubmatch(message); d != nil {
		if v, err := strconv.ParseFloat(d[1], 64); err == nil {
			durationMs = v
			hasDuration = true
		}
	}
	var queryText string
	if q := pgStatementRe.FindStringSubmatch(message); q != nil {
		queryText = strings.TrimSpace(q[1])
	}

	extra := map[string]any{"pg_severity": level}
	if user != "" {
		extra["user"] = user
	}
	if database != "" {
		extra["database"] = database
	}
	if n, err := strconv.Atoi(pid); err == nil && n != 0 {
		extra["pid"] = n
	}
	if hasDuration {
		extra["duration_ms"] = durationMs
	}
	if queryText != "" {
		extra["query_text"] = queryText
	}

	m := &Match{
		Timestamp: ts,
		Message:   message,
		Extra:     extra,
	}

	switch {
	case hasDuration && p.slowQueryMs > 0 && durationMs >= p.slowQueryMs:
		m.Category = event.CategoryDatabaseSlowQuery
		m.Name = event.NameDBSlowQuery
		m.Severity = event.SeverityWarning
		if severity.AtLeast(event.SeverityError) {
			m.Severity = severity
		}
	case severity.AtLeast(event.SeverityWarning):
		m.Category = event.CategoryDatabase
		m.Name = event.NameDBError
		m.Severity = severity
	case queryText != "":
		m.Category = event.CategoryDatabase
		m.Name = event.NameDBQuery
		m.Severity = event.SeverityInfo
	default:
		// Parsed, below every significance bar.
		return nil, nil
	}
	return m, nil
}

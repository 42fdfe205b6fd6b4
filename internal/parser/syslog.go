// Logtap - Structured Event Logging and Log Tailing Pipeline
// Copyright 2026 Logtap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oasys-platform/logtap

package parser

import (
	"regexp"
	"strconv"
	"time"

	"github.com/oasys-platform/logtap/internal/event"
)

// nowFunc is swapped in tests that exercise year inference.
var nowFunc = time.Now

// syslogHeaderRe recognizes the classic BSD syslog line header. The day of
// month may be space-padded ("Jan  2").
var syslogHeaderRe = regexp.MustCompile(
	`^(?P<month>\w{3})\s+(?P<day>\d{1,2}) (?P<time>\d{2}:\d{2}:\d{2}) ` +
		`(?P<hostname>\S+) (?P<process>[a-zA-Z0-9/._-]+)(?:\[(?P<pid>\d+)\])?: (?P<message>.*)$`)

// Syslog parses general system log lines and emits one syslog_entry event
// per line.
type Syslog struct{}

// NewSyslog returns a general syslog matcher.
func NewSyslog() *Syslog { return &Syslog{} }

// Name implements Matcher.
func (p *Syslog) Name() string { return "syslog" }

// MatchLine implements Matcher.
func (p *Syslog) MatchLine(line string) (*Match, error) {
	hdr, err := parseSyslogHeader(line)
	if err != nil {
		return nil, err
	}

	extra := map[string]any{
		"hostname": hdr.hostname,
		"process":  hdr.process,
	}
	if hdr.pid != 0 {
		extra["pid"] = hdr.pid
	}

	return &Match{
		Category:  event.CategorySystemSyslog,
		Name:      event.NameSyslogEntry,
		Severity:  event.SeverityInfo,
		Timestamp: hdr.timestamp,
		Message:   hdr.message,
		Extra:     extra,
	}, nil
}

type syslogHeader struct {
	timestamp time.Time
	hostname  string
	process   string
	pid       int
	message   string
}

// parseSyslogHeader splits the shared BSD header off a syslog-family line.
// The auth log matcher reuses it.
func parseSyslogHeader(line string) (*syslogHeader, error) {
	g := namedGroups(syslogHeaderRe, line)
	if g == nil {
		return nil, ErrNoMatch
	}
	ts, err := parseSyslogTimestamp(g["month"], g["day"], g["time"], nowFunc())
	if err != nil {
		return nil, err
	}
	pid := 0
	if g["pid"] != "" {
		pid, _ = strconv.Atoi(g["pid"])
	}
	return &syslogHeader{
		timestamp: ts,
		hostname:  g["hostname"],
		process:   g["process"],
		pid:       pid,
		message:   g["message"],
	}, nil
}

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

// nginxErrorRe recognizes the default error_log format. The trailing
// comma-separated context fields (client, server, request, upstream, host)
// are all optional.
var nginxErrorRe = regexp.MustCompile(
	`^(?P<datetime>\d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2}) \[(?P<level>\w+)\] ` +
		`(?P<pid>\d+)#(?P<tid>\d+): (?:\*(?P<cid>\d+) )?(?P<message>.*?)` +
		`(?:, client: (?P<client>[^,]+))?` +
		`(?:, server: (?P<server>[^,]+))?` +
		`(?:, request: "(?P<request>[^"]*)")?` +
		`(?:, upstream: "(?P<upstream>[^"]*)")?` +
		`(?:, host: "(?P<host>[^"]*)")?$`)

const nginxErrorTimeLayout = "2006/01/02 15:04:05"

// nginxLevelSeverity maps the error_log level token to an event severity.
var nginxLevelSeverity = map[string]event.Severity{
	"debug":  event.SeverityDebug,
	"info":   event.SeverityInfo,
	"notice": event.SeverityInfo,
	"warn":   event.SeverityWarning,
	"error":  event.SeverityError,
	"crit":   event.SeverityCritical,
	"alert":  event.SeverityCritical,
	"emerg":  event.SeverityCritical,
}

// NginxError parses web server error logs and emits one nginx_error event
// per line, carrying the server-assigned level as severity.
type NginxError struct{}

// NewNginxError returns an error log matcher.
func NewNginxError() *NginxError { return &NginxError{} }

// Name implements Matcher.
func (p *NginxError) Name() string { return "nginx_error" }

// MatchLine implements Matcher.
func (p *NginxError) MatchLine(line string) (*Match, error) {
	g := namedGroups(nginxErrorRe, line)
	if g == nil {
		return nil, ErrNoMatch
	}

	// The error_log timestamp is in server local time and has no zone.
	ts, err := time.ParseInLocation(nginxErrorTimeLayout, g["datetime"], time.Local)
	if err != nil {
		return nil, err
	}

	severity, ok := nginxLevelSeverity[g["level"]]
	if !ok {
		severity = event.SeverityError
	}

	extra := map[string]any{"level": g["level"]}
	if pid, err := strconv.Atoi(g["pid"]); err == nil {
		extra["pid"] = pid
	}
	for _, key := range []string{"client", "server", "request", "upstream", "host"} {
		if g[key] != "" {
			extra[key] = g[key]
		}
	}
	if g["cid"] != "" {
		if cid, err := strconv.Atoi(g["cid"]); err == nil {
			extra["connection_id"] = cid
		}
	}

	return &Match{
		Category:  event.CategoryServerError,
		Name:      event.NameNginxError,
		Severity:  severity,
		Timestamp: ts.UTC(),
		Message:   g["message"],
		IPAddress: g["client"],
		Extra:     extra,
	}, nil
}

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

// nginxAccessRe recognizes the "combined" access log format.
var nginxAccessRe = regexp.MustCompile(
	`^(?P<ip>\S+) \S+ \S+ \[(?P<datetime>\d{2}/\w{3}/\d{4}:\d{2}:\d{2}:\d{2}) (?P<tz>[+-]\d{4})\] ` +
		`"(?P<method>\S+) (?P<path>\S+) (?P<protocol>HTTP/\d\.\d)" ` +
		`(?P<status>\d{3}) (?P<bytes>\d+) "(?P<referer>[^"]*)" "(?P<user_agent>[^"]*)"`)

const nginxAccessTimeLayout = "02/Jan/2006:15:04:05 -0700"

// NginxAccess parses web server access logs in the combined format and
// emits one http_request event per line. Response status drives severity:
// 4xx is WARNING, 5xx is ERROR.
type NginxAccess struct{}

// NewNginxAccess returns an access log matcher.
func NewNginxAccess() *NginxAccess { return &NginxAccess{} }

// Name implements Matcher.
func (p *NginxAccess) Name() string { return "nginx_access" }

// MatchLine implements Matcher.
func (p *NginxAccess) MatchLine(line string) (*Match, error) {
	g := namedGroups(nginxAccessRe, line)
	if g == nil {
		return nil, ErrNoMatch
	}

	ts, err := time.Parse(nginxAccessTimeLayout, g["datetime"]+" "+g["tz"])
	if err != nil {
		return nil, err
	}
	status, err := strconv.Atoi(g["status"])
	if err != nil {
		return nil, err
	}
	bytesSent, _ := strconv.Atoi(g["bytes"])

	severity := event.SeverityInfo
	switch {
	case status >= 500:
		severity = event.SeverityError
	case status >= 400:
		severity = event.SeverityWarning
	}

	extra := map[string]any{
		"method":     g["method"],
		"path":       g["path"],
		"protocol":   g["protocol"],
		"status":     status,
		"bytes_sent": bytesSent,
	}
	if g["referer"] != "" && g["referer"] != "-" {
		extra["referer"] = g["referer"]
	}
	if g["user_agent"] != "" && g["user_agent"] != "-" {
		extra["user_agent"] = g["user_agent"]
	}

	return &Match{
		Category:  event.CategoryServerAccess,
		Name:      event.NameHTTPRequest,
		Severity:  severity,
		Timestamp: ts.UTC(),
		Message:   g["method"] + " " + g["path"] + " " + g["status"],
		IPAddress: g["ip"],
		Extra:     extra,
	}, nil
}

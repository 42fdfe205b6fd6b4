// Logtap - Structured Event Logging and Log Tailing Pipeline
// Copyright 2026 Logtap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oasys-platform/logtap

package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/oasys-platform/logtap/internal/event"
)

var (
	authSessionOpenedRe = regexp.MustCompile(
		`session opened for user (?P<user>\S+?)(?:\(uid=\d+\))? by`)
	authSessionClosedRe = regexp.MustCompile(
		`session closed for user (?P<user>\S+)`)
	authAcceptedRe = regexp.MustCompile(
		`Accepted (?:password|publickey|keyboard-interactive/pam) for (?P<user>\S+) from (?P<ip>\S+) port (?P<port>\d+)`)
	authFailedRe = regexp.MustCompile(
		`Failed (?:password|publickey|keyboard-interactive/pam) for (?:invalid user )?(?P<user>\S+) from (?P<ip>\S+) port (?P<port>\d+)`)
	authInvalidUserRe = regexp.MustCompile(
		`Invalid user (?P<user>\S+) from (?P<ip>\S+)`)
	authPamFailureRe = regexp.MustCompile(
		`authentication failure;.*?rhost=(?P<rhost>\S*)(?:\s+user=(?P<user>\S+))?`)
	authSudoCommandRe = regexp.MustCompile(
		`^\s*(?P<invoker>\S+) : TTY=(?P<tty>\S+) ; PWD=(?P<pwd>[^;]+) ; USER=(?P<target_user>\S+) ; COMMAND=(?P<command>.*)$`)
)

// AuthLog parses OS authentication logs (/var/log/auth.log). Lines in the
// file that carry no authentication signal (cron session chatter aside,
// e.g. systemd noise) parse fine but produce no event.
type AuthLog struct{}

// NewAuthLog returns an auth log matcher.
func NewAuthLog() *AuthLog { return &AuthLog{} }

// Name implements Matcher.
func (p *AuthLog) Name() string { return "authlog" }

// MatchLine implements Matcher.
func (p *AuthLog) MatchLine(line string) (*Match, error) {
	hdr, err := parseSyslogHeader(line)
	if err != nil {
		return nil, err
	}

	base := map[string]any{
		"hostname": hdr.hostname,
		"process":  hdr.process,
	}
	if hdr.pid != 0 {
		base["pid"] = hdr.pid
	}

	m := &Match{
		Category:  event.CategorySystemAuth,
		Timestamp: hdr.timestamp,
		Message:   hdr.message,
		Extra:     base,
	}
	msg := hdr.message

	// sudo logs its command line under the sudo process name; the message
	// body starts directly with the invoking user.
	if hdr.process == "sudo" {
		if g := namedGroups(authSudoCommandRe, msg); g != nil {
			m.Name = event.NameSudoCommand
			m.Severity = event.SeverityInfo
			base["invoking_user"] = g["invoker"]
			base["tty"] = g["tty"]
			base["pwd"] = strings.TrimSpace(g["pwd"])
			base["target_user"] = g["target_user"]
			base["command"] = g["command"]
			return m, nil
		}
	}

	switch {
	case strings.Contains(msg, "session opened"):
		g := namedGroups(authSessionOpenedRe, msg)
		if g == nil {
			return nil, nil
		}
		m.Name = event.NameAuthSessionOpen
		m.Severity = event.SeverityInfo
		base["user"] = g["user"]

	case strings.Contains(msg, "session closed"):
		g := namedGroups(authSessionClosedRe, msg)
		if g == nil {
			return nil, nil
		}
		m.Name = event.NameAuthSessionClose
		m.Severity = event.SeverityInfo
		base["user"] = g["user"]

	case strings.HasPrefix(msg, "Accepted "):
		g := namedGroups(authAcceptedRe, msg)
		if g == nil {
			return nil, nil
		}
		m.Name = event.NameAuthSuccess
		m.Severity = event.SeverityInfo
		m.IPAddress = g["ip"]
		base["user"] = g["user"]
		if port, err := strconv.Atoi(g["port"]); err == nil {
			base["port"] = port
		}

	case strings.HasPrefix(msg, "Failed "):
		g := namedGroups(authFailedRe, msg)
		if g == nil {
			return nil, nil
		}
		m.Name = event.NameAuthFailure
		m.Severity = event.SeverityWarning
		m.IPAddress = g["ip"]
		base["user"] = g["user"]
		base["invalid_user"] = strings.Contains(msg, "invalid user")
		if port, err := strconv.Atoi(g["port"]); err == nil {
			base["port"] = port
		}

	case strings.HasPrefix(msg, "Invalid user "):
		g := namedGroups(authInvalidUserRe, msg)
		if g == nil {
			return nil, nil
		}
		m.Name = event.NameAuthFailure
		m.Severity = event.SeverityWarning
		m.IPAddress = g["ip"]
		base["user"] = g["user"]
		base["invalid_user"] = true

	case strings.Contains(msg, "authentication failure"):
		g := namedGroups(authPamFailureRe, msg)
		if g == nil {
			return nil, nil
		}
		m.Name = event.NameAuthFailure
		m.Severity = event.SeverityWarning
		m.IPAddress = g["rhost"]
		if g["user"] != "" {
			base["user"] = g["user"]
		}

	default:
		// Parsed, nothing auth-relevant.
		return nil, nil
	}

	return m, nil
}

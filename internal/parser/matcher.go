// Logtap - Structured Event Logging and Log Tailing Pipeline
// Copyright 2026 Logtap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oasys-platform/logtap

package parser

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"time"

	"github.com/oasys-platform/logtap/internal/event"
	"github.com/oasys-platform/logtap/internal/eventlog"
	"github.com/oasys-platform/logtap/internal/tailer"
)

// ErrNoMatch reports that a line did not fit the matcher's format at all.
// The tailer counts it as a parse error and continues.
var ErrNoMatch = errors.New("line does not match format")

// Match is one event extracted from one log line.
type Match struct {
	Category  event.Category
	Name      string
	Severity  event.Severity
	Timestamp time.Time
	Message   string
	IPAddress string
	Extra     map[string]any
}

// Matcher turns raw log lines into events.
//
// MatchLine returns (nil, nil) for a line that parsed fine but carries
// nothing worth recording; such lines are skipped silently. A non-nil error
// marks the line unparseable.
type Matcher interface {
	Name() string
	MatchLine(line string) (*Match, error)
}

// EmitFunc adapts a matcher and an event writer into the tailer's per-line
// callback. Source is derived from the matcher and the tailed file so every
// emitted event names its provenance.
func EmitFunc(m Matcher, w *eventlog.Writer, logPath string) tailer.LineFunc {
	source := fmt.Sprintf("parser.%s.%s", m.Name(), filepath.Base(logPath))
	return func(line string) (bool, error) {
		match, err := m.MatchLine(line)
		if err != nil {
			return false, err
		}
		if match == nil {
			return false, nil
		}
		w.Log(match.Category, eventlog.Entry{
			Name:      match.Name,
			Severity:  match.Severity,
			Source:    source,
			Message:   match.Message,
			IPAddress: match.IPAddress,
			Timestamp: match.Timestamp,
			Extra:     match.Extra,
		})
		return true, nil
	}
}

// namedGroups returns the named submatches of re against line, or nil when
// the line does not match. Absent optional groups map to the empty string.
func namedGroups(re *regexp.Regexp, line string) map[string]string {
	sub := re.FindStringSubmatch(line)
	if sub == nil {
		return nil
	}
	groups := make(map[string]string)
	for i, name := range re.SubexpNames() {
		if name != "" && i < len(sub) {
			groups[name] = sub[i]
		}
	}
	return groups
}

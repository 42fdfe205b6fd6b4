// Logtap - Structured Event Logging and Log Tailing Pipeline
// Copyright 2026 Logtap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oasys-platform/logtap

package event

import "fmt"

// Severity is the ordered severity scale shared by all event sources.
// External log vocabularies (nginx levels, PostgreSQL severities, firewall
// actions) are mapped onto this scale by the parsers.
type Severity string

const (
	SeverityDebug    Severity = "DEBUG"
	SeverityInfo     Severity = "INFO"
	SeverityWarning  Severity = "WARNING"
	SeverityError    Severity = "ERROR"
	SeverityCritical Severity = "CRITICAL"
)

var severityRanks = map[Severity]int{
	SeverityDebug:    0,
	SeverityInfo:     1,
	SeverityWarning:  2,
	SeverityError:    3,
	SeverityCritical: 4,
}

// ParseSeverity converts a string to a Severity, rejecting unknown values.
func ParseSeverity(s string) (Severity, error) {
	sev := Severity(s)
	if _, ok := severityRanks[sev]; !ok {
		return "", fmt.Errorf("unknown severity %q", s)
	}
	return sev, nil
}

// Valid reports whether s is a member of the severity scale.
func (s Severity) Valid() bool {
	_, ok := severityRanks[s]
	return ok
}

// String returns the wire value of the severity.
func (s Severity) String() string { return string(s) }

// Rank returns the position of s on the ordered scale
// (DEBUG < INFO < WARNING < ERROR < CRITICAL). Unknown severities rank
// below DEBUG.
func (s Severity) Rank() int {
	if r, ok := severityRanks[s]; ok {
		return r
	}
	return -1
}

// AtLeast reports whether s is at least as severe as min.
func (s Severity) AtLeast(min Severity) bool {
	return s.Rank() >= min.Rank()
}

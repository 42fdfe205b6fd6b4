// Logtap - Structured Event Logging and Log Tailing Pipeline
// Copyright 2026 Logtap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oasys-platform/logtap

package parser

import (
	"fmt"
	"time"
)

// parseSyslogTimestamp interprets the classic BSD syslog header timestamp
// ("Jan  2 15:04:05"), which carries no year. The current year is assumed;
// when that would place the event more than a day in the future (a December
// log read in January), the previous year is used instead. The header is in
// local time; the result is UTC.
func parseSyslogTimestamp(month, day, clock string, now time.Time) (time.Time, error) {
	ts, err := time.ParseInLocation("Jan _2 15:04:05 2006",
		fmt.Sprintf("%s %s %s %d", month, day, clock, now.Year()), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid syslog timestamp %q: %w", month+" "+day+" "+clock, err)
	}
	if ts.After(now.Add(24 * time.Hour)) {
		ts = ts.AddDate(-1, 0, 0)
	}
	return ts.UTC(), nil
}

// Logtap - Structured Event Logging and Log Tailing Pipeline
// Copyright 2026 Logtap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oasys-platform/logtap

package parser

import (
	"fmt"
	"sort"
)

// Options carries the per-source tuning a matcher may need. Fields not
// relevant to a matcher kind are ignored.
type Options struct {
	// Format selects a sub-format where the matcher supports several
	// (postgres: "stderr" or "csv").
	Format string

	// SlowQueryMs is the slow-query threshold for the postgres matcher.
	SlowQueryMs float64
}

// Kinds returns the known matcher kinds in stable order.
func Kinds() []string {
	kinds := []string{"nginx_access", "nginx_error", "authlog", "syslog", "ufw", "postgres"}
	sort.Strings(kinds)
	return kinds
}

// New constructs a matcher by kind.
func New(kind string, opts Options) (Matcher, error) {
	switch kind {
	case "nginx_access":
		return NewNginxAccess(), nil
	case "nginx_error":
		return NewNginxError(), nil
	case "authlog":
		return NewAuthLog(), nil
	case "syslog":
		return NewSyslog(), nil
	case "ufw":
		return NewUFW(), nil
	case "postgres":
		return NewPostgres(PostgresFormat(opts.Format), opts.SlowQueryMs)
	default:
		return nil, fmt.Errorf("unknown parser kind %q (known: %v)", kind, Kinds())
	}
}

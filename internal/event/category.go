// Logtap - Structured Event Logging and Log Tailing Pipeline
// Copyright 2026 Logtap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oasys-platform/logtap

package event

import "fmt"

// Category identifies the topic of an event and determines which log file
// the event is appended to. The set is closed: every emitted event belongs
// to exactly one category, and the category never influences the event
// content, only its destination.
type Category string

const (
	// CategoryUserActivity covers first-party user actions (login, logout,
	// profile changes, dashboard visits).
	CategoryUserActivity Category = "user_activity"

	// CategoryAdmin covers actions performed through the admin interface.
	CategoryAdmin Category = "admin"

	// CategoryApplication covers application lifecycle, errors, and
	// business-logic events.
	CategoryApplication Category = "application"

	// CategoryServerAccess covers web server access log entries.
	CategoryServerAccess Category = "server_access"

	// CategoryServerError covers web server error log entries.
	CategoryServerError Category = "server_error"

	// CategorySystemAuth covers OS-level authentication events
	// (e.g. /var/log/auth.log).
	CategorySystemAuth Category = "system_auth"

	// CategorySystemSyslog covers general OS syslog messages.
	CategorySystemSyslog Category = "system_syslog"

	// CategoryDatabase covers database errors, statements, and general
	// operational events.
	CategoryDatabase Category = "database"

	// CategoryDatabaseSlowQuery covers statements whose duration met or
	// exceeded the slow-query threshold.
	CategoryDatabaseSlowQuery Category = "database_slow_query"

	// CategoryFirewall covers firewall activity (e.g. UFW, iptables).
	CategoryFirewall Category = "firewall"
)

// categories is the closed, ordered set of valid categories.
var categories = []Category{
	CategoryUserActivity,
	CategoryAdmin,
	CategoryApplication,
	CategoryServerAccess,
	CategoryServerError,
	CategorySystemAuth,
	CategorySystemSyslog,
	CategoryDatabase,
	CategoryDatabaseSlowQuery,
	CategoryFirewall,
}

var categoryDescriptions = map[Category]string{
	CategoryUserActivity:      "User actions (login, logout, profile, etc.)",
	CategoryAdmin:             "Admin interface activity",
	CategoryApplication:       "Application lifecycle, errors, business logic events",
	CategoryServerAccess:      "Web server access log entries (e.g., Nginx)",
	CategoryServerError:       "Web server error log entries (e.g., Nginx)",
	CategorySystemAuth:        "OS-level authentication events (/var/log/auth.log)",
	CategorySystemSyslog:      "OS-level system messages (/var/log/syslog)",
	CategoryDatabase:          "Database general operations, errors, statements",
	CategoryDatabaseSlowQuery: "Database slow query logs",
	CategoryFirewall:          "Firewall activity logs (e.g., UFW)",
}

// Categories returns the closed set of valid categories in stable order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// ParseCategory converts a string to a Category, rejecting unknown values.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if _, ok := categoryDescriptions[c]; !ok {
		return "", fmt.Errorf("unknown event category %q", s)
	}
	return c, nil
}

// Valid reports whether c is a member of the closed category set.
func (c Category) Valid() bool {
	_, ok := categoryDescriptions[c]
	return ok
}

// String returns the wire value of the category.
func (c Category) String() string { return string(c) }

// Description returns a human-readable description of the category.
func (c Category) Description() string {
	if d, ok := categoryDescriptions[c]; ok {
		return d
	}
	return "Unknown event category"
}

// LogFileName returns the name of the per-date log file for this category.
func (c Category) LogFileName() string { return string(c) + ".log" }

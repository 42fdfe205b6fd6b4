// Logtap - Structured Event Logging and Log Tailing Pipeline
// Copyright 2026 Logtap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oasys-platform/logtap

// Package event defines the event taxonomy shared by the writer, the line
// parsers, and the registry: the closed set of categories (each mapping 1:1
// to a log file), the ordered severity scale, the JSON Lines record format,
// and the persisted registry of event names observed per category.
//
// Categories are closed by design: new ones are added by extending the enum,
// never by passing ad hoc strings. The registry is purely descriptive - it
// records which event names have ever been emitted per category as a
// discovery aid, and is never consulted to validate or gate writes.
package event

// Logtap - Structured Event Logging and Log Tailing Pipeline
// Copyright 2026 Logtap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oasys-platform/logtap

package event

import (
	"fmt"
	"math"
	"time"

	"github.com/goccy/go-json"
)

// timestampLayout is ISO-8601 with microsecond precision; the Z07:00 element
// renders as a literal "Z" because every timestamp is converted to UTC first.
const timestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// Timestamp marshals as UTC ISO-8601 with microsecond precision and a Z
// suffix, the wire format of every timestamp in the event stream.
type Timestamp time.Time

// NewTimestamp converts t to the event stream's UTC timestamp type.
func NewTimestamp(t time.Time) Timestamp { return Timestamp(t.UTC()) }

// Time returns the underlying time.
func (t Timestamp) Time() time.Time { return time.Time(t) }

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).UTC().Format(timestampLayout))
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("invalid event timestamp %q: %w", s, err)
	}
	*t = Timestamp(parsed.UTC())
	return nil
}

// Actor identifies the authenticated principal an event is attributed to.
type Actor struct {
	Username    string `json:"username"`
	UserID      int64  `json:"user_id,omitempty"`
	IsStaff     bool   `json:"is_staff,omitempty"`
	IsSuperuser bool   `json:"is_superuser,omitempty"`
}

// Record is the unit persisted to a log file: one JSON object per line.
// Encoding is sparse - empty optional fields are omitted; timestamp,
// event_type, event_name, and severity are always present.
type Record struct {
	Timestamp Timestamp      `json:"timestamp"`
	EventType Category       `json:"event_type"`
	EventName string         `json:"event_name"`
	Severity  Severity       `json:"severity"`
	Source    string         `json:"source,omitempty"`
	Actor     *Actor         `json:"actor,omitempty"`
	IPAddress string         `json:"ip_address,omitempty"`
	Message   string         `json:"message,omitempty"`
	Target    string         `json:"target,omitempty"`
	ExtraData map[string]any `json:"extra_data,omitempty"`
}

// Date returns the record's own date (UTC) in YYYY-MM-DD form. The
// destination directory is derived from this, not from wall clock at write
// time, so backfilled events land in the right day.
func (r *Record) Date() string {
	return r.Timestamp.Time().UTC().Format("2006-01-02")
}

// SanitizeExtra returns a copy of extra that is guaranteed to encode as
// JSON. Keys with nil values are dropped, nested maps and slices are
// sanitized recursively, and any leaf that cannot be represented as JSON
// (channels, functions, NaN floats, ...) degrades to its string form rather
// than failing the whole record.
func SanitizeExtra(extra map[string]any) map[string]any {
	if len(extra) == 0 {
		return nil
	}
	out := make(map[string]any, len(extra))
	for k, v := range extra {
		if v == nil {
			continue
		}
		out[k] = sanitizeValue(v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func sanitizeValue(v any) any {
	switch val := v.(type) {
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return val
	case float32:
		return sanitizeFloat(float64(val))
	case float64:
		return sanitizeFloat(val)
	case map[string]any:
		nested := make(map[string]any, len(val))
		for k, nv := range val {
			if nv == nil {
				continue
			}
			nested[k] = sanitizeValue(nv)
		}
		return nested
	case []any:
		items := make([]any, 0, len(val))
		for _, item := range val {
			if item == nil {
				continue
			}
			items = append(items, sanitizeValue(item))
		}
		return items
	case []string:
		return val
	case time.Time:
		return val.UTC().Format(timestampLayout)
	case error:
		return val.Error()
	case fmt.Stringer:
		return val.String()
	default:
		if _, err := json.Marshal(v); err != nil {
			return fmt.Sprint(v)
		}
		return v
	}
}

func sanitizeFloat(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Sprint(f)
	}
	return f
}

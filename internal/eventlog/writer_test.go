// Logtap - Structured Event Logging and Log Tailing Pipeline
// Copyright 2026 Logtap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oasys-platform/logtap

package eventlog

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/oasys-platform/logtap/internal/event"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s): %v", path, err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func decodeLine(t *testing.T, line string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("line is not valid JSON: %v\n%s", err, line)
	}
	return m
}

func TestWriterAppendsToDatedCategoryFile(t *testing.T) {
	root := t.TempDir()
	w := NewWriter(root)

	ts := time.Date(2025, 3, 14, 9, 26, 53, 589793000, time.UTC)
	w.Log(event.CategoryUserActivity, Entry{
		Name:      event.NameLogin,
		Source:    "accounts.LoginView",
		Actor:     &event.Actor{Username: "mallory", UserID: 42},
		IPAddress: "203.0.113.7",
		Timestamp: ts,
	})

	path := filepath.Join(root, "2025-03-14", "user_activity.log")
	lines := readLines(t, path)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	rec := decodeLine(t, lines[0])
	if rec["timestamp"] != "2025-03-14T09:26:53.589793Z" {
		t.Errorf("timestamp = %v", rec["timestamp"])
	}
	if rec["event_type"] != "user_activity" || rec["event_name"] != "login" {
		t.Errorf("event identity = %v/%v", rec["event_type"], rec["event_name"])
	}
	if rec["severity"] != "INFO" {
		t.Errorf("default severity = %v, want INFO", rec["severity"])
	}
	actor, ok := rec["actor"].(map[string]any)
	if !ok || actor["username"] != "mallory" {
		t.Errorf("actor = %v", rec["actor"])
	}
	if _, present := rec["message"]; present {
		t.Error("empty message should be omitted from encoding")
	}
}

func TestWriterBackfilledTimestampSelectsDirectory(t *testing.T) {
	root := t.TempDir()
	w := NewWriter(root)

	// An event carrying a historical timestamp must land in that day's
	// directory, not today's.
	w.Log(event.CategoryServerAccess, Entry{
		Name:      event.NameNginxAccess,
		Timestamp: time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC),
	})

	path := filepath.Join(root, "2024-12-31", "server_access.log")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected backfilled file at %s: %v", path, err)
	}
}

func TestWriterAppendIsCumulative(t *testing.T) {
	root := t.TempDir()
	w := NewWriter(root)
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		w.Log(event.CategoryApplication, Entry{
			Name:      event.NameAppTaskCompleted,
			Timestamp: ts,
			Extra:     map[string]any{"iteration": i},
		})
	}

	lines := readLines(t, filepath.Join(root, "2025-06-01", "application.log"))
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines after 5 writes, got %d", len(lines))
	}
	for i, line := range lines {
		rec := decodeLine(t, line)
		extra := rec["extra_data"].(map[string]any)
		if int(extra["iteration"].(float64)) != i {
			t.Errorf("line %d: iteration = %v", i, extra["iteration"])
		}
	}
}

func TestWriterRequestContextMerge(t *testing.T) {
	root := t.TempDir()
	w := NewWriter(root)

	req := httptest.NewRequest("POST", "/api/reports", nil)
	req.RemoteAddr = "198.51.100.4:39218"
	req.Header.Set("User-Agent", "reportcli/2.1")
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 198.51.100.4")

	w.Log(event.CategoryApplication, Entry{
		Name:      event.NameAppDataExport,
		Timestamp: time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC),
		Request:   RequestContextFromHTTP(req),
		Extra:     map[string]any{"http_method": "OVERRIDE", "rows": 1200},
	})

	lines := readLines(t, filepath.Join(root, "2025-06-02", "application.log"))
	rec := decodeLine(t, lines[0])

	if rec["ip_address"] != "203.0.113.9" {
		t.Errorf("ip_address = %v, want first forwarded-for entry", rec["ip_address"])
	}
	extra := rec["extra_data"].(map[string]any)
	if extra["http_method"] != "OVERRIDE" {
		t.Errorf("caller extra should win over request-derived field, got %v", extra["http_method"])
	}
	if extra["http_path"] != "/api/reports" {
		t.Errorf("http_path = %v", extra["http_path"])
	}
	if extra["http_user_agent"] != "reportcli/2.1" {
		t.Errorf("http_user_agent = %v", extra["http_user_agent"])
	}
}

func TestWriterUnconfiguredIsNoOp(t *testing.T) {
	w := NewWriter("")
	if w.Enabled() {
		t.Fatal("writer with empty root should be disabled")
	}
	// Must not panic or create any file.
	w.Log(event.CategoryUserActivity, Entry{Name: event.NameLogin})
}

func TestWriterFailureRoutesToSink(t *testing.T) {
	root := t.TempDir()
	w := NewWriter(root)

	// Make the dated directory un-creatable by occupying its path with a
	// regular file. MkdirAll then fails and the event must divert to
	// failures.log without an error surfacing to the caller.
	ts := time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC)
	if err := os.WriteFile(filepath.Join(root, "2025-07-04"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	w.Log(event.CategoryUserActivity, Entry{
		Name:      event.NameLoginFailed,
		Severity:  event.SeverityWarning,
		Source:    "accounts.LoginView",
		Timestamp: ts,
		Actor:     &event.Actor{Username: "trent"},
	})

	lines := readLines(t, filepath.Join(root, FailureFileName))
	if len(lines) != 1 {
		t.Fatalf("expected 1 failure record, got %d", len(lines))
	}
	rec := decodeLine(t, lines[0])
	if rec["severity"] != "CRITICAL" {
		t.Errorf("failure severity = %v, want CRITICAL", rec["severity"])
	}
	orig := rec["original_context"].(map[string]any)
	if orig["category"] != "user_activity" || orig["event_name"] != "login_failed" {
		t.Errorf("original_context = %v", orig)
	}
	if orig["actor"] != "trent" {
		t.Errorf("original actor = %v", orig["actor"])
	}
}

func TestWriterRegistersEventNames(t *testing.T) {
	root := t.TempDir()
	w := NewWriter(root)

	w.Log(event.CategoryFirewall, Entry{Name: "ufw_block"})
	w.Log(event.CategoryFirewall, Entry{Name: "ufw_allow"})
	w.Log(event.CategoryFirewall, Entry{Name: "ufw_block"})

	names := w.Registry().Names(event.CategoryFirewall)
	if len(names) != 2 {
		t.Fatalf("expected 2 registered names, got %v", names)
	}
}

func TestHelpersAssignCategoriesAndSeverities(t *testing.T) {
	root := t.TempDir()
	w := NewWriter(root)

	w.LogLoginFailed("accounts.LoginView", "admin'--", nil)
	w.LogPermissionDenied("reports.Export", &event.Actor{Username: "eve"}, "report:17", nil)

	today := time.Now().UTC().Format("2006-01-02")

	userLines := readLines(t, filepath.Join(root, today, "user_activity.log"))
	rec := decodeLine(t, userLines[0])
	if rec["event_name"] != "login_failed" || rec["severity"] != "WARNING" {
		t.Errorf("login_failed record = %v", rec)
	}
	extra := rec["extra_data"].(map[string]any)
	if extra["attempted_username"] != "admin'--" {
		t.Errorf("attempted_username = %v", extra["attempted_username"])
	}

	appLines := readLines(t, filepath.Join(root, today, "application.log"))
	rec = decodeLine(t, appLines[0])
	if rec["event_name"] != "permission_denied" || rec["severity"] != "WARNING" {
		t.Errorf("permission_denied record = %v", rec)
	}
	if rec["target"] != "report:17" {
		t.Errorf("target = %v", rec["target"])
	}
}

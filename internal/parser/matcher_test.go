// Logtap - Structured Event Logging and Log Tailing Pipeline
// Copyright 2026 Logtap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oasys-platform/logtap

package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/oasys-platform/logtap/internal/eventlog"
)

func TestNewKnownKinds(t *testing.T) {
	for _, kind := range Kinds() {
		m, err := New(kind, Options{SlowQueryMs: 500})
		if err != nil {
			t.Errorf("New(%q): %v", kind, err)
			continue
		}
		if m.Name() != kind {
			t.Errorf("New(%q).Name() = %q", kind, m.Name())
		}
	}
}

func TestNewUnknownKind(t *testing.T) {
	if _, err := New("apache", Options{}); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestEmitFuncWritesEventWithProvenance(t *testing.T) {
	root := t.TempDir()
	w := eventlog.NewWriter(root)
	fn := EmitFunc(NewUFW(), w, "/var/log/ufw.log")

	emitted, err := fn("[UFW BLOCK] IN=eth0 SRC=10.0.0.5 DST=10.0.0.1 PROTO=TCP SPT=443 DPT=51820")
	if err != nil {
		t.Fatal(err)
	}
	if !emitted {
		t.Fatal("expected event emission")
	}

	matches, err := filepath.Glob(filepath.Join(root, "*", "firewall.log"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("firewall.log not found: %v %v", matches, err)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatal(err)
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(data))), &rec); err != nil {
		t.Fatal(err)
	}
	if rec["source"] != "parser.ufw.ufw.log" {
		t.Errorf("source = %v", rec["source"])
	}
	if rec["event_name"] != "ufw_block" {
		t.Errorf("event_name = %v", rec["event_name"])
	}
	if rec["ip_address"] != "10.0.0.5" {
		t.Errorf("ip_address = %v", rec["ip_address"])
	}
}

func TestEmitFuncSilentSkipAndParseError(t *testing.T) {
	root := t.TempDir()
	w := eventlog.NewWriter(root)
	p, err := NewPostgres(PostgresStderr, 1000)
	if err != nil {
		t.Fatal(err)
	}
	fn := EmitFunc(p, w, "/var/log/postgresql/postgresql.log")

	// Routine line: parsed, dropped, no error.
	emitted, err := fn(`2025-01-15 10:00:00.123 UTC [90] LOG:  checkpoint starting: time`)
	if err != nil || emitted {
		t.Fatalf("routine line: emitted=%v err=%v", emitted, err)
	}

	// Garbage: parse error surfaces for the tailer to count.
	if _, err := fn("garbage"); err == nil {
		t.Fatal("expected parse error")
	}

	if matches, _ := filepath.Glob(filepath.Join(root, "*", "*.log")); len(matches) != 0 {
		t.Errorf("no events should have been written, found %v", matches)
	}
}

// Logtap - Structured Event Logging and Log Tailing Pipeline
// Copyright 2026 Logtap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oasys-platform/logtap

package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/oasys-platform/logtap/internal/event"
)

var (
	// ufwPrefixRe strips the kernel log prefix in front of the UFW block:
	// an ISO timestamp, a hostname, "kernel:", and the kernel uptime stamp.
	ufwPrefixRe = regexp.MustCompile(
		`^(?P<timestamp>\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(?:\.\d+)?(?:[+-]\d{2}:\d{2}|Z)) ` +
			`(?P<hostname>\S+) kernel: (?:\[\s*\d+\.\d+\]\s*)?(?P<rest>\[UFW .*)$`)

	// ufwDetailRe extracts the action and the packet fields.
	ufwDetailRe = regexp.MustCompile(
		`\[UFW\s+(?P<action>\w+)\]` +
			`(?:\s+IN=(?P<in>\S*))?(?:\s+OUT=(?P<out>\S*))?` +
			`.*?\s+SRC=(?P<src>\S+)\s+DST=(?P<dst>\S+)` +
			`.*?\s+PROTO=(?P<proto>\S+)` +
			`(?:\s+SPT=(?P<spt>\d+))?(?:\s+DPT=(?P<dpt>\d+))?`)
)

// UFW parses firewall log lines emitted by UFW through the kernel log.
// Events are named after the action ("ufw_block", "ufw_allow", ...); BLOCK
// and DENY are WARNING, everything else INFO.
type UFW struct{}

// NewUFW returns a firewall log matcher.
func NewUFW() *UFW { return &UFW{} }

// Name implements Matcher.
func (p *UFW) Name() string { return "ufw" }

// MatchLine implements Matcher.
func (p *UFW) MatchLine(line string) (*Match, error) {
	var ts time.Time
	rest := line

	if g := namedGroups(ufwPrefixRe, line); g != nil {
		parsed, err := time.Parse(time.RFC3339Nano, g["timestamp"])
		if err != nil {
			return nil, err
		}
		ts = parsed.UTC()
		rest = g["rest"]
	} else if !strings.Contains(line, "[UFW ") {
		return nil, ErrNoMatch
	}

	g := namedGroups(ufwDetailRe, rest)
	if g == nil {
		return nil, ErrNoMatch
	}

	action := strings.ToUpper(g["action"])
	severity := event.SeverityInfo
	if action == "BLOCK" || action == "DENY" {
		severity = event.SeverityWarning
	}

	extra := map[string]any{
		"action":   action,
		"src_ip":   g["src"],
		"dst_ip":   g["dst"],
		"protocol": g["proto"],
	}
	if g["in"] != "" {
		extra["interface_in"] = g["in"]
	}
	if g["out"] != "" {
		extra["interface_out"] = g["out"]
	}
	if g["spt"] != "" {
		if p, err := strconv.Atoi(g["spt"]); err == nil {
			extra["src_port"] = p
		}
	}
	if g["dpt"] != "" {
		if p, err := strconv.Atoi(g["dpt"]); err == nil {
			extra["dst_port"] = p
		}
	}

	return &Match{
		Category:  event.CategoryFirewall,
		Name:      "ufw_" + strings.ToLower(action),
		Severity:  severity,
		Timestamp: ts,
		Message:   "UFW " + action + " " + g["src"] + " -> " + g["dst"],
		IPAddress: g["src"],
		Extra:     extra,
	}, nil
}

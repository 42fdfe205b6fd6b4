// Logtap - Structured Event Logging and Log Tailing Pipeline
// Copyright 2026 Logtap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oasys-platform/logtap

package eventlog

import (
	"net"
	"net/http"
	"strings"
)

// RequestContext carries the request-derived fields folded into an event
// when a first-party caller emits from inside a request handler. It is a
// plain value type so callers outside an HTTP stack (schedulers, queue
// consumers) can populate it directly.
type RequestContext struct {
	Method       string
	Path         string
	UserAgent    string
	Referer      string
	RemoteAddr   string
	ForwardedFor string
}

// RequestContextFromHTTP extracts the relevant fields from an HTTP request.
func RequestContextFromHTTP(r *http.Request) *RequestContext {
	if r == nil {
		return nil
	}
	return &RequestContext{
		Method:       r.Method,
		Path:         r.URL.Path,
		UserAgent:    r.UserAgent(),
		Referer:      r.Referer(),
		RemoteAddr:   r.RemoteAddr,
		ForwardedFor: r.Header.Get("X-Forwarded-For"),
	}
}

// ClientIP resolves the client address: the first entry of the
// forwarded-for header when present, else the direct peer address.
func (rc *RequestContext) ClientIP() string {
	if rc == nil {
		return ""
	}
	if rc.ForwardedFor != "" {
		first, _, _ := strings.Cut(rc.ForwardedFor, ",")
		return strings.TrimSpace(first)
	}
	if host, _, err := net.SplitHostPort(rc.RemoteAddr); err == nil {
		return host
	}
	return rc.RemoteAddr
}

// extraFields returns the request-derived extra_data fields, empty values
// dropped. Caller-supplied keys take precedence when merged.
func (rc *RequestContext) extraFields() map[string]any {
	if rc == nil {
		return nil
	}
	fields := make(map[string]any, 4)
	if rc.Method != "" {
		fields["http_method"] = rc.Method
	}
	if rc.Path != "" {
		fields["http_path"] = rc.Path
	}
	if rc.UserAgent != "" {
		fields["http_user_agent"] = rc.UserAgent
	}
	if rc.Referer != "" {
		fields["http_referer"] = rc.Referer
	}
	return fields
}

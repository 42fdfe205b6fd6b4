// Logtap - Structured Event Logging and Log Tailing Pipeline
// Copyright 2026 Logtap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oasys-platform/logtap

package eventlog

import (
	"fmt"

	"github.com/oasys-platform/logtap/internal/event"
)

// Convenience wrappers for the event shapes applications emit most often.
// Each is a thin front over Writer.Log with the category, name, and
// severity pinned.

// LogError records an application exception under the errors category.
func (w *Writer) LogError(source string, err error, req *RequestContext, extra map[string]any) {
	if extra == nil {
		extra = make(map[string]any, 2)
	}
	extra["error_type"] = typeName(err)
	extra["error_message"] = errMessage(err)
	w.Log(event.CategoryApplication, Entry{
		Name:     event.NameAppException,
		Severity: event.SeverityError,
		Source:   source,
		Message:  errMessage(err),
		Request:  req,
		Extra:    extra,
	})
}

// LogPermissionDenied records a rejected authorization check.
func (w *Writer) LogPermissionDenied(source string, actor *event.Actor, target string, req *RequestContext) {
	w.Log(event.CategoryApplication, Entry{
		Name:     event.NameAppPermissionDenied,
		Severity: event.SeverityWarning,
		Source:   source,
		Actor:    actor,
		Target:   target,
		Request:  req,
	})
}

// LogSensitiveAction records a privileged operation for audit purposes.
func (w *Writer) LogSensitiveAction(source, action string, actor *event.Actor, target string, req *RequestContext, extra map[string]any) {
	if extra == nil {
		extra = make(map[string]any, 1)
	}
	extra["action"] = action
	w.Log(event.CategoryApplication, Entry{
		Name:    event.NameAppSensitiveAction,
		Source:  source,
		Actor:   actor,
		Target:  target,
		Request: req,
		Extra:   extra,
	})
}

// LogLogin records a successful authentication.
func (w *Writer) LogLogin(source string, actor *event.Actor, req *RequestContext) {
	w.Log(event.CategoryUserActivity, Entry{
		Name:    event.NameLogin,
		Source:  source,
		Actor:   actor,
		Request: req,
	})
}

// LogLogout records a session termination.
func (w *Writer) LogLogout(source string, actor *event.Actor, req *RequestContext) {
	w.Log(event.CategoryUserActivity, Entry{
		Name:    event.NameLogout,
		Source:  source,
		Actor:   actor,
		Request: req,
	})
}

// LogLoginFailed records a failed authentication attempt. username is the
// attempted identity, which may not correspond to any real account.
func (w *Writer) LogLoginFailed(source, username string, req *RequestContext) {
	w.Log(event.CategoryUserActivity, Entry{
		Name:     event.NameLoginFailed,
		Severity: event.SeverityWarning,
		Source:   source,
		Request:  req,
		Extra:    map[string]any{"attempted_username": username},
	})
}

func typeName(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%T", err)
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

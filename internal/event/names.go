// Logtap - Structured Event Logging and Log Tailing Pipeline
// Copyright 2026 Logtap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oasys-platform/logtap

package event

// Well-known event names. Event names are free-form strings scoped to their
// category; these constants cover the events emitted by this repository and
// by the first-party callers of the writer. Parsers may derive additional
// names dynamically (e.g. firewall events are named after the action,
// "ufw_block", "ufw_allow").

// Application events (CategoryApplication).
const (
	NameAppStart            = "app_start"
	NameAppStop             = "app_stop"
	NameAppException        = "app_exception"
	NameAppPermissionDenied = "permission_denied"
	NameAppTaskStarted      = "task_started"
	NameAppTaskCompleted    = "task_completed"
	NameAppTaskFailed       = "task_failed"
	NameAppConfigReload     = "config_reload"
	NameAppSensitiveAction  = "sensitive_action"
	NameAppDataExport       = "data_export"
	NameAppDataImport       = "data_import"
)

// User activity events (CategoryUserActivity).
const (
	NameLogin                 = "login"
	NameLogout                = "logout"
	NameLoginFailed           = "login_failed"
	NameUserCreated           = "user_created"
	NameProfileUpdate         = "profile_update"
	NameAccountDeleted        = "account_deleted"
	NameDashboardVisit        = "dashboard_visit"
	NamePasswordResetRequest  = "password_reset_request"
	NamePasswordResetComplete = "password_reset_complete"
	NamePasswordChange        = "password_change"
)

// Admin events (CategoryAdmin).
const (
	NameAdminLogin       = "admin_login"
	NameAdminLogout      = "admin_logout"
	NameAdminLoginFailed = "admin_login_failed"
	NameObjectCreated    = "object_created"
	NameObjectUpdated    = "object_updated"
	NameObjectDeleted    = "object_deleted"
)

// Events produced by the line parsers.
const (
	// NameHTTPRequest is emitted per web server access log entry
	// (CategoryServerAccess).
	NameHTTPRequest = "http_request"

	// NameNginxAccess / NameNginxError identify the nginx parser families.
	NameNginxAccess = "nginx_access"
	NameNginxError  = "nginx_error"

	// OS authentication events (CategorySystemAuth).
	NameAuthSuccess      = "auth_success"
	NameAuthFailure      = "auth_failure"
	NameAuthSessionOpen  = "auth_session_open"
	NameAuthSessionClose = "auth_session_close"
	NameSudoCommand      = "sudo_command"

	// NameSyslogEntry is emitted per general syslog line
	// (CategorySystemSyslog).
	NameSyslogEntry = "syslog_entry"

	// Database events (CategoryDatabase, CategoryDatabaseSlowQuery).
	NameDBError     = "db_error"
	NameDBQuery     = "db_query"
	NameDBSlowQuery = "db_slow_query"
)

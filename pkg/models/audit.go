package models

import "time"

// AuditEntry records one privileged action. Entries are append-only.
type AuditEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Username  string    `json:"username"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	SourceIP  string    `json:"ip"`
}

// BackupSnapshot is the artifact written by a backup invocation: all users,
// all documents and the most recent audit entries, tagged with the export
// time.
type BackupSnapshot struct {
	Timestamp time.Time     `json:"timestamp"`
	Users     []*User       `json:"users"`
	Documents []*Document   `json:"documents"`
	AuditLogs []*AuditEntry `json:"audit_logs"`
}

// PermissionCounts tallies entities per permission level.
type PermissionCounts map[Permission]int

// Stats is the system statistics report.
type Stats struct {
	UserStats     EntityStats      `json:"user_stats"`
	DocumentStats EntityStats      `json:"document_stats"`
	AuditLogs     int              `json:"audit_logs"`
	DataSizes     map[string]int64 `json:"data_files"`
}

// EntityStats is a total plus a per-permission breakdown.
type EntityStats struct {
	Total        int              `json:"total"`
	ByPermission PermissionCounts `json:"by_permission"`
}

// Package audit maintains the append-only trail of privileged actions.
package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/org/docvault/internal/storage"
	"github.com/org/docvault/pkg/models"
	"github.com/rs/zerolog/log"
)

// maxEntries caps the in-memory log; the oldest entries are evicted first.
const maxEntries = 1000

// Log is a bounded append-only audit log with write-through persistence.
// The full sequence is persisted after every append, not batched.
type Log struct {
	mu      sync.Mutex
	entries []*models.AuditEntry
	store   storage.Backend
}

// NewLog creates a Log seeded with previously persisted entries.
func NewLog(store storage.Backend, existing []*models.AuditEntry) *Log {
	return &Log{store: store, entries: existing}
}

// Record appends one entry and persists the sequence. Persistence failures
// are logged and swallowed: the in-memory append has already happened and
// remains authoritative, so callers are never informed.
func (l *Log) Record(ctx context.Context, username, action, details, sourceIP string) {
	entry := &models.AuditEntry{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Username:  username,
		Action:    action,
		Details:   details,
		SourceIP:  sourceIP,
	}

	// Append and persist under one lock: releasing it between the two would
	// let a concurrent append persist an older sequence last.
	l.mu.Lock()
	l.entries = append(l.entries, entry)
	if n := len(l.entries) - maxEntries; n > 0 {
		l.entries = l.entries[n:]
	}
	snapshot := make([]*models.AuditEntry, len(l.entries))
	copy(snapshot, l.entries)
	if err := l.store.SaveAuditLog(ctx, snapshot); err != nil {
		log.Error().Err(err).Msg("persisting audit log failed")
	}
	l.mu.Unlock()

	log.Info().Str("user", username).Str("action", action).Msg("audit")
}

// Tail returns the last n entries in insertion order, or fewer if the log is
// shorter. It never errors.
func (l *Log) Tail(n int) []*models.AuditEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n > len(l.entries) {
		n = len(l.entries)
	}
	out := make([]*models.AuditEntry, n)
	copy(out, l.entries[len(l.entries)-n:])
	return out
}

// Len returns the number of retained entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

package audit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/org/docvault/internal/storage"
	"github.com/org/docvault/pkg/models"
)

// auditStore records SaveAuditLog calls and can be made to fail.
type auditStore struct {
	saved   [][]*models.AuditEntry
	failing bool
}

func (s *auditStore) SaveAuditLog(ctx context.Context, entries []*models.AuditEntry) error {
	if s.failing {
		return errors.New("disk full")
	}
	s.saved = append(s.saved, entries)
	return nil
}

func (s *auditStore) LoadAuditLog(ctx context.Context) ([]*models.AuditEntry, error) {
	return nil, storage.ErrNotFound
}
func (s *auditStore) LoadUsers(ctx context.Context) ([]*models.User, error) {
	return nil, storage.ErrNotFound
}
func (s *auditStore) SaveUsers(ctx context.Context, users []*models.User) error { return nil }
func (s *auditStore) LoadDocuments(ctx context.Context) ([]*models.Document, error) {
	return nil, storage.ErrNotFound
}
func (s *auditStore) SaveDocuments(ctx context.Context, docs []*models.Document) error { return nil }
func (s *auditStore) WriteBackup(ctx context.Context, snap *models.BackupSnapshot) (string, error) {
	return "", nil
}
func (s *auditStore) CollectionSizes(ctx context.Context) (map[string]int64, error) {
	return nil, nil
}
func (s *auditStore) Close() {}

func TestRecordPersistsAfterEveryAppend(t *testing.T) {
	store := &auditStore{}
	l := NewLog(store, nil)
	ctx := context.Background()

	l.Record(ctx, "alice", "login", "logged in", "10.0.0.1")
	l.Record(ctx, "alice", "view_document", "viewed notice.txt", "10.0.0.1")

	if len(store.saved) != 2 {
		t.Fatalf("expected 2 persistence calls, got %d", len(store.saved))
	}
	if len(store.saved[1]) != 2 {
		t.Errorf("second save should carry the full sequence, got %d entries", len(store.saved[1]))
	}
	e := store.saved[1][1]
	if e.ID == "" || e.Timestamp.IsZero() {
		t.Error("entries must carry a generated id and timestamp")
	}
	if e.Username != "alice" || e.Action != "view_document" || e.SourceIP != "10.0.0.1" {
		t.Errorf("entry fields mismatch: %+v", e)
	}
}

// Append-and-persist is one critical section: with concurrent appends the
// last save must carry the complete sequence, never an older one.
func TestConcurrentRecordsPersistFullSequence(t *testing.T) {
	store := &auditStore{}
	l := NewLog(store, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			l.Record(ctx, "alice", "login", fmt.Sprintf("attempt %d", n), "10.0.0.1")
		}(i)
	}
	wg.Wait()

	if len(store.saved) != 50 {
		t.Fatalf("expected 50 persistence calls, got %d", len(store.saved))
	}
	last := store.saved[len(store.saved)-1]
	if len(last) != 50 {
		t.Fatalf("last save should carry all 50 entries, got %d", len(last))
	}
	tail := l.Tail(50)
	for i := range tail {
		if tail[i].ID != last[i].ID {
			t.Fatalf("durable sequence diverges from memory at entry %d", i)
		}
	}
}

func TestEvictionAtCap(t *testing.T) {
	l := NewLog(&auditStore{}, nil)
	ctx := context.Background()

	for i := 0; i < maxEntries+1; i++ {
		l.Record(ctx, "u", "action", fmt.Sprintf("entry-%d", i), "ip")
	}

	if l.Len() != maxEntries {
		t.Fatalf("Len() = %d, want %d", l.Len(), maxEntries)
	}
	all := l.Tail(maxEntries)
	// After the 1001st append the earliest entry is gone and the
	// second-earliest is at index 0.
	if all[0].Details != "entry-1" {
		t.Errorf("head = %q, want entry-1", all[0].Details)
	}
	if all[len(all)-1].Details != fmt.Sprintf("entry-%d", maxEntries) {
		t.Errorf("tail = %q", all[len(all)-1].Details)
	}
}

func TestTail(t *testing.T) {
	l := NewLog(&auditStore{}, nil)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		l.Record(ctx, "u", "a", fmt.Sprintf("e%d", i), "ip")
	}

	last3 := l.Tail(3)
	if len(last3) != 3 || last3[0].Details != "e2" || last3[2].Details != "e4" {
		t.Errorf("Tail(3) = %v", last3)
	}
	// Requesting more than exists returns what there is.
	if got := l.Tail(100); len(got) != 5 {
		t.Errorf("Tail(100) returned %d entries", len(got))
	}
	if got := l.Tail(0); len(got) != 0 {
		t.Errorf("Tail(0) returned %d entries", len(got))
	}
}

func TestPersistenceFailureIsSwallowed(t *testing.T) {
	store := &auditStore{failing: true}
	l := NewLog(store, nil)

	l.Record(context.Background(), "u", "a", "d", "ip")

	// The in-memory append stands even though the write-through failed.
	if l.Len() != 1 {
		t.Errorf("Len() = %d, want 1", l.Len())
	}
}

func TestSeededEntriesCountTowardCap(t *testing.T) {
	seed := make([]*models.AuditEntry, maxEntries)
	for i := range seed {
		seed[i] = &models.AuditEntry{ID: fmt.Sprintf("%d", i), Details: fmt.Sprintf("seed-%d", i)}
	}
	l := NewLog(&auditStore{}, seed)

	l.Record(context.Background(), "u", "a", "new", "ip")

	if l.Len() != maxEntries {
		t.Fatalf("Len() = %d, want %d", l.Len(), maxEntries)
	}
	all := l.Tail(maxEntries)
	if all[0].Details != "seed-1" {
		t.Errorf("head = %q, want seed-1", all[0].Details)
	}
	if all[len(all)-1].Details != "new" {
		t.Errorf("tail = %q, want new", all[len(all)-1].Details)
	}
}

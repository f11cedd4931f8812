package storage

import (
	"context"
	"errors"

	"github.com/org/docvault/pkg/models"
)

// ErrNotFound is returned when a requested collection or resource is absent.
var ErrNotFound = errors.New("not found")

// Backend defines the persistence interface for the document repository.
// Collections are loaded once at startup and written back whole after every
// mutation; writes are best-effort and callers log failures rather than
// surfacing them.
type Backend interface {
	LoadUsers(ctx context.Context) ([]*models.User, error)
	SaveUsers(ctx context.Context, users []*models.User) error

	LoadDocuments(ctx context.Context) ([]*models.Document, error)
	SaveDocuments(ctx context.Context, docs []*models.Document) error

	LoadAuditLog(ctx context.Context) ([]*models.AuditEntry, error)
	SaveAuditLog(ctx context.Context, entries []*models.AuditEntry) error

	// WriteBackup persists a snapshot and returns its location (a file path
	// or a row reference, backend dependent).
	WriteBackup(ctx context.Context, snap *models.BackupSnapshot) (string, error)

	// CollectionSizes reports the stored size in bytes of each collection,
	// keyed by collection name.
	CollectionSizes(ctx context.Context) (map[string]int64, error)

	Close()
}

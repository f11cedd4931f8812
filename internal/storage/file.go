package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/org/docvault/pkg/models"
)

const (
	usersFile     = "users.json"
	documentsFile = "documents.json"
	auditFile     = "audit_logs.json"
)

// FileBackend persists collections as indented JSON files under a data
// directory. This is the default backend and matches the original system's
// on-disk layout (users.json, documents.json, audit_logs.json, backup_*.json).
type FileBackend struct {
	dir string
}

// NewFileBackend creates the data directory if needed and returns a backend
// rooted there.
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

func (f *FileBackend) Close() {}

// Dir returns the data directory.
func (f *FileBackend) Dir() string { return f.dir }

func loadJSON[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return out, nil
}

func saveJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (f *FileBackend) LoadUsers(ctx context.Context) ([]*models.User, error) {
	return loadJSON[*models.User](filepath.Join(f.dir, usersFile))
}

func (f *FileBackend) SaveUsers(ctx context.Context, users []*models.User) error {
	return saveJSON(filepath.Join(f.dir, usersFile), users)
}

func (f *FileBackend) LoadDocuments(ctx context.Context) ([]*models.Document, error) {
	return loadJSON[*models.Document](filepath.Join(f.dir, documentsFile))
}

func (f *FileBackend) SaveDocuments(ctx context.Context, docs []*models.Document) error {
	return saveJSON(filepath.Join(f.dir, documentsFile), docs)
}

func (f *FileBackend) LoadAuditLog(ctx context.Context) ([]*models.AuditEntry, error) {
	return loadJSON[*models.AuditEntry](filepath.Join(f.dir, auditFile))
}

func (f *FileBackend) SaveAuditLog(ctx context.Context, entries []*models.AuditEntry) error {
	return saveJSON(filepath.Join(f.dir, auditFile), entries)
}

// WriteBackup writes the snapshot to backup_YYYYMMDD_HHMMSS.json. The
// timestamp in the name sorts lexicographically by time.
func (f *FileBackend) WriteBackup(ctx context.Context, snap *models.BackupSnapshot) (string, error) {
	name := fmt.Sprintf("backup_%s.json", snap.Timestamp.Format("20060102_150405"))
	path := filepath.Join(f.dir, name)
	if err := saveJSON(path, snap); err != nil {
		return "", err
	}
	return path, nil
}

func (f *FileBackend) CollectionSizes(ctx context.Context) (map[string]int64, error) {
	sizes := make(map[string]int64, 3)
	for name, file := range map[string]string{
		"users":      usersFile,
		"documents":  documentsFile,
		"audit_logs": auditFile,
	} {
		info, err := os.Stat(filepath.Join(f.dir, file))
		if err != nil {
			sizes[name] = 0
			continue
		}
		sizes[name] = info.Size()
	}
	return sizes, nil
}

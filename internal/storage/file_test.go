package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/org/docvault/pkg/models"
)

func TestFileBackendMissingCollections(t *testing.T) {
	fb, err := NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if _, err := fb.LoadUsers(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadUsers on empty dir: %v, want ErrNotFound", err)
	}
	if _, err := fb.LoadDocuments(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadDocuments on empty dir: %v, want ErrNotFound", err)
	}
	if _, err := fb.LoadAuditLog(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadAuditLog on empty dir: %v, want ErrNotFound", err)
	}
}

func TestFileBackendRoundTrip(t *testing.T) {
	fb, err := NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	users := []*models.User{
		{ID: "1", Username: "special_user1", Password: "special_password1", Permission: models.PermSpecial, CanUpgrade: true},
		{ID: "18", Username: "normal_user1", Password: "normal_password1", Permission: models.PermNormal},
	}
	if err := fb.SaveUsers(ctx, users); err != nil {
		t.Fatal(err)
	}
	got, err := fb.LoadUsers(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Username != "special_user1" || got[1].Permission != models.PermNormal {
		t.Errorf("users round trip mismatch: %+v", got)
	}

	docs := []*models.Document{
		{ID: "1", Filename: "notice.txt", Permission: models.PermNormal, Content: "hello", CreatedAt: "2024-01-01", CreatedBy: "system"},
	}
	if err := fb.SaveDocuments(ctx, docs); err != nil {
		t.Fatal(err)
	}
	gotDocs, err := fb.LoadDocuments(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(gotDocs) != 1 || gotDocs[0].Content != "hello" {
		t.Errorf("documents round trip mismatch: %+v", gotDocs)
	}
}

func TestFileBackendBackupNaming(t *testing.T) {
	dir := t.TempDir()
	fb, err := NewFileBackend(dir)
	if err != nil {
		t.Fatal(err)
	}

	ts := time.Date(2026, 8, 28, 14, 30, 5, 0, time.UTC)
	path, err := fb.WriteBackup(context.Background(), &models.BackupSnapshot{Timestamp: ts})
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "backup_20260828_143005.json" {
		t.Errorf("backup name = %s", filepath.Base(path))
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("backup file not written: %v", err)
	}
}

func TestFileBackendCollectionSizes(t *testing.T) {
	fb, err := NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	sizes, err := fb.CollectionSizes(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for name, size := range sizes {
		if size != 0 {
			t.Errorf("%s: size=%d before any save", name, size)
		}
	}

	if err := fb.SaveUsers(ctx, []*models.User{{ID: "1", Username: "u"}}); err != nil {
		t.Fatal(err)
	}
	sizes, err = fb.CollectionSizes(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if sizes["users"] == 0 {
		t.Error("users size should be non-zero after save")
	}
}

func TestFileBackendUnreadableCollection(t *testing.T) {
	dir := t.TempDir()
	fb, err := NewFileBackend(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "users.json"), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err = fb.LoadUsers(context.Background())
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("corrupt file should yield a parse error, got %v", err)
	}
	if !strings.Contains(err.Error(), "users.json") {
		t.Errorf("error should name the file: %v", err)
	}
}

package policy

import (
	"testing"

	"github.com/org/docvault/internal/apperr"
	"github.com/org/docvault/pkg/models"
)

func session(perm models.Permission, username string, canUpgrade bool) *models.Session {
	return &models.Session{
		Token:      "tok",
		UserID:     "u1",
		Username:   username,
		Permission: perm,
		CanUpgrade: canUpgrade,
	}
}

func doc(perm models.Permission, createdBy string) *models.Document {
	return &models.Document{
		ID:         "d1",
		Filename:   "file.txt",
		Permission: perm,
		CreatedBy:  createdBy,
	}
}

func TestFilterDocuments(t *testing.T) {
	docs := []*models.Document{
		doc(models.PermNormal, "system"),
		doc(models.PermConfidential, "system"),
		doc(models.PermTopSecret, "system"),
		doc(models.PermSpecial, "system"),
	}
	eng := NewEngine()

	cases := []struct {
		perm models.Permission
		want int
	}{
		{models.PermNormal, 1},
		{models.PermConfidential, 2},
		{models.PermTopSecret, 3},
		{models.PermSpecial, 4},
	}
	for _, tc := range cases {
		got := eng.FilterDocuments(session(tc.perm, "alice", false), docs)
		if len(got) != tc.want {
			t.Errorf("%s: visible=%d, want %d", tc.perm, len(got), tc.want)
		}
		// Order must follow the underlying collection.
		for i := 1; i < len(got); i++ {
			if got[i-1].Permission.Level() > got[i].Permission.Level() {
				t.Errorf("%s: ordering not preserved", tc.perm)
			}
		}
	}
}

func TestCanViewDocument(t *testing.T) {
	eng := NewEngine()
	if err := eng.CanViewDocument(session(models.PermConfidential, "a", false), doc(models.PermTopSecret, "system")); err == nil {
		t.Error("confidential user should not view top_secret document")
	} else if apperr.KindOf(err) != apperr.KindForbidden {
		t.Errorf("expected forbidden, got %v", err)
	}
	if err := eng.CanViewDocument(session(models.PermTopSecret, "a", false), doc(models.PermTopSecret, "system")); err != nil {
		t.Errorf("equal level should be allowed: %v", err)
	}
}

func TestCanCreateDocument(t *testing.T) {
	eng := NewEngine()
	cases := []struct {
		caller  models.Permission
		docPerm models.Permission
		allowed bool
	}{
		{models.PermSpecial, models.PermSpecial, true},
		{models.PermSpecial, models.PermNormal, true},
		{models.PermTopSecret, models.PermNormal, true},
		{models.PermTopSecret, models.PermConfidential, true},
		{models.PermTopSecret, models.PermTopSecret, false},
		{models.PermTopSecret, models.PermSpecial, false},
		{models.PermConfidential, models.PermNormal, false},
		{models.PermNormal, models.PermNormal, false},
	}
	for _, tc := range cases {
		sess := session(tc.caller, "a", false)
		err := eng.CanCreateDocument(sess)
		if err == nil {
			err = eng.CanCreateAtLevel(sess, tc.docPerm)
		}
		if (err == nil) != tc.allowed {
			t.Errorf("caller=%s docPerm=%s: allowed=%v, want %v", tc.caller, tc.docPerm, err == nil, tc.allowed)
		}
	}

	// The caller gate refuses ineligible callers before any level is
	// considered; the level check never refuses special.
	if err := eng.CanCreateDocument(session(models.PermConfidential, "a", false)); apperr.KindOf(err) != apperr.KindForbidden {
		t.Errorf("confidential caller gate: %v", err)
	}
	if err := eng.CanCreateAtLevel(session(models.PermSpecial, "a", false), models.PermSpecial); err != nil {
		t.Errorf("special at special level: %v", err)
	}
}

// Each clause of the delete disjunction is tested independently true while
// the others are held false.
func TestCanDeleteDocumentDisjunction(t *testing.T) {
	eng := NewEngine()
	cases := []struct {
		name    string
		sess    *models.Session
		doc     *models.Document
		allowed bool
	}{
		{"creator only", session(models.PermNormal, "alice", false), doc(models.PermSpecial, "alice"), true},
		{"special only", session(models.PermSpecial, "bob", false), doc(models.PermSpecial, "alice"), true},
		{"top_secret on non-special", session(models.PermTopSecret, "bob", false), doc(models.PermNormal, "alice"), true},
		{"top_secret on special", session(models.PermTopSecret, "bob", false), doc(models.PermSpecial, "alice"), false},
		{"no clause holds", session(models.PermConfidential, "bob", false), doc(models.PermNormal, "alice"), false},
	}
	for _, tc := range cases {
		err := eng.CanDeleteDocument(tc.sess, tc.doc)
		if (err == nil) != tc.allowed {
			t.Errorf("%s: allowed=%v, want %v (err=%v)", tc.name, err == nil, tc.allowed, err)
		}
	}
}

func TestUserAdminGates(t *testing.T) {
	eng := NewEngine()
	upgrader := session(models.PermConfidential, "a", true)
	plain := session(models.PermSpecial, "a", false)

	if err := eng.CanListUsers(upgrader); err != nil {
		t.Errorf("can_upgrade session should list users: %v", err)
	}
	// The gate is the flag, not the level.
	if err := eng.CanListUsers(plain); err == nil {
		t.Error("session without can_upgrade should not list users")
	}
	if err := eng.CanUpdatePermission(plain); err == nil {
		t.Error("session without can_upgrade should not update permissions")
	}
}

func TestAuditAndBackupGates(t *testing.T) {
	eng := NewEngine()
	for _, tc := range []struct {
		perm    models.Permission
		audit   bool
		backup  bool
	}{
		{models.PermNormal, false, false},
		{models.PermConfidential, false, false},
		{models.PermTopSecret, true, false},
		{models.PermSpecial, true, true},
	} {
		s := session(tc.perm, "a", false)
		if got := eng.CanViewAuditLog(s) == nil; got != tc.audit {
			t.Errorf("%s: audit allowed=%v, want %v", tc.perm, got, tc.audit)
		}
		if got := eng.CanExportBackup(s) == nil; got != tc.backup {
			t.Errorf("%s: backup allowed=%v, want %v", tc.perm, got, tc.backup)
		}
	}
}

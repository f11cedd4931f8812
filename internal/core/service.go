// Package core owns the repository's mutable state: the user and document
// collections, the session registry and the audit log. Every operation routes
// through the access policy and records privileged actions before returning.
package core

import (
	"context"
	"crypto/subtle"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/org/docvault/internal/apperr"
	"github.com/org/docvault/internal/audit"
	"github.com/org/docvault/internal/auth"
	"github.com/org/docvault/internal/policy"
	"github.com/org/docvault/internal/storage"
	"github.com/org/docvault/pkg/models"
	"github.com/rs/zerolog/log"
)

// Version is the reported service version.
const Version = "3.1"

// Config holds service-level settings.
type Config struct {
	// EmergencyPassword is the break-glass shared secret. Defaults to the
	// original system's value.
	EmergencyPassword string
	// PasswordScheme selects the PasswordVerifier ("plain" or "bcrypt").
	PasswordScheme string
}

// Service is the single owner of all collections. One mutex guards each
// collection; every read-modify-write runs under its guard, and each mutation
// is followed by a best-effort write-through to the backend.
type Service struct {
	store    storage.Backend
	sessions *auth.Registry
	verifier auth.PasswordVerifier
	policy   *policy.Engine
	audit    *audit.Log

	emergencyPassword string

	usersMu sync.Mutex
	users   []*models.User

	docsMu    sync.Mutex
	documents []*models.Document
}

// NewService loads (or seeds) the collections and wires the subsystems.
func NewService(ctx context.Context, store storage.Backend, cfg Config) (*Service, error) {
	if cfg.EmergencyPassword == "" {
		cfg.EmergencyPassword = "hello"
	}

	users, err := store.LoadUsers(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		users = defaultUsers()
		if err := store.SaveUsers(ctx, users); err != nil {
			log.Error().Err(err).Msg("persisting seeded users failed")
		}
	} else if err != nil {
		return nil, err
	}

	docs, err := store.LoadDocuments(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		docs = defaultDocuments()
		if err := store.SaveDocuments(ctx, docs); err != nil {
			log.Error().Err(err).Msg("persisting seeded documents failed")
		}
	} else if err != nil {
		return nil, err
	}

	entries, err := store.LoadAuditLog(ctx)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	return &Service{
		store:             store,
		sessions:          auth.NewRegistry(),
		verifier:          auth.VerifierForScheme(cfg.PasswordScheme),
		policy:            policy.NewEngine(),
		audit:             audit.NewLog(store, entries),
		emergencyPassword: cfg.EmergencyPassword,
		users:             users,
		documents:         docs,
	}, nil
}

// ResolveSession maps a bearer token to its live session.
func (s *Service) ResolveSession(token string) (*models.Session, error) {
	if token == "" {
		return nil, apperr.Unauthenticated("missing session token")
	}
	sess := s.sessions.Resolve(token)
	if sess == nil {
		return nil, apperr.Unauthenticated("invalid session")
	}
	return sess, nil
}

// Login authenticates a user and issues a session token.
func (s *Service) Login(ctx context.Context, username, password, ip string) (string, *models.UserInfo, error) {
	if username == "" || password == "" {
		return "", nil, apperr.Validationf("username and password are required")
	}

	s.usersMu.Lock()
	user := s.findUserByName(username)
	if user == nil || !s.verifier.Verify(user.Password, password) {
		s.usersMu.Unlock()
		return "", nil, apperr.Unauthenticated("invalid username or password")
	}
	token := s.sessions.Create(user)
	info := user.Public()
	s.usersMu.Unlock()

	s.audit.Record(ctx, username, "login", "logged in", ip)
	return token, info, nil
}

// EmergencyUpgrade is the break-glass path: gated solely by the shared
// secret, never by the caller's current level. On success the session-bound
// user becomes special with can_upgrade set, and the caller's live session is
// patched to match.
func (s *Service) EmergencyUpgrade(ctx context.Context, token, secret, ip string) (*models.UserInfo, error) {
	if subtle.ConstantTimeCompare([]byte(secret), []byte(s.emergencyPassword)) != 1 {
		return nil, apperr.Unauthenticated("invalid emergency password")
	}
	sess, err := s.ResolveSession(token)
	if err != nil {
		return nil, err
	}

	s.usersMu.Lock()
	user := s.findUserByID(sess.UserID)
	if user == nil {
		s.usersMu.Unlock()
		return nil, apperr.NotFoundf("user not found")
	}
	oldPerm := user.Permission
	user.Permission = models.PermSpecial
	user.CanUpgrade = true
	s.sessions.PatchPermission(token, models.PermSpecial, true)
	info := user.Public()
	s.saveUsersLocked(ctx)
	s.usersMu.Unlock()

	s.audit.Record(ctx, sess.Username, "emergency_upgrade",
		"upgraded from "+string(oldPerm)+" to special", ip)
	return info, nil
}

// ListDocuments returns the summaries of every document at or below the
// caller's level, in collection order.
func (s *Service) ListDocuments(sess *models.Session) []*models.DocumentSummary {
	s.docsMu.Lock()
	visible := s.policy.FilterDocuments(sess, s.documents)
	s.docsMu.Unlock()

	out := make([]*models.DocumentSummary, len(visible))
	for i, d := range visible {
		out[i] = d.Summary()
	}
	return out
}

// GetDocument returns a single document's full content, subject to the view
// rule. Document absence is reported distinctly from a permission denial.
func (s *Service) GetDocument(ctx context.Context, sess *models.Session, id, ip string) (*models.Document, error) {
	s.docsMu.Lock()
	doc := s.findDocumentLocked(id)
	s.docsMu.Unlock()
	if doc == nil {
		return nil, apperr.NotFoundf("document not found")
	}
	if err := s.policy.CanViewDocument(sess, doc); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, sess.Username, "view_document", "viewed document: "+doc.Filename, ip)
	return doc, nil
}

// CreateDocument adds a new document on behalf of the caller.
func (s *Service) CreateDocument(ctx context.Context, sess *models.Session, filename, content string, perm models.Permission, ip string) (*models.Document, error) {
	if perm == "" {
		perm = models.PermNormal
	}
	// Caller class, then input validation, then level restriction: an
	// eligible caller with empty fields gets a validation error even when
	// the requested level would also have been refused.
	if err := s.policy.CanCreateDocument(sess); err != nil {
		return nil, err
	}
	if filename == "" || content == "" {
		return nil, apperr.Validationf("filename and content are required")
	}
	if err := s.policy.CanCreateAtLevel(sess, perm); err != nil {
		return nil, err
	}
	if !perm.Valid() {
		return nil, apperr.Validationf("invalid permission level")
	}

	doc := &models.Document{
		ID:         uuid.NewString(),
		Filename:   filename,
		Permission: perm,
		Content:    content,
		CreatedAt:  time.Now().UTC().Format("2006-01-02"),
		CreatedBy:  sess.Username,
	}

	s.docsMu.Lock()
	s.documents = append(s.documents, doc)
	s.saveDocumentsLocked(ctx)
	s.docsMu.Unlock()

	s.audit.Record(ctx, sess.Username, "create_document",
		"created document: "+filename+", permission: "+string(perm), ip)
	return doc, nil
}

// DeleteDocument removes a document, subject to the three-clause delete rule.
// It returns the deleted document for the response.
func (s *Service) DeleteDocument(ctx context.Context, sess *models.Session, id, ip string) (*models.Document, error) {
	s.docsMu.Lock()
	doc := s.findDocumentLocked(id)
	if doc == nil {
		s.docsMu.Unlock()
		return nil, apperr.NotFoundf("document not found")
	}
	if err := s.policy.CanDeleteDocument(sess, doc); err != nil {
		s.docsMu.Unlock()
		return nil, err
	}
	kept := s.documents[:0]
	for _, d := range s.documents {
		if d.ID != id {
			kept = append(kept, d)
		}
	}
	s.documents = kept
	s.saveDocumentsLocked(ctx)
	s.docsMu.Unlock()

	s.audit.Record(ctx, sess.Username, "delete_document",
		"deleted document: "+doc.Filename+" (id: "+id+")", ip)
	return doc, nil
}

// ListUsers returns every user except the caller. Gated by the session's
// can_upgrade flag.
func (s *Service) ListUsers(sess *models.Session) ([]*models.UserInfo, error) {
	if err := s.policy.CanListUsers(sess); err != nil {
		return nil, err
	}

	s.usersMu.Lock()
	defer s.usersMu.Unlock()
	out := make([]*models.UserInfo, 0, len(s.users))
	for _, u := range s.users {
		if u.ID == sess.UserID {
			continue
		}
		out = append(out, u.Public())
	}
	return out, nil
}

// UpdateUserPermission changes a user's level. Choosing special forces the
// target's can_upgrade flag on; any other level forces it off, regardless of
// who performs the change. When the caller edits their own record, their live
// session is patched; other sessions of the target keep their stale snapshot.
func (s *Service) UpdateUserPermission(ctx context.Context, sess *models.Session, targetID string, newPerm models.Permission, ip string) (*models.UserInfo, error) {
	if err := s.policy.CanUpdatePermission(sess); err != nil {
		return nil, err
	}
	if !newPerm.Valid() {
		return nil, apperr.Validationf("invalid permission level")
	}

	s.usersMu.Lock()
	target := s.findUserByID(targetID)
	if target == nil {
		s.usersMu.Unlock()
		return nil, apperr.NotFoundf("user not found")
	}
	oldPerm := target.Permission
	target.Permission = newPerm
	target.CanUpgrade = newPerm == models.PermSpecial
	if target.ID == sess.UserID {
		s.sessions.PatchPermission(sess.Token, target.Permission, target.CanUpgrade)
	}
	info := target.Public()
	s.saveUsersLocked(ctx)
	s.usersMu.Unlock()

	s.audit.Record(ctx, sess.Username, "update_permission",
		"changed user "+info.Username+" from "+string(oldPerm)+" to "+string(newPerm), ip)
	return info, nil
}

// ChangePassword updates the caller's own password after verifying the old
// one. Open to any authenticated session.
func (s *Service) ChangePassword(ctx context.Context, sess *models.Session, oldPw, newPw, confirmPw, ip string) error {
	if oldPw == "" || newPw == "" || confirmPw == "" {
		return apperr.Validationf("all fields are required")
	}
	if newPw != confirmPw {
		return apperr.Validationf("new password and confirmation do not match")
	}
	if len(newPw) < 6 {
		return apperr.Validationf("new password must be at least 6 characters")
	}

	s.usersMu.Lock()
	user := s.findUserByID(sess.UserID)
	if user == nil {
		s.usersMu.Unlock()
		return apperr.NotFoundf("user not found")
	}
	if !s.verifier.Verify(user.Password, oldPw) {
		s.usersMu.Unlock()
		return apperr.Unauthenticated("old password is incorrect")
	}
	encoded, err := s.verifier.Encode(newPw)
	if err != nil {
		s.usersMu.Unlock()
		return apperr.Internal("encoding password", err)
	}
	user.Password = encoded
	s.saveUsersLocked(ctx)
	s.usersMu.Unlock()

	s.audit.Record(ctx, sess.Username, "change_password", "password updated", ip)
	return nil
}

// ViewAuditLogs returns the most recent 100 entries for special and
// top_secret callers.
func (s *Service) ViewAuditLogs(sess *models.Session) ([]*models.AuditEntry, error) {
	if err := s.policy.CanViewAuditLog(sess); err != nil {
		return nil, err
	}
	return s.audit.Tail(100), nil
}

// Backup exports all users, all documents and the last 500 audit entries to
// a timestamped artifact. Special callers only.
func (s *Service) Backup(ctx context.Context, sess *models.Session, ip string) (string, time.Time, error) {
	if err := s.policy.CanExportBackup(sess); err != nil {
		return "", time.Time{}, err
	}

	now := time.Now().UTC()
	snap := &models.BackupSnapshot{
		Timestamp: now,
		AuditLogs: s.audit.Tail(500),
	}
	// Deep copies: the snapshot is marshaled outside the locks, and user
	// records are mutated in place by password and permission changes.
	s.usersMu.Lock()
	snap.Users = make([]*models.User, len(s.users))
	for i, u := range s.users {
		cp := *u
		snap.Users[i] = &cp
	}
	s.usersMu.Unlock()
	s.docsMu.Lock()
	snap.Documents = make([]*models.Document, len(s.documents))
	for i, d := range s.documents {
		cp := *d
		snap.Documents[i] = &cp
	}
	s.docsMu.Unlock()

	location, err := s.store.WriteBackup(ctx, snap)
	if err != nil {
		return "", time.Time{}, apperr.Internal("writing backup", err)
	}

	s.audit.Record(ctx, sess.Username, "backup", "created backup: "+location, ip)
	return location, now, nil
}

// Stats reports per-permission counts and storage sizes. Open to any
// authenticated session.
func (s *Service) Stats(ctx context.Context) *models.Stats {
	stats := &models.Stats{
		UserStats:     models.EntityStats{ByPermission: models.PermissionCounts{}},
		DocumentStats: models.EntityStats{ByPermission: models.PermissionCounts{}},
		AuditLogs:     s.audit.Len(),
	}

	s.usersMu.Lock()
	stats.UserStats.Total = len(s.users)
	for _, u := range s.users {
		if u.Permission.Valid() {
			stats.UserStats.ByPermission[u.Permission]++
		}
	}
	s.usersMu.Unlock()

	s.docsMu.Lock()
	stats.DocumentStats.Total = len(s.documents)
	for _, d := range s.documents {
		if d.Permission.Valid() {
			stats.DocumentStats.ByPermission[d.Permission]++
		}
	}
	s.docsMu.Unlock()

	sizes, err := s.store.CollectionSizes(ctx)
	if err != nil {
		log.Error().Err(err).Msg("reading collection sizes failed")
		sizes = map[string]int64{}
	}
	stats.DataSizes = sizes
	return stats
}

// Counts returns the current collection lengths for the health report.
func (s *Service) Counts() (users, documents, auditEntries int) {
	s.usersMu.Lock()
	users = len(s.users)
	s.usersMu.Unlock()
	s.docsMu.Lock()
	documents = len(s.documents)
	s.docsMu.Unlock()
	return users, documents, s.audit.Len()
}

// --- internal helpers; callers hold the relevant mutex ---

func (s *Service) findUserByName(username string) *models.User {
	for _, u := range s.users {
		if u.Username == username {
			return u
		}
	}
	return nil
}

func (s *Service) findUserByID(id string) *models.User {
	for _, u := range s.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (s *Service) findDocumentLocked(id string) *models.Document {
	for _, d := range s.documents {
		if d.ID == id {
			return d
		}
	}
	return nil
}

// saveUsersLocked writes the users collection through to the backend.
// Failures are logged, not surfaced: in-memory state stays authoritative.
func (s *Service) saveUsersLocked(ctx context.Context) {
	if err := s.store.SaveUsers(ctx, s.users); err != nil {
		log.Error().Err(err).Msg("persisting users failed")
	}
}

func (s *Service) saveDocumentsLocked(ctx context.Context) {
	if err := s.store.SaveDocuments(ctx, s.documents); err != nil {
		log.Error().Err(err).Msg("persisting documents failed")
	}
}

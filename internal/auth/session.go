package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/org/docvault/pkg/models"
)

// Registry maps opaque session tokens to session records. Sessions are
// created on login and live for the process lifetime: there is no expiry, no
// revocation and no capacity bound. A restart is the only reset.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*models.Session)}
}

// Create issues a fresh token for the user and stores a snapshot of the
// user's permission and upgrade flag as of now. It always succeeds.
func (r *Registry) Create(user *models.User) string {
	token := uuid.NewString()
	sess := &models.Session{
		Token:      token,
		UserID:     user.ID,
		Username:   user.Username,
		Permission: user.Permission,
		CanUpgrade: user.CanUpgrade,
		CreatedAt:  time.Now().UTC(),
	}
	r.mu.Lock()
	r.sessions[token] = sess
	r.mu.Unlock()
	return token
}

// Resolve looks up the session for a token and returns a copy of the record.
// Returns nil if unknown. Handing out a copy lets callers read session fields
// without holding the registry lock while PatchPermission mutates the stored
// record; a later Resolve of the same token sees the patch.
func (r *Registry) Resolve(token string) *models.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.sessions[token]
	if !ok {
		return nil
	}
	cp := *sess
	return &cp
}

// PatchPermission updates the live session's permission snapshot in place.
// Only the emergency-upgrade and self permission-update flows call this; it
// does not propagate to other sessions belonging to the same user, so those
// sessions keep their stale snapshot until the process restarts.
func (r *Registry) PatchPermission(token string, perm models.Permission, canUpgrade bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sess, ok := r.sessions[token]; ok {
		sess.Permission = perm
		sess.CanUpgrade = canUpgrade
	}
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

package api

import (
	"net/http"
	"time"

	"github.com/org/docvault/internal/core"
	"github.com/org/docvault/pkg/models"
)

// HealthHandler handles GET /api/health
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	users, docs, entries := s.svc.Counts()
	// Display labels, highest level first.
	levels := make([]string, 0, len(models.Permissions))
	for i := len(models.Permissions) - 1; i >= 0; i-- {
		levels = append(levels, models.Permissions[i].DisplayText())
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":            "healthy",
		"timestamp":         time.Now().UTC().Format(time.RFC3339),
		"service":           "docvault",
		"version":           core.Version,
		"user_count":        users,
		"document_count":    docs,
		"audit_log_count":   entries,
		"data_persistence":  true,
		"permission_levels": levels,
	})
}

// StatsHandler handles GET /api/stats
func (s *Server) StatsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Stats(r.Context()))
}

// BackupHandler handles GET /api/backup
func (s *Server) BackupHandler(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromCtx(r.Context())

	location, ts, err := s.svc.Backup(r.Context(), sess, clientIP(r))
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "backup created",
		"backup_file": location,
		"backup_time": ts.Format(time.RFC3339),
	})
}

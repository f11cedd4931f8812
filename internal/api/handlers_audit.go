package api

import "net/http"

// AuditLogHandler handles GET /api/audit-logs. Returns the most recent 100
// entries in insertion order.
func (s *Server) AuditLogHandler(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromCtx(r.Context())

	entries, err := s.svc.ViewAuditLogs(sess)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

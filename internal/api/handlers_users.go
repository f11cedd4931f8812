package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/org/docvault/pkg/models"
)

// UserListHandler handles GET /api/users. The caller's own record is
// excluded.
func (s *Server) UserListHandler(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromCtx(r.Context())

	users, err := s.svc.ListUsers(sess)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// UserPermissionHandler handles PUT /api/users/{id}/permission
func (s *Server) UserPermissionHandler(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromCtx(r.Context())
	id := chi.URLParam(r, "id")

	var req struct {
		Permission models.Permission `json:"permission"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.svc.UpdateUserPermission(r.Context(), sess, id, req.Permission, clientIP(r))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

package api

import (
	"net/http"
)

// LoginHandler handles POST /api/login
func (s *Server) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, user, err := s.svc.Login(r.Context(), req.Username, req.Password, clientIP(r))
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": token,
		"user":       user,
	})
}

// EmergencyUpgradeHandler handles POST /api/emergency-upgrade. The session id
// travels in the body; the gate is the shared secret, not the caller's level.
func (s *Server) EmergencyUpgradeHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID         string `json:"session_id"`
		EmergencyPassword string `json:"emergency_password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.svc.EmergencyUpgrade(r.Context(), req.SessionID, req.EmergencyPassword, clientIP(r))
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "emergency upgrade successful, you now have special permission",
		"user":    user,
	})
}

// ChangePasswordHandler handles POST /api/change-password
func (s *Server) ChangePasswordHandler(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromCtx(r.Context())

	var req struct {
		OldPassword     string `json:"old_password"`
		NewPassword     string `json:"new_password"`
		ConfirmPassword string `json:"confirm_password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.svc.ChangePassword(r.Context(), sess, req.OldPassword, req.NewPassword, req.ConfirmPassword, clientIP(r)); err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"message": "password updated"})
}

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/org/docvault/pkg/models"
)

// DocumentListHandler handles GET /api/documents. The listing carries no
// document content and is filtered to the caller's level.
func (s *Server) DocumentListHandler(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromCtx(r.Context())
	writeJSON(w, http.StatusOK, s.svc.ListDocuments(sess))
}

// DocumentGetHandler handles GET /api/documents/{id}
func (s *Server) DocumentGetHandler(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromCtx(r.Context())
	id := chi.URLParam(r, "id")

	doc, err := s.svc.GetDocument(r.Context(), sess, id, clientIP(r))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// DocumentCreateHandler handles POST /api/documents
func (s *Server) DocumentCreateHandler(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromCtx(r.Context())

	var req struct {
		Filename   string            `json:"filename"`
		Content    string            `json:"content"`
		Permission models.Permission `json:"permission"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	doc, err := s.svc.CreateDocument(r.Context(), sess, req.Filename, req.Content, req.Permission, clientIP(r))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// DocumentDeleteHandler handles DELETE /api/documents/{id}
func (s *Server) DocumentDeleteHandler(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromCtx(r.Context())
	id := chi.URLParam(r, "id")

	doc, err := s.svc.DeleteDocument(r.Context(), sess, id, clientIP(r))
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "document deleted",
		"deleted_document": map[string]any{
			"id":       doc.ID,
			"filename": doc.Filename,
		},
	})
}

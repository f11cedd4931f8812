// Package policy is the central access-control decision surface. Every
// decision combines a caller's session snapshot with a target resource and
// yields nil or a Forbidden error naming the violated rule.
package policy

import (
	"github.com/org/docvault/internal/apperr"
	"github.com/org/docvault/pkg/models"
)

// Engine evaluates access decisions. It is stateless; all inputs arrive as
// arguments.
type Engine struct{}

// NewEngine creates a policy Engine.
func NewEngine() *Engine {
	return &Engine{}
}

// FilterDocuments returns the subset of docs visible to the session: exactly
// those at or below the caller's level. Order is preserved.
func (e *Engine) FilterDocuments(sess *models.Session, docs []*models.Document) []*models.Document {
	level := sess.Permission.Level()
	visible := make([]*models.Document, 0, len(docs))
	for _, d := range docs {
		if d.Permission.Level() <= level {
			visible = append(visible, d)
		}
	}
	return visible
}

// CanViewDocument allows viewing iff the caller's level is at least the
// document's level.
func (e *Engine) CanViewDocument(sess *models.Session, doc *models.Document) error {
	if sess.Permission.Level() < doc.Permission.Level() {
		return apperr.Forbiddenf("insufficient permission to view this document")
	}
	return nil
}

// CanCreateDocument allows creation only for special and top_secret callers.
// The level the caller may create at is a separate check (CanCreateAtLevel),
// evaluated after input validation.
func (e *Engine) CanCreateDocument(sess *models.Session) error {
	switch sess.Permission {
	case models.PermSpecial, models.PermTopSecret:
		return nil
	}
	return apperr.Forbiddenf("only special and top_secret users may create documents")
}

// CanCreateAtLevel restricts the level of a new document: a top_secret caller
// may only create normal or confidential documents; a special caller may
// create any level.
func (e *Engine) CanCreateAtLevel(sess *models.Session, docPerm models.Permission) error {
	if sess.Permission == models.PermTopSecret &&
		(docPerm == models.PermSpecial || docPerm == models.PermTopSecret) {
		return apperr.Forbiddenf("top_secret users may only create confidential and normal documents")
	}
	return nil
}

// CanDeleteDocument allows deletion if any of three independent clauses
// holds: the caller created the document, the caller is special, or the
// caller is top_secret and the document is not special. The rule is exactly
// this disjunction, not a level comparison.
func (e *Engine) CanDeleteDocument(sess *models.Session, doc *models.Document) error {
	if sess.Username == doc.CreatedBy {
		return nil
	}
	if sess.Permission == models.PermSpecial {
		return nil
	}
	if sess.Permission == models.PermTopSecret && doc.Permission != models.PermSpecial {
		return nil
	}
	return apperr.Forbiddenf("insufficient permission to delete this document")
}

// CanListUsers allows listing other users only for callers whose session
// carries the can_upgrade flag.
func (e *Engine) CanListUsers(sess *models.Session) error {
	if !sess.CanUpgrade {
		return apperr.Forbiddenf("insufficient permission to list users")
	}
	return nil
}

// CanUpdatePermission allows changing a user's permission only for callers
// whose session carries the can_upgrade flag.
func (e *Engine) CanUpdatePermission(sess *models.Session) error {
	if !sess.CanUpgrade {
		return apperr.Forbiddenf("insufficient permission to change user permissions")
	}
	return nil
}

// CanViewAuditLog allows reading the audit trail for special and top_secret
// callers.
func (e *Engine) CanViewAuditLog(sess *models.Session) error {
	switch sess.Permission {
	case models.PermSpecial, models.PermTopSecret:
		return nil
	}
	return apperr.Forbiddenf("insufficient permission to view audit logs")
}

// CanExportBackup allows the full data export for special callers only.
// top_secret is deliberately excluded.
func (e *Engine) CanExportBackup(sess *models.Session) error {
	if sess.Permission != models.PermSpecial {
		return apperr.Forbiddenf("special permission required for data backup")
	}
	return nil
}

package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/org/docvault/pkg/models"
)

// PostgresBackend is a Backend backed by PostgreSQL. Collection saves are
// transactional whole-collection replaces, preserving the load/save contract
// of the file backend; a position column keeps slice order stable across
// round trips.
type PostgresBackend struct {
	pool *pgxpool.Pool
}

// NewPostgresBackend opens a pgxpool connection and returns a ready backend.
func NewPostgresBackend(ctx context.Context, connStr string) (*PostgresBackend, error) {
	cfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parsing postgres config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return &PostgresBackend{pool: pool}, nil
}

func (p *PostgresBackend) Close() {
	p.pool.Close()
}

// --- Users ---

func (p *PostgresBackend) LoadUsers(ctx context.Context) ([]*models.User, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, username, password, permission, can_upgrade FROM users ORDER BY position`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u := &models.User{}
		if err := rows.Scan(&u.ID, &u.Username, &u.Password, &u.Permission, &u.CanUpgrade); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrNotFound
	}
	return users, nil
}

func (p *PostgresBackend) SaveUsers(ctx context.Context, users []*models.User) error {
	return p.replace(ctx, "users", func(tx pgx.Tx) error {
		for i, u := range users {
			_, err := tx.Exec(ctx,
				`INSERT INTO users (id, username, password, permission, can_upgrade, position)
				 VALUES ($1, $2, $3, $4, $5, $6)`,
				u.ID, u.Username, u.Password, u.Permission, u.CanUpgrade, i,
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// --- Documents ---

func (p *PostgresBackend) LoadDocuments(ctx context.Context) ([]*models.Document, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, filename, permission, content, created_at, created_by FROM documents ORDER BY position`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		d := &models.Document{}
		if err := rows.Scan(&d.ID, &d.Filename, &d.Permission, &d.Content, &d.CreatedAt, &d.CreatedBy); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, ErrNotFound
	}
	return docs, nil
}

func (p *PostgresBackend) SaveDocuments(ctx context.Context, docs []*models.Document) error {
	return p.replace(ctx, "documents", func(tx pgx.Tx) error {
		for i, d := range docs {
			_, err := tx.Exec(ctx,
				`INSERT INTO documents (id, filename, permission, content, created_at, created_by, position)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				d.ID, d.Filename, d.Permission, d.Content, d.CreatedAt, d.CreatedBy, i,
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// --- Audit log ---

func (p *PostgresBackend) LoadAuditLog(ctx context.Context) ([]*models.AuditEntry, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, ts, username, action, details, source_ip FROM audit_entries ORDER BY position`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.AuditEntry
	for rows.Next() {
		e := &models.AuditEntry{}
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Username, &e.Action, &e.Details, &e.SourceIP); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrNotFound
	}
	return entries, nil
}

func (p *PostgresBackend) SaveAuditLog(ctx context.Context, entries []*models.AuditEntry) error {
	return p.replace(ctx, "audit_entries", func(tx pgx.Tx) error {
		for i, e := range entries {
			_, err := tx.Exec(ctx,
				`INSERT INTO audit_entries (id, ts, username, action, details, source_ip, position)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				e.ID, e.Timestamp, e.Username, e.Action, e.Details, e.SourceIP, i,
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// --- Backups ---

func (p *PostgresBackend) WriteBackup(ctx context.Context, snap *models.BackupSnapshot) (string, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("encoding backup: %w", err)
	}
	var id int64
	err = p.pool.QueryRow(ctx,
		`INSERT INTO backups (created_at, snapshot) VALUES ($1, $2) RETURNING id`,
		snap.Timestamp, data,
	).Scan(&id)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("backups/%d", id), nil
}

func (p *PostgresBackend) CollectionSizes(ctx context.Context) (map[string]int64, error) {
	sizes := make(map[string]int64, 3)
	for name, table := range map[string]string{
		"users":      "users",
		"documents":  "documents",
		"audit_logs": "audit_entries",
	} {
		var size int64
		if err := p.pool.QueryRow(ctx,
			`SELECT pg_total_relation_size($1::regclass)`, table,
		).Scan(&size); err != nil {
			return nil, err
		}
		sizes[name] = size
	}
	return sizes, nil
}

// replace runs delete-all + reinsert for a table in one transaction.
func (p *PostgresBackend) replace(ctx context.Context, table string, insert func(tx pgx.Tx) error) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM `+table); err != nil {
		return err
	}
	if err := insert(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pknews/client/internal/audit/domain"
)

// timeFormat is fixed-width so created_at sorts lexically.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteRepository stores audit logs in the login_audit table.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository returns a repository over db. The login_audit migration must be applied.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts a.
func (r *SQLiteRepository) Create(ctx context.Context, a *domain.AuditLog) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO login_audit (id, action, method, metadata, created_at) VALUES (?, ?, ?, ?, ?)`,
		a.ID, a.Action, a.Method, a.Metadata, a.CreatedAt.UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// ListRecent returns up to limit entries, newest first.
func (r *SQLiteRepository) ListRecent(ctx context.Context, limit int) ([]*domain.AuditLog, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, action, method, metadata, created_at FROM login_audit ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()

	var out []*domain.AuditLog
	for rows.Next() {
		var (
			a       domain.AuditLog
			created string
		)
		if err := rows.Scan(&a.ID, &a.Action, &a.Method, &a.Metadata, &created); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		a.CreatedAt, err = time.Parse(timeFormat, created)
		if err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", created, err)
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

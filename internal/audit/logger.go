// Package audit records login actions to a local trail.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"pknews/client/internal/audit/domain"
	auditrepo "pknews/client/internal/audit/repository"
)

// Logger writes audit events. LogEvent is best-effort: failures are logged and do not
// affect the caller.
type Logger struct {
	repo   auditrepo.Repository
	logger *slog.Logger
	nowF   func() time.Time
}

// NewLogger returns a Logger that persists to repo. logger may be nil.
func NewLogger(repo auditrepo.Repository, logger *slog.Logger) *Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logger{
		repo:   repo,
		logger: logger,
		nowF:   func() time.Time { return time.Now().UTC() },
	}
}

// LogEvent writes one audit entry for action under the given login method.
func (l *Logger) LogEvent(ctx context.Context, action, method, metadata string) {
	if l.repo == nil {
		return
	}
	entry := &domain.AuditLog{
		ID:        uuid.New().String(),
		Action:    action,
		Method:    method,
		Metadata:  metadata,
		CreatedAt: l.nowF(),
	}
	if err := l.repo.Create(ctx, entry); err != nil {
		l.logger.Warn("audit: failed to log event", "action", action, "method", method, "error", err)
	}
}

// Recent returns up to limit entries, newest first.
func (l *Logger) Recent(ctx context.Context, limit int) ([]*domain.AuditLog, error) {
	if l.repo == nil {
		return nil, nil
	}
	return l.repo.ListRecent(ctx, limit)
}

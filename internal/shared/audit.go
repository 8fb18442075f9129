package shared

import (
	"context"
	"log/slog"
	"time"
)

// AuditLog represents a recorded mutation against the books.
type AuditLog struct {
	Action   string
	Entity   string
	EntityID string
	Company  string
	Meta     map[string]any
	At       time.Time
}

// AuditPort abstracts audit logging so services stay testable.
type AuditPort interface {
	Record(ctx context.Context, log AuditLog) error
}

// AuditLogger emits audit records through the structured logger.
type AuditLogger struct {
	logger *slog.Logger
}

// NewAuditLogger returns a new AuditLogger.
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return &AuditLogger{logger: logger}
}

// Record writes the log entry.
func (l *AuditLogger) Record(ctx context.Context, log AuditLog) error {
	if l == nil || l.logger == nil {
		return nil
	}
	at := log.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	l.logger.LogAttrs(ctx, slog.LevelInfo, "audit",
		slog.String("action", log.Action),
		slog.String("entity", log.Entity),
		slog.String("entity_id", log.EntityID),
		slog.String("company", log.Company),
		slog.Time("at", at),
		slog.Any("meta", log.Meta),
	)
	return nil
}

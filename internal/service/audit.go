package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/listenupapp/bookshelf/internal/domain"
	"github.com/listenupapp/bookshelf/internal/store"
)

// auditTimeout bounds an action log write so a busy database cannot hold up the request.
const auditTimeout = 2 * time.Second

// AuditService appends request entries to the action log.
type AuditService struct {
	store  store.Store
	logger *slog.Logger
}

// NewAuditService creates a new audit service.
func NewAuditService(store store.Store, logger *slog.Logger) *AuditService {
	return &AuditService{store: store, logger: logger}
}

// Record logs a visit to path. userID is nil for anonymous requests. An
// empty requestID (callers outside the HTTP router) is replaced with a fresh
// UUID. Failures are logged and never returned.
func (s *AuditService) Record(ctx context.Context, userID *int64, path, requestID string) {
	if requestID == "" {
		requestID = uuid.NewString()
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditTimeout)
	defer cancel()

	entry := &domain.ActionLogEntry{
		UserID:    userID,
		Path:      path,
		RequestID: requestID,
	}
	if err := s.store.RecordAction(ctx, entry); err != nil && s.logger != nil {
		s.logger.Warn("failed to record action", "path", path, "request_id", requestID, "error", err)
	}
}

// Recent returns the latest action log entries.
func (s *AuditService) Recent(ctx context.Context, limit int) ([]*domain.ActionLogEntry, error) {
	return s.store.ListActions(ctx, limit)
}

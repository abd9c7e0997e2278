package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/listenupapp/bookshelf/internal/domain"
)

type actionRow struct {
	ID        int64         `db:"id"`
	UserID    sql.NullInt64 `db:"user_id"`
	Path      string        `db:"path"`
	RequestID string        `db:"request_id"`
	CreatedAt string        `db:"created_at"`
}

// RecordAction appends an entry to the action log.
func (s *Store) RecordAction(ctx context.Context, e *domain.ActionLogEntry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	var userID sql.NullInt64
	if e.UserID != nil {
		userID = sql.NullInt64{Int64: *e.UserID, Valid: true}
	}

	res, err := s.conn(ctx).ExecContext(ctx, `
		INSERT INTO user_actions (user_id, path, request_id, created_at)
		VALUES (?, ?, ?, ?)`,
		userID, e.Path, e.RequestID, formatTime(e.CreatedAt),
	)
	if err != nil {
		return mapError(err)
	}

	e.ID, err = res.LastInsertId()
	return err
}

// ListActions returns the most recent action log entries, newest first.
func (s *Store) ListActions(ctx context.Context, limit int) ([]*domain.ActionLogEntry, error) {
	var rows []actionRow
	err := sqlx.SelectContext(ctx, s.conn(ctx), &rows, `
		SELECT id, user_id, path, request_id, created_at
		FROM user_actions
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}

	entries := make([]*domain.ActionLogEntry, 0, len(rows))
	for _, r := range rows {
		created, err := parseTime(r.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		e := &domain.ActionLogEntry{
			ID:        r.ID,
			Path:      r.Path,
			RequestID: r.RequestID,
			CreatedAt: created,
		}
		if r.UserID.Valid {
			uid := r.UserID.Int64
			e.UserID = &uid
		}
		entries = append(entries, e)
	}
	return entries, nil
}

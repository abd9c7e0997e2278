package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/listenupapp/bookshelf/internal/domain"
)

const sessionColumns = `id, user_id, remember, created_at, expires_at, last_seen_at, ip_address, user_agent`

type sessionRow struct {
	ID         string         `db:"id"`
	UserID     int64          `db:"user_id"`
	Remember   bool           `db:"remember"`
	CreatedAt  string         `db:"created_at"`
	ExpiresAt  string         `db:"expires_at"`
	LastSeenAt string         `db:"last_seen_at"`
	IPAddress  sql.NullString `db:"ip_address"`
	UserAgent  sql.NullString `db:"user_agent"`
}

func (r sessionRow) toDomain() (*domain.Session, error) {
	var (
		sess = &domain.Session{
			ID:        r.ID,
			UserID:    r.UserID,
			Remember:  r.Remember,
			IPAddress: r.IPAddress.String,
			UserAgent: r.UserAgent.String,
		}
		err error
	)

	if sess.CreatedAt, err = parseTime(r.CreatedAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if sess.ExpiresAt, err = parseTime(r.ExpiresAt); err != nil {
		return nil, fmt.Errorf("parse expires_at: %w", err)
	}
	if sess.LastSeenAt, err = parseTime(r.LastSeenAt); err != nil {
		return nil, fmt.Errorf("parse last_seen_at: %w", err)
	}
	return sess, nil
}

// CreateSession inserts a new session.
func (s *Store) CreateSession(ctx context.Context, sess *domain.Session) error {
	_, err := s.conn(ctx).ExecContext(ctx, `
		INSERT INTO sessions (`+sessionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ID,
		sess.UserID,
		sess.Remember,
		formatTime(sess.CreatedAt),
		formatTime(sess.ExpiresAt),
		formatTime(sess.LastSeenAt),
		nullString(sess.IPAddress),
		nullString(sess.UserAgent),
	)
	return mapError(err)
}

// GetSession returns a session by ID. Expired sessions are still returned;
// callers check IsExpired.
func (s *Store) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	var row sessionRow
	if err := sqlx.GetContext(ctx, s.conn(ctx), &row, `SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id); err != nil {
		return nil, mapError(err)
	}
	return row.toDomain()
}

// TouchSession records activity on a session.
func (s *Store) TouchSession(ctx context.Context, id string, seen time.Time) error {
	res, err := s.conn(ctx).ExecContext(ctx, `UPDATE sessions SET last_seen_at = ? WHERE id = ?`, formatTime(seen), id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// DeleteSession removes a session. Removing a missing session is not an error.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	_, err := s.conn(ctx).ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	return err
}

// DeleteExpiredSessions removes all expired sessions and returns how many were deleted.
func (s *Store) DeleteExpiredSessions(ctx context.Context) (int, error) {
	res, err := s.conn(ctx).ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < ?`, formatTime(time.Now()))
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

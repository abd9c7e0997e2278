package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/listenupapp/bookshelf/internal/domain"
)

const userColumns = `id, login, password_hash, role_id, last_name, first_name, middle_name, created_at`

type userRow struct {
	ID           int64  `db:"id"`
	Login        string `db:"login"`
	PasswordHash string `db:"password_hash"`
	RoleID       int    `db:"role_id"`
	LastName     string `db:"last_name"`
	FirstName    string `db:"first_name"`
	MiddleName   string `db:"middle_name"`
	CreatedAt    string `db:"created_at"`
}

func (r userRow) toDomain() (*domain.User, error) {
	created, err := parseTime(r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	return &domain.User{
		ID:           r.ID,
		Login:        r.Login,
		PasswordHash: r.PasswordHash,
		Role:         domain.Role(r.RoleID),
		LastName:     r.LastName,
		FirstName:    r.FirstName,
		MiddleName:   r.MiddleName,
		CreatedAt:    created,
	}, nil
}

// CreateUser inserts a user and sets its ID.
func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	if !u.Role.Valid() {
		return fmt.Errorf("create user %q: invalid role %d", u.Login, u.Role)
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}

	res, err := s.conn(ctx).ExecContext(ctx, `
		INSERT INTO users (login, password_hash, role_id, last_name, first_name, middle_name, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.Login, u.PasswordHash, int(u.Role), u.LastName, u.FirstName, u.MiddleName, formatTime(u.CreatedAt),
	)
	if err != nil {
		return mapError(err)
	}

	u.ID, err = res.LastInsertId()
	return err
}

// GetUser returns the user with the given ID.
func (s *Store) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var row userRow
	err := sqlx.GetContext(ctx, s.conn(ctx), &row, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	if err != nil {
		return nil, mapError(err)
	}
	return row.toDomain()
}

// GetUserByLogin returns the user with the given login. Logins compare exactly.
func (s *Store) GetUserByLogin(ctx context.Context, login string) (*domain.User, error) {
	var row userRow
	err := sqlx.GetContext(ctx, s.conn(ctx), &row, `SELECT `+userColumns+` FROM users WHERE login = ?`, login)
	if err != nil {
		return nil, mapError(err)
	}
	return row.toDomain()
}

// UpdatePasswordHash replaces a user's stored password hash.
func (s *Store) UpdatePasswordHash(ctx context.Context, userID int64, hash string) error {
	res, err := s.conn(ctx).ExecContext(ctx, `UPDATE users SET password_hash = ? WHERE id = ?`, hash, userID)
	if err != nil {
		return mapError(err)
	}
	return requireAffected(res)
}

// ListUsers returns all users ordered by login.
func (s *Store) ListUsers(ctx context.Context) ([]*domain.User, error) {
	var rows []userRow
	if err := sqlx.SelectContext(ctx, s.conn(ctx), &rows, `SELECT `+userColumns+` FROM users ORDER BY login`); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	users := make([]*domain.User, 0, len(rows))
	for _, r := range rows {
		u, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

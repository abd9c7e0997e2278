package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/bookshelf/internal/domain"
	"github.com/listenupapp/bookshelf/internal/store"
)

func TestCreateUser_AndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := &domain.User{
		Login:        "moder",
		PasswordHash: "hash",
		Role:         domain.RoleModerator,
		LastName:     "Ivanova",
		FirstName:    "Anna",
	}
	require.NoError(t, s.CreateUser(ctx, u))
	require.NotZero(t, u.ID)

	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "moder", got.Login)
	assert.Equal(t, domain.RoleModerator, got.Role)
	assert.Equal(t, "Ivanova Anna", got.FullName())
	assert.False(t, got.CreatedAt.IsZero())

	byLogin, err := s.GetUserByLogin(ctx, "moder")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byLogin.ID)
}

func TestCreateUser_DuplicateLogin(t *testing.T) {
	s := newTestStore(t)
	createTestUser(t, s, "alice", domain.RoleUser)

	err := s.CreateUser(context.Background(), &domain.User{Login: "alice", PasswordHash: "x", Role: domain.RoleUser})
	assert.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestCreateUser_InvalidRole(t *testing.T) {
	s := newTestStore(t)
	err := s.CreateUser(context.Background(), &domain.User{Login: "bob", PasswordHash: "x", Role: domain.Role(9)})
	assert.Error(t, err)
}

func TestGetUser_NotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetUser(ctx, 42)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.GetUserByLogin(ctx, "nobody")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdatePasswordHash(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := createTestUser(t, s, "alice", domain.RoleUser)

	require.NoError(t, s.UpdatePasswordHash(ctx, u.ID, "new-hash"))

	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.PasswordHash)

	assert.ErrorIs(t, s.UpdatePasswordHash(ctx, 999, "x"), store.ErrNotFound)
}

func TestListUsers(t *testing.T) {
	s := newTestStore(t)
	createTestUser(t, s, "zed", domain.RoleUser)
	createTestUser(t, s, "admin", domain.RoleAdmin)

	users, err := s.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "admin", users[0].Login)
	assert.Equal(t, "zed", users[1].Login)
}

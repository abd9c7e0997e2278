package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/bookshelf/internal/auth"
	"github.com/listenupapp/bookshelf/internal/domain"
	domainerrors "github.com/listenupapp/bookshelf/internal/errors"
	"github.com/listenupapp/bookshelf/internal/validation"
)

func loginRequest(login, password string, remember bool) LoginRequest {
	return LoginRequest{
		LoginInput: validation.LoginInput{Login: login, Password: password, Remember: remember},
		IPAddress:  "10.0.0.1",
		UserAgent:  "test",
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	u := env.user(t, "admin", "s3cret", domain.RoleAdmin)

	res, err := env.auth.Login(ctx, loginRequest("admin", "s3cret", false))
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.User.ID)
	assert.NotEmpty(t, res.Token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), res.Session.ExpiresAt, 5*time.Second)

	stored, err := env.store.GetSession(ctx, res.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", stored.IPAddress)
}

func TestAuthService_Login_RememberExtendsSession(t *testing.T) {
	env := setupServices(t)
	env.user(t, "reader", "pw", domain.RoleUser)

	res, err := env.auth.Login(context.Background(), loginRequest("reader", "pw", true))
	require.NoError(t, err)
	assert.True(t, res.Session.Remember)
	assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), res.Session.ExpiresAt, 5*time.Second)
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	env := setupServices(t)
	env.user(t, "admin", "s3cret", domain.RoleAdmin)

	tests := []struct {
		name     string
		login    string
		password string
	}{
		{"wrong password", "admin", "nope"},
		{"unknown login", "ghost", "s3cret"},
		{"empty password", "admin", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.auth.Login(context.Background(), LoginRequest{
				LoginInput: validation.LoginInput{Login: tt.login, Password: tt.password},
				IPAddress:  tt.name, // separate limiter bucket per case
			})
			assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
		})
	}
}

func TestAuthService_Login_RateLimited(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	// Burst is 3.
	for range 3 {
		_, err := env.auth.Login(ctx, loginRequest("ghost", "pw", false))
		require.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	}

	_, err := env.auth.Login(ctx, loginRequest("ghost", "pw", false))
	assert.ErrorIs(t, err, domainerrors.ErrRateLimited)
}

func TestAuthService_Login_UpgradesLegacyHash(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	sum := sha256.Sum256([]byte("old-password"))
	legacy := &domain.User{Login: "veteran", PasswordHash: hex.EncodeToString(sum[:]), Role: domain.RoleUser}
	require.NoError(t, env.store.CreateUser(ctx, legacy))

	_, err := env.auth.Login(ctx, loginRequest("veteran", "old-password", false))
	require.NoError(t, err)

	got, err := env.store.GetUser(ctx, legacy.ID)
	require.NoError(t, err)
	assert.False(t, auth.NeedsRehash(got.PasswordHash))
	assert.True(t, auth.VerifyPassword(got.PasswordHash, "old-password"))
}

func TestAuthService_ResolveAndLogout(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	u := env.user(t, "moder", "pw", domain.RoleModerator)

	res, err := env.auth.Login(ctx, loginRequest("moder", "pw", false))
	require.NoError(t, err)

	user, session, err := env.auth.Resolve(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, user.ID)
	assert.Equal(t, domain.RoleModerator, user.Role)
	assert.Equal(t, res.Session.ID, session.ID)

	require.NoError(t, env.auth.Logout(ctx, res.Token))

	_, _, err = env.auth.Resolve(ctx, res.Token)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestAuthService_Resolve_RejectsGarbage(t *testing.T) {
	env := setupServices(t)

	_, _, err := env.auth.Resolve(context.Background(), "v4.local.garbage")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)

	assert.NoError(t, env.auth.Logout(context.Background(), "garbage"), "logout ignores bad tokens")
}

func TestAuthService_PurgeExpiredSessions(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	u := env.user(t, "reader", "pw", domain.RoleUser)

	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, env.store.CreateSession(ctx, &domain.Session{
		ID:         "sess-old",
		UserID:     u.ID,
		CreatedAt:  past,
		ExpiresAt:  past.Add(time.Hour),
		LastSeenAt: past,
	}))

	n, err := env.auth.PurgeExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

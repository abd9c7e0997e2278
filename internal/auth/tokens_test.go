package auth

import (
	"crypto/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/bookshelf/internal/domain"
)

func newTestTokens(t *testing.T) *SessionTokens {
	t.Helper()
	key := make([]byte, keyLength)
	_, err := rand.Read(key)
	require.NoError(t, err)

	tokens, err := NewSessionTokens(key)
	require.NoError(t, err)
	return tokens
}

func TestSessionTokens_IssueVerify(t *testing.T) {
	tokens := newTestTokens(t)
	now := time.Now()

	token := tokens.Issue(&domain.Session{
		ID:        "sess-abc",
		UserID:    42,
		Remember:  true,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	})
	assert.Contains(t, token, "v4.local.")

	claims, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "sess-abc", claims.SessionID)
	assert.Equal(t, int64(42), claims.UserID)
	assert.True(t, claims.Remember)
	assert.NotEmpty(t, claims.TokenID)
}

func TestSessionTokens_Expired(t *testing.T) {
	tokens := newTestTokens(t)
	past := time.Now().Add(-2 * time.Hour)

	token := tokens.Issue(&domain.Session{
		ID:        "sess-old",
		UserID:    1,
		CreatedAt: past,
		ExpiresAt: past.Add(time.Hour),
	})

	_, err := tokens.Verify(token)
	assert.Error(t, err)
}

func TestSessionTokens_WrongKey(t *testing.T) {
	issuer := newTestTokens(t)
	other := newTestTokens(t)
	now := time.Now()

	token := issuer.Issue(&domain.Session{ID: "sess-x", UserID: 1, CreatedAt: now, ExpiresAt: now.Add(time.Hour)})

	_, err := other.Verify(token)
	assert.Error(t, err)

	_, err = issuer.Verify("not-a-token")
	assert.Error(t, err)
}

func TestNewSessionTokens_KeyLength(t *testing.T) {
	_, err := NewSessionTokens([]byte("short"))
	assert.Error(t, err)
}

func TestLoadOrGenerateKey(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	first, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Len(t, first, keyLength)

	second, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Equal(t, first, second, "key is persisted")

	info, err := os.Stat(filepath.Join(dir, keyFileName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoadOrGenerateKey_Corrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, keyFileName), []byte("zz"), 0o600))

	_, err := LoadOrGenerateKey(dir)
	assert.Error(t, err)
}

package service

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/listenupapp/bookshelf/internal/auth"
	"github.com/listenupapp/bookshelf/internal/content"
	"github.com/listenupapp/bookshelf/internal/domain"
	"github.com/listenupapp/bookshelf/internal/ratelimit"
	"github.com/listenupapp/bookshelf/internal/store/sqlite"
	"github.com/listenupapp/bookshelf/internal/validation"
)

type testEnv struct {
	store   *sqlite.Store
	auth    *AuthService
	catalog *CatalogService
	reviews *ReviewService
	audit   *AuditService
	limiter *ratelimit.KeyedRateLimiter
}

// setupServices wires every service against a fresh database.
func setupServices(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	logger := slog.New(slog.DiscardHandler)

	s, err := sqlite.Open(filepath.Join(dir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	key, err := auth.LoadOrGenerateKey(dir)
	require.NoError(t, err)
	tokens, err := auth.NewSessionTokens(key)
	require.NoError(t, err)

	limiter := ratelimit.New(1, 3, time.Minute)
	t.Cleanup(limiter.Stop)

	v := validation.New()
	sanitizer := content.NewSanitizer()
	renderer := content.NewRenderer(sanitizer)

	return &testEnv{
		store: s,
		auth: NewAuthService(s, tokens, limiter, v, AuthConfig{
			SessionDuration:  time.Hour,
			RememberDuration: 30 * 24 * time.Hour,
		}, logger),
		catalog: NewCatalogService(s, v, sanitizer, renderer, 3, logger),
		reviews: NewReviewService(s, v, renderer, logger),
		audit:   NewAuditService(s, logger),
		limiter: limiter,
	}
}

func (e *testEnv) user(t *testing.T, login, password string, role domain.Role) *domain.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	u := &domain.User{Login: login, PasswordHash: hash, Role: role}
	require.NoError(t, e.store.CreateUser(context.Background(), u))
	return u
}

func (e *testEnv) genres(t *testing.T, names ...string) []int64 {
	t.Helper()
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		g := &domain.Genre{Name: name, Slug: name}
		require.NoError(t, e.store.CreateGenre(context.Background(), g))
		ids = append(ids, g.ID)
	}
	return ids
}

func bookRequest(title string, year int, genreIDs ...int64) BookRequest {
	return BookRequest{BookInput: validation.BookInput{
		Title:       title,
		Description: "A **fine** read.",
		Year:        year,
		Author:      "Author",
		Publisher:   "Publisher",
		Pages:       100,
		GenreIDs:    genreIDs,
	}}
}

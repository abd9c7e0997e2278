package web

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/bookshelf/internal/auth"
	"github.com/listenupapp/bookshelf/internal/content"
	"github.com/listenupapp/bookshelf/internal/domain"
	"github.com/listenupapp/bookshelf/internal/service"
	"github.com/listenupapp/bookshelf/internal/store/sqlite"
	"github.com/listenupapp/bookshelf/internal/validation"
)

const testPassword = "correct horse"

type testApp struct {
	server *Server
	store  *sqlite.Store
	auth   *service.AuthService
	dbPath string
}

func setupApp(t *testing.T) *testApp {
	t.Helper()

	dir := t.TempDir()
	logger := slog.New(slog.DiscardHandler)

	dbPath := filepath.Join(dir, "test.db")
	st, err := sqlite.Open(dbPath, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	key, err := auth.LoadOrGenerateKey(dir)
	require.NoError(t, err)
	tokens, err := auth.NewSessionTokens(key)
	require.NoError(t, err)

	v := validation.New()
	sanitizer := content.NewSanitizer()
	renderer := content.NewRenderer(sanitizer)

	authSvc := service.NewAuthService(st, tokens, nil, v, service.AuthConfig{
		SessionDuration:  time.Hour,
		RememberDuration: 24 * time.Hour,
	}, logger)

	srv, err := NewServer(Services{
		Auth:    authSvc,
		Catalog: service.NewCatalogService(st, v, sanitizer, renderer, 3, logger),
		Reviews: service.NewReviewService(st, v, renderer, logger),
		Audit:   service.NewAuditService(st, logger),
	}, st, Config{Key: key}, logger)
	require.NoError(t, err)

	return &testApp{server: srv, store: st, auth: authSvc, dbPath: dbPath}
}

func (a *testApp) user(t *testing.T, login string, role domain.Role) *domain.User {
	t.Helper()
	hash, err := auth.HashPassword(testPassword)
	require.NoError(t, err)
	u := &domain.User{Login: login, PasswordHash: hash, Role: role}
	require.NoError(t, a.store.CreateUser(context.Background(), u))
	return u
}

// sessionFor logs u in and returns the session cookie.
func (a *testApp) sessionFor(t *testing.T, u *domain.User) *http.Cookie {
	t.Helper()
	in := validation.LoginInput{Login: u.Login, Password: testPassword}
	res, err := a.auth.Login(context.Background(), service.LoginRequest{LoginInput: in})
	require.NoError(t, err)
	return &http.Cookie{Name: sessionCookie, Value: res.Token}
}

func (a *testApp) genres(t *testing.T, names ...string) []int64 {
	t.Helper()
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		g := &domain.Genre{Name: name, Slug: strings.ToLower(name)}
		require.NoError(t, a.store.CreateGenre(context.Background(), g))
		ids = append(ids, g.ID)
	}
	return ids
}

func (a *testApp) book(t *testing.T, title string, year int, genreIDs ...int64) *domain.Book {
	t.Helper()
	b := &domain.Book{Title: title, Year: year, Author: "Author", Publisher: "Publisher", Pages: 10}
	require.NoError(t, a.store.CreateBook(context.Background(), b, genreIDs))
	return b
}

func (a *testApp) get(t *testing.T, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	a.server.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) post(t *testing.T, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	a.server.ServeHTTP(rec, req)
	return rec
}

// form returns values carrying a valid form token for u.
func (a *testApp) form(u *domain.User, pairs ...string) url.Values {
	v := url.Values{}
	v.Set(csrfField, a.server.csrfToken(u))
	for i := 0; i+1 < len(pairs); i += 2 {
		v.Add(pairs[i], pairs[i+1])
	}
	return v
}

// flashesIn decodes the flash cookie set on rec.
func (a *testApp) flashesIn(t *testing.T, rec *httptest.ResponseRecorder) []Flash {
	t.Helper()
	c := responseCookie(rec, flashCookie)
	require.NotNil(t, c, "no flash cookie")
	return a.server.flashes.decode(c.Value)
}

func responseCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	var found *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			found = c
		}
	}
	return found
}

func idString(id int64) string {
	return strconv.FormatInt(id, 10)
}

func idPath(id int64, suffix string) string {
	return "/" + idString(id) + "/" + suffix
}

func TestHealth(t *testing.T) {
	app := setupApp(t)

	rec := app.get(t, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"healthy"`)
}

func TestNotFoundPage(t *testing.T) {
	app := setupApp(t)

	rec := app.get(t, "/no/such/page")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page not found")
}

func TestStaticAssets(t *testing.T) {
	app := setupApp(t)

	rec := app.get(t, "/static/style.css")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestID_GeneratedAndLogged(t *testing.T) {
	app := setupApp(t)

	rec := app.get(t, "/")
	require.Equal(t, http.StatusOK, rec.Code)

	id := rec.Header().Get("X-Request-Id")
	_, err := uuid.Parse(id)
	require.NoError(t, err)

	entries, err := app.store.ListActions(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "/", entries[0].Path)
	assert.Equal(t, id, entries[0].RequestID)
}

func TestRequestID_KeepsIncomingHeader(t *testing.T) {
	app := setupApp(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "upstream-42")
	rec := httptest.NewRecorder()
	app.server.ServeHTTP(rec, req)

	assert.Equal(t, "upstream-42", rec.Header().Get("X-Request-Id"))
	entries, err := app.store.ListActions(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "upstream-42", entries[0].RequestID)
}
